package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"filmorate/internal/domain"
)

func mustAddReview(t *testing.T, svc *Services, userID, filmID int64, content string) *domain.Review {
	t.Helper()
	r, err := svc.Reviews.AddReview(context.Background(), domain.Review{
		Content: content, IsPositive: boolPtr(true), UserID: userID, FilmID: filmID,
	})
	if err != nil {
		t.Fatalf("AddReview() error = %v", err)
	}
	return r
}

func TestReviewService_AddValidation(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	u := mustCreateUser(t, svc, "u")
	f := mustCreateFilm(t, svc, "f", 2000)

	tests := []struct {
		name       string
		review     domain.Review
		validation bool
		notFound   bool
	}{
		{name: "blank content", review: domain.Review{Content: "  ", IsPositive: boolPtr(true), UserID: u.ID, FilmID: f.ID}, validation: true},
		{name: "missing isPositive", review: domain.Review{Content: "ok", UserID: u.ID, FilmID: f.ID}, validation: true},
		{name: "unknown user", review: domain.Review{Content: "ok", IsPositive: boolPtr(true), UserID: 999, FilmID: f.ID}, notFound: true},
		{name: "negative user", review: domain.Review{Content: "ok", IsPositive: boolPtr(true), UserID: -2, FilmID: f.ID}, notFound: true},
		{name: "unknown film", review: domain.Review{Content: "ok", IsPositive: boolPtr(true), UserID: u.ID, FilmID: 999}, notFound: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Reviews.AddReview(ctx, tt.review)
			if tt.validation && !IsValidation(err) {
				t.Errorf("AddReview() error = %v, want ValidationError", err)
			}
			if tt.notFound && !IsNotFound(err) {
				t.Errorf("AddReview() error = %v, want NotFoundError", err)
			}
		})
	}
}

func TestReviewService_ContentLengthBoundary(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	u := mustCreateUser(t, svc, "u")
	f := mustCreateFilm(t, svc, "f", 2000)

	content := strings.Repeat("щ", 500)
	r, err := svc.Reviews.AddReview(ctx, domain.Review{Content: content, IsPositive: boolPtr(true), UserID: u.ID, FilmID: f.ID})
	if err != nil {
		t.Fatalf("AddReview(500 runes) error = %v", err)
	}
	if r.Content != content {
		t.Errorf("Content rune count = %d, want 500", utf8.RuneCountInString(r.Content))
	}

	_, err = svc.Reviews.AddReview(ctx, domain.Review{Content: content + "щ", IsPositive: boolPtr(true), UserID: u.ID, FilmID: f.ID})
	if !IsValidation(err) {
		t.Errorf("AddReview(501 runes) error = %v, want ValidationError", err)
	}
}

func TestReviewService_UsefulIsSumOfVotes(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	author := mustCreateUser(t, svc, "author")
	v1 := mustCreateUser(t, svc, "v1")
	v2 := mustCreateUser(t, svc, "v2")
	v3 := mustCreateUser(t, svc, "v3")
	f := mustCreateFilm(t, svc, "f", 2000)
	r := mustAddReview(t, svc, author.ID, f.ID, "This film is sooo good")

	if r.Useful != 0 {
		t.Errorf("new review Useful = %d, want 0", r.Useful)
	}

	steps := []struct {
		name string
		do   func() error
		want int64
	}{
		{"like v1", func() error { return svc.Reviews.AddLikeToReview(ctx, r.ReviewID, v1.ID) }, 1},
		{"like v2", func() error { return svc.Reviews.AddLikeToReview(ctx, r.ReviewID, v2.ID) }, 2},
		{"dislike v3", func() error { return svc.Reviews.AddDislikeToReview(ctx, r.ReviewID, v3.ID) }, 1},
		{"v1 switches to dislike", func() error { return svc.Reviews.AddDislikeToReview(ctx, r.ReviewID, v1.ID) }, -1},
		{"v3 removes vote", func() error { return svc.Reviews.DeleteLikeOrDislike(ctx, r.ReviewID, v3.ID) }, 0},
	}
	for _, step := range steps {
		if err := step.do(); err != nil {
			t.Fatalf("%s: error = %v", step.name, err)
		}
		got, err := svc.Reviews.GetReviewByID(ctx, r.ReviewID)
		if err != nil {
			t.Fatalf("GetReviewByID() error = %v", err)
		}
		if got.Useful != step.want {
			t.Errorf("%s: Useful = %d, want %d", step.name, got.Useful, step.want)
		}
	}
}

func TestReviewService_VoteUnknownEntities(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	u := mustCreateUser(t, svc, "u")
	f := mustCreateFilm(t, svc, "f", 2000)
	r := mustAddReview(t, svc, u.ID, f.ID, "text")

	if err := svc.Reviews.AddLikeToReview(ctx, r.ReviewID, 999); !IsNotFound(err) {
		t.Errorf("AddLikeToReview(unknown user) error = %v, want NotFoundError", err)
	}
	if err := svc.Reviews.AddDislikeToReview(ctx, 999, u.ID); !IsNotFound(err) {
		t.Errorf("AddDislikeToReview(unknown review) error = %v, want NotFoundError", err)
	}
	if err := svc.Reviews.DeleteLikeOrDislike(ctx, -1, u.ID); !IsNotFound(err) {
		t.Errorf("DeleteLikeOrDislike(-1) error = %v, want NotFoundError", err)
	}
}

func TestReviewService_UpdateKeepsAuthor(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	author := mustCreateUser(t, svc, "author")
	other := mustCreateUser(t, svc, "other")
	f := mustCreateFilm(t, svc, "f", 2000)
	r := mustAddReview(t, svc, author.ID, f.ID, "initial")

	updated, err := svc.Reviews.UpdateReview(ctx, domain.Review{
		ReviewID: r.ReviewID, Content: "Update review", IsPositive: boolPtr(false), UserID: other.ID, FilmID: f.ID,
	})
	if err != nil {
		t.Fatalf("UpdateReview() error = %v", err)
	}
	if updated.Content != "Update review" || *updated.IsPositive {
		t.Errorf("updated = %+v, want new content and negative", updated)
	}
	if updated.UserID != author.ID {
		t.Errorf("UserID = %d, want author %d", updated.UserID, author.ID)
	}

	events, _ := svc.Users.GetEventsList(ctx, author.ID)
	if len(events) != 2 || events[1].Operation != domain.OperationUpdate || events[1].EventType != domain.EventReview {
		t.Errorf("author events = %+v, want REVIEW ADD then UPDATE", events)
	}
	otherEvents, _ := svc.Users.GetEventsList(ctx, other.ID)
	if len(otherEvents) != 0 {
		t.Errorf("other user events = %+v, want none", otherEvents)
	}

	_, err = svc.Reviews.UpdateReview(ctx, domain.Review{ReviewID: 999, Content: "x", IsPositive: boolPtr(true), UserID: author.ID, FilmID: f.ID})
	if !IsNotFound(err) {
		t.Errorf("UpdateReview(unknown) error = %v, want NotFoundError", err)
	}
}

func TestReviewService_Delete(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	u := mustCreateUser(t, svc, "u")
	f := mustCreateFilm(t, svc, "f", 2000)
	r := mustAddReview(t, svc, u.ID, f.ID, "text")

	if err := svc.Reviews.DeleteReview(ctx, r.ReviewID); err != nil {
		t.Fatalf("DeleteReview() error = %v", err)
	}
	if _, err := svc.Reviews.GetReviewByID(ctx, r.ReviewID); !IsNotFound(err) {
		t.Errorf("GetReviewByID() after delete error = %v, want NotFoundError", err)
	}
	if err := svc.Reviews.DeleteReview(ctx, r.ReviewID); !IsNotFound(err) {
		t.Errorf("second DeleteReview() error = %v, want NotFoundError", err)
	}
	events, _ := svc.Users.GetEventsList(ctx, u.ID)
	if last := events[len(events)-1]; last.Operation != domain.OperationRemove || last.EntityID != r.ReviewID {
		t.Errorf("last event = %+v, want REVIEW REMOVE %d", last, r.ReviewID)
	}
}

func TestReviewService_ListByFilm(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	u := mustCreateUser(t, svc, "u")
	voter := mustCreateUser(t, svc, "voter")
	f1 := mustCreateFilm(t, svc, "f1", 2000)
	f2 := mustCreateFilm(t, svc, "f2", 2001)
	r1 := mustAddReview(t, svc, u.ID, f1.ID, "first")
	r2 := mustAddReview(t, svc, u.ID, f1.ID, "second")
	r3 := mustAddReview(t, svc, u.ID, f2.ID, "third")
	if err := svc.Reviews.AddLikeToReview(ctx, r2.ReviewID, voter.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Reviews.AddDislikeToReview(ctx, r3.ReviewID, voter.ID); err != nil {
		t.Fatal(err)
	}

	ids := func(reviews []domain.Review) []int64 {
		out := make([]int64, len(reviews))
		for i, r := range reviews {
			out[i] = r.ReviewID
		}
		return out
	}

	tests := []struct {
		name   string
		filmID int64
		count  int
		want   []int64
	}{
		{"all films sentinel", AllFilms, 10, []int64{r2.ReviewID, r1.ReviewID, r3.ReviewID}},
		{"unknown film falls back", 999, 1, []int64{r2.ReviewID, r1.ReviewID, r3.ReviewID}},
		{"film ordered by useful", f1.ID, 10, []int64{r2.ReviewID, r1.ReviewID}},
		{"count limit", f1.ID, 1, []int64{r2.ReviewID}},
		{"default count", f2.ID, 0, []int64{r3.ReviewID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Reviews.GetReviewsByFilmID(ctx, tt.filmID, tt.count)
			if err != nil {
				t.Fatalf("GetReviewsByFilmID() error = %v", err)
			}
			if !equalIDs(ids(got), tt.want) {
				t.Errorf("GetReviewsByFilmID(%d, %d) = %v, want %v", tt.filmID, tt.count, ids(got), tt.want)
			}
		})
	}
}

type stubChecker struct {
	users map[int64]bool
	films map[int64]bool
	err   error
}

func (c stubChecker) UserExists(ctx context.Context, id int64) (bool, error) { return c.users[id], c.err }
func (c stubChecker) FilmExists(ctx context.Context, id int64) (bool, error) { return c.films[id], c.err }

func TestReviewService_UsesEntityChecker(t *testing.T) {
	_, stores := newTestServices(t)
	ctx := context.Background()
	svc := NewReviewService(stores, stubChecker{users: map[int64]bool{}, films: map[int64]bool{}}, newTestServicesLogger())

	_, err := svc.AddReview(ctx, domain.Review{Content: "x", IsPositive: boolPtr(true), UserID: 1, FilmID: 1})
	if !IsNotFound(err) {
		t.Errorf("AddReview() error = %v, want NotFoundError from checker", err)
	}

	boom := errors.New("directory unavailable")
	svc = NewReviewService(stores, stubChecker{err: boom}, newTestServicesLogger())
	_, err = svc.AddReview(ctx, domain.Review{Content: "x", IsPositive: boolPtr(true), UserID: 1, FilmID: 1})
	if !errors.Is(err, boom) {
		t.Errorf("AddReview() error = %v, want %v", err, boom)
	}
}
