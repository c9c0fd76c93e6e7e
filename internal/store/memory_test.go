package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"filmorate/internal/domain"
)

func seedFilm(t *testing.T, s *Stores, name string, genres ...int64) *domain.Film {
	t.Helper()
	film := &domain.Film{Name: name, ReleaseDate: domain.NewDate(2000, time.January, 1), Duration: 90, Mpa: domain.Mpa{ID: 1}}
	for _, g := range genres {
		film.Genres = append(film.Genres, domain.Genre{ID: g})
	}
	if err := s.Films.Create(context.Background(), film); err != nil {
		t.Fatalf("Films.Create(%q) error = %v", name, err)
	}
	return film
}

func seedUser(t *testing.T, s *Stores, login string) *domain.User {
	t.Helper()
	user := &domain.User{Login: login, Name: login}
	if err := s.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("Users.Create(%q) error = %v", login, err)
	}
	return user
}

func TestMemoryStores_ReferenceChecks(t *testing.T) {
	s := NewMemoryStores()
	ctx := context.Background()
	user := seedUser(t, s, "u")
	film := seedFilm(t, s, "f")

	tests := []struct {
		name string
		err  error
	}{
		{"like unknown film", s.Likes.Add(ctx, 42, user.ID)},
		{"like unknown user", s.Likes.Add(ctx, film.ID, 42)},
		{"friend unknown user", s.Friends.Add(ctx, user.ID, 42)},
		{"film unknown genre", s.Films.Create(ctx, &domain.Film{Name: "x", Mpa: domain.Mpa{ID: 1}, Genres: []domain.Genre{{ID: 99}}})},
		{"review unknown film", s.Reviews.Create(ctx, &domain.Review{UserID: user.ID, FilmID: 42})},
	}
	for _, tt := range tests {
		if !errors.Is(tt.err, ErrReferenceNotFound) {
			t.Errorf("%s: error = %v, want ErrReferenceNotFound", tt.name, tt.err)
		}
	}
}

func TestMemoryStores_DeleteUserCascades(t *testing.T) {
	s := NewMemoryStores()
	ctx := context.Background()
	keep, gone := seedUser(t, s, "keep"), seedUser(t, s, "gone")
	film := seedFilm(t, s, "film")

	positive := true
	review := &domain.Review{Content: "c", IsPositive: &positive, UserID: gone.ID, FilmID: film.ID}
	steps := []error{
		s.Friends.Add(ctx, keep.ID, gone.ID),
		s.Likes.Add(ctx, film.ID, gone.ID),
		s.Reviews.Create(ctx, review),
		s.Feed.Add(ctx, &domain.Event{UserID: gone.ID, EntityID: film.ID, EventType: domain.EventLike, Operation: domain.OperationAdd}),
	}
	for i, err := range steps {
		if err != nil {
			t.Fatalf("setup step %d error = %v", i, err)
		}
	}

	if err := s.Users.Delete(ctx, gone.ID); err != nil {
		t.Fatalf("Users.Delete() error = %v", err)
	}
	if ids, _ := s.Friends.FriendIDs(ctx, keep.ID); len(ids) != 0 {
		t.Errorf("FriendIDs() = %v, want none", ids)
	}
	if got, _ := s.Films.GetByID(ctx, film.ID); got.Likes != 0 {
		t.Errorf("Likes = %d, want 0", got.Likes)
	}
	if ok, _ := s.Reviews.Exists(ctx, review.ReviewID); ok {
		t.Error("review of deleted user still exists")
	}
	if events, _ := s.Feed.ListByUser(ctx, gone.ID); len(events) != 0 {
		t.Errorf("feed = %v, want none", events)
	}
	if err := s.Users.Delete(ctx, gone.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("second Delete() error = %v, want ErrUserNotFound", err)
	}
}

func TestMemoryStores_ReviewsOrderedByUseful(t *testing.T) {
	s := NewMemoryStores()
	ctx := context.Background()
	u1, u2 := seedUser(t, s, "a"), seedUser(t, s, "b")
	film := seedFilm(t, s, "f")

	positive := true
	var ids []int64
	for i := 0; i < 3; i++ {
		r := &domain.Review{Content: "r", IsPositive: &positive, UserID: u1.ID, FilmID: film.ID}
		if err := s.Reviews.Create(ctx, r); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, r.ReviewID)
	}
	_ = s.ReviewLikes.Upsert(ctx, ids[2], u1.ID, domain.VoteLike)
	_ = s.ReviewLikes.Upsert(ctx, ids[2], u2.ID, domain.VoteLike)
	_ = s.ReviewLikes.Upsert(ctx, ids[0], u2.ID, domain.VoteDislike)

	got, err := s.Reviews.GetByFilmID(ctx, film.ID, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ReviewID != ids[2] || got[0].Useful != 2 || got[1].ReviewID != ids[1] {
		t.Errorf("GetByFilmID() = %+v, want review %d (useful 2) then %d", got, ids[2], ids[1])
	}

	// Смена голоса перезаписывает прежний.
	_ = s.ReviewLikes.Upsert(ctx, ids[0], u2.ID, domain.VoteLike)
	r, _ := s.Reviews.GetByID(ctx, ids[0])
	if r.Useful != 1 {
		t.Errorf("Useful after re-vote = %d, want 1", r.Useful)
	}
}

func TestMemoryStores_PopularFilters(t *testing.T) {
	s := NewMemoryStores()
	ctx := context.Background()
	user := seedUser(t, s, "u")
	comedy := seedFilm(t, s, "comedy", 1)
	drama := seedFilm(t, s, "drama", 2)
	_ = s.Likes.Add(ctx, drama.ID, user.ID)

	all, _ := s.Films.Popular(ctx, PopularParams{Count: 10})
	if len(all) != 2 || all[0].ID != drama.ID {
		t.Errorf("Popular() = %v, want drama first", all)
	}
	genre := int64(1)
	only, _ := s.Films.Popular(ctx, PopularParams{Count: 10, GenreID: &genre})
	if len(only) != 1 || only[0].ID != comedy.ID {
		t.Errorf("Popular(genre 1) = %v, want [comedy]", only)
	}
	year := 1999
	none, _ := s.Films.Popular(ctx, PopularParams{Count: 10, Year: &year})
	if len(none) != 0 {
		t.Errorf("Popular(1999) = %v, want none", none)
	}
}

func TestMemoryTransactor(t *testing.T) {
	s := NewMemoryStores()
	ctx := context.Background()
	u := seedUser(t, s, "u")
	f := seedFilm(t, s, "f")
	errStop := errors.New("stop")

	err := s.Tx.InTx(ctx, func(tx *TxStores) error {
		if err := tx.Likes.Add(ctx, f.ID, u.ID); err != nil {
			return err
		}
		if err := tx.Feed.Add(ctx, &domain.Event{UserID: u.ID, EntityID: f.ID, EventType: domain.EventLike, Operation: domain.OperationAdd}); err != nil {
			return err
		}
		return errStop
	})
	if !errors.Is(err, errStop) {
		t.Fatalf("InTx() error = %v, want %v", err, errStop)
	}
	if ok, _ := s.Likes.Exists(ctx, f.ID, u.ID); ok {
		t.Error("like visible after rollback")
	}
	if events, _ := s.Feed.ListByUser(ctx, u.ID); len(events) != 0 {
		t.Errorf("events after rollback = %+v, want none", events)
	}

	err = s.Tx.InTx(ctx, func(tx *TxStores) error {
		if err := tx.Likes.Add(ctx, f.ID, u.ID); err != nil {
			return err
		}
		return tx.Feed.Add(ctx, &domain.Event{UserID: u.ID, EntityID: f.ID, EventType: domain.EventLike, Operation: domain.OperationAdd})
	})
	if err != nil {
		t.Fatalf("InTx() error = %v", err)
	}
	if ok, _ := s.Likes.Exists(ctx, f.ID, u.ID); !ok {
		t.Error("like missing after commit")
	}
	events, _ := s.Feed.ListByUser(ctx, u.ID)
	if len(events) != 1 || events[0].EventID != 1 {
		t.Errorf("events after commit = %+v, want one event with id 1", events)
	}
	// Запись после транзакции видна и продолжает нумерацию.
	second := seedUser(t, s, "second")
	if second.ID != u.ID+1 {
		t.Errorf("next user id = %d, want %d", second.ID, u.ID+1)
	}
}
