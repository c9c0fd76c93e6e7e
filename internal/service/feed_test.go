package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

var errFeedDown = errors.New("feed unavailable")

type failingFeed struct{}

func (failingFeed) Add(context.Context, *domain.Event) error { return errFeedDown }

func (failingFeed) ListByUser(context.Context, int64) ([]domain.Event, error) { return nil, errFeedDown }

// failingFeedTx подменяет ленту внутри транзакции, остальные хранилища настоящие.
type failingFeedTx struct{ store.Transactor }

func (f failingFeedTx) InTx(ctx context.Context, fn func(tx *store.TxStores) error) error {
	return f.Transactor.InTx(ctx, func(tx *store.TxStores) error {
		tx.Feed = failingFeed{}
		return fn(tx)
	})
}

func TestFeedFailureRollsBackWrite(t *testing.T) {
	stores := store.NewMemoryStores()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	healthy := New(stores, nil, logger)
	ctx := context.Background()

	a := mustCreateUser(t, healthy, "a")
	b := mustCreateUser(t, healthy, "b")
	f := mustCreateFilm(t, healthy, "f", 2000)

	broken := *stores
	broken.Tx = failingFeedTx{stores.Tx}
	svc := New(&broken, nil, logger)

	if err := svc.Films.AddLike(ctx, f.ID, a.ID); !errors.Is(err, errFeedDown) {
		t.Errorf("AddLike() error = %v, want %v", err, errFeedDown)
	}
	film, err := healthy.Films.GetFilmByID(ctx, f.ID)
	if err != nil {
		t.Fatal(err)
	}
	if film.Likes != 0 {
		t.Errorf("Likes = %d, want 0 after failed event", film.Likes)
	}

	if err := svc.Users.AddFriend(ctx, a.ID, b.ID); !errors.Is(err, errFeedDown) {
		t.Errorf("AddFriend() error = %v, want %v", err, errFeedDown)
	}
	if friends, _ := healthy.Users.GetFriends(ctx, a.ID); len(friends) != 0 {
		t.Errorf("friends = %v, want none after failed event", userIDs(friends))
	}

	_, err = svc.Reviews.AddReview(ctx, domain.Review{Content: "kept?", IsPositive: boolPtr(true), UserID: a.ID, FilmID: f.ID})
	if !errors.Is(err, errFeedDown) {
		t.Errorf("AddReview() error = %v, want %v", err, errFeedDown)
	}
	if reviews, _ := healthy.Reviews.GetAllReviews(ctx); len(reviews) != 0 {
		t.Errorf("reviews = %+v, want none after failed event", reviews)
	}

	if events, _ := healthy.Users.GetEventsList(ctx, a.ID); len(events) != 0 {
		t.Errorf("events = %+v, want none", events)
	}
}
