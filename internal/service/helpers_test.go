package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

func newTestServices(t *testing.T) (*Services, *store.Stores) {
	t.Helper()
	stores := store.NewMemoryStores()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(stores, nil, logger), stores
}

func mustCreateUser(t *testing.T, svc *Services, login string) *domain.User {
	t.Helper()
	user, err := svc.Users.Create(context.Background(), domain.User{
		Email:    login + "@mail.ru",
		Login:    login,
		Birthday: domain.NewDate(1990, time.January, 1),
	})
	if err != nil {
		t.Fatalf("Users.Create(%q) error = %v", login, err)
	}
	return user
}

func mustCreateFilm(t *testing.T, svc *Services, name string, year int, genres ...int64) *domain.Film {
	t.Helper()
	film := domain.Film{
		Name:        name,
		Description: "description of " + name,
		ReleaseDate: domain.NewDate(year, time.May, 1),
		Duration:    120,
		Mpa:         domain.Mpa{ID: 1},
	}
	for _, g := range genres {
		film.Genres = append(film.Genres, domain.Genre{ID: g})
	}
	created, err := svc.Films.AddFilm(context.Background(), film)
	if err != nil {
		t.Fatalf("Films.AddFilm(%q) error = %v", name, err)
	}
	return created
}

func filmIDs(films []domain.Film) []int64 {
	ids := make([]int64, len(films))
	for i, f := range films {
		ids[i] = f.ID
	}
	return ids
}

func userIDs(users []domain.User) []int64 {
	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func boolPtr(b bool) *bool { return &b }

func newTestServicesLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
