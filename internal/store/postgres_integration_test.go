//go:build integration

package store_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"filmorate/internal/domain"
	"filmorate/internal/service"
	"filmorate/internal/store"
	"filmorate/internal/store/migrations"

	"github.com/jmoiron/sqlx"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres поднимает PostgreSQL в контейнере и применяет миграции.
func startPostgres(t *testing.T) *sqlx.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "filmorate",
				"POSTGRES_PASSWORD": "filmorate",
				"POSTGRES_DB":       "filmorate",
			},
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
				wait.ForListeningPort("5432/tcp"),
			).WithDeadline(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatal(err)
	}
	dsn := fmt.Sprintf("postgres://filmorate:filmorate@%s:%s/filmorate?sslmode=disable", host, port.Port())

	db, err := store.Connect(ctx, dsn, store.DBOptions{MaxOpenConns: 5}, discardLogger())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.MigrateUp(db.DB); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}
	if err := migrations.CheckDBMigrationStatus(db.DB); err != nil {
		t.Fatalf("CheckDBMigrationStatus() error = %v", err)
	}
	// Повторный запуск ничего не меняет.
	if err := migrations.MigrateUp(db.DB); err != nil {
		t.Fatalf("second MigrateUp() error = %v", err)
	}
	// Миграции возвращают соединения в пул.
	if inUse := db.Stats().InUse; inUse != 0 {
		t.Fatalf("connections in use after migrations = %d, want 0", inUse)
	}
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func truncate(t *testing.T, db *sqlx.DB) {
	t.Helper()
	_, err := db.Exec(`TRUNCATE users, films, directors, reviews, feed RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("truncate error = %v", err)
	}
}

func TestPostgresStores(t *testing.T) {
	db := startPostgres(t)
	stores, err := store.NewPostgresStores(db, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	svc := service.New(stores, nil, discardLogger())
	ctx := context.Background()

	newUser := func(t *testing.T, login string) *domain.User {
		t.Helper()
		u, err := svc.Users.Create(ctx, domain.User{Login: login, Email: login + "@mail.ru", Birthday: domain.NewDate(1990, time.January, 1)})
		if err != nil {
			t.Fatalf("Users.Create(%q) error = %v", login, err)
		}
		return u
	}
	newFilm := func(t *testing.T, name string, year int, genres []int64, directors []int64) *domain.Film {
		t.Helper()
		f := domain.Film{Name: name, Description: name, ReleaseDate: domain.NewDate(year, time.June, 1), Duration: 100, Mpa: domain.Mpa{ID: 4}}
		for _, g := range genres {
			f.Genres = append(f.Genres, domain.Genre{ID: g})
		}
		for _, d := range directors {
			f.Directors = append(f.Directors, domain.Director{ID: d})
		}
		created, err := svc.Films.AddFilm(ctx, f)
		if err != nil {
			t.Fatalf("Films.AddFilm(%q) error = %v", name, err)
		}
		return created
	}

	t.Run("catalog seeded", func(t *testing.T) {
		mpa, err := svc.Catalog.GetMpaList(ctx)
		if err != nil || len(mpa) != 5 || mpa[4].Name != "NC-17" {
			t.Errorf("GetMpaList() = %v, %v, want 5 ratings ending with NC-17", mpa, err)
		}
		genres, err := svc.Catalog.GetGenres(ctx)
		if err != nil || len(genres) != 6 || genres[0].Name != "Комедия" {
			t.Errorf("GetGenres() = %v, %v, want 6 genres starting with Комедия", genres, err)
		}
	})

	t.Run("film round trip", func(t *testing.T) {
		truncate(t, db)
		director, err := svc.Directors.Create(ctx, domain.Director{Name: "Stanley"})
		if err != nil {
			t.Fatal(err)
		}
		film := newFilm(t, "Shining", 1980, []int64{4, 2, 4}, []int64{director.ID})
		if film.Mpa.Name != "R" {
			t.Errorf("Mpa.Name = %q, want R", film.Mpa.Name)
		}
		if len(film.Genres) != 2 || film.Genres[0].ID != 2 || film.Genres[1].ID != 4 {
			t.Errorf("Genres = %v, want [2 4]", film.Genres)
		}
		if len(film.Directors) != 1 || film.Directors[0].Name != "Stanley" {
			t.Errorf("Directors = %v, want [Stanley]", film.Directors)
		}

		film.Genres = nil
		film.Directors = nil
		updated, err := svc.Films.Update(ctx, *film)
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if len(updated.Genres) != 0 || len(updated.Directors) != 0 {
			t.Errorf("updated links = %v / %v, want none", updated.Genres, updated.Directors)
		}

		found, err := svc.Films.SearchFilms(ctx, "shin", "title,director")
		if err != nil || len(found) != 1 {
			t.Errorf("SearchFilms() = %v, %v, want one film", found, err)
		}
		pct, err := svc.Films.SearchFilms(ctx, "%", "title")
		if err != nil || len(pct) != 0 {
			t.Errorf("SearchFilms(%%) = %v, %v, want no films", pct, err)
		}
	})

	t.Run("likes popular and recommendations", func(t *testing.T) {
		truncate(t, db)
		u1, u2 := newUser(t, "one"), newUser(t, "two")
		f1 := newFilm(t, "Alpha", 2001, []int64{1}, nil)
		f2 := newFilm(t, "Beta", 2002, []int64{2}, nil)
		f3 := newFilm(t, "Gamma", 2001, []int64{1}, nil)

		for _, like := range [][2]int64{{f2.ID, u1.ID}, {f2.ID, u2.ID}, {f1.ID, u1.ID}, {f1.ID, u2.ID}, {f3.ID, u2.ID}} {
			if err := svc.Films.AddLike(ctx, like[0], like[1]); err != nil {
				t.Fatalf("AddLike(%v) error = %v", like, err)
			}
		}
		// Повторный лайк не дублирует строку.
		if err := svc.Films.AddLike(ctx, f1.ID, u1.ID); err != nil {
			t.Fatal(err)
		}

		top, err := svc.Films.GetTopFilms(ctx, 2, nil, nil)
		if err != nil || len(top) != 2 || top[0].ID != f1.ID || top[0].Likes != 2 || top[1].ID != f2.ID {
			t.Errorf("GetTopFilms() = %v, %v, want [Alpha Beta] with 2 likes", top, err)
		}
		genre := int64(1)
		year := 2001
		filtered, err := svc.Films.GetTopFilms(ctx, 10, &genre, &year)
		if err != nil || len(filtered) != 2 {
			t.Errorf("GetTopFilms(genre 1, 2001) = %v, %v, want 2 films", filtered, err)
		}

		common, err := svc.Films.GetCommonFilms(ctx, u1.ID, u2.ID)
		if err != nil || len(common) != 2 {
			t.Errorf("GetCommonFilms() = %v, %v, want 2 films", common, err)
		}

		recs, err := svc.Users.GetRecommendations(ctx, u1.ID)
		if err != nil || len(recs) != 1 || recs[0].ID != f3.ID {
			t.Errorf("GetRecommendations() = %v, %v, want [Gamma]", recs, err)
		}

		events, err := svc.Users.GetEventsList(ctx, u1.ID)
		if err != nil || len(events) != 3 {
			t.Errorf("GetEventsList() = %d events, %v, want 3", len(events), err)
		}
	})

	t.Run("reviews useful score", func(t *testing.T) {
		truncate(t, db)
		author, voter := newUser(t, "author"), newUser(t, "voter")
		film := newFilm(t, "Reviewed", 2010, nil, nil)
		positive := true
		review, err := svc.Reviews.AddReview(ctx, domain.Review{Content: "fine", IsPositive: &positive, UserID: author.ID, FilmID: film.ID})
		if err != nil {
			t.Fatal(err)
		}
		if err := svc.Reviews.AddLikeToReview(ctx, review.ReviewID, voter.ID); err != nil {
			t.Fatal(err)
		}
		if err := svc.Reviews.AddDislikeToReview(ctx, review.ReviewID, author.ID); err != nil {
			t.Fatal(err)
		}
		if err := svc.Reviews.AddDislikeToReview(ctx, review.ReviewID, voter.ID); err != nil {
			t.Fatal(err)
		}
		got, err := svc.Reviews.GetReviewByID(ctx, review.ReviewID)
		if err != nil || got.Useful != -2 {
			t.Errorf("GetReviewByID() useful = %v, %v, want -2", got, err)
		}
		if err := svc.Reviews.DeleteLikeOrDislike(ctx, review.ReviewID, voter.ID); err != nil {
			t.Fatal(err)
		}
		list, err := svc.Reviews.GetReviewsByFilmID(ctx, film.ID, 10)
		if err != nil || len(list) != 1 || list[0].Useful != -1 {
			t.Errorf("GetReviewsByFilmID() = %v, %v, want one review with useful -1", list, err)
		}
	})

	t.Run("delete user cascades", func(t *testing.T) {
		truncate(t, db)
		u1, u2 := newUser(t, "keep"), newUser(t, "gone")
		film := newFilm(t, "Cascade", 2015, nil, nil)
		if err := svc.Users.AddFriend(ctx, u1.ID, u2.ID); err != nil {
			t.Fatal(err)
		}
		if err := svc.Films.AddLike(ctx, film.ID, u2.ID); err != nil {
			t.Fatal(err)
		}
		if err := svc.Users.Delete(ctx, u2.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		friends, err := svc.Users.GetFriends(ctx, u1.ID)
		if err != nil || len(friends) != 0 {
			t.Errorf("GetFriends() = %v, %v, want none after cascade", friends, err)
		}
		got, err := svc.Films.GetFilmByID(ctx, film.ID)
		if err != nil || got.Likes != 0 {
			t.Errorf("film likes = %v, %v, want 0 after cascade", got, err)
		}
		if err := svc.Users.Delete(ctx, u2.ID); !service.IsNotFound(err) {
			t.Errorf("second Delete() error = %v, want not found", err)
		}
	})

	t.Run("foreign key maps to reference error", func(t *testing.T) {
		truncate(t, db)
		err := stores.Likes.Add(ctx, 999, 999)
		if !errors.Is(err, store.ErrReferenceNotFound) {
			t.Errorf("Likes.Add(999, 999) error = %v, want ErrReferenceNotFound", err)
		}
	})

	t.Run("transaction rolls back like and event", func(t *testing.T) {
		truncate(t, db)
		u := newUser(t, "tx")
		f := newFilm(t, "Tx", 2001, nil, nil)
		errStop := errors.New("stop")

		err := stores.Tx.InTx(ctx, func(tx *store.TxStores) error {
			if err := tx.Likes.Add(ctx, f.ID, u.ID); err != nil {
				return err
			}
			if err := tx.Feed.Add(ctx, &domain.Event{Timestamp: 1, UserID: u.ID, EntityID: f.ID, EventType: domain.EventLike, Operation: domain.OperationAdd}); err != nil {
				return err
			}
			return errStop
		})
		if !errors.Is(err, errStop) {
			t.Fatalf("InTx() error = %v, want %v", err, errStop)
		}
		if ok, _ := stores.Likes.Exists(ctx, f.ID, u.ID); ok {
			t.Error("like visible after rollback")
		}
		if events, _ := stores.Feed.ListByUser(ctx, u.ID); len(events) != 0 {
			t.Errorf("events after rollback = %+v, want none", events)
		}
		if inUse := db.Stats().InUse; inUse != 0 {
			t.Errorf("connections in use = %d, want 0", inUse)
		}
	})
}
