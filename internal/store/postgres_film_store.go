package store

import (
	"context"
	"fmt"
	"log/slog"

	"filmorate/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// filmSelect базовая выборка фильма с рейтингом и числом лайков.
const filmSelect = `SELECT f.id, f.name, f.description, f.release_date, f.duration,
       r.id AS "mpa.id", r.name AS "mpa.name",
       COALESCE(l.cnt, 0) AS likes
FROM films f
JOIN ratings r ON r.id = f.rating_id
LEFT JOIN (SELECT film_id, COUNT(user_id) AS cnt FROM film_like GROUP BY film_id) l ON l.film_id = f.id`

// PostgresFilmStore реализует FilmStore для PostgreSQL.
type PostgresFilmStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// Create сохраняет фильм и его связи с жанрами и режиссерами в одной транзакции.
func (s *PostgresFilmStore) Create(ctx context.Context, film *domain.Film) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO films (name, description, release_date, duration, rating_id)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err = tx.QueryRowxContext(ctx, query, film.Name, film.Description, film.ReleaseDate, film.Duration, film.Mpa.ID).Scan(&film.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to create film in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create film: %w", translateError(err, ErrFilmNotFound))
	}
	if err := writeFilmLinks(ctx, tx, film); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit film creation: %w", err)
	}
	s.logger.InfoContext(ctx, "Film created successfully in DB", slog.Int64("filmID", film.ID))
	return nil
}

// Update перезаписывает поля фильма и его связи.
func (s *PostgresFilmStore) Update(ctx context.Context, film *domain.Film) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE films SET name = $1, description = $2, release_date = $3, duration = $4, rating_id = $5
              WHERE id = $6`
	res, err := tx.ExecContext(ctx, query, film.Name, film.Description, film.ReleaseDate, film.Duration, film.Mpa.ID, film.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update film in DB", slog.Int64("filmID", film.ID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to update film: %w", translateError(err, ErrFilmNotFound))
	}
	if err := checkAffected(res, ErrFilmNotFound); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM film_genre WHERE film_id = $1`, film.ID); err != nil {
		return fmt.Errorf("failed to clear film genres: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM film_director WHERE film_id = $1`, film.ID); err != nil {
		return fmt.Errorf("failed to clear film directors: %w", err)
	}
	if err := writeFilmLinks(ctx, tx, film); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit film update: %w", err)
	}
	s.logger.InfoContext(ctx, "Film updated successfully in DB", slog.Int64("filmID", film.ID))
	return nil
}

func writeFilmLinks(ctx context.Context, tx *sqlx.Tx, film *domain.Film) error {
	if ids := film.GenreIDs(); len(ids) > 0 {
		query := `INSERT INTO film_genre (film_id, genre_id) SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`
		if _, err := tx.ExecContext(ctx, query, film.ID, pq.Array(ids)); err != nil {
			return fmt.Errorf("failed to save film genres: %w", translateError(err, ErrGenreNotFound))
		}
	}
	if ids := film.DirectorIDs(); len(ids) > 0 {
		query := `INSERT INTO film_director (film_id, director_id) SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`
		if _, err := tx.ExecContext(ctx, query, film.ID, pq.Array(ids)); err != nil {
			return fmt.Errorf("failed to save film directors: %w", translateError(err, ErrDirectorNotFound))
		}
	}
	return nil
}

func (s *PostgresFilmStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM films WHERE id = $1`, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete film from DB", slog.Int64("filmID", id), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete film: %w", err)
	}
	return checkAffected(res, ErrFilmNotFound)
}

func (s *PostgresFilmStore) GetByID(ctx context.Context, id int64) (*domain.Film, error) {
	var film domain.Film
	if err := s.db.GetContext(ctx, &film, filmSelect+` WHERE f.id = $1`, id); err != nil {
		err = translateError(err, ErrFilmNotFound)
		if err == ErrFilmNotFound {
			s.logger.WarnContext(ctx, "Film not found by ID in DB", slog.Int64("filmID", id))
			return nil, err
		}
		return nil, fmt.Errorf("failed to get film by ID: %w", err)
	}
	return &film, nil
}

func (s *PostgresFilmStore) GetByIDs(ctx context.Context, ids []int64) ([]domain.Film, error) {
	if len(ids) == 0 {
		return []domain.Film{}, nil
	}
	return s.selectFilms(ctx, "get films by IDs", filmSelect+` WHERE f.id = ANY($1) ORDER BY f.id`, pq.Array(ids))
}

func (s *PostgresFilmStore) GetAll(ctx context.Context) ([]domain.Film, error) {
	return s.selectFilms(ctx, "list films", filmSelect+` ORDER BY f.id`)
}

func (s *PostgresFilmStore) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := exists(ctx, s.db, `SELECT EXISTS(SELECT 1 FROM films WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check film existence: %w", err)
	}
	return ok, nil
}

// Popular возвращает фильмы по убыванию числа лайков с необязательными фильтрами по жанру и году.
func (s *PostgresFilmStore) Popular(ctx context.Context, params PopularParams) ([]domain.Film, error) {
	query := filmSelect + `
WHERE ($1::bigint IS NULL OR EXISTS (SELECT 1 FROM film_genre fg WHERE fg.film_id = f.id AND fg.genre_id = $1))
  AND ($2::int IS NULL OR EXTRACT(YEAR FROM f.release_date)::int = $2)
ORDER BY likes DESC, f.id
LIMIT $3`
	return s.selectFilms(ctx, "get popular films", query, params.GenreID, params.Year, params.Count)
}

func (s *PostgresFilmStore) ByDirector(ctx context.Context, directorID int64, sort domain.FilmSort) ([]domain.Film, error) {
	query := filmSelect + ` WHERE f.id IN (SELECT film_id FROM film_director WHERE director_id = $1)`
	switch sort {
	case domain.SortByYear:
		query += ` ORDER BY f.release_date, f.id`
	case domain.SortByLikes:
		query += ` ORDER BY likes DESC, f.id`
	default:
		return nil, fmt.Errorf("unsupported sort %q", sort)
	}
	return s.selectFilms(ctx, "get films by director", query, directorID)
}

// Common возвращает фильмы, которые лайкнули оба пользователя.
func (s *PostgresFilmStore) Common(ctx context.Context, userID, friendID int64) ([]domain.Film, error) {
	query := filmSelect + `
WHERE f.id IN (SELECT film_id FROM film_like WHERE user_id IN ($1, $2) GROUP BY film_id HAVING COUNT(*) > 1)
ORDER BY likes DESC, f.id`
	return s.selectFilms(ctx, "get common films", query, userID, friendID)
}

// Search ищет подстроку без учета регистра в названии и/или имени режиссера.
func (s *PostgresFilmStore) Search(ctx context.Context, query string, by domain.SearchBy) ([]domain.Film, error) {
	byDirector := `EXISTS (SELECT 1 FROM film_director fd JOIN directors d ON d.id = fd.director_id
                          WHERE fd.film_id = f.id AND d.name ILIKE $1)`
	var where string
	switch {
	case by.Title && by.Director:
		where = `f.name ILIKE $1 OR ` + byDirector
	case by.Title:
		where = `f.name ILIKE $1`
	case by.Director:
		where = byDirector
	default:
		return []domain.Film{}, nil
	}
	return s.selectFilms(ctx, "search films", filmSelect+` WHERE `+where+` ORDER BY likes DESC, f.id`, containsPattern(query))
}

func (s *PostgresFilmStore) selectFilms(ctx context.Context, op, query string, args ...any) ([]domain.Film, error) {
	films := []domain.Film{}
	if err := s.db.SelectContext(ctx, &films, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "Failed to "+op, slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return films, nil
}

// PostgresLikeStore реализует LikeStore для PostgreSQL.
type PostgresLikeStore struct {
	db     dbtx
	logger *slog.Logger
}

func (s *PostgresLikeStore) Add(ctx context.Context, filmID, userID int64) error {
	query := `INSERT INTO film_like (film_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := s.db.ExecContext(ctx, query, filmID, userID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to add like", slog.Int64("filmID", filmID), slog.Int64("userID", userID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to add like: %w", translateError(err, ErrFilmNotFound))
	}
	return nil
}

func (s *PostgresLikeStore) Delete(ctx context.Context, filmID, userID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM film_like WHERE film_id = $1 AND user_id = $2`, filmID, userID); err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	return nil
}

func (s *PostgresLikeStore) Exists(ctx context.Context, filmID, userID int64) (bool, error) {
	ok, err := exists(ctx, s.db, `SELECT EXISTS(SELECT 1 FROM film_like WHERE film_id = $1 AND user_id = $2)`, filmID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return ok, nil
}

func (s *PostgresLikeStore) All(ctx context.Context) (map[int64][]int64, error) {
	var rows []struct {
		UserID int64 `db:"user_id"`
		FilmID int64 `db:"film_id"`
	}
	if err := s.db.SelectContext(ctx, &rows, `SELECT user_id, film_id FROM film_like ORDER BY user_id, film_id`); err != nil {
		return nil, fmt.Errorf("failed to get likes: %w", err)
	}
	likes := make(map[int64][]int64)
	for _, row := range rows {
		likes[row.UserID] = append(likes[row.UserID], row.FilmID)
	}
	return likes, nil
}
