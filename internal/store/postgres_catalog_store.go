package store

import (
	"context"
	"fmt"
	"log/slog"

	"filmorate/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresGenreStore реализует GenreStore для PostgreSQL.
type PostgresGenreStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func (s *PostgresGenreStore) GetAll(ctx context.Context) ([]domain.Genre, error) {
	genres := []domain.Genre{}
	if err := s.db.SelectContext(ctx, &genres, `SELECT id, name FROM genres ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return genres, nil
}

func (s *PostgresGenreStore) GetByID(ctx context.Context, id int64) (*domain.Genre, error) {
	var genre domain.Genre
	if err := s.db.GetContext(ctx, &genre, `SELECT id, name FROM genres WHERE id = $1`, id); err != nil {
		if err = translateError(err, ErrGenreNotFound); err == ErrGenreNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get genre: %w", err)
	}
	return &genre, nil
}

func (s *PostgresGenreStore) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, s.db, `SELECT EXISTS(SELECT 1 FROM genres WHERE id = $1)`, id)
}

// ByFilmIDs возвращает жанры фильмов, упорядоченные по id жанра.
func (s *PostgresGenreStore) ByFilmIDs(ctx context.Context, filmIDs []int64) (map[int64][]domain.Genre, error) {
	result := make(map[int64][]domain.Genre, len(filmIDs))
	if len(filmIDs) == 0 {
		return result, nil
	}
	var rows []struct {
		FilmID int64 `db:"film_id"`
		domain.Genre
	}
	query := `SELECT fg.film_id, g.id, g.name FROM film_genre fg JOIN genres g ON g.id = fg.genre_id
              WHERE fg.film_id = ANY($1) ORDER BY fg.film_id, g.id`
	if err := s.db.SelectContext(ctx, &rows, query, pq.Array(filmIDs)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to load film genres", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load film genres: %w", err)
	}
	for _, row := range rows {
		result[row.FilmID] = append(result[row.FilmID], row.Genre)
	}
	return result, nil
}

// PostgresMpaStore реализует MpaStore для PostgreSQL.
type PostgresMpaStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func (s *PostgresMpaStore) GetAll(ctx context.Context) ([]domain.Mpa, error) {
	ratings := []domain.Mpa{}
	if err := s.db.SelectContext(ctx, &ratings, `SELECT id, name FROM ratings ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list mpa ratings: %w", err)
	}
	return ratings, nil
}

func (s *PostgresMpaStore) GetByID(ctx context.Context, id int64) (*domain.Mpa, error) {
	var mpa domain.Mpa
	if err := s.db.GetContext(ctx, &mpa, `SELECT id, name FROM ratings WHERE id = $1`, id); err != nil {
		if err = translateError(err, ErrMpaNotFound); err == ErrMpaNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get mpa rating: %w", err)
	}
	return &mpa, nil
}

func (s *PostgresMpaStore) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, s.db, `SELECT EXISTS(SELECT 1 FROM ratings WHERE id = $1)`, id)
}

// PostgresDirectorStore реализует DirectorStore для PostgreSQL.
type PostgresDirectorStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func (s *PostgresDirectorStore) Create(ctx context.Context, director *domain.Director) error {
	if err := s.db.QueryRowxContext(ctx, `INSERT INTO directors (name) VALUES ($1) RETURNING id`, director.Name).Scan(&director.ID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to create director in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create director: %w", err)
	}
	return nil
}

func (s *PostgresDirectorStore) Update(ctx context.Context, director *domain.Director) error {
	res, err := s.db.ExecContext(ctx, `UPDATE directors SET name = $1 WHERE id = $2`, director.Name, director.ID)
	if err != nil {
		return fmt.Errorf("failed to update director: %w", err)
	}
	return checkAffected(res, ErrDirectorNotFound)
}

func (s *PostgresDirectorStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM directors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete director: %w", err)
	}
	return checkAffected(res, ErrDirectorNotFound)
}

func (s *PostgresDirectorStore) GetByID(ctx context.Context, id int64) (*domain.Director, error) {
	var director domain.Director
	if err := s.db.GetContext(ctx, &director, `SELECT id, name FROM directors WHERE id = $1`, id); err != nil {
		if err = translateError(err, ErrDirectorNotFound); err == ErrDirectorNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get director: %w", err)
	}
	return &director, nil
}

func (s *PostgresDirectorStore) GetAll(ctx context.Context) ([]domain.Director, error) {
	directors := []domain.Director{}
	if err := s.db.SelectContext(ctx, &directors, `SELECT id, name FROM directors ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list directors: %w", err)
	}
	return directors, nil
}

func (s *PostgresDirectorStore) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, s.db, `SELECT EXISTS(SELECT 1 FROM directors WHERE id = $1)`, id)
}

func (s *PostgresDirectorStore) ByFilmIDs(ctx context.Context, filmIDs []int64) (map[int64][]domain.Director, error) {
	result := make(map[int64][]domain.Director, len(filmIDs))
	if len(filmIDs) == 0 {
		return result, nil
	}
	var rows []struct {
		FilmID int64 `db:"film_id"`
		domain.Director
	}
	query := `SELECT fd.film_id, d.id, d.name FROM film_director fd JOIN directors d ON d.id = fd.director_id
              WHERE fd.film_id = ANY($1) ORDER BY fd.film_id, d.id`
	if err := s.db.SelectContext(ctx, &rows, query, pq.Array(filmIDs)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to load film directors", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load film directors: %w", err)
	}
	for _, row := range rows {
		result[row.FilmID] = append(result[row.FilmID], row.Director)
	}
	return result, nil
}
