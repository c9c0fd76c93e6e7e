package store

import (
	"context"
	"fmt"
	"log/slog"

	"filmorate/internal/domain"

	"github.com/jmoiron/sqlx"
)

// reviewSelect выборка отзыва; useful считается суммой оценок в момент запроса.
const reviewSelect = `SELECT r.id, r.content, r.is_positive, r.user_id, r.film_id, COALESCE(v.useful, 0) AS useful
FROM reviews r
LEFT JOIN (SELECT review_id, SUM(useful) AS useful FROM review_like GROUP BY review_id) v ON v.review_id = r.id`

const reviewOrder = ` ORDER BY useful DESC, r.id`

// PostgresReviewStore реализует ReviewStore для PostgreSQL.
type PostgresReviewStore struct {
	db     dbtx
	logger *slog.Logger
}

func (s *PostgresReviewStore) Create(ctx context.Context, review *domain.Review) error {
	query := `INSERT INTO reviews (content, is_positive, user_id, film_id) VALUES ($1, $2, $3, $4) RETURNING id`
	err := s.db.QueryRowxContext(ctx, query, review.Content, review.IsPositive, review.UserID, review.FilmID).Scan(&review.ReviewID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to create review in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create review: %w", translateError(err, ErrReviewNotFound))
	}
	review.Useful = 0
	s.logger.InfoContext(ctx, "Review created successfully in DB", slog.Int64("reviewID", review.ReviewID))
	return nil
}

// Update меняет только текст и знак отзыва; автор, фильм и useful не меняются.
func (s *PostgresReviewStore) Update(ctx context.Context, review *domain.Review) error {
	res, err := s.db.ExecContext(ctx, `UPDATE reviews SET content = $1, is_positive = $2 WHERE id = $3`,
		review.Content, review.IsPositive, review.ReviewID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update review in DB", slog.Int64("reviewID", review.ReviewID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to update review: %w", err)
	}
	return checkAffected(res, ErrReviewNotFound)
}

func (s *PostgresReviewStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return checkAffected(res, ErrReviewNotFound)
}

func (s *PostgresReviewStore) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	var review domain.Review
	if err := s.db.GetContext(ctx, &review, reviewSelect+` WHERE r.id = $1`, id); err != nil {
		err = translateError(err, ErrReviewNotFound)
		if err == ErrReviewNotFound {
			s.logger.WarnContext(ctx, "Review not found by ID in DB", slog.Int64("reviewID", id))
			return nil, err
		}
		return nil, fmt.Errorf("failed to get review by ID: %w", err)
	}
	return &review, nil
}

func (s *PostgresReviewStore) GetAll(ctx context.Context) ([]domain.Review, error) {
	reviews := []domain.Review{}
	if err := s.db.SelectContext(ctx, &reviews, reviewSelect+reviewOrder); err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (s *PostgresReviewStore) GetByFilmID(ctx context.Context, filmID int64, count int) ([]domain.Review, error) {
	reviews := []domain.Review{}
	query := reviewSelect + ` WHERE r.film_id = $1` + reviewOrder + ` LIMIT $2`
	if err := s.db.SelectContext(ctx, &reviews, query, filmID, count); err != nil {
		return nil, fmt.Errorf("failed to list film reviews: %w", err)
	}
	return reviews, nil
}

func (s *PostgresReviewStore) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := exists(ctx, s.db, `SELECT EXISTS(SELECT 1 FROM reviews WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check review existence: %w", err)
	}
	return ok, nil
}

// PostgresReviewLikeStore реализует ReviewLikeStore для PostgreSQL.
type PostgresReviewLikeStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// Upsert ставит оценку или меняет существующую оценку пользователя.
func (s *PostgresReviewLikeStore) Upsert(ctx context.Context, reviewID, userID int64, vote domain.Vote) error {
	query := `INSERT INTO review_like (review_id, user_id, useful) VALUES ($1, $2, $3)
              ON CONFLICT (review_id, user_id) DO UPDATE SET useful = EXCLUDED.useful`
	if _, err := s.db.ExecContext(ctx, query, reviewID, userID, int16(vote)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save review vote", slog.Int64("reviewID", reviewID), slog.Int64("userID", userID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to save review vote: %w", translateError(err, ErrReviewNotFound))
	}
	return nil
}

func (s *PostgresReviewLikeStore) Delete(ctx context.Context, reviewID, userID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM review_like WHERE review_id = $1 AND user_id = $2`, reviewID, userID); err != nil {
		return fmt.Errorf("failed to delete review vote: %w", err)
	}
	return nil
}

// PostgresFeedStore реализует FeedStore для PostgreSQL.
type PostgresFeedStore struct {
	db     dbtx
	logger *slog.Logger
}

func (s *PostgresFeedStore) Add(ctx context.Context, event *domain.Event) error {
	query := `INSERT INTO feed (event_timestamp, event_type, operation, user_id, entity_id)
              VALUES ($1, $2, $3, $4, $5) RETURNING event_id`
	err := s.db.QueryRowxContext(ctx, query, event.Timestamp, event.EventType, event.Operation, event.UserID, event.EntityID).Scan(&event.EventID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to add feed event", slog.Int64("userID", event.UserID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to add feed event: %w", translateError(err, ErrUserNotFound))
	}
	return nil
}

func (s *PostgresFeedStore) ListByUser(ctx context.Context, userID int64) ([]domain.Event, error) {
	events := []domain.Event{}
	query := `SELECT event_id, event_timestamp, event_type, operation, user_id, entity_id
              FROM feed WHERE user_id = $1 ORDER BY event_id`
	if err := s.db.SelectContext(ctx, &events, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list feed: %w", err)
	}
	return events, nil
}
