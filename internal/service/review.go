package service

import (
	"context"
	"log/slog"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

// AllFilms значение filmId, означающее выборку отзывов без фильтра по фильму.
const AllFilms int64 = -1

// ReviewService управляет отзывами и оценками отзывов.
type ReviewService struct {
	reviews store.ReviewStore
	votes   store.ReviewLikeStore
	checker EntityChecker
	feedRec *feedRecorder
	logger  *slog.Logger
}

func NewReviewService(stores *store.Stores, checker EntityChecker, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		reviews: stores.Reviews,
		votes:   stores.ReviewLikes,
		checker: checker,
		feedRec: newFeedRecorder(stores.Tx, logger),
		logger:  logger,
	}
}

func (s *ReviewService) requireAuthorAndFilm(ctx context.Context, review *domain.Review) error {
	if err := require(ctx, "film", review.FilmID, s.checker.FilmExists); err != nil {
		return err
	}
	return require(ctx, "user", review.UserID, s.checker.UserExists)
}

func (s *ReviewService) requireReview(ctx context.Context, id int64) error {
	return require(ctx, "review", id, s.reviews.Exists)
}

func (s *ReviewService) AddReview(ctx context.Context, review domain.Review) (*domain.Review, error) {
	if err := validate("can't create review", &review); err != nil {
		return nil, err
	}
	if err := s.requireAuthorAndFilm(ctx, &review); err != nil {
		return nil, err
	}
	err := s.feedRec.write(ctx, func(tx *store.TxStores) (*domain.Event, error) {
		if err := tx.Reviews.Create(ctx, &review); err != nil {
			return nil, translate(err, "film", review.FilmID)
		}
		return s.feedRec.event(review.UserID, review.ReviewID, domain.EventReview, domain.OperationAdd), nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Review added", slog.Int64("reviewID", review.ReviewID), slog.Int64("userID", review.UserID))
	return &review, nil
}

// UpdateReview меняет текст и знак отзыва. Событие пишется от имени автора отзыва.
func (s *ReviewService) UpdateReview(ctx context.Context, review domain.Review) (*domain.Review, error) {
	if err := validate("can't update review", &review); err != nil {
		return nil, err
	}
	if err := s.requireAuthorAndFilm(ctx, &review); err != nil {
		return nil, err
	}
	if review.ReviewID <= 0 {
		return nil, notFound("review", review.ReviewID)
	}
	var updated *domain.Review
	err := s.feedRec.write(ctx, func(tx *store.TxStores) (*domain.Event, error) {
		if err := tx.Reviews.Update(ctx, &review); err != nil {
			return nil, translate(err, "review", review.ReviewID)
		}
		var err error
		if updated, err = tx.Reviews.GetByID(ctx, review.ReviewID); err != nil {
			return nil, translate(err, "review", review.ReviewID)
		}
		return s.feedRec.event(updated.UserID, updated.ReviewID, domain.EventReview, domain.OperationUpdate), nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Review updated", slog.Int64("reviewID", updated.ReviewID))
	return updated, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, id int64) error {
	review, err := s.GetReviewByID(ctx, id)
	if err != nil {
		return err
	}
	err = s.feedRec.write(ctx, func(tx *store.TxStores) (*domain.Event, error) {
		if err := tx.Reviews.Delete(ctx, id); err != nil {
			return nil, translate(err, "review", id)
		}
		return s.feedRec.event(review.UserID, review.ReviewID, domain.EventReview, domain.OperationRemove), nil
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Review deleted", slog.Int64("reviewID", id))
	return nil
}

func (s *ReviewService) GetReviewByID(ctx context.Context, id int64) (*domain.Review, error) {
	if id <= 0 {
		return nil, notFound("review", id)
	}
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "review", id)
	}
	return review, nil
}

func (s *ReviewService) GetAllReviews(ctx context.Context) ([]domain.Review, error) {
	return s.reviews.GetAll(ctx)
}

// GetReviewsByFilmID возвращает до count отзывов фильма. Для AllFilms и для
// несуществующего фильма возвращаются все отзывы.
func (s *ReviewService) GetReviewsByFilmID(ctx context.Context, filmID int64, count int) ([]domain.Review, error) {
	if count <= 0 {
		count = DefaultTopCount
	}
	if filmID == AllFilms || filmID <= 0 {
		return s.GetAllReviews(ctx)
	}
	ok, err := s.checker.FilmExists(ctx, filmID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return s.GetAllReviews(ctx)
	}
	return s.reviews.GetByFilmID(ctx, filmID, count)
}

func (s *ReviewService) AddLikeToReview(ctx context.Context, reviewID, userID int64) error {
	return s.vote(ctx, reviewID, userID, domain.VoteLike)
}

func (s *ReviewService) AddDislikeToReview(ctx context.Context, reviewID, userID int64) error {
	return s.vote(ctx, reviewID, userID, domain.VoteDislike)
}

func (s *ReviewService) vote(ctx context.Context, reviewID, userID int64, vote domain.Vote) error {
	if err := require(ctx, "user", userID, s.checker.UserExists); err != nil {
		return err
	}
	if err := s.requireReview(ctx, reviewID); err != nil {
		return err
	}
	if err := s.votes.Upsert(ctx, reviewID, userID, vote); err != nil {
		return translate(err, "review", reviewID)
	}
	s.logger.DebugContext(ctx, "Review vote saved", slog.Int64("reviewID", reviewID), slog.Int64("userID", userID), slog.Int("vote", int(vote)))
	return nil
}

// DeleteLikeOrDislike снимает оценку пользователя с отзыва.
func (s *ReviewService) DeleteLikeOrDislike(ctx context.Context, reviewID, userID int64) error {
	if err := require(ctx, "user", userID, s.checker.UserExists); err != nil {
		return err
	}
	if err := s.requireReview(ctx, reviewID); err != nil {
		return err
	}
	return s.votes.Delete(ctx, reviewID, userID)
}
