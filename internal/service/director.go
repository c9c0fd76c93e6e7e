package service

import (
	"context"
	"log/slog"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

type DirectorService struct {
	directors store.DirectorStore
	logger    *slog.Logger
}

func NewDirectorService(directors store.DirectorStore, logger *slog.Logger) *DirectorService {
	return &DirectorService{directors: directors, logger: logger}
}

func (s *DirectorService) Create(ctx context.Context, director domain.Director) (*domain.Director, error) {
	if err := validate("can't create director", &director); err != nil {
		return nil, err
	}
	if err := s.directors.Create(ctx, &director); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Director created", slog.Int64("directorID", director.ID))
	return &director, nil
}

func (s *DirectorService) Update(ctx context.Context, director domain.Director) (*domain.Director, error) {
	if err := validate("can't update director", &director); err != nil {
		return nil, err
	}
	if director.ID <= 0 {
		return nil, notFound("director", director.ID)
	}
	if err := s.directors.Update(ctx, &director); err != nil {
		return nil, translate(err, "director", director.ID)
	}
	return &director, nil
}

func (s *DirectorService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return notFound("director", id)
	}
	if err := s.directors.Delete(ctx, id); err != nil {
		return translate(err, "director", id)
	}
	s.logger.InfoContext(ctx, "Director deleted", slog.Int64("directorID", id))
	return nil
}

func (s *DirectorService) GetAll(ctx context.Context) ([]domain.Director, error) {
	return s.directors.GetAll(ctx)
}

func (s *DirectorService) GetByID(ctx context.Context, id int64) (*domain.Director, error) {
	if id <= 0 {
		return nil, notFound("director", id)
	}
	director, err := s.directors.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "director", id)
	}
	return director, nil
}

func (s *DirectorService) ExistsByID(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	return s.directors.Exists(ctx, id)
}
