package service

import (
	"context"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

// CatalogService отдает справочники жанров и рейтингов MPA.
type CatalogService struct {
	genres store.GenreStore
	mpa    store.MpaStore
}

func NewCatalogService(genres store.GenreStore, mpa store.MpaStore) *CatalogService {
	return &CatalogService{genres: genres, mpa: mpa}
}

func (s *CatalogService) GetGenres(ctx context.Context) ([]domain.Genre, error) {
	return s.genres.GetAll(ctx)
}

func (s *CatalogService) GetGenre(ctx context.Context, id int64) (*domain.Genre, error) {
	if id <= 0 {
		return nil, notFound("genre", id)
	}
	genre, err := s.genres.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "genre", id)
	}
	return genre, nil
}

func (s *CatalogService) GetMpaList(ctx context.Context) ([]domain.Mpa, error) {
	return s.mpa.GetAll(ctx)
}

func (s *CatalogService) GetMpa(ctx context.Context, id int64) (*domain.Mpa, error) {
	if id <= 0 {
		return nil, notFound("mpa", id)
	}
	mpa, err := s.mpa.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "mpa", id)
	}
	return mpa, nil
}
