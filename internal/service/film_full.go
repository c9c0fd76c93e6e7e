package service

import (
	"context"
	"fmt"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

// FilmFullService дополняет фильмы жанрами и режиссерами пакетными запросами.
type FilmFullService struct {
	genres    store.GenreStore
	directors store.DirectorStore
}

func NewFilmFullService(genres store.GenreStore, directors store.DirectorStore) *FilmFullService {
	return &FilmFullService{genres: genres, directors: directors}
}

// Fill заполняет Genres и Directors у всех переданных фильмов.
func (s *FilmFullService) Fill(ctx context.Context, films []domain.Film) error {
	if len(films) == 0 {
		return nil
	}
	ids := make([]int64, len(films))
	for i := range films {
		ids[i] = films[i].ID
	}
	genres, err := s.genres.ByFilmIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load genres: %w", err)
	}
	directors, err := s.directors.ByFilmIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load directors: %w", err)
	}
	for i := range films {
		films[i].Genres = nonNil(genres[films[i].ID])
		films[i].Directors = nonNil(directors[films[i].ID])
	}
	return nil
}

// FillOne заполняет один фильм.
func (s *FilmFullService) FillOne(ctx context.Context, film *domain.Film) error {
	films := []domain.Film{*film}
	if err := s.Fill(ctx, films); err != nil {
		return err
	}
	*film = films[0]
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
