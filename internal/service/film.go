package service

import (
	"context"
	"log/slog"
	"strings"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

// DefaultTopCount число популярных фильмов и отзывов по умолчанию.
const DefaultTopCount = 10

// FilmService управляет фильмами, лайками и выборками фильмов.
type FilmService struct {
	films     store.FilmStore
	users     store.UserStore
	genres    store.GenreStore
	mpa       store.MpaStore
	directors store.DirectorStore
	full      *FilmFullService
	feedRec   *feedRecorder
	logger    *slog.Logger
}

func NewFilmService(stores *store.Stores, full *FilmFullService, logger *slog.Logger) *FilmService {
	return &FilmService{
		films:     stores.Films,
		users:     stores.Users,
		genres:    stores.Genres,
		mpa:       stores.Mpa,
		directors: stores.Directors,
		full:      full,
		feedRec:   newFeedRecorder(stores.Tx, logger),
		logger:    logger,
	}
}

// prepareFilm проверяет поля фильма и существование рейтинга, жанров и режиссеров.
func (s *FilmService) prepareFilm(ctx context.Context, film *domain.Film, reason string) error {
	if err := validate(reason, film); err != nil {
		return err
	}
	if film.Mpa.ID == 0 {
		return invalid("%s: mpa is required", reason)
	}
	if err := require(ctx, "mpa", film.Mpa.ID, s.mpa.Exists); err != nil {
		return err
	}
	for _, id := range film.GenreIDs() {
		if err := require(ctx, "genre", id, s.genres.Exists); err != nil {
			return err
		}
	}
	for _, id := range film.DirectorIDs() {
		if err := require(ctx, "director", id, s.directors.Exists); err != nil {
			return err
		}
	}
	return nil
}

func (s *FilmService) AddFilm(ctx context.Context, film domain.Film) (*domain.Film, error) {
	if err := s.prepareFilm(ctx, &film, "film validation has been failed"); err != nil {
		s.logger.WarnContext(ctx, "Film validation failed", slog.String("name", film.Name), slog.String("error", err.Error()))
		return nil, err
	}
	if err := s.films.Create(ctx, &film); err != nil {
		return nil, translate(err, "film", film.ID)
	}
	s.logger.InfoContext(ctx, "Film added", slog.Int64("filmID", film.ID))
	return s.GetFilmByID(ctx, film.ID)
}

func (s *FilmService) Update(ctx context.Context, film domain.Film) (*domain.Film, error) {
	if err := s.prepareFilm(ctx, &film, "film validation has been failed"); err != nil {
		s.logger.WarnContext(ctx, "Film validation failed", slog.Int64("filmID", film.ID), slog.String("error", err.Error()))
		return nil, err
	}
	if err := s.requireFilm(ctx, film.ID); err != nil {
		return nil, err
	}
	if err := s.films.Update(ctx, &film); err != nil {
		return nil, translate(err, "film", film.ID)
	}
	s.logger.InfoContext(ctx, "Film updated", slog.Int64("filmID", film.ID))
	return s.GetFilmByID(ctx, film.ID)
}

func (s *FilmService) requireFilm(ctx context.Context, id int64) error {
	return require(ctx, "film", id, s.films.Exists)
}

func (s *FilmService) requireUser(ctx context.Context, id int64) error {
	return require(ctx, "user", id, s.users.Exists)
}

// AddLike ставит лайк. Повторный лайк не вставляется, но событие в ленту пишется всегда.
func (s *FilmService) AddLike(ctx context.Context, filmID, userID int64) error {
	if err := s.requireFilm(ctx, filmID); err != nil {
		return err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	return s.feedRec.write(ctx, func(tx *store.TxStores) (*domain.Event, error) {
		exists, err := tx.Likes.Exists(ctx, filmID, userID)
		if err != nil {
			return nil, err
		}
		if !exists {
			if err := tx.Likes.Add(ctx, filmID, userID); err != nil {
				return nil, translate(err, "film", filmID)
			}
		}
		return s.feedRec.event(userID, filmID, domain.EventLike, domain.OperationAdd), nil
	})
}

func (s *FilmService) DeleteLike(ctx context.Context, filmID, userID int64) error {
	if err := s.requireFilm(ctx, filmID); err != nil {
		return err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	return s.feedRec.write(ctx, func(tx *store.TxStores) (*domain.Event, error) {
		if err := tx.Likes.Delete(ctx, filmID, userID); err != nil {
			return nil, err
		}
		return s.feedRec.event(userID, filmID, domain.EventLike, domain.OperationRemove), nil
	})
}

func (s *FilmService) DeleteFilmByID(ctx context.Context, id int64) error {
	if id <= 0 {
		return notFound("film", id)
	}
	if err := s.films.Delete(ctx, id); err != nil {
		return translate(err, "film", id)
	}
	s.logger.InfoContext(ctx, "Film deleted", slog.Int64("filmID", id))
	return nil
}

func (s *FilmService) GetFilmByID(ctx context.Context, id int64) (*domain.Film, error) {
	if id <= 0 {
		return nil, notFound("film", id)
	}
	film, err := s.films.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "film", id)
	}
	if err := s.full.FillOne(ctx, film); err != nil {
		return nil, err
	}
	return film, nil
}

func (s *FilmService) GetAllFilms(ctx context.Context) ([]domain.Film, error) {
	return s.filled(ctx)(s.films.GetAll(ctx))
}

// GetTopFilms возвращает самые популярные фильмы; count <= 0 означает DefaultTopCount.
func (s *FilmService) GetTopFilms(ctx context.Context, count int, genreID *int64, year *int) ([]domain.Film, error) {
	if count <= 0 {
		count = DefaultTopCount
	}
	return s.filled(ctx)(s.films.Popular(ctx, store.PopularParams{Count: count, GenreID: genreID, Year: year}))
}

// GetTopByDirector возвращает фильмы режиссера, отсортированные по году выхода или лайкам.
func (s *FilmService) GetTopByDirector(ctx context.Context, directorID int64, sortBy string) ([]domain.Film, error) {
	if err := require(ctx, "director", directorID, s.directors.Exists); err != nil {
		return nil, err
	}
	sortKey := domain.FilmSort(strings.ToLower(strings.TrimSpace(sortBy)))
	if sortKey != domain.SortByYear && sortKey != domain.SortByLikes {
		return nil, invalid("no such sort %q was found", sortBy)
	}
	return s.filled(ctx)(s.films.ByDirector(ctx, directorID, sortKey))
}

// GetCommonFilms возвращает фильмы, которые лайкнули оба пользователя.
func (s *FilmService) GetCommonFilms(ctx context.Context, userID, friendID int64) ([]domain.Film, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, friendID); err != nil {
		return nil, err
	}
	return s.filled(ctx)(s.films.Common(ctx, userID, friendID))
}

// SearchFilms ищет фильмы по подстроке; by = title, director или их комбинация через запятую.
func (s *FilmService) SearchFilms(ctx context.Context, query, by string) ([]domain.Film, error) {
	searchBy, err := ParseSearchBy(by)
	if err != nil {
		return nil, err
	}
	return s.filled(ctx)(s.films.Search(ctx, query, searchBy))
}

// ParseSearchBy разбирает параметр by: title, director, title,director или director,title.
func ParseSearchBy(by string) (domain.SearchBy, error) {
	var result domain.SearchBy
	for _, part := range strings.Split(by, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "title":
			result.Title = true
		case "director":
			result.Director = true
		default:
			return domain.SearchBy{}, invalid("no such search parameter %q was found", by)
		}
	}
	return result, nil
}

// ExistsByID сообщает, существует ли фильм.
func (s *FilmService) ExistsByID(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	return s.films.Exists(ctx, id)
}

// filled дополняет результат выборки жанрами и режиссерами.
func (s *FilmService) filled(ctx context.Context) func([]domain.Film, error) ([]domain.Film, error) {
	return func(films []domain.Film, err error) ([]domain.Film, error) {
		if err != nil {
			return nil, err
		}
		if err := s.full.Fill(ctx, films); err != nil {
			return nil, err
		}
		return films, nil
	}
}
