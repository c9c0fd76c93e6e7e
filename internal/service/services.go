package service

import (
	"log/slog"

	"filmorate/internal/store"
)

// Services набор сервисов приложения.
type Services struct {
	Users     *UserService
	Films     *FilmService
	Reviews   *ReviewService
	Directors *DirectorService
	Catalog   *CatalogService
}

// New собирает сервисы поверх хранилищ. checker может быть nil, тогда
// существование пользователей и фильмов проверяется локально.
func New(stores *store.Stores, checker EntityChecker, logger *slog.Logger) *Services {
	if checker == nil {
		checker = LocalEntityChecker{Users: stores.Users, Films: stores.Films}
	}
	full := NewFilmFullService(stores.Genres, stores.Directors)
	return &Services{
		Users:     NewUserService(stores, full, logger),
		Films:     NewFilmService(stores, full, logger),
		Reviews:   NewReviewService(stores, checker, logger),
		Directors: NewDirectorService(stores.Directors, logger),
		Catalog:   NewCatalogService(stores.Genres, stores.Mpa),
	}
}
