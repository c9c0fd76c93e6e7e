package service

import (
	"context"

	"filmorate/internal/store"
)

// EntityChecker проверяет существование пользователей и фильмов.
// Реализуется локально поверх хранилищ или удаленно через gRPC справочник.
type EntityChecker interface {
	UserExists(ctx context.Context, id int64) (bool, error)
	FilmExists(ctx context.Context, id int64) (bool, error)
}

// LocalEntityChecker проверяет существование через хранилища.
type LocalEntityChecker struct {
	Users store.UserStore
	Films store.FilmStore
}

func (c LocalEntityChecker) UserExists(ctx context.Context, id int64) (bool, error) {
	return c.Users.Exists(ctx, id)
}

func (c LocalEntityChecker) FilmExists(ctx context.Context, id int64) (bool, error) {
	return c.Films.Exists(ctx, id)
}

// require возвращает NotFoundError, если id не положителен или сущность не найдена.
func require(ctx context.Context, entity string, id int64, exists func(context.Context, int64) (bool, error)) error {
	if id <= 0 {
		return notFound(entity, id)
	}
	ok, err := exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(entity, id)
	}
	return nil
}
