package store

import (
	"context"
	"errors"

	"filmorate/internal/domain"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrFilmNotFound     = errors.New("film not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrDirectorNotFound = errors.New("director not found")
	ErrGenreNotFound    = errors.New("genre not found")
	ErrMpaNotFound      = errors.New("mpa rating not found")
	// ErrReferenceNotFound нарушение внешнего ключа: связанная сущность не существует.
	ErrReferenceNotFound = errors.New("referenced entity not found")
)

// PopularParams фильтры выборки популярных фильмов. Nil означает "без фильтра".
type PopularParams struct {
	Count   int
	GenreID *int64
	Year    *int
}

type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.User, error)
	GetAll(ctx context.Context) ([]domain.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// CommonFriends пересечение множеств друзей двух пользователей.
	CommonFriends(ctx context.Context, id, otherID int64) ([]domain.User, error)
}

// FriendStore хранит направленные ребра дружбы (userID -> friendID).
type FriendStore interface {
	Add(ctx context.Context, userID, friendID int64) error
	Delete(ctx context.Context, userID, friendID int64) error
	Exists(ctx context.Context, userID, friendID int64) (bool, error)
	FriendIDs(ctx context.Context, userID int64) ([]int64, error)
}

// FilmStore хранит фильмы вместе со связями фильм-жанр и фильм-режиссер.
// Возвращаемые фильмы содержат рейтинг и число лайков, но не жанры и режиссеров.
type FilmStore interface {
	Create(ctx context.Context, film *domain.Film) error
	Update(ctx context.Context, film *domain.Film) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Film, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Film, error)
	GetAll(ctx context.Context) ([]domain.Film, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Popular(ctx context.Context, params PopularParams) ([]domain.Film, error)
	ByDirector(ctx context.Context, directorID int64, sort domain.FilmSort) ([]domain.Film, error)
	Common(ctx context.Context, userID, friendID int64) ([]domain.Film, error)
	Search(ctx context.Context, query string, by domain.SearchBy) ([]domain.Film, error)
}

type LikeStore interface {
	Add(ctx context.Context, filmID, userID int64) error
	Delete(ctx context.Context, filmID, userID int64) error
	Exists(ctx context.Context, filmID, userID int64) (bool, error)
	// All возвращает лайки всех пользователей, поставивших хотя бы один лайк: userID -> filmIDs.
	All(ctx context.Context) (map[int64][]int64, error)
}

// ReviewStore хранит отзывы. Списки упорядочены по useful по убыванию.
type ReviewStore interface {
	Create(ctx context.Context, review *domain.Review) error
	// Update меняет только content и is_positive.
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	GetAll(ctx context.Context) ([]domain.Review, error)
	GetByFilmID(ctx context.Context, filmID int64, count int) ([]domain.Review, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// ReviewLikeStore хранит оценки отзывов (+1 / -1), по одной на пользователя.
type ReviewLikeStore interface {
	Upsert(ctx context.Context, reviewID, userID int64, vote domain.Vote) error
	Delete(ctx context.Context, reviewID, userID int64) error
}

type FeedStore interface {
	Add(ctx context.Context, event *domain.Event) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Event, error)
}

type GenreStore interface {
	GetAll(ctx context.Context) ([]domain.Genre, error)
	GetByID(ctx context.Context, id int64) (*domain.Genre, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ByFilmIDs(ctx context.Context, filmIDs []int64) (map[int64][]domain.Genre, error)
}

type MpaStore interface {
	GetAll(ctx context.Context) ([]domain.Mpa, error)
	GetByID(ctx context.Context, id int64) (*domain.Mpa, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type DirectorStore interface {
	Create(ctx context.Context, director *domain.Director) error
	Update(ctx context.Context, director *domain.Director) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Director, error)
	GetAll(ctx context.Context) ([]domain.Director, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ByFilmIDs(ctx context.Context, filmIDs []int64) (map[int64][]domain.Director, error)
}

// Stores набор хранилищ одной реализации.
type Stores struct {
	Users       UserStore
	Friends     FriendStore
	Films       FilmStore
	Likes       LikeStore
	Reviews     ReviewStore
	ReviewLikes ReviewLikeStore
	Feed        FeedStore
	Genres      GenreStore
	Mpa         MpaStore
	Directors   DirectorStore
	Tx          Transactor
}

// TxStores хранилища, работающие внутри одной транзакции.
type TxStores struct {
	Friends FriendStore
	Likes   LikeStore
	Reviews ReviewStore
	Feed    FeedStore
}

// Transactor выполняет fn в транзакции. Ошибка fn откатывает все изменения,
// сделанные через tx.
type Transactor interface {
	InTx(ctx context.Context, fn func(tx *TxStores) error) error
}
