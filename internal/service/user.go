package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

// UserService управляет пользователями, дружбой, рекомендациями и лентой событий.
type UserService struct {
	users   store.UserStore
	friends store.FriendStore
	likes   store.LikeStore
	films   store.FilmStore
	feedRec *feedRecorder
	full    *FilmFullService
	feed    store.FeedStore
	logger  *slog.Logger
}

func NewUserService(stores *store.Stores, full *FilmFullService, logger *slog.Logger) *UserService {
	return &UserService{
		users:   stores.Users,
		friends: stores.Friends,
		likes:   stores.Likes,
		films:   stores.Films,
		feed:    stores.Feed,
		feedRec: newFeedRecorder(stores.Tx, logger),
		full:    full,
		logger:  logger,
	}
}

// prepareUser подставляет логин вместо пустого имени и проверяет поля.
func prepareUser(user *domain.User, reason string) error {
	if strings.TrimSpace(user.Name) == "" {
		user.Name = user.Login
	}
	return validate(reason, user)
}

func (s *UserService) Create(ctx context.Context, user domain.User) (*domain.User, error) {
	if err := prepareUser(&user, "can't create new user"); err != nil {
		s.logger.WarnContext(ctx, "User validation failed", slog.String("login", user.Login), slog.String("error", err.Error()))
		return nil, err
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "User created", slog.Int64("userID", user.ID))
	return &user, nil
}

func (s *UserService) Update(ctx context.Context, user domain.User) (*domain.User, error) {
	if err := prepareUser(&user, "can't update user"); err != nil {
		s.logger.WarnContext(ctx, "User validation failed", slog.Int64("userID", user.ID), slog.String("error", err.Error()))
		return nil, err
	}
	if user.ID <= 0 {
		return nil, notFound("user", user.ID)
	}
	if err := s.users.Update(ctx, &user); err != nil {
		return nil, translate(err, "user", user.ID)
	}
	s.logger.InfoContext(ctx, "User updated", slog.Int64("userID", user.ID))
	return &user, nil
}

func (s *UserService) GetAll(ctx context.Context) ([]domain.User, error) {
	return s.users.GetAll(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, notFound("user", id)
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "user", id)
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return notFound("user", id)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return translate(err, "user", id)
	}
	s.logger.InfoContext(ctx, "User deleted", slog.Int64("userID", id))
	return nil
}

// ExistsByID сообщает, существует ли пользователь.
func (s *UserService) ExistsByID(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	return s.users.Exists(ctx, id)
}

func (s *UserService) requireUser(ctx context.Context, id int64) error {
	return require(ctx, "user", id, s.users.Exists)
}

// AddFriend создает направленное ребро userID -> friendID. Повторное добавление не дублирует
// ребро, но событие в ленту пишется всегда.
func (s *UserService) AddFriend(ctx context.Context, userID, friendID int64) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	if err := s.requireUser(ctx, friendID); err != nil {
		return err
	}
	return s.feedRec.write(ctx, func(tx *store.TxStores) (*domain.Event, error) {
		exists, err := tx.Friends.Exists(ctx, userID, friendID)
		if err != nil {
			return nil, err
		}
		if !exists {
			if err := tx.Friends.Add(ctx, userID, friendID); err != nil {
				return nil, translate(err, "user", friendID)
			}
		}
		return s.feedRec.event(userID, friendID, domain.EventFriend, domain.OperationAdd), nil
	})
}

func (s *UserService) DeleteFriend(ctx context.Context, userID, friendID int64) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	if err := s.requireUser(ctx, friendID); err != nil {
		return err
	}
	return s.feedRec.write(ctx, func(tx *store.TxStores) (*domain.Event, error) {
		if err := tx.Friends.Delete(ctx, userID, friendID); err != nil {
			return nil, err
		}
		return s.feedRec.event(userID, friendID, domain.EventFriend, domain.OperationRemove), nil
	})
}

func (s *UserService) GetFriends(ctx context.Context, userID int64) ([]domain.User, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	ids, err := s.friends.FriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.users.GetByIDs(ctx, ids)
}

func (s *UserService) FindCommonFriends(ctx context.Context, userID, otherID int64) ([]domain.User, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, otherID); err != nil {
		return nil, err
	}
	return s.users.CommonFriends(ctx, userID, otherID)
}

// GetRecommendations возвращает фильмы, которые лайкнули "похожие" пользователи
// (хотя бы один общий лайк с целевым), но не лайкнул сам пользователь.
func (s *UserService) GetRecommendations(ctx context.Context, userID int64) ([]domain.Film, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	all, err := s.likes.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load likes: %w", err)
	}
	liked := all[userID]
	if len(liked) == 0 {
		return []domain.Film{}, nil
	}
	own := make(map[int64]struct{}, len(liked))
	for _, id := range liked {
		own[id] = struct{}{}
	}

	recommended := make(map[int64]struct{})
	for otherID, films := range all {
		if otherID == userID || !sharesAny(films, own) {
			continue
		}
		for _, filmID := range films {
			if _, ok := own[filmID]; !ok {
				recommended[filmID] = struct{}{}
			}
		}
	}
	if len(recommended) == 0 {
		return []domain.Film{}, nil
	}

	ids := make([]int64, 0, len(recommended))
	for id := range recommended {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	films, err := s.films.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if err := s.full.Fill(ctx, films); err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "Recommendations built", slog.Int64("userID", userID), slog.Int("count", len(films)))
	return films, nil
}

func sharesAny(ids []int64, set map[int64]struct{}) bool {
	for _, id := range ids {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

// GetEventsList возвращает ленту пользователя в порядке добавления.
func (s *UserService) GetEventsList(ctx context.Context, userID int64) ([]domain.Event, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.feed.ListByUser(ctx, userID)
}
