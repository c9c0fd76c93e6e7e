package store

import (
	"context"
	"fmt"
	"log/slog"

	"filmorate/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const userColumns = `u.id, u.email, u.login, u.name, u.birthday`

// PostgresUserStore реализует UserStore для PostgreSQL.
type PostgresUserStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// Create сохраняет пользователя и заполняет его ID.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (email, login, name, birthday) VALUES ($1, $2, $3, $4) RETURNING id`

	s.logger.DebugContext(ctx, "Executing Create user query", slog.String("login", user.Login))
	if err := s.db.QueryRowxContext(ctx, query, user.Email, user.Login, user.Name, user.Birthday).Scan(&user.ID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to create user in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.InfoContext(ctx, "User created successfully in DB", slog.Int64("userID", user.ID))
	return nil
}

func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET email = $1, login = $2, name = $3, birthday = $4 WHERE id = $5`

	res, err := s.db.ExecContext(ctx, query, user.Email, user.Login, user.Name, user.Birthday, user.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update user in DB", slog.Int64("userID", user.ID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to update user: %w", err)
	}
	if err := checkAffected(res, ErrUserNotFound); err != nil {
		s.logger.WarnContext(ctx, "User for update not found in DB", slog.Int64("userID", user.ID))
		return err
	}
	return nil
}

func (s *PostgresUserStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete user from DB", slog.Int64("userID", id), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return checkAffected(res, ErrUserNotFound)
}

func (s *PostgresUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id)
	if err != nil {
		err = translateError(err, ErrUserNotFound)
		if err == ErrUserNotFound {
			s.logger.WarnContext(ctx, "User not found by ID in DB", slog.Int64("userID", id))
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Failed to get user by ID from DB", slog.Int64("userID", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return &user, nil
}

func (s *PostgresUserStore) GetByIDs(ctx context.Context, ids []int64) ([]domain.User, error) {
	users := []domain.User{}
	if len(ids) == 0 {
		return users, nil
	}
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id = ANY($1) ORDER BY u.id`
	if err := s.db.SelectContext(ctx, &users, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to get users by IDs: %w", err)
	}
	return users, nil
}

func (s *PostgresUserStore) GetAll(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if err := s.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users u ORDER BY u.id`); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list users from DB", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *PostgresUserStore) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := exists(ctx, s.db, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return ok, nil
}

func (s *PostgresUserStore) CommonFriends(ctx context.Context, id, otherID int64) ([]domain.User, error) {
	query := `SELECT ` + userColumns + `
              FROM friends f1
              JOIN friends f2 ON f1.friend_id = f2.friend_id
              JOIN users u ON u.id = f1.friend_id
              WHERE f1.user_id = $1 AND f2.user_id = $2
              ORDER BY u.id`
	users := []domain.User{}
	if err := s.db.SelectContext(ctx, &users, query, id, otherID); err != nil {
		return nil, fmt.Errorf("failed to get common friends: %w", err)
	}
	return users, nil
}

// PostgresFriendStore реализует FriendStore для PostgreSQL.
type PostgresFriendStore struct {
	db     dbtx
	logger *slog.Logger
}

// Add создает ребро дружбы; существующее ребро не дублируется.
func (s *PostgresFriendStore) Add(ctx context.Context, userID, friendID int64) error {
	query := `INSERT INTO friends (user_id, friend_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := s.db.ExecContext(ctx, query, userID, friendID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to add friend", slog.Int64("userID", userID), slog.Int64("friendID", friendID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to add friend: %w", translateError(err, ErrUserNotFound))
	}
	return nil
}

func (s *PostgresFriendStore) Delete(ctx context.Context, userID, friendID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM friends WHERE user_id = $1 AND friend_id = $2`, userID, friendID); err != nil {
		return fmt.Errorf("failed to delete friend: %w", err)
	}
	return nil
}

func (s *PostgresFriendStore) Exists(ctx context.Context, userID, friendID int64) (bool, error) {
	ok, err := exists(ctx, s.db, `SELECT EXISTS(SELECT 1 FROM friends WHERE user_id = $1 AND friend_id = $2)`, userID, friendID)
	if err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}
	return ok, nil
}

func (s *PostgresFriendStore) FriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids := []int64{}
	if err := s.db.SelectContext(ctx, &ids, `SELECT friend_id FROM friends WHERE user_id = $1 ORDER BY friend_id`, userID); err != nil {
		return nil, fmt.Errorf("failed to get friend IDs: %w", err)
	}
	return ids, nil
}
