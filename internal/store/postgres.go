package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq" // Драйвер PostgreSQL и коды ошибок
)

// Коды ошибок PostgreSQL, которые переводятся в ошибки хранилища.
const (
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
)

// DBOptions параметры пула соединений.
type DBOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Connect открывает пул соединений к PostgreSQL и проверяет его Ping'ом.
func Connect(ctx context.Context, dbURL string, opts DBOptions, logger *slog.Logger) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dbURL)
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		logger.Error("Failed to ping PostgreSQL", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	logger.Info("Successfully connected to PostgreSQL")
	return db, nil
}

// NewPostgresStores создает полный набор хранилищ поверх одного пула.
func NewPostgresStores(db *sqlx.DB, logger *slog.Logger) (*Stores, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &Stores{
		Users:       &PostgresUserStore{db: db, logger: logger},
		Friends:     &PostgresFriendStore{db: db, logger: logger},
		Films:       &PostgresFilmStore{db: db, logger: logger},
		Likes:       &PostgresLikeStore{db: db, logger: logger},
		Reviews:     &PostgresReviewStore{db: db, logger: logger},
		ReviewLikes: &PostgresReviewLikeStore{db: db, logger: logger},
		Feed:        &PostgresFeedStore{db: db, logger: logger},
		Genres:      &PostgresGenreStore{db: db, logger: logger},
		Mpa:         &PostgresMpaStore{db: db, logger: logger},
		Directors:   &PostgresDirectorStore{db: db, logger: logger},
		Tx:          &PostgresTransactor{db: db, logger: logger},
	}, nil
}

// dbtx общие методы *sqlx.DB и *sqlx.Tx.
type dbtx interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// PostgresTransactor реализует Transactor поверх пула соединений.
type PostgresTransactor struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func (t *PostgresTransactor) InTx(ctx context.Context, fn func(tx *TxStores) error) error {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&TxStores{
		Friends: &PostgresFriendStore{db: tx, logger: t.logger},
		Likes:   &PostgresLikeStore{db: tx, logger: t.logger},
		Reviews: &PostgresReviewStore{db: tx, logger: t.logger},
		Feed:    &PostgresFeedStore{db: tx, logger: t.logger},
	}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// translateError переводит ошибки драйвера в ошибки хранилища.
// notFound возвращается для sql.ErrNoRows.
func translateError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
		return fmt.Errorf("%w: %s", ErrReferenceNotFound, pqErr.Constraint)
	}
	return err
}

// checkAffected возвращает notFound, если запрос не затронул ни одной строки.
func checkAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// exists выполняет запрос вида SELECT EXISTS(...).
func exists(ctx context.Context, db sqlx.QueryerContext, query string, args ...any) (bool, error) {
	var ok bool
	if err := sqlx.GetContext(ctx, db, &ok, query, args...); err != nil {
		return false, err
	}
	return ok, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern строит шаблон ILIKE для поиска подстроки.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
