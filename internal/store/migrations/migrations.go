// Package migrations применяет встроенные SQL-миграции схемы Filmorate через golang-migrate.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed files/*.sql
var migrationFiles embed.FS

// Status состояние схемы базы данных.
type Status struct {
	Version uint
	Latest  uint
	Dirty   bool
}

// UpToDate сообщает, что схема на последней версии и не в грязном состоянии.
func (s Status) UpToDate() bool {
	return !s.Dirty && s.Version == s.Latest
}

// MigrateUp применяет все ожидающие миграции. Отсутствие изменений не ошибка.
// Соединение db принадлежит вызывающему и здесь не закрывается.
func MigrateUp(db *sql.DB) error {
	m, err := newMigrate(db)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// CurrentStatus возвращает текущую и последнюю доступную версии схемы.
func CurrentStatus(db *sql.DB) (Status, error) {
	latest, err := LatestVersion()
	if err != nil {
		return Status{}, err
	}
	m, err := newMigrate(db)
	if err != nil {
		return Status{}, err
	}
	defer m.Close()
	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return Status{}, fmt.Errorf("failed to get database version: %w", err)
	}
	return Status{Version: version, Latest: latest, Dirty: dirty}, nil
}

// CheckDBMigrationStatus возвращает ошибку, если схема отстает, опережает бинарник или грязная.
func CheckDBMigrationStatus(db *sql.DB) error {
	st, err := CurrentStatus(db)
	if err != nil {
		return err
	}
	switch {
	case st.Dirty:
		return fmt.Errorf("database is in dirty state at version %d (migration failed previously)", st.Version)
	case st.Version == 0:
		return fmt.Errorf("database has no schema version (needs migration)")
	case st.Version < st.Latest:
		return fmt.Errorf("database is at version %d but latest is %d", st.Version, st.Latest)
	case st.Version > st.Latest:
		return fmt.Errorf("database version %d is ahead of binary version %d", st.Version, st.Latest)
	}
	return nil
}

// LatestVersion возвращает максимальную версию среди встроенных миграций.
func LatestVersion() (uint, error) {
	src, err := iofs.New(migrationFiles, "files")
	if err != nil {
		return 0, fmt.Errorf("failed to read migration files: %w", err)
	}
	defer src.Close()
	return latestVersion(src)
}

// newMigrate работает через отдельное соединение из пула db. m.Close возвращает
// его в пул и не закрывает сам db.
func newMigrate(db *sql.DB) (*migrate.Migrate, error) {
	ctx := context.Background()
	sourceDriver, err := iofs.New(migrationFiles, "files")
	if err != nil {
		return nil, fmt.Errorf("failed to create source driver: %w", err)
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		sourceDriver.Close()
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	dbDriver, err := postgres.WithConnection(ctx, conn, &postgres.Config{})
	if err != nil {
		conn.Close()
		sourceDriver.Close()
		return nil, fmt.Errorf("failed to create database driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		dbDriver.Close()
		sourceDriver.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

func latestVersion(src source.Driver) (uint, error) {
	version, err := src.First()
	if err != nil {
		return 0, err
	}
	for {
		next, err := src.Next(version)
		if err != nil {
			break
		}
		version = next
	}
	return version, nil
}
