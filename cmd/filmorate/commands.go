package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"filmorate/internal/config"
	"filmorate/internal/store/migrations"
	"filmorate/pkg/auth"
)

func migrateUp(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := connect(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.MigrateUp(db.DB); err != nil {
		return err
	}
	st, err := migrations.CurrentStatus(db.DB)
	if err != nil {
		return err
	}
	logger.Info("Database schema is up to date", slog.Uint64("version", uint64(st.Version)))
	return nil
}

func migrateStatus(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	db, err := connect(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	st, err := migrations.CurrentStatus(db.DB)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Current version: %d\n", st.Version)
	fmt.Fprintf(out, "Latest version:  %d\n", st.Latest)
	fmt.Fprintf(out, "Dirty:           %t\n", st.Dirty)
	if !st.UpToDate() {
		return migrations.CheckDBMigrationStatus(db.DB)
	}
	return nil
}

func issueToken(cfg *config.Config, subject, role string) (string, error) {
	if cfg.Auth.JWTSecret == "" {
		return "", errors.New("auth.jwt_secret is not configured")
	}
	if subject == "" {
		return "", errors.New("subject is required")
	}
	tm, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return "", err
	}
	return tm.Generate(subject, role)
}
