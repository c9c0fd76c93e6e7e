package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"filmorate/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "filmorate",
	Short:         "Filmorate: фильмы, оценки, отзывы и рекомендации",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env необязателен; переменные окружения процесса имеют приоритет.
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}

		loaded, err := config.Load()
		if err != nil {
			return err
		}
		level, _ := config.ParseLevel(loaded.Log.Level)
		cfg = loaded
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Запустить HTTP и gRPC серверы",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), cfg, logger)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Управление схемой базы данных",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Применить все ожидающие миграции",
	RunE: func(cmd *cobra.Command, args []string) error {
		return migrateUp(cmd.Context(), cfg, logger)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Показать версию схемы",
	RunE: func(cmd *cobra.Command, args []string) error {
		return migrateStatus(cmd.Context(), cfg, logger, cmd.OutOrStdout())
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Выпустить JWT для административных запросов",
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")
		role, _ := cmd.Flags().GetString("role")
		token, err := issueToken(cfg, subject, role)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().String("subject", "", "субъект токена (например, имя оператора)")
	tokenCmd.Flags().String("role", "admin", "роль в токене")
	_ = tokenCmd.MarkFlagRequired("subject")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tokenCmd)
}
