package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"filmorate/internal/api"
	"filmorate/internal/clients"
	"filmorate/internal/config"
	directory "filmorate/internal/grpc"
	"filmorate/internal/middleware"
	"filmorate/internal/service"
	"filmorate/internal/store"
	"filmorate/internal/store/migrations"
	"filmorate/pkg/auth"

	"github.com/jmoiron/sqlx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

// openStores выбирает хранилище по storage.type. db равен nil для memory.
func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*store.Stores, *sqlx.DB, error) {
	if cfg.Storage.Type == config.StorageMemory {
		logger.Warn("Using in-memory storage; data will be lost on restart")
		return store.NewMemoryStores(), nil, nil
	}

	db, err := connect(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.MigrateOnStart {
		if err := migrations.MigrateUp(db.DB); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("Database migrations applied")
	}
	if err := migrations.CheckDBMigrationStatus(db.DB); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("database schema is not ready: %w", err)
	}
	stores, err := store.NewPostgresStores(db, logger)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return stores, db, nil
}

func connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sqlx.DB, error) {
	return store.Connect(ctx, cfg.Database.URL, store.DBOptions{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	stores, db, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		return err
	}
	if db != nil {
		defer func() {
			logger.Info("Closing PostgreSQL connection...")
			if err := db.Close(); err != nil {
				logger.Error("Failed to close PostgreSQL connection", slog.String("error", err.Error()))
			}
		}()
	}

	// Проверки пользователей и фильмов для отзывов идут в удаленный справочник, если он задан.
	var checker service.EntityChecker
	if cfg.Directory.RemoteAddr != "" {
		client, err := clients.NewDirectoryClient(cfg.Directory.RemoteAddr, clients.DirectoryOptions{
			Timeout:          cfg.Directory.Timeout,
			MaxRequests:      cfg.Directory.Breaker.MaxRequests,
			Interval:         cfg.Directory.Breaker.Interval,
			BreakerTimeout:   cfg.Directory.Breaker.Timeout,
			FailureThreshold: cfg.Directory.Breaker.FailureThreshold,
		}, logger)
		if err != nil {
			return err
		}
		defer client.Close()
		checker = client
	}
	services := service.New(stores, checker, logger)

	var tokenManager auth.TokenManager
	if cfg.Auth.JWTSecret != "" {
		tokenManager, err = auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		if err != nil {
			return err
		}
	} else {
		logger.Warn("auth.jwt_secret is empty; admin endpoints are not protected")
	}

	var limiter *middleware.RateLimiter
	if cfg.Server.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst, logger)
	}

	var health func(context.Context) error
	if db != nil {
		health = db.PingContext
	}

	router := api.NewRouter(api.NewHandler(services, logger), api.RouterOptions{
		Logger:       logger,
		TokenManager: tokenManager,
		RateLimiter:  limiter,
		CORS:         middleware.CORSOptions{AllowedOrigins: cfg.Server.CORSOrigins, MaxAge: cfg.Server.CORSMaxAge},
		Health:       health,
	})
	httpSrv := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 2)

	var grpcSrv *grpc.Server
	if addr := cfg.GRPCAddr(); addr != "" {
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			logger.Error("Failed to listen for gRPC", slog.String("address", addr), slog.String("error", err.Error()))
			return err
		}
		grpcSrv = grpc.NewServer()
		directory.RegisterDirectoryServer(grpcSrv, directory.NewServer(services.Users, services.Films, logger))
		reflection.Register(grpcSrv)

		go func() {
			logger.Info("gRPC server starting", slog.String("address", addr))
			if err := grpcSrv.Serve(lis); err != nil {
				serverErr <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	go func() {
		logger.Info("HTTP server starting", slog.String("address", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("http server: %w", err)
		}
	}()

	// Ожидание сигнала для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case sig := <-quit:
		logger.Info("Shutting down...", slog.String("signal", sig.String()))
	case runErr = <-serverErr:
		logger.Error("Server failed", slog.String("error", runErr.Error()))
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
		logger.Info("gRPC server gracefully stopped")
	}
	return runErr
}
