// Package clients содержит gRPC клиенты к удаленному справочнику Filmorate.
package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	directory "filmorate/internal/grpc"
	"filmorate/internal/metrics"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const breakerName = "directory"

// DirectoryOptions таймаут вызова и настройки circuit breaker.
type DirectoryOptions struct {
	Timeout          time.Duration
	MaxRequests      uint32
	Interval         time.Duration
	BreakerTimeout   time.Duration
	FailureThreshold uint32
}

// DirectoryClient проверяет пользователей и фильмы через filmorate.v1.Directory.
// Реализует service.EntityChecker.
type DirectoryClient struct {
	conn    *grpc.ClientConn
	cb      *gobreaker.CircuitBreaker[struct{}]
	timeout time.Duration
	logger  *slog.Logger
}

// NewDirectoryClient создает клиент к addr. Соединение устанавливается лениво
// при первом вызове.
func NewDirectoryClient(addr string, opts DirectoryOptions, logger *slog.Logger, dialOpts ...grpc.DialOption) (*DirectoryClient, error) {
	logger.Info("Creating Directory gRPC client", slog.String("address", addr))

	dialOpts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, dialOpts...)
	conn, err := grpc.NewClient(addr, dialOpts...)
	if err != nil {
		logger.Error("Failed to create Directory gRPC client", slog.String("address", addr), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create directory client for %s: %w", addr, err)
	}

	threshold := opts.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: opts.MaxRequests,
		Interval:    opts.Interval,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Ответы о неверных аргументах и отсутствующих сущностях не признак сбоя справочника.
		IsSuccessful: func(err error) bool {
			switch status.Code(err) {
			case codes.OK, codes.NotFound, codes.InvalidArgument:
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Directory circuit breaker state changed",
				slog.String("name", name), slog.String("from", from.String()), slog.String("to", to.String()))
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
	})

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &DirectoryClient{conn: conn, cb: cb, timeout: timeout, logger: logger}, nil
}

// invoke вызывает метод справочника через circuit breaker.
func (c *DirectoryClient) invoke(ctx context.Context, method string, req, resp any) error {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.cb.Execute(func() (struct{}, error) {
		return struct{}{}, c.conn.Invoke(callCtx, method, req, resp)
	})
	switch {
	case err == nil:
		metrics.RecordDirectoryCall(method, "ok")
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordDirectoryCall(method, "rejected")
		c.logger.WarnContext(ctx, "Directory call rejected by circuit breaker", slog.String("method", method))
		return fmt.Errorf("directory %s: %w", method, err)
	default:
		metrics.RecordDirectoryCall(method, "error")
		st, _ := status.FromError(err)
		c.logger.ErrorContext(ctx, "Directory gRPC call failed",
			slog.String("method", method),
			slog.String("code", st.Code().String()),
			slog.String("message", st.Message()))
		return fmt.Errorf("directory %s: %w", method, err)
	}
	return nil
}

func (c *DirectoryClient) exists(ctx context.Context, method string, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	out := new(wrapperspb.BoolValue)
	if err := c.invoke(ctx, method, wrapperspb.Int64(id), out); err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

// UserExists вызывает CheckUserExists.
func (c *DirectoryClient) UserExists(ctx context.Context, id int64) (bool, error) {
	return c.exists(ctx, directory.CheckUserExistsMethod, id)
}

// FilmExists вызывает CheckFilmExists.
func (c *DirectoryClient) FilmExists(ctx context.Context, id int64) (bool, error) {
	return c.exists(ctx, directory.CheckFilmExistsMethod, id)
}

// Close закрывает gRPC соединение.
func (c *DirectoryClient) Close() error {
	if c.conn != nil {
		c.logger.Info("Closing Directory gRPC connection")
		return c.conn.Close()
	}
	return nil
}
