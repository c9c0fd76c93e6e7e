// Package middleware содержит HTTP middleware сервиса: request ID, журнал запросов,
// метрики, ограничение частоты, CORS и проверку прав администратора.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"filmorate/internal/metrics"

	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// ContextKey используется для ключей в контексте запроса.
type ContextKey string

const (
	// RequestIDKey ключ ID запроса в контексте.
	RequestIDKey ContextKey = "requestID"

	RequestIDHeader = "X-Request-ID"
)

// RequestIDFromContext возвращает ID запроса или пустую строку.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// RequestID принимает X-Request-ID клиента или генерирует новый UUID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), RequestIDKey, id)))
	})
}

// statusRecorder запоминает код ответа.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// routeTemplate возвращает шаблон маршрута mux, чтобы метки метрик не зависели от ID.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// Observe пишет журнал запросов и метрики Prometheus.
func Observe(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			metrics.HTTPRequestsInFlight.Inc()
			next.ServeHTTP(rec, r)
			metrics.HTTPRequestsInFlight.Dec()

			route := routeTemplate(r)
			duration := time.Since(start)
			metrics.RecordHTTPRequest(r.Method, route, rec.status, duration)

			level := slog.LevelInfo
			if rec.status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(r.Context(), level, "HTTP request handled",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("route", route),
				slog.Int("status", rec.status),
				slog.Duration("duration", duration),
				slog.String("requestID", RequestIDFromContext(r.Context())),
			)
		})
	}
}

// CORSOptions настройки CORS.
type CORSOptions struct {
	AllowedOrigins []string
	MaxAge         int
}

// CORS оборачивает обработчик go-chi/cors. Пустой список источников разрешает любой.
func CORS(opts CORSOptions) func(http.Handler) http.Handler {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           opts.MaxAge,
	})
}
