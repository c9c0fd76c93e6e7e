package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"filmorate/pkg/auth"

	"github.com/goccy/go-json"
)

// RequireRole проверяет JWT токен из заголовка Authorization и роль в нем.
// Если tokenManager равен nil, проверка отключена.
func RequireRole(tokenManager auth.TokenManager, role string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if tokenManager == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.WarnContext(r.Context(), "Authorization header missing", slog.String("path", r.URL.Path))
				writeError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			// Ожидаем токен в формате "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				writeError(w, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}

			claims, err := tokenManager.Validate(parts[1])
			if err != nil {
				logger.WarnContext(r.Context(), "Invalid or expired token", slog.String("error", err.Error()))
				writeError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			if claims.Role != role {
				logger.WarnContext(r.Context(), "Insufficient role", slog.String("subject", claims.Subject), slog.String("role", claims.Role))
				writeError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			logger.InfoContext(r.Context(), "Admin request authorized",
				slog.String("subject", claims.Subject),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("requestID", RequestIDFromContext(r.Context())))
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
