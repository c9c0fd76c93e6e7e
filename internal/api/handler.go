// Package api содержит HTTP обработчики Filmorate и маршрутизатор.
package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"filmorate/internal/service"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
)

// Handler содержит зависимости HTTP обработчиков.
type Handler struct {
	users     *service.UserService
	films     *service.FilmService
	reviews   *service.ReviewService
	directors *service.DirectorService
	catalog   *service.CatalogService
	logger    *slog.Logger
}

// NewHandler создает обработчики поверх набора сервисов.
func NewHandler(s *service.Services, logger *slog.Logger) *Handler {
	return &Handler{
		users:     s.Users,
		films:     s.Films,
		reviews:   s.Reviews,
		directors: s.Directors,
		catalog:   s.Catalog,
		logger:    logger,
	}
}

// --- Вспомогательные функции ---

func (h *Handler) respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.logger.ErrorContext(r.Context(), "Failed to encode JSON response", slog.String("error", err.Error()), slog.String("path", r.URL.Path))
		}
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.respondJSON(w, r, status, map[string]string{"error": message})
}

// handleError переводит ошибку сервиса в HTTP статус.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case service.IsValidation(err):
		h.logger.WarnContext(ctx, "Validation failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusBadRequest, err.Error())
	case service.IsNotFound(err):
		h.logger.WarnContext(ctx, "Entity not found", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusNotFound, err.Error())
	default:
		h.logger.ErrorContext(ctx, "Request failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusInternalServerError, "Internal server error")
	}
}

// respond пишет результат сервиса или ошибку.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, data any, err error) {
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, data)
}

// respondEmpty отвечает 200 без тела или ошибкой.
func (h *Handler) respondEmpty(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

// pathIDs разбирает целочисленные переменные пути. При ошибке ответ уже записан.
func (h *Handler) pathIDs(w http.ResponseWriter, r *http.Request, names ...string) ([]int64, bool) {
	vars := mux.Vars(r)
	ids := make([]int64, len(names))
	for i, name := range names {
		id, err := strconv.ParseInt(vars[name], 10, 64)
		if err != nil {
			h.respondError(w, r, http.StatusBadRequest, "Invalid path parameter "+name)
			return nil, false
		}
		ids[i] = id
	}
	return ids, true
}

// queryInt64 возвращает nil, если параметр не задан.
func queryInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (h *Handler) queryInt64(w http.ResponseWriter, r *http.Request, name string) (*int64, bool) {
	v, err := queryInt64(r, name)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, "Invalid query parameter "+name)
		return nil, false
	}
	return v, true
}
