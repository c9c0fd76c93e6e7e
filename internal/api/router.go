package api

import (
	"context"
	"log/slog"
	"net/http"

	"filmorate/internal/middleware"
	"filmorate/pkg/auth"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// idPattern допускает отрицательные значения, чтобы сервис ответил 404, а не маршрутизатор.
const idPattern = "{id:-?[0-9]+}"

// RouterOptions инфраструктурные зависимости маршрутизатора.
type RouterOptions struct {
	Logger *slog.Logger
	// TokenManager включает проверку роли администратора; nil отключает ее.
	TokenManager auth.TokenManager
	// RateLimiter nil отключает ограничение частоты.
	RateLimiter *middleware.RateLimiter
	CORS        middleware.CORSOptions
	// Health проверяет зависимости для /healthz; nil означает всегда здоров.
	Health func(ctx context.Context) error
}

// NewRouter регистрирует маршруты API и оборачивает их middleware.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	router := mux.NewRouter()
	router.Use(middleware.RequestID, middleware.Observe(opts.Logger))

	admin := func(f http.HandlerFunc) http.Handler {
		return middleware.RequireRole(opts.TokenManager, auth.RoleAdmin, opts.Logger)(f)
	}

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", healthz(h, opts.Health)).Methods(http.MethodGet)

	// Пользователи
	users := router.PathPrefix("/users").Subrouter()
	users.HandleFunc("", h.GetUsers).Methods(http.MethodGet)
	users.HandleFunc("", h.CreateUser).Methods(http.MethodPost)
	users.HandleFunc("", h.UpdateUser).Methods(http.MethodPut)
	users.HandleFunc("/"+idPattern, h.GetUser).Methods(http.MethodGet)
	users.Handle("/"+idPattern, admin(h.DeleteUser)).Methods(http.MethodDelete)
	users.HandleFunc("/"+idPattern+"/friends", h.GetFriends).Methods(http.MethodGet)
	users.HandleFunc("/"+idPattern+"/friends/common/{otherId:-?[0-9]+}", h.GetCommonFriends).Methods(http.MethodGet)
	users.HandleFunc("/"+idPattern+"/friends/{friendId:-?[0-9]+}", h.AddFriend).Methods(http.MethodPut)
	users.HandleFunc("/"+idPattern+"/friends/{friendId:-?[0-9]+}", h.DeleteFriend).Methods(http.MethodDelete)
	users.HandleFunc("/"+idPattern+"/recommendations", h.GetRecommendations).Methods(http.MethodGet)
	users.HandleFunc("/"+idPattern+"/feed", h.GetFeed).Methods(http.MethodGet)

	// Фильмы. Статические пути регистрируются раньше /{id}.
	films := router.PathPrefix("/films").Subrouter()
	films.HandleFunc("", h.GetFilms).Methods(http.MethodGet)
	films.HandleFunc("", h.CreateFilm).Methods(http.MethodPost)
	films.HandleFunc("", h.UpdateFilm).Methods(http.MethodPut)
	films.HandleFunc("/popular", h.GetPopular).Methods(http.MethodGet)
	films.HandleFunc("/common", h.GetCommonFilms).Methods(http.MethodGet)
	films.HandleFunc("/search", h.SearchFilms).Methods(http.MethodGet)
	films.HandleFunc("/director/{directorId:-?[0-9]+}", h.GetDirectorFilms).Methods(http.MethodGet)
	films.HandleFunc("/"+idPattern, h.GetFilm).Methods(http.MethodGet)
	films.Handle("/"+idPattern, admin(h.DeleteFilm)).Methods(http.MethodDelete)
	films.HandleFunc("/"+idPattern+"/like/{userId:-?[0-9]+}", h.AddLike).Methods(http.MethodPut)
	films.HandleFunc("/"+idPattern+"/like/{userId:-?[0-9]+}", h.DeleteLike).Methods(http.MethodDelete)

	// Отзывы
	reviews := router.PathPrefix("/reviews").Subrouter()
	reviews.HandleFunc("", h.GetReviews).Methods(http.MethodGet)
	reviews.HandleFunc("", h.CreateReview).Methods(http.MethodPost)
	reviews.HandleFunc("", h.UpdateReview).Methods(http.MethodPut)
	reviews.HandleFunc("/"+idPattern, h.GetReview).Methods(http.MethodGet)
	reviews.HandleFunc("/"+idPattern, h.DeleteReview).Methods(http.MethodDelete)
	reviews.HandleFunc("/"+idPattern+"/like/{userId:-?[0-9]+}", h.LikeReview).Methods(http.MethodPut)
	reviews.HandleFunc("/"+idPattern+"/dislike/{userId:-?[0-9]+}", h.DislikeReview).Methods(http.MethodPut)
	reviews.HandleFunc("/"+idPattern+"/like/{userId:-?[0-9]+}", h.DeleteReviewVote).Methods(http.MethodDelete)
	reviews.HandleFunc("/"+idPattern+"/dislike/{userId:-?[0-9]+}", h.DeleteReviewVote).Methods(http.MethodDelete)

	// Справочники
	router.HandleFunc("/genres", h.GetGenres).Methods(http.MethodGet)
	router.HandleFunc("/genres/"+idPattern, h.GetGenre).Methods(http.MethodGet)
	router.HandleFunc("/mpa", h.GetMpaList).Methods(http.MethodGet)
	router.HandleFunc("/mpa/"+idPattern, h.GetMpa).Methods(http.MethodGet)

	directors := router.PathPrefix("/directors").Subrouter()
	directors.HandleFunc("", h.GetDirectors).Methods(http.MethodGet)
	directors.Handle("", admin(h.CreateDirector)).Methods(http.MethodPost)
	directors.Handle("", admin(h.UpdateDirector)).Methods(http.MethodPut)
	directors.HandleFunc("/"+idPattern, h.GetDirector).Methods(http.MethodGet)
	directors.Handle("/"+idPattern, admin(h.DeleteDirector)).Methods(http.MethodDelete)

	var handler http.Handler = router
	if opts.RateLimiter != nil {
		handler = opts.RateLimiter.Middleware(handler)
	}
	return middleware.CORS(opts.CORS)(handler)
}

func healthz(h *Handler, check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				h.logger.ErrorContext(r.Context(), "Health check failed", slog.String("error", err.Error()))
				h.respondJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		h.respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	}
}
