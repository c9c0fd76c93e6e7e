package api

import (
	"log/slog"
	"net/http"

	"filmorate/internal/domain"
	"filmorate/internal/service"
)

func (h *Handler) GetFilms(w http.ResponseWriter, r *http.Request) {
	films, err := h.films.GetAllFilms(r.Context())
	h.respond(w, r, films, err)
}

func (h *Handler) GetFilm(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id")
	if !ok {
		return
	}
	film, err := h.films.GetFilmByID(r.Context(), ids[0])
	h.respond(w, r, film, err)
}

// CreateFilm обрабатывает запрос на добавление фильма вместе с жанрами и режиссерами.
func (h *Handler) CreateFilm(w http.ResponseWriter, r *http.Request) {
	var film domain.Film
	if !h.decode(w, r, &film) {
		return
	}
	h.logger.InfoContext(r.Context(), "HTTP CreateFilm request received", slog.String("name", film.Name))
	created, err := h.films.AddFilm(r.Context(), film)
	h.respond(w, r, created, err)
}

func (h *Handler) UpdateFilm(w http.ResponseWriter, r *http.Request) {
	var film domain.Film
	if !h.decode(w, r, &film) {
		return
	}
	h.logger.InfoContext(r.Context(), "HTTP UpdateFilm request received", slog.Int64("filmID", film.ID))
	updated, err := h.films.Update(r.Context(), film)
	h.respond(w, r, updated, err)
}

func (h *Handler) DeleteFilm(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id")
	if !ok {
		return
	}
	h.respondEmpty(w, r, h.films.DeleteFilmByID(r.Context(), ids[0]))
}

func (h *Handler) AddLike(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id", "userId")
	if !ok {
		return
	}
	h.respondEmpty(w, r, h.films.AddLike(r.Context(), ids[0], ids[1]))
}

func (h *Handler) DeleteLike(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id", "userId")
	if !ok {
		return
	}
	h.respondEmpty(w, r, h.films.DeleteLike(r.Context(), ids[0], ids[1]))
}

// GetPopular возвращает самые популярные фильмы с необязательными фильтрами
// по жанру и году выхода.
func (h *Handler) GetPopular(w http.ResponseWriter, r *http.Request) {
	count, ok := h.queryInt64(w, r, "count")
	if !ok {
		return
	}
	genreID, ok := h.queryInt64(w, r, "genreId")
	if !ok {
		return
	}
	yearParam, ok := h.queryInt64(w, r, "year")
	if !ok {
		return
	}

	limit := service.DefaultTopCount
	if count != nil {
		limit = int(*count)
	}
	var year *int
	if yearParam != nil {
		y := int(*yearParam)
		year = &y
	}
	films, err := h.films.GetTopFilms(r.Context(), limit, genreID, year)
	h.respond(w, r, films, err)
}

func (h *Handler) GetDirectorFilms(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "directorId")
	if !ok {
		return
	}
	sortBy := r.URL.Query().Get("sortBy")
	if sortBy == "" {
		sortBy = string(domain.SortByYear)
	}
	films, err := h.films.GetTopByDirector(r.Context(), ids[0], sortBy)
	h.respond(w, r, films, err)
}

// GetCommonFilms возвращает фильмы, которые понравились обоим пользователям.
func (h *Handler) GetCommonFilms(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.queryInt64(w, r, "userId")
	if !ok {
		return
	}
	friendID, ok := h.queryInt64(w, r, "friendId")
	if !ok {
		return
	}
	if userID == nil || friendID == nil {
		h.respondError(w, r, http.StatusBadRequest, "userId and friendId are required")
		return
	}
	films, err := h.films.GetCommonFilms(r.Context(), *userID, *friendID)
	h.respond(w, r, films, err)
}

func (h *Handler) SearchFilms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	films, err := h.films.SearchFilms(r.Context(), q.Get("query"), q.Get("by"))
	h.respond(w, r, films, err)
}
