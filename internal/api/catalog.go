package api

import (
	"net/http"

	"filmorate/internal/domain"
)

func (h *Handler) GetGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.catalog.GetGenres(r.Context())
	h.respond(w, r, genres, err)
}

func (h *Handler) GetGenre(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id")
	if !ok {
		return
	}
	genre, err := h.catalog.GetGenre(r.Context(), ids[0])
	h.respond(w, r, genre, err)
}

func (h *Handler) GetMpaList(w http.ResponseWriter, r *http.Request) {
	mpa, err := h.catalog.GetMpaList(r.Context())
	h.respond(w, r, mpa, err)
}

func (h *Handler) GetMpa(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id")
	if !ok {
		return
	}
	mpa, err := h.catalog.GetMpa(r.Context(), ids[0])
	h.respond(w, r, mpa, err)
}

func (h *Handler) GetDirectors(w http.ResponseWriter, r *http.Request) {
	directors, err := h.directors.GetAll(r.Context())
	h.respond(w, r, directors, err)
}

func (h *Handler) GetDirector(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id")
	if !ok {
		return
	}
	director, err := h.directors.GetByID(r.Context(), ids[0])
	h.respond(w, r, director, err)
}

func (h *Handler) CreateDirector(w http.ResponseWriter, r *http.Request) {
	var director domain.Director
	if !h.decode(w, r, &director) {
		return
	}
	created, err := h.directors.Create(r.Context(), director)
	h.respond(w, r, created, err)
}

func (h *Handler) UpdateDirector(w http.ResponseWriter, r *http.Request) {
	var director domain.Director
	if !h.decode(w, r, &director) {
		return
	}
	updated, err := h.directors.Update(r.Context(), director)
	h.respond(w, r, updated, err)
}

func (h *Handler) DeleteDirector(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id")
	if !ok {
		return
	}
	h.respondEmpty(w, r, h.directors.Delete(r.Context(), ids[0]))
}
