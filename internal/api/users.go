package api

import (
	"log/slog"
	"net/http"

	"filmorate/internal/domain"
)

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.GetAll(r.Context())
	h.respond(w, r, users, err)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id")
	if !ok {
		return
	}
	user, err := h.users.GetByID(r.Context(), ids[0])
	h.respond(w, r, user, err)
}

// CreateUser обрабатывает запрос на создание пользователя.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var user domain.User
	if !h.decode(w, r, &user) {
		return
	}
	h.logger.InfoContext(r.Context(), "HTTP CreateUser request received", slog.String("login", user.Login))
	created, err := h.users.Create(r.Context(), user)
	h.respond(w, r, created, err)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var user domain.User
	if !h.decode(w, r, &user) {
		return
	}
	h.logger.InfoContext(r.Context(), "HTTP UpdateUser request received", slog.Int64("userID", user.ID))
	updated, err := h.users.Update(r.Context(), user)
	h.respond(w, r, updated, err)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id")
	if !ok {
		return
	}
	h.respondEmpty(w, r, h.users.Delete(r.Context(), ids[0]))
}

func (h *Handler) GetFriends(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id")
	if !ok {
		return
	}
	friends, err := h.users.GetFriends(r.Context(), ids[0])
	h.respond(w, r, friends, err)
}

func (h *Handler) AddFriend(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id", "friendId")
	if !ok {
		return
	}
	h.respondEmpty(w, r, h.users.AddFriend(r.Context(), ids[0], ids[1]))
}

func (h *Handler) DeleteFriend(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id", "friendId")
	if !ok {
		return
	}
	h.respondEmpty(w, r, h.users.DeleteFriend(r.Context(), ids[0], ids[1]))
}

// GetCommonFriends возвращает общих друзей двух пользователей.
func (h *Handler) GetCommonFriends(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id", "otherId")
	if !ok {
		return
	}
	friends, err := h.users.FindCommonFriends(r.Context(), ids[0], ids[1])
	h.respond(w, r, friends, err)
}

func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id")
	if !ok {
		return
	}
	films, err := h.users.GetRecommendations(r.Context(), ids[0])
	h.respond(w, r, films, err)
}

// GetFeed возвращает ленту событий пользователя.
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id")
	if !ok {
		return
	}
	events, err := h.users.GetEventsList(r.Context(), ids[0])
	h.respond(w, r, events, err)
}
