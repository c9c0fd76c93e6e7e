package api

import (
	"log/slog"
	"net/http"

	"filmorate/internal/domain"
	"filmorate/internal/service"
)

// GetReviews возвращает отзывы фильма filmId или все отзывы, если параметр не задан.
func (h *Handler) GetReviews(w http.ResponseWriter, r *http.Request) {
	filmID, ok := h.queryInt64(w, r, "filmId")
	if !ok {
		return
	}
	count, ok := h.queryInt64(w, r, "count")
	if !ok {
		return
	}

	id := service.AllFilms
	if filmID != nil {
		id = *filmID
	}
	limit := service.DefaultTopCount
	if count != nil {
		limit = int(*count)
	}
	reviews, err := h.reviews.GetReviewsByFilmID(r.Context(), id, limit)
	h.respond(w, r, reviews, err)
}

func (h *Handler) GetReview(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id")
	if !ok {
		return
	}
	review, err := h.reviews.GetReviewByID(r.Context(), ids[0])
	h.respond(w, r, review, err)
}

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var review domain.Review
	if !h.decode(w, r, &review) {
		return
	}
	h.logger.InfoContext(r.Context(), "HTTP CreateReview request received",
		slog.Int64("userID", review.UserID), slog.Int64("filmID", review.FilmID))
	created, err := h.reviews.AddReview(r.Context(), review)
	h.respond(w, r, created, err)
}

func (h *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var review domain.Review
	if !h.decode(w, r, &review) {
		return
	}
	updated, err := h.reviews.UpdateReview(r.Context(), review)
	h.respond(w, r, updated, err)
}

func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id")
	if !ok {
		return
	}
	h.respondEmpty(w, r, h.reviews.DeleteReview(r.Context(), ids[0]))
}

func (h *Handler) LikeReview(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id", "userId")
	if !ok {
		return
	}
	h.respondEmpty(w, r, h.reviews.AddLikeToReview(r.Context(), ids[0], ids[1]))
}

func (h *Handler) DislikeReview(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id", "userId")
	if !ok {
		return
	}
	h.respondEmpty(w, r, h.reviews.AddDislikeToReview(r.Context(), ids[0], ids[1]))
}

// DeleteReviewVote снимает оценку пользователя; обслуживает и /like, и /dislike.
func (h *Handler) DeleteReviewVote(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id", "userId")
	if !ok {
		return
	}
	h.respondEmpty(w, r, h.reviews.DeleteLikeOrDislike(r.Context(), ids[0], ids[1]))
}
