package domain

// Review отзыв пользователя о фильме.
// Useful вычисляется как сумма оценок (+1 лайк, -1 дизлайк) и никогда не записывается напрямую.
type Review struct {
	ReviewID   int64  `json:"reviewId" db:"id"`
	Content    string `json:"content" db:"content" validate:"required,notblank,max=500"`
	IsPositive *bool  `json:"isPositive" db:"is_positive" validate:"required"`
	UserID     int64  `json:"userId" db:"user_id" validate:"required"`
	FilmID     int64  `json:"filmId" db:"film_id" validate:"required"`
	Useful     int64  `json:"useful" db:"useful"`
}

// Vote оценка отзыва.
type Vote int16

const (
	VoteLike    Vote = 1
	VoteDislike Vote = -1
)
