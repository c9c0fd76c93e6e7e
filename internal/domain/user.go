package domain

// User представляет пользователя Filmorate
type User struct {
	ID       int64  `json:"id" db:"id"`
	Email    string `json:"email" db:"email" validate:"omitempty,email"`
	Login    string `json:"login" db:"login" validate:"required,login"`
	Name     string `json:"name" db:"name"`
	Birthday Date   `json:"birthday" db:"birthday" validate:"notfuture"`
}
