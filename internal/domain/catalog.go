package domain

// Genre жанр фильма (справочник).
type Genre struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name,omitempty" db:"name"`
}

// Mpa возрастной рейтинг MPA (справочник: G, PG, PG-13, R, NC-17).
type Mpa struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name,omitempty" db:"name"`
}

// Director режиссер фильма.
type Director struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name" validate:"required,notblank"`
}
