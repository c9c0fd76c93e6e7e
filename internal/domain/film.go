package domain

// Film представляет фильм вместе с рейтингом, жанрами и режиссерами.
// Genres и Directors хранятся в отдельных таблицах связей и заполняются сервисом.
type Film struct {
	ID          int64      `json:"id" db:"id"`
	Name        string     `json:"name" db:"name" validate:"required,notblank"`
	Description string     `json:"description" db:"description" validate:"max=200"`
	ReleaseDate Date       `json:"releaseDate" db:"release_date" validate:"required,releasedate"`
	Duration    int        `json:"duration" db:"duration" validate:"gt=0"`
	Mpa         Mpa        `json:"mpa" db:"mpa"`
	Genres      []Genre    `json:"genres" db:"-"`
	Directors   []Director `json:"directors" db:"-"`
	Likes       int64      `json:"likes" db:"likes"`
}

// GenreIDs возвращает идентификаторы жанров без повторов в порядке первого появления.
func (f *Film) GenreIDs() []int64 {
	ids := make([]int64, 0, len(f.Genres))
	seen := make(map[int64]struct{}, len(f.Genres))
	for _, g := range f.Genres {
		if _, ok := seen[g.ID]; ok {
			continue
		}
		seen[g.ID] = struct{}{}
		ids = append(ids, g.ID)
	}
	return ids
}

// DirectorIDs возвращает идентификаторы режиссеров без повторов.
func (f *Film) DirectorIDs() []int64 {
	ids := make([]int64, 0, len(f.Directors))
	seen := make(map[int64]struct{}, len(f.Directors))
	for _, d := range f.Directors {
		if _, ok := seen[d.ID]; ok {
			continue
		}
		seen[d.ID] = struct{}{}
		ids = append(ids, d.ID)
	}
	return ids
}

// FilmSort порядок выдачи фильмов режиссера.
type FilmSort string

const (
	SortByYear  FilmSort = "year"
	SortByLikes FilmSort = "likes"
)

// SearchBy определяет, по каким полям искать фильмы.
type SearchBy struct {
	Title    bool
	Director bool
}
