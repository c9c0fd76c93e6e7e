package store

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"

	"filmorate/internal/domain"
)

type edge struct{ from, to int64 }

// memoryState общее состояние всех in-memory хранилищ, защищенное одним мьютексом.
type memoryState struct {
	mu sync.RWMutex

	users     map[int64]domain.User
	films     map[int64]domain.Film // без Genres/Directors, связи хранятся отдельно
	reviews   map[int64]domain.Review
	directors map[int64]domain.Director
	genres    map[int64]domain.Genre
	ratings   map[int64]domain.Mpa

	friends     map[edge]struct{}
	likes       map[edge]struct{} // film -> user
	reviewVotes map[edge]domain.Vote
	filmGenres  map[int64][]int64
	filmDirs    map[int64][]int64
	feed        []domain.Event

	nextUser, nextFilm, nextReview, nextDirector, nextEvent int64
}

// NewMemoryStores создает набор in-memory хранилищ с теми же справочниками, что и миграции.
func NewMemoryStores() *Stores {
	st := &memoryState{
		users:       make(map[int64]domain.User),
		films:       make(map[int64]domain.Film),
		reviews:     make(map[int64]domain.Review),
		directors:   make(map[int64]domain.Director),
		genres:      make(map[int64]domain.Genre),
		ratings:     make(map[int64]domain.Mpa),
		friends:     make(map[edge]struct{}),
		likes:       make(map[edge]struct{}),
		reviewVotes: make(map[edge]domain.Vote),
		filmGenres:  make(map[int64][]int64),
		filmDirs:    make(map[int64][]int64),
	}
	for i, name := range []string{"G", "PG", "PG-13", "R", "NC-17"} {
		st.ratings[int64(i+1)] = domain.Mpa{ID: int64(i + 1), Name: name}
	}
	for i, name := range []string{"Комедия", "Драма", "Мультфильм", "Триллер", "Документальный", "Боевик"} {
		st.genres[int64(i+1)] = domain.Genre{ID: int64(i + 1), Name: name}
	}
	return &Stores{
		Users:       &MemoryUserStore{st},
		Friends:     &MemoryFriendStore{st},
		Films:       &MemoryFilmStore{st},
		Likes:       &MemoryLikeStore{st},
		Reviews:     &MemoryReviewStore{st},
		ReviewLikes: &MemoryReviewLikeStore{st},
		Feed:        &MemoryFeedStore{st},
		Genres:      &MemoryGenreStore{st},
		Mpa:         &MemoryMpaStore{st},
		Directors:   &MemoryDirectorStore{st},
		Tx:          &MemoryTransactor{st},
	}
}

// MemoryTransactor выполняет fn над копией состояния и публикует ее только
// при успехе. На время транзакции остальные операции блокируются.
type MemoryTransactor struct{ st *memoryState }

func (t *MemoryTransactor) InTx(ctx context.Context, fn func(tx *TxStores) error) error {
	t.st.mu.Lock()
	defer t.st.mu.Unlock()

	work := t.st.clone()
	if err := fn(&TxStores{
		Friends: &MemoryFriendStore{work},
		Likes:   &MemoryLikeStore{work},
		Reviews: &MemoryReviewStore{work},
		Feed:    &MemoryFeedStore{work},
	}); err != nil {
		return err
	}
	t.st.replaceData(work)
	return nil
}

func cloneLinks(m map[int64][]int64) map[int64][]int64 {
	out := make(map[int64][]int64, len(m))
	for k, v := range m {
		out[k] = slices.Clone(v)
	}
	return out
}

// clone копирует данные без мьютекса. Вызывается под st.mu.
func (st *memoryState) clone() *memoryState {
	return &memoryState{
		users:        maps.Clone(st.users),
		films:        maps.Clone(st.films),
		reviews:      maps.Clone(st.reviews),
		directors:    maps.Clone(st.directors),
		genres:       maps.Clone(st.genres),
		ratings:      maps.Clone(st.ratings),
		friends:      maps.Clone(st.friends),
		likes:        maps.Clone(st.likes),
		reviewVotes:  maps.Clone(st.reviewVotes),
		filmGenres:   cloneLinks(st.filmGenres),
		filmDirs:     cloneLinks(st.filmDirs),
		feed:         slices.Clone(st.feed),
		nextUser:     st.nextUser,
		nextFilm:     st.nextFilm,
		nextReview:   st.nextReview,
		nextDirector: st.nextDirector,
		nextEvent:    st.nextEvent,
	}
}

// replaceData переносит данные из src. Вызывается под st.mu.
func (st *memoryState) replaceData(src *memoryState) {
	st.users, st.films, st.reviews = src.users, src.films, src.reviews
	st.directors, st.genres, st.ratings = src.directors, src.genres, src.ratings
	st.friends, st.likes, st.reviewVotes = src.friends, src.likes, src.reviewVotes
	st.filmGenres, st.filmDirs, st.feed = src.filmGenres, src.filmDirs, src.feed
	st.nextUser, st.nextFilm, st.nextReview = src.nextUser, src.nextFilm, src.nextReview
	st.nextDirector, st.nextEvent = src.nextDirector, src.nextEvent
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// --- Users ---

type MemoryUserStore struct{ st *memoryState }

func (m *MemoryUserStore) Create(ctx context.Context, user *domain.User) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	m.st.nextUser++
	user.ID = m.st.nextUser
	m.st.users[user.ID] = *user
	return nil
}

func (m *MemoryUserStore) Update(ctx context.Context, user *domain.User) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if _, ok := m.st.users[user.ID]; !ok {
		return ErrUserNotFound
	}
	m.st.users[user.ID] = *user
	return nil
}

// Delete удаляет пользователя каскадно, как ON DELETE CASCADE в схеме.
func (m *MemoryUserStore) Delete(ctx context.Context, id int64) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if _, ok := m.st.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(m.st.users, id)
	for e := range m.st.friends {
		if e.from == id || e.to == id {
			delete(m.st.friends, e)
		}
	}
	for e := range m.st.likes {
		if e.to == id {
			delete(m.st.likes, e)
		}
	}
	for e := range m.st.reviewVotes {
		if e.to == id {
			delete(m.st.reviewVotes, e)
		}
	}
	for rid, r := range m.st.reviews {
		if r.UserID == id {
			m.st.deleteReview(rid)
		}
	}
	kept := m.st.feed[:0]
	for _, ev := range m.st.feed {
		if ev.UserID != id {
			kept = append(kept, ev)
		}
	}
	m.st.feed = kept
	return nil
}

func (m *MemoryUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	user, ok := m.st.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (m *MemoryUserStore) GetByIDs(ctx context.Context, ids []int64) ([]domain.User, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	users := []domain.User{}
	for _, id := range sortedKeys(set) {
		if u, ok := m.st.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (m *MemoryUserStore) GetAll(ctx context.Context) ([]domain.User, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	users := make([]domain.User, 0, len(m.st.users))
	for _, id := range sortedKeys(m.st.users) {
		users = append(users, m.st.users[id])
	}
	return users, nil
}

func (m *MemoryUserStore) Exists(ctx context.Context, id int64) (bool, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	_, ok := m.st.users[id]
	return ok, nil
}

func (m *MemoryUserStore) CommonFriends(ctx context.Context, id, otherID int64) ([]domain.User, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	common := make(map[int64]struct{})
	for e := range m.st.friends {
		if e.from != id {
			continue
		}
		if _, ok := m.st.friends[edge{otherID, e.to}]; ok {
			common[e.to] = struct{}{}
		}
	}
	users := []domain.User{}
	for _, fid := range sortedKeys(common) {
		if u, ok := m.st.users[fid]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

type MemoryFriendStore struct{ st *memoryState }

func (m *MemoryFriendStore) Add(ctx context.Context, userID, friendID int64) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if !m.st.hasUser(userID) || !m.st.hasUser(friendID) {
		return fmt.Errorf("%w: friends", ErrReferenceNotFound)
	}
	m.st.friends[edge{userID, friendID}] = struct{}{}
	return nil
}

func (m *MemoryFriendStore) Delete(ctx context.Context, userID, friendID int64) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	delete(m.st.friends, edge{userID, friendID})
	return nil
}

func (m *MemoryFriendStore) Exists(ctx context.Context, userID, friendID int64) (bool, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	_, ok := m.st.friends[edge{userID, friendID}]
	return ok, nil
}

func (m *MemoryFriendStore) FriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	ids := []int64{}
	for e := range m.st.friends {
		if e.from == userID {
			ids = append(ids, e.to)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (st *memoryState) hasUser(id int64) bool {
	_, ok := st.users[id]
	return ok
}

// --- Films ---

type MemoryFilmStore struct{ st *memoryState }

func (st *memoryState) checkFilmRefs(film *domain.Film) error {
	if _, ok := st.ratings[film.Mpa.ID]; !ok {
		return fmt.Errorf("%w: rating %d", ErrReferenceNotFound, film.Mpa.ID)
	}
	for _, id := range film.GenreIDs() {
		if _, ok := st.genres[id]; !ok {
			return fmt.Errorf("%w: genre %d", ErrReferenceNotFound, id)
		}
	}
	for _, id := range film.DirectorIDs() {
		if _, ok := st.directors[id]; !ok {
			return fmt.Errorf("%w: director %d", ErrReferenceNotFound, id)
		}
	}
	return nil
}

func (st *memoryState) saveFilm(film *domain.Film) {
	stored := *film
	stored.Genres, stored.Directors, stored.Likes = nil, nil, 0
	stored.Mpa = st.ratings[film.Mpa.ID]
	st.films[film.ID] = stored
	st.filmGenres[film.ID] = film.GenreIDs()
	st.filmDirs[film.ID] = film.DirectorIDs()
}

// film возвращает фильм с рейтингом и числом лайков.
func (st *memoryState) film(id int64) domain.Film {
	f := st.films[id]
	f.Mpa = st.ratings[f.Mpa.ID]
	f.Likes = st.likeCount(id)
	return f
}

func (st *memoryState) likeCount(filmID int64) int64 {
	var n int64
	for e := range st.likes {
		if e.from == filmID {
			n++
		}
	}
	return n
}

func (m *MemoryFilmStore) Create(ctx context.Context, film *domain.Film) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if err := m.st.checkFilmRefs(film); err != nil {
		return err
	}
	m.st.nextFilm++
	film.ID = m.st.nextFilm
	m.st.saveFilm(film)
	return nil
}

func (m *MemoryFilmStore) Update(ctx context.Context, film *domain.Film) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if _, ok := m.st.films[film.ID]; !ok {
		return ErrFilmNotFound
	}
	if err := m.st.checkFilmRefs(film); err != nil {
		return err
	}
	m.st.saveFilm(film)
	return nil
}

func (m *MemoryFilmStore) Delete(ctx context.Context, id int64) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if _, ok := m.st.films[id]; !ok {
		return ErrFilmNotFound
	}
	delete(m.st.films, id)
	delete(m.st.filmGenres, id)
	delete(m.st.filmDirs, id)
	for e := range m.st.likes {
		if e.from == id {
			delete(m.st.likes, e)
		}
	}
	for rid, r := range m.st.reviews {
		if r.FilmID == id {
			m.st.deleteReview(rid)
		}
	}
	return nil
}

func (m *MemoryFilmStore) GetByID(ctx context.Context, id int64) (*domain.Film, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	if _, ok := m.st.films[id]; !ok {
		return nil, ErrFilmNotFound
	}
	f := m.st.film(id)
	return &f, nil
}

func (m *MemoryFilmStore) GetByIDs(ctx context.Context, ids []int64) ([]domain.Film, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := m.st.films[id]; ok {
			set[id] = struct{}{}
		}
	}
	return m.st.filmsByID(sortedKeys(set)), nil
}

func (m *MemoryFilmStore) GetAll(ctx context.Context) ([]domain.Film, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	return m.st.filmsByID(sortedKeys(m.st.films)), nil
}

func (m *MemoryFilmStore) Exists(ctx context.Context, id int64) (bool, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	_, ok := m.st.films[id]
	return ok, nil
}

func (m *MemoryFilmStore) Popular(ctx context.Context, params PopularParams) ([]domain.Film, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	films := m.st.filterFilms(func(f domain.Film) bool {
		if params.Year != nil && f.ReleaseDate.Year() != *params.Year {
			return false
		}
		if params.GenreID != nil && !containsID(m.st.filmGenres[f.ID], *params.GenreID) {
			return false
		}
		return true
	})
	sortByLikes(films)
	if params.Count >= 0 && len(films) > params.Count {
		films = films[:params.Count]
	}
	return films, nil
}

func (m *MemoryFilmStore) ByDirector(ctx context.Context, directorID int64, sortBy domain.FilmSort) ([]domain.Film, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	films := m.st.filterFilms(func(f domain.Film) bool {
		return containsID(m.st.filmDirs[f.ID], directorID)
	})
	switch sortBy {
	case domain.SortByYear:
		sort.SliceStable(films, func(i, j int) bool { return films[i].ReleaseDate.Before(films[j].ReleaseDate) })
	case domain.SortByLikes:
		sortByLikes(films)
	default:
		return nil, fmt.Errorf("unsupported sort %q", sortBy)
	}
	return films, nil
}

func (m *MemoryFilmStore) Common(ctx context.Context, userID, friendID int64) ([]domain.Film, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	films := m.st.filterFilms(func(f domain.Film) bool {
		_, a := m.st.likes[edge{f.ID, userID}]
		_, b := m.st.likes[edge{f.ID, friendID}]
		return a && b && userID != friendID
	})
	sortByLikes(films)
	return films, nil
}

func (m *MemoryFilmStore) Search(ctx context.Context, query string, by domain.SearchBy) ([]domain.Film, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	q := strings.ToLower(query)
	films := m.st.filterFilms(func(f domain.Film) bool {
		if by.Title && strings.Contains(strings.ToLower(f.Name), q) {
			return true
		}
		if by.Director {
			for _, id := range m.st.filmDirs[f.ID] {
				if strings.Contains(strings.ToLower(m.st.directors[id].Name), q) {
					return true
				}
			}
		}
		return false
	})
	sortByLikes(films)
	return films, nil
}

func (st *memoryState) filmsByID(ids []int64) []domain.Film {
	films := make([]domain.Film, 0, len(ids))
	for _, id := range ids {
		films = append(films, st.film(id))
	}
	return films
}

func (st *memoryState) filterFilms(keep func(domain.Film) bool) []domain.Film {
	films := []domain.Film{}
	for _, id := range sortedKeys(st.films) {
		if f := st.film(id); keep(f) {
			films = append(films, f)
		}
	}
	return films
}

// sortByLikes упорядочивает по убыванию лайков; при равенстве сохраняется порядок по id.
func sortByLikes(films []domain.Film) {
	sort.SliceStable(films, func(i, j int) bool { return films[i].Likes > films[j].Likes })
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type MemoryLikeStore struct{ st *memoryState }

func (m *MemoryLikeStore) Add(ctx context.Context, filmID, userID int64) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if _, ok := m.st.films[filmID]; !ok || !m.st.hasUser(userID) {
		return fmt.Errorf("%w: film_like", ErrReferenceNotFound)
	}
	m.st.likes[edge{filmID, userID}] = struct{}{}
	return nil
}

func (m *MemoryLikeStore) Delete(ctx context.Context, filmID, userID int64) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	delete(m.st.likes, edge{filmID, userID})
	return nil
}

func (m *MemoryLikeStore) Exists(ctx context.Context, filmID, userID int64) (bool, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	_, ok := m.st.likes[edge{filmID, userID}]
	return ok, nil
}

func (m *MemoryLikeStore) All(ctx context.Context) (map[int64][]int64, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	result := make(map[int64][]int64)
	for e := range m.st.likes {
		result[e.to] = append(result[e.to], e.from)
	}
	for _, ids := range result {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}
	return result, nil
}

// --- Reviews ---

type MemoryReviewStore struct{ st *memoryState }

func (st *memoryState) review(id int64) domain.Review {
	r := st.reviews[id]
	r.Useful = 0
	for e, v := range st.reviewVotes {
		if e.from == id {
			r.Useful += int64(v)
		}
	}
	return r
}

func (st *memoryState) deleteReview(id int64) {
	delete(st.reviews, id)
	for e := range st.reviewVotes {
		if e.from == id {
			delete(st.reviewVotes, e)
		}
	}
}

func (st *memoryState) sortedReviews(keep func(domain.Review) bool) []domain.Review {
	reviews := []domain.Review{}
	for _, id := range sortedKeys(st.reviews) {
		if r := st.review(id); keep(r) {
			reviews = append(reviews, r)
		}
	}
	sort.SliceStable(reviews, func(i, j int) bool { return reviews[i].Useful > reviews[j].Useful })
	return reviews
}

func (m *MemoryReviewStore) Create(ctx context.Context, review *domain.Review) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if _, ok := m.st.films[review.FilmID]; !ok || !m.st.hasUser(review.UserID) {
		return fmt.Errorf("%w: reviews", ErrReferenceNotFound)
	}
	m.st.nextReview++
	review.ReviewID = m.st.nextReview
	review.Useful = 0
	m.st.reviews[review.ReviewID] = *review
	return nil
}

func (m *MemoryReviewStore) Update(ctx context.Context, review *domain.Review) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	stored, ok := m.st.reviews[review.ReviewID]
	if !ok {
		return ErrReviewNotFound
	}
	stored.Content = review.Content
	stored.IsPositive = review.IsPositive
	m.st.reviews[review.ReviewID] = stored
	return nil
}

func (m *MemoryReviewStore) Delete(ctx context.Context, id int64) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if _, ok := m.st.reviews[id]; !ok {
		return ErrReviewNotFound
	}
	m.st.deleteReview(id)
	return nil
}

func (m *MemoryReviewStore) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	if _, ok := m.st.reviews[id]; !ok {
		return nil, ErrReviewNotFound
	}
	r := m.st.review(id)
	return &r, nil
}

func (m *MemoryReviewStore) GetAll(ctx context.Context) ([]domain.Review, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	return m.st.sortedReviews(func(domain.Review) bool { return true }), nil
}

func (m *MemoryReviewStore) GetByFilmID(ctx context.Context, filmID int64, count int) ([]domain.Review, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	reviews := m.st.sortedReviews(func(r domain.Review) bool { return r.FilmID == filmID })
	if count >= 0 && len(reviews) > count {
		reviews = reviews[:count]
	}
	return reviews, nil
}

func (m *MemoryReviewStore) Exists(ctx context.Context, id int64) (bool, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	_, ok := m.st.reviews[id]
	return ok, nil
}

type MemoryReviewLikeStore struct{ st *memoryState }

func (m *MemoryReviewLikeStore) Upsert(ctx context.Context, reviewID, userID int64, vote domain.Vote) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if _, ok := m.st.reviews[reviewID]; !ok || !m.st.hasUser(userID) {
		return fmt.Errorf("%w: review_like", ErrReferenceNotFound)
	}
	m.st.reviewVotes[edge{reviewID, userID}] = vote
	return nil
}

func (m *MemoryReviewLikeStore) Delete(ctx context.Context, reviewID, userID int64) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	delete(m.st.reviewVotes, edge{reviewID, userID})
	return nil
}

// --- Feed ---

type MemoryFeedStore struct{ st *memoryState }

func (m *MemoryFeedStore) Add(ctx context.Context, event *domain.Event) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	m.st.nextEvent++
	event.EventID = m.st.nextEvent
	m.st.feed = append(m.st.feed, *event)
	return nil
}

func (m *MemoryFeedStore) ListByUser(ctx context.Context, userID int64) ([]domain.Event, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	events := []domain.Event{}
	for _, ev := range m.st.feed {
		if ev.UserID == userID {
			events = append(events, ev)
		}
	}
	return events, nil
}

// --- Catalog ---

type MemoryGenreStore struct{ st *memoryState }

func (m *MemoryGenreStore) GetAll(ctx context.Context) ([]domain.Genre, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	genres := make([]domain.Genre, 0, len(m.st.genres))
	for _, id := range sortedKeys(m.st.genres) {
		genres = append(genres, m.st.genres[id])
	}
	return genres, nil
}

func (m *MemoryGenreStore) GetByID(ctx context.Context, id int64) (*domain.Genre, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	g, ok := m.st.genres[id]
	if !ok {
		return nil, ErrGenreNotFound
	}
	return &g, nil
}

func (m *MemoryGenreStore) Exists(ctx context.Context, id int64) (bool, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	_, ok := m.st.genres[id]
	return ok, nil
}

func (m *MemoryGenreStore) ByFilmIDs(ctx context.Context, filmIDs []int64) (map[int64][]domain.Genre, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	result := make(map[int64][]domain.Genre, len(filmIDs))
	for _, fid := range filmIDs {
		ids := append([]int64(nil), m.st.filmGenres[fid]...)
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			result[fid] = append(result[fid], m.st.genres[id])
		}
	}
	return result, nil
}

type MemoryMpaStore struct{ st *memoryState }

func (m *MemoryMpaStore) GetAll(ctx context.Context) ([]domain.Mpa, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	ratings := make([]domain.Mpa, 0, len(m.st.ratings))
	for _, id := range sortedKeys(m.st.ratings) {
		ratings = append(ratings, m.st.ratings[id])
	}
	return ratings, nil
}

func (m *MemoryMpaStore) GetByID(ctx context.Context, id int64) (*domain.Mpa, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	r, ok := m.st.ratings[id]
	if !ok {
		return nil, ErrMpaNotFound
	}
	return &r, nil
}

func (m *MemoryMpaStore) Exists(ctx context.Context, id int64) (bool, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	_, ok := m.st.ratings[id]
	return ok, nil
}

type MemoryDirectorStore struct{ st *memoryState }

func (m *MemoryDirectorStore) Create(ctx context.Context, director *domain.Director) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	m.st.nextDirector++
	director.ID = m.st.nextDirector
	m.st.directors[director.ID] = *director
	return nil
}

func (m *MemoryDirectorStore) Update(ctx context.Context, director *domain.Director) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if _, ok := m.st.directors[director.ID]; !ok {
		return ErrDirectorNotFound
	}
	m.st.directors[director.ID] = *director
	return nil
}

func (m *MemoryDirectorStore) Delete(ctx context.Context, id int64) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if _, ok := m.st.directors[id]; !ok {
		return ErrDirectorNotFound
	}
	delete(m.st.directors, id)
	for fid, ids := range m.st.filmDirs {
		kept := ids[:0]
		for _, d := range ids {
			if d != id {
				kept = append(kept, d)
			}
		}
		m.st.filmDirs[fid] = kept
	}
	return nil
}

func (m *MemoryDirectorStore) GetByID(ctx context.Context, id int64) (*domain.Director, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	d, ok := m.st.directors[id]
	if !ok {
		return nil, ErrDirectorNotFound
	}
	return &d, nil
}

func (m *MemoryDirectorStore) GetAll(ctx context.Context) ([]domain.Director, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	directors := make([]domain.Director, 0, len(m.st.directors))
	for _, id := range sortedKeys(m.st.directors) {
		directors = append(directors, m.st.directors[id])
	}
	return directors, nil
}

func (m *MemoryDirectorStore) Exists(ctx context.Context, id int64) (bool, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	_, ok := m.st.directors[id]
	return ok, nil
}

func (m *MemoryDirectorStore) ByFilmIDs(ctx context.Context, filmIDs []int64) (map[int64][]domain.Director, error) {
	m.st.mu.RLock()
	defer m.st.mu.RUnlock()
	result := make(map[int64][]domain.Director, len(filmIDs))
	for _, fid := range filmIDs {
		ids := append([]int64(nil), m.st.filmDirs[fid]...)
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			result[fid] = append(result[fid], m.st.directors[id])
		}
	}
	return result, nil
}
