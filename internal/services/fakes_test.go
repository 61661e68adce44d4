package services

import (
	"context"
	"sort"
	"time"

	"github.com/reelstack/apiserver/internal/store"
	"github.com/reelstack/apiserver/types"
)

// fakeUserRepo is an in-memory UserRepository used by the service tests.
type fakeUserRepo struct {
	users  map[int]types.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int]types.User{}, nextID: 1}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (types.User, error) {
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByIdentifier(_ context.Context, identifier string) (types.User, error) {
	for _, user := range r.users {
		if user.Username == identifier || user.Email == identifier {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]types.User, error) {
	users := make([]types.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return types.User{}, store.ErrDuplicate
		}
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int) (types.User, error) {
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	delete(r.users, id)
	return user, nil
}

// fakeMovieRepo is an in-memory MovieRepository. It records whether Update
// was reached so tests can assert that validation short-circuits.
type fakeMovieRepo struct {
	movies      map[int]types.Movie
	nextID      int
	updateCalls int
}

func newFakeMovieRepo() *fakeMovieRepo {
	return &fakeMovieRepo{movies: map[int]types.Movie{}, nextID: 1}
}

func (r *fakeMovieRepo) List(_ context.Context) ([]types.Movie, error) {
	movies := make([]types.Movie, 0, len(r.movies))
	for _, movie := range r.movies {
		movies = append(movies, movie)
	}
	sort.Slice(movies, func(i, j int) bool { return movies[i].Title < movies[j].Title })
	return movies, nil
}

func (r *fakeMovieRepo) Get(_ context.Context, id int) (types.Movie, error) {
	movie, ok := r.movies[id]
	if !ok {
		return types.Movie{}, store.ErrNotFound
	}
	return movie, nil
}

func (r *fakeMovieRepo) Create(_ context.Context, movie types.Movie) (types.Movie, error) {
	movie.ID = r.nextID
	r.nextID++
	r.movies[movie.ID] = movie
	return movie, nil
}

func (r *fakeMovieRepo) Update(_ context.Context, id int, patch types.MoviePatch) (types.Movie, error) {
	r.updateCalls++
	movie, ok := r.movies[id]
	if !ok {
		return types.Movie{}, store.ErrNotFound
	}
	if patch.TitleSet {
		movie.Title = *patch.Title
	}
	if patch.GenreSet {
		movie.Genre = patch.Genre
	}
	if patch.YearSet {
		movie.Year = patch.Year
	}
	if patch.PosterURLSet {
		movie.PosterURL = patch.PosterURL
	}
	if patch.SummarySet {
		movie.Summary = patch.Summary
	}
	r.movies[id] = movie
	return movie, nil
}

func (r *fakeMovieRepo) Delete(_ context.Context, id int) (types.Movie, error) {
	movie, ok := r.movies[id]
	if !ok {
		return types.Movie{}, store.ErrNotFound
	}
	delete(r.movies, id)
	return movie, nil
}

// fakeReviewRepo is an in-memory ReviewRepository. validMovies mimics the
// foreign key constraint on movie_id.
type fakeReviewRepo struct {
	reviews     map[int]types.Review
	validMovies map[int]bool
	nextID      int
	createCalls int
	getCalls    int
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{
		reviews:     map[int]types.Review{},
		validMovies: map[int]bool{},
		nextID:      1,
	}
}

func (r *fakeReviewRepo) List(_ context.Context) ([]types.Review, error) {
	reviews := make([]types.Review, 0, len(r.reviews))
	for _, review := range r.reviews {
		reviews = append(reviews, review)
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID < reviews[j].ID })
	return reviews, nil
}

func (r *fakeReviewRepo) Get(_ context.Context, id int) (types.Review, error) {
	r.getCalls++
	review, ok := r.reviews[id]
	if !ok {
		return types.Review{}, store.ErrNotFound
	}
	return review, nil
}

func (r *fakeReviewRepo) Create(_ context.Context, review types.Review) (types.Review, error) {
	r.createCalls++
	if len(r.validMovies) > 0 && !r.validMovies[review.MovieID] {
		return types.Review{}, store.ErrForeignKey
	}
	review.ID = r.nextID
	r.nextID++
	review.CreatedAt = time.Now().UTC()
	r.reviews[review.ID] = review
	return review, nil
}

func (r *fakeReviewRepo) Update(_ context.Context, id int, patch types.ReviewPatch) (types.Review, error) {
	review, ok := r.reviews[id]
	if !ok {
		return types.Review{}, store.ErrNotFound
	}
	if patch.RatingSet && patch.Rating != nil {
		review.Rating = *patch.Rating
	}
	if patch.CommentSet && patch.Comment != nil {
		review.Comment = *patch.Comment
	}
	r.reviews[id] = review
	return review, nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, id int) (types.Review, error) {
	review, ok := r.reviews[id]
	if !ok {
		return types.Review{}, store.ErrNotFound
	}
	delete(r.reviews, id)
	return review, nil
}
