package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/reelstack/apiserver/config"
	"github.com/reelstack/apiserver/internal/auth"
	"github.com/reelstack/apiserver/internal/services"
	"github.com/reelstack/apiserver/internal/store"
	"github.com/reelstack/apiserver/types"
)

// memUserRepo, memMovieRepo and memReviewRepo are in-memory repositories
// backing the handler tests, so requests exercise the full router, handler
// and service path without a database.

type memUserRepo struct {
	users  map[int]types.User
	nextID int
}

func (r *memUserRepo) GetByID(_ context.Context, id int) (types.User, error) {
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *memUserRepo) GetByIdentifier(_ context.Context, identifier string) (types.User, error) {
	for _, user := range r.users {
		if user.Username == identifier || user.Email == identifier {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *memUserRepo) List(_ context.Context) ([]types.User, error) {
	users := make([]types.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *memUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
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

func (r *memUserRepo) Delete(_ context.Context, id int) (types.User, error) {
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	delete(r.users, id)
	return user, nil
}

type memMovieRepo struct {
	movies map[int]types.Movie
	nextID int
}

func (r *memMovieRepo) List(_ context.Context) ([]types.Movie, error) {
	movies := make([]types.Movie, 0, len(r.movies))
	for _, movie := range r.movies {
		movies = append(movies, movie)
	}
	sort.Slice(movies, func(i, j int) bool { return movies[i].Title < movies[j].Title })
	return movies, nil
}

func (r *memMovieRepo) Get(_ context.Context, id int) (types.Movie, error) {
	movie, ok := r.movies[id]
	if !ok {
		return types.Movie{}, store.ErrNotFound
	}
	return movie, nil
}

func (r *memMovieRepo) Create(_ context.Context, movie types.Movie) (types.Movie, error) {
	movie.ID = r.nextID
	r.nextID++
	r.movies[movie.ID] = movie
	return movie, nil
}

func (r *memMovieRepo) Update(_ context.Context, id int, patch types.MoviePatch) (types.Movie, error) {
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

func (r *memMovieRepo) Delete(_ context.Context, id int) (types.Movie, error) {
	movie, ok := r.movies[id]
	if !ok {
		return types.Movie{}, store.ErrNotFound
	}
	delete(r.movies, id)
	return movie, nil
}

type memReviewRepo struct {
	reviews map[int]types.Review
	movies  *memMovieRepo
	nextID  int
}

func (r *memReviewRepo) List(_ context.Context) ([]types.Review, error) {
	reviews := make([]types.Review, 0, len(r.reviews))
	for _, review := range r.reviews {
		reviews = append(reviews, review)
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID < reviews[j].ID })
	return reviews, nil
}

func (r *memReviewRepo) Get(_ context.Context, id int) (types.Review, error) {
	review, ok := r.reviews[id]
	if !ok {
		return types.Review{}, store.ErrNotFound
	}
	return review, nil
}

func (r *memReviewRepo) Create(_ context.Context, review types.Review) (types.Review, error) {
	if _, ok := r.movies.movies[review.MovieID]; !ok {
		return types.Review{}, store.ErrForeignKey
	}
	review.ID = r.nextID
	r.nextID++
	review.CreatedAt = time.Now().UTC()
	r.reviews[review.ID] = review
	return review, nil
}

func (r *memReviewRepo) Update(_ context.Context, id int, patch types.ReviewPatch) (types.Review, error) {
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

func (r *memReviewRepo) Delete(_ context.Context, id int) (types.Review, error) {
	review, ok := r.reviews[id]
	if !ok {
		return types.Review{}, store.ErrNotFound
	}
	delete(r.reviews, id)
	return review, nil
}

// testAPI bundles a fully wired router with the fakes behind it.
type testAPI struct {
	router  chi.Router
	issuer  *auth.Issuer
	users   *memUserRepo
	movies  *memMovieRepo
	reviews *memReviewRepo
}

func newTestAPI(t *testing.T, policy string) *testAPI {
	t.Helper()

	issuer, err := auth.NewIssuer("handler-test-secret", time.Hour)
	assert.NoError(t, err)

	users := &memUserRepo{users: map[int]types.User{}, nextID: 1}
	movies := &memMovieRepo{movies: map[int]types.Movie{}, nextID: 1}
	reviews := &memReviewRepo{reviews: map[int]types.Review{}, movies: movies, nextID: 1}

	userService := services.NewUserService(users, nil)
	movieService := services.NewMovieService(movies, nil, nil)
	reviewService := services.NewReviewService(reviews, nil, nil, policy)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) { AuthRouter(r, userService, issuer) })
		r.Route("/users", func(r chi.Router) { UserRouter(r, userService) })
		r.Route("/movies", func(r chi.Router) { MovieRouter(r, movieService, issuer) })
		r.Route("/reviews", func(r chi.Router) { ReviewRouter(r, reviewService, RequireAuth(issuer)) })
	})
	router.Get("/healthz", Healthz)

	return &testAPI{router: router, issuer: issuer, users: users, movies: movies, reviews: reviews}
}

func newAuthorTestAPI(t *testing.T) *testAPI {
	return newTestAPI(t, config.ReviewEditAuthor)
}

// do performs a request against the test router. A non-empty token is sent
// as a bearer credential.
func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		raw, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// register creates an account through the API and returns its token and id.
func (a *testAPI) register(t *testing.T, email, username, password string) (string, int) {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Email: email, Username: username, Password: password,
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp AuthResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	return resp.Token, resp.User.ID
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var value T
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &value))
	return value
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[ErrorResponse](t, rec).Error
}
