package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/reelstack/apiserver/internal/cache"
	"github.com/reelstack/apiserver/internal/storage"
	"github.com/reelstack/apiserver/types"
)

// Release years outside this window are rejected as implausible.
const (
	minReleaseYear = 1800
	maxReleaseYear = 2100
)

// MovieRepository defines persistence operations for movies.
type MovieRepository interface {
	List(ctx context.Context) ([]types.Movie, error)
	Get(ctx context.Context, id int) (types.Movie, error)
	Create(ctx context.Context, movie types.Movie) (types.Movie, error)
	Update(ctx context.Context, id int, patch types.MoviePatch) (types.Movie, error)
	Delete(ctx context.Context, id int) (types.Movie, error)
}

// MovieService encapsulates catalog use-cases: validation, CRUD, poster
// uploads and list caching.
type MovieService struct {
	repo    MovieRepository
	storage *storage.Storage
	cache   *cache.Cache
}

func NewMovieService(repo MovieRepository, store *storage.Storage, c *cache.Cache) *MovieService {
	return &MovieService{repo: repo, storage: store, cache: c}
}

func (s *MovieService) List(ctx context.Context) ([]types.Movie, error) {
	var movies []types.Movie
	if err := s.cache.GetJSON(ctx, cache.MoviesListKey, &movies); err == nil {
		return movies, nil
	}
	movies, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, cache.MoviesListKey, movies)
	return movies, nil
}

func (s *MovieService) Get(ctx context.Context, id int) (types.Movie, error) {
	return s.repo.Get(ctx, id)
}

func (s *MovieService) Create(ctx context.Context, movie types.Movie) (types.Movie, error) {
	movie.Title = strings.TrimSpace(movie.Title)
	if movie.Title == "" {
		return types.Movie{}, validationf("title is required")
	}
	if err := validateYear(movie.Year); err != nil {
		return types.Movie{}, err
	}

	created, err := s.repo.Create(ctx, movie)
	if err != nil {
		return types.Movie{}, err
	}
	s.invalidate(ctx)
	return created, nil
}

func (s *MovieService) Update(ctx context.Context, id int, patch types.MoviePatch) (types.Movie, error) {
	if patch.Empty() {
		return types.Movie{}, validationf("no fields to update")
	}
	if patch.TitleSet {
		if patch.Title == nil || strings.TrimSpace(*patch.Title) == "" {
			return types.Movie{}, validationf("title must be a non-empty string")
		}
		trimmed := strings.TrimSpace(*patch.Title)
		patch.Title = &trimmed
	}
	if patch.YearSet {
		if err := validateYear(patch.Year); err != nil {
			return types.Movie{}, err
		}
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return types.Movie{}, err
	}
	s.invalidate(ctx)
	return updated, nil
}

// Delete removes a movie. The store cascades to its reviews.
func (s *MovieService) Delete(ctx context.Context, id int) (types.Movie, error) {
	movie, err := s.repo.Delete(ctx, id)
	if err != nil {
		return types.Movie{}, err
	}
	s.invalidate(ctx)
	return movie, nil
}

// AttachPoster stores a poster image for the movie and records its object
// key as the movie's poster_url.
func (s *MovieService) AttachPoster(ctx context.Context, id int, filename, contentType string, data []byte) (types.Movie, error) {
	if s.storage == nil {
		return types.Movie{}, errors.New("poster storage is not configured")
	}
	if len(data) == 0 {
		return types.Movie{}, validationf("poster file is empty")
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return types.Movie{}, err
	}

	key := posterKey(id, filename)
	if err := s.storage.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return types.Movie{}, err
	}

	return s.Update(ctx, id, types.MoviePatch{PosterURL: &key, PosterURLSet: true})
}

func posterKey(id int, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("posters/%d%s", id, ext)
}

func validateYear(year *int) error {
	if year == nil {
		return nil
	}
	if *year < minReleaseYear || *year > maxReleaseYear {
		return validationf("year must be between %d and %d", minReleaseYear, maxReleaseYear)
	}
	return nil
}

// invalidate drops cached listings affected by a movie mutation. Reviews are
// included because their listing embeds movie titles and cascading deletes
// can remove rows.
func (s *MovieService) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, cache.MoviesListKey, cache.ReviewsListKey)
}
