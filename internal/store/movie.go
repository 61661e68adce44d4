package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/reelstack/apiserver/types"
)

// MovieRepository handles persistence for movies.
type MovieRepository struct {
	db *sql.DB
}

func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

func (r *MovieRepository) List(ctx context.Context) ([]types.Movie, error) {
	const query = `
		SELECT id, title, genre, year, poster_url, summary
		FROM movies
		ORDER BY title ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := make([]types.Movie, 0)
	for rows.Next() {
		var movie types.Movie
		if err := rows.Scan(
			&movie.ID,
			&movie.Title,
			&movie.Genre,
			&movie.Year,
			&movie.PosterURL,
			&movie.Summary,
		); err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movies, nil
}

func (r *MovieRepository) Get(ctx context.Context, id int) (types.Movie, error) {
	const query = `
		SELECT id, title, genre, year, poster_url, summary
		FROM movies
		WHERE id = $1`
	var movie types.Movie
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Genre,
		&movie.Year,
		&movie.PosterURL,
		&movie.Summary,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Movie{}, ErrNotFound
		}
		return types.Movie{}, err
	}
	return movie, nil
}

func (r *MovieRepository) Create(ctx context.Context, movie types.Movie) (types.Movie, error) {
	const query = `
		INSERT INTO movies (title, genre, year, poster_url, summary)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		movie.Title,
		movie.Genre,
		movie.Year,
		movie.PosterURL,
		movie.Summary,
	).Scan(&movie.ID); err != nil {
		return types.Movie{}, mapConstraintError(err)
	}
	return movie, nil
}

// Update applies a sparse patch in a single UPDATE so the change is atomic.
// The SET clause is assembled from the patch; callers guarantee the patch is
// non-empty and validated.
func (r *MovieRepository) Update(ctx context.Context, id int, patch types.MoviePatch) (types.Movie, error) {
	set, args := buildMovieSet(patch)
	query := fmt.Sprintf(`
		UPDATE movies
		SET %s
		WHERE id = $%d
		RETURNING id, title, genre, year, poster_url, summary`,
		strings.Join(set, ", "), len(args)+1)
	args = append(args, id)

	var movie types.Movie
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Genre,
		&movie.Year,
		&movie.PosterURL,
		&movie.Summary,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Movie{}, ErrNotFound
		}
		return types.Movie{}, mapConstraintError(err)
	}
	return movie, nil
}

func buildMovieSet(patch types.MoviePatch) ([]string, []any) {
	set := make([]string, 0, 5)
	args := make([]any, 0, 5)
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.TitleSet {
		add("title", patch.Title)
	}
	if patch.GenreSet {
		add("genre", patch.Genre)
	}
	if patch.YearSet {
		add("year", patch.Year)
	}
	if patch.PosterURLSet {
		add("poster_url", patch.PosterURL)
	}
	if patch.SummarySet {
		add("summary", patch.Summary)
	}
	return set, args
}

func (r *MovieRepository) Delete(ctx context.Context, id int) (types.Movie, error) {
	const query = `
		DELETE FROM movies
		WHERE id = $1
		RETURNING id, title, genre, year, poster_url, summary`
	var movie types.Movie
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Genre,
		&movie.Year,
		&movie.PosterURL,
		&movie.Summary,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Movie{}, ErrNotFound
		}
		return types.Movie{}, err
	}
	return movie, nil
}
