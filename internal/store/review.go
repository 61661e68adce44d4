package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/reelstack/apiserver/types"
)

// ReviewRepository handles persistence for reviews.
type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// List returns all reviews enriched with the author's username and the
// movie title, newest first.
func (r *ReviewRepository) List(ctx context.Context) ([]types.Review, error) {
	const query = `
		SELECT reviews.id, reviews.user_id, reviews.movie_id, reviews.rating,
			reviews.comment, reviews.created_at,
			users.username, movies.title AS movie_title
		FROM reviews
		JOIN users ON reviews.user_id = users.id
		JOIN movies ON reviews.movie_id = movies.id
		ORDER BY reviews.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]types.Review, 0)
	for rows.Next() {
		var review types.Review
		if err := rows.Scan(
			&review.ID,
			&review.UserID,
			&review.MovieID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
			&review.Username,
			&review.MovieTitle,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewRepository) Get(ctx context.Context, id int) (types.Review, error) {
	const query = `
		SELECT reviews.id, reviews.user_id, reviews.movie_id, reviews.rating,
			reviews.comment, reviews.created_at,
			users.username, movies.title AS movie_title
		FROM reviews
		JOIN users ON reviews.user_id = users.id
		JOIN movies ON reviews.movie_id = movies.id
		WHERE reviews.id = $1`
	var review types.Review
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&review.ID,
		&review.UserID,
		&review.MovieID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.Username,
		&review.MovieTitle,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Review{}, ErrNotFound
		}
		return types.Review{}, err
	}
	return review, nil
}

func (r *ReviewRepository) Create(ctx context.Context, review types.Review) (types.Review, error) {
	const query = `
		INSERT INTO reviews (user_id, movie_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		review.UserID,
		review.MovieID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt); err != nil {
		return types.Review{}, mapConstraintError(err)
	}
	return review, nil
}

// Update applies a sparse patch in a single UPDATE. Only rating and comment
// are mutable.
func (r *ReviewRepository) Update(ctx context.Context, id int, patch types.ReviewPatch) (types.Review, error) {
	set := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if patch.RatingSet {
		args = append(args, patch.Rating)
		set = append(set, fmt.Sprintf("rating = $%d", len(args)))
	}
	if patch.CommentSet {
		args = append(args, patch.Comment)
		set = append(set, fmt.Sprintf("comment = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		UPDATE reviews
		SET %s
		WHERE id = $%d
		RETURNING id, user_id, movie_id, rating, comment, created_at`,
		strings.Join(set, ", "), len(args)+1)
	args = append(args, id)

	var review types.Review
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&review.ID,
		&review.UserID,
		&review.MovieID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Review{}, ErrNotFound
		}
		return types.Review{}, mapConstraintError(err)
	}
	return review, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id int) (types.Review, error) {
	const query = `
		DELETE FROM reviews
		WHERE id = $1
		RETURNING id, user_id, movie_id, rating, comment, created_at`
	var review types.Review
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&review.ID,
		&review.UserID,
		&review.MovieID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Review{}, ErrNotFound
		}
		return types.Review{}, err
	}
	return review, nil
}
