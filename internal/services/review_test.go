package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reelstack/apiserver/config"
	"github.com/reelstack/apiserver/internal/store"
	"github.com/reelstack/apiserver/types"
)

func TestCreateReviewValidatesRating(t *testing.T) {
	repo := newFakeReviewRepo()
	svc := NewReviewService(repo, nil, nil, config.ReviewEditAuthor)

	for _, rating := range []int{0, -1, 6, 100} {
		_, err := svc.Create(context.Background(), 1, types.Review{MovieID: 1, Rating: rating})
		assert.True(t, IsValidation(err), "rating %d should be rejected", rating)
		assert.EqualError(t, err, "rating must be an integer between 1 and 5")
	}
	assert.Zero(t, repo.createCalls, "invalid ratings must not reach the store")

	for _, rating := range []int{1, 3, 5} {
		_, err := svc.Create(context.Background(), 1, types.Review{MovieID: 1, Rating: rating})
		assert.NoError(t, err, "rating %d should be accepted", rating)
	}
}

func TestCreateReviewRequiresMovieID(t *testing.T) {
	svc := NewReviewService(newFakeReviewRepo(), nil, nil, config.ReviewEditAuthor)

	_, err := svc.Create(context.Background(), 1, types.Review{Rating: 4})
	assert.True(t, IsValidation(err))
	assert.EqualError(t, err, "movieId is required")
}

func TestCreateReviewAuthorFromToken(t *testing.T) {
	repo := newFakeReviewRepo()
	svc := NewReviewService(repo, nil, nil, config.ReviewEditAuthor)

	created, err := svc.Create(context.Background(), 7, types.Review{MovieID: 2, Rating: 5})
	assert.NoError(t, err)
	assert.Equal(t, 7, created.UserID)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestCreateReviewRejectsImpersonation(t *testing.T) {
	svc := NewReviewService(newFakeReviewRepo(), nil, nil, config.ReviewEditAuthor)

	_, err := svc.Create(context.Background(), 7, types.Review{UserID: 9, MovieID: 2, Rating: 5})
	assert.ErrorIs(t, err, ErrForbidden)

	// A body userId matching the actor is redundant but allowed.
	created, err := svc.Create(context.Background(), 7, types.Review{UserID: 7, MovieID: 2, Rating: 5})
	assert.NoError(t, err)
	assert.Equal(t, 7, created.UserID)
}

func TestCreateReviewUnknownMovie(t *testing.T) {
	repo := newFakeReviewRepo()
	repo.validMovies[1] = true
	svc := NewReviewService(repo, nil, nil, config.ReviewEditAuthor)

	_, err := svc.Create(context.Background(), 1, types.Review{MovieID: 99, Rating: 3})
	assert.True(t, IsValidation(err))
	assert.EqualError(t, err, "referenced user or movie does not exist")
}

func TestUpdateReviewEmptyPatchBeforeLookup(t *testing.T) {
	repo := newFakeReviewRepo()
	svc := NewReviewService(repo, nil, nil, config.ReviewEditAuthor)

	_, err := svc.Update(context.Background(), 1, 42, types.ReviewPatch{})
	assert.True(t, IsValidation(err))
	assert.EqualError(t, err, "no fields to update")
	assert.Zero(t, repo.getCalls, "empty patch fails before any lookup")
}

func TestUpdateReviewRejectsNullRating(t *testing.T) {
	svc := NewReviewService(newFakeReviewRepo(), nil, nil, config.ReviewEditAuthor)

	_, err := svc.Update(context.Background(), 1, 1, types.ReviewPatch{Rating: nil, RatingSet: true})
	assert.True(t, IsValidation(err))
	assert.EqualError(t, err, "rating cannot be null")
}

func TestUpdateReviewPartialPatch(t *testing.T) {
	repo := newFakeReviewRepo()
	svc := NewReviewService(repo, nil, nil, config.ReviewEditAuthor)
	created, err := svc.Create(context.Background(), 1, types.Review{MovieID: 1, Rating: 3, Comment: "fine"})
	assert.NoError(t, err)

	updated, err := svc.Update(context.Background(), 1, created.ID, types.ReviewPatch{
		Rating: intPtr(5), RatingSet: true,
	})
	assert.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "fine", updated.Comment, "comment untouched by a rating-only patch")
}

func TestUpdateReviewAuthorPolicy(t *testing.T) {
	repo := newFakeReviewRepo()
	svc := NewReviewService(repo, nil, nil, config.ReviewEditAuthor)
	created, err := svc.Create(context.Background(), 1, types.Review{MovieID: 1, Rating: 3})
	assert.NoError(t, err)

	patch := types.ReviewPatch{Rating: intPtr(4), RatingSet: true}

	_, err = svc.Update(context.Background(), 2, created.ID, patch)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Update(context.Background(), 1, created.ID, patch)
	assert.NoError(t, err)
}

func TestUpdateReviewAnyPolicy(t *testing.T) {
	repo := newFakeReviewRepo()
	svc := NewReviewService(repo, nil, nil, config.ReviewEditAny)
	created, err := svc.Create(context.Background(), 1, types.Review{MovieID: 1, Rating: 3})
	assert.NoError(t, err)

	updated, err := svc.Update(context.Background(), 2, created.ID, types.ReviewPatch{
		Rating: intPtr(4), RatingSet: true,
	})
	assert.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)
}

func TestDeleteReviewAuthorPolicy(t *testing.T) {
	repo := newFakeReviewRepo()
	svc := NewReviewService(repo, nil, nil, config.ReviewEditAuthor)
	created, err := svc.Create(context.Background(), 1, types.Review{MovieID: 1, Rating: 3})
	assert.NoError(t, err)

	_, err = svc.Delete(context.Background(), 2, created.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	deleted, err := svc.Delete(context.Background(), 1, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = svc.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateReviewNotFound(t *testing.T) {
	svc := NewReviewService(newFakeReviewRepo(), nil, nil, config.ReviewEditAuthor)

	_, err := svc.Update(context.Background(), 1, 99, types.ReviewPatch{Rating: intPtr(4), RatingSet: true})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
