package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/reelstack/apiserver/config"
	"github.com/reelstack/apiserver/internal/cache"
	"github.com/reelstack/apiserver/internal/mq"
	"github.com/reelstack/apiserver/internal/store"
	"github.com/reelstack/apiserver/types"
)

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	List(ctx context.Context) ([]types.Review, error)
	Get(ctx context.Context, id int) (types.Review, error)
	Create(ctx context.Context, review types.Review) (types.Review, error)
	Update(ctx context.Context, id int, patch types.ReviewPatch) (types.Review, error)
	Delete(ctx context.Context, id int) (types.Review, error)
}

// ReviewService encapsulates review use-cases: rating validation, the edit
// policy, event publishing and list caching. The actor passed to mutating
// operations is the authenticated user id resolved from the session token.
type ReviewService struct {
	repo   ReviewRepository
	events *mq.MQ
	cache  *cache.Cache
	policy string
}

func NewReviewService(repo ReviewRepository, events *mq.MQ, c *cache.Cache, policy string) *ReviewService {
	if policy == "" {
		policy = config.ReviewEditAuthor
	}
	return &ReviewService{repo: repo, events: events, cache: c, policy: policy}
}

func (s *ReviewService) List(ctx context.Context) ([]types.Review, error) {
	var reviews []types.Review
	if err := s.cache.GetJSON(ctx, cache.ReviewsListKey, &reviews); err == nil {
		return reviews, nil
	}
	reviews, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, cache.ReviewsListKey, reviews)
	return reviews, nil
}

func (s *ReviewService) Get(ctx context.Context, id int) (types.Review, error) {
	return s.repo.Get(ctx, id)
}

// Create persists a review authored by actorID. A userId in the request
// body, when present, must match the authenticated actor.
func (s *ReviewService) Create(ctx context.Context, actorID int, review types.Review) (types.Review, error) {
	if review.UserID != 0 && review.UserID != actorID {
		return types.Review{}, ErrForbidden
	}
	review.UserID = actorID

	if review.MovieID < 1 {
		return types.Review{}, validationf("movieId is required")
	}
	if err := validateRating(review.Rating); err != nil {
		return types.Review{}, err
	}

	created, err := s.repo.Create(ctx, review)
	if err != nil {
		if errors.Is(err, store.ErrForeignKey) {
			return types.Review{}, validationf("referenced user or movie does not exist")
		}
		return types.Review{}, err
	}

	s.cache.Invalidate(ctx, cache.ReviewsListKey)
	s.publish(ctx, mq.ReviewCreated, created)
	return created, nil
}

// Update applies a sparse rating/comment patch. The empty-patch check runs
// before any lookup, so it fails the same way whether or not the review
// exists.
func (s *ReviewService) Update(ctx context.Context, actorID, id int, patch types.ReviewPatch) (types.Review, error) {
	if patch.Empty() {
		return types.Review{}, validationf("no fields to update")
	}
	if patch.RatingSet {
		if patch.Rating == nil {
			return types.Review{}, validationf("rating cannot be null")
		}
		if err := validateRating(*patch.Rating); err != nil {
			return types.Review{}, err
		}
	}

	if err := s.authorize(ctx, actorID, id); err != nil {
		return types.Review{}, err
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return types.Review{}, err
	}

	s.cache.Invalidate(ctx, cache.ReviewsListKey)
	s.publish(ctx, mq.ReviewUpdated, updated)
	return updated, nil
}

func (s *ReviewService) Delete(ctx context.Context, actorID, id int) (types.Review, error) {
	if err := s.authorize(ctx, actorID, id); err != nil {
		return types.Review{}, err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return types.Review{}, err
	}

	s.cache.Invalidate(ctx, cache.ReviewsListKey)
	s.publish(ctx, mq.ReviewDeleted, deleted)
	return deleted, nil
}

// authorize enforces the edit policy: under "author" only the review's
// author may mutate it, under "any" every authenticated user may.
func (s *ReviewService) authorize(ctx context.Context, actorID, id int) error {
	if s.policy == config.ReviewEditAny {
		return nil
	}
	review, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if review.UserID != actorID {
		return ErrForbidden
	}
	return nil
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return validationf("rating must be an integer between 1 and 5")
	}
	return nil
}

// publish emits a review lifecycle event. Publishing is best-effort: a
// broker failure is logged and never fails the request.
func (s *ReviewService) publish(ctx context.Context, action string, review types.Review) {
	if s.events == nil {
		return
	}
	event := mq.ReviewEvent{
		Action:   action,
		ReviewID: review.ID,
		MovieID:  review.MovieID,
		UserID:   review.UserID,
		Rating:   review.Rating,
		At:       time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	if _, err := s.events.Publish(ctx, mq.ReviewEventsChannel, data, map[string]string{"action": action}); err != nil {
		log.Printf("publish review event: %v", err)
	}
}
