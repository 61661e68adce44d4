package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/reelstack/apiserver/internal/services"
	"github.com/reelstack/apiserver/types"
)

// ReviewHandler provides CRUD endpoints for reviews. Reads are public,
// mutations require authentication.
type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// ReviewRouter registers review routes on the given router.
func ReviewRouter(r chi.Router, reviewService *services.ReviewService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewReviewHandler(reviewService)

	r.Get("/", handler.ListReviews)
	r.With(authMiddleware).Post("/", handler.CreateReview)
	r.Route("/{reviewID}", func(r chi.Router) {
		r.Get("/", handler.GetReview)
		r.With(authMiddleware).Put("/", handler.UpdateReview)
		r.With(authMiddleware).Delete("/", handler.DeleteReview)
	})
}

// CreateReviewRequest carries the review fields. Rating is decoded as a raw
// JSON number so fractional values can be rejected instead of truncated.
type CreateReviewRequest struct {
	UserID  int         `json:"userId"`
	MovieID int         `json:"movieId"`
	Rating  json.Number `json:"rating"`
	Comment string      `json:"comment"`
}

func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviewService.List(r.Context())
	if err != nil {
		respondError(w, err, "review not found")
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "reviewID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	review, err := h.reviewService.Get(r.Context(), id)
	if err != nil {
		respondError(w, err, "review not found")
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	actorID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rating, err := strictInt(req.Rating)
	if err != nil {
		writeError(w, http.StatusBadRequest, "rating must be an integer between 1 and 5")
		return
	}

	review, err := h.reviewService.Create(r.Context(), actorID, types.Review{
		UserID:  req.UserID,
		MovieID: req.MovieID,
		Rating:  rating,
		Comment: req.Comment,
	})
	if err != nil {
		respondError(w, err, "review not found")
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	actorID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseIDParam(chi.URLParam(r, "reviewID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	patch, err := decodeReviewPatch(r)
	if err != nil {
		if errors.Is(err, errRatingNotInteger) {
			writeError(w, http.StatusBadRequest, "rating must be an integer between 1 and 5")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	review, err := h.reviewService.Update(r.Context(), actorID, id, patch)
	if err != nil {
		respondError(w, err, "review not found")
		return
	}
	writeJSON(w, http.StatusOK, review)
}

// decodeReviewPatch distinguishes absent fields from explicit nulls, the
// same way decodeMoviePatch does. A null comment clears it to empty text.
func decodeReviewPatch(r *http.Request) (types.ReviewPatch, error) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return types.ReviewPatch{}, err
	}

	var patch types.ReviewPatch
	for key, raw := range body {
		switch key {
		case "rating":
			patch.RatingSet = true
			if string(raw) == "null" {
				continue
			}
			var num json.Number
			if err := json.Unmarshal(raw, &num); err != nil {
				return types.ReviewPatch{}, err
			}
			rating, err := strictInt(num)
			if err != nil {
				return types.ReviewPatch{}, errRatingNotInteger
			}
			patch.Rating = &rating
		case "comment":
			var comment *string
			if err := json.Unmarshal(raw, &comment); err != nil {
				return types.ReviewPatch{}, err
			}
			if comment == nil {
				empty := ""
				comment = &empty
			}
			patch.Comment = comment
			patch.CommentSet = true
		}
	}
	return patch, nil
}

func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	actorID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseIDParam(chi.URLParam(r, "reviewID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	review, err := h.reviewService.Delete(r.Context(), actorID, id)
	if err != nil {
		respondError(w, err, "review not found")
		return
	}
	writeJSON(w, http.StatusOK, review)
}

var errRatingNotInteger = errors.New("rating is not an integer")

// strictInt parses a JSON number as an integer, rejecting fractional values.
func strictInt(num json.Number) (int, error) {
	return strconv.Atoi(num.String())
}
