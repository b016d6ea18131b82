package api

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/olxer/electroshop-api/internal/auth"
	"github.com/olxer/electroshop-api/internal/domain/product"
	"github.com/olxer/electroshop-api/internal/domain/review"
	"github.com/olxer/electroshop-api/internal/domain/user"
)

type reviewRequest struct {
	ProductID int64  `json:"productId"`
	Rating    int    `json:"rating"`
	Text      string `json:"text"`
}

func validRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "productId is required")
		return
	}
	if !validRating(req.Rating) {
		respondError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	id, _ := auth.IdentityFromContext(r.Context())
	rev := &review.Review{
		ProductID: req.ProductID,
		UserID:    id.UserID,
		Rating:    req.Rating,
		Text:      req.Text,
	}
	if err := h.reviews.Create(r.Context(), rev); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(w, http.StatusNotFound, "product not found")
			return
		}
		if errors.Is(err, user.ErrNotFound) {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, rev)
}

func (h *Handler) updateReview(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req reviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validRating(req.Rating) {
		respondError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	id, _ := auth.IdentityFromContext(r.Context())
	rev, err := h.reviews.Update(r.Context(), id.UserID, reviewID, req.Rating, req.Text)
	if err != nil {
		if errors.Is(err, review.ErrNotFound) {
			respondError(w, http.StatusNotFound, "review not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rev)
}

func (h *Handler) deleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	id, _ := auth.IdentityFromContext(r.Context())
	if err := h.reviews.Delete(r.Context(), id.UserID, reviewID); err != nil {
		if errors.Is(err, review.ErrNotFound) {
			respondError(w, http.StatusNotFound, "review not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listReviewsByProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	reviews, err := h.reviews.ListByProduct(r.Context(), productID)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, reviews)
}

func (h *Handler) listReviewsByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	reviews, err := h.reviews.ListByUser(r.Context(), userID)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, reviews)
}

func (h *Handler) likeReview(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	likes, err := h.reviews.Like(r.Context(), reviewID)
	if err != nil {
		if errors.Is(err, review.ErrNotFound) {
			respondError(w, http.StatusNotFound, "review not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"likes": likes})
}
