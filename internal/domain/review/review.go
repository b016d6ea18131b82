// Package review defines product reviews with ratings and a like counter.
package review

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/olxer/electroshop-api/internal/domain/user"
)

// ErrNotFound is returned when a review does not exist or belongs to another user.
var ErrNotFound = errors.New("review not found")

// Review is rated text feedback left by a user on a product.
type Review struct {
	ID        int64      `json:"id"`
	ProductID int64      `json:"productId"`
	UserID    int64      `json:"userId"`
	User      *user.User `json:"user,omitempty"`
	Rating    int        `json:"rating"`
	Text      string     `json:"text,omitempty"`
	Likes     int        `json:"likes"`
	Created   time.Time  `json:"created"`
}

// Repository defines persistence operations for reviews.
type Repository interface {
	Create(ctx context.Context, r *Review) error
	// Update changes rating and text of the user's own review.
	Update(ctx context.Context, userID, reviewID int64, rating int, text string) (*Review, error)
	Delete(ctx context.Context, userID, reviewID int64) error
	ListByProduct(ctx context.Context, productID int64) ([]Review, error)
	ListByUser(ctx context.Context, userID int64) ([]Review, error)
	// Like atomically increments the like counter and returns the new value.
	Like(ctx context.Context, reviewID int64) (int, error)
}
