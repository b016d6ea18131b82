package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/olxer/electroshop-api/internal/domain/product"
	"github.com/olxer/electroshop-api/internal/domain/review"
	"github.com/olxer/electroshop-api/internal/domain/user"
)

const (
	insertReviewSQL = `INSERT INTO reviews (product_id, user_id, rating, text)
		VALUES ($1, $2, $3, $4)
		RETURNING id, likes, created`

	updateReviewSQL = `UPDATE reviews SET rating = $3, text = $4
		WHERE id = $1 AND user_id = $2
		RETURNING product_id, likes, created`

	deleteReviewSQL = `DELETE FROM reviews WHERE id = $1 AND user_id = $2`

	listReviewsByProductSQL = `SELECT r.id, r.product_id, r.user_id, r.rating, r.text, r.likes, r.created,
		u.id, u.username, u.email, u.role_id, u.created, u.updated
		FROM reviews r JOIN users u ON u.id = r.user_id
		WHERE r.product_id = $1 ORDER BY r.created DESC`

	listReviewsByUserSQL = `SELECT r.id, r.product_id, r.user_id, r.rating, r.text, r.likes, r.created,
		u.id, u.username, u.email, u.role_id, u.created, u.updated
		FROM reviews r JOIN users u ON u.id = r.user_id
		WHERE r.user_id = $1 ORDER BY r.created DESC`

	likeReviewSQL = `UPDATE reviews SET likes = likes + 1 WHERE id = $1 RETURNING likes`
)

var _ review.Repository = (*ReviewRepository)(nil)

// ReviewRepository implements review.Repository backed by PostgreSQL.
type ReviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository returns a ReviewRepository that uses the given pool.
func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Create persists a new review. A missing product or user surfaces as the
// corresponding not-found error.
func (r *ReviewRepository) Create(ctx context.Context, rv *review.Review) error {
	err := r.pool.QueryRow(ctx, insertReviewSQL,
		rv.ProductID, rv.UserID, rv.Rating, rv.Text,
	).Scan(&rv.ID, &rv.Likes, &rv.Created)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			if pgErr.ConstraintName == "reviews_user_id_fkey" {
				return user.ErrNotFound
			}
			return product.ErrNotFound
		}
		return errors.Wrap(err, "create review")
	}
	return nil
}

// Update changes rating and text of the user's own review.
func (r *ReviewRepository) Update(ctx context.Context, userID, reviewID int64, rating int, text string) (*review.Review, error) {
	rv := review.Review{ID: reviewID, UserID: userID, Rating: rating, Text: text}
	err := r.pool.QueryRow(ctx, updateReviewSQL, reviewID, userID, rating, text).
		Scan(&rv.ProductID, &rv.Likes, &rv.Created)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, review.ErrNotFound
		}
		return nil, errors.Wrapf(err, "update review %d", reviewID)
	}
	return &rv, nil
}

// Delete removes the user's own review.
func (r *ReviewRepository) Delete(ctx context.Context, userID, reviewID int64) error {
	tag, err := r.pool.Exec(ctx, deleteReviewSQL, reviewID, userID)
	if err != nil {
		return errors.Wrapf(err, "delete review %d", reviewID)
	}
	if tag.RowsAffected() == 0 {
		return review.ErrNotFound
	}
	return nil
}

// ListByProduct returns all reviews of a product with their authors, newest first.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID int64) ([]review.Review, error) {
	rows, err := r.pool.Query(ctx, listReviewsByProductSQL, productID)
	if err != nil {
		return nil, errors.Wrapf(err, "list reviews for product %d", productID)
	}
	return pgx.CollectRows(rows, scanReview)
}

// ListByUser returns all reviews written by a user, newest first.
func (r *ReviewRepository) ListByUser(ctx context.Context, userID int64) ([]review.Review, error) {
	rows, err := r.pool.Query(ctx, listReviewsByUserSQL, userID)
	if err != nil {
		return nil, errors.Wrapf(err, "list reviews by user %d", userID)
	}
	return pgx.CollectRows(rows, scanReview)
}

// Like atomically increments the like counter.
func (r *ReviewRepository) Like(ctx context.Context, reviewID int64) (int, error) {
	var likes int
	err := r.pool.QueryRow(ctx, likeReviewSQL, reviewID).Scan(&likes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, review.ErrNotFound
		}
		return 0, errors.Wrapf(err, "like review %d", reviewID)
	}
	return likes, nil
}

func scanReview(row pgx.CollectableRow) (review.Review, error) {
	var (
		rv review.Review
		u  user.User
	)
	err := row.Scan(
		&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Text, &rv.Likes, &rv.Created,
		&u.ID, &u.Username, &u.Email, &u.RoleID, &u.Created, &u.Updated,
	)
	if err != nil {
		return rv, err
	}
	rv.User = &u
	return rv, nil
}
