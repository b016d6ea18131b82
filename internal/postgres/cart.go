package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/olxer/electroshop-api/internal/domain/cart"
	"github.com/olxer/electroshop-api/internal/domain/product"
)

const (
	// Adding a product already in the cart merges quantities.
	upsertCartItemSQL = `INSERT INTO carts (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = carts.quantity + EXCLUDED.quantity
		RETURNING id, quantity`

	listCartSQL = `SELECT c.id, c.user_id, c.quantity,
		p.id, p.name, p.article, p.price, p.old_price, p.is_in_stock, p.credit, p.slug,
		p.warranty, p.characteristics, p.description, p.category_id, p.brand_id,
		p.image_url, p.quantity, p.created_by, p.views, p.created, p.updated
		FROM carts c JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1 ORDER BY c.id DESC`

	getCartItemSQL = `SELECT c.id, c.user_id, c.quantity,
		p.id, p.name, p.article, p.price, p.old_price, p.is_in_stock, p.credit, p.slug,
		p.warranty, p.characteristics, p.description, p.category_id, p.brand_id,
		p.image_url, p.quantity, p.created_by, p.views, p.created, p.updated
		FROM carts c JOIN products p ON p.id = c.product_id
		WHERE c.id = $1 AND c.user_id = $2`

	updateCartQtySQL = `UPDATE carts SET quantity = $3 WHERE id = $1 AND user_id = $2`
	removeCartSQL    = `DELETE FROM carts WHERE id = $1 AND user_id = $2`
	clearCartSQL     = `DELETE FROM carts WHERE user_id = $1`
)

// foreignKeyViolation is the PostgreSQL error code for FK constraint failures.
const foreignKeyViolation = "23503"

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// Add inserts a cart line, merging quantity when the product is already in
// the user's cart. A missing product surfaces as product.ErrNotFound.
func (r *CartRepository) Add(ctx context.Context, userID, productID int64, qty int) (*cart.Item, error) {
	it := cart.Item{UserID: userID}
	err := r.pool.QueryRow(ctx, upsertCartItemSQL, userID, productID, qty).Scan(&it.ID, &it.Quantity)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrapf(err, "add product %d to cart", productID)
	}
	return r.get(ctx, it.ID, userID)
}

// List returns the user's cart lines with their products, newest first.
func (r *CartRepository) List(ctx context.Context, userID int64) ([]cart.Item, error) {
	rows, err := r.pool.Query(ctx, listCartSQL, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list cart")
	}
	return pgx.CollectRows(rows, scanCartItem)
}

// UpdateQuantity changes the quantity of the user's own cart line.
func (r *CartRepository) UpdateQuantity(ctx context.Context, userID, itemID int64, qty int) (*cart.Item, error) {
	tag, err := r.pool.Exec(ctx, updateCartQtySQL, itemID, userID, qty)
	if err != nil {
		return nil, errors.Wrapf(err, "update cart item %d", itemID)
	}
	if tag.RowsAffected() == 0 {
		return nil, cart.ErrItemNotFound
	}
	return r.get(ctx, itemID, userID)
}

// Remove deletes the user's own cart line.
func (r *CartRepository) Remove(ctx context.Context, userID, itemID int64) error {
	tag, err := r.pool.Exec(ctx, removeCartSQL, itemID, userID)
	if err != nil {
		return errors.Wrapf(err, "remove cart item %d", itemID)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

// Clear removes every line in the user's cart.
func (r *CartRepository) Clear(ctx context.Context, userID int64) error {
	if _, err := r.pool.Exec(ctx, clearCartSQL, userID); err != nil {
		return errors.Wrap(err, "clear cart")
	}
	return nil
}

func (r *CartRepository) get(ctx context.Context, itemID, userID int64) (*cart.Item, error) {
	rows, err := r.pool.Query(ctx, getCartItemSQL, itemID, userID)
	if err != nil {
		return nil, errors.Wrapf(err, "get cart item %d", itemID)
	}

	it, err := pgx.CollectExactlyOneRow(rows, scanCartItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrItemNotFound
		}
		return nil, errors.Wrapf(err, "get cart item %d", itemID)
	}
	return &it, nil
}

func scanCartItem(row pgx.CollectableRow) (cart.Item, error) {
	var (
		it    cart.Item
		p     product.Product
		chars []byte
	)
	err := row.Scan(
		&it.ID, &it.UserID, &it.Quantity,
		&p.ID, &p.Name, &p.Article, &p.Price, &p.OldPrice, &p.IsInStock, &p.Credit,
		&p.Slug, &p.Warranty, &chars, &p.Description, &p.CategoryID, &p.BrandID,
		&p.ImageURL, &p.Quantity, &p.CreatedBy, &p.Views, &p.Created, &p.Updated,
	)
	if err != nil {
		return it, err
	}
	if len(chars) > 0 {
		if err := unmarshalCharacteristics(chars, &p); err != nil {
			return it, err
		}
	}
	it.Product = &p
	return it, nil
}
