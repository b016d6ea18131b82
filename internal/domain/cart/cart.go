// Package cart defines the per-user shopping cart model.
package cart

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/olxer/electroshop-api/internal/domain/product"
)

// ErrItemNotFound is returned when a cart line does not exist or belongs to
// another user.
var ErrItemNotFound = errors.New("cart item not found")

// Item is one product line in a user's cart.
type Item struct {
	ID       int64            `json:"id"`
	UserID   int64            `json:"-"`
	Product  *product.Product `json:"product,omitempty"`
	Quantity int              `json:"quantity"`
}

// Summary is a cart with its derived totals.
type Summary struct {
	Items     []Item          `json:"cartItems"`
	TotalItem int             `json:"totalItems"`
	TotalSum  decimal.Decimal `json:"totalSum"`
}

// Summarize computes the line count and the decimal sum of price*quantity
// over all items.
func Summarize(items []Item) Summary {
	sum := decimal.Zero
	for _, it := range items {
		if it.Product == nil {
			continue
		}
		sum = sum.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return Summary{Items: items, TotalItem: len(items), TotalSum: sum}
}

// Repository defines persistence operations for cart lines.
type Repository interface {
	// Add inserts a line or, when the product is already in the user's cart,
	// adds qty to the existing line. Returns the resulting line.
	Add(ctx context.Context, userID, productID int64, qty int) (*Item, error)
	List(ctx context.Context, userID int64) ([]Item, error)
	// UpdateQuantity changes the quantity of the user's own line.
	UpdateQuantity(ctx context.Context, userID, itemID int64, qty int) (*Item, error)
	Remove(ctx context.Context, userID, itemID int64) error
	Clear(ctx context.Context, userID int64) error
}
