// Package order implements the order placement workflow and status lifecycle,
// the only multi-step transactional part of the storefront.
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/olxer/electroshop-api/internal/domain/product"
	"github.com/olxer/electroshop-api/internal/domain/user"
)

// Status is the lifecycle state of an order.
type Status string

// All accepted order statuses. Transitions among them are unrestricted:
// status update is a flat assignment, not a state graph, so delivered -> new
// is accepted. Tests pin this as current behavior.
const (
	StatusNew       Status = "new"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// ParseStatus validates a status literal.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusNew, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Sentinel errors for order validation.
var (
	ErrEmptyItems    = errors.New("items required")
	ErrInvalidStatus = errors.New("invalid order status")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("order not found")
)

// ProductNotFoundError indicates a requested product does not exist.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// InvalidQuantityError indicates a line item has a non-positive quantity.
type InvalidQuantityError struct {
	ProductID int64
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %d", e.ProductID)
}

// InsufficientStockError indicates a product has less stock than requested.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s", e.ProductName)
}

// Item is one product/quantity/price line belonging to exactly one order.
// Price is the snapshot product.price * quantity captured at order time; it
// does not track later product price changes.
type Item struct {
	ID        int64            `json:"id"`
	ProductID int64            `json:"productId"`
	Product   *product.Product `json:"product,omitempty"`
	Quantity  int              `json:"quantity"`
	Price     decimal.Decimal  `json:"price"`
}

// Order is a persisted purchase record with its line items. It is created
// once, atomically, with all items; afterwards only Status changes.
type Order struct {
	ID          int64           `json:"id"`
	OrderDate   time.Time       `json:"orderDate"`
	UserID      int64           `json:"-"`
	User        *user.User      `json:"user,omitempty"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      Status          `json:"status"`
	Items       []Item          `json:"items"`
}

// ItemRequest is one requested line of a new order.
type ItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// Tx is the set of storage operations available inside one order placement
// transaction. Any error returned from a Tx method aborts the whole
// transaction; no partial writes survive.
type Tx interface {
	UserByID(ctx context.Context, id int64) (*user.User, error)

	// DecrementStock atomically subtracts qty from the product's stock and
	// returns the updated product. It fails with *ProductNotFoundError when
	// the product does not exist and *InsufficientStockError when qty exceeds
	// the available quantity; in both cases nothing is written.
	DecrementStock(ctx context.Context, productID int64, qty int) (*product.Product, error)

	// SaveOrder persists the order together with all its items as one unit
	// and fills in the generated identifiers.
	SaveOrder(ctx context.Context, o *Order) error
}

// Store defines persistence operations for orders.
type Store interface {
	// InTx runs fn inside a single database transaction, committing when fn
	// returns nil and rolling back everything otherwise.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	GetByID(ctx context.Context, id int64) (*Order, error)
	UpdateStatus(ctx context.Context, id int64, st Status) error
	ListByStatus(ctx context.Context, st Status) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	ListByUser(ctx context.Context, userID int64) ([]Order, error)
}
