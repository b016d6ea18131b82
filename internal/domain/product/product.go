// Package product defines the catalog item model and its persistence contract.
package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Characteristic is a single name/value attribute of a product.
type Characteristic struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Product represents a catalog item available for purchase.
//
// Invariant: Quantity >= 0 and IsInStock == (Quantity > 0). Both are written
// together; the stock decrement during order placement updates them in a
// single conditional statement.
type Product struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	Article         string           `json:"article"`
	Price           decimal.Decimal  `json:"price"`
	OldPrice        *decimal.Decimal `json:"oldPrice,omitempty"`
	IsInStock       bool             `json:"isInStock"`
	Credit          string           `json:"credit,omitempty"`
	Slug            string           `json:"slug"`
	Warranty        string           `json:"warranty,omitempty"`
	Characteristics []Characteristic `json:"characteristics,omitempty"`
	Description     string           `json:"description,omitempty"`
	CategoryID      int64            `json:"categoryId"`
	BrandID         *int64           `json:"brandId,omitempty"`
	ImageURL        string           `json:"imageUrl,omitempty"`
	Quantity        int              `json:"quantity"`
	CreatedBy       *int64           `json:"createdBy,omitempty"`
	Views           int              `json:"views"`
	Created         time.Time        `json:"created"`
	Updated         time.Time        `json:"updated"`
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	List(ctx context.Context) ([]Product, error)
	// GetByID returns the product after incrementing its view counter.
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]Product, error)
	ListByBrandSlug(ctx context.Context, slug string) ([]Product, error)
	Delete(ctx context.Context, id int64) error
}
