// Package catalog defines the navigational entities of the storefront:
// categories, brands, and promotional banners.
package catalog

import (
	"context"

	"github.com/go-faster/errors"
)

var (
	// ErrCategoryNotFound is returned when a requested category does not exist.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrBrandNotFound is returned when a requested brand does not exist.
	ErrBrandNotFound = errors.New("brand not found")
	// ErrBannerNotFound is returned when a requested banner does not exist.
	ErrBannerNotFound = errors.New("banner not found")
)

// Category groups products in the storefront navigation.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Icon string `json:"icon,omitempty"`
}

// Brand is a product manufacturer.
type Brand struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
}

// Banner is a promotional image shown on the storefront.
type Banner struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ImageURL string `json:"imageUrl"`
}

// Repository defines persistence operations for categories, brands, and banners.
type Repository interface {
	CreateCategory(ctx context.Context, c *Category) error
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id int64) (*Category, error)

	CreateBrand(ctx context.Context, b *Brand) error
	ListBrands(ctx context.Context) ([]Brand, error)
	GetBrandBySlug(ctx context.Context, slug string) (*Brand, error)

	CreateBanner(ctx context.Context, b *Banner) error
	ListBanners(ctx context.Context) ([]Banner, error)
	GetBanner(ctx context.Context, id int64) (*Banner, error)
}
