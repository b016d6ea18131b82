package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/olxer/electroshop-api/internal/domain/catalog"
)

const (
	insertCategorySQL = `INSERT INTO categories (name, slug, icon) VALUES ($1, $2, $3) RETURNING id`
	listCategoriesSQL = `SELECT id, name, slug, icon FROM categories ORDER BY id`
	getCategorySQL    = `SELECT id, name, slug, icon FROM categories WHERE id = $1`

	insertBrandSQL  = `INSERT INTO brands (name, slug, icon, description) VALUES ($1, $2, $3, $4) RETURNING id`
	listBrandsSQL   = `SELECT id, name, slug, icon, description FROM brands ORDER BY id`
	getBrandSlugSQL = `SELECT id, name, slug, icon, description FROM brands WHERE slug = $1`

	insertBannerSQL = `INSERT INTO banners (name, slug, image_url) VALUES ($1, $2, $3) RETURNING id`
	listBannersSQL  = `SELECT id, name, slug, image_url FROM banners ORDER BY id`
	getBannerSQL    = `SELECT id, name, slug, image_url FROM banners WHERE id = $1`
)

var _ catalog.Repository = (*CatalogRepository)(nil)

// CatalogRepository implements catalog.Repository backed by PostgreSQL.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a CatalogRepository that uses the given pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) CreateCategory(ctx context.Context, c *catalog.Category) error {
	err := r.pool.QueryRow(ctx, insertCategorySQL, c.Name, c.Slug, c.Icon).Scan(&c.ID)
	if err != nil {
		return errors.Wrapf(err, "create category %q", c.Name)
	}
	return nil
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	rows, err := r.pool.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Category, error) {
		var c catalog.Category
		err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Icon)
		return c, err
	})
}

func (r *CatalogRepository) GetCategory(ctx context.Context, id int64) (*catalog.Category, error) {
	var c catalog.Category
	err := r.pool.QueryRow(ctx, getCategorySQL, id).Scan(&c.ID, &c.Name, &c.Slug, &c.Icon)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrCategoryNotFound
		}
		return nil, errors.Wrapf(err, "get category %d", id)
	}
	return &c, nil
}

func (r *CatalogRepository) CreateBrand(ctx context.Context, b *catalog.Brand) error {
	err := r.pool.QueryRow(ctx, insertBrandSQL, b.Name, b.Slug, b.Icon, b.Description).Scan(&b.ID)
	if err != nil {
		return errors.Wrapf(err, "create brand %q", b.Name)
	}
	return nil
}

func (r *CatalogRepository) ListBrands(ctx context.Context) ([]catalog.Brand, error) {
	rows, err := r.pool.Query(ctx, listBrandsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list brands")
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Brand, error) {
		var b catalog.Brand
		err := row.Scan(&b.ID, &b.Name, &b.Slug, &b.Icon, &b.Description)
		return b, err
	})
}

func (r *CatalogRepository) GetBrandBySlug(ctx context.Context, slug string) (*catalog.Brand, error) {
	var b catalog.Brand
	err := r.pool.QueryRow(ctx, getBrandSlugSQL, slug).Scan(&b.ID, &b.Name, &b.Slug, &b.Icon, &b.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrBrandNotFound
		}
		return nil, errors.Wrapf(err, "get brand %q", slug)
	}
	return &b, nil
}

func (r *CatalogRepository) CreateBanner(ctx context.Context, b *catalog.Banner) error {
	err := r.pool.QueryRow(ctx, insertBannerSQL, b.Name, b.Slug, b.ImageURL).Scan(&b.ID)
	if err != nil {
		return errors.Wrapf(err, "create banner %q", b.Name)
	}
	return nil
}

func (r *CatalogRepository) ListBanners(ctx context.Context) ([]catalog.Banner, error) {
	rows, err := r.pool.Query(ctx, listBannersSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list banners")
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Banner, error) {
		var b catalog.Banner
		err := row.Scan(&b.ID, &b.Name, &b.Slug, &b.ImageURL)
		return b, err
	})
}

func (r *CatalogRepository) GetBanner(ctx context.Context, id int64) (*catalog.Banner, error) {
	var b catalog.Banner
	err := r.pool.QueryRow(ctx, getBannerSQL, id).Scan(&b.ID, &b.Name, &b.Slug, &b.ImageURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrBannerNotFound
		}
		return nil, errors.Wrapf(err, "get banner %d", id)
	}
	return &b, nil
}
