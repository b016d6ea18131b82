package postgres

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/olxer/electroshop-api/internal/domain/product"
)

const productColumns = `id, name, article, price, old_price, is_in_stock, credit, slug,
	warranty, characteristics, description, category_id, brand_id, image_url,
	quantity, created_by, views, created, updated`

const (
	insertProductSQL = `INSERT INTO products
		(name, article, price, old_price, is_in_stock, credit, slug, warranty,
		 characteristics, description, category_id, brand_id, image_url, quantity, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, views, created, updated`

	listProductsSQL = `SELECT ` + productColumns + ` FROM products ORDER BY id`

	// The view counter is bumped in the same statement that reads the row.
	getProductByIDSQL = `UPDATE products SET views = views + 1
		WHERE id = $1
		RETURNING ` + productColumns

	getProductBySlugSQL = `SELECT ` + productColumns + ` FROM products WHERE slug = $1`

	listProductsByCategorySQL = `SELECT ` + productColumns + ` FROM products
		WHERE category_id = $1 ORDER BY id`

	listProductsByBrandSQL = `SELECT ` + productColumns + ` FROM products
		WHERE brand_id = (SELECT id FROM brands WHERE slug = $1) ORDER BY id`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create persists a new product and fills in the generated id and timestamps.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	chars, err := marshalCharacteristics(p.Characteristics)
	if err != nil {
		return err
	}

	err = r.pool.QueryRow(ctx, insertProductSQL,
		p.Name, p.Article, p.Price, p.OldPrice, p.Quantity > 0, p.Credit, p.Slug,
		p.Warranty, chars, p.Description, p.CategoryID, p.BrandID, p.ImageURL,
		p.Quantity, p.CreatedBy,
	).Scan(&p.ID, &p.Views, &p.Created, &p.Updated)
	if err != nil {
		return errors.Wrapf(err, "create product %q", p.Name)
	}
	p.IsInStock = p.Quantity > 0
	return nil
}

// List returns all products ordered by id.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by id, incrementing its view counter.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get product %d", id)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get product %d", id)
	}
	return &p, nil
}

// GetBySlug returns a single product by its slug.
func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductBySlugSQL, slug)
	if err != nil {
		return nil, errors.Wrapf(err, "get product %q", slug)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get product %q", slug)
	}
	return &p, nil
}

// ListByCategory returns all products in a category.
func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID int64) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsByCategorySQL, categoryID)
	if err != nil {
		return nil, errors.Wrapf(err, "list products in category %d", categoryID)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// ListByBrandSlug returns all products of the brand with the given slug.
func (r *ProductRepository) ListByBrandSlug(ctx context.Context, slug string) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsByBrandSQL, slug)
	if err != nil {
		return nil, errors.Wrapf(err, "list products of brand %q", slug)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// Delete removes a product. Order items referencing it are kept.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return errors.Wrapf(err, "delete product %d", id)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func marshalCharacteristics(chars []product.Characteristic) ([]byte, error) {
	if chars == nil {
		return nil, nil
	}
	data, err := json.Marshal(chars)
	if err != nil {
		return nil, errors.Wrap(err, "marshal characteristics")
	}
	return data, nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var (
		p     product.Product
		chars []byte
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Article, &p.Price, &p.OldPrice, &p.IsInStock, &p.Credit,
		&p.Slug, &p.Warranty, &chars, &p.Description, &p.CategoryID, &p.BrandID,
		&p.ImageURL, &p.Quantity, &p.CreatedBy, &p.Views, &p.Created, &p.Updated,
	)
	if err != nil {
		return p, err
	}
	if len(chars) > 0 {
		if err := unmarshalCharacteristics(chars, &p); err != nil {
			return p, err
		}
	}
	return p, nil
}

func unmarshalCharacteristics(data []byte, p *product.Product) error {
	if err := json.Unmarshal(data, &p.Characteristics); err != nil {
		return errors.Wrap(err, "unmarshal characteristics")
	}
	return nil
}
