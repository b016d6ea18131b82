package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/olxer/electroshop-api/internal/domain/order"
	"github.com/olxer/electroshop-api/internal/domain/product"
	"github.com/olxer/electroshop-api/internal/domain/user"
)

const (
	// The stock check and decrement are one conditional statement: the row is
	// only updated when enough stock remains, so concurrent orders against
	// the same product serialize on the row without a separate SELECT.
	decrementStockSQL = `UPDATE products
		SET quantity = quantity - $2, is_in_stock = quantity - $2 > 0, updated = now()
		WHERE id = $1 AND quantity >= $2
		RETURNING ` + productColumns

	productNameSQL = `SELECT name FROM products WHERE id = $1`

	txUserSQL = `SELECT id, username, email, role_id, created, updated FROM users WHERE id = $1`

	insertOrderSQL = `INSERT INTO orders (order_date, user_id, total_amount, status)
		VALUES ($1, $2, $3, $4) RETURNING id`

	insertOrderItemSQL = `INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4) RETURNING id`

	orderSelect = `SELECT o.id, o.order_date, o.user_id, o.total_amount, o.status,
		u.id, u.username, u.email, u.role_id, u.created, u.updated
		FROM orders o JOIN users u ON u.id = o.user_id`

	getOrderSQL           = orderSelect + ` WHERE o.id = $1`
	listOrdersSQL         = orderSelect + ` ORDER BY o.order_date DESC`
	listOrdersByStatusSQL = orderSelect + ` WHERE o.status = $1 ORDER BY o.order_date DESC`
	listOrdersByUserSQL   = orderSelect + ` WHERE o.user_id = $1 ORDER BY o.order_date DESC`

	listOrderItemsSQL = `SELECT i.id, i.order_id, i.product_id, i.quantity, i.price,
		p.id, p.name, p.article, p.price, p.old_price, p.is_in_stock, p.credit, p.slug,
		p.warranty, p.characteristics, p.description, p.category_id, p.brand_id,
		p.image_url, p.quantity, p.created_by, p.views, p.created, p.updated
		FROM order_items i JOIN products p ON p.id = i.product_id
		WHERE i.order_id = ANY($1) ORDER BY i.id`

	updateOrderStatusSQL = `UPDATE orders SET status = $2 WHERE id = $1`
)

var _ order.Store = (*OrderStore)(nil)

// OrderStore implements order.Store backed by PostgreSQL.
type OrderStore struct {
	pool *pgxpool.Pool
}

// NewOrderStore returns an OrderStore that uses the given pool.
func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

// InTx runs fn inside a single database transaction. Everything fn did is
// rolled back when it returns an error; committed otherwise.
func (s *OrderStore) InTx(ctx context.Context, fn func(tx order.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if err := fn(&orderTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	return nil
}

// orderTx exposes the order placement operations bound to one transaction.
type orderTx struct {
	tx pgx.Tx
}

func (t *orderTx) UserByID(ctx context.Context, id int64) (*user.User, error) {
	var u user.User
	err := t.tx.QueryRow(ctx, txUserSQL, id).
		Scan(&u.ID, &u.Username, &u.Email, &u.RoleID, &u.Created, &u.Updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get user %d", id)
	}
	return &u, nil
}

// DecrementStock subtracts qty from the product's stock in one conditional
// UPDATE. Zero affected rows means either the product is missing or the
// remaining stock is too low; the follow-up name lookup tells the two apart.
func (t *orderTx) DecrementStock(ctx context.Context, productID int64, qty int) (*product.Product, error) {
	rows, err := t.tx.Query(ctx, decrementStockSQL, productID, qty)
	if err != nil {
		return nil, errors.Wrapf(err, "decrement stock of product %d", productID)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.Wrapf(err, "decrement stock of product %d", productID)
	}

	var name string
	switch err := t.tx.QueryRow(ctx, productNameSQL, productID).Scan(&name); {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, &order.ProductNotFoundError{ProductID: productID}
	case err != nil:
		return nil, errors.Wrapf(err, "check product %d", productID)
	default:
		return nil, &order.InsufficientStockError{ProductName: name}
	}
}

func (t *orderTx) SaveOrder(ctx context.Context, o *order.Order) error {
	err := t.tx.QueryRow(ctx, insertOrderSQL,
		o.OrderDate, o.UserID, o.TotalAmount, string(o.Status),
	).Scan(&o.ID)
	if err != nil {
		return errors.Wrap(err, "insert order")
	}

	for i := range o.Items {
		it := &o.Items[i]
		err := t.tx.QueryRow(ctx, insertOrderItemSQL,
			o.ID, it.ProductID, it.Quantity, it.Price,
		).Scan(&it.ID)
		if err != nil {
			return errors.Wrapf(err, "insert order item for product %d", it.ProductID)
		}
	}
	return nil
}

// GetByID returns an order with its user and items eagerly loaded.
func (s *OrderStore) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	orders, err := s.fetch(ctx, getOrderSQL, id)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, order.ErrNotFound
	}
	return &orders[0], nil
}

// UpdateStatus performs the single-row status write.
func (s *OrderStore) UpdateStatus(ctx context.Context, id int64, st order.Status) error {
	tag, err := s.pool.Exec(ctx, updateOrderStatusSQL, id, string(st))
	if err != nil {
		return errors.Wrapf(err, "update status of order %d", id)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// ListByStatus returns all orders with the given status, newest first.
func (s *OrderStore) ListByStatus(ctx context.Context, st order.Status) ([]order.Order, error) {
	return s.fetch(ctx, listOrdersByStatusSQL, string(st))
}

// ListAll returns every order, newest first.
func (s *OrderStore) ListAll(ctx context.Context) ([]order.Order, error) {
	return s.fetch(ctx, listOrdersSQL)
}

// ListByUser returns the user's orders, newest first.
func (s *OrderStore) ListByUser(ctx context.Context, userID int64) ([]order.Order, error) {
	return s.fetch(ctx, listOrdersByUserSQL, userID)
}

// fetch loads orders with embedded users, then attaches items and their
// products in a second query.
func (s *OrderStore) fetch(ctx context.Context, sql string, args ...any) ([]order.Order, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query orders")
	}

	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, errors.Wrap(err, "scan orders")
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]int64, len(orders))
	byID := make(map[int64]*order.Order, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		byID[orders[i].ID] = &orders[i]
		orders[i].Items = []order.Item{}
	}

	itemRows, err := s.pool.Query(ctx, listOrderItemsSQL, ids)
	if err != nil {
		return nil, errors.Wrap(err, "query order items")
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			it      order.Item
			orderID int64
			p       product.Product
			chars   []byte
		)
		err := itemRows.Scan(
			&it.ID, &orderID, &it.ProductID, &it.Quantity, &it.Price,
			&p.ID, &p.Name, &p.Article, &p.Price, &p.OldPrice, &p.IsInStock, &p.Credit,
			&p.Slug, &p.Warranty, &chars, &p.Description, &p.CategoryID, &p.BrandID,
			&p.ImageURL, &p.Quantity, &p.CreatedBy, &p.Views, &p.Created, &p.Updated,
		)
		if err != nil {
			return nil, errors.Wrap(err, "scan order item")
		}
		if len(chars) > 0 {
			if err := unmarshalCharacteristics(chars, &p); err != nil {
				return nil, err
			}
		}
		it.Product = &p
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate order items")
	}
	return orders, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o      order.Order
		u      user.User
		status string
	)
	err := row.Scan(
		&o.ID, &o.OrderDate, &o.UserID, &o.TotalAmount, &status,
		&u.ID, &u.Username, &u.Email, &u.RoleID, &u.Created, &u.Updated,
	)
	if err != nil {
		return o, err
	}
	o.Status = order.Status(status)
	o.User = &u
	return o, nil
}
