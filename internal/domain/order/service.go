package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/olxer/electroshop-api/internal/domain/user"
)

// Service encapsulates the order placement workflow and status lifecycle.
type Service struct {
	store Store
}

// NewService creates an order Service backed by the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateRequest holds the input for placing an order. TotalAmount is taken
// from the caller as-is and is not recomputed from the line prices.
type CreateRequest struct {
	UserID      int64
	TotalAmount decimal.Decimal
	Items       []ItemRequest
}

// Create places an order inside a single transaction: it resolves the user,
// decrements stock for every item in input order, snapshots each line price
// at the current product price, and persists the order with all its items.
// Any failure rolls the whole transaction back; no product keeps a decrement
// from a failed order.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: it.ProductID}
		}
	}

	var created *Order
	err := s.store.InTx(ctx, func(tx Tx) error {
		u, err := tx.UserByID(ctx, req.UserID)
		if err != nil {
			return errors.Wrap(err, "resolve user")
		}

		items := make([]Item, len(req.Items))
		for i, it := range req.Items {
			p, err := tx.DecrementStock(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return err
			}
			items[i] = Item{
				ProductID: p.ID,
				Product:   p,
				Quantity:  it.Quantity,
				Price:     p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
			}
		}

		o := &Order{
			OrderDate:   time.Now().UTC(),
			UserID:      u.ID,
			User:        u,
			TotalAmount: req.TotalAmount,
			Status:      StatusNew,
			Items:       items,
		}
		if err := tx.SaveOrder(ctx, o); err != nil {
			return errors.Wrap(err, "save order")
		}
		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateStatus transitions an order to the given status. Only admins may call
// it; any of the five known statuses is accepted as a target regardless of
// the current one. Cancelling an order does not restock its products.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, status string, callerRole int64) (*Order, error) {
	if callerRole != user.RoleAdmin {
		return nil, ErrForbidden
	}

	st, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	if err := s.store.UpdateStatus(ctx, orderID, st); err != nil {
		return nil, errors.Wrapf(err, "update order %d status", orderID)
	}

	return s.store.GetByID(ctx, orderID)
}

// ListByStatus returns all orders with the given status, newest first.
func (s *Service) ListByStatus(ctx context.Context, status string) ([]Order, error) {
	st, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}
	return s.store.ListByStatus(ctx, st)
}

// List returns orders visible to the caller: admins see every order, other
// roles only their own. Newest first.
func (s *Service) List(ctx context.Context, callerID, callerRole int64) ([]Order, error) {
	if callerRole == user.RoleAdmin {
		return s.store.ListAll(ctx)
	}
	return s.store.ListByUser(ctx, callerID)
}
