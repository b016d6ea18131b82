package api

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/olxer/electroshop-api/internal/auth"
	"github.com/olxer/electroshop-api/internal/domain/order"
	"github.com/olxer/electroshop-api/internal/domain/user"
)

type placeOrderRequest struct {
	TotalAmount decimal.Decimal     `json:"totalAmount"`
	Items       []order.ItemRequest `json:"items"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, _ := auth.IdentityFromContext(r.Context())
	o, err := h.orders.Create(r.Context(), order.CreateRequest{
		UserID:      id.UserID,
		TotalAmount: req.TotalAmount,
		Items:       req.Items,
	})
	if err != nil {
		h.respondOrderError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, o)
}

// respondOrderError maps order placement failures to status codes: missing
// user or product 404, empty items, bad quantity or insufficient stock 400,
// anything else 500.
func (h *Handler) respondOrderError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		pnf *order.ProductNotFoundError
		iq  *order.InvalidQuantityError
		ins *order.InsufficientStockError
	)
	switch {
	case errors.Is(err, order.ErrEmptyItems):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &iq):
		respondError(w, http.StatusBadRequest, iq.Error())
	case errors.As(err, &ins):
		respondError(w, http.StatusBadRequest, ins.Error())
	case errors.As(err, &pnf):
		respondError(w, http.StatusNotFound, pnf.Error())
	case errors.Is(err, user.ErrNotFound):
		respondError(w, http.StatusNotFound, "user not found")
	default:
		respondInternal(w, r, err)
	}
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateOrderStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, _ := auth.IdentityFromContext(r.Context())
	o, err := h.orders.UpdateStatus(r.Context(), orderID, req.Status, id.RoleID)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrForbidden):
			respondError(w, http.StatusForbidden, "insufficient permissions")
		case errors.Is(err, order.ErrInvalidStatus):
			respondError(w, http.StatusBadRequest, "unknown order status")
		case errors.Is(err, order.ErrNotFound):
			respondError(w, http.StatusNotFound, "order not found")
		default:
			respondInternal(w, r, err)
		}
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (h *Handler) listOrdersByStatus(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListByStatus(r.Context(), r.PathValue("status"))
	if err != nil {
		if errors.Is(err, order.ErrInvalidStatus) {
			respondError(w, http.StatusBadRequest, "unknown order status")
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	orders, err := h.orders.List(r.Context(), id.UserID, id.RoleID)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}
