// Package api implements the HTTP surface of the shop: routing, request
// decoding, auth enforcement, and mapping of domain errors to status codes.
package api

import (
	"net/http"

	"github.com/olxer/electroshop-api/internal/auth"
	"github.com/olxer/electroshop-api/internal/domain/cart"
	"github.com/olxer/electroshop-api/internal/domain/catalog"
	"github.com/olxer/electroshop-api/internal/domain/order"
	"github.com/olxer/electroshop-api/internal/domain/product"
	"github.com/olxer/electroshop-api/internal/domain/review"
	"github.com/olxer/electroshop-api/internal/domain/user"
)

// Handler holds every dependency the HTTP layer needs, delegating business
// logic to the domain services and repositories.
type Handler struct {
	users    user.Repository
	products product.Repository
	catalog  catalog.Repository
	carts    cart.Repository
	reviews  review.Repository
	orders   *order.Service
	tokens   *auth.Tokens
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	users user.Repository,
	products product.Repository,
	cat catalog.Repository,
	carts cart.Repository,
	reviews review.Repository,
	orders *order.Service,
	tokens *auth.Tokens,
) *Handler {
	return &Handler{
		users:    users,
		products: products,
		catalog:  cat,
		carts:    carts,
		reviews:  reviews,
		orders:   orders,
		tokens:   tokens,
	}
}

// Routes registers every API route on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	// Auth and roles.
	mux.HandleFunc("POST /auth/register", h.register)
	mux.HandleFunc("POST /auth/login", h.login)
	mux.HandleFunc("POST /roles", h.roleOnly(h.createRole, user.RoleAdmin))

	// Products.
	mux.HandleFunc("GET /products", h.listProducts)
	mux.HandleFunc("POST /products", h.roleOnly(h.createProduct, user.RoleAdmin, user.RoleContent))
	mux.HandleFunc("GET /products/{id}", h.getProduct)
	mux.HandleFunc("GET /products/slug/{slug}", h.getProductBySlug)
	mux.HandleFunc("GET /products/category/{id}", h.listProductsByCategory)
	mux.HandleFunc("GET /products/brand/{slug}", h.listProductsByBrand)
	mux.HandleFunc("DELETE /products/{id}", h.roleOnly(h.deleteProduct, user.RoleAdmin))

	// Categories, brands, banners.
	mux.HandleFunc("GET /categories", h.listCategories)
	mux.HandleFunc("POST /categories", h.authed(h.createCategory))
	mux.HandleFunc("GET /brands", h.listBrands)
	mux.HandleFunc("POST /brands", h.authed(h.createBrand))
	mux.HandleFunc("GET /brands/{slug}", h.getBrand)
	mux.HandleFunc("GET /banners", h.listBanners)
	mux.HandleFunc("POST /banners", h.authed(h.createBanner))
	mux.HandleFunc("GET /banners/{id}", h.getBanner)

	// Cart.
	mux.HandleFunc("GET /cart", h.authed(h.getCart))
	mux.HandleFunc("POST /cart/add", h.authed(h.addToCart))
	mux.HandleFunc("PUT /cart/item/{id}", h.authed(h.updateCartItem))
	mux.HandleFunc("DELETE /cart/item/{id}", h.authed(h.removeCartItem))
	mux.HandleFunc("DELETE /cart/clear", h.authed(h.clearCart))

	// Reviews.
	mux.HandleFunc("POST /review", h.authed(h.createReview))
	mux.HandleFunc("PUT /review/{id}", h.authed(h.updateReview))
	mux.HandleFunc("DELETE /review/{id}", h.authed(h.deleteReview))
	mux.HandleFunc("GET /review/product/{id}", h.listReviewsByProduct)
	mux.HandleFunc("GET /review/user/{id}", h.listReviewsByUser)
	mux.HandleFunc("POST /review/{id}/like", h.likeReview)

	// Orders.
	mux.HandleFunc("POST /order", h.authed(h.placeOrder))
	mux.HandleFunc("PUT /order/{id}/status", h.authed(h.updateOrderStatus))
	mux.HandleFunc("GET /order/status/{status}", h.authed(h.listOrdersByStatus))
	mux.HandleFunc("GET /order", h.authed(h.listOrders))
}
