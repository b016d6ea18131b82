package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"github.com/olxer/electroshop-api/internal/auth"
	"github.com/olxer/electroshop-api/internal/domain/catalog"
	"github.com/olxer/electroshop-api/internal/domain/product"
)

// pathID parses the {id} path segment. Reports a 400 and returns false on
// malformed input.
func pathID(w http.ResponseWriter, r *http.Request, segment string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(segment), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid "+segment)
		return 0, false
	}
	return id, true
}

type createProductRequest struct {
	Name            string                   `json:"name"`
	Article         string                   `json:"article"`
	Price           decimal.Decimal          `json:"price"`
	OldPrice        *decimal.Decimal         `json:"oldPrice"`
	Credit          string                   `json:"credit"`
	Warranty        string                   `json:"warranty"`
	Characteristics []product.Characteristic `json:"characteristics"`
	Description     string                   `json:"description"`
	CategoryID      int64                    `json:"categoryId"`
	BrandID         *int64                   `json:"brandId"`
	ImageURL        string                   `json:"imageUrl"`
	Quantity        int                      `json:"quantity"`
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.CategoryID <= 0 {
		respondError(w, http.StatusBadRequest, "name and categoryId are required")
		return
	}
	if req.Price.IsNegative() || req.Quantity < 0 {
		respondError(w, http.StatusBadRequest, "price and quantity must be non-negative")
		return
	}
	for _, c := range req.Characteristics {
		if c.Name == "" {
			respondError(w, http.StatusBadRequest, "every characteristic needs a name")
			return
		}
	}
	if _, err := h.catalog.GetCategory(r.Context(), req.CategoryID); err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			respondError(w, http.StatusBadRequest, "category does not exist")
			return
		}
		respondInternal(w, r, err)
		return
	}

	id, _ := auth.IdentityFromContext(r.Context())
	p := &product.Product{
		Name:            req.Name,
		Article:         req.Article,
		Price:           req.Price,
		OldPrice:        req.OldPrice,
		IsInStock:       req.Quantity > 0,
		Credit:          req.Credit,
		Slug:            slug.Make(req.Name),
		Warranty:        req.Warranty,
		Characteristics: req.Characteristics,
		Description:     req.Description,
		CategoryID:      req.CategoryID,
		BrandID:         req.BrandID,
		ImageURL:        req.ImageURL,
		Quantity:        req.Quantity,
		CreatedBy:       &id.UserID,
	}
	if err := h.products.Create(r.Context(), p); err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(w, http.StatusNotFound, "product not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) getProductBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(w, http.StatusNotFound, "product not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) listProductsByCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if _, err := h.catalog.GetCategory(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			respondError(w, http.StatusNotFound, "category not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	products, err := h.products.ListByCategory(r.Context(), id)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handler) listProductsByBrand(w http.ResponseWriter, r *http.Request) {
	brandSlug := r.PathValue("slug")
	if _, err := h.catalog.GetBrandBySlug(r.Context(), brandSlug); err != nil {
		if errors.Is(err, catalog.ErrBrandNotFound) {
			respondError(w, http.StatusNotFound, "brand not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	products, err := h.products.ListByBrandSlug(r.Context(), brandSlug)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.products.Delete(r.Context(), id); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(w, http.StatusNotFound, "product not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
