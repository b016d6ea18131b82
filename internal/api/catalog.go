package api

import (
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/gosimple/slug"

	"github.com/olxer/electroshop-api/internal/domain/catalog"
)

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var c catalog.Category
	if !decodeJSON(w, r, &c) {
		return
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	c.Slug = slug.Make(c.Name)
	if err := h.catalog.CreateCategory(r.Context(), &c); err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (h *Handler) createBrand(w http.ResponseWriter, r *http.Request) {
	var b catalog.Brand
	if !decodeJSON(w, r, &b) {
		return
	}
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	b.Slug = slug.Make(b.Name)
	if err := h.catalog.CreateBrand(r.Context(), &b); err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, b)
}

func (h *Handler) listBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.catalog.ListBrands(r.Context())
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, brands)
}

func (h *Handler) getBrand(w http.ResponseWriter, r *http.Request) {
	b, err := h.catalog.GetBrandBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, catalog.ErrBrandNotFound) {
			respondError(w, http.StatusNotFound, "brand not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, b)
}

func (h *Handler) createBanner(w http.ResponseWriter, r *http.Request) {
	var b catalog.Banner
	if !decodeJSON(w, r, &b) {
		return
	}
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" || b.ImageURL == "" {
		respondError(w, http.StatusBadRequest, "name and imageUrl are required")
		return
	}
	b.Slug = slug.Make(b.Name)
	if err := h.catalog.CreateBanner(r.Context(), &b); err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, b)
}

func (h *Handler) listBanners(w http.ResponseWriter, r *http.Request) {
	banners, err := h.catalog.ListBanners(r.Context())
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, banners)
}

func (h *Handler) getBanner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b, err := h.catalog.GetBanner(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrBannerNotFound) {
			respondError(w, http.StatusNotFound, "banner not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, b)
}
