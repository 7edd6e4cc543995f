package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bennettchamberlain/superhot-fab/internal/catalog"
)

type ProductHandler struct {
	catalog *catalog.Service
	timeout time.Duration
}

func NewProductHandler(catalog *catalog.Service, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.Products(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "content_error", "failed to load products")
		return
	}

	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	slug := chi.URLParam(r, "slug")
	if slug == "" {
		respondError(w, http.StatusBadRequest, "invalid_slug", "slug is required")
		return
	}

	product, err := h.catalog.ProductBySlug(ctx, slug)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "content_error", "failed to load product")
		return
	}
	if product == nil {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}

	respondJSON(w, http.StatusOK, product)
}
