package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/bennettchamberlain/superhot-fab/internal/cart"
)

type CartHandler struct {
	storage cart.Storage
	timeout time.Duration
}

func NewCartHandler(storage cart.Storage, timeout time.Duration) *CartHandler {
	return &CartHandler{
		storage: storage,
		timeout: timeout,
	}
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartViewDTO struct {
	Items      []cart.CartItem `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	store, ok := h.sessionStore(ctx, w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, cartView(store))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	store, ok := h.sessionStore(ctx, w, r)
	if !ok {
		return
	}

	var item cart.CartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if item.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if item.Title == "" {
		respondError(w, http.StatusBadRequest, "invalid_title", "title is required")
		return
	}
	// The store accepts anything; items without a resolvable price are
	// rejected here, before they ever reach it.
	if !item.HasPrice() {
		respondError(w, http.StatusBadRequest, "invalid_price", "item has no resolvable price")
		return
	}

	store.AddItem(ctx, item)
	respondJSON(w, http.StatusCreated, cartView(store))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	store, ok := h.sessionStore(ctx, w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	key := cart.LineKey{ProductID: productID, VariantSKU: r.URL.Query().Get("sku")}
	store.UpdateQuantity(ctx, key, req.Quantity)
	respondJSON(w, http.StatusOK, cartView(store))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	store, ok := h.sessionStore(ctx, w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	key := cart.LineKey{ProductID: productID, VariantSKU: r.URL.Query().Get("sku")}
	store.RemoveItem(ctx, key)
	respondJSON(w, http.StatusOK, cartView(store))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	store, ok := h.sessionStore(ctx, w, r)
	if !ok {
		return
	}

	store.Clear(ctx)
	respondJSON(w, http.StatusOK, cartView(store))
}

func (h *CartHandler) sessionStore(ctx context.Context, w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusInternalServerError, "no_session", "missing browsing session")
		return nil, false
	}
	return cart.NewStore(ctx, h.storage, sessionID), true
}

func cartView(store *cart.Store) CartViewDTO {
	return CartViewDTO{
		Items:      store.Items(),
		TotalItems: store.TotalItems(),
		TotalPrice: store.TotalPrice(),
	}
}
