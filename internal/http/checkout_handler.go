package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/bennettchamberlain/superhot-fab/internal/cart"
	"github.com/bennettchamberlain/superhot-fab/internal/checkout"
)

type CheckoutHandler struct {
	sessions checkout.SessionAPI
	storage  cart.Storage
	timeout  time.Duration
}

func NewCheckoutHandler(sessions checkout.SessionAPI, storage cart.Storage, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		sessions: sessions,
		storage:  storage,
		timeout:  timeout,
	}
}

type CreateSessionRequestDTO struct {
	Items    []cart.CartItem `json:"items"`
	Currency string          `json:"currency"`
}

type CreateSessionResponseDTO struct {
	SessionID string `json:"sessionId"`
}

type ClientSecretResponseDTO struct {
	ClientSecret string `json:"clientSecret"`
}

type CheckoutCompleteDTO struct {
	Status    string `json:"status"`
	SessionID string `json:"sessionId,omitempty"`
}

// POST /api/checkout
func (h *CheckoutHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CreateSessionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "empty_cart", checkout.ErrEmptyCart.Error())
		return
	}

	sessionID, err := h.sessions.CreateSession(ctx, req.Items, req.Currency)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			respondError(w, http.StatusBadRequest, "empty_cart", checkout.ErrEmptyCart.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "processor_error", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, CreateSessionResponseDTO{SessionID: sessionID})
}

// GET /api/checkout/session?session_id=<id>
func (h *CheckoutHandler) SessionSecret(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session_id", "session ID is required")
		return
	}

	secret, err := h.sessions.ClientSecret(ctx, sessionID)
	if err != nil {
		if errors.Is(err, checkout.ErrNoClientSecret) {
			respondError(w, http.StatusNotFound, "no_client_secret", checkout.ErrNoClientSecret.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "processor_error", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, ClientSecretResponseDTO{ClientSecret: secret})
}

// GET /checkout/success?session_id=<id>
//
// The provider redirects here when payment collection finishes. Presence of
// the session ID is what clears the cart; payment status is not verified
// server-side. Clearing an already empty cart is a no-op, so a reloaded
// success page clears at most once.
func (h *CheckoutHandler) Success(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		respondJSON(w, http.StatusOK, CheckoutCompleteDTO{Status: "unknown"})
		return
	}

	if slot := getSessionID(r.Context()); slot != "" {
		store := cart.NewStore(ctx, h.storage, slot)
		store.Clear(ctx)
	}

	respondJSON(w, http.StatusOK, CheckoutCompleteDTO{Status: "complete", SessionID: sessionID})
}
