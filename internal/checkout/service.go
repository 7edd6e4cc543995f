package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bennettchamberlain/superhot-fab/internal/cart"
)

const defaultCurrency = "usd"

var hundred = decimal.NewFromInt(100)

// SessionAPI are the two checkout-session operations the embedded flow
// needs. Service implements it in-process; the smoke client implements it
// over the HTTP surface.
type SessionAPI interface {
	CreateSession(ctx context.Context, items []cart.CartItem, currency string) (string, error)
	ClientSecret(ctx context.Context, sessionID string) (string, error)
}

// Service turns a point-in-time cart snapshot into a provider session. It
// re-checks the snapshot server-side: an empty cart never reaches the
// provider.
type Service struct {
	provider  PaymentProvider
	returnURL string
}

// NewService builds a Service. returnURL is the fully formed return
// destination template, including the provider's session-id placeholder.
func NewService(provider PaymentProvider, returnURL string) *Service {
	return &Service{provider: provider, returnURL: returnURL}
}

func (s *Service) CreateSession(ctx context.Context, items []cart.CartItem, currency string) (string, error) {
	if len(items) == 0 {
		return "", ErrEmptyCart
	}
	if currency == "" {
		currency = items[0].Currency
	}
	if currency == "" {
		currency = defaultCurrency
	}
	currency = strings.ToLower(currency)

	lines := make([]LineItem, 0, len(items))
	for _, item := range items {
		line := LineItem{
			Title:      item.Title,
			UnitAmount: minorUnits(item.UnitPrice()),
			Quantity:   int64(item.Quantity),
			Currency:   currency,
		}
		if item.Variant != nil {
			line.Description = fmt.Sprintf("Variant: %s", item.Variant.Name)
		}
		lines = append(lines, line)
	}

	snapshot, err := snapshotJSON(items)
	if err != nil {
		return "", fmt.Errorf("snapshot cart: %w", err)
	}

	return s.provider.CreateSession(ctx, SessionParams{
		Lines:     lines,
		Currency:  currency,
		ReturnURL: s.returnURL,
		Metadata:  map[string]string{"cart_items": snapshot},
	})
}

func (s *Service) ClientSecret(ctx context.Context, sessionID string) (string, error) {
	return s.provider.GetClientSecret(ctx, sessionID)
}

// minorUnits converts a decimal currency amount to minor units, rounding
// half away from zero the way the processor expects.
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// snapshotJSON embeds a point-in-time copy of the cart in session metadata.
// The session holds a copy, never a live reference.
func snapshotJSON(items []cart.CartItem) (string, error) {
	type snapshotLine struct {
		ProductID string        `json:"product_id"`
		Title     string        `json:"title"`
		Slug      string        `json:"slug"`
		Quantity  int           `json:"quantity"`
		Variant   *cart.Variant `json:"variant,omitempty"`
	}

	lines := make([]snapshotLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, snapshotLine{
			ProductID: item.ProductID,
			Title:     item.Title,
			Slug:      item.Slug,
			Quantity:  item.Quantity,
			Variant:   item.Variant,
		})
	}

	data, err := json.Marshal(lines)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
