package checkout

import "context"

// LineItem is one synthesized checkout line. Amounts are in minor currency
// units (cents for USD) because that is what processors charge in.
type LineItem struct {
	Title       string
	Description string
	UnitAmount  int64
	Quantity    int64
	Currency    string
}

type SessionParams struct {
	Lines     []LineItem
	Currency  string
	ReturnURL string
	Metadata  map[string]string
}

// PaymentProvider is the processor-side half of the checkout handshake.
// Consumers define this interface, not the Stripe implementation.
type PaymentProvider interface {
	// CreateSession opens a hosted payment session and returns its opaque ID.
	CreateSession(ctx context.Context, params SessionParams) (string, error)
	// GetClientSecret returns the session's client-usable secret, or
	// ErrNoClientSecret when the session carries none (already completed).
	GetClientSecret(ctx context.Context, sessionID string) (string, error)
}
