package checkout

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bennettchamberlain/superhot-fab/internal/cart"
)

// mockProvider implements PaymentProvider for testing
type mockProvider struct {
	createCalls int
	lastParams  SessionParams
	sessionID   string
	createErr   error

	secret    string
	secretErr error
}

func (m *mockProvider) CreateSession(_ context.Context, params SessionParams) (string, error) {
	m.createCalls++
	m.lastParams = params
	if m.createErr != nil {
		return "", m.createErr
	}
	return m.sessionID, nil
}

func (m *mockProvider) GetClientSecret(_ context.Context, _ string) (string, error) {
	if m.secretErr != nil {
		return "", m.secretErr
	}
	return m.secret, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

const testReturnURL = "http://localhost:8080/checkout/success?session_id={CHECKOUT_SESSION_ID}"

func TestCreateSession_EmptyCartNeverReachesProvider(t *testing.T) {
	provider := &mockProvider{sessionID: "cs_123"}
	sut := NewService(provider, testReturnURL)

	_, err := sut.CreateSession(context.Background(), nil, "usd")

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, 0, provider.createCalls)
}

func TestCreateSession_BuildsMinorUnitLines(t *testing.T) {
	provider := &mockProvider{sessionID: "cs_123"}
	sut := NewService(provider, testReturnURL)

	items := []cart.CartItem{
		{ProductID: "p1", Title: "Steel Bracket", Slug: "steel-bracket", Price: dec("10.00"), Currency: "USD", Quantity: 2},
		{
			ProductID: "p2", Title: "Custom Sign", Slug: "custom-sign", Price: dec("25.00"), Currency: "USD", Quantity: 1,
			Variant: &cart.Variant{Name: "Large", SKU: "SGN-L", Price: decPtr("32.99")},
		},
	}

	sessionID, err := sut.CreateSession(context.Background(), items, "")
	require.NoError(t, err)
	assert.Equal(t, "cs_123", sessionID)

	require.Len(t, provider.lastParams.Lines, 2)
	first, second := provider.lastParams.Lines[0], provider.lastParams.Lines[1]

	assert.Equal(t, int64(1000), first.UnitAmount)
	assert.Equal(t, int64(2), first.Quantity)
	assert.Equal(t, "usd", first.Currency)
	assert.Empty(t, first.Description)

	// Variant override priced in minor units, variant named in description.
	assert.Equal(t, int64(3299), second.UnitAmount)
	assert.Equal(t, "Variant: Large", second.Description)

	assert.Equal(t, testReturnURL, provider.lastParams.ReturnURL)
}

func TestCreateSession_CurrencyFallsBackToFirstItem(t *testing.T) {
	provider := &mockProvider{sessionID: "cs_123"}
	sut := NewService(provider, testReturnURL)

	items := []cart.CartItem{{ProductID: "p1", Title: "Bracket", Price: dec("10.00"), Currency: "GBP", Quantity: 1}}

	_, err := sut.CreateSession(context.Background(), items, "")
	require.NoError(t, err)
	assert.Equal(t, "gbp", provider.lastParams.Currency)
}

func TestCreateSession_MetadataCarriesSnapshot(t *testing.T) {
	provider := &mockProvider{sessionID: "cs_123"}
	sut := NewService(provider, testReturnURL)

	items := []cart.CartItem{
		{
			ProductID: "p1", Title: "Custom Sign", Slug: "custom-sign", Price: dec("25.00"), Currency: "USD", Quantity: 3,
			Variant: &cart.Variant{Name: "Large", SKU: "SGN-L"},
		},
	}

	_, err := sut.CreateSession(context.Background(), items, "usd")
	require.NoError(t, err)

	raw, ok := provider.lastParams.Metadata["cart_items"]
	require.True(t, ok)

	var snapshot []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &snapshot))
	require.Len(t, snapshot, 1)
	assert.Equal(t, "p1", snapshot[0]["product_id"])
	assert.Equal(t, "custom-sign", snapshot[0]["slug"])
	assert.Equal(t, float64(3), snapshot[0]["quantity"])
	// The snapshot is a point-in-time copy; prices are recomputed
	// server-side and deliberately not part of it.
	assert.NotContains(t, snapshot[0], "price")
}

func TestCreateSession_ProviderFailurePropagates(t *testing.T) {
	provider := &mockProvider{createErr: assert.AnError}
	sut := NewService(provider, testReturnURL)

	items := []cart.CartItem{{ProductID: "p1", Title: "Bracket", Price: dec("10.00"), Quantity: 1}}

	_, err := sut.CreateSession(context.Background(), items, "usd")
	assert.Error(t, err)
}

func TestClientSecret_PassThrough(t *testing.T) {
	provider := &mockProvider{secret: "cs_secret_abc"}
	sut := NewService(provider, testReturnURL)

	secret, err := sut.ClientSecret(context.Background(), "cs_123")
	require.NoError(t, err)
	assert.Equal(t, "cs_secret_abc", secret)

	provider.secretErr = ErrNoClientSecret
	_, err = sut.ClientSecret(context.Background(), "cs_123")
	assert.ErrorIs(t, err, ErrNoClientSecret)
}

func TestMinorUnits_Rounding(t *testing.T) {
	tests := []struct {
		price string
		want  int64
	}{
		{price: "10.00", want: 1000},
		{price: "10.005", want: 1001},
		{price: "0.01", want: 1},
		{price: "19.999", want: 2000},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, minorUnits(dec(tt.price)), "price %s", tt.price)
	}
}
