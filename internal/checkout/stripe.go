package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// Countries shipping addresses may be collected for.
var allowedShippingCountries = []string{"US", "CA", "GB", "AU"}

// StripeProvider implements PaymentProvider on Stripe embedded checkout.
// Calls go through a circuit breaker so a broken processor sheds load fast;
// there is no automatic retry of a failed call.
type StripeProvider struct {
	api     *client.API
	breaker *gobreaker.CircuitBreaker[*stripe.CheckoutSession]
}

func NewStripeProvider(secretKey string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)

	breaker := gobreaker.NewCircuitBreaker[*stripe.CheckoutSession](gobreaker.Settings{
		Name:        "stripe-checkout",
		MaxRequests: 3,
		Timeout:     30 * time.Second,
	})

	return &StripeProvider{api: api, breaker: breaker}
}

func (p *StripeProvider) CreateSession(ctx context.Context, sp SessionParams) (string, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(sp.Lines))
	for _, line := range sp.Lines {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(line.Title),
		}
		if line.Description != "" {
			product.Description = stripe.String(line.Description)
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(strings.ToLower(line.Currency)),
				UnitAmount:  stripe.Int64(line.UnitAmount),
				ProductData: product,
			},
			Quantity: stripe.Int64(line.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		UIMode:             stripe.String(string(stripe.CheckoutSessionUIModeEmbedded)),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card", "link"}),
		LineItems:          lineItems,
		ReturnURL:          stripe.String(sp.ReturnURL),
		CustomerCreation:   stripe.String(string(stripe.CheckoutSessionCustomerCreationAlways)),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(allowedShippingCountries),
		},
	}
	params.Context = ctx
	for k, v := range sp.Metadata {
		params.AddMetadata(k, v)
	}

	session, err := p.breaker.Execute(func() (*stripe.CheckoutSession, error) {
		return p.api.CheckoutSessions.New(params)
	})
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return session.ID, nil
}

func (p *StripeProvider) GetClientSecret(ctx context.Context, sessionID string) (string, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	session, err := p.breaker.Execute(func() (*stripe.CheckoutSession, error) {
		return p.api.CheckoutSessions.Get(sessionID, params)
	})
	if err != nil {
		return "", fmt.Errorf("retrieve checkout session: %w", err)
	}
	if session.ClientSecret == "" {
		return "", ErrNoClientSecret
	}
	return session.ClientSecret, nil
}
