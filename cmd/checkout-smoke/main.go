// checkout-smoke drives one headless checkout attempt against a running
// storefront: create a session, fetch its client secret, "mount" a widget
// that only verifies it received a secret. Useful for smoke-testing the
// checkout handshake end to end without a browser.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bennettchamberlain/superhot-fab/internal/cart"
	"github.com/bennettchamberlain/superhot-fab/internal/checkout"
)

type headlessWidget struct{}

func (headlessWidget) Unmount() {}

// headlessHost is always ready and accepts any non-empty secret.
type headlessHost struct{}

func (headlessHost) Ready() bool { return true }

func (headlessHost) Mount(clientSecret string) (checkout.Widget, error) {
	if clientSecret == "" {
		return nil, checkout.ErrNoClientSecret
	}
	log.Printf("received client secret (%d chars)", len(clientSecret))
	return headlessWidget{}, nil
}

func main() {
	baseURL := flag.String("base-url", "http://localhost:8080", "storefront base URL")
	productID := flag.String("product", "smoke-product", "product ID for the test line")
	title := flag.String("title", "Smoke Test Item", "line item title")
	price := flag.String("price", "10.00", "unit price")
	quantity := flag.Int("quantity", 1, "line quantity")
	currency := flag.String("currency", "usd", "currency code")
	timeout := flag.Duration("timeout", 30*time.Second, "overall attempt timeout")
	flag.Parse()

	unitPrice, err := decimal.NewFromString(*price)
	if err != nil {
		log.Fatalf("invalid price %q: %v", *price, err)
	}

	items := []cart.CartItem{{
		ProductID: *productID,
		Title:     *title,
		Slug:      *productID,
		Price:     unitPrice,
		Currency:  *currency,
		Quantity:  *quantity,
	}}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	api := checkout.NewAPIClient(*baseURL, nil)
	orchestrator := checkout.NewOrchestrator(api, headlessHost{})
	defer orchestrator.Close()

	if err := orchestrator.Run(ctx, items, *currency); err != nil {
		log.Fatalf("checkout attempt failed (%s): %v", orchestrator.Status(), err)
	}

	fmt.Printf("checkout attempt reached %s\n", orchestrator.Status())
}
