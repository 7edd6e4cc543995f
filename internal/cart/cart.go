package cart

import "github.com/shopspring/decimal"

// LineKey identifies one purchasable line in the cart. Two items belong to
// the same line only when both the product ID and the variant SKU match.
type LineKey struct {
	ProductID  string
	VariantSKU string
}

// Variant is a specific purchasable configuration of a product. Price, when
// set, overrides the item's base price.
type Variant struct {
	Name  string           `json:"name"`
	SKU   string           `json:"sku"`
	Price *decimal.Decimal `json:"price,omitempty"`
}

type Image struct {
	Ref string `json:"ref,omitempty"`
	URL string `json:"url,omitempty"`
	Alt string `json:"alt,omitempty"`
}

type CartItem struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Slug      string          `json:"slug"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	Image     *Image          `json:"image,omitempty"`
	Variant   *Variant        `json:"variant,omitempty"`
	Quantity  int             `json:"quantity"`
}

func (i CartItem) Key() LineKey {
	key := LineKey{ProductID: i.ProductID}
	if i.Variant != nil {
		key.VariantSKU = i.Variant.SKU
	}
	return key
}

// UnitPrice is the variant price override when present, else the base price.
func (i CartItem) UnitPrice() decimal.Decimal {
	if i.Variant != nil && i.Variant.Price != nil {
		return *i.Variant.Price
	}
	return i.Price
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// HasPrice reports whether the item carries a resolvable positive price.
// Callers must reject items without one before adding them to a cart.
func (i CartItem) HasPrice() bool {
	return i.UnitPrice().IsPositive()
}

// Cart is an ordered collection of lines. Order is insertion order; it
// carries no business meaning but stays stable for display.
type Cart struct {
	Items []CartItem
}

func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (c *Cart) find(key LineKey) int {
	for i, item := range c.Items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}
