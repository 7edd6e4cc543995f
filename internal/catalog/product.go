package catalog

import "github.com/shopspring/decimal"

type Pricing struct {
	BasePrice decimal.Decimal  `json:"basePrice"`
	SalePrice *decimal.Decimal `json:"salePrice,omitempty"`
	Currency  string           `json:"currency"`
}

type ProductVariant struct {
	Name  string           `json:"name"`
	SKU   string           `json:"sku"`
	Price *decimal.Decimal `json:"price,omitempty"`
}

type ProductImage struct {
	URL string `json:"url,omitempty"`
	Alt string `json:"alt,omitempty"`
}

type Review struct {
	Author string `json:"author"`
	Rating int    `json:"rating"`
	Title  string `json:"title,omitempty"`
	Body   string `json:"body,omitempty"`
}

type Specification struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Product is the typed shape of a product document from the content studio.
type Product struct {
	ID               string           `json:"_id"`
	Title            string           `json:"title"`
	Slug             string           `json:"slug"`
	ShortDescription string           `json:"shortDescription,omitempty"`
	Excerpt          string           `json:"excerpt,omitempty"`
	Pricing          Pricing          `json:"pricing"`
	Images           []ProductImage   `json:"images,omitempty"`
	Variants         []ProductVariant `json:"variants,omitempty"`
	Reviews          []Review         `json:"reviews,omitempty"`
	Specifications   []Specification  `json:"specifications,omitempty"`
}

// EffectivePrice is the sale price when one is set, else the base price.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.Pricing.SalePrice != nil {
		return *p.Pricing.SalePrice
	}
	return p.Pricing.BasePrice
}

const productFields = `
  _id,
  title,
  "slug": slug.current,
  shortDescription,
  excerpt,
  pricing,
  "images": images[]{"url": asset->url, alt},
  variants,
  reviews,
  specifications
`

const allProductsQuery = `*[_type == "product" && defined(slug.current)] | order(title asc){` + productFields + `}`

const productBySlugQuery = `*[_type == "product" && slug.current == $slug][0]{` + productFields + `}`
