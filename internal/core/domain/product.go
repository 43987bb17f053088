package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ProductName is the closed catalogue of items students trade.
type ProductName string

const (
	ProductDrafter      ProductName = "drafter"
	ProductWhiteLabCoat ProductName = "white_lab_coat"
	ProductBrownLabCoat ProductName = "brown_lab_coat"
	ProductCalculator   ProductName = "calculator"
)

var coatSizes = []string{"S", "M", "L", "XL", "XXL"}

// productVariants lists the allowed variants per product name.
var productVariants = map[ProductName][]string{
	ProductDrafter:      {"premium_drafter", "standard_drafter", "budget_drafter"},
	ProductWhiteLabCoat: coatSizes,
	ProductBrownLabCoat: coatSizes,
	ProductCalculator:   {"MS", "ES", "ES-Plus"},
}

// ProductNames returns the catalogue names in a stable order.
func ProductNames() []string {
	names := make([]string, 0, len(productVariants))
	for n := range productVariants {
		names = append(names, string(n))
	}
	sort.Strings(names)
	return names
}

// Valid reports whether n is in the catalogue.
func (n ProductName) Valid() bool {
	_, ok := productVariants[n]
	return ok
}

// Variants returns the allowed variants for n.
func (n ProductName) Variants() []string {
	return productVariants[n]
}

// AllowsVariant reports whether variant belongs to n.
func (n ProductName) AllowsVariant(variant string) bool {
	for _, v := range productVariants[n] {
		if v == variant {
			return true
		}
	}
	return false
}

// Product is a listed item. SellerID is the owning account.
type Product struct {
	ID        int64           `json:"product_id"`
	SellerID  int64           `json:"seller_id"`
	Name      ProductName     `json:"product_name"`
	Variant   string          `json:"product_variant"`
	Code      *string         `json:"product_code,omitempty"`
	Price     decimal.Decimal `json:"product_price"`
	Images    string          `json:"product_images,omitempty"`
	Quantity  int             `json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Validate checks the catalogue, price and stock rules.
func (p *Product) Validate() error {
	if !p.Name.Valid() {
		return Invalid("product_name", "invalid product name", ProductNames()...)
	}
	if !p.Name.AllowsVariant(p.Variant) {
		return Invalid("product_variant", "invalid product variant for this product", p.Name.Variants()...)
	}
	if !p.Price.IsPositive() {
		return Invalid("product_price", "product price must be a positive number")
	}
	if p.Quantity < 0 {
		return Invalid("quantity", "quantity must be a non-negative number")
	}
	return nil
}

// ProductFilter narrows a product listing. Zero fields are ignored.
type ProductFilter struct {
	Name     ProductName
	Variant  string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	InStock  bool
}

// ProductPatch carries optional product changes; nil fields are left as-is.
type ProductPatch struct {
	Name     *ProductName
	Variant  *string
	Code     *string
	Price    *decimal.Decimal
	Images   *string
	Quantity *int
}

// Empty reports whether the patch changes nothing.
func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Variant == nil && p.Code == nil &&
		p.Price == nil && p.Images == nil && p.Quantity == nil
}

// Apply returns a copy of prod with the patch applied.
func (p ProductPatch) Apply(prod Product) Product {
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.Variant != nil {
		prod.Variant = *p.Variant
	}
	if p.Code != nil {
		prod.Code = p.Code
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.Images != nil {
		prod.Images = *p.Images
	}
	if p.Quantity != nil {
		prod.Quantity = *p.Quantity
	}
	return prod
}
