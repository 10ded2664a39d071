// Package catalog holds the read-only product and policy snapshots the storefront renders.
package catalog

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Size is one purchasable size of a product. Each size corresponds to one backend variant.
type Size struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
	VariantID string `json:"variantId,omitempty"`
	// QuantityAvailable is the live stock figure reported by the backend, when it reports one.
	QuantityAvailable *int `json:"quantityAvailable,omitempty"`
}

// Product is an immutable snapshot of a backend product, rebuilt on every fetch.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Images      []string        `json:"images"`
	Sizes       []Size          `json:"sizes"`
	Category    string          `json:"category"`
	Handle      string          `json:"handle,omitempty"`
	VariantID   string          `json:"variantId,omitempty"`
}

// CanAddToCart reports whether the product may be added to a cart at all.
// A product without sizes is treated as unavailable.
func (p *Product) CanAddToCart() bool {
	return len(p.Sizes) > 0
}

// HasAvailableSize reports whether at least one size is sellable.
func (p *Product) HasAvailableSize() bool {
	for _, s := range p.Sizes {
		if s.Available {
			return true
		}
	}
	return false
}

// MarshalJSON adds the derived canAddToCart and hasAvailableSize flags the storefront
// uses to enable the add control.
func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		CanAddToCart     bool `json:"canAddToCart"`
		HasAvailableSize bool `json:"hasAvailableSize"`
	}{
		product:          product(p),
		CanAddToCart:     p.CanAddToCart(),
		HasAvailableSize: p.HasAvailableSize(),
	})
}

// SizeByName looks up a size by its display name.
func (p *Product) SizeByName(name string) (Size, bool) {
	for _, s := range p.Sizes {
		if s.Name == name {
			return s, true
		}
	}
	return Size{}, false
}

// SizeNames returns the size names in display order.
func (p *Product) SizeNames() []string {
	names := make([]string, 0, len(p.Sizes))
	for _, s := range p.Sizes {
		names = append(names, s.Name)
	}
	return names
}
