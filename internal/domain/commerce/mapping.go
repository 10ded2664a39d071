package commerce

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/atlanticave/storefront/internal/domain/catalog"
)

const (
	// DefaultPlaceholderImage is used when a product has no image
	DefaultPlaceholderImage = "/images/placeholder.jpg"
	// DefaultCategory is the category label of every product
	DefaultCategory = "Oblečení"
)

// MapOptions controls the presentation defaults applied while mapping
type MapOptions struct {
	PlaceholderImage string
	Category         string
}

func (o MapOptions) withDefaults() MapOptions {
	if o.PlaceholderImage == "" {
		o.PlaceholderImage = DefaultPlaceholderImage
	}
	if o.Category == "" {
		o.Category = DefaultCategory
	}
	return o
}

// MapProduct converts a backend product into a catalog snapshot.
// The price is the minimum variant price; currency is carried by the backend and not converted.
func MapProduct(p *Product, opts MapOptions) (catalog.Product, error) {
	opts = opts.withDefaults()

	price, err := decimal.NewFromString(p.PriceRange.MinVariantPrice.Amount)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("%w: product %s price %q", ErrPlatformInvalidResponse, p.ID, p.PriceRange.MinVariantPrice.Amount)
	}

	images := p.Images.URLs()
	image := opts.PlaceholderImage
	if len(images) > 0 {
		image = images[0]
	}

	description := p.Description
	if p.DescriptionHTML != "" {
		description = p.DescriptionHTML
	}

	variants := p.Variants.Nodes()
	sizes := make([]catalog.Size, 0, len(variants))
	var firstSellable, firstAny string
	for _, v := range variants {
		sizes = append(sizes, catalog.Size{
			Name:              v.Title,
			Available:         v.AvailableForSale,
			VariantID:         v.ID,
			QuantityAvailable: clampStock(v.QuantityAvailable),
		})
		if firstAny == "" {
			firstAny = v.ID
		}
		if firstSellable == "" && v.AvailableForSale {
			firstSellable = v.ID
		}
	}
	variantID := firstSellable
	if variantID == "" {
		variantID = firstAny
	}

	return catalog.Product{
		ID:          p.ID,
		Name:        p.Title,
		Description: description,
		Price:       price,
		Image:       image,
		Images:      images,
		Sizes:       sizes,
		Category:    opts.Category,
		Handle:      p.Handle,
		VariantID:   variantID,
	}, nil
}

// MapProducts converts a product page, preserving order
func MapProducts(data *ProductsData, opts MapOptions) ([]catalog.Product, error) {
	nodes := data.Nodes()
	products := make([]catalog.Product, 0, len(nodes))
	for i := range nodes {
		p, err := MapProduct(&nodes[i], opts)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// MapPolicies converts the shop policies payload
func MapPolicies(shop Shop) catalog.Policies {
	return catalog.Policies{
		Privacy:  mapPolicy(catalog.PolicyKindPrivacy, shop.PrivacyPolicy),
		Refund:   mapPolicy(catalog.PolicyKindRefund, shop.RefundPolicy),
		Shipping: mapPolicy(catalog.PolicyKindShipping, shop.ShippingPolicy),
		Terms:    mapPolicy(catalog.PolicyKindTerms, shop.TermsOfService),
	}
}

func mapPolicy(kind catalog.PolicyKind, p *ShopPolicy) *catalog.Policy {
	if p == nil {
		return nil
	}
	title := p.Title
	if title == "" {
		title = kind.DisplayTitle()
	}
	return &catalog.Policy{Kind: kind, Title: title, Body: p.Body, Handle: p.Handle}
}

// Oversold variants can report negative stock.
func clampStock(q *int) *int {
	if q == nil {
		return nil
	}
	n := *q
	if n < 0 {
		n = 0
	}
	return &n
}
