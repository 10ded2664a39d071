package commerce

import (
	"context"
	"errors"
)

// ---------------------------------------------------------------------------
// Platform Errors
// ---------------------------------------------------------------------------

var (
	ErrPlatformNotConfigured   = errors.New("commerce: platform not configured")
	ErrPlatformUnavailable     = errors.New("commerce: platform temporarily unavailable")
	ErrPlatformRequestFailed   = errors.New("commerce: platform request failed")
	ErrPlatformInvalidResponse = errors.New("commerce: invalid platform response")
	ErrInvalidCartLine         = errors.New("commerce: invalid cart line")
)

// ---------------------------------------------------------------------------
// StorefrontPlatform Port Interface
// ---------------------------------------------------------------------------

// StorefrontPlatform is the port to the commerce backend's public storefront API.
// Not-found resources are reported as nil payload fields, not as errors.
type StorefrontPlatform interface {
	// ListProducts returns the first page of products
	ListProducts(ctx context.Context, first int) (*ProductsData, error)

	// GetProductByHandle returns the product with the handle; ProductByHandle is nil when none exists
	GetProductByHandle(ctx context.Context, handle string) (*ProductByHandleData, error)

	// GetShopPolicies returns the shop's legal policies
	GetShopPolicies(ctx context.Context) (*ShopPoliciesData, error)

	// CreateCart creates a backend cart and returns its checkout URL or user errors
	CreateCart(ctx context.Context, lines []CartLineInput) (*CartCreateData, error)

	// AddCartLines adds lines to an existing backend cart
	AddCartLines(ctx context.Context, cartID string, lines []CartLineInput) (*CartLinesAddData, error)

	// RemoveCartLines removes lines from an existing backend cart
	RemoveCartLines(ctx context.Context, cartID string, lineIDs []string) (*CartLinesRemoveData, error)

	// GetCart returns a backend cart; Cart is nil when none exists
	GetCart(ctx context.Context, cartID string) (*CartData, error)
}

// CartLineInput is one line of a cart mutation
type CartLineInput struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// Validate checks the line before it is sent to the backend
func (l CartLineInput) Validate() error {
	if l.MerchandiseID == "" || l.Quantity < 1 {
		return ErrInvalidCartLine
	}
	return nil
}

// ValidateLines checks a non-empty list of lines
func ValidateLines(lines []CartLineInput) error {
	if len(lines) == 0 {
		return ErrInvalidCartLine
	}
	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return err
		}
	}
	return nil
}
