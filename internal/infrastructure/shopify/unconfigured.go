package shopify

import (
	"context"

	"github.com/atlanticave/storefront/internal/domain/commerce"
)

// Unconfigured stands in for the client when no store credentials are set.
// Every call fails with commerce.ErrPlatformNotConfigured so the API still
// starts and answers with backend errors.
type Unconfigured struct{}

var _ commerce.StorefrontPlatform = Unconfigured{}

func (Unconfigured) ListProducts(context.Context, int) (*commerce.ProductsData, error) {
	return nil, commerce.ErrPlatformNotConfigured
}

func (Unconfigured) GetProductByHandle(context.Context, string) (*commerce.ProductByHandleData, error) {
	return nil, commerce.ErrPlatformNotConfigured
}

func (Unconfigured) GetShopPolicies(context.Context) (*commerce.ShopPoliciesData, error) {
	return nil, commerce.ErrPlatformNotConfigured
}

func (Unconfigured) CreateCart(context.Context, []commerce.CartLineInput) (*commerce.CartCreateData, error) {
	return nil, commerce.ErrPlatformNotConfigured
}

func (Unconfigured) AddCartLines(context.Context, string, []commerce.CartLineInput) (*commerce.CartLinesAddData, error) {
	return nil, commerce.ErrPlatformNotConfigured
}

func (Unconfigured) RemoveCartLines(context.Context, string, []string) (*commerce.CartLinesRemoveData, error) {
	return nil, commerce.ErrPlatformNotConfigured
}

func (Unconfigured) GetCart(context.Context, string) (*commerce.CartData, error) {
	return nil, commerce.ErrPlatformNotConfigured
}
