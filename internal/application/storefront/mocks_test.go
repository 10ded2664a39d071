package storefront

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atlanticave/storefront/internal/domain/commerce"
	"github.com/atlanticave/storefront/internal/domain/shared"
	"github.com/atlanticave/storefront/internal/infrastructure/session"
)

// MockPlatform is a mock implementation of commerce.StorefrontPlatform
type MockPlatform struct {
	mock.Mock
}

func (m *MockPlatform) ListProducts(ctx context.Context, first int) (*commerce.ProductsData, error) {
	args := m.Called(ctx, first)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.ProductsData), args.Error(1)
}

func (m *MockPlatform) GetProductByHandle(ctx context.Context, handle string) (*commerce.ProductByHandleData, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.ProductByHandleData), args.Error(1)
}

func (m *MockPlatform) GetShopPolicies(ctx context.Context) (*commerce.ShopPoliciesData, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.ShopPoliciesData), args.Error(1)
}

func (m *MockPlatform) CreateCart(ctx context.Context, lines []commerce.CartLineInput) (*commerce.CartCreateData, error) {
	args := m.Called(ctx, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.CartCreateData), args.Error(1)
}

func (m *MockPlatform) AddCartLines(ctx context.Context, cartID string, lines []commerce.CartLineInput) (*commerce.CartLinesAddData, error) {
	args := m.Called(ctx, cartID, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.CartLinesAddData), args.Error(1)
}

func (m *MockPlatform) RemoveCartLines(ctx context.Context, cartID string, lineIDs []string) (*commerce.CartLinesRemoveData, error) {
	args := m.Called(ctx, cartID, lineIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.CartLinesRemoveData), args.Error(1)
}

func (m *MockPlatform) GetCart(ctx context.Context, cartID string) (*commerce.CartData, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.CartData), args.Error(1)
}

// MockPublisher is a mock implementation of shared.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func newTestStore(t *testing.T) *session.InMemoryCartStore {
	t.Helper()
	store, err := session.NewInMemoryCartStore(time.Hour, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func intPtr(v int) *int { return &v }

func variant(id, size string, sellable bool, qty *int) commerce.VariantEdge {
	return commerce.VariantEdge{Node: commerce.Variant{
		ID:                id,
		Title:             size,
		PriceV2:           commerce.Money{Amount: "999.0", CurrencyCode: "CZK"},
		AvailableForSale:  sellable,
		QuantityAvailable: qty,
	}}
}

func teeProduct(variants ...commerce.VariantEdge) *commerce.Product {
	return &commerce.Product{
		ID:          "gid://shopify/Product/1",
		Title:       "Atlantic Tee",
		Description: "Cotton tee",
		Handle:      "atlantic-tee",
		PriceRange: commerce.PriceRange{
			MinVariantPrice: commerce.Money{Amount: "999.0", CurrencyCode: "CZK"},
		},
		Variants: commerce.VariantConnection{Edges: variants},
	}
}
