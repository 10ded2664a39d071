package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atlanticave/storefront/internal/application/storefront"
	"github.com/atlanticave/storefront/internal/domain/commerce"
	"github.com/atlanticave/storefront/internal/domain/shared"
	"github.com/atlanticave/storefront/internal/infrastructure/session"
	"github.com/atlanticave/storefront/internal/interfaces/http/middleware"
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

// recordingPublisher collects published events
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

// testAPI is the storefront API wired on a mock backend and an in-memory session store
type testAPI struct {
	engine    *gin.Engine
	platform  *MockPlatform
	publisher *recordingPublisher
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	middleware.SetupValidator()

	platform := new(MockPlatform)
	publisher := &recordingPublisher{}
	store, err := session.NewInMemoryCartStore(time.Hour, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	log := zap.NewNop()
	catalogSvc := storefront.NewCatalogService(platform, storefront.CatalogOptions{}, log)
	cartSvc := storefront.NewCartService(store, platform, storefront.CartOptions{
		ShippingFee: decimal.NewFromInt(129),
		Currency:    "CZK",
	}, nil, log)
	checkoutSvc := storefront.NewCheckoutService(store, platform, publisher, "CZK", nil, log)

	fwd := NewForwardingHandler(platform, 50)
	cat := NewCatalogHandler(catalogSvc)
	carts := NewSessionCartHandler(cartSvc)
	checkout := NewCheckoutHandler(checkoutSvc)

	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.Locale())

	api := engine.Group("/api")
	api.GET("/products", middleware.CacheControl(time.Minute, 2*time.Minute), fwd.ListProducts)
	api.GET("/products/:handle", middleware.CacheControl(2*time.Minute, 4*time.Minute), fwd.GetProduct)
	api.GET("/policies", fwd.GetPolicies)
	api.GET("/cart/:cartId", fwd.GetCart)
	api.POST("/cart/create", fwd.CreateCart)
	api.POST("/cart/add", fwd.AddCartLines)
	api.POST("/cart/remove", fwd.RemoveCartLines)

	api.GET("/catalog/products", cat.ListProducts)
	api.GET("/catalog/products/:handle", cat.GetProduct)
	api.GET("/catalog/policies", cat.GetPolicies)
	api.GET("/catalog/policies/:slug", cat.GetPolicy)

	sess := api.Group("", middleware.Session(middleware.SessionConfig{}))
	sess.GET("/session/cart", carts.Get)
	sess.POST("/session/cart/items", carts.AddItem)
	sess.PUT("/session/cart/items/:index", carts.SetQuantity)
	sess.DELETE("/session/cart/items/:index", carts.RemoveItem)
	sess.PUT("/session/cart/items/:index/stock", carts.RefreshStock)
	sess.POST("/session/cart/reconcile", carts.Reconcile)
	sess.POST("/checkout", checkout.Checkout)
	sess.POST("/checkout/complete", checkout.Complete)

	return &testAPI{engine: engine, platform: platform, publisher: publisher}
}

func newRequest(method, path, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func serve(a *testAPI, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

// do sends a request; cookie may be nil
func (a *testAPI) do(method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := newRequest(method, path, body)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return serve(a, req)
}

// newSession performs one request to obtain a session cookie
func (a *testAPI) newSession(t *testing.T) *http.Cookie {
	t.Helper()
	w := a.do(http.MethodGet, "/api/session/cart", "", nil)
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.DefaultSessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
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

// decodeData unmarshals the data field of a success envelope into v
func decodeData(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, v))
}
