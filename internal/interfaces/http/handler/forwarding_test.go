package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/atlanticave/storefront/internal/domain/commerce"
	"github.com/atlanticave/storefront/internal/interfaces/http/dto"
)

func TestForwarding_ListProducts_RelaysPayload(t *testing.T) {
	api := newTestAPI(t)
	data := &commerce.ProductsData{Products: commerce.ProductConnection{
		Edges: []commerce.ProductEdge{{Node: *teeProduct(variant("v-m", "M", true, intPtr(2)))}},
	}}
	api.platform.On("ListProducts", mock.Anything, 50).Return(data, nil).Once()

	w := api.do(http.MethodGet, "/api/products", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public, s-maxage=60, stale-while-revalidate=120", w.Header().Get("Cache-Control"))

	want, err := json.Marshal(data)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), w.Body.String())
	api.platform.AssertExpectations(t)
}

func TestForwarding_GetProduct(t *testing.T) {
	tests := []struct {
		name       string
		data       *commerce.ProductByHandleData
		err        error
		lang       string
		wantStatus int
		wantMsg    string
		wantCache  string
	}{
		{
			name:       "found",
			data:       &commerce.ProductByHandleData{ProductByHandle: teeProduct()},
			wantStatus: http.StatusOK,
			wantCache:  "public, s-maxage=120, stale-while-revalidate=240",
		},
		{
			name:       "missing",
			data:       &commerce.ProductByHandleData{},
			wantStatus: http.StatusNotFound,
			wantMsg:    "Produkt nebyl nalezen",
			wantCache:  "no-store",
		},
		{
			name:       "missing in english",
			data:       &commerce.ProductByHandleData{},
			lang:       "en",
			wantStatus: http.StatusNotFound,
			wantMsg:    "Product not found",
			wantCache:  "no-store",
		},
		{
			name:       "backend failure",
			err:        fmt.Errorf("query: %w", commerce.ErrPlatformUnavailable),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Nepodařilo se načíst produkt",
			wantCache:  "no-store",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			if tt.err != nil {
				api.platform.On("GetProductByHandle", mock.Anything, "atlantic-tee").Return(nil, tt.err)
			} else {
				api.platform.On("GetProductByHandle", mock.Anything, "atlantic-tee").Return(tt.data, nil)
			}

			req := newRequest(http.MethodGet, "/api/products/atlantic-tee", "")
			if tt.lang != "" {
				req.Header.Set("Accept-Language", tt.lang)
			}
			w := serve(api, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCache, w.Header().Get("Cache-Control"))
			if tt.wantMsg != "" {
				resp := decodeResponse(t, w)
				assert.Equal(t, tt.wantMsg, resp.Error.Message)
				assert.NotEmpty(t, resp.Error.RequestID)
			}
		})
	}
}

func TestForwarding_GetCart(t *testing.T) {
	api := newTestAPI(t)
	api.platform.On("GetCart", mock.Anything, "c-1").
		Return(&commerce.CartData{Cart: &commerce.Cart{ID: "c-1", CheckoutURL: "https://shop/checkout"}}, nil)
	api.platform.On("GetCart", mock.Anything, "gone").Return(&commerce.CartData{}, nil)

	w := api.do(http.MethodGet, "/api/cart/c-1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"checkoutUrl":"https://shop/checkout"`)

	w = api.do(http.MethodGet, "/api/cart/gone", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Košík nebyl nalezen", decodeResponse(t, w).Error.Message)
}

func TestForwarding_Mutations_RejectInvalidBodiesBeforeBackend(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{"create without lines", "/api/cart/create", `{}`},
		{"create empty lines", "/api/cart/create", `{"lines":[]}`},
		{"create zero quantity", "/api/cart/create", `{"lines":[{"merchandiseId":"v-m","quantity":0}]}`},
		{"create malformed", "/api/cart/create", `{"lines":`},
		{"add without cart", "/api/cart/add", `{"lines":[{"merchandiseId":"v-m","quantity":1}]}`},
		{"add lines not array", "/api/cart/add", `{"cartId":"c1","lines":"v-m"}`},
		{"remove empty ids", "/api/cart/remove", `{"cartId":"c1","lineIds":[]}`},
		{"remove blank id", "/api/cart/remove", `{"cartId":"c1","lineIds":[""]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)

			w := api.do(http.MethodPost, tt.path, tt.body, nil)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeResponse(t, w)
			assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
			assert.Equal(t, "Invalid request body", resp.Error.Message)
			api.platform.AssertNotCalled(t, "CreateCart", mock.Anything, mock.Anything)
			api.platform.AssertNotCalled(t, "AddCartLines", mock.Anything, mock.Anything, mock.Anything)
			api.platform.AssertNotCalled(t, "RemoveCartLines", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestForwarding_CreateCart_RelaysUserErrors(t *testing.T) {
	api := newTestAPI(t)
	lines := []commerce.CartLineInput{{MerchandiseID: "v-m", Quantity: 2}}
	data := &commerce.CartCreateData{CartCreate: commerce.CartPayload{
		UserErrors: []commerce.UserError{{Field: []string{"lines"}, Message: "Variant sold out"}},
	}}
	api.platform.On("CreateCart", mock.Anything, lines).Return(data, nil).Once()

	w := api.do(http.MethodPost, "/api/cart/create", `{"lines":[{"merchandiseId":"v-m","quantity":2}]}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Variant sold out")
	api.platform.AssertExpectations(t)
}

func TestForwarding_BackendFailures(t *testing.T) {
	failure := errors.Join(commerce.ErrPlatformRequestFailed, errors.New("HTTP 503"))

	tests := []struct {
		name    string
		method  string
		path    string
		body    string
		setup   func(*MockPlatform)
		wantMsg string
	}{
		{
			name: "list products", method: http.MethodGet, path: "/api/products",
			setup:   func(m *MockPlatform) { m.On("ListProducts", mock.Anything, 50).Return(nil, failure) },
			wantMsg: "Nepodařilo se načíst produkty",
		},
		{
			name: "policies", method: http.MethodGet, path: "/api/policies",
			setup:   func(m *MockPlatform) { m.On("GetShopPolicies", mock.Anything).Return(nil, failure) },
			wantMsg: "Nepodařilo se načíst obchodní podmínky",
		},
		{
			name: "get cart", method: http.MethodGet, path: "/api/cart/c1",
			setup:   func(m *MockPlatform) { m.On("GetCart", mock.Anything, "c1").Return(nil, failure) },
			wantMsg: "Nepodařilo se načíst košík",
		},
		{
			name: "create", method: http.MethodPost, path: "/api/cart/create",
			body:    `{"lines":[{"merchandiseId":"v-m","quantity":1}]}`,
			setup:   func(m *MockPlatform) { m.On("CreateCart", mock.Anything, mock.Anything).Return(nil, failure) },
			wantMsg: "Nepodařilo se vytvořit košík",
		},
		{
			name: "add", method: http.MethodPost, path: "/api/cart/add",
			body:    `{"cartId":"c1","lines":[{"merchandiseId":"v-m","quantity":1}]}`,
			setup:   func(m *MockPlatform) { m.On("AddCartLines", mock.Anything, "c1", mock.Anything).Return(nil, failure) },
			wantMsg: "Nepodařilo se přidat do košíku",
		},
		{
			name: "remove", method: http.MethodPost, path: "/api/cart/remove",
			body:    `{"cartId":"c1","lineIds":["l1"]}`,
			setup:   func(m *MockPlatform) { m.On("RemoveCartLines", mock.Anything, "c1", []string{"l1"}).Return(nil, failure) },
			wantMsg: "Nepodařilo se odstranit z košíku",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			tt.setup(api.platform)

			w := api.do(tt.method, tt.path, tt.body, nil)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
			api.platform.AssertExpectations(t)
		})
	}
}
