package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/atlanticave/storefront/internal/domain/catalog"
	"github.com/atlanticave/storefront/internal/domain/commerce"
	"github.com/atlanticave/storefront/internal/interfaces/http/dto"
)

func TestCatalog_ListProducts_MapsForDisplay(t *testing.T) {
	api := newTestAPI(t)
	api.platform.On("ListProducts", mock.Anything, 50).Return(&commerce.ProductsData{
		Products: commerce.ProductConnection{Edges: []commerce.ProductEdge{
			{Node: *teeProduct(variant("v-s", "S", false, intPtr(0)), variant("v-m", "M", true, intPtr(-3)))},
		}},
	}, nil)

	w := api.do(http.MethodGet, "/api/catalog/products", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var products []catalog.Product
	decodeData(t, w, &products)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "Atlantic Tee", p.Name)
	assert.Equal(t, commerce.DefaultPlaceholderImage, p.Image)
	assert.Equal(t, commerce.DefaultCategory, p.Category)
	assert.Equal(t, "v-m", p.VariantID)
	require.Len(t, p.Sizes, 2)
	assert.False(t, p.Sizes[0].Available)
	require.NotNil(t, p.Sizes[1].QuantityAvailable)
	assert.Equal(t, 0, *p.Sizes[1].QuantityAvailable)

	var flags []struct {
		CanAddToCart     bool `json:"canAddToCart"`
		HasAvailableSize bool `json:"hasAvailableSize"`
	}
	decodeData(t, w, &flags)
	require.Len(t, flags, 1)
	assert.True(t, flags[0].CanAddToCart)
	assert.True(t, flags[0].HasAvailableSize)
}

func TestCatalog_GetProduct(t *testing.T) {
	api := newTestAPI(t)
	api.platform.On("GetProductByHandle", mock.Anything, "atlantic-tee").
		Return(&commerce.ProductByHandleData{ProductByHandle: teeProduct(variant("v-m", "M", true, nil))}, nil)
	api.platform.On("GetProductByHandle", mock.Anything, "missing").
		Return(&commerce.ProductByHandleData{}, nil)
	api.platform.On("GetProductByHandle", mock.Anything, "broken").
		Return(nil, errors.Join(commerce.ErrPlatformUnavailable, errors.New("timeout")))

	w := api.do(http.MethodGet, "/api/catalog/products/atlantic-tee", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var product catalog.Product
	decodeData(t, w, &product)
	assert.Equal(t, "atlantic-tee", product.Handle)
	assert.Equal(t, "999", product.Price.String())

	w = api.do(http.MethodGet, "/api/catalog/products/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Produkt nebyl nalezen", decodeResponse(t, w).Error.Message)

	w = api.do(http.MethodGet, "/api/catalog/products/broken", "", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeUpstream, resp.Error.Code)
	assert.Equal(t, "Nepodařilo se načíst produkt", resp.Error.Message)
}

func TestCatalog_GetPolicy(t *testing.T) {
	shop := &commerce.ShopPoliciesData{Shop: commerce.Shop{
		PrivacyPolicy:  &commerce.ShopPolicy{Body: "<p>privacy</p>", Handle: "privacy-policy"},
		ShippingPolicy: &commerce.ShopPolicy{Title: "Shipping", Body: ""},
	}}

	tests := []struct {
		name       string
		slug       string
		wantStatus int
		wantTitle  string
	}{
		{"privacy gets default title", "ochrana-osobnich-udaju", http.StatusOK, "Ochrana osobních údajů"},
		{"empty body", "dorucovani", http.StatusNotFound, ""},
		{"absent policy", "vraceni-penez", http.StatusNotFound, ""},
		{"unknown slug", "privacy", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			api.platform.On("GetShopPolicies", mock.Anything).Return(shop, nil)

			w := api.do(http.MethodGet, "/api/catalog/policies/"+tt.slug, "", nil)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, "Stránka nebyla nalezena", decodeResponse(t, w).Error.Message)
				return
			}
			var policy catalog.Policy
			decodeData(t, w, &policy)
			assert.Equal(t, tt.wantTitle, policy.Title)
			assert.Equal(t, catalog.PolicyKindPrivacy, policy.Kind)
		})
	}
}

func TestCatalog_GetPolicies_UnknownSlugSkipsBackend(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/api/catalog/policies/nope", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	api.platform.AssertNotCalled(t, "GetShopPolicies", mock.Anything)
}
