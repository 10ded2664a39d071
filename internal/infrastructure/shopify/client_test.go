package shopify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlanticave/storefront/internal/domain/commerce"
)

// ---------------------------------------------------------------------------
// Config Tests
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr error
	}{
		{name: "valid config", config: &Config{StoreDomain: "shop.myshopify.com", AccessToken: "tok"}},
		{name: "endpoint instead of domain", config: &Config{Endpoint: "http://localhost/graphql", AccessToken: "tok"}},
		{name: "missing domain", config: &Config{AccessToken: "tok"}, wantErr: ErrConfigMissingDomain},
		{name: "missing token", config: &Config{StoreDomain: "shop.myshopify.com"}, wantErr: ErrConfigMissingToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, DefaultAPIVersion, tt.config.APIVersion)
			assert.Positive(t, tt.config.TimeoutSeconds)
			assert.Positive(t, tt.config.MaxResponseBytes)
		})
	}
}

func TestConfig_GraphQLURL(t *testing.T) {
	c := NewConfig("atlantic-ave.myshopify.com", "tok")
	assert.Equal(t, "https://atlantic-ave.myshopify.com/api/2025-01/graphql.json", c.GraphQLURL())

	c.APIVersion = "2024-10"
	c.StoreDomain = "https://atlantic-ave.myshopify.com/"
	assert.Equal(t, "https://atlantic-ave.myshopify.com/api/2024-10/graphql.json", c.GraphQLURL())

	c.Endpoint = "http://127.0.0.1:9999/graphql"
	assert.Equal(t, "http://127.0.0.1:9999/graphql", c.GraphQLURL())
}

// ---------------------------------------------------------------------------
// Document Tests
// ---------------------------------------------------------------------------

func TestCompileOperations(t *testing.T) {
	ops, err := compileOperations(operationSources)
	require.NoError(t, err)
	assert.Len(t, ops, len(operationSources))
}

func TestCompileOperations_Rejects(t *testing.T) {
	tests := []struct {
		name string
		src  operation
	}{
		{"syntax error", operation{Name: "Broken", Kind: "query", Document: `query Broken { shop { `}},
		{"wrong name", operation{Name: "Expected", Kind: "query", Document: `query Other { shop { name } }`}},
		{"wrong kind", operation{Name: "Q", Kind: "mutation", Document: `query Q { shop { name } }`}},
		{"two operations", operation{Name: "A", Kind: "query", Document: `query A { shop { name } } query B { shop { name } }`}},
		{"unused fragment", operation{Name: "A", Kind: "query", Document: `query A { shop { name } } fragment F on Shop { name }`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileOperations([]operation{tt.src})
			assert.Error(t, err)
		})
	}
}

// ---------------------------------------------------------------------------
// Client Tests
// ---------------------------------------------------------------------------

type capturedRequest struct {
	Token string
	Body  graphQLRequest
}

func newTestClient(t *testing.T, status int, response string) (*Client, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		captured.Token = r.Header.Get(accessTokenHeader)
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &captured.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(&Config{Endpoint: server.URL, AccessToken: "test-token"})
	require.NoError(t, err)
	return client, captured
}

const productsResponse = `{
  "data": {
    "products": {
      "edges": [
        {"node": {
          "id": "gid://shopify/Product/1",
          "title": "Star shirt",
          "description": "Cotton",
          "handle": "star-shirt",
          "priceRange": {"minVariantPrice": {"amount": "999.0", "currencyCode": "CZK"}},
          "images": {"edges": [{"node": {"url": "https://cdn/a.jpg", "altText": null}}]},
          "variants": {"edges": [
            {"node": {"id": "v-m", "title": "M", "priceV2": {"amount": "999.0", "currencyCode": "CZK"}, "availableForSale": true, "quantityAvailable": 3}}
          ]}
        }}
      ]
    }
  },
  "extensions": {"cost": {"requestedQueryCost": 12}}
}`

func TestClient_ListProducts(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, productsResponse)

	data, err := client.ListProducts(context.Background(), 50)
	require.NoError(t, err)

	assert.Equal(t, "test-token", captured.Token)
	assert.Equal(t, "GetProducts", captured.Body.OperationName)
	assert.Contains(t, captured.Body.Query, "products(first: $first)")
	assert.EqualValues(t, 50, captured.Body.Variables["first"])

	nodes := data.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, "star-shirt", nodes[0].Handle)
	require.NotNil(t, nodes[0].Variants.Edges[0].Node.QuantityAvailable)
	assert.Equal(t, 3, *nodes[0].Variants.Edges[0].Node.QuantityAvailable)
}

func TestClient_ListProducts_ClampsPageSize(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `{"data":{"products":{"edges":[]}}}`)

	_, err := client.ListProducts(context.Background(), 10_000)
	require.NoError(t, err)
	assert.EqualValues(t, MaxPageSize, captured.Body.Variables["first"])
}

func TestClient_GetProductByHandle_NotFound(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `{"data":{"productByHandle":null}}`)

	data, err := client.GetProductByHandle(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, data.ProductByHandle)
	assert.Equal(t, "missing", captured.Body.Variables["handle"])
}

func TestClient_GetShopPolicies(t *testing.T) {
	client, _ := newTestClient(t, http.StatusOK, `{"data":{"shop":{
		"privacyPolicy":{"title":"Privacy","body":"<p>p</p>","handle":"privacy-policy"},
		"refundPolicy":null,"shippingPolicy":null,"termsOfService":null}}}`)

	data, err := client.GetShopPolicies(context.Background())
	require.NoError(t, err)
	require.NotNil(t, data.Shop.PrivacyPolicy)
	assert.Equal(t, "<p>p</p>", data.Shop.PrivacyPolicy.Body)
	assert.Nil(t, data.Shop.TermsOfService)
}

func TestClient_CreateCart(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `{"data":{"cartCreate":{
		"cart":{"id":"gid://shopify/Cart/1","checkoutUrl":"https://shop/checkouts/1",
			"lines":{"edges":[{"node":{"id":"line-1","quantity":2,"merchandise":{"id":"v-m","title":"M",
				"priceV2":{"amount":"999.0","currencyCode":"CZK"},
				"product":{"title":"Star shirt","images":{"edges":[]}}}}}]},
			"cost":{"totalAmount":{"amount":"1998.0","currencyCode":"CZK"},"subtotalAmount":{"amount":"1998.0","currencyCode":"CZK"}}},
		"userErrors":[]}}}`)

	data, err := client.CreateCart(context.Background(), []commerce.CartLineInput{{MerchandiseID: "v-m", Quantity: 2}})
	require.NoError(t, err)
	assert.Equal(t, "https://shop/checkouts/1", data.CartCreate.CheckoutURL())

	input, ok := captured.Body.Variables["input"].(map[string]any)
	require.True(t, ok)
	lines, ok := input["lines"].([]any)
	require.True(t, ok)
	require.Len(t, lines, 1)
	assert.Equal(t, map[string]any{"merchandiseId": "v-m", "quantity": float64(2)}, lines[0])
}

func TestClient_CreateCart_UserErrors(t *testing.T) {
	client, _ := newTestClient(t, http.StatusOK, `{"data":{"cartCreate":{"cart":null,
		"userErrors":[{"field":["input","lines","0","merchandiseId"],"message":"The merchandise does not exist."}]}}}`)

	data, err := client.CreateCart(context.Background(), []commerce.CartLineInput{{MerchandiseID: "bogus", Quantity: 1}})
	require.NoError(t, err, "user errors are data")
	ue, ok := data.CartCreate.FirstUserError()
	require.True(t, ok)
	assert.Equal(t, "The merchandise does not exist.", ue.Message)
	assert.Empty(t, data.CartCreate.CheckoutURL())
}

func TestClient_CreateCart_RejectsInvalidLinesWithoutCalling(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()
	client, err := NewClient(&Config{Endpoint: server.URL, AccessToken: "tok"})
	require.NoError(t, err)

	_, err = client.CreateCart(context.Background(), nil)
	assert.ErrorIs(t, err, commerce.ErrInvalidCartLine)
	_, err = client.CreateCart(context.Background(), []commerce.CartLineInput{{MerchandiseID: "v", Quantity: 0}})
	assert.ErrorIs(t, err, commerce.ErrInvalidCartLine)
	assert.False(t, called)
}

func TestClient_AddAndRemoveCartLines(t *testing.T) {
	cart := `{"id":"c1","checkoutUrl":"https://shop/c1","lines":{"edges":[]},
		"cost":{"totalAmount":{"amount":"0.0","currencyCode":"CZK"},"subtotalAmount":{"amount":"0.0","currencyCode":"CZK"}}}`

	client, captured := newTestClient(t, http.StatusOK, `{"data":{"cartLinesAdd":{"cart":`+cart+`,"userErrors":[]}}}`)
	added, err := client.AddCartLines(context.Background(), "c1", []commerce.CartLineInput{{MerchandiseID: "v", Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, "c1", added.CartLinesAdd.Cart.ID)
	assert.Equal(t, "AddCartLines", captured.Body.OperationName)

	client, captured = newTestClient(t, http.StatusOK, `{"data":{"cartLinesRemove":{"cart":`+cart+`,"userErrors":[]}}}`)
	removed, err := client.RemoveCartLines(context.Background(), "c1", []string{"line-1"})
	require.NoError(t, err)
	assert.Equal(t, "c1", removed.CartLinesRemove.Cart.ID)
	assert.Equal(t, []any{"line-1"}, captured.Body.Variables["lineIds"])

	_, err = client.RemoveCartLines(context.Background(), "c1", nil)
	assert.ErrorIs(t, err, commerce.ErrInvalidCartLine)
}

func TestClient_GetCart_NotFound(t *testing.T) {
	client, _ := newTestClient(t, http.StatusOK, `{"data":{"cart":null}}`)

	data, err := client.GetCart(context.Background(), "gid://shopify/Cart/none")
	require.NoError(t, err)
	assert.Nil(t, data.Cart)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		response string
		wantErr  error
	}{
		{"http error", http.StatusInternalServerError, `oops`, commerce.ErrPlatformRequestFailed},
		{"unauthorized", http.StatusUnauthorized, `{"errors":"Unauthorized"}`, commerce.ErrPlatformRequestFailed},
		{"graphql errors", http.StatusOK, `{"errors":[{"message":"Field 'x' doesn't exist","locations":[{"line":1,"column":2}]}]}`, commerce.ErrPlatformRequestFailed},
		{"not json", http.StatusOK, `<html>`, commerce.ErrPlatformInvalidResponse},
		{"null data", http.StatusOK, `{"data":null}`, commerce.ErrPlatformInvalidResponse},
		{"unknown field", http.StatusOK, `{"data":{"products":{"edges":[],"pageInfo":{}}}}`, commerce.ErrPlatformInvalidResponse},
		{"missing required field", http.StatusOK, `{"data":{"products":{"edges":[{"node":{"id":"p1","title":"","handle":"h",
			"priceRange":{"minVariantPrice":{"amount":"1.0","currencyCode":"CZK"}},"images":{"edges":[]},"variants":{"edges":[]}}}]}}}`, commerce.ErrPlatformInvalidResponse},
		{"non numeric price", http.StatusOK, `{"data":{"products":{"edges":[{"node":{"id":"p1","title":"T","handle":"h",
			"priceRange":{"minVariantPrice":{"amount":"abc","currencyCode":"CZK"}},"images":{"edges":[]},"variants":{"edges":[]}}}]}}}`, commerce.ErrPlatformInvalidResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, tt.status, tt.response)
			_, err := client.ListProducts(context.Background(), 10)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewClient(&Config{Endpoint: url, AccessToken: "tok"})
	require.NoError(t, err)

	_, err = client.GetShopPolicies(context.Background())
	assert.ErrorIs(t, err, commerce.ErrPlatformUnavailable)
}

func TestNewClient_NotConfigured(t *testing.T) {
	_, err := NewClient(nil)
	assert.ErrorIs(t, err, commerce.ErrPlatformNotConfigured)

	_, err = NewClient(&Config{StoreDomain: "shop.myshopify.com"})
	assert.ErrorIs(t, err, commerce.ErrPlatformNotConfigured)
}

func TestUnconfigured(t *testing.T) {
	ctx := context.Background()
	var p commerce.StorefrontPlatform = Unconfigured{}

	calls := map[string]func() error{
		"ListProducts":       func() error { _, err := p.ListProducts(ctx, 50); return err },
		"GetProductByHandle": func() error { _, err := p.GetProductByHandle(ctx, "tee"); return err },
		"GetShopPolicies":    func() error { _, err := p.GetShopPolicies(ctx); return err },
		"CreateCart":         func() error { _, err := p.CreateCart(ctx, nil); return err },
		"AddCartLines":       func() error { _, err := p.AddCartLines(ctx, "c1", nil); return err },
		"RemoveCartLines":    func() error { _, err := p.RemoveCartLines(ctx, "c1", nil); return err },
		"GetCart":            func() error { _, err := p.GetCart(ctx, "c1"); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, call(), commerce.ErrPlatformNotConfigured)
		})
	}
}
