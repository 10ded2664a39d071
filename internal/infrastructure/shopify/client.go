package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/atlanticave/storefront/internal/domain/commerce"
	"github.com/atlanticave/storefront/internal/infrastructure/telemetry"
)

const accessTokenHeader = "X-Shopify-Storefront-Access-Token"

// GraphQLError is one entry of a GraphQL "errors" array
type GraphQLError struct {
	Message    string         `json:"message"`
	Locations  []Location     `json:"locations,omitempty"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type graphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data       json.RawMessage `json:"data"`
	Errors     []GraphQLError  `json:"errors"`
	Extensions json.RawMessage `json:"extensions"`
}

// Client implements commerce.StorefrontPlatform over the Shopify Storefront GraphQL API
type Client struct {
	config     *Config
	httpClient *http.Client
	validate   *validator.Validate
	operations map[string]operation
	metrics    *telemetry.StorefrontMetrics
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Its transport is used as is.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithMetrics records the duration of every GraphQL call
func WithMetrics(m *telemetry.StorefrontMetrics) Option {
	return func(cl *Client) {
		cl.metrics = m
	}
}

// NewClient creates a Storefront API client. Every GraphQL document is parsed up front.
func NewClient(config *Config, opts ...Option) (*Client, error) {
	if config == nil {
		return nil, commerce.ErrPlatformNotConfigured
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", commerce.ErrPlatformNotConfigured, err)
	}

	ops, err := compileOperations(operationSources)
	if err != nil {
		return nil, err
	}

	c := &Client{
		config: config,
		httpClient: &http.Client{
			Timeout:   time.Duration(config.TimeoutSeconds) * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		validate:   validator.New(),
		operations: ops,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ commerce.StorefrontPlatform = (*Client)(nil)

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

// ListProducts fetches the first page of products
func (c *Client) ListProducts(ctx context.Context, first int) (*commerce.ProductsData, error) {
	if first <= 0 {
		first = DefaultPageSize
	}
	if first > MaxPageSize {
		first = MaxPageSize
	}
	var data commerce.ProductsData
	if err := c.execute(ctx, "GetProducts", map[string]any{"first": first}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetProductByHandle fetches one product; ProductByHandle is nil when the handle is unknown
func (c *Client) GetProductByHandle(ctx context.Context, handle string) (*commerce.ProductByHandleData, error) {
	if handle == "" {
		return &commerce.ProductByHandleData{}, nil
	}
	var data commerce.ProductByHandleData
	if err := c.execute(ctx, "GetProductByHandle", map[string]any{"handle": handle}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetShopPolicies fetches the shop's policies
func (c *Client) GetShopPolicies(ctx context.Context) (*commerce.ShopPoliciesData, error) {
	var data commerce.ShopPoliciesData
	if err := c.execute(ctx, "GetShopPolicies", nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ---------------------------------------------------------------------------
// Carts
// ---------------------------------------------------------------------------

// CreateCart creates a backend cart with the given lines
func (c *Client) CreateCart(ctx context.Context, lines []commerce.CartLineInput) (*commerce.CartCreateData, error) {
	if err := commerce.ValidateLines(lines); err != nil {
		return nil, err
	}
	var data commerce.CartCreateData
	vars := map[string]any{"input": map[string]any{"lines": lines}}
	if err := c.execute(ctx, "CreateCart", vars, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// AddCartLines adds lines to a backend cart
func (c *Client) AddCartLines(ctx context.Context, cartID string, lines []commerce.CartLineInput) (*commerce.CartLinesAddData, error) {
	if cartID == "" {
		return nil, commerce.ErrInvalidCartLine
	}
	if err := commerce.ValidateLines(lines); err != nil {
		return nil, err
	}
	var data commerce.CartLinesAddData
	vars := map[string]any{"cartId": cartID, "lines": lines}
	if err := c.execute(ctx, "AddCartLines", vars, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// RemoveCartLines removes lines from a backend cart
func (c *Client) RemoveCartLines(ctx context.Context, cartID string, lineIDs []string) (*commerce.CartLinesRemoveData, error) {
	if cartID == "" || len(lineIDs) == 0 {
		return nil, commerce.ErrInvalidCartLine
	}
	var data commerce.CartLinesRemoveData
	vars := map[string]any{"cartId": cartID, "lineIds": lineIDs}
	if err := c.execute(ctx, "RemoveCartLines", vars, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetCart fetches a backend cart; Cart is nil when the id is unknown
func (c *Client) GetCart(ctx context.Context, cartID string) (*commerce.CartData, error) {
	if cartID == "" {
		return &commerce.CartData{}, nil
	}
	var data commerce.CartData
	if err := c.execute(ctx, "GetCart", map[string]any{"cartId": cartID}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

// execute runs one named operation and strictly decodes its data into out
func (c *Client) execute(ctx context.Context, name string, vars map[string]any, out any) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "shopify", name,
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute(telemetry.SpanAttrOperation, name),
	)
	defer span.End()

	start := time.Now()
	err := c.run(ctx, name, vars, out)
	c.metrics.RecordBackendCall(ctx, name, time.Since(start), err)
	telemetry.RecordError(span, err)
	return err
}

func (c *Client) run(ctx context.Context, name string, vars map[string]any, out any) error {
	op, ok := c.operations[name]
	if !ok {
		return fmt.Errorf("shopify: unknown operation %s", name)
	}

	body, err := c.doRequest(ctx, graphQLRequest{Query: op.Document, OperationName: op.Name, Variables: vars})
	if err != nil {
		return err
	}

	var resp graphQLResponse
	if err := decodeStrict(body, &resp); err != nil {
		return fmt.Errorf("%w: %s envelope: %v", commerce.ErrPlatformInvalidResponse, name, err)
	}
	if len(resp.Errors) > 0 {
		return fmt.Errorf("%w: %s: %s", commerce.ErrPlatformRequestFailed, name, resp.Errors[0].Message)
	}
	if len(resp.Data) == 0 || bytes.Equal(resp.Data, []byte("null")) {
		return fmt.Errorf("%w: %s returned no data", commerce.ErrPlatformInvalidResponse, name)
	}
	if err := decodeStrict(resp.Data, out); err != nil {
		return fmt.Errorf("%w: %s data: %v", commerce.ErrPlatformInvalidResponse, name, err)
	}
	if err := c.validate.StructCtx(ctx, out); err != nil {
		return fmt.Errorf("%w: %s data: %v", commerce.ErrPlatformInvalidResponse, name, err)
	}
	return nil
}

// doRequest posts a GraphQL request and returns the raw response body
func (c *Client) doRequest(ctx context.Context, payload graphQLRequest) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.GraphQLURL(), bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(accessTokenHeader, c.config.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", commerce.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", commerce.ErrPlatformUnavailable, err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", commerce.ErrPlatformRequestFailed, resp.StatusCode)
	}

	return body, nil
}

// decodeStrict rejects unknown fields and trailing data
func decodeStrict(data []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected trailing data")
	}
	return nil
}
