package storefront

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/atlanticave/storefront/internal/domain/catalog"
	"github.com/atlanticave/storefront/internal/domain/commerce"
	"github.com/atlanticave/storefront/internal/infrastructure/telemetry"
)

// CatalogService reads products and policies from the commerce backend and maps them for display
type CatalogService struct {
	platform commerce.StorefrontPlatform
	mapOpts  commerce.MapOptions
	pageSize int
	logger   *zap.Logger
}

// CatalogOptions configures CatalogService
type CatalogOptions struct {
	PageSize int
	Map      commerce.MapOptions
}

// NewCatalogService creates a CatalogService
func NewCatalogService(platform commerce.StorefrontPlatform, opts CatalogOptions, logger *zap.Logger) *CatalogService {
	if opts.PageSize <= 0 {
		opts.PageSize = 50
	}
	return &CatalogService{
		platform: platform,
		mapOpts:  opts.Map,
		pageSize: opts.PageSize,
		logger:   logger,
	}
}

// ListProducts returns the first page of products. Paging metadata is not exposed.
func (s *CatalogService) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "list_products")
	defer span.End()

	data, err := s.platform.ListProducts(ctx, s.pageSize)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("list products: %w", err)
	}
	products, err := commerce.MapProducts(data, s.mapOpts)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, "product_count", len(products))
	return products, nil
}

// GetProduct returns the product with handle, or (nil, nil) when there is none
func (s *CatalogService) GetProduct(ctx context.Context, handle string) (*catalog.Product, error) {
	if handle == "" {
		return nil, nil
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "get_product",
		telemetry.WithAttribute(telemetry.SpanAttrHandle, handle),
	)
	defer span.End()

	data, err := s.platform.GetProductByHandle(ctx, handle)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("get product %s: %w", handle, err)
	}
	if data.ProductByHandle == nil {
		return nil, nil
	}

	product, err := commerce.MapProduct(data.ProductByHandle, s.mapOpts)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return &product, nil
}

// GetPolicies returns every shop policy
func (s *CatalogService) GetPolicies(ctx context.Context) (*catalog.Policies, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "get_policies")
	defer span.End()

	data, err := s.platform.GetShopPolicies(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("get shop policies: %w", err)
	}
	policies := commerce.MapPolicies(data.Shop)
	return &policies, nil
}

// GetPolicy returns the policy published under a URL slug.
// Unknown slugs and policies without a body yield (nil, nil).
func (s *CatalogService) GetPolicy(ctx context.Context, slug string) (*catalog.Policy, error) {
	kind, ok := catalog.PolicyKindFromSlug(slug)
	if !ok {
		return nil, nil
	}

	policies, err := s.GetPolicies(ctx)
	if err != nil {
		return nil, err
	}
	policy := policies.ByKind(kind)
	if !policy.HasContent() {
		s.logger.Debug("policy has no content", zap.String("kind", string(kind)))
		return nil, nil
	}
	return policy, nil
}
