package storefront

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/atlanticave/storefront/internal/domain/cart"
	"github.com/atlanticave/storefront/internal/domain/catalog"
	"github.com/atlanticave/storefront/internal/domain/commerce"
	"github.com/atlanticave/storefront/internal/domain/shared"
	"github.com/atlanticave/storefront/internal/infrastructure/logger"
	"github.com/atlanticave/storefront/internal/infrastructure/telemetry"
)

// CartView is the session cart as presented to the client
type CartView struct {
	Items       []cart.LineItem `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shippingFee"`
	Total       decimal.Decimal `json:"total"`
	ItemCount   int             `json:"itemCount"`
	Currency    string          `json:"currency"`
	CanCheckout bool            `json:"canCheckout"`
}

// CartOptions configures CartService
type CartOptions struct {
	ShippingFee decimal.Decimal
	Currency    string
	Map         commerce.MapOptions
}

// CartService manages the cart owned by a storefront session
type CartService struct {
	store    cart.Store
	platform commerce.StorefrontPlatform
	opts     CartOptions
	metrics  *telemetry.StorefrontMetrics
	logger   *zap.Logger
}

// NewCartService creates a CartService. metrics may be nil.
func NewCartService(
	store cart.Store,
	platform commerce.StorefrontPlatform,
	opts CartOptions,
	metrics *telemetry.StorefrontMetrics,
	logger *zap.Logger,
) *CartService {
	return &CartService{
		store:    store,
		platform: platform,
		opts:     opts,
		metrics:  metrics,
		logger:   logger,
	}
}

// View builds the presentation of c
func (s *CartService) View(c *cart.Cart) *CartView {
	items := c.Clone().Items
	return &CartView{
		Items:       items,
		Subtotal:    c.Subtotal(),
		ShippingFee: s.opts.ShippingFee,
		Total:       c.Total(s.opts.ShippingFee),
		ItemCount:   c.ItemCount(),
		Currency:    s.opts.Currency,
		CanCheckout: !c.IsEmpty(),
	}
}

// Get returns the session cart; a session without one sees an empty cart
func (s *CartService) Get(ctx context.Context, sessionID string) (*CartView, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.View(c), nil
}

// Add adds one unit of item. When the item names a product handle but no variant or no
// price, the live product is looked up first: it supplies the variant and stock of the
// chosen size and fills a missing price, name or image. A failed lookup is logged and
// the item is added as sent; an item that still has no price is rejected.
func (s *CartService) Add(ctx context.Context, sessionID string, item cart.AddItem) (*CartView, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cart", "add",
		telemetry.WithAttribute(telemetry.SpanAttrHandle, item.Handle),
		telemetry.WithAttribute(telemetry.SpanAttrSize, item.Size),
	)
	defer span.End()

	if item.Handle != "" && (item.VariantID == "" || !item.UnitPrice.Valid) {
		resolved, err := s.resolveVariant(ctx, item)
		if err != nil {
			telemetry.RecordError(span, err)
			s.record(ctx, "add", err)
			return nil, err
		}
		item = resolved
	}

	c, err := s.store.Update(ctx, sessionID, func(c *cart.Cart) error {
		return c.Add(item)
	})
	s.record(ctx, "add", err)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrItemCount, c.ItemCount())
	return s.View(c), nil
}

func (s *CartService) resolveVariant(ctx context.Context, item cart.AddItem) (cart.AddItem, error) {
	log := logger.L(ctx).With(zap.String("handle", item.Handle), zap.String("size", item.Size))

	product, err := s.fetchProduct(ctx, item.Handle)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return item, err
		}
		log.Warn("variant lookup failed, adding without variant", zap.Error(err))
		return item, nil
	}
	if product == nil {
		log.Warn("product not found during variant lookup, adding without variant")
		return item, nil
	}

	if !product.CanAddToCart() {
		return item, ErrProductUnavailable
	}
	size, ok := product.SizeByName(item.Size)
	if !ok {
		log.Info("size not offered", zap.Strings("sizes", product.SizeNames()))
		return item, ErrSizeNotAvailable
	}
	return applySize(fillSnapshot(item, product), size), nil
}

// fillSnapshot takes whatever the client left out of the line snapshot from the live product
func fillSnapshot(item cart.AddItem, product *catalog.Product) cart.AddItem {
	if !item.UnitPrice.Valid {
		item.UnitPrice = decimal.NewNullDecimal(product.Price)
	}
	if item.Name == "" {
		item.Name = product.Name
	}
	if item.Image == "" {
		item.Image = product.Image
	}
	return item
}

// applySize copies the variant and live ceiling of size onto item.
// A size that is not for sale has a ceiling of zero.
func applySize(item cart.AddItem, size catalog.Size) cart.AddItem {
	item.VariantID = size.VariantID
	switch {
	case !size.Available:
		zero := 0
		item.AvailableQuantity = &zero
	case size.QuantityAvailable != nil:
		item.AvailableQuantity = size.QuantityAvailable
	}
	return item
}

// Remove deletes the line at index
func (s *CartService) Remove(ctx context.Context, sessionID string, index int) (*CartView, error) {
	return s.mutate(ctx, sessionID, "remove", func(c *cart.Cart) error {
		return c.Remove(index)
	})
}

// SetQuantity overwrites the quantity of the line at index; below 1 removes it
func (s *CartService) SetQuantity(ctx context.Context, sessionID string, index, quantity int) (*CartView, error) {
	return s.mutate(ctx, sessionID, "set_quantity", func(c *cart.Cart) error {
		return c.SetQuantity(index, quantity)
	})
}

// RefreshStock replaces the cached ceiling of the line at index
func (s *CartService) RefreshStock(ctx context.Context, sessionID string, index int, available *int) (*CartView, error) {
	return s.mutate(ctx, sessionID, "refresh_stock", func(c *cart.Cart) error {
		return c.RefreshStock(index, available)
	})
}

type stockKey struct {
	productID string
	size      string
}

// ReconcileStock refreshes the ceiling of every line that has a product handle from live
// backend stock. Quantities are never changed. Lines whose product cannot be fetched keep
// their cached ceiling.
func (s *CartService) ReconcileStock(ctx context.Context, sessionID string) (*CartView, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cart", "reconcile_stock")
	defer span.End()

	current, err := s.store.Load(ctx, sessionID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	live := make(map[stockKey]*int)
	fetched := make(map[string]bool)
	for _, line := range current.Items {
		if line.Handle == "" || fetched[line.Handle] {
			continue
		}
		fetched[line.Handle] = true

		product, err := s.fetchProduct(ctx, line.Handle)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil, err
			}
			logger.L(ctx).Warn("stock reconcile lookup failed",
				zap.String("handle", line.Handle), zap.Error(err))
			continue
		}
		if product == nil {
			continue
		}
		for _, size := range product.Sizes {
			ceiling := size.QuantityAvailable
			if !size.Available {
				zero := 0
				ceiling = &zero
			}
			live[stockKey{productID: product.ID, size: size.Name}] = ceiling
		}
	}

	if len(live) == 0 {
		return s.View(current), nil
	}

	return s.mutate(ctx, sessionID, "reconcile_stock", func(c *cart.Cart) error {
		for i, line := range c.Items {
			ceiling, ok := live[stockKey{productID: line.ID, size: line.SelectedSize}]
			if !ok {
				continue
			}
			if err := c.RefreshStock(i, ceiling); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *CartService) fetchProduct(ctx context.Context, handle string) (*catalog.Product, error) {
	data, err := s.platform.GetProductByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	if data.ProductByHandle == nil {
		return nil, nil
	}
	product, err := commerce.MapProduct(data.ProductByHandle, s.opts.Map)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Clear destroys the session cart
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	err := s.store.Delete(ctx, sessionID)
	s.record(ctx, "clear", err)
	return err
}

func (s *CartService) mutate(ctx context.Context, sessionID, operation string, fn func(*cart.Cart) error) (*CartView, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cart", operation)
	defer span.End()

	c, err := s.store.Update(ctx, sessionID, fn)
	s.record(ctx, operation, err)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrLineCount, len(c.Items),
		telemetry.SpanAttrItemCount, c.ItemCount(),
	)
	return s.View(c), nil
}

func (s *CartService) record(ctx context.Context, operation string, err error) {
	var ceilingErr *cart.StockCeilingError
	switch {
	case err == nil:
		s.metrics.RecordCartOperation(ctx, operation, telemetry.OutcomeSuccess)
	case errors.Is(err, cart.ErrOutOfStock):
		s.metrics.RecordCartOperation(ctx, operation, telemetry.OutcomeRejected)
		s.metrics.RecordStockRejection(ctx, "out_of_stock")
	case errors.As(err, &ceilingErr):
		s.metrics.RecordCartOperation(ctx, operation, telemetry.OutcomeRejected)
		s.metrics.RecordStockRejection(ctx, "insufficient_stock")
	case errors.As(err, new(*shared.DomainError)):
		s.metrics.RecordCartOperation(ctx, operation, telemetry.OutcomeRejected)
	default:
		s.metrics.RecordCartOperation(ctx, operation, telemetry.OutcomeFailed)
	}
}
