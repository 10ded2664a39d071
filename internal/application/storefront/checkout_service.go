package storefront

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/atlanticave/storefront/internal/domain/cart"
	"github.com/atlanticave/storefront/internal/domain/commerce"
	"github.com/atlanticave/storefront/internal/domain/shared"
	"github.com/atlanticave/storefront/internal/infrastructure/logger"
	"github.com/atlanticave/storefront/internal/infrastructure/telemetry"
)

// CheckoutResult is a successful hand-off to the hosted checkout
type CheckoutResult struct {
	CheckoutURL string `json:"checkoutUrl"`
	CartID      string `json:"cartId"`
}

// CheckoutService hands the session cart over to the backend's hosted checkout.
// It never retries and never clears the cart itself.
type CheckoutService struct {
	store     cart.Store
	platform  commerce.StorefrontPlatform
	publisher shared.EventPublisher
	currency  string
	metrics   *telemetry.StorefrontMetrics
	logger    *zap.Logger
}

// NewCheckoutService creates a CheckoutService. publisher and metrics may be nil.
func NewCheckoutService(
	store cart.Store,
	platform commerce.StorefrontPlatform,
	publisher shared.EventPublisher,
	currency string,
	metrics *telemetry.StorefrontMetrics,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		store:     store,
		platform:  platform,
		publisher: publisher,
		currency:  currency,
		metrics:   metrics,
		logger:    logger,
	}
}

// Checkout creates a backend cart from the session cart and returns its checkout URL.
func (s *CheckoutService) Checkout(ctx context.Context, sessionID string) (*CheckoutResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "create")
	defer span.End()

	result, c, err := s.checkout(ctx, sessionID)
	if err != nil {
		telemetry.RecordError(span, err)
		s.recordFailure(ctx, err)
		return nil, err
	}
	s.metrics.RecordCheckout(ctx, telemetry.OutcomeSuccess)
	telemetry.SetAttributes(span,
		telemetry.SpanAttrBackendCartID, result.CartID,
		telemetry.SpanAttrItemCount, c.ItemCount(),
	)

	s.publishStarted(ctx, result, c)
	return result, nil
}

func (s *CheckoutService) checkout(ctx context.Context, sessionID string) (*CheckoutResult, *cart.Cart, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if c.IsEmpty() {
		return nil, nil, ErrCartEmpty
	}

	checkoutLines := c.CheckoutLines()
	lines := make([]commerce.CartLineInput, 0, len(checkoutLines))
	for _, l := range checkoutLines {
		lines = append(lines, commerce.CartLineInput{MerchandiseID: l.MerchandiseID, Quantity: l.Quantity})
	}

	data, err := s.platform.CreateCart(ctx, lines)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
	}

	payload := &data.CartCreate
	if userErr, ok := payload.FirstUserError(); ok {
		return nil, nil, &CheckoutUserError{Field: userErr.Field, Message: userErr.Message}
	}
	checkoutURL := payload.CheckoutURL()
	if checkoutURL == "" {
		return nil, nil, ErrCheckoutURLMissing
	}
	return &CheckoutResult{CheckoutURL: checkoutURL, CartID: payload.Cart.ID}, c, nil
}

func (s *CheckoutService) recordFailure(ctx context.Context, err error) {
	var userErr *CheckoutUserError
	if errors.Is(err, ErrCartEmpty) || errors.As(err, &userErr) {
		s.metrics.RecordCheckout(ctx, telemetry.OutcomeRejected)
		return
	}
	s.metrics.RecordCheckout(ctx, telemetry.OutcomeFailed)
	logger.L(ctx).Error("checkout failed", zap.Error(err))
}

// publishStarted is best effort: a broker failure never fails the hand-off
func (s *CheckoutService) publishStarted(ctx context.Context, result *CheckoutResult, c *cart.Cart) {
	if s.publisher == nil {
		return
	}
	event := cart.NewCheckoutStarted(result.CartID, result.CheckoutURL, c, s.currency)
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.L(ctx).Warn("failed to publish checkout event",
			zap.String("event_id", event.EventID().String()),
			zap.Error(err),
		)
	}
}

// Complete is called when the customer reaches the confirmation page; it destroys the session cart
func (s *CheckoutService) Complete(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return err
	}
	logger.L(ctx).Info("checkout completed, cart cleared")
	return nil
}
