package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when no meter is supplied
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Outcome values for AttrOutcome
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// StorefrontMetrics counts cart and checkout activity and times backend calls.
type StorefrontMetrics struct {
	cartOperations  *Counter
	stockRejections *Counter
	checkouts       *Counter
	backendDuration *Histogram
}

// NewStorefrontMetrics registers the storefront instruments on meter.
func NewStorefrontMetrics(meter metric.Meter) (*StorefrontMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		m   StorefrontMetrics
		err error
	)
	if m.cartOperations, err = NewCounter(meter,
		"storefront_cart_operations_total", "Session cart mutations by operation and outcome", "{operation}"); err != nil {
		return nil, err
	}
	if m.stockRejections, err = NewCounter(meter,
		"storefront_stock_rejections_total", "Cart changes refused by a stock ceiling", "{rejection}"); err != nil {
		return nil, err
	}
	if m.checkouts, err = NewCounter(meter,
		"storefront_checkouts_total", "Checkout hand-offs by outcome", "{checkout}"); err != nil {
		return nil, err
	}
	if m.backendDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "storefront_backend_request_duration_seconds",
		Description: "Duration of commerce backend GraphQL calls",
		Unit:        "s",
		Boundaries:  BackendDurationBuckets,
	}); err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordCartOperation counts one cart mutation
func (m *StorefrontMetrics) RecordCartOperation(ctx context.Context, operation, outcome string) {
	if m == nil {
		return
	}
	m.cartOperations.Inc(ctx, AttrOperation.String(operation), AttrOutcome.String(outcome))
}

// RecordStockRejection counts a refused change; reason is out_of_stock or insufficient_stock
func (m *StorefrontMetrics) RecordStockRejection(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.stockRejections.Inc(ctx, AttrReason.String(reason))
}

// RecordCheckout counts a checkout attempt
func (m *StorefrontMetrics) RecordCheckout(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.checkouts.Inc(ctx, AttrOutcome.String(outcome))
}

// RecordBackendCall times one backend operation
func (m *StorefrontMetrics) RecordBackendCall(ctx context.Context, operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailed
	}
	m.backendDuration.RecordDuration(ctx, d, AttrOperation.String(operation), AttrOutcome.String(outcome))
}
