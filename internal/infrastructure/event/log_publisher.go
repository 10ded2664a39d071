package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/atlanticave/storefront/internal/domain/shared"
)

// LogPublisher records events in the log only. Used when no broker is configured.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a LogPublisher
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs each event
func (p *LogPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		p.logger.Info("domain event",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.String("aggregate_id", event.AggregateID()),
		)
	}
	return nil
}

var _ shared.EventPublisher = (*LogPublisher)(nil)
