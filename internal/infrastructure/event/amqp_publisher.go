package event

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/atlanticave/storefront/internal/domain/shared"
)

const publishTimeout = 5 * time.Second

// Channel is the subset of *amqp.Channel used for publishing
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// ChannelProvider lends channels to the publisher
type ChannelProvider interface {
	Acquire(ctx context.Context) (Channel, error)
	Release(ch Channel)
	QueueName() string
}

// AMQPPublisher publishes domain events as persistent JSON messages to a durable queue
type AMQPPublisher struct {
	channels ChannelProvider
	logger   *zap.Logger
}

// NewAMQPPublisher creates a publisher on top of a channel provider
func NewAMQPPublisher(channels ChannelProvider, logger *zap.Logger) *AMQPPublisher {
	return &AMQPPublisher{
		channels: channels,
		logger:   logger,
	}
}

// Publish sends every event; it stops at the first failure
func (p *AMQPPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	ch, err := p.channels.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to get channel from pool: %w", err)
	}
	defer p.channels.Release(ch)

	for _, event := range events {
		body, err := Serialize(event)
		if err != nil {
			return err
		}

		err = ch.PublishWithContext(ctx,
			"",                     // default exchange
			p.channels.QueueName(), // routing key (queue name)
			false,                  // mandatory
			false,                  // immediate
			amqp.Publishing{
				DeliveryMode: amqp.Persistent,
				ContentType:  "application/json",
				MessageId:    event.EventID().String(),
				Type:         event.EventType(),
				Timestamp:    event.OccurredAt(),
				Body:         body,
			})
		if err != nil {
			return fmt.Errorf("failed to publish %s: %w", event.EventType(), err)
		}

		p.logger.Debug("published event",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
		)
	}
	return nil
}

var _ shared.EventPublisher = (*AMQPPublisher)(nil)
