package events

import (
	"context"
	"log/slog"

	"voyago/contexts/travel-core/booking-ledger/ports"
)

// Bus is the minimal publish surface the relay needs from the platform
// messaging adapter.
type Bus interface {
	Publish(ctx context.Context, topic string, event ports.EventEnvelope) error
}

// Publisher bridges ledger outbox events onto the event bus topic.
type Publisher struct {
	bus    Bus
	topic  string
	logger *slog.Logger
}

func NewPublisher(bus Bus, topic string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	if topic == "" {
		topic = "voyago.bookings"
	}
	return &Publisher{bus: bus, topic: topic, logger: logger}
}

func (p Publisher) PublishBookingEvent(ctx context.Context, event ports.EventEnvelope) error {
	if err := p.bus.Publish(ctx, p.topic, event); err != nil {
		return err
	}
	p.logger.Debug("booking event published",
		"event", "booking_event_published",
		"module", "travel-core/booking-ledger",
		"layer", "adapter",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"partition_key", event.PartitionKey,
	)
	return nil
}
