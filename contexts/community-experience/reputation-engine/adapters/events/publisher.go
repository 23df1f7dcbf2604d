package events

import (
	"context"
	"log/slog"

	"voyago/contexts/community-experience/reputation-engine/ports"
)

// Bus is the minimal publish surface the relay needs from the platform
// messaging adapter.
type Bus interface {
	Publish(ctx context.Context, topic string, event ports.EventEnvelope) error
}

// Publisher bridges reputation outbox events onto the event bus topic.
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
		topic = "voyago.reputation"
	}
	return &Publisher{bus: bus, topic: topic, logger: logger}
}

func (p Publisher) PublishReputationEvent(ctx context.Context, event ports.EventEnvelope) error {
	if err := p.bus.Publish(ctx, p.topic, event); err != nil {
		return err
	}
	p.logger.Debug("reputation event published",
		"event", "reputation_event_published",
		"module", "community-experience/reputation-engine",
		"layer", "adapter",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"partition_key", event.PartitionKey,
	)
	return nil
}
