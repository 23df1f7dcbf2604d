package messaging

import (
	"context"

	contractsv1 "voyago/contracts/gen/events/v1"
)

// Bus is the publish/subscribe surface shared by the in-process bus and the
// Kafka-backed bus. Runtime wiring picks the implementation from config.
type Bus interface {
	Publish(ctx context.Context, topic string, event contractsv1.Envelope) error
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, contractsv1.Envelope) error,
	) error
}
