package ports

import (
	"context"
	"time"

	"voyago/contexts/identity-access/authorization-registry/domain/entities"
	contractsv1 "voyago/contracts/gen/events/v1"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for outbox rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Repository is the write/read boundary for the caller allow-list.
type Repository interface {
	UpsertGrant(ctx context.Context, grant entities.CallerGrant) (entities.CallerGrant, error)
	GetGrant(ctx context.Context, caller string) (entities.CallerGrant, error)
	ListGrants(ctx context.Context) ([]entities.CallerGrant, error)
}

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

// OutboxWriter appends an event inside the same logical unit as state writes.
type OutboxWriter interface {
	AppendOutbox(ctx context.Context, event EventEnvelope) error
}

// OutboxMessage represents a pending relay message.
type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// OutboxRepository supports worker relay polling and acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// AuthorizationEventPublisher emits registry events to the event bus adapter.
type AuthorizationEventPublisher interface {
	PublishAuthorizationEvent(ctx context.Context, event EventEnvelope) error
}
