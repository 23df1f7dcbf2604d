package ports

import (
	"context"
	"time"

	"voyago/contexts/travel-core/booking-ledger/domain/entities"
	contractsv1 "voyago/contracts/gen/events/v1"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for ledger entries and outbox rows.
// Booking ids are sequential integers assigned by the repository instead.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// IdempotencyRecord stores request hash and previous response payload.
type IdempotencyRecord struct {
	Key             string
	RequestHash     string
	ResponsePayload []byte
	ExpiresAt       time.Time
}

// IdempotencyStore guarantees replay/conflict behavior for booking creation.
type IdempotencyStore interface {
	GetRecord(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	PutRecord(ctx context.Context, record IdempotencyRecord) error
}

// CreateBookingInput is persisted atomically with the escrow hold entry.
// The repository assigns the next sequential booking id.
type CreateBookingInput struct {
	Customer       string
	Kind           entities.BookingKind
	Amount         int64
	ServiceDate    time.Time
	ContentRef     string
	Refundable     bool
	RefundDeadline time.Time
	HoldEntryID    string
	CreatedAt      time.Time
}

// TransitionInput is a compare-and-set status transition plus the escrow
// journal entries that settle with it. The repository applies everything in
// one atomic unit and rejects the write when the current status is not in
// FromStatuses.
type TransitionInput struct {
	BookingID    int64
	FromStatuses []entities.BookingStatus
	ToStatus     entities.BookingStatus
	ConfirmedAt  *time.Time
	Entries      []entities.LedgerEntry
	OccurredAt   time.Time
}

// Repository is the write/read boundary for booking state and the escrow
// journal.
type Repository interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (entities.Booking, error)
	GetBooking(ctx context.Context, bookingID int64) (entities.Booking, error)
	ListBookingIDsByCustomer(ctx context.Context, customer string) ([]int64, error)
	TransitionBooking(ctx context.Context, input TransitionInput) (entities.Booking, error)
	ListLedgerEntries(ctx context.Context, bookingID int64) ([]entities.LedgerEntry, error)
}

// SettingsStore holds the platform configuration consulted by every command.
type SettingsStore interface {
	GetSettings(ctx context.Context) (entities.PlatformSettings, error)
	PutSettings(ctx context.Context, settings entities.PlatformSettings) error
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

// BookingEventPublisher emits ledger events to the event bus adapter.
type BookingEventPublisher interface {
	PublishBookingEvent(ctx context.Context, event EventEnvelope) error
}
