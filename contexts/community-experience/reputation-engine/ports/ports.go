package ports

import (
	"context"
	"time"

	"voyago/contexts/community-experience/reputation-engine/domain/entities"
	contractsv1 "voyago/contracts/gen/events/v1"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for outbox rows. Review ids are
// sequential integers assigned by the repository instead.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// AuthorizationChecker is the injected registry handle gating privileged
// reputation writes. Backed by the authorization-registry module.
type AuthorizationChecker interface {
	IsAuthorized(ctx context.Context, caller string) (bool, error)
}

// RecordReviewInput carries a new review plus the trust delta the engine
// computed for the reviewee. The repository applies both atomically.
type RecordReviewInput struct {
	Review     entities.Review
	TrustDelta int
}

// RecordStatsInput carries one booking outcome for a profile.
type RecordStatsInput struct {
	Identity   string
	Completed  bool
	Cancelled  bool
	TrustDelta int
	OccurredAt time.Time
}

// Repository is the write/read boundary for profiles and reviews. Mutation
// methods are atomic per profile/review record.
type Repository interface {
	// CreateProfile fails with ErrAlreadyRegistered when an active profile
	// exists for the identity.
	CreateProfile(ctx context.Context, profile entities.UserProfile) error
	// EnsureProfile creates a fresh profile when none exists and reports
	// whether it did.
	EnsureProfile(ctx context.Context, identity string, at time.Time) (entities.UserProfile, bool, error)
	GetProfile(ctx context.Context, identity string) (entities.UserProfile, error)

	// RecordReview assigns the next sequential review id, rejects a second
	// review for the same booking, and folds the rating and trust delta
	// into the reviewee profile in the same atomic unit.
	RecordReview(ctx context.Context, input RecordReviewInput) (entities.Review, entities.UserProfile, error)
	// RecordBookingStats folds one booking outcome into the profile.
	RecordBookingStats(ctx context.Context, input RecordStatsInput) (entities.UserProfile, error)
	// MarkProfileVerified sets the verified flag and applies the bonus.
	MarkProfileVerified(ctx context.Context, identity string, at time.Time) (entities.UserProfile, error)
	// MarkReviewVerified is idempotent.
	MarkReviewVerified(ctx context.Context, reviewID int64) (entities.Review, error)

	GetReview(ctx context.Context, reviewID int64) (entities.Review, error)
	ListReviewIDsByReviewee(ctx context.Context, identity string) ([]int64, error)
	ListReviewIDsByReviewer(ctx context.Context, identity string) ([]int64, error)
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

// ReputationEventPublisher emits reputation events to the event bus adapter.
type ReputationEventPublisher interface {
	PublishReputationEvent(ctx context.Context, event EventEnvelope) error
}

// EventSubscriber attaches consumer handlers for cross-module events.
type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}
