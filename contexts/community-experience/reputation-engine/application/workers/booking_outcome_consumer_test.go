package workers_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"voyago/contexts/community-experience/reputation-engine/adapters/memory"
	"voyago/contexts/community-experience/reputation-engine/application/commands"
	"voyago/contexts/community-experience/reputation-engine/application/workers"
	domainerrors "voyago/contexts/community-experience/reputation-engine/domain/errors"
	"voyago/contexts/community-experience/reputation-engine/ports"
)

type staticAuthz struct {
	allowed bool
}

func (a staticAuthz) IsAuthorized(_ context.Context, _ string) (bool, error) {
	return a.allowed, nil
}

type captureSubscriber struct {
	topic   string
	group   string
	handler func(context.Context, ports.EventEnvelope) error
}

func (s *captureSubscriber) Subscribe(
	_ context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, ports.EventEnvelope) error,
) error {
	s.topic = topic
	s.group = consumerGroup
	s.handler = handler
	return nil
}

func newOutcomeConsumer(store *memory.Store, allowed bool) workers.BookingOutcomeConsumer {
	return workers.BookingOutcomeConsumer{
		Stats: commands.UpdateBookingStatsUseCase{
			Repo:   store,
			Authz:  staticAuthz{allowed: allowed},
			Clock:  store,
			IDGen:  store,
			Deltas: commands.DefaultTrustDeltas,
		},
		Caller: "svc-booking-ledger",
	}
}

func bookingEnvelope(t *testing.T, eventType, customer string) ports.EventEnvelope {
	t.Helper()
	payload, err := json.Marshal(map[string]any{"booking_id": 1, "customer": customer})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return ports.EventEnvelope{
		EventID:          "evt-1",
		EventType:        eventType,
		SourceService:    "booking-ledger",
		TraceID:          "evt-1",
		SchemaVersion:    1,
		PartitionKeyPath: "booking_id",
		PartitionKey:     "1",
		Data:             payload,
	}
}

func TestConsumerSubscribesToBookingTopic(t *testing.T) {
	store := memory.NewStore()
	subscriber := &captureSubscriber{}
	consumer := newOutcomeConsumer(store, true)
	consumer.Subscriber = subscriber

	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if subscriber.topic != "voyago.bookings" {
		t.Fatalf("unexpected topic: %s", subscriber.topic)
	}
	if subscriber.group != "reputation-booking-outcome-cg" {
		t.Fatalf("unexpected consumer group: %s", subscriber.group)
	}
	if subscriber.handler == nil {
		t.Fatalf("expected a registered handler")
	}
}

func TestConsumerAppliesBookingOutcomes(t *testing.T) {
	store := memory.NewStore()
	subscriber := &captureSubscriber{}
	consumer := newOutcomeConsumer(store, true)
	consumer.Subscriber = subscriber
	ctx := context.Background()

	if err := consumer.Start(ctx); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if err := subscriber.handler(ctx, bookingEnvelope(t, "booking.completed", "bob")); err != nil {
		t.Fatalf("completed event failed: %v", err)
	}
	profile, err := store.GetProfile(ctx, "bob")
	if err != nil {
		t.Fatalf("profile lookup failed: %v", err)
	}
	if profile.CompletedBookings != 1 || profile.TrustScore != 110 {
		t.Fatalf("unexpected profile after completion: %+v", profile)
	}

	if err := subscriber.handler(ctx, bookingEnvelope(t, "booking.cancelled", "bob")); err != nil {
		t.Fatalf("cancelled event failed: %v", err)
	}
	profile, err = store.GetProfile(ctx, "bob")
	if err != nil {
		t.Fatalf("profile lookup failed: %v", err)
	}
	if profile.CancelledBookings != 1 || profile.TrustScore != 90 {
		t.Fatalf("unexpected profile after cancellation: %+v", profile)
	}

	// Unrelated event types are skipped without touching any profile.
	if err := subscriber.handler(ctx, bookingEnvelope(t, "booking.created", "carol")); err != nil {
		t.Fatalf("unrelated event should be skipped: %v", err)
	}
	if _, err := store.GetProfile(ctx, "carol"); !errors.Is(err, domainerrors.ErrProfileNotFound) {
		t.Fatalf("expected no profile for skipped event, got %v", err)
	}
}

func TestConsumerRequiresRegistryGrant(t *testing.T) {
	store := memory.NewStore()
	subscriber := &captureSubscriber{}
	consumer := newOutcomeConsumer(store, false)
	consumer.Subscriber = subscriber
	ctx := context.Background()

	if err := consumer.Start(ctx); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	err := subscriber.handler(ctx, bookingEnvelope(t, "booking.completed", "bob"))
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
