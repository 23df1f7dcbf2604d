package workers_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"voyago/contexts/travel-core/booking-ledger/adapters/memory"
	"voyago/contexts/travel-core/booking-ledger/application/workers"
	"voyago/contexts/travel-core/booking-ledger/domain/entities"
	"voyago/contexts/travel-core/booking-ledger/ports"
)

type capturePublisher struct {
	published []ports.EventEnvelope
	fail      bool
}

func (p *capturePublisher) PublishBookingEvent(_ context.Context, event ports.EventEnvelope) error {
	if p.fail {
		return errors.New("bus unavailable")
	}
	p.published = append(p.published, event)
	return nil
}

func appendEnvelope(t *testing.T, store *memory.Store, eventID, eventType string) {
	t.Helper()
	payload, err := json.Marshal(map[string]any{"booking_id": 1})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	err = store.AppendOutbox(context.Background(), ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       store.Now(),
		SourceService:    "booking-ledger",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "booking_id",
		PartitionKey:     "1",
		Data:             payload,
	})
	if err != nil {
		t.Fatalf("append outbox: %v", err)
	}
}

func TestOutboxRelayPublishesAndAcknowledges(t *testing.T) {
	store := memory.NewStore(entities.PlatformSettings{Owner: "owner-1", FeeRecipient: "owner-1", FeeBps: 250})
	publisher := &capturePublisher{}
	relay := workers.OutboxRelay{Outbox: store, Publisher: publisher, Clock: store, BatchSize: 10}

	appendEnvelope(t, store, "evt-1", "booking.created")
	appendEnvelope(t, store, "evt-2", "booking.confirmed")

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if len(publisher.published) != 2 {
		t.Fatalf("expected 2 published events, got %d", len(publisher.published))
	}
	if publisher.published[0].EventID != "evt-1" || publisher.published[1].EventID != "evt-2" {
		t.Fatalf("expected events relayed in append order, got %+v", publisher.published)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected outbox drained, got %d pending rows", len(pending))
	}
}

func TestOutboxRelayKeepsRowsOnPublishFailure(t *testing.T) {
	store := memory.NewStore(entities.PlatformSettings{Owner: "owner-1", FeeRecipient: "owner-1", FeeBps: 250})
	publisher := &capturePublisher{fail: true}
	relay := workers.OutboxRelay{Outbox: store, Publisher: publisher, Clock: store, BatchSize: 10}

	appendEnvelope(t, store, "evt-1", "booking.created")

	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected relay error when publishing fails")
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected the row to stay pending, got %d", len(pending))
	}
}
