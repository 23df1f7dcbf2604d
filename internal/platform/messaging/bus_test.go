package messaging

import (
	"context"
	"testing"
	"time"

	contractsv1 "voyago/contracts/gen/events/v1"
)

func waitForEnvelope(t *testing.T, ch <-chan contractsv1.Envelope) contractsv1.Envelope {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event delivery")
		return contractsv1.Envelope{}
	}
}

func TestInProcBusDeliversToSubscriber(t *testing.T) {
	bus := NewInProcBus(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan contractsv1.Envelope, 1)
	err := bus.Subscribe(ctx, "voyago.bookings", "cg-1", func(_ context.Context, event contractsv1.Envelope) error {
		received <- event
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := bus.Publish(ctx, "voyago.bookings", contractsv1.Envelope{EventID: "evt-1", EventType: "booking.created"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	event := waitForEnvelope(t, received)
	if event.EventID != "evt-1" || event.EventType != "booking.created" {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestInProcBusIsolatesTopics(t *testing.T) {
	bus := NewInProcBus(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bookings := make(chan contractsv1.Envelope, 1)
	if err := bus.Subscribe(ctx, "voyago.bookings", "cg-1", func(_ context.Context, event contractsv1.Envelope) error {
		bookings <- event
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := bus.Publish(ctx, "voyago.reputation", contractsv1.Envelope{EventID: "evt-rep"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if err := bus.Publish(ctx, "voyago.bookings", contractsv1.Envelope{EventID: "evt-book"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	event := waitForEnvelope(t, bookings)
	if event.EventID != "evt-book" {
		t.Fatalf("expected only the bookings event, got %+v", event)
	}
}
