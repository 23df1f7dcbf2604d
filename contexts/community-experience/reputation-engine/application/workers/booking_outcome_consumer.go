package workers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"voyago/contexts/community-experience/reputation-engine/application"
	"voyago/contexts/community-experience/reputation-engine/application/commands"
	domainerrors "voyago/contexts/community-experience/reputation-engine/domain/errors"
	"voyago/contexts/community-experience/reputation-engine/ports"
)

const (
	bookingEventsTopic   = "voyago.bookings"
	defaultConsumerGroup = "reputation-booking-outcome-cg"

	bookingCompletedEvent = "booking.completed"
	bookingCancelledEvent = "booking.cancelled"
)

// BookingOutcomeConsumer folds settled booking events into the customer's
// reputation counters. The Caller identity must hold a grant in the
// authorization registry.
type BookingOutcomeConsumer struct {
	Subscriber    ports.EventSubscriber
	Stats         commands.UpdateBookingStatsUseCase
	Caller        string
	Topic         string
	ConsumerGroup string
	Logger        *slog.Logger
}

type bookingOutcomePayload struct {
	Customer string `json:"customer"`
}

func (c BookingOutcomeConsumer) Start(ctx context.Context) error {
	topic := c.Topic
	if topic == "" {
		topic = bookingEventsTopic
	}
	group := c.ConsumerGroup
	if group == "" {
		group = defaultConsumerGroup
	}
	return c.Subscriber.Subscribe(ctx, topic, group, c.handleBookingEvent)
}

func (c BookingOutcomeConsumer) handleBookingEvent(ctx context.Context, event ports.EventEnvelope) error {
	if event.EventType != bookingCompletedEvent && event.EventType != bookingCancelledEvent {
		return nil
	}
	logger := application.ResolveLogger(c.Logger)

	var payload bookingOutcomePayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		logger.Error("booking outcome payload decode failed",
			"event", "reputation_outcome_decode_failed",
			"module", "community-experience/reputation-engine",
			"layer", "worker",
			"event_id", event.EventID,
			"event_type", event.EventType,
			"error", err.Error(),
		)
		return err
	}
	if payload.Customer == "" {
		return nil
	}

	_, err := c.Stats.UpdateBookingStats(ctx, commands.UpdateBookingStatsCommand{
		Caller:    c.Caller,
		Identity:  payload.Customer,
		Completed: event.EventType == bookingCompletedEvent,
		Cancelled: event.EventType == bookingCancelledEvent,
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrUnauthorized) {
			logger.Error("booking outcome consumer lacks a registry grant",
				"event", "reputation_outcome_unauthorized",
				"module", "community-experience/reputation-engine",
				"layer", "worker",
				"caller", c.Caller,
			)
		}
		return err
	}

	logger.Debug("booking outcome applied",
		"event", "reputation_outcome_applied",
		"module", "community-experience/reputation-engine",
		"layer", "worker",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"identity", payload.Customer,
	)
	return nil
}
