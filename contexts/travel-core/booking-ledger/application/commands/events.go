package commands

import (
	"encoding/json"
	"strconv"
	"time"

	"voyago/contexts/travel-core/booking-ledger/ports"
)

func newBookingEnvelope(
	eventID string,
	eventType string,
	bookingID int64,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Ledger events are partitioned by booking for stable ordering on
	// booking-scoped consumers.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "booking-ledger",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "booking_id",
		PartitionKey:     strconv.FormatInt(bookingID, 10),
		Data:             payload,
	}, nil
}

func newPlatformEnvelope(
	eventID string,
	eventType string,
	owner string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "booking-ledger",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "owner",
		PartitionKey:     owner,
		Data:             payload,
	}, nil
}
