package commands

import (
	"encoding/json"
	"time"

	"voyago/contexts/identity-access/authorization-registry/ports"
)

func newAuthorizationEnvelope(
	eventID string,
	eventType string,
	caller string,
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
		SourceService:    "authorization-registry",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "caller",
		PartitionKey:     caller,
		Data:             payload,
	}, nil
}
