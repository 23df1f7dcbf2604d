package commands

import (
	"encoding/json"
	"time"

	"voyago/contexts/community-experience/reputation-engine/ports"
)

func newReputationEnvelope(
	eventID string,
	eventType string,
	identity string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Reputation events are partitioned by user identity for stable ordering
	// on profile-scoped consumers.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "reputation-engine",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "identity",
		PartitionKey:     identity,
		Data:             payload,
	}, nil
}
