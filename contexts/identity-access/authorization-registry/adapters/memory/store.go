package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"voyago/contexts/identity-access/authorization-registry/domain/entities"
	domainerrors "voyago/contexts/identity-access/authorization-registry/domain/errors"
	"voyago/contexts/identity-access/authorization-registry/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory allow-list used by tests and local runs.
type Store struct {
	mu sync.RWMutex

	grants      map[string]entities.CallerGrant
	outbox      map[string]outboxRecord
	outboxOrder []string
}

func NewStore() *Store {
	return &Store{
		grants: make(map[string]entities.CallerGrant),
		outbox: make(map[string]outboxRecord),
	}
}

func (s *Store) UpsertGrant(_ context.Context, grant entities.CallerGrant) (entities.CallerGrant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller := strings.TrimSpace(grant.Caller)
	grant.Caller = caller
	if existing, ok := s.grants[caller]; ok {
		grant.CreatedAt = existing.CreatedAt
	}
	s.grants[caller] = grant
	return grant, nil
}

func (s *Store) GetGrant(_ context.Context, caller string) (entities.CallerGrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	grant, ok := s.grants[strings.TrimSpace(caller)]
	if !ok {
		return entities.CallerGrant{}, domainerrors.ErrGrantNotFound
	}
	return grant, nil
}

func (s *Store) ListGrants(_ context.Context) ([]entities.CallerGrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	grants := make([]entities.CallerGrant, 0, len(s.grants))
	for _, grant := range s.grants {
		grants = append(grants, grant)
	}
	sort.Slice(grants, func(i, j int) bool {
		return grants[i].Caller < grants[j].Caller
	})
	return grants, nil
}

func (s *Store) AppendOutbox(_ context.Context, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	outboxID := uuid.NewString()
	s.outbox[outboxID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:  outboxID,
			EventType: event.EventType,
			Payload:   payload,
			CreatedAt: event.OccurredAt,
		},
	}
	s.outboxOrder = append(s.outboxOrder, outboxID)
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = len(s.outboxOrder)
	}
	items := make([]ports.OutboxMessage, 0, limit)
	for _, outboxID := range s.outboxOrder {
		record := s.outbox[outboxID]
		if record.published {
			continue
		}
		items = append(items, record.message)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.outbox[outboxID]
	if !ok {
		return nil
	}
	record.published = true
	s.outbox[outboxID] = record
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
