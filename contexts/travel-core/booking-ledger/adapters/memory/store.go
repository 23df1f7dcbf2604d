package memory

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"voyago/contexts/travel-core/booking-ledger/domain/entities"
	domainerrors "voyago/contexts/travel-core/booking-ledger/domain/errors"
	"voyago/contexts/travel-core/booking-ledger/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory repository used by tests and local runs. One mutex
// serializes every write so each booking mutation is a single atomic unit.
type Store struct {
	mu sync.RWMutex

	nextBookingID int64
	bookings      map[int64]entities.Booking
	customerIndex map[string][]int64
	journal       map[int64][]entities.LedgerEntry
	settings      entities.PlatformSettings
	idempotency   map[string]ports.IdempotencyRecord
	outbox        map[string]outboxRecord
	outboxOrder   []string
}

func NewStore(settings entities.PlatformSettings) *Store {
	return &Store{
		nextBookingID: 1,
		bookings:      make(map[int64]entities.Booking),
		customerIndex: make(map[string][]int64),
		journal:       make(map[int64][]entities.LedgerEntry),
		settings:      settings,
		idempotency:   make(map[string]ports.IdempotencyRecord),
		outbox:        make(map[string]outboxRecord),
	}
}

func (s *Store) CreateBooking(_ context.Context, input ports.CreateBookingInput) (entities.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking := entities.Booking{
		BookingID:      s.nextBookingID,
		Customer:       strings.TrimSpace(input.Customer),
		Kind:           input.Kind,
		Amount:         input.Amount,
		Status:         entities.StatusPending,
		ServiceDate:    input.ServiceDate,
		ContentRef:     input.ContentRef,
		Refundable:     input.Refundable,
		RefundDeadline: input.RefundDeadline,
		CreatedAt:      input.CreatedAt,
		UpdatedAt:      input.CreatedAt,
	}
	s.nextBookingID++

	s.bookings[booking.BookingID] = booking
	s.customerIndex[booking.Customer] = append(s.customerIndex[booking.Customer], booking.BookingID)
	s.journal[booking.BookingID] = append(s.journal[booking.BookingID], entities.LedgerEntry{
		EntryID:    strings.TrimSpace(input.HoldEntryID),
		BookingID:  booking.BookingID,
		EntryType:  entities.EntryHold,
		Amount:     booking.Amount,
		Party:      booking.Customer,
		OccurredAt: input.CreatedAt,
	})
	return booking, nil
}

func (s *Store) GetBooking(_ context.Context, bookingID int64) (entities.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	booking, ok := s.bookings[bookingID]
	if !ok {
		return entities.Booking{}, domainerrors.ErrBookingNotFound
	}
	return booking, nil
}

func (s *Store) ListBookingIDsByCustomer(_ context.Context, customer string) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.customerIndex[strings.TrimSpace(customer)]
	return append([]int64(nil), ids...), nil
}

func (s *Store) TransitionBooking(_ context.Context, input ports.TransitionInput) (entities.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, ok := s.bookings[input.BookingID]
	if !ok {
		return entities.Booking{}, domainerrors.ErrBookingNotFound
	}
	allowed := false
	for _, from := range input.FromStatuses {
		if booking.Status == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return entities.Booking{}, domainerrors.ErrStatusConflict
	}

	booking.Status = input.ToStatus
	if input.ConfirmedAt != nil {
		confirmedAt := *input.ConfirmedAt
		booking.ConfirmedAt = &confirmedAt
	}
	booking.UpdatedAt = input.OccurredAt
	s.bookings[booking.BookingID] = booking
	s.journal[booking.BookingID] = append(s.journal[booking.BookingID], input.Entries...)
	return booking, nil
}

func (s *Store) ListLedgerEntries(_ context.Context, bookingID int64) ([]entities.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.LedgerEntry(nil), s.journal[bookingID]...), nil
}

func (s *Store) GetSettings(_ context.Context) (entities.PlatformSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

func (s *Store) PutSettings(_ context.Context, settings entities.PlatformSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return nil
}

func (s *Store) GetRecord(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.idempotency[strings.TrimSpace(key)]
	if !ok || now.After(record.ExpiresAt) {
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) PutRecord(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idempotency[strings.TrimSpace(record.Key)] = record
	return nil
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

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
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
