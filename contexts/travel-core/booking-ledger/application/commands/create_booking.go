package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"voyago/contexts/travel-core/booking-ledger/application"
	"voyago/contexts/travel-core/booking-ledger/domain/entities"
	domainerrors "voyago/contexts/travel-core/booking-ledger/domain/errors"
	"voyago/contexts/travel-core/booking-ledger/ports"
)

// CreateBookingCommand is the write-model input for booking creation. Amount
// is the escrowed payment in minor currency units.
type CreateBookingCommand struct {
	Customer       string
	IdempotencyKey string
	Kind           entities.BookingKind
	Amount         int64
	ServiceDate    time.Time
	ContentRef     string
	Refundable     bool
	RefundDeadline time.Time
}

// CreateBookingResult returns final booking state and a replay marker that
// the transport layer maps to API semantics.
type CreateBookingResult struct {
	Booking  entities.Booking
	Replayed bool
}

// CreateBookingUseCase escrows the paid amount, assigns the next sequential
// booking id, and emits booking.created. Creation is replay-safe via
// idempotency key + request hash validation and refused while the platform
// is paused.
type CreateBookingUseCase struct {
	Repo           ports.Repository
	Settings       ports.SettingsStore
	Idempotency    ports.IdempotencyStore
	Outbox         ports.OutboxWriter
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func (uc CreateBookingUseCase) CreateBooking(ctx context.Context, cmd CreateBookingCommand) (CreateBookingResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	cmd.Customer = strings.TrimSpace(cmd.Customer)
	cmd.ContentRef = strings.TrimSpace(cmd.ContentRef)
	if cmd.Customer == "" {
		return CreateBookingResult{}, domainerrors.ErrInvalidRequest
	}
	if _, ok := entities.ParseKind(string(cmd.Kind)); !ok {
		return CreateBookingResult{}, domainerrors.ErrInvalidKind
	}
	if cmd.Amount <= 0 {
		return CreateBookingResult{}, domainerrors.ErrAmountZero
	}
	// ContentRef stays opaque: checked for presence only, never parsed.
	if cmd.ContentRef == "" {
		return CreateBookingResult{}, domainerrors.ErrContentRefRequired
	}
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return CreateBookingResult{}, domainerrors.ErrIdempotencyKeyRequired
	}

	now := uc.now()
	if !cmd.ServiceDate.After(now) {
		return CreateBookingResult{}, domainerrors.ErrPastServiceDate
	}

	settings, err := uc.Settings.GetSettings(ctx)
	if err != nil {
		return CreateBookingResult{}, err
	}
	if settings.Paused {
		logger.Warn("booking creation refused while paused",
			"event", "booking_create_paused",
			"module", "travel-core/booking-ledger",
			"layer", "application",
			"customer", cmd.Customer,
		)
		return CreateBookingResult{}, domainerrors.ErrPaused
	}

	requestHash := hashCreateBookingCommand(cmd)
	record, found, err := uc.Idempotency.GetRecord(ctx, strings.TrimSpace(cmd.IdempotencyKey), now)
	if err != nil {
		return CreateBookingResult{}, err
	}
	if found {
		if record.RequestHash != requestHash {
			return CreateBookingResult{}, domainerrors.ErrIdempotencyConflict
		}
		var replayed entities.Booking
		if err := json.Unmarshal(record.ResponsePayload, &replayed); err != nil {
			return CreateBookingResult{}, err
		}
		return CreateBookingResult{Booking: replayed, Replayed: true}, nil
	}

	holdEntryID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CreateBookingResult{}, err
	}

	booking, err := uc.Repo.CreateBooking(ctx, ports.CreateBookingInput{
		Customer:       cmd.Customer,
		Kind:           cmd.Kind,
		Amount:         cmd.Amount,
		ServiceDate:    cmd.ServiceDate.UTC(),
		ContentRef:     cmd.ContentRef,
		Refundable:     cmd.Refundable,
		RefundDeadline: cmd.RefundDeadline.UTC(),
		HoldEntryID:    holdEntryID,
		CreatedAt:      now,
	})
	if err != nil {
		return CreateBookingResult{}, err
	}

	if err := uc.appendCreatedOutbox(ctx, booking); err != nil {
		return CreateBookingResult{}, err
	}

	payload, err := json.Marshal(booking)
	if err != nil {
		return CreateBookingResult{}, err
	}
	if err := uc.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
		Key:             strings.TrimSpace(cmd.IdempotencyKey),
		RequestHash:     requestHash,
		ResponsePayload: payload,
		ExpiresAt:       now.Add(uc.idempotencyTTL()),
	}); err != nil {
		return CreateBookingResult{}, err
	}

	logger.Info("booking created",
		"event", "booking_created",
		"module", "travel-core/booking-ledger",
		"layer", "application",
		"booking_id", booking.BookingID,
		"customer", booking.Customer,
		"kind", string(booking.Kind),
		"amount", booking.Amount,
	)
	return CreateBookingResult{Booking: booking}, nil
}

func (uc CreateBookingUseCase) appendCreatedOutbox(ctx context.Context, booking entities.Booking) error {
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	event, err := newBookingEnvelope(eventID, "booking.created", booking.BookingID, booking.CreatedAt, map[string]any{
		"booking_id":   booking.BookingID,
		"customer":     booking.Customer,
		"kind":         string(booking.Kind),
		"amount":       booking.Amount,
		"service_date": booking.ServiceDate.UTC().Format(time.RFC3339),
		"content_ref":  booking.ContentRef,
		"refundable":   booking.Refundable,
	})
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, event)
}

func (uc CreateBookingUseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}

func (uc CreateBookingUseCase) idempotencyTTL() time.Duration {
	if uc.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return uc.IdempotencyTTL
}

func hashCreateBookingCommand(cmd CreateBookingCommand) string {
	raw, _ := json.Marshal(map[string]any{
		"customer":        cmd.Customer,
		"kind":            string(cmd.Kind),
		"amount":          cmd.Amount,
		"service_date":    cmd.ServiceDate.UTC().Format(time.RFC3339Nano),
		"content_ref":     cmd.ContentRef,
		"refundable":      cmd.Refundable,
		"refund_deadline": cmd.RefundDeadline.UTC().Format(time.RFC3339Nano),
	})
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
