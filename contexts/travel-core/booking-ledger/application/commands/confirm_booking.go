package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"voyago/contexts/travel-core/booking-ledger/application"
	"voyago/contexts/travel-core/booking-ledger/domain/entities"
	domainerrors "voyago/contexts/travel-core/booking-ledger/domain/errors"
	"voyago/contexts/travel-core/booking-ledger/ports"
)

// ConfirmBookingUseCase moves a pending booking to confirmed. Owner-only.
type ConfirmBookingUseCase struct {
	Repo     ports.Repository
	Settings ports.SettingsStore
	Outbox   ports.OutboxWriter
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (uc ConfirmBookingUseCase) ConfirmBooking(ctx context.Context, caller string, bookingID int64) (entities.Booking, error) {
	logger := application.ResolveLogger(uc.Logger)

	caller = strings.TrimSpace(caller)
	if caller == "" || bookingID <= 0 {
		return entities.Booking{}, domainerrors.ErrInvalidRequest
	}
	if err := requireOwner(ctx, uc.Settings, caller); err != nil {
		return entities.Booking{}, err
	}

	now := nowUTC(uc.Clock)
	confirmedAt := now
	booking, err := uc.Repo.TransitionBooking(ctx, ports.TransitionInput{
		BookingID:    bookingID,
		FromStatuses: []entities.BookingStatus{entities.StatusPending},
		ToStatus:     entities.StatusConfirmed,
		ConfirmedAt:  &confirmedAt,
		OccurredAt:   now,
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrStatusConflict) {
			return entities.Booking{}, domainerrors.ErrNotPending
		}
		return entities.Booking{}, err
	}

	if uc.Outbox != nil {
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.Booking{}, err
		}
		event, err := newBookingEnvelope(eventID, "booking.confirmed", booking.BookingID, now, map[string]any{
			"booking_id":   booking.BookingID,
			"customer":     booking.Customer,
			"confirmed_at": now.Format(time.RFC3339),
		})
		if err != nil {
			return entities.Booking{}, err
		}
		if err := uc.Outbox.AppendOutbox(ctx, event); err != nil {
			return entities.Booking{}, err
		}
	}

	logger.Info("booking confirmed",
		"event", "booking_confirmed",
		"module", "travel-core/booking-ledger",
		"layer", "application",
		"booking_id", booking.BookingID,
		"customer", booking.Customer,
	)
	return booking, nil
}

func requireOwner(ctx context.Context, store ports.SettingsStore, caller string) error {
	settings, err := store.GetSettings(ctx)
	if err != nil {
		return err
	}
	if settings.Owner != caller {
		return domainerrors.ErrNotOwner
	}
	return nil
}

func nowUTC(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now().UTC()
}
