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

// CompleteBookingUseCase settles a confirmed booking after the service date
// has been reached. Owner-only. Escrow releases to the platform account in
// the same atomic unit as the status write.
type CompleteBookingUseCase struct {
	Repo     ports.Repository
	Settings ports.SettingsStore
	Outbox   ports.OutboxWriter
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (uc CompleteBookingUseCase) CompleteBooking(ctx context.Context, caller string, bookingID int64) (entities.Booking, error) {
	logger := application.ResolveLogger(uc.Logger)

	caller = strings.TrimSpace(caller)
	if caller == "" || bookingID <= 0 {
		return entities.Booking{}, domainerrors.ErrInvalidRequest
	}
	if err := requireOwner(ctx, uc.Settings, caller); err != nil {
		return entities.Booking{}, err
	}

	booking, err := uc.Repo.GetBooking(ctx, bookingID)
	if err != nil {
		return entities.Booking{}, err
	}
	if booking.Status != entities.StatusConfirmed {
		return entities.Booking{}, domainerrors.ErrNotConfirmed
	}

	now := nowUTC(uc.Clock)
	if now.Before(booking.ServiceDate) {
		return entities.Booking{}, domainerrors.ErrServiceDateNotReached
	}

	settings, err := uc.Settings.GetSettings(ctx)
	if err != nil {
		return entities.Booking{}, err
	}
	releaseEntryID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Booking{}, err
	}

	settled, err := uc.Repo.TransitionBooking(ctx, ports.TransitionInput{
		BookingID:    booking.BookingID,
		FromStatuses: []entities.BookingStatus{entities.StatusConfirmed},
		ToStatus:     entities.StatusCompleted,
		Entries: []entities.LedgerEntry{{
			EntryID:    releaseEntryID,
			BookingID:  booking.BookingID,
			EntryType:  entities.EntryRelease,
			Amount:     booking.Amount,
			Party:      settings.FeeRecipient,
			OccurredAt: now,
		}},
		OccurredAt: now,
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrStatusConflict) {
			return entities.Booking{}, domainerrors.ErrNotConfirmed
		}
		return entities.Booking{}, err
	}

	if uc.Outbox != nil {
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.Booking{}, err
		}
		event, err := newBookingEnvelope(eventID, "booking.completed", settled.BookingID, now, map[string]any{
			"booking_id":   settled.BookingID,
			"customer":     settled.Customer,
			"completed_at": now.Format(time.RFC3339),
		})
		if err != nil {
			return entities.Booking{}, err
		}
		if err := uc.Outbox.AppendOutbox(ctx, event); err != nil {
			return entities.Booking{}, err
		}
	}

	logger.Info("booking completed",
		"event", "booking_completed",
		"module", "travel-core/booking-ledger",
		"layer", "application",
		"booking_id", settled.BookingID,
		"customer", settled.Customer,
	)
	return settled, nil
}
