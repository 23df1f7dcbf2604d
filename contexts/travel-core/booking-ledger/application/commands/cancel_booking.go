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

// CancelBookingResult reports the terminal outcome of a cancellation. A
// refundable booking inside its deadline settles fee to the platform and the
// remainder back to the customer; everything else forfeits the escrow.
type CancelBookingResult struct {
	Booking      entities.Booking
	Refunded     bool
	RefundAmount int64
	FeeAmount    int64
}

// CancelBookingUseCase settles a pending or confirmed booking. Only the
// booking customer may cancel. The fee/refund split, the escrow journal
// entries, and the status write land in one atomic repository call so a
// booking can never be refunded twice.
type CancelBookingUseCase struct {
	Repo     ports.Repository
	Settings ports.SettingsStore
	Outbox   ports.OutboxWriter
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (uc CancelBookingUseCase) CancelBooking(ctx context.Context, caller string, bookingID int64) (CancelBookingResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	caller = strings.TrimSpace(caller)
	if caller == "" || bookingID <= 0 {
		return CancelBookingResult{}, domainerrors.ErrInvalidRequest
	}

	booking, err := uc.Repo.GetBooking(ctx, bookingID)
	if err != nil {
		return CancelBookingResult{}, err
	}
	if booking.Customer != caller {
		return CancelBookingResult{}, domainerrors.ErrNotCustomer
	}

	settings, err := uc.Settings.GetSettings(ctx)
	if err != nil {
		return CancelBookingResult{}, err
	}

	now := nowUTC(uc.Clock)
	refunded := booking.Refundable && !now.After(booking.RefundDeadline)

	var fee, refund int64
	var entries []entities.LedgerEntry
	toStatus := entities.StatusCancelled
	if refunded {
		toStatus = entities.StatusRefunded
		fee, refund = entities.SplitFee(booking.Amount, settings.FeeBps)
		refundEntryID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return CancelBookingResult{}, err
		}
		entries = append(entries, entities.LedgerEntry{
			EntryID:    refundEntryID,
			BookingID:  booking.BookingID,
			EntryType:  entities.EntryRefund,
			Amount:     refund,
			Party:      booking.Customer,
			OccurredAt: now,
		})
		if fee > 0 {
			feeEntryID, err := uc.IDGen.NewID(ctx)
			if err != nil {
				return CancelBookingResult{}, err
			}
			entries = append(entries, entities.LedgerEntry{
				EntryID:    feeEntryID,
				BookingID:  booking.BookingID,
				EntryType:  entities.EntryFee,
				Amount:     fee,
				Party:      settings.FeeRecipient,
				OccurredAt: now,
			})
		}
	} else {
		forfeitEntryID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return CancelBookingResult{}, err
		}
		entries = append(entries, entities.LedgerEntry{
			EntryID:    forfeitEntryID,
			BookingID:  booking.BookingID,
			EntryType:  entities.EntryForfeit,
			Amount:     booking.Amount,
			Party:      settings.FeeRecipient,
			OccurredAt: now,
		})
	}

	settled, err := uc.Repo.TransitionBooking(ctx, ports.TransitionInput{
		BookingID:    booking.BookingID,
		FromStatuses: []entities.BookingStatus{entities.StatusPending, entities.StatusConfirmed},
		ToStatus:     toStatus,
		Entries:      entries,
		OccurredAt:   now,
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrStatusConflict) {
			return CancelBookingResult{}, domainerrors.ErrAlreadySettled
		}
		return CancelBookingResult{}, err
	}

	if err := uc.appendCancelOutbox(ctx, settled, now, refunded, refund); err != nil {
		return CancelBookingResult{}, err
	}

	logger.Info("booking cancelled",
		"event", "booking_cancelled",
		"module", "travel-core/booking-ledger",
		"layer", "application",
		"booking_id", settled.BookingID,
		"customer", settled.Customer,
		"refunded", refunded,
		"refund_amount", refund,
		"fee_amount", fee,
	)
	return CancelBookingResult{
		Booking:      settled,
		Refunded:     refunded,
		RefundAmount: refund,
		FeeAmount:    fee,
	}, nil
}

func (uc CancelBookingUseCase) appendCancelOutbox(
	ctx context.Context,
	booking entities.Booking,
	occurredAt time.Time,
	refunded bool,
	refund int64,
) error {
	if uc.Outbox == nil {
		return nil
	}
	if refunded {
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return err
		}
		event, err := newBookingEnvelope(eventID, "booking.refund_issued", booking.BookingID, occurredAt, map[string]any{
			"booking_id": booking.BookingID,
			"customer":   booking.Customer,
			"refund":     refund,
		})
		if err != nil {
			return err
		}
		if err := uc.Outbox.AppendOutbox(ctx, event); err != nil {
			return err
		}
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	event, err := newBookingEnvelope(eventID, "booking.cancelled", booking.BookingID, occurredAt, map[string]any{
		"booking_id":   booking.BookingID,
		"customer":     booking.Customer,
		"cancelled_at": occurredAt.Format(time.RFC3339),
		"refunded":     refunded,
	})
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, event)
}
