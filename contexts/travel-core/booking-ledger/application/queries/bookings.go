package queries

import (
	"context"
	"log/slog"
	"strings"

	"voyago/contexts/travel-core/booking-ledger/domain/entities"
	domainerrors "voyago/contexts/travel-core/booking-ledger/domain/errors"
	"voyago/contexts/travel-core/booking-ledger/ports"
)

// BookingQueries serves read accessors over booking state, the escrow
// journal, and platform settings.
type BookingQueries struct {
	Repo     ports.Repository
	Settings ports.SettingsStore
	Logger   *slog.Logger
}

func (q BookingQueries) GetBooking(ctx context.Context, bookingID int64) (entities.Booking, error) {
	if bookingID <= 0 {
		return entities.Booking{}, domainerrors.ErrInvalidRequest
	}
	return q.Repo.GetBooking(ctx, bookingID)
}

// ListUserBookings returns booking ids for a customer in insertion order.
// Empty slice when the customer has no bookings.
func (q BookingQueries) ListUserBookings(ctx context.Context, customer string) ([]int64, error) {
	customer = strings.TrimSpace(customer)
	if customer == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	return q.Repo.ListBookingIDsByCustomer(ctx, customer)
}

func (q BookingQueries) ListLedgerEntries(ctx context.Context, bookingID int64) ([]entities.LedgerEntry, error) {
	if bookingID <= 0 {
		return nil, domainerrors.ErrInvalidRequest
	}
	if _, err := q.Repo.GetBooking(ctx, bookingID); err != nil {
		return nil, err
	}
	return q.Repo.ListLedgerEntries(ctx, bookingID)
}

func (q BookingQueries) GetPlatformSettings(ctx context.Context) (entities.PlatformSettings, error) {
	return q.Settings.GetSettings(ctx)
}
