package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"voyago/contexts/travel-core/booking-ledger/application/commands"
	"voyago/contexts/travel-core/booking-ledger/application/queries"
	"voyago/contexts/travel-core/booking-ledger/domain/entities"
	domainerrors "voyago/contexts/travel-core/booking-ledger/domain/errors"
	httptransport "voyago/contexts/travel-core/booking-ledger/transport/http"
)

type Handler struct {
	Create   commands.CreateBookingUseCase
	Confirm  commands.ConfirmBookingUseCase
	Cancel   commands.CancelBookingUseCase
	Complete commands.CompleteBookingUseCase
	Admin    commands.PlatformAdminUseCase
	Queries  queries.BookingQueries
	Logger   *slog.Logger
}

func (h Handler) CreateBookingHandler(
	ctx context.Context,
	customer string,
	idempotencyKey string,
	req httptransport.CreateBookingRequest,
) (httptransport.CreateBookingResponse, error) {
	serviceDate, err := time.Parse(time.RFC3339, req.ServiceDate)
	if err != nil {
		return httptransport.CreateBookingResponse{}, domainerrors.ErrInvalidRequest
	}
	var refundDeadline time.Time
	if req.RefundDeadline != "" {
		refundDeadline, err = time.Parse(time.RFC3339, req.RefundDeadline)
		if err != nil {
			return httptransport.CreateBookingResponse{}, domainerrors.ErrInvalidRequest
		}
	}

	result, err := h.Create.CreateBooking(ctx, commands.CreateBookingCommand{
		Customer:       customer,
		IdempotencyKey: idempotencyKey,
		Kind:           entities.BookingKind(req.Kind),
		Amount:         req.Amount,
		ServiceDate:    serviceDate,
		ContentRef:     req.ContentRef,
		Refundable:     req.Refundable,
		RefundDeadline: refundDeadline,
	})
	if err != nil {
		return httptransport.CreateBookingResponse{}, err
	}
	return httptransport.CreateBookingResponse{
		Status:   "success",
		Replayed: result.Replayed,
		Data:     toBookingDTO(result.Booking),
	}, nil
}

func (h Handler) ConfirmBookingHandler(ctx context.Context, caller string, bookingID int64) (httptransport.BookingResponse, error) {
	booking, err := h.Confirm.ConfirmBooking(ctx, caller, bookingID)
	if err != nil {
		return httptransport.BookingResponse{}, err
	}
	return httptransport.BookingResponse{Status: "success", Data: toBookingDTO(booking)}, nil
}

func (h Handler) CancelBookingHandler(ctx context.Context, caller string, bookingID int64) (httptransport.CancelBookingResponse, error) {
	result, err := h.Cancel.CancelBooking(ctx, caller, bookingID)
	if err != nil {
		return httptransport.CancelBookingResponse{}, err
	}
	resp := httptransport.CancelBookingResponse{Status: "success"}
	resp.Data.Booking = toBookingDTO(result.Booking)
	resp.Data.Refunded = result.Refunded
	resp.Data.RefundAmount = result.RefundAmount
	resp.Data.FeeAmount = result.FeeAmount
	return resp, nil
}

func (h Handler) CompleteBookingHandler(ctx context.Context, caller string, bookingID int64) (httptransport.BookingResponse, error) {
	booking, err := h.Complete.CompleteBooking(ctx, caller, bookingID)
	if err != nil {
		return httptransport.BookingResponse{}, err
	}
	return httptransport.BookingResponse{Status: "success", Data: toBookingDTO(booking)}, nil
}

func (h Handler) GetBookingHandler(ctx context.Context, bookingID int64) (httptransport.BookingResponse, error) {
	booking, err := h.Queries.GetBooking(ctx, bookingID)
	if err != nil {
		return httptransport.BookingResponse{}, err
	}
	return httptransport.BookingResponse{Status: "success", Data: toBookingDTO(booking)}, nil
}

func (h Handler) ListUserBookingsHandler(ctx context.Context, customer string) (httptransport.UserBookingsResponse, error) {
	ids, err := h.Queries.ListUserBookings(ctx, customer)
	if err != nil {
		return httptransport.UserBookingsResponse{}, err
	}
	resp := httptransport.UserBookingsResponse{Status: "success"}
	resp.Data.Customer = customer
	resp.Data.BookingIDs = ids
	if resp.Data.BookingIDs == nil {
		resp.Data.BookingIDs = []int64{}
	}
	return resp, nil
}

func (h Handler) ListLedgerEntriesHandler(ctx context.Context, bookingID int64) (httptransport.LedgerEntriesResponse, error) {
	entries, err := h.Queries.ListLedgerEntries(ctx, bookingID)
	if err != nil {
		return httptransport.LedgerEntriesResponse{}, err
	}
	resp := httptransport.LedgerEntriesResponse{
		Status: "success",
		Data:   make([]httptransport.LedgerEntryDTO, 0, len(entries)),
	}
	for _, entry := range entries {
		resp.Data = append(resp.Data, httptransport.LedgerEntryDTO{
			EntryID:    entry.EntryID,
			BookingID:  entry.BookingID,
			EntryType:  string(entry.EntryType),
			Amount:     entry.Amount,
			Party:      entry.Party,
			OccurredAt: entry.OccurredAt.UTC().Format(time.RFC3339),
		})
	}
	return resp, nil
}

func (h Handler) UpdatePlatformFeeHandler(
	ctx context.Context,
	caller string,
	req httptransport.UpdatePlatformFeeRequest,
) (httptransport.PlatformSettingsResponse, error) {
	settings, err := h.Admin.UpdatePlatformFee(ctx, caller, req.FeeBps)
	if err != nil {
		return httptransport.PlatformSettingsResponse{}, err
	}
	return httptransport.PlatformSettingsResponse{Status: "success", Data: toSettingsDTO(settings)}, nil
}

func (h Handler) SetPausedHandler(ctx context.Context, caller string, paused bool) (httptransport.PlatformSettingsResponse, error) {
	settings, err := h.Admin.SetPaused(ctx, caller, paused)
	if err != nil {
		return httptransport.PlatformSettingsResponse{}, err
	}
	return httptransport.PlatformSettingsResponse{Status: "success", Data: toSettingsDTO(settings)}, nil
}

func (h Handler) UpdateFeeRecipientHandler(
	ctx context.Context,
	caller string,
	req httptransport.UpdateFeeRecipientRequest,
) (httptransport.PlatformSettingsResponse, error) {
	settings, err := h.Admin.UpdateFeeRecipient(ctx, caller, req.FeeRecipient)
	if err != nil {
		return httptransport.PlatformSettingsResponse{}, err
	}
	return httptransport.PlatformSettingsResponse{Status: "success", Data: toSettingsDTO(settings)}, nil
}

func (h Handler) GetPlatformSettingsHandler(ctx context.Context) (httptransport.PlatformSettingsResponse, error) {
	settings, err := h.Queries.GetPlatformSettings(ctx)
	if err != nil {
		return httptransport.PlatformSettingsResponse{}, err
	}
	return httptransport.PlatformSettingsResponse{Status: "success", Data: toSettingsDTO(settings)}, nil
}

func toBookingDTO(booking entities.Booking) httptransport.BookingDTO {
	dto := httptransport.BookingDTO{
		BookingID:   booking.BookingID,
		Customer:    booking.Customer,
		Kind:        string(booking.Kind),
		Amount:      booking.Amount,
		Status:      string(booking.Status),
		ServiceDate: booking.ServiceDate.UTC().Format(time.RFC3339),
		ContentRef:  booking.ContentRef,
		Refundable:  booking.Refundable,
		CreatedAt:   booking.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   booking.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if booking.Refundable {
		dto.RefundDeadline = booking.RefundDeadline.UTC().Format(time.RFC3339)
	}
	if booking.ConfirmedAt != nil {
		dto.ConfirmedAt = booking.ConfirmedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func toSettingsDTO(settings entities.PlatformSettings) httptransport.PlatformSettingsDTO {
	dto := httptransport.PlatformSettingsDTO{
		Owner:        settings.Owner,
		FeeRecipient: settings.FeeRecipient,
		FeeBps:       settings.FeeBps,
		Paused:       settings.Paused,
	}
	if !settings.UpdatedAt.IsZero() {
		dto.UpdatedAt = settings.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}
