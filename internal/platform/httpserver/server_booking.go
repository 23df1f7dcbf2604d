package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	bookingerrors "voyago/contexts/travel-core/booking-ledger/domain/errors"
	bookinghttp "voyago/contexts/travel-core/booking-ledger/transport/http"
)

func writeBookingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, bookinghttp.ErrorResponse{Code: code, Message: message})
}

func writeBookingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, bookingerrors.ErrInvalidRequest),
		errors.Is(err, bookingerrors.ErrAmountZero),
		errors.Is(err, bookingerrors.ErrPastServiceDate),
		errors.Is(err, bookingerrors.ErrInvalidKind),
		errors.Is(err, bookingerrors.ErrContentRefRequired):
		writeBookingError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, bookingerrors.ErrIdempotencyKeyRequired):
		writeBookingError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	case errors.Is(err, bookingerrors.ErrBookingNotFound):
		writeBookingError(w, http.StatusNotFound, "booking_not_found", err.Error())
	case errors.Is(err, bookingerrors.ErrFeeTooHigh):
		writeBookingError(w, http.StatusUnprocessableEntity, "fee_too_high", err.Error())
	case errors.Is(err, bookingerrors.ErrServiceDateNotReached):
		writeBookingError(w, http.StatusUnprocessableEntity, "service_date_not_reached", err.Error())
	case errors.Is(err, bookingerrors.ErrNotPending),
		errors.Is(err, bookingerrors.ErrNotConfirmed),
		errors.Is(err, bookingerrors.ErrAlreadySettled),
		errors.Is(err, bookingerrors.ErrStatusConflict),
		errors.Is(err, bookingerrors.ErrIdempotencyConflict):
		writeBookingError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, bookingerrors.ErrNotCustomer),
		errors.Is(err, bookingerrors.ErrNotOwner):
		writeBookingError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, bookingerrors.ErrPaused):
		writeBookingError(w, http.StatusServiceUnavailable, "platform_paused", err.Error())
	default:
		writeBookingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireBookingCaller(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if caller == "" {
		writeBookingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return caller, true
}

func parseBookingID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	bookingID, err := strconv.ParseInt(r.PathValue("booking_id"), 10, 64)
	if err != nil || bookingID <= 0 {
		writeBookingError(w, http.StatusBadRequest, "invalid_booking_id", "booking_id must be a positive integer")
		return 0, false
	}
	return bookingID, true
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	customer, ok := requireBookingCaller(w, r)
	if !ok {
		return
	}

	var req bookinghttp.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBookingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.bookings.Handler.CreateBookingHandler(
		r.Context(),
		customer,
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := parseBookingID(w, r)
	if !ok {
		return
	}
	resp, err := s.bookings.Handler.GetBookingHandler(r.Context(), bookingID)
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConfirmBooking(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireBookingCaller(w, r)
	if !ok {
		return
	}
	bookingID, ok := parseBookingID(w, r)
	if !ok {
		return
	}
	resp, err := s.bookings.Handler.ConfirmBookingHandler(r.Context(), caller, bookingID)
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireBookingCaller(w, r)
	if !ok {
		return
	}
	bookingID, ok := parseBookingID(w, r)
	if !ok {
		return
	}
	resp, err := s.bookings.Handler.CancelBookingHandler(r.Context(), caller, bookingID)
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCompleteBooking(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireBookingCaller(w, r)
	if !ok {
		return
	}
	bookingID, ok := parseBookingID(w, r)
	if !ok {
		return
	}
	resp, err := s.bookings.Handler.CompleteBookingHandler(r.Context(), caller, bookingID)
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListLedgerEntries(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := parseBookingID(w, r)
	if !ok {
		return
	}
	resp, err := s.bookings.Handler.ListLedgerEntriesHandler(r.Context(), bookingID)
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListUserBookings(w http.ResponseWriter, r *http.Request) {
	identity := strings.TrimSpace(r.PathValue("identity"))
	if identity == "" {
		writeBookingError(w, http.StatusBadRequest, "invalid_request", "identity is required")
		return
	}
	resp, err := s.bookings.Handler.ListUserBookingsHandler(r.Context(), identity)
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetPlatformSettings(w http.ResponseWriter, r *http.Request) {
	resp, err := s.bookings.Handler.GetPlatformSettingsHandler(r.Context())
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdatePlatformFee(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireBookingCaller(w, r)
	if !ok {
		return
	}
	var req bookinghttp.UpdatePlatformFeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBookingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.bookings.Handler.UpdatePlatformFeeHandler(r.Context(), caller, req)
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateFeeRecipient(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireBookingCaller(w, r)
	if !ok {
		return
	}
	var req bookinghttp.UpdateFeeRecipientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBookingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.bookings.Handler.UpdateFeeRecipientHandler(r.Context(), caller, req)
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetPaused(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireBookingCaller(w, r)
	if !ok {
		return
	}
	var req bookinghttp.SetPausedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBookingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.bookings.Handler.SetPausedHandler(r.Context(), caller, req.Paused)
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
