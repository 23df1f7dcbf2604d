package errors

import "errors"

var (
	// Validation failures. Fully evaluated before any write.
	ErrAmountZero         = errors.New("paid amount must be positive")
	ErrPastServiceDate    = errors.New("service date must be in the future")
	ErrInvalidKind        = errors.New("unknown booking kind")
	ErrContentRefRequired = errors.New("content ref is required")
	ErrFeeTooHigh         = errors.New("fee exceeds maximum basis points")
	ErrInvalidRequest     = errors.New("invalid request")

	// State failures.
	ErrBookingNotFound       = errors.New("booking not found")
	ErrNotPending            = errors.New("booking is not pending")
	ErrNotConfirmed          = errors.New("booking is not confirmed")
	ErrServiceDateNotReached = errors.New("service date not reached")
	ErrAlreadySettled        = errors.New("booking already settled")
	// ErrStatusConflict is returned by the repository when a compare-and-set
	// transition loses; commands map it onto the operation-specific sentinel.
	ErrStatusConflict = errors.New("booking status conflict")

	// Authorization failures.
	ErrNotCustomer = errors.New("caller is not the booking customer")
	ErrNotOwner    = errors.New("caller is not the platform owner")
	ErrPaused      = errors.New("booking creation is paused")

	// Idempotency protocol failures.
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	ErrIdempotencyConflict    = errors.New("idempotency key reused with different request")
)
