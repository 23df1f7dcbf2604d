package errors

import "errors"

var (
	// Validation failures.
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrSelfReview      = errors.New("reviewer and reviewee must differ")
	ErrDuplicateReview = errors.New("booking already has a review")
	ErrInvalidRequest  = errors.New("invalid request")

	// State failures.
	ErrAlreadyRegistered = errors.New("user already registered")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrReviewNotFound    = errors.New("review not found")

	// Authorization failures.
	ErrUnauthorized = errors.New("caller is not an authorized writer")
	ErrNotOwner     = errors.New("caller is not the platform owner")
)
