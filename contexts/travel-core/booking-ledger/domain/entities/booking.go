package entities

import "time"

// BookingKind classifies what the customer paid for.
type BookingKind string

const (
	KindFlight    BookingKind = "flight"
	KindHotel     BookingKind = "hotel"
	KindCoworking BookingKind = "coworking"
	KindOther     BookingKind = "other"
)

// BookingStatus is the lifecycle state of a booking.
// Valid transitions: pending -> confirmed -> completed, and
// pending|confirmed -> cancelled|refunded. Terminal states never transition.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusRefunded  BookingStatus = "refunded"
)

// IsTerminal reports whether no further transition is allowed.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRefunded:
		return true
	default:
		return false
	}
}

// Booking is the escrow-backed reservation record. Amount is fixed at
// creation and never mutated; ids are sequential, assigned by the repository,
// and never reused.
type Booking struct {
	BookingID      int64
	Customer       string
	Kind           BookingKind
	Amount         int64
	Status         BookingStatus
	ServiceDate    time.Time
	ContentRef     string
	Refundable     bool
	RefundDeadline time.Time
	ConfirmedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ParseKind maps transport input onto a BookingKind.
func ParseKind(raw string) (BookingKind, bool) {
	switch BookingKind(raw) {
	case KindFlight:
		return KindFlight, true
	case KindHotel:
		return KindHotel, true
	case KindCoworking:
		return KindCoworking, true
	case KindOther:
		return KindOther, true
	default:
		return "", false
	}
}
