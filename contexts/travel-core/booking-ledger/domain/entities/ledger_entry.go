package entities

import "time"

// LedgerEntryType tags an escrow fund movement.
type LedgerEntryType string

const (
	// EntryHold records funds taken into escrow at booking creation.
	EntryHold LedgerEntryType = "hold"
	// EntryRefund records escrow returned to the customer.
	EntryRefund LedgerEntryType = "refund"
	// EntryFee records the cancellation fee paid to the fee recipient.
	EntryFee LedgerEntryType = "fee"
	// EntryForfeit records escrow retained by the platform on a
	// non-refundable cancellation.
	EntryForfeit LedgerEntryType = "forfeit"
	// EntryRelease records escrow settled to the platform on completion.
	EntryRelease LedgerEntryType = "release"
)

// LedgerEntry is one append-only escrow journal row. Entries belonging to a
// single settlement are written atomically with the status transition.
type LedgerEntry struct {
	EntryID    string
	BookingID  int64
	EntryType  LedgerEntryType
	Amount     int64
	Party      string
	OccurredAt time.Time
}
