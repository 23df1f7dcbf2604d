package entities

import "time"

// MaxFeeBps caps the platform fee at 10%.
const MaxFeeBps = 1000

// PlatformSettings is the mutable platform configuration consulted by every
// ledger command. Owner is the only identity allowed to mutate it.
type PlatformSettings struct {
	Owner        string
	FeeRecipient string
	FeeBps       int64
	Paused       bool
	UpdatedAt    time.Time
}

// SplitFee computes the cancellation fee and refund for an escrowed amount.
// Floor division, so fee+refund always equals amount exactly.
func SplitFee(amount int64, feeBps int64) (fee int64, refund int64) {
	fee = amount * feeBps / 10000
	return fee, amount - fee
}
