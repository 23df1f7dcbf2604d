package commands

// TrustDeltas names the per-event trust score adjustments. The exact
// magnitudes are deployment configuration; only direction and the
// [1,1000] clamp are contractual.
type TrustDeltas struct {
	CompletedBooking int
	CancelledBooking int
	PositiveReview   int
	NegativeReview   int
}

// DefaultTrustDeltas is applied when a use case is built without explicit
// deltas.
var DefaultTrustDeltas = TrustDeltas{
	CompletedBooking: 10,
	CancelledBooking: 20,
	PositiveReview:   5,
	NegativeReview:   5,
}

func resolveDeltas(deltas TrustDeltas) TrustDeltas {
	if deltas == (TrustDeltas{}) {
		return DefaultTrustDeltas
	}
	return deltas
}

// reviewTrustDelta maps a rating onto a signed trust adjustment: ratings of
// 4 or 5 increase the score, 1 or 2 decrease it, and 3 is neutral.
func reviewTrustDelta(rating int, deltas TrustDeltas) int {
	switch {
	case rating >= 4:
		return deltas.PositiveReview
	case rating <= 2:
		return -deltas.NegativeReview
	default:
		return 0
	}
}

// statsTrustDelta maps a booking outcome onto a signed trust adjustment.
func statsTrustDelta(completed bool, cancelled bool, deltas TrustDeltas) int {
	delta := 0
	if completed {
		delta += deltas.CompletedBooking
	}
	if cancelled {
		delta -= deltas.CancelledBooking
	}
	return delta
}
