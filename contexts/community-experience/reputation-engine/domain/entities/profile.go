package entities

import "time"

const (
	// MinTrustScore and MaxTrustScore bound every trust adjustment.
	MinTrustScore = 1
	MaxTrustScore = 1000
	// InitialTrustScore is assigned at profile creation.
	InitialTrustScore = 100
	// VerifiedBonus is added once when the owner verifies a user.
	VerifiedBonus = 50
)

// UserProfile aggregates a user's booking history and received ratings into
// a bounded trust score. Profiles are created implicitly on first
// interaction or explicitly via registration, and never deleted.
type UserProfile struct {
	Identity             string
	TrustScore           int
	IsVerified           bool
	TotalBookings        int64
	CompletedBookings    int64
	CancelledBookings    int64
	TotalReviewsReceived int64
	TotalRatingPoints    int64
	IsActive             bool
	RegisteredAt         time.Time
	UpdatedAt            time.Time
}

// NewProfile creates an active profile with the initial trust score.
func NewProfile(identity string, registeredAt time.Time) UserProfile {
	return UserProfile{
		Identity:     identity,
		TrustScore:   InitialTrustScore,
		IsActive:     true,
		RegisteredAt: registeredAt,
		UpdatedAt:    registeredAt,
	}
}

// AdjustTrust applies a signed delta and clamps the result into
// [MinTrustScore, MaxTrustScore]. The score can never leave the bounds no
// matter how many adjustments accumulate.
func (p *UserProfile) AdjustTrust(delta int) {
	score := p.TrustScore + delta
	if score < MinTrustScore {
		score = MinTrustScore
	}
	if score > MaxTrustScore {
		score = MaxTrustScore
	}
	p.TrustScore = score
}

// ApplyReviewReceived folds one received rating into the aggregates and
// nudges the trust score by trustDelta.
func (p *UserProfile) ApplyReviewReceived(rating int, trustDelta int, at time.Time) {
	p.TotalReviewsReceived++
	p.TotalRatingPoints += int64(rating)
	p.AdjustTrust(trustDelta)
	p.UpdatedAt = at
}

// ApplyBookingStats folds one booking outcome into the counters and nudges
// the trust score by trustDelta.
func (p *UserProfile) ApplyBookingStats(completed bool, cancelled bool, trustDelta int, at time.Time) {
	p.TotalBookings++
	if completed {
		p.CompletedBookings++
	}
	if cancelled {
		p.CancelledBookings++
	}
	p.AdjustTrust(trustDelta)
	p.UpdatedAt = at
}

// MarkVerified sets the verification flag and applies the one-time bonus,
// capped at MaxTrustScore. Repeat calls are no-ops.
func (p *UserProfile) MarkVerified(at time.Time) {
	if p.IsVerified {
		return
	}
	p.IsVerified = true
	p.AdjustTrust(VerifiedBonus)
	p.UpdatedAt = at
}

// AverageRatingTimes100 returns the mean received rating scaled by 100 and
// rounded half up, or 0 when no reviews were received. Ratings 4 and 5
// average to 450.
func (p UserProfile) AverageRatingTimes100() int64 {
	if p.TotalReviewsReceived == 0 {
		return 0
	}
	return (p.TotalRatingPoints*100 + p.TotalReviewsReceived/2) / p.TotalReviewsReceived
}
