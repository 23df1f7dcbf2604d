package entities

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is one peer rating tied to a booking. At most one review exists
// per booking system-wide, regardless of which parties attempt a second
// submission. Ids are sequential, assigned by the repository.
type Review struct {
	ReviewID   int64
	Reviewer   string
	Reviewee   string
	BookingID  int64
	Rating     int
	Comment    string
	IsVerified bool
	CreatedAt  time.Time
}
