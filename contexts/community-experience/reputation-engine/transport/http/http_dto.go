package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RegisterUserRequest struct {
	Identity string `json:"identity"`
}

type ProfileDTO struct {
	Identity             string `json:"identity"`
	TrustScore           int    `json:"trust_score"`
	IsVerified           bool   `json:"is_verified"`
	TotalBookings        int64  `json:"total_bookings"`
	CompletedBookings    int64  `json:"completed_bookings"`
	CancelledBookings    int64  `json:"cancelled_bookings"`
	TotalReviewsReceived int64  `json:"total_reviews_received"`
	TotalRatingPoints    int64  `json:"total_rating_points"`
	AverageRatingX100    int64  `json:"average_rating_x100"`
	IsActive             bool   `json:"is_active"`
	RegisteredAt         string `json:"registered_at"`
	UpdatedAt            string `json:"updated_at"`
}

type ProfileResponse struct {
	Status string     `json:"status"`
	Data   ProfileDTO `json:"data"`
}

type SubmitReviewRequest struct {
	Reviewee  string `json:"reviewee"`
	BookingID int64  `json:"booking_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
}

type ReviewDTO struct {
	ReviewID   int64  `json:"review_id"`
	Reviewer   string `json:"reviewer"`
	Reviewee   string `json:"reviewee"`
	BookingID  int64  `json:"booking_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment,omitempty"`
	IsVerified bool   `json:"is_verified"`
	CreatedAt  string `json:"created_at"`
}

type SubmitReviewResponse struct {
	Status string `json:"status"`
	Data   struct {
		Review  ReviewDTO  `json:"review"`
		Profile ProfileDTO `json:"profile"`
	} `json:"data"`
}

type ReviewResponse struct {
	Status string    `json:"status"`
	Data   ReviewDTO `json:"data"`
}

type ReviewIDsResponse struct {
	Status string `json:"status"`
	Data   struct {
		Identity  string  `json:"identity"`
		ReviewIDs []int64 `json:"review_ids"`
	} `json:"data"`
}

type AverageRatingResponse struct {
	Status string `json:"status"`
	Data   struct {
		Identity          string `json:"identity"`
		AverageRatingX100 int64  `json:"average_rating_x100"`
	} `json:"data"`
}

type GoodStandingResponse struct {
	Status string `json:"status"`
	Data   struct {
		Identity     string `json:"identity"`
		Threshold    int    `json:"threshold"`
		GoodStanding bool   `json:"good_standing"`
	} `json:"data"`
}

type UpdateBookingStatsRequest struct {
	Identity  string `json:"identity"`
	Completed bool   `json:"completed"`
	Cancelled bool   `json:"cancelled"`
}

type VerifyUserRequest struct {
	Identity string `json:"identity"`
}
