package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateBookingRequest struct {
	Kind           string `json:"kind"`
	Amount         int64  `json:"amount"`
	ServiceDate    string `json:"service_date"`
	ContentRef     string `json:"content_ref"`
	Refundable     bool   `json:"refundable"`
	RefundDeadline string `json:"refund_deadline,omitempty"`
}

type BookingDTO struct {
	BookingID      int64  `json:"booking_id"`
	Customer       string `json:"customer"`
	Kind           string `json:"kind"`
	Amount         int64  `json:"amount"`
	Status         string `json:"status"`
	ServiceDate    string `json:"service_date"`
	ContentRef     string `json:"content_ref"`
	Refundable     bool   `json:"refundable"`
	RefundDeadline string `json:"refund_deadline,omitempty"`
	ConfirmedAt    string `json:"confirmed_at,omitempty"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type CreateBookingResponse struct {
	Status   string     `json:"status"`
	Replayed bool       `json:"replayed,omitempty"`
	Data     BookingDTO `json:"data"`
}

type BookingResponse struct {
	Status string     `json:"status"`
	Data   BookingDTO `json:"data"`
}

type CancelBookingResponse struct {
	Status string `json:"status"`
	Data   struct {
		Booking      BookingDTO `json:"booking"`
		Refunded     bool       `json:"refunded"`
		RefundAmount int64      `json:"refund_amount"`
		FeeAmount    int64      `json:"fee_amount"`
	} `json:"data"`
}

type UserBookingsResponse struct {
	Status string `json:"status"`
	Data   struct {
		Customer   string  `json:"customer"`
		BookingIDs []int64 `json:"booking_ids"`
	} `json:"data"`
}

type LedgerEntryDTO struct {
	EntryID    string `json:"entry_id"`
	BookingID  int64  `json:"booking_id"`
	EntryType  string `json:"entry_type"`
	Amount     int64  `json:"amount"`
	Party      string `json:"party"`
	OccurredAt string `json:"occurred_at"`
}

type LedgerEntriesResponse struct {
	Status string           `json:"status"`
	Data   []LedgerEntryDTO `json:"data"`
}

type UpdatePlatformFeeRequest struct {
	FeeBps int64 `json:"fee_bps"`
}

type SetPausedRequest struct {
	Paused bool `json:"paused"`
}

type UpdateFeeRecipientRequest struct {
	FeeRecipient string `json:"fee_recipient"`
}

type PlatformSettingsDTO struct {
	Owner        string `json:"owner"`
	FeeRecipient string `json:"fee_recipient"`
	FeeBps       int64  `json:"fee_bps"`
	Paused       bool   `json:"paused"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

type PlatformSettingsResponse struct {
	Status string              `json:"status"`
	Data   PlatformSettingsDTO `json:"data"`
}
