package postgresadapter

import (
	"time"

	"voyago/contexts/community-experience/reputation-engine/domain/entities"
)

type profileModel struct {
	Identity             string    `gorm:"column:identity;primaryKey"`
	TrustScore           int       `gorm:"column:trust_score"`
	IsVerified           bool      `gorm:"column:is_verified"`
	TotalBookings        int64     `gorm:"column:total_bookings"`
	CompletedBookings    int64     `gorm:"column:completed_bookings"`
	CancelledBookings    int64     `gorm:"column:cancelled_bookings"`
	TotalReviewsReceived int64     `gorm:"column:total_reviews_received"`
	TotalRatingPoints    int64     `gorm:"column:total_rating_points"`
	IsActive             bool      `gorm:"column:is_active"`
	RegisteredAt         time.Time `gorm:"column:registered_at"`
	UpdatedAt            time.Time `gorm:"column:updated_at"`
}

func (profileModel) TableName() string {
	return "reputation_profiles"
}

func (m profileModel) toEntity() entities.UserProfile {
	return entities.UserProfile{
		Identity:             m.Identity,
		TrustScore:           m.TrustScore,
		IsVerified:           m.IsVerified,
		TotalBookings:        m.TotalBookings,
		CompletedBookings:    m.CompletedBookings,
		CancelledBookings:    m.CancelledBookings,
		TotalReviewsReceived: m.TotalReviewsReceived,
		TotalRatingPoints:    m.TotalRatingPoints,
		IsActive:             m.IsActive,
		RegisteredAt:         m.RegisteredAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func profileModelFromEntity(profile entities.UserProfile) profileModel {
	return profileModel{
		Identity:             profile.Identity,
		TrustScore:           profile.TrustScore,
		IsVerified:           profile.IsVerified,
		TotalBookings:        profile.TotalBookings,
		CompletedBookings:    profile.CompletedBookings,
		CancelledBookings:    profile.CancelledBookings,
		TotalReviewsReceived: profile.TotalReviewsReceived,
		TotalRatingPoints:    profile.TotalRatingPoints,
		IsActive:             profile.IsActive,
		RegisteredAt:         profile.RegisteredAt,
		UpdatedAt:            profile.UpdatedAt,
	}
}

type reviewModel struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Reviewer   string    `gorm:"column:reviewer"`
	Reviewee   string    `gorm:"column:reviewee"`
	BookingID  int64     `gorm:"column:booking_id;uniqueIndex"`
	Rating     int       `gorm:"column:rating"`
	Comment    string    `gorm:"column:comment"`
	IsVerified bool      `gorm:"column:is_verified"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (reviewModel) TableName() string {
	return "reputation_reviews"
}

func (m reviewModel) toEntity() entities.Review {
	return entities.Review{
		ReviewID:   m.ID,
		Reviewer:   m.Reviewer,
		Reviewee:   m.Reviewee,
		BookingID:  m.BookingID,
		Rating:     m.Rating,
		Comment:    m.Comment,
		IsVerified: m.IsVerified,
		CreatedAt:  m.CreatedAt,
	}
}

type outboxModel struct {
	ID          string     `gorm:"column:id;primaryKey"`
	EventType   string     `gorm:"column:event_type"`
	Payload     []byte     `gorm:"column:payload"`
	Status      string     `gorm:"column:status"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "reputation_outbox"
}
