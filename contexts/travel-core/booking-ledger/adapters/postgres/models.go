package postgresadapter

import (
	"time"

	"voyago/contexts/travel-core/booking-ledger/domain/entities"
)

type bookingModel struct {
	ID             int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Customer       string     `gorm:"column:customer"`
	Kind           string     `gorm:"column:kind"`
	Amount         int64      `gorm:"column:amount"`
	Status         string     `gorm:"column:status"`
	ServiceDate    time.Time  `gorm:"column:service_date"`
	ContentRef     string     `gorm:"column:content_ref"`
	Refundable     bool       `gorm:"column:refundable"`
	RefundDeadline time.Time  `gorm:"column:refund_deadline"`
	ConfirmedAt    *time.Time `gorm:"column:confirmed_at"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string {
	return "bookings"
}

func (m bookingModel) toEntity() entities.Booking {
	return entities.Booking{
		BookingID:      m.ID,
		Customer:       m.Customer,
		Kind:           entities.BookingKind(m.Kind),
		Amount:         m.Amount,
		Status:         entities.BookingStatus(m.Status),
		ServiceDate:    m.ServiceDate,
		ContentRef:     m.ContentRef,
		Refundable:     m.Refundable,
		RefundDeadline: m.RefundDeadline,
		ConfirmedAt:    m.ConfirmedAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

type ledgerEntryModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	BookingID  int64     `gorm:"column:booking_id"`
	EntryType  string    `gorm:"column:entry_type"`
	Amount     int64     `gorm:"column:amount"`
	Party      string    `gorm:"column:party"`
	OccurredAt time.Time `gorm:"column:occurred_at"`
}

func (ledgerEntryModel) TableName() string {
	return "booking_ledger_entries"
}

func (m ledgerEntryModel) toEntity() entities.LedgerEntry {
	return entities.LedgerEntry{
		EntryID:    m.ID,
		BookingID:  m.BookingID,
		EntryType:  entities.LedgerEntryType(m.EntryType),
		Amount:     m.Amount,
		Party:      m.Party,
		OccurredAt: m.OccurredAt,
	}
}

// settingsModel is a single-row table keyed by a constant to keep the
// platform configuration unique.
type settingsModel struct {
	Singleton    bool      `gorm:"column:singleton;primaryKey"`
	Owner        string    `gorm:"column:owner"`
	FeeRecipient string    `gorm:"column:fee_recipient"`
	FeeBps       int64     `gorm:"column:fee_bps"`
	Paused       bool      `gorm:"column:paused"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (settingsModel) TableName() string {
	return "platform_settings"
}

func (m settingsModel) toEntity() entities.PlatformSettings {
	return entities.PlatformSettings{
		Owner:        m.Owner,
		FeeRecipient: m.FeeRecipient,
		FeeBps:       m.FeeBps,
		Paused:       m.Paused,
		UpdatedAt:    m.UpdatedAt,
	}
}

func settingsModelFromEntity(settings entities.PlatformSettings) settingsModel {
	return settingsModel{
		Singleton:    true,
		Owner:        settings.Owner,
		FeeRecipient: settings.FeeRecipient,
		FeeBps:       settings.FeeBps,
		Paused:       settings.Paused,
		UpdatedAt:    settings.UpdatedAt,
	}
}

type idempotencyModel struct {
	Key             string    `gorm:"column:key;primaryKey"`
	RequestHash     string    `gorm:"column:request_hash"`
	ResponsePayload []byte    `gorm:"column:response_payload"`
	ExpiresAt       time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "booking_idempotency_records"
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
	return "booking_outbox"
}
