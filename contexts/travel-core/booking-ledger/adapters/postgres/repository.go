package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"voyago/contexts/travel-core/booking-ledger/domain/entities"
	domainerrors "voyago/contexts/travel-core/booking-ledger/domain/errors"
	"voyago/contexts/travel-core/booking-ledger/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateBooking(ctx context.Context, input ports.CreateBookingInput) (entities.Booking, error) {
	row := bookingModel{
		Customer:       strings.TrimSpace(input.Customer),
		Kind:           string(input.Kind),
		Amount:         input.Amount,
		Status:         string(entities.StatusPending),
		ServiceDate:    input.ServiceDate,
		ContentRef:     input.ContentRef,
		Refundable:     input.Refundable,
		RefundDeadline: input.RefundDeadline,
		CreatedAt:      input.CreatedAt,
		UpdatedAt:      input.CreatedAt,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		hold := ledgerEntryModel{
			ID:         strings.TrimSpace(input.HoldEntryID),
			BookingID:  row.ID,
			EntryType:  string(entities.EntryHold),
			Amount:     input.Amount,
			Party:      row.Customer,
			OccurredAt: input.CreatedAt,
		}
		return tx.Create(&hold).Error
	})
	if err != nil {
		return entities.Booking{}, r.logError("booking_repo_create_failed", err,
			"customer", strings.TrimSpace(input.Customer),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetBooking(ctx context.Context, bookingID int64) (entities.Booking, error) {
	var row bookingModel
	err := r.db.WithContext(ctx).
		Where("id = ?", bookingID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Booking{}, domainerrors.ErrBookingNotFound
		}
		return entities.Booking{}, r.logError("booking_repo_get_failed", err, "booking_id", bookingID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListBookingIDsByCustomer(ctx context.Context, customer string) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("customer = ?", strings.TrimSpace(customer)).
		Order("id ASC").
		Pluck("id", &ids).
		Error
	if err != nil {
		return nil, r.logError("booking_repo_list_by_customer_failed", err,
			"customer", strings.TrimSpace(customer),
		)
	}
	return ids, nil
}

func (r *Repository) TransitionBooking(ctx context.Context, input ports.TransitionInput) (entities.Booking, error) {
	var row bookingModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", input.BookingID).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrBookingNotFound
			}
			return err
		}

		allowed := false
		for _, from := range input.FromStatuses {
			if row.Status == string(from) {
				allowed = true
				break
			}
		}
		if !allowed {
			return domainerrors.ErrStatusConflict
		}

		row.Status = string(input.ToStatus)
		if input.ConfirmedAt != nil {
			confirmedAt := input.ConfirmedAt.UTC()
			row.ConfirmedAt = &confirmedAt
		}
		row.UpdatedAt = input.OccurredAt
		if err := tx.Save(&row).Error; err != nil {
			return err
		}

		for _, entry := range input.Entries {
			entryRow := ledgerEntryModel{
				ID:         strings.TrimSpace(entry.EntryID),
				BookingID:  entry.BookingID,
				EntryType:  string(entry.EntryType),
				Amount:     entry.Amount,
				Party:      strings.TrimSpace(entry.Party),
				OccurredAt: entry.OccurredAt,
			}
			if err := tx.Create(&entryRow).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrBookingNotFound) || errors.Is(err, domainerrors.ErrStatusConflict) {
			return entities.Booking{}, err
		}
		return entities.Booking{}, r.logError("booking_repo_transition_failed", err,
			"booking_id", input.BookingID,
			"to_status", string(input.ToStatus),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListLedgerEntries(ctx context.Context, bookingID int64) ([]entities.LedgerEntry, error) {
	var rows []ledgerEntryModel
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("occurred_at ASC, id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("booking_repo_list_ledger_failed", err, "booking_id", bookingID)
	}
	items := make([]entities.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetSettings(ctx context.Context) (entities.PlatformSettings, error) {
	var row settingsModel
	err := r.db.WithContext(ctx).
		Where("singleton = ?", true).
		First(&row).
		Error
	if err != nil {
		return entities.PlatformSettings{}, r.logError("booking_repo_get_settings_failed", err)
	}
	return row.toEntity(), nil
}

func (r *Repository) PutSettings(ctx context.Context, settings entities.PlatformSettings) error {
	row := settingsModelFromEntity(settings)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "singleton"}},
		DoUpdates: clause.Assignments(map[string]any{
			"owner":         row.Owner,
			"fee_recipient": row.FeeRecipient,
			"fee_bps":       row.FeeBps,
			"paused":        row.Paused,
			"updated_at":    row.UpdatedAt,
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("booking_repo_put_settings_failed", err)
	}
	return nil
}

func (r *Repository) GetRecord(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ?", strings.TrimSpace(key)).
		Where("expires_at > ?", now).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, r.logError("booking_repo_idempotency_get_failed", err)
	}
	return ports.IdempotencyRecord{
		Key:             row.Key,
		RequestHash:     row.RequestHash,
		ResponsePayload: row.ResponsePayload,
		ExpiresAt:       row.ExpiresAt,
	}, true, nil
}

func (r *Repository) PutRecord(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:             strings.TrimSpace(record.Key),
		RequestHash:     record.RequestHash,
		ResponsePayload: record.ResponsePayload,
		ExpiresAt:       record.ExpiresAt,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"request_hash":     row.RequestHash,
			"response_payload": row.ResponsePayload,
			"expires_at":       row.ExpiresAt,
		}),
	}).Create(&row).Error
	if err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return r.logError("booking_repo_idempotency_put_failed", err)
	}
	return nil
}

func (r *Repository) AppendOutbox(ctx context.Context, event ports.EventEnvelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	row := outboxModel{
		ID:        uuid.NewString(),
		EventType: event.EventType,
		Payload:   payload,
		Status:    outboxStatusPending,
		CreatedAt: event.OccurredAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("booking_repo_outbox_append_failed", err, "event_type", event.EventType)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("booking_repo_outbox_list_failed", err)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.ID,
			EventType: row.EventType,
			Payload:   row.Payload,
			CreatedAt: row.CreatedAt,
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	err := r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt,
		}).Error
	if err != nil {
		return r.logError("booking_repo_outbox_mark_failed", err, "outbox_id", outboxID)
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "travel-core/booking-ledger",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("booking repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
