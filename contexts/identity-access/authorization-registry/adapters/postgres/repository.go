package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"voyago/contexts/identity-access/authorization-registry/domain/entities"
	domainerrors "voyago/contexts/identity-access/authorization-registry/domain/errors"
	"voyago/contexts/identity-access/authorization-registry/ports"

	"github.com/google/uuid"
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

func (r *Repository) UpsertGrant(ctx context.Context, grant entities.CallerGrant) (entities.CallerGrant, error) {
	row := grantModelFromEntity(grant)
	row.Caller = strings.TrimSpace(row.Caller)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "caller"}},
		DoUpdates: clause.AssignmentColumns([]string{"authorized", "granted_by", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return entities.CallerGrant{}, r.logError("authz_repo_upsert_grant_failed", err, "caller", row.Caller)
	}
	// Re-read so the original created_at survives updates.
	var stored grantModel
	if err := r.db.WithContext(ctx).Where("caller = ?", row.Caller).First(&stored).Error; err != nil {
		return entities.CallerGrant{}, r.logError("authz_repo_upsert_grant_failed", err, "caller", row.Caller)
	}
	return stored.toEntity(), nil
}

func (r *Repository) GetGrant(ctx context.Context, caller string) (entities.CallerGrant, error) {
	var row grantModel
	err := r.db.WithContext(ctx).
		Where("caller = ?", strings.TrimSpace(caller)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.CallerGrant{}, domainerrors.ErrGrantNotFound
		}
		return entities.CallerGrant{}, r.logError("authz_repo_get_grant_failed", err, "caller", strings.TrimSpace(caller))
	}
	return row.toEntity(), nil
}

func (r *Repository) ListGrants(ctx context.Context) ([]entities.CallerGrant, error) {
	var rows []grantModel
	err := r.db.WithContext(ctx).
		Order("caller ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("authz_repo_list_grants_failed", err)
	}
	grants := make([]entities.CallerGrant, 0, len(rows))
	for _, row := range rows {
		grants = append(grants, row.toEntity())
	}
	return grants, nil
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
		return r.logError("authz_repo_outbox_append_failed", err, "event_type", event.EventType)
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
		return nil, r.logError("authz_repo_outbox_list_failed", err)
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
		return r.logError("authz_repo_outbox_mark_failed", err, "outbox_id", outboxID)
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "identity-access/authorization-registry",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("authorization repository operation failed", fields...)
	return err
}
