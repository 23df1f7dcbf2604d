package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"voyago/contexts/community-experience/reputation-engine/domain/entities"
	domainerrors "voyago/contexts/community-experience/reputation-engine/domain/errors"
	"voyago/contexts/community-experience/reputation-engine/ports"

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

func (r *Repository) CreateProfile(ctx context.Context, profile entities.UserProfile) error {
	row := profileModelFromEntity(profile)
	row.Identity = strings.TrimSpace(row.Identity)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyRegistered
		}
		return r.logError("reputation_repo_create_profile_failed", err, "identity", row.Identity)
	}
	return nil
}

func (r *Repository) EnsureProfile(ctx context.Context, identity string, at time.Time) (entities.UserProfile, bool, error) {
	identity = strings.TrimSpace(identity)

	var row profileModel
	err := r.db.WithContext(ctx).
		Where("identity = ?", identity).
		First(&row).
		Error
	if err == nil {
		return row.toEntity(), false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.UserProfile{}, false, r.logError("reputation_repo_ensure_profile_failed", err, "identity", identity)
	}

	row = profileModelFromEntity(entities.NewProfile(identity, at))
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identity"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return entities.UserProfile{}, false, r.logError("reputation_repo_ensure_profile_failed", create.Error, "identity", identity)
	}
	if create.RowsAffected == 0 {
		// Lost the insert race; read the winner.
		if err := r.db.WithContext(ctx).Where("identity = ?", identity).First(&row).Error; err != nil {
			return entities.UserProfile{}, false, r.logError("reputation_repo_ensure_profile_failed", err, "identity", identity)
		}
		return row.toEntity(), false, nil
	}
	return row.toEntity(), true, nil
}

func (r *Repository) GetProfile(ctx context.Context, identity string) (entities.UserProfile, error) {
	var row profileModel
	err := r.db.WithContext(ctx).
		Where("identity = ?", strings.TrimSpace(identity)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.UserProfile{}, domainerrors.ErrProfileNotFound
		}
		return entities.UserProfile{}, r.logError("reputation_repo_get_profile_failed", err, "identity", strings.TrimSpace(identity))
	}
	return row.toEntity(), nil
}

func (r *Repository) RecordReview(ctx context.Context, input ports.RecordReviewInput) (entities.Review, entities.UserProfile, error) {
	review := input.Review
	var profile entities.UserProfile

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profileRow profileModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("identity = ?", strings.TrimSpace(review.Reviewee)).
			First(&profileRow).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrProfileNotFound
			}
			return err
		}

		reviewRow := reviewModel{
			Reviewer:  strings.TrimSpace(review.Reviewer),
			Reviewee:  strings.TrimSpace(review.Reviewee),
			BookingID: review.BookingID,
			Rating:    review.Rating,
			Comment:   review.Comment,
			CreatedAt: review.CreatedAt,
		}
		if err := tx.Create(&reviewRow).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrDuplicateReview
			}
			return err
		}
		review = reviewRow.toEntity()

		updated := profileRow.toEntity()
		updated.ApplyReviewReceived(review.Rating, input.TrustDelta, review.CreatedAt)
		profile = updated
		return tx.Save(profileModelFromEntity(updated)).Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateReview) || errors.Is(err, domainerrors.ErrProfileNotFound) {
			return entities.Review{}, entities.UserProfile{}, err
		}
		return entities.Review{}, entities.UserProfile{}, r.logError("reputation_repo_record_review_failed", err,
			"reviewer", strings.TrimSpace(input.Review.Reviewer),
			"reviewee", strings.TrimSpace(input.Review.Reviewee),
			"booking_id", input.Review.BookingID,
		)
	}
	return review, profile, nil
}

func (r *Repository) RecordBookingStats(ctx context.Context, input ports.RecordStatsInput) (entities.UserProfile, error) {
	var profile entities.UserProfile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row profileModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("identity = ?", strings.TrimSpace(input.Identity)).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrProfileNotFound
			}
			return err
		}
		updated := row.toEntity()
		updated.ApplyBookingStats(input.Completed, input.Cancelled, input.TrustDelta, input.OccurredAt)
		profile = updated
		return tx.Save(profileModelFromEntity(updated)).Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrProfileNotFound) {
			return entities.UserProfile{}, err
		}
		return entities.UserProfile{}, r.logError("reputation_repo_record_stats_failed", err,
			"identity", strings.TrimSpace(input.Identity),
		)
	}
	return profile, nil
}

func (r *Repository) MarkProfileVerified(ctx context.Context, identity string, at time.Time) (entities.UserProfile, error) {
	var profile entities.UserProfile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row profileModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("identity = ?", strings.TrimSpace(identity)).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrProfileNotFound
			}
			return err
		}
		updated := row.toEntity()
		updated.MarkVerified(at)
		profile = updated
		return tx.Save(profileModelFromEntity(updated)).Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrProfileNotFound) {
			return entities.UserProfile{}, err
		}
		return entities.UserProfile{}, r.logError("reputation_repo_verify_profile_failed", err,
			"identity", strings.TrimSpace(identity),
		)
	}
	return profile, nil
}

func (r *Repository) MarkReviewVerified(ctx context.Context, reviewID int64) (entities.Review, error) {
	var row reviewModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", reviewID).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrReviewNotFound
			}
			return err
		}
		if row.IsVerified {
			return nil
		}
		row.IsVerified = true
		return tx.Save(&row).Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrReviewNotFound) {
			return entities.Review{}, err
		}
		return entities.Review{}, r.logError("reputation_repo_verify_review_failed", err, "review_id", reviewID)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetReview(ctx context.Context, reviewID int64) (entities.Review, error) {
	var row reviewModel
	err := r.db.WithContext(ctx).
		Where("id = ?", reviewID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Review{}, domainerrors.ErrReviewNotFound
		}
		return entities.Review{}, r.logError("reputation_repo_get_review_failed", err, "review_id", reviewID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListReviewIDsByReviewee(ctx context.Context, identity string) ([]int64, error) {
	return r.listReviewIDs(ctx, "reviewee", identity)
}

func (r *Repository) ListReviewIDsByReviewer(ctx context.Context, identity string) ([]int64, error) {
	return r.listReviewIDs(ctx, "reviewer", identity)
}

func (r *Repository) listReviewIDs(ctx context.Context, column string, identity string) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&reviewModel{}).
		Where(column+" = ?", strings.TrimSpace(identity)).
		Order("id ASC").
		Pluck("id", &ids).
		Error
	if err != nil {
		return nil, r.logError("reputation_repo_list_reviews_failed", err,
			"column", column,
			"identity", strings.TrimSpace(identity),
		)
	}
	return ids, nil
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
		return r.logError("reputation_repo_outbox_append_failed", err, "event_type", event.EventType)
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
		return nil, r.logError("reputation_repo_outbox_list_failed", err)
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
		return r.logError("reputation_repo_outbox_mark_failed", err, "outbox_id", outboxID)
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "community-experience/reputation-engine",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("reputation repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
