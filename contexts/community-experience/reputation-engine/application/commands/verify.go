package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"voyago/contexts/community-experience/reputation-engine/application"
	"voyago/contexts/community-experience/reputation-engine/domain/entities"
	domainerrors "voyago/contexts/community-experience/reputation-engine/domain/errors"
	"voyago/contexts/community-experience/reputation-engine/ports"
)

// VerifyReviewUseCase marks a review as verified. Privileged via the
// authorization registry; idempotent.
type VerifyReviewUseCase struct {
	Repo   ports.Repository
	Authz  ports.AuthorizationChecker
	Logger *slog.Logger
}

func (uc VerifyReviewUseCase) VerifyReview(ctx context.Context, caller string, reviewID int64) (entities.Review, error) {
	logger := application.ResolveLogger(uc.Logger)

	caller = strings.TrimSpace(caller)
	if caller == "" || reviewID <= 0 {
		return entities.Review{}, domainerrors.ErrInvalidRequest
	}
	if err := requireAuthorized(ctx, uc.Authz, caller); err != nil {
		return entities.Review{}, err
	}

	review, err := uc.Repo.MarkReviewVerified(ctx, reviewID)
	if err != nil {
		return entities.Review{}, err
	}

	logger.Info("review verified",
		"event", "reputation_review_verified",
		"module", "community-experience/reputation-engine",
		"layer", "application",
		"review_id", reviewID,
	)
	return review, nil
}

// VerifyUserUseCase marks a profile as verified and applies the one-time
// trust bonus. Owner-only.
type VerifyUserUseCase struct {
	Repo   ports.Repository
	Owner  string
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (uc VerifyUserUseCase) VerifyUser(ctx context.Context, caller string, identity string) (entities.UserProfile, error) {
	logger := application.ResolveLogger(uc.Logger)

	caller = strings.TrimSpace(caller)
	identity = strings.TrimSpace(identity)
	if caller == "" || identity == "" {
		return entities.UserProfile{}, domainerrors.ErrInvalidRequest
	}
	if caller != strings.TrimSpace(uc.Owner) {
		return entities.UserProfile{}, domainerrors.ErrNotOwner
	}

	now := nowUTC(uc.Clock)
	profile, err := uc.Repo.MarkProfileVerified(ctx, identity, now)
	if err != nil {
		return entities.UserProfile{}, err
	}

	if uc.Outbox != nil {
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.UserProfile{}, err
		}
		event, err := newReputationEnvelope(eventID, "reputation.user_verified", identity, now, map[string]any{
			"identity":    identity,
			"trust_score": profile.TrustScore,
			"verified_at": now.Format(time.RFC3339),
		})
		if err != nil {
			return entities.UserProfile{}, err
		}
		if err := uc.Outbox.AppendOutbox(ctx, event); err != nil {
			return entities.UserProfile{}, err
		}
	}

	logger.Info("user verified",
		"event", "reputation_user_verified",
		"module", "community-experience/reputation-engine",
		"layer", "application",
		"identity", identity,
		"trust_score", profile.TrustScore,
	)
	return profile, nil
}
