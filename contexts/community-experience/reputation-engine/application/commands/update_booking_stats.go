package commands

import (
	"context"
	"log/slog"
	"strings"

	"voyago/contexts/community-experience/reputation-engine/application"
	"voyago/contexts/community-experience/reputation-engine/domain/entities"
	domainerrors "voyago/contexts/community-experience/reputation-engine/domain/errors"
	"voyago/contexts/community-experience/reputation-engine/ports"
)

// UpdateBookingStatsCommand reports one booking outcome for a profile.
// Exactly one of Completed/Cancelled is expected true; other combinations
// are applied as given but flagged in the log for review.
type UpdateBookingStatsCommand struct {
	Caller    string
	Identity  string
	Completed bool
	Cancelled bool
}

// UpdateBookingStatsUseCase is a privileged write gated by the
// authorization registry. Auto-registers the profile when needed.
type UpdateBookingStatsUseCase struct {
	Repo   ports.Repository
	Authz  ports.AuthorizationChecker
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Deltas TrustDeltas
	Logger *slog.Logger
}

func (uc UpdateBookingStatsUseCase) UpdateBookingStats(ctx context.Context, cmd UpdateBookingStatsCommand) (entities.UserProfile, error) {
	logger := application.ResolveLogger(uc.Logger)

	cmd.Caller = strings.TrimSpace(cmd.Caller)
	cmd.Identity = strings.TrimSpace(cmd.Identity)
	if cmd.Caller == "" || cmd.Identity == "" {
		return entities.UserProfile{}, domainerrors.ErrInvalidRequest
	}
	if err := requireAuthorized(ctx, uc.Authz, cmd.Caller); err != nil {
		return entities.UserProfile{}, err
	}
	if cmd.Completed == cmd.Cancelled {
		logger.Warn("booking stats call with ambiguous outcome flags",
			"event", "reputation_stats_ambiguous_flags",
			"module", "community-experience/reputation-engine",
			"layer", "application",
			"identity", cmd.Identity,
			"completed", cmd.Completed,
			"cancelled", cmd.Cancelled,
		)
	}

	now := nowUTC(uc.Clock)
	if _, _, err := uc.Repo.EnsureProfile(ctx, cmd.Identity, now); err != nil {
		return entities.UserProfile{}, err
	}

	profile, err := uc.Repo.RecordBookingStats(ctx, ports.RecordStatsInput{
		Identity:   cmd.Identity,
		Completed:  cmd.Completed,
		Cancelled:  cmd.Cancelled,
		TrustDelta: statsTrustDelta(cmd.Completed, cmd.Cancelled, resolveDeltas(uc.Deltas)),
		OccurredAt: now,
	})
	if err != nil {
		return entities.UserProfile{}, err
	}

	logger.Info("booking stats recorded",
		"event", "reputation_stats_recorded",
		"module", "community-experience/reputation-engine",
		"layer", "application",
		"identity", cmd.Identity,
		"completed", cmd.Completed,
		"cancelled", cmd.Cancelled,
		"trust_score", profile.TrustScore,
	)
	return profile, nil
}

func requireAuthorized(ctx context.Context, authz ports.AuthorizationChecker, caller string) error {
	allowed, err := authz.IsAuthorized(ctx, caller)
	if err != nil {
		return err
	}
	if !allowed {
		return domainerrors.ErrUnauthorized
	}
	return nil
}
