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

// RegisterUserUseCase creates a fresh active profile with the initial trust
// score. Fails when the identity is already registered.
type RegisterUserUseCase struct {
	Repo   ports.Repository
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (uc RegisterUserUseCase) RegisterUser(ctx context.Context, identity string) (entities.UserProfile, error) {
	logger := application.ResolveLogger(uc.Logger)

	identity = strings.TrimSpace(identity)
	if identity == "" {
		return entities.UserProfile{}, domainerrors.ErrInvalidRequest
	}

	now := nowUTC(uc.Clock)
	profile := entities.NewProfile(identity, now)
	if err := uc.Repo.CreateProfile(ctx, profile); err != nil {
		return entities.UserProfile{}, err
	}

	if uc.Outbox != nil {
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.UserProfile{}, err
		}
		event, err := newReputationEnvelope(eventID, "reputation.user_registered", identity, now, map[string]any{
			"identity":      identity,
			"trust_score":   profile.TrustScore,
			"registered_at": now.Format(time.RFC3339),
		})
		if err != nil {
			return entities.UserProfile{}, err
		}
		if err := uc.Outbox.AppendOutbox(ctx, event); err != nil {
			return entities.UserProfile{}, err
		}
	}

	logger.Info("user registered",
		"event", "reputation_user_registered",
		"module", "community-experience/reputation-engine",
		"layer", "application",
		"identity", identity,
	)
	return profile, nil
}

func nowUTC(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now().UTC()
}
