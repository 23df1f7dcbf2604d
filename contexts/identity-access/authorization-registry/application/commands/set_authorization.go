package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"voyago/contexts/identity-access/authorization-registry/application"
	"voyago/contexts/identity-access/authorization-registry/domain/entities"
	domainerrors "voyago/contexts/identity-access/authorization-registry/domain/errors"
	"voyago/contexts/identity-access/authorization-registry/ports"
)

// SetAuthorizationCommand grants or revokes a caller on the allow-list.
type SetAuthorizationCommand struct {
	Caller     string
	Target     string
	Authorized bool
}

// SetAuthorizationUseCase mutates the allow-list. Owner-only; idempotent in
// effect since grants are upserted by caller identity.
type SetAuthorizationUseCase struct {
	Repo   ports.Repository
	Owner  string
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (uc SetAuthorizationUseCase) SetAuthorization(ctx context.Context, cmd SetAuthorizationCommand) (entities.CallerGrant, error) {
	logger := application.ResolveLogger(uc.Logger)

	cmd.Caller = strings.TrimSpace(cmd.Caller)
	cmd.Target = strings.TrimSpace(cmd.Target)
	if cmd.Caller == "" || cmd.Target == "" {
		return entities.CallerGrant{}, domainerrors.ErrInvalidRequest
	}
	if cmd.Caller != strings.TrimSpace(uc.Owner) {
		return entities.CallerGrant{}, domainerrors.ErrNotOwner
	}

	now := nowUTC(uc.Clock)
	grant, err := uc.Repo.UpsertGrant(ctx, entities.CallerGrant{
		Caller:     cmd.Target,
		Authorized: cmd.Authorized,
		GrantedBy:  cmd.Caller,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return entities.CallerGrant{}, err
	}

	if uc.Outbox != nil {
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.CallerGrant{}, err
		}
		event, err := newAuthorizationEnvelope(eventID, "authz.caller_authorization_set", cmd.Target, now, map[string]any{
			"caller":     cmd.Target,
			"authorized": cmd.Authorized,
			"granted_by": cmd.Caller,
		})
		if err != nil {
			return entities.CallerGrant{}, err
		}
		if err := uc.Outbox.AppendOutbox(ctx, event); err != nil {
			return entities.CallerGrant{}, err
		}
	}

	logger.Info("caller authorization set",
		"event", "authz_caller_authorization_set",
		"module", "identity-access/authorization-registry",
		"layer", "application",
		"caller", cmd.Target,
		"authorized", cmd.Authorized,
	)
	return grant, nil
}

func nowUTC(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now().UTC()
}
