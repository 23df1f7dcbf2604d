package queries

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"voyago/contexts/identity-access/authorization-registry/domain/entities"
	domainerrors "voyago/contexts/identity-access/authorization-registry/domain/errors"
	"voyago/contexts/identity-access/authorization-registry/ports"
)

// AuthorizationQueries serves allow-list reads. IsAuthorized satisfies the
// checker port other modules depend on.
type AuthorizationQueries struct {
	Repo   ports.Repository
	Logger *slog.Logger
}

// IsAuthorized reports whether the caller holds an active grant. Unknown
// callers are simply unauthorized, not an error.
func (q AuthorizationQueries) IsAuthorized(ctx context.Context, caller string) (bool, error) {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return false, nil
	}
	grant, err := q.Repo.GetGrant(ctx, caller)
	if err != nil {
		if errors.Is(err, domainerrors.ErrGrantNotFound) {
			return false, nil
		}
		return false, err
	}
	return grant.Authorized, nil
}

func (q AuthorizationQueries) GetGrant(ctx context.Context, caller string) (entities.CallerGrant, error) {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return entities.CallerGrant{}, domainerrors.ErrInvalidRequest
	}
	return q.Repo.GetGrant(ctx, caller)
}

func (q AuthorizationQueries) ListGrants(ctx context.Context) ([]entities.CallerGrant, error) {
	return q.Repo.ListGrants(ctx)
}
