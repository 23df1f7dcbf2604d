package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"voyago/contexts/identity-access/authorization-registry/application/commands"
	"voyago/contexts/identity-access/authorization-registry/application/queries"
	"voyago/contexts/identity-access/authorization-registry/domain/entities"
	httptransport "voyago/contexts/identity-access/authorization-registry/transport/http"
)

type Handler struct {
	Set     commands.SetAuthorizationUseCase
	Queries queries.AuthorizationQueries
	Logger  *slog.Logger
}

func (h Handler) SetAuthorizationHandler(
	ctx context.Context,
	caller string,
	req httptransport.SetAuthorizationRequest,
) (httptransport.GrantResponse, error) {
	grant, err := h.Set.SetAuthorization(ctx, commands.SetAuthorizationCommand{
		Caller:     caller,
		Target:     req.Caller,
		Authorized: req.Authorized,
	})
	if err != nil {
		return httptransport.GrantResponse{}, err
	}
	return httptransport.GrantResponse{Status: "success", Data: toGrantDTO(grant)}, nil
}

func (h Handler) CheckAuthorizationHandler(ctx context.Context, caller string) (httptransport.AuthorizationCheckResponse, error) {
	allowed, err := h.Queries.IsAuthorized(ctx, caller)
	if err != nil {
		return httptransport.AuthorizationCheckResponse{}, err
	}
	resp := httptransport.AuthorizationCheckResponse{Status: "success"}
	resp.Data.Caller = caller
	resp.Data.Authorized = allowed
	return resp, nil
}

func (h Handler) GetGrantHandler(ctx context.Context, caller string) (httptransport.GrantResponse, error) {
	grant, err := h.Queries.GetGrant(ctx, caller)
	if err != nil {
		return httptransport.GrantResponse{}, err
	}
	return httptransport.GrantResponse{Status: "success", Data: toGrantDTO(grant)}, nil
}

func (h Handler) ListGrantsHandler(ctx context.Context) (httptransport.GrantsResponse, error) {
	grants, err := h.Queries.ListGrants(ctx)
	if err != nil {
		return httptransport.GrantsResponse{}, err
	}
	resp := httptransport.GrantsResponse{
		Status: "success",
		Data:   make([]httptransport.GrantDTO, 0, len(grants)),
	}
	for _, grant := range grants {
		resp.Data = append(resp.Data, toGrantDTO(grant))
	}
	return resp, nil
}

func toGrantDTO(grant entities.CallerGrant) httptransport.GrantDTO {
	return httptransport.GrantDTO{
		Caller:     grant.Caller,
		Authorized: grant.Authorized,
		GrantedBy:  grant.GrantedBy,
		CreatedAt:  grant.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  grant.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
