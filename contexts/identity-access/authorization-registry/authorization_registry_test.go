package authorizationregistry_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	authorizationregistry "voyago/contexts/identity-access/authorization-registry"
	domainerrors "voyago/contexts/identity-access/authorization-registry/domain/errors"
	httptransport "voyago/contexts/identity-access/authorization-registry/transport/http"
)

const registryOwner = "owner-1"

func newRegistryModule(t *testing.T) authorizationregistry.Module {
	t.Helper()
	return authorizationregistry.NewInMemoryModule(registryOwner, nil)
}

func TestSetAuthorizationIsOwnerOnly(t *testing.T) {
	module := newRegistryModule(t)
	ctx := context.Background()

	_, err := module.Handler.SetAuthorizationHandler(ctx, "svc-rogue", httptransport.SetAuthorizationRequest{
		Caller: "svc-rogue", Authorized: true,
	})
	if !errors.Is(err, domainerrors.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	grant, err := module.Handler.SetAuthorizationHandler(ctx, registryOwner, httptransport.SetAuthorizationRequest{
		Caller: "svc-booking-ledger", Authorized: true,
	})
	if err != nil {
		t.Fatalf("set authorization failed: %v", err)
	}
	if !grant.Data.Authorized || grant.Data.GrantedBy != registryOwner {
		t.Fatalf("unexpected grant: %+v", grant.Data)
	}
}

func TestIsAuthorizedDefaultsToFalse(t *testing.T) {
	module := newRegistryModule(t)
	ctx := context.Background()

	allowed, err := module.Queries.IsAuthorized(ctx, "svc-unknown")
	if err != nil {
		t.Fatalf("authorization check failed: %v", err)
	}
	if allowed {
		t.Fatalf("expected unknown caller to be unauthorized")
	}

	check, err := module.Handler.CheckAuthorizationHandler(ctx, "svc-unknown")
	if err != nil {
		t.Fatalf("check handler failed: %v", err)
	}
	if check.Data.Authorized {
		t.Fatalf("expected check endpoint to report unauthorized")
	}
}

func TestAuthorizationGrantToggle(t *testing.T) {
	module := newRegistryModule(t)
	ctx := context.Background()

	if _, err := module.Handler.SetAuthorizationHandler(ctx, registryOwner, httptransport.SetAuthorizationRequest{
		Caller: "svc-moderation", Authorized: true,
	}); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	allowed, err := module.Queries.IsAuthorized(ctx, "svc-moderation")
	if err != nil || !allowed {
		t.Fatalf("expected caller authorized after grant, got %v %v", allowed, err)
	}

	if _, err := module.Handler.SetAuthorizationHandler(ctx, registryOwner, httptransport.SetAuthorizationRequest{
		Caller: "svc-moderation", Authorized: false,
	}); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	allowed, err = module.Queries.IsAuthorized(ctx, "svc-moderation")
	if err != nil || allowed {
		t.Fatalf("expected caller unauthorized after revoke, got %v %v", allowed, err)
	}
}

func TestListGrantsSortedByCaller(t *testing.T) {
	module := newRegistryModule(t)
	ctx := context.Background()

	for _, caller := range []string{"svc-c", "svc-a", "svc-b"} {
		if _, err := module.Handler.SetAuthorizationHandler(ctx, registryOwner, httptransport.SetAuthorizationRequest{
			Caller: caller, Authorized: true,
		}); err != nil {
			t.Fatalf("grant for %s failed: %v", caller, err)
		}
	}

	grants, err := module.Handler.ListGrantsHandler(ctx)
	if err != nil {
		t.Fatalf("list grants failed: %v", err)
	}
	if len(grants.Data) != 3 {
		t.Fatalf("expected 3 grants, got %d", len(grants.Data))
	}
	for i, want := range []string{"svc-a", "svc-b", "svc-c"} {
		if grants.Data[i].Caller != want {
			t.Fatalf("expected grant %d to be %s, got %s", i, want, grants.Data[i].Caller)
		}
	}
}

func TestGetGrantNotFound(t *testing.T) {
	module := newRegistryModule(t)

	_, err := module.Handler.GetGrantHandler(context.Background(), "svc-missing")
	if !errors.Is(err, domainerrors.ErrGrantNotFound) {
		t.Fatalf("expected ErrGrantNotFound, got %v", err)
	}
}

func TestAuthorizationSetOutboxEnvelope(t *testing.T) {
	module := newRegistryModule(t)
	ctx := context.Background()

	if _, err := module.Handler.SetAuthorizationHandler(ctx, registryOwner, httptransport.SetAuthorizationRequest{
		Caller: "svc-booking-ledger", Authorized: true,
	}); err != nil {
		t.Fatalf("grant failed: %v", err)
	}

	outbox, err := module.Store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(outbox) != 1 || outbox[0].EventType != "authz.caller_authorization_set" {
		t.Fatalf("expected single authz.caller_authorization_set event, got %+v", outbox)
	}

	var envelope map[string]any
	if err := json.Unmarshal(outbox[0].Payload, &envelope); err != nil {
		t.Fatalf("decode outbox envelope: %v", err)
	}
	if source, _ := envelope["source_service"].(string); source != "authorization-registry" {
		t.Fatalf("unexpected source_service: %s", source)
	}
	if key, _ := envelope["partition_key"].(string); key != "svc-booking-ledger" {
		t.Fatalf("expected envelope partitioned by caller, got %s", key)
	}
}
