package authorizationregistry

import (
	"log/slog"

	httpadapter "voyago/contexts/identity-access/authorization-registry/adapters/http"
	"voyago/contexts/identity-access/authorization-registry/adapters/memory"
	"voyago/contexts/identity-access/authorization-registry/application/commands"
	"voyago/contexts/identity-access/authorization-registry/application/queries"
	"voyago/contexts/identity-access/authorization-registry/ports"
)

// Module is the authorization-registry composition root exposed to runtime
// wiring. Queries doubles as the checker other modules consult.
type Module struct {
	Handler httpadapter.Handler
	Queries queries.AuthorizationQueries
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository  ports.Repository
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Owner       string
	Logger      *slog.Logger
}

// NewModule wires the registry use-case and transport handler using explicit
// ports.
func NewModule(deps Dependencies) Module {
	set := commands.SetAuthorizationUseCase{
		Repo:   deps.Repository,
		Owner:  deps.Owner,
		Outbox: deps.Outbox,
		Clock:  deps.Clock,
		IDGen:  deps.IDGenerator,
		Logger: deps.Logger,
	}
	authQueries := queries.AuthorizationQueries{
		Repo:   deps.Repository,
		Logger: deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			Set:     set,
			Queries: authQueries,
			Logger:  deps.Logger,
		},
		Queries: authQueries,
	}
}

// NewInMemoryModule builds the module on the in-memory store. Used by tests
// and local runs without Postgres.
func NewInMemoryModule(owner string, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Outbox:      store,
		Clock:       store,
		IDGenerator: store,
		Owner:       owner,
		Logger:      logger,
	})
	module.Store = store
	return module
}
