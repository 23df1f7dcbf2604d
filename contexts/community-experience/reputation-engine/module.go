package reputationengine

import (
	"log/slog"

	httpadapter "voyago/contexts/community-experience/reputation-engine/adapters/http"
	"voyago/contexts/community-experience/reputation-engine/adapters/memory"
	"voyago/contexts/community-experience/reputation-engine/application/commands"
	"voyago/contexts/community-experience/reputation-engine/application/queries"
	"voyago/contexts/community-experience/reputation-engine/ports"
)

// Module is the reputation-engine composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository  ports.Repository
	Authz       ports.AuthorizationChecker
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Owner       string
	Deltas      commands.TrustDeltas
	Logger      *slog.Logger
}

// NewModule wires the reputation use-cases and transport handler using
// explicit ports.
func NewModule(deps Dependencies) Module {
	register := commands.RegisterUserUseCase{
		Repo:   deps.Repository,
		Outbox: deps.Outbox,
		Clock:  deps.Clock,
		IDGen:  deps.IDGenerator,
		Logger: deps.Logger,
	}
	submit := commands.SubmitReviewUseCase{
		Repo:   deps.Repository,
		Outbox: deps.Outbox,
		Clock:  deps.Clock,
		IDGen:  deps.IDGenerator,
		Deltas: deps.Deltas,
		Logger: deps.Logger,
	}
	stats := commands.UpdateBookingStatsUseCase{
		Repo:   deps.Repository,
		Authz:  deps.Authz,
		Outbox: deps.Outbox,
		Clock:  deps.Clock,
		IDGen:  deps.IDGenerator,
		Deltas: deps.Deltas,
		Logger: deps.Logger,
	}
	verifyReview := commands.VerifyReviewUseCase{
		Repo:   deps.Repository,
		Authz:  deps.Authz,
		Logger: deps.Logger,
	}
	verifyUser := commands.VerifyUserUseCase{
		Repo:   deps.Repository,
		Owner:  deps.Owner,
		Outbox: deps.Outbox,
		Clock:  deps.Clock,
		IDGen:  deps.IDGenerator,
		Logger: deps.Logger,
	}
	reputationQueries := queries.ReputationQueries{
		Repo:   deps.Repository,
		Logger: deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			Register:     register,
			Submit:       submit,
			Stats:        stats,
			VerifyReview: verifyReview,
			VerifyUser:   verifyUser,
			Queries:      reputationQueries,
			Logger:       deps.Logger,
		},
	}
}

// NewInMemoryModule builds the module on the in-memory store. Used by tests
// and local runs without Postgres.
func NewInMemoryModule(owner string, authz ports.AuthorizationChecker, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Authz:       authz,
		Outbox:      store,
		Clock:       store,
		IDGenerator: store,
		Owner:       owner,
		Deltas:      commands.DefaultTrustDeltas,
		Logger:      logger,
	})
	module.Store = store
	return module
}
