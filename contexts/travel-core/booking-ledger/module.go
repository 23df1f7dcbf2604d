package bookingledger

import (
	"log/slog"
	"time"

	httpadapter "voyago/contexts/travel-core/booking-ledger/adapters/http"
	"voyago/contexts/travel-core/booking-ledger/adapters/memory"
	"voyago/contexts/travel-core/booking-ledger/application/commands"
	"voyago/contexts/travel-core/booking-ledger/application/queries"
	"voyago/contexts/travel-core/booking-ledger/domain/entities"
	"voyago/contexts/travel-core/booking-ledger/ports"
)

// Module is the booking-ledger composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository     ports.Repository
	Settings       ports.SettingsStore
	Idempotency    ports.IdempotencyStore
	Outbox         ports.OutboxWriter
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

// NewModule wires the ledger use-cases and transport handler using explicit
// ports.
func NewModule(deps Dependencies) Module {
	create := commands.CreateBookingUseCase{
		Repo:           deps.Repository,
		Settings:       deps.Settings,
		Idempotency:    deps.Idempotency,
		Outbox:         deps.Outbox,
		Clock:          deps.Clock,
		IDGen:          deps.IDGenerator,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	confirm := commands.ConfirmBookingUseCase{
		Repo:     deps.Repository,
		Settings: deps.Settings,
		Outbox:   deps.Outbox,
		Clock:    deps.Clock,
		IDGen:    deps.IDGenerator,
		Logger:   deps.Logger,
	}
	cancel := commands.CancelBookingUseCase{
		Repo:     deps.Repository,
		Settings: deps.Settings,
		Outbox:   deps.Outbox,
		Clock:    deps.Clock,
		IDGen:    deps.IDGenerator,
		Logger:   deps.Logger,
	}
	complete := commands.CompleteBookingUseCase{
		Repo:     deps.Repository,
		Settings: deps.Settings,
		Outbox:   deps.Outbox,
		Clock:    deps.Clock,
		IDGen:    deps.IDGenerator,
		Logger:   deps.Logger,
	}
	admin := commands.PlatformAdminUseCase{
		Settings: deps.Settings,
		Outbox:   deps.Outbox,
		Clock:    deps.Clock,
		IDGen:    deps.IDGenerator,
		Logger:   deps.Logger,
	}
	bookingQueries := queries.BookingQueries{
		Repo:     deps.Repository,
		Settings: deps.Settings,
		Logger:   deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			Create:   create,
			Confirm:  confirm,
			Cancel:   cancel,
			Complete: complete,
			Admin:    admin,
			Queries:  bookingQueries,
			Logger:   deps.Logger,
		},
	}
}

// NewInMemoryModule builds the module on the in-memory store, seeding the
// platform settings. Used by tests and local runs without Postgres.
func NewInMemoryModule(settings entities.PlatformSettings, logger *slog.Logger) Module {
	if settings.FeeBps == 0 {
		settings.FeeBps = 250
	}
	store := memory.NewStore(settings)
	module := NewModule(Dependencies{
		Repository:     store,
		Settings:       store,
		Idempotency:    store,
		Outbox:         store,
		Clock:          store,
		IDGenerator:    store,
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})
	module.Store = store
	return module
}
