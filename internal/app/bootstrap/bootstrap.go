// Package bootstrap is the composition root: all cross-context wiring
// happens here so module code stays free of platform imports.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	reputationengine "voyago/contexts/community-experience/reputation-engine"
	reputationevents "voyago/contexts/community-experience/reputation-engine/adapters/events"
	reputationpostgres "voyago/contexts/community-experience/reputation-engine/adapters/postgres"
	reputationcommands "voyago/contexts/community-experience/reputation-engine/application/commands"
	reputationworkers "voyago/contexts/community-experience/reputation-engine/application/workers"
	authorizationregistry "voyago/contexts/identity-access/authorization-registry"
	authzevents "voyago/contexts/identity-access/authorization-registry/adapters/events"
	authzpostgres "voyago/contexts/identity-access/authorization-registry/adapters/postgres"
	authzcommands "voyago/contexts/identity-access/authorization-registry/application/commands"
	authzqueries "voyago/contexts/identity-access/authorization-registry/application/queries"
	authzworkers "voyago/contexts/identity-access/authorization-registry/application/workers"
	bookingledger "voyago/contexts/travel-core/booking-ledger"
	bookingevents "voyago/contexts/travel-core/booking-ledger/adapters/events"
	bookingpostgres "voyago/contexts/travel-core/booking-ledger/adapters/postgres"
	bookingworkers "voyago/contexts/travel-core/booking-ledger/application/workers"
	"voyago/contexts/travel-core/booking-ledger/domain/entities"
	"voyago/internal/platform/config"
	"voyago/internal/platform/db"
	"voyago/internal/platform/httpserver"
	"voyago/internal/platform/messaging"
)

const (
	bookingTopic    = "voyago.bookings"
	reputationTopic = "voyago.reputation"
	authzTopic      = "voyago.authz"

	// outcomeConsumerIdentity is the service identity the booking outcome
	// consumer presents to the reputation engine. It is seeded into the
	// authorization registry at worker startup.
	outcomeConsumerIdentity = "svc-booking-ledger"
)

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres        *db.Postgres
	bus             *messaging.KafkaBus
	seedGrant       func(context.Context) error
	bookingRelay    bookingworkers.OutboxRelay
	reputationRelay reputationworkers.OutboxRelay
	authzRelay      authzworkers.OutboxRelay
	outcomes        *reputationworkers.BookingOutcomeConsumer
	pollInterval    time.Duration
	logger          *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		// Local development path: everything in memory, no broker.
		authzModule := authorizationregistry.NewInMemoryModule(cfg.PlatformOwner, logger)
		reputationModule := reputationengine.NewInMemoryModule(cfg.PlatformOwner, authzModule.Queries, logger)
		bookingModule := bookingledger.NewInMemoryModule(entities.PlatformSettings{
			Owner:        cfg.PlatformOwner,
			FeeRecipient: cfg.FeeRecipient,
			FeeBps:       cfg.FeeBps,
		}, logger)

		server := httpserver.New(bookingModule, reputationModule, authzModule, logger, normalizeAddr(cfg.HTTPPort))
		return &APIApp{server: server, logger: logger}, nil
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bookingRepo := bookingpostgres.NewRepository(pg.DB, logger)
	if err := seedPlatformSettings(pg.DB, bookingRepo, cfg); err != nil {
		_ = pg.Close()
		return nil, err
	}
	bookingModule := bookingledger.NewModule(bookingledger.Dependencies{
		Repository:     bookingRepo,
		Settings:       bookingRepo,
		Idempotency:    bookingRepo,
		Outbox:         bookingRepo,
		Clock:          bookingpostgres.SystemClock{},
		IDGenerator:    bookingpostgres.UUIDGenerator{},
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})

	authzRepo := authzpostgres.NewRepository(pg.DB, logger)
	authzModule := authorizationregistry.NewModule(authorizationregistry.Dependencies{
		Repository:  authzRepo,
		Outbox:      authzRepo,
		Clock:       authzpostgres.SystemClock{},
		IDGenerator: authzpostgres.UUIDGenerator{},
		Owner:       cfg.PlatformOwner,
		Logger:      logger,
	})

	reputationRepo := reputationpostgres.NewRepository(pg.DB, logger)
	reputationModule := reputationengine.NewModule(reputationengine.Dependencies{
		Repository:  reputationRepo,
		Authz:       authzModule.Queries,
		Outbox:      reputationRepo,
		Clock:       reputationpostgres.SystemClock{},
		IDGenerator: reputationpostgres.UUIDGenerator{},
		Owner:       cfg.PlatformOwner,
		Deltas:      reputationcommands.DefaultTrustDeltas,
		Logger:      logger,
	})

	server := httpserver.New(bookingModule, reputationModule, authzModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	app := &WorkerApp{
		postgres:     pg,
		pollInterval: 2 * time.Second,
		logger:       logger,
	}

	var eventBus messaging.Bus
	if cfg.EventBus == "kafka" {
		kafkaBus := messaging.NewKafkaBus(cfg.KafkaBrokers, logger)
		app.bus = kafkaBus
		eventBus = kafkaBus
	} else {
		eventBus = messaging.NewInProcBus(logger)
	}

	bookingRepo := bookingpostgres.NewRepository(pg.DB, logger)
	app.bookingRelay = bookingworkers.OutboxRelay{
		Outbox:    bookingRepo,
		Publisher: bookingevents.NewPublisher(eventBus, bookingTopic, logger),
		Clock:     bookingpostgres.SystemClock{},
		BatchSize: 100,
		Logger:    logger,
	}

	authzRepo := authzpostgres.NewRepository(pg.DB, logger)
	app.authzRelay = authzworkers.OutboxRelay{
		Outbox:    authzRepo,
		Publisher: authzevents.NewPublisher(eventBus, authzTopic, logger),
		Clock:     authzpostgres.SystemClock{},
		BatchSize: 100,
		Logger:    logger,
	}

	reputationRepo := reputationpostgres.NewRepository(pg.DB, logger)
	app.reputationRelay = reputationworkers.OutboxRelay{
		Outbox:    reputationRepo,
		Publisher: reputationevents.NewPublisher(eventBus, reputationTopic, logger),
		Clock:     reputationpostgres.SystemClock{},
		BatchSize: 100,
		Logger:    logger,
	}

	if cfg.EnableBookingOutcomeConsumer {
		authzQueries := authzqueries.AuthorizationQueries{Repo: authzRepo, Logger: logger}
		seed := authzcommands.SetAuthorizationUseCase{
			Repo:   authzRepo,
			Owner:  cfg.PlatformOwner,
			Outbox: authzRepo,
			Clock:  authzpostgres.SystemClock{},
			IDGen:  authzpostgres.UUIDGenerator{},
			Logger: logger,
		}
		app.seedGrant = func(ctx context.Context) error {
			_, err := seed.SetAuthorization(ctx, authzcommands.SetAuthorizationCommand{
				Caller:     cfg.PlatformOwner,
				Target:     outcomeConsumerIdentity,
				Authorized: true,
			})
			return err
		}
		app.outcomes = &reputationworkers.BookingOutcomeConsumer{
			Subscriber: eventBus,
			Stats: reputationcommands.UpdateBookingStatsUseCase{
				Repo:   reputationRepo,
				Authz:  authzQueries,
				Outbox: reputationRepo,
				Clock:  reputationpostgres.SystemClock{},
				IDGen:  reputationpostgres.UUIDGenerator{},
				Deltas: reputationcommands.DefaultTrustDeltas,
				Logger: logger,
			},
			Caller:        outcomeConsumerIdentity,
			Topic:         bookingTopic,
			ConsumerGroup: "reputation-booking-outcome-cg",
			Logger:        logger,
		}
	}
	return app, nil
}

func seedPlatformSettings(gdb *gorm.DB, repo *bookingpostgres.Repository, cfg config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := repo.GetSettings(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return repo.PutSettings(ctx, entities.PlatformSettings{
		Owner:        cfg.PlatformOwner,
		FeeRecipient: cfg.FeeRecipient,
		FeeBps:       cfg.FeeBps,
		UpdatedAt:    time.Now().UTC(),
	})
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if w.seedGrant != nil {
		if err := w.seedGrant(ctx); err != nil {
			return err
		}
	}
	if w.outcomes != nil {
		if err := w.outcomes.Start(ctx); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.bookingRelay.RunOnce(ctx); err != nil {
			return err
		}
		if err := w.reputationRelay.RunOnce(ctx); err != nil {
			return err
		}
		if err := w.authzRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	var firstErr error
	if w.bus != nil {
		if err := w.bus.Close(); err != nil {
			firstErr = err
		}
	}
	if w.postgres != nil {
		if err := w.postgres.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
