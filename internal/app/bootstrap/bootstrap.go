package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	proposalledger "parkpulse/contexts/governance/proposal-ledger"
	postgresadapter "parkpulse/contexts/governance/proposal-ledger/adapters/postgres"
	workerapp "parkpulse/contexts/governance/proposal-ledger/application/workers"
	"parkpulse/internal/platform/config"
	"parkpulse/internal/platform/db"
	"parkpulse/internal/platform/httpserver"
	"parkpulse/internal/platform/identity"
	"parkpulse/internal/platform/messaging"
	"parkpulse/internal/platform/treasury"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres      *db.Postgres
	auditRelay    workerapp.AuditRelay
	sweeper       workerapp.DeadlineSweeper
	relayEnabled  bool
	sweepEnabled  bool
	sweepInterval time.Duration
	pollInterval  time.Duration
	logger        *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	if strings.TrimSpace(cfg.AdminAccount) == "" {
		return nil, errors.New("ADMIN_ACCOUNT_ID is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	if err := repo.AutoMigrate(); err != nil {
		_ = pg.Close()
		return nil, err
	}

	module := proposalledger.NewModule(proposalledger.Dependencies{
		Ledger:       repo,
		Reader:       repo,
		Outbox:       repo,
		Identity:     identity.NewNormalizer(),
		Treasury:     treasury.NewBridgeClient(cfg.HederaBridgeURL, logger),
		Clock:        postgresadapter.SystemClock{},
		IDGen:        postgresadapter.UUIDGenerator{},
		AdminAccount: cfg.AdminAccount,
		Network:      cfg.HederaNetwork,
		Logger:       logger,
	})

	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
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
	if strings.TrimSpace(cfg.AdminAccount) == "" {
		return nil, errors.New("ADMIN_ACCOUNT_ID is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus := messaging.NewTopicBus(logger)
	repo := postgresadapter.NewRepository(pg.DB, logger)

	module := proposalledger.NewModule(proposalledger.Dependencies{
		Ledger:       repo,
		Reader:       repo,
		Outbox:       repo,
		Identity:     identity.NewNormalizer(),
		Treasury:     treasury.NewBridgeClient(cfg.HederaBridgeURL, logger),
		Clock:        postgresadapter.SystemClock{},
		IDGen:        postgresadapter.UUIDGenerator{},
		AdminAccount: cfg.AdminAccount,
		Network:      cfg.HederaNetwork,
		Logger:       logger,
	})

	return &WorkerApp{
		postgres: pg,
		auditRelay: workerapp.AuditRelay{
			Outbox:    repo,
			Publisher: bus,
			Clock:     postgresadapter.SystemClock{},
			Topic:     cfg.AuditTopic,
			BatchSize: 100,
			Logger:    logger,
		},
		sweeper:       module.NewDeadlineSweeper(repo, postgresadapter.SystemClock{}, logger),
		relayEnabled:  cfg.EnableAuditRelay,
		sweepEnabled:  cfg.EnableDeadlineSweeper,
		sweepInterval: cfg.SweepInterval,
		pollInterval:  2 * time.Second,
		logger:        logger,
	}, nil
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
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"sweep_interval", w.sweepInterval.String(),
	)

	lastSweep := time.Time{}
	for {
		if w.relayEnabled {
			if err := w.auditRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.sweepEnabled && time.Since(lastSweep) >= w.sweepInterval {
			if err := w.sweeper.RunOnce(ctx); err != nil {
				return err
			}
			lastSweep = time.Now()
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
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
