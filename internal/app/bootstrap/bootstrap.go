package bootstrap

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	votinglottery "lanvote/contexts/event-voting/voting-lottery"
	votingmemory "lanvote/contexts/event-voting/voting-lottery/adapters/memory"
	votingpostgres "lanvote/contexts/event-voting/voting-lottery/adapters/postgres"
	"lanvote/contexts/event-voting/voting-lottery/application/workers"
	"lanvote/contexts/event-voting/voting-lottery/domain/entities"
	adminauth "lanvote/contexts/identity-access/admin-auth"
	adminmemory "lanvote/contexts/identity-access/admin-auth/adapters/memory"
	adminpostgres "lanvote/contexts/identity-access/admin-auth/adapters/postgres"
	"lanvote/contexts/identity-access/admin-auth/adapters/security"
	"lanvote/internal/platform/config"
	"lanvote/internal/platform/db"
	"lanvote/internal/platform/httpserver"
	"lanvote/internal/platform/messaging"

	"golang.org/x/sync/errgroup"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

const (
	moduleName      = "internal/app/bootstrap"
	shutdownTimeout = 10 * time.Second
)

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres   *db.Postgres
	reconciler workers.CounterReconciler
	interval   time.Duration
	logger     *slog.Logger
}

// NewLogger builds the JSON process logger for the configured level.
func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func BuildAPI(ctx context.Context) (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := NewLogger(cfg.LogLevel).With("service", cfg.ServiceName, "process", "api")
	slog.SetDefault(logger)

	identityMode, err := entities.ParseIdentityMode(cfg.VoterIdentityMode)
	if err != nil {
		return nil, err
	}
	broker := messaging.NewBroker(cfg.ServiceName, cfg.BroadcastBuffer, logger)

	var (
		pg     *db.Postgres
		voting votinglottery.Module
		admin  adminauth.Module
	)
	tokens := security.JWTIssuer{Secret: jwtSecret(cfg.AdminJWTSecret, logger), TTL: cfg.AdminTokenTTL}

	switch cfg.StorageDriver {
	case config.StorageDriverPostgres:
		pg, err = db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := migrate(ctx, pg); err != nil {
				_ = pg.Close()
				return nil, err
			}
		}
		repo := votingpostgres.NewRepository(pg.DB, logger)
		voting = votinglottery.NewModule(votinglottery.Dependencies{
			Candidates:      repo,
			Votes:           repo,
			Lottery:         repo,
			Configs:         repo,
			Notifier:        broker,
			Clock:           votingpostgres.SystemClock{},
			IDGen:           votingpostgres.UUIDGenerator{},
			IdentityMode:    identityMode,
			EstimatedVoters: cfg.EstimatedVoters,
			Logger:          logger,
		})
		admin = adminauth.NewModule(adminauth.Dependencies{
			Admins: adminpostgres.NewRepository(pg.DB, logger),
			Hasher: security.BcryptHasher{},
			Tokens: tokens,
			Clock:  adminpostgres.SystemClock{},
			Logger: logger,
		})
	case config.StorageDriverMemory:
		logger.Warn("memory storage selected; state is lost on restart",
			"event", "bootstrap_memory_storage",
			"module", moduleName,
			"layer", "platform",
		)
		store := votingmemory.NewStore(nil)
		voting = votinglottery.NewModule(votinglottery.Dependencies{
			Candidates:      store,
			Votes:           store,
			Lottery:         store,
			Configs:         store,
			Notifier:        broker,
			Clock:           store,
			IDGen:           store,
			IdentityMode:    identityMode,
			EstimatedVoters: cfg.EstimatedVoters,
			Logger:          logger,
		})
		adminStore := adminmemory.NewStore()
		admin = adminauth.NewModule(adminauth.Dependencies{
			Admins: adminStore,
			Hasher: security.BcryptHasher{},
			Tokens: tokens,
			Clock:  adminStore,
			Logger: logger,
		})
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	if _, err := admin.EnsureAdmin.EnsureDefaultAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		if pg != nil {
			_ = pg.Close()
		}
		return nil, fmt.Errorf("seed default admin: %w", err)
	}

	server := httpserver.New(voting, admin, broker, logger, normalizeAddr(cfg.HTTPPort), cfg.TrustProxyHeaders)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker(ctx context.Context) (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := NewLogger(cfg.LogLevel).With("service", cfg.ServiceName, "process", "worker")
	slog.SetDefault(logger)

	if cfg.StorageDriver != config.StorageDriverPostgres {
		return nil, errors.New("worker requires STORAGE_DRIVER=postgres")
	}
	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := migrate(ctx, pg); err != nil {
			_ = pg.Close()
			return nil, err
		}
	}

	return &WorkerApp{
		postgres: pg,
		reconciler: workers.CounterReconciler{
			Votes:  votingpostgres.NewRepository(pg.DB, logger),
			Logger: logger,
		},
		interval: cfg.ReconcileInterval,
		logger:   logger,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", moduleName,
		"layer", "platform",
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(a.server.Start)
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", moduleName,
		"layer", "platform",
		"reconcile_interval", w.interval.String(),
	)

	for {
		if _, err := w.reconciler.RunOnce(ctx); err != nil && ctx.Err() == nil {
			// Storage hiccups are retried on the next tick.
			w.logger.Warn("reconcile cycle failed",
				"event", "bootstrap_worker_cycle_failed",
				"module", moduleName,
				"layer", "platform",
				"error", err.Error(),
			)
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

func migrate(ctx context.Context, pg *db.Postgres) error {
	if err := votingpostgres.Migrate(ctx, pg.DB); err != nil {
		return fmt.Errorf("migrate voting schema: %w", err)
	}
	if err := adminpostgres.Migrate(ctx, pg.DB); err != nil {
		return fmt.Errorf("migrate admin schema: %w", err)
	}
	return nil
}

// jwtSecret falls back to a random per-process key, which invalidates admin
// sessions on restart.
func jwtSecret(configured string, logger *slog.Logger) []byte {
	if configured = strings.TrimSpace(configured); configured != "" {
		return []byte(configured)
	}
	secret := make([]byte, 32)
	_, _ = rand.Read(secret)
	logger.Warn("ADMIN_JWT_SECRET not set; using an ephemeral signing key",
		"event", "bootstrap_ephemeral_jwt_secret",
		"module", moduleName,
		"layer", "platform",
	)
	return secret
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.Contains(value, ":") {
		return value
	}
	return ":" + value
}
