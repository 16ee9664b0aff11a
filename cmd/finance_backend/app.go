package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/SscSPs/facility_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/facility_finance_app/internal/core/ports/services"
	"github.com/SscSPs/facility_finance_app/internal/core/services"
	"github.com/SscSPs/facility_finance_app/internal/platform/config"
	"github.com/SscSPs/facility_finance_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/facility_finance_app/internal/repositories/database/sqlite"
	"github.com/SscSPs/facility_finance_app/pkg/database"
)

// app is the wired application: configuration, logger, services and the store behind them.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	services *portssvc.ServiceContainer
	close    func()
}

// newLogger builds the process logger from LOG_FORMAT and LOG_LEVEL.
func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

// migrate applies pending migrations to the configured store.
func migrate(cfg *config.Config) error {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		return database.MigrateSQLite(cfg.SQLitePath)
	default:
		return database.MigratePostgres(cfg.DatabaseURL)
	}
}

// openStore opens the configured store and returns its repositories and a closer.
func openStore(ctx context.Context, cfg *config.Config) (repositories.RepositoryProvider, func(), error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		handles, err := database.OpenSQLite(ctx, cfg.SQLitePath, cfg.LockTimeout.Milliseconds())
		if err != nil {
			return repositories.RepositoryProvider{}, nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		slog.Info("Opened SQLite database.", slog.String("path", cfg.SQLitePath))
		return sqlite.NewRepositoryProvider(handles), func() {
			if err := handles.Close(); err != nil {
				slog.Error("Error closing SQLite database", slog.String("error", err.Error()))
			}
		}, nil
	default:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return repositories.RepositoryProvider{}, nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		return pgsql.NewRepositoryProvider(pool, cfg.LockTimeout), func() { database.ClosePgxPool(pool) }, nil
	}
}

// bootstrap loads everything a command needs. Migrations run first when runMigrations is
// set or RUN_MIGRATIONS is enabled.
func bootstrap(ctx context.Context, cfg *config.Config, runMigrations bool) (*app, error) {
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if runMigrations || cfg.RunMigrations {
		logger.Info("Running database migrations...", slog.String("driver", cfg.DBDriver))
		if err := migrate(cfg); err != nil {
			return nil, err
		}
	}

	repos, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svc, err := services.NewServiceContainer(cfg, repos)
	if err != nil {
		closeStore()
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, services: svc, close: closeStore}, nil
}
