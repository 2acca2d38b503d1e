package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/platform/postgres"
	"github.com/phrazzld/scry-study/internal/platform/sqlite"
	"github.com/phrazzld/scry-study/internal/platform/sqlstore"
	"github.com/phrazzld/scry-study/migrations"
)

// database bundles a connection with the dialects that describe it.
type database struct {
	*sql.DB
	dialect   sqlstore.Dialect
	migration migrations.Dialect
}

// openDatabase connects using the configured driver.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*database, error) {
	switch cfg.Driver {
	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		logger.Info("database connection established", slog.String("driver", "sqlite"))
		return &database{DB: db, dialect: sqlite.Dialect(), migration: migrations.SQLite}, nil
	case "postgres":
		db, err := postgres.Open(ctx, cfg.URL, postgres.PoolConfig{
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("database connection established",
			slog.String("driver", "postgres"),
			slog.Int("max_open_conns", cfg.MaxOpenConns))
		return &database{DB: db, dialect: postgres.Dialect(), migration: migrations.Postgres}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func closeDatabase(db *database, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("error closing database connection", slog.String("error", err.Error()))
	}
}
