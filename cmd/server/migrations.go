package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-study/migrations"
)

// runMigrations executes a goose command. Only the commands that make sense
// from the server binary are accepted.
func runMigrations(ctx context.Context, db *database, command string, logger *slog.Logger) error {
	switch command {
	case migrations.CommandUp, migrations.CommandDown, migrations.CommandStatus, migrations.CommandVersion:
	default:
		return fmt.Errorf("unknown migration command %q (expected up, down, status or version)", command)
	}

	if err := migrations.Run(ctx, db.DB, db.migration, command, logger); err != nil {
		return err
	}

	version, err := migrations.CurrentVersion(ctx, db.DB, db.migration)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	logger.Info("migrations finished", slog.String("command", command), slog.Int64("version", version))
	return nil
}
