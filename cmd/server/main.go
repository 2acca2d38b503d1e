// Package main runs the scry-study HTTP server: due cards, review
// submission, the study dashboard and, when an LLM key is configured,
// AI-assisted card generation.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/platform/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newFlagSet declares the command line flags. --port and --log-level
// override the matching configuration keys.
func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("scry-server", pflag.ContinueOnError)
	flags.String("config", "", "path to a config file (default ./config.yaml if present)")
	flags.Int("port", 0, "HTTP listen port")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("migrate", "", "run a migration command (up, down, status, version) and exit")
	return flags
}

func run(args []string) error {
	flags := newFlagSet()
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver),
		slog.Bool("llm_enabled", cfg.LLM.Enabled))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	if migrateCmd, _ := flags.GetString("migrate"); migrateCmd != "" {
		defer closeDatabase(db, log)
		return runMigrations(ctx, db, migrateCmd, log)
	}

	if cfg.Database.AutoMigrate {
		if err := runMigrations(ctx, db, "up", log); err != nil {
			closeDatabase(db, log)
			return err
		}
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		closeDatabase(db, log)
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
