package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/domain/srs"
	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/platform/gemini"
	"github.com/phrazzld/scry-study/internal/platform/sqlstore"
	"github.com/phrazzld/scry-study/internal/service/auth"
	"github.com/phrazzld/scry-study/internal/service/card_generation"
	"github.com/phrazzld/scry-study/internal/service/card_review"
	"github.com/phrazzld/scry-study/internal/service/dashboard"
	"github.com/phrazzld/scry-study/internal/service/quota"
	"github.com/phrazzld/scry-study/internal/service/scheduler"
	"github.com/phrazzld/scry-study/internal/store"
	"github.com/phrazzld/scry-study/internal/task"
)

// application holds the shared dependencies and owns their shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *database

	cardStore  store.CardStore
	deckStore  store.DeckStore
	quotaStore store.QuotaStore
	eventStore store.EventStore

	jwtService        auth.JWTService
	schedulerService  scheduler.Service
	cardReviewService card_review.CardReviewService
	quotaService      quota.Service
	dashboardService  dashboard.Service
	// generationService is nil when the LLM is disabled.
	generationService card_generation.Service

	eventEmitter *events.InMemoryEventEmitter
	eventQueue   *task.TaskQueue
	workerPool   *task.WorkerPool
}

// appOption adjusts construction, mainly for tests.
type appOption func(*appOptions)

type appOptions struct {
	generator generation.Generator
	clock     func() time.Time
}

// withGenerator supplies the card generator instead of building a Gemini client.
func withGenerator(g generation.Generator) appOption {
	return func(o *appOptions) { o.generator = g }
}

// withClock replaces time.Now in every service.
func withClock(now func() time.Time) appOption {
	return func(o *appOptions) { o.clock = now }
}

// newApplication builds stores, services and the event pipeline on db.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *database,
	opts ...appOption,
) (*application, error) {
	o := appOptions{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth, auth.WithClock(o.clock))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	app.cardStore = sqlstore.NewCardStore(db.DB, db.dialect, logger)
	app.deckStore = sqlstore.NewDeckStore(db.DB, db.dialect, logger)
	app.quotaStore = sqlstore.NewQuotaStore(db.DB, db.dialect, logger)
	app.eventStore = sqlstore.NewEventStore(db.DB, db.dialect, logger)
	runInTx := store.NewTxRunner(db.DB)

	app.setupEventPipeline()

	params, err := srs.NewParams(srs.ParamsConfig{
		DesiredRetention:       cfg.Scheduler.DesiredRetention,
		MaximumIntervalDays:    cfg.Scheduler.MaximumIntervalDays,
		LearningStepsMinutes:   cfg.Scheduler.LearningStepsMinutes,
		RelearningStepsMinutes: cfg.Scheduler.RelearningStepsMinutes,
		EnableFuzz:             cfg.Scheduler.EnableFuzz,
	})
	if err != nil {
		app.stopEventPipeline(ctx)
		return nil, fmt.Errorf("invalid scheduler parameters: %w", err)
	}
	srsService, err := srs.NewServiceWithParams(params)
	if err != nil {
		app.stopEventPipeline(ctx)
		return nil, fmt.Errorf("failed to create SRS service: %w", err)
	}

	app.schedulerService = scheduler.NewService(
		app.cardStore,
		app.deckStore,
		scheduler.Config{DefaultLimit: cfg.Scheduler.DefaultLimit, MaxLimit: cfg.Scheduler.MaxLimit},
		logger,
		scheduler.WithClock(o.clock),
	)
	app.cardReviewService = card_review.NewCardReviewService(
		app.cardStore, runInTx, srsService, app.eventEmitter, logger,
		card_review.WithClock(o.clock),
	)
	app.quotaService = quota.NewService(
		app.quotaStore, runInTx, cfg.Quota.MonthlyLimit, app.eventEmitter, logger,
		quota.WithClock(o.clock),
	)
	app.dashboardService = dashboard.NewService(
		app.schedulerService, app.quotaService, logger,
		dashboard.WithClock(o.clock),
	)

	generator := o.generator
	if generator == nil && cfg.LLM.Enabled {
		generator, err = gemini.NewGenerator(ctx, logger, cfg.LLM)
		if err != nil {
			app.stopEventPipeline(ctx)
			return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
		}
		logger.Info("LLM generator initialized", slog.String("model", cfg.LLM.ModelName))
	}
	if generator != nil {
		app.generationService = card_generation.NewService(
			app.deckStore, app.cardStore, runInTx, app.quotaService, generator, app.eventEmitter, logger,
			card_generation.WithClock(o.clock),
			card_generation.WithMaxPerRequest(cfg.Quota.MaxPerRequest),
		)
	} else {
		logger.Info("LLM disabled, card generation endpoint not mounted")
	}

	logger.Info("application initialized")
	return app, nil
}

// setupEventPipeline routes emitted events through a bounded queue into the
// event store.
func (app *application) setupEventPipeline() {
	app.eventEmitter = events.NewInMemoryEventEmitter(app.logger)
	app.eventQueue = task.NewTaskQueue(app.config.Events.QueueSize, app.logger)
	app.eventEmitter.RegisterHandler(task.NewEventLogHandler(app.eventQueue, app.eventStore, app.logger))

	app.workerPool = task.NewWorkerPool(app.eventQueue, task.WorkerPoolConfig{
		WorkerCount: app.config.Events.WorkerCount,
	}, app.logger)
	app.workerPool.SetErrorHandler(func(t task.Task, err error) {
		app.logger.Warn("event log write failed",
			slog.String("task_id", t.ID().String()),
			slog.String("error", err.Error()))
	})
	app.workerPool.Start()
}

// stopEventPipeline closes the queue and waits for queued events to be
// written.
func (app *application) stopEventPipeline(ctx context.Context) {
	if app.eventQueue == nil {
		return
	}
	app.eventQueue.Close()
	if err := app.workerPool.Shutdown(ctx); err != nil {
		app.logger.Warn("event workers did not drain", slog.String("error", err.Error()))
	}
}

// Run serves HTTP until ctx is cancelled, then shuts everything down.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup drains the event workers and closes the database. ctx bounds the
// drain.
func (app *application) cleanup(ctx context.Context) {
	app.stopEventPipeline(ctx)
	if app.db != nil {
		closeDatabase(app.db, app.logger)
	}
	app.logger.Info("application shutdown completed")
}

var errServerFailed = errors.New("http server failed")
