// Package quota meters AI-assisted card generation per user per calendar month.
//
// Counters reset lazily: every read or reservation first moves a counter from
// an earlier month into the current one with a zero count. There is no
// scheduled job.
package quota

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/store"
)

const serviceName = "quota"

// DefaultMonthlyLimit applies when the configured limit is not positive.
const DefaultMonthlyLimit = 200

// Reservation is an approved claim on the user's monthly allowance.
type Reservation struct {
	UserID    uuid.UUID
	Approved  bool
	Requested int
	// Remaining is what is left this month after the reservation.
	Remaining int
	// PeriodStart is the month the reservation was taken from.
	PeriodStart time.Time
	// ResetDate is when the allowance next refills.
	ResetDate time.Time
}

// Status is the user's usage in the current month.
type Status struct {
	Used      int       `json:"used"`
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetDate time.Time `json:"reset_date"`
}

// Service reserves and reports generation quota.
type Service interface {
	// CheckAndReserve claims requested units atomically. A rejection returns
	// a *domain.QuotaExceededError and leaves the count untouched.
	CheckAndReserve(ctx context.Context, userID uuid.UUID, requested int) (*Reservation, error)

	// Status returns current usage after applying any pending monthly reset.
	Status(ctx context.Context, userID uuid.UUID) (*Status, error)

	// Release returns n unused units of r. Units from a month that has since
	// been reset are not returned to the new month.
	Release(ctx context.Context, r *Reservation, n int) error

	// Limit returns the monthly limit.
	Limit() int
}

// Option configures the service.
type Option func(*quotaService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *quotaService) { s.now = now }
}

type quotaService struct {
	quotas  store.QuotaStore
	runInTx store.TxRunner
	limit   int
	emitter events.EventEmitter
	now     func() time.Time
	logger  *slog.Logger
}

var _ Service = (*quotaService)(nil)

// NewService creates the quota service. A nil emitter drops events.
// If logger is nil, a default logger will be used.
func NewService(
	quotas store.QuotaStore,
	runInTx store.TxRunner,
	monthlyLimit int,
	emitter events.EventEmitter,
	logger *slog.Logger,
	opts ...Option,
) Service {
	if quotas == nil {
		panic("quotas cannot be nil")
	}
	if runInTx == nil {
		panic("runInTx cannot be nil")
	}
	if monthlyLimit <= 0 {
		monthlyLimit = DefaultMonthlyLimit
	}
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &quotaService{
		quotas:  quotas,
		runInTx: runInTx,
		limit:   monthlyLimit,
		emitter: emitter,
		now:     time.Now,
		logger:  logger.With(slog.String("component", "quota_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *quotaService) Limit() int { return s.limit }

// prepare makes sure the counter exists and belongs to periodStart.
func prepare(ctx context.Context, quotas store.QuotaStore, userID uuid.UUID, periodStart, now time.Time) error {
	if err := quotas.Ensure(ctx, userID, periodStart, now); err != nil {
		return err
	}
	_, err := quotas.ResetIfStale(ctx, userID, periodStart, now)
	return err
}

// CheckAndReserve implements Service.
func (s *quotaService) CheckAndReserve(ctx context.Context, userID uuid.UUID, requested int) (*Reservation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))

	if requested < 1 {
		return nil, domain.NewValidationError("count", "must be at least 1", nil)
	}

	now := s.now().UTC()
	periodStart := domain.FirstOfMonth(now)
	resetDate := domain.NextPeriodStart(periodStart)

	var counter *domain.QuotaCounter
	var approved bool

	// A rejection still commits, so the lazy reset is kept.
	err := s.runInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		quotas := s.quotas.WithTx(tx)
		if err := prepare(ctx, quotas, userID, periodStart, now); err != nil {
			return err
		}

		var err error
		counter, approved, err = quotas.TryIncrement(ctx, userID, requested, s.limit, now)
		if err != nil || approved {
			return err
		}

		counter, err = quotas.Get(ctx, userID)
		return err
	})
	if err != nil {
		log.Error("quota reservation failed", slog.String("error", err.Error()))
		return nil, service.StorageError(serviceName, "check_and_reserve", "failed to reserve quota", err)
	}

	if !approved {
		log.Info("quota exceeded",
			slog.Int("requested", requested),
			slog.Int("current_count", counter.Count),
			slog.Int("limit", s.limit))
		events.Emit(ctx, s.emitter, log, events.TypeQuotaRejected, userID,
			events.QuotaChanged{Requested: requested, Count: counter.Count, Limit: s.limit}, now)
		return nil, &domain.QuotaExceededError{
			CurrentCount: counter.Count,
			Limit:        s.limit,
			ResetDate:    resetDate,
		}
	}

	events.Emit(ctx, s.emitter, log, events.TypeQuotaReserved, userID,
		events.QuotaChanged{Requested: requested, Count: counter.Count, Limit: s.limit}, now)

	log.Debug("quota reserved",
		slog.Int("requested", requested),
		slog.Int("count", counter.Count))

	return &Reservation{
		UserID:      userID,
		Approved:    true,
		Requested:   requested,
		Remaining:   counter.Remaining(s.limit),
		PeriodStart: periodStart,
		ResetDate:   resetDate,
	}, nil
}

// Status implements Service.
func (s *quotaService) Status(ctx context.Context, userID uuid.UUID) (*Status, error) {
	now := s.now().UTC()
	periodStart := domain.FirstOfMonth(now)

	var counter *domain.QuotaCounter
	err := s.runInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		quotas := s.quotas.WithTx(tx)
		if err := prepare(ctx, quotas, userID, periodStart, now); err != nil {
			return err
		}
		var err error
		counter, err = quotas.Get(ctx, userID)
		return err
	})
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to read quota",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, service.StorageError(serviceName, "status", "failed to read quota", err)
	}

	return &Status{
		Used:      counter.Count,
		Limit:     s.limit,
		Remaining: counter.Remaining(s.limit),
		ResetDate: domain.NextPeriodStart(periodStart),
	}, nil
}

// Release implements Service.
func (s *quotaService) Release(ctx context.Context, r *Reservation, n int) error {
	if r == nil || !r.Approved || n <= 0 {
		return nil
	}
	if n > r.Requested {
		n = r.Requested
	}

	counter, err := s.quotas.Decrement(ctx, r.UserID, n, r.PeriodStart, s.now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrQuotaCounterNotFound) {
			return nil
		}
		return service.StorageError(serviceName, "release", "failed to release quota", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("quota released",
		slog.String("user_id", r.UserID.String()),
		slog.Int("released", n),
		slog.Int("count", counter.Count))
	return nil
}
