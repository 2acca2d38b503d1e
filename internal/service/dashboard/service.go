// Package dashboard assembles the study overview shown when a session starts.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/phrazzld/scry-study/internal/domain/srs"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/service/quota"
	"github.com/phrazzld/scry-study/internal/service/scheduler"
)

// DeckOverview is one deck with due work.
type DeckOverview struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	DueCount int       `json:"due_count"`
}

// Overview is the reshaped due summary plus quota usage.
type Overview struct {
	TotalDue       int            `json:"total_due"`
	NextReviewDate *time.Time     `json:"next_review_date"`
	NextReviewIn   string         `json:"next_review_in"`
	Decks          []DeckOverview `json:"decks"`
	Quota          *quota.Status  `json:"quota,omitempty"`
}

// Service builds overviews.
type Service interface {
	Overview(ctx context.Context, userID uuid.UUID) (*Overview, error)
}

// Option configures the service.
type Option func(*dashboardService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *dashboardService) { s.now = now }
}

type dashboardService struct {
	scheduler scheduler.Service
	quota     quota.Service
	now       func() time.Time
	logger    *slog.Logger
}

var _ Service = (*dashboardService)(nil)

// NewService creates the dashboard. quotaSvc may be nil, in which case
// overviews carry no quota section.
func NewService(schedulerSvc scheduler.Service, quotaSvc quota.Service, logger *slog.Logger, opts ...Option) Service {
	if schedulerSvc == nil {
		panic("schedulerSvc cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &dashboardService{
		scheduler: schedulerSvc,
		quota:     quotaSvc,
		now:       time.Now,
		logger:    logger.With(slog.String("component", "dashboard_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Overview implements Service. Errors from either source are returned as is.
func (s *dashboardService) Overview(ctx context.Context, userID uuid.UUID) (*Overview, error) {
	g, gctx := errgroup.WithContext(ctx)

	var overview Overview
	g.Go(func() error {
		sum, err := s.scheduler.GetDueSummary(gctx, userID)
		if err != nil {
			return err
		}
		overview.TotalDue = sum.TotalDue
		overview.NextReviewDate = sum.NextReviewDate
		overview.Decks = make([]DeckOverview, len(sum.PerDeck))
		for i, d := range sum.PerDeck {
			overview.Decks[i] = DeckOverview{ID: d.DeckID, Name: d.DeckName, DueCount: d.DueCount}
		}
		return nil
	})
	if s.quota != nil {
		g.Go(func() error {
			status, err := s.quota.Status(gctx, userID)
			if err != nil {
				return err
			}
			overview.Quota = status
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to build overview",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	if overview.NextReviewDate != nil {
		wait := overview.NextReviewDate.Sub(s.now().UTC())
		if wait < 0 {
			wait = 0
		}
		overview.NextReviewIn = srs.FormatInterval(wait)
	}

	return &overview, nil
}
