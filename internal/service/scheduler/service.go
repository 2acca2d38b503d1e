// Package scheduler answers "what should this user study now?".
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/store"
)

const serviceName = "scheduler"

// Default limits for GetDueCards.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// ErrDeckNotFound is returned when the deck filter names a deck the user
// does not own, or that does not exist.
var ErrDeckNotFound = store.ErrDeckNotFound

// Config bounds the page size of GetDueCards.
type Config struct {
	DefaultLimit int
	MaxLimit     int
}

// DueCards is one page of due cards.
type DueCards struct {
	Cards []*domain.Card
	// TotalDue counts every due card matching the filter, ignoring the limit.
	TotalDue      int
	ReturnedCount int
}

// Service computes due work for a user.
type Service interface {
	// GetDueCards returns the cards with next_review <= now, oldest first.
	// A nil limit selects the default; otherwise it must be in 1..MaxLimit.
	GetDueCards(ctx context.Context, userID uuid.UUID, deckID *uuid.UUID, limit *int) (*DueCards, error)

	// GetDueSummary returns due counts per deck and the next time anything
	// becomes due.
	GetDueSummary(ctx context.Context, userID uuid.UUID) (*domain.DueSummary, error)
}

// Option configures the service.
type Option func(*schedulerService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *schedulerService) { s.now = now }
}

type schedulerService struct {
	cards  store.CardStore
	decks  store.DeckStore
	config Config
	now    func() time.Time
	logger *slog.Logger
}

var _ Service = (*schedulerService)(nil)

// NewService creates the scheduler. Zero limits in cfg take the package defaults.
// If logger is nil, a default logger will be used.
func NewService(
	cards store.CardStore,
	decks store.DeckStore,
	cfg Config,
	logger *slog.Logger,
	opts ...Option,
) Service {
	if cards == nil {
		panic("cards cannot be nil")
	}
	if decks == nil {
		panic("decks cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxLimit <= 0 || cfg.MaxLimit > MaxLimit {
		cfg.MaxLimit = MaxLimit
	}
	if cfg.DefaultLimit <= 0 || cfg.DefaultLimit > cfg.MaxLimit {
		cfg.DefaultLimit = min(DefaultLimit, cfg.MaxLimit)
	}

	s := &schedulerService{
		cards:  cards,
		decks:  decks,
		config: cfg,
		now:    time.Now,
		logger: logger.With(slog.String("component", "scheduler")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetDueCards implements Service.
func (s *schedulerService) GetDueCards(
	ctx context.Context,
	userID uuid.UUID,
	deckID *uuid.UUID,
	requested *int,
) (*DueCards, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	limit := s.config.DefaultLimit
	if requested != nil {
		limit = *requested
	}
	if limit < 1 || limit > s.config.MaxLimit {
		return nil, domain.NewValidationError("limit",
			fmt.Sprintf("must be between 1 and %d", s.config.MaxLimit), nil)
	}

	if deckID != nil {
		if _, err := s.decks.GetForUser(ctx, userID, *deckID); err != nil {
			if errors.Is(err, store.ErrDeckNotFound) {
				log.Debug("deck filter not owned by user",
					slog.String("user_id", userID.String()),
					slog.String("deck_id", deckID.String()))
				return nil, ErrDeckNotFound
			}
			return nil, service.StorageError(serviceName, "get_due_cards", "failed to resolve deck", err)
		}
	}

	q := store.DueQuery{UserID: userID, DeckID: deckID, Now: s.now().UTC(), Limit: limit}

	var cards []*domain.Card
	var total int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cards, err = s.cards.ListDue(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.cards.CountDue(gctx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("failed to load due cards",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, service.StorageError(serviceName, "get_due_cards", "failed to load due cards", err)
	}

	if total < len(cards) {
		// The count ran a moment before the list; never report fewer than returned.
		total = len(cards)
	}

	log.Debug("loaded due cards",
		slog.String("user_id", userID.String()),
		slog.Int("returned", len(cards)),
		slog.Int("total_due", total))

	return &DueCards{Cards: cards, TotalDue: total, ReturnedCount: len(cards)}, nil
}

// GetDueSummary implements Service.
func (s *schedulerService) GetDueSummary(ctx context.Context, userID uuid.UUID) (*domain.DueSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now().UTC()

	var perDeck []domain.DeckDue
	var next *time.Time
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		perDeck, err = s.cards.CountDueByDeck(gctx, userID, now)
		return err
	})
	g.Go(func() error {
		var err error
		next, err = s.cards.NextReviewAfter(gctx, userID, now)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("failed to build due summary",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, service.StorageError(serviceName, "get_due_summary", "failed to count due cards", err)
	}

	summary := &domain.DueSummary{NextReviewDate: next, PerDeck: make([]domain.DeckDue, 0, len(perDeck))}
	for _, d := range perDeck {
		if d.DueCount <= 0 {
			continue
		}
		summary.PerDeck = append(summary.PerDeck, d)
		summary.TotalDue += d.DueCount
	}
	sort.Slice(summary.PerDeck, func(i, j int) bool {
		a, b := summary.PerDeck[i], summary.PerDeck[j]
		if a.DeckName != b.DeckName {
			return a.DeckName < b.DeckName
		}
		return a.DeckID.String() < b.DeckID.String()
	})

	return summary, nil
}
