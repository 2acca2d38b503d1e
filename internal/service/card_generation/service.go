// Package card_generation turns study text into new cards through a language
// model, metered by the monthly generation quota.
//
// The flow is: validate, check deck ownership, reserve quota, draft, persist
// all cards in one transaction, then give back whatever part of the
// reservation was not used.
package card_generation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/service/quota"
	"github.com/phrazzld/scry-study/internal/store"
)

const serviceName = "card_generation"

const (
	// DefaultMaxPerRequest caps Count when the configured cap is not positive.
	DefaultMaxPerRequest = 20
	// MaxTextLength is the longest study text accepted, in characters.
	MaxTextLength = 20000
)

var (
	ErrDeckNotFound = store.ErrDeckNotFound

	// ErrGenerationFailed wraps every failure of the drafting step.
	ErrGenerationFailed = generation.ErrGenerationFailed
)

// Request asks for up to Count cards drafted from Text, added to DeckID.
type Request struct {
	DeckID uuid.UUID
	Text   string
	Count  int
}

// Result is the outcome of a successful generation.
type Result struct {
	Cards     []*domain.Card
	Requested int
	// Remaining is the user's allowance after unused units were returned.
	Remaining int
	ResetDate time.Time
}

// Service generates cards.
type Service interface {
	// Generate drafts and stores cards for userID.
	//
	// Returns:
	//   - a domain.ValidationError for empty or oversized text or a count
	//     outside 1..MaxPerRequest, before any storage access
	//   - ErrDeckNotFound when the deck is missing or owned by someone else
	//   - a *domain.QuotaExceededError when the allowance cannot cover Count
	//   - an error matching ErrGenerationFailed when drafting fails
	//   - an error matching store.ErrPersistence for storage failures
	Generate(ctx context.Context, userID uuid.UUID, req Request) (*Result, error)
}

// Option configures the service.
type Option func(*generationService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *generationService) { s.now = now }
}

// WithMaxPerRequest sets the largest Count accepted.
func WithMaxPerRequest(n int) Option {
	return func(s *generationService) {
		if n > 0 {
			s.maxPerRequest = n
		}
	}
}

type generationService struct {
	decks         store.DeckStore
	cards         store.CardStore
	runInTx       store.TxRunner
	quotas        quota.Service
	generator     generation.Generator
	emitter       events.EventEmitter
	maxPerRequest int
	now           func() time.Time
	logger        *slog.Logger
}

var _ Service = (*generationService)(nil)

// NewService creates the generation service. A nil emitter drops events.
// If logger is nil, a default logger will be used.
func NewService(
	decks store.DeckStore,
	cards store.CardStore,
	runInTx store.TxRunner,
	quotas quota.Service,
	generator generation.Generator,
	emitter events.EventEmitter,
	logger *slog.Logger,
	opts ...Option,
) Service {
	switch {
	case decks == nil:
		panic("decks cannot be nil")
	case cards == nil:
		panic("cards cannot be nil")
	case runInTx == nil:
		panic("runInTx cannot be nil")
	case quotas == nil:
		panic("quotas cannot be nil")
	case generator == nil:
		panic("generator cannot be nil")
	}
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &generationService{
		decks:         decks,
		cards:         cards,
		runInTx:       runInTx,
		quotas:        quotas,
		generator:     generator,
		emitter:       emitter,
		maxPerRequest: DefaultMaxPerRequest,
		now:           time.Now,
		logger:        logger.With(slog.String("component", "card_generation_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *generationService) validate(req Request) error {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return domain.NewValidationError("text", "cannot be empty", domain.ErrEmptyContent)
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return domain.NewValidationError("text", "is too long", nil)
	}
	if req.Count < 1 || req.Count > s.maxPerRequest {
		return domain.NewValidationError("count", "is out of range", nil)
	}
	return nil
}

// Generate implements Service.
func (s *generationService) Generate(ctx context.Context, userID uuid.UUID, req Request) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("deck_id", req.DeckID.String()))

	if err := s.validate(req); err != nil {
		log.Debug("rejected generation request", slog.String("error", err.Error()))
		return nil, err
	}

	if _, err := s.decks.GetForUser(ctx, userID, req.DeckID); err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			return nil, ErrDeckNotFound
		}
		log.Error("failed to load deck", slog.String("error", err.Error()))
		return nil, service.StorageError(serviceName, "generate", "failed to load deck", err)
	}

	reservation, err := s.quotas.CheckAndReserve(ctx, userID, req.Count)
	if err != nil {
		return nil, err
	}

	drafts, err := s.generator.Generate(ctx, strings.TrimSpace(req.Text), req.Count)
	if err != nil {
		s.release(ctx, log, reservation, req.Count)
		log.Warn("card drafting failed", slog.String("error", err.Error()))
		if !errors.Is(err, ErrGenerationFailed) {
			err = fmt.Errorf("%w: %w", ErrGenerationFailed, err)
		}
		return nil, service.NewServiceError(serviceName, "generate", "card drafting failed", err)
	}

	now := s.now().UTC()
	cards := make([]*domain.Card, 0, len(drafts))
	for _, d := range drafts {
		if len(cards) == req.Count {
			break
		}
		card, err := domain.NewCard(req.DeckID, d.Front, d.Back, now)
		if err != nil {
			log.Debug("dropped invalid draft", slog.String("error", err.Error()))
			continue
		}
		cards = append(cards, card)
	}
	if len(cards) == 0 {
		s.release(ctx, log, reservation, req.Count)
		return nil, service.NewServiceError(serviceName, "generate", "no usable cards drafted", ErrGenerationFailed)
	}

	err = s.runInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.cards.WithTx(tx).CreateMultiple(ctx, cards)
	})
	if err != nil {
		s.release(ctx, log, reservation, req.Count)
		log.Error("failed to save generated cards", slog.String("error", err.Error()))
		return nil, service.StorageError(serviceName, "generate", "failed to save cards", err)
	}

	unused := req.Count - len(cards)
	remaining := reservation.Remaining
	if unused > 0 && s.release(ctx, log, reservation, unused) {
		remaining += unused
	}

	events.Emit(ctx, s.emitter, log, events.TypeCardsGenerated, userID, events.CardsGenerated{
		DeckID:    req.DeckID,
		Requested: req.Count,
		Created:   len(cards),
	}, now)

	log.Info("cards generated",
		slog.Int("requested", req.Count),
		slog.Int("created", len(cards)))

	return &Result{
		Cards:     cards,
		Requested: req.Count,
		Remaining: remaining,
		ResetDate: reservation.ResetDate,
	}, nil
}

// release returns n units and reports whether it succeeded. It runs even
// when ctx has been cancelled.
func (s *generationService) release(ctx context.Context, log *slog.Logger, r *quota.Reservation, n int) bool {
	if err := s.quotas.Release(context.WithoutCancel(ctx), r, n); err != nil {
		log.Warn("failed to release quota",
			slog.Int("units", n),
			slog.String("error", err.Error()))
		return false
	}
	return true
}
