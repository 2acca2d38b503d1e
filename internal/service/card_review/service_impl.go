package card_review

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/domain/srs"
	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/store"
)

const serviceName = "card_review"

// CardReviewService submits reviews.
type CardReviewService interface {
	// SubmitReview applies grade to the card owned by userID and persists the
	// new schedule in one transaction.
	//
	// Returns:
	//   - a domain.ValidationError for a grade outside 1..4, before any storage access
	//   - ErrCardNotFound when the card is missing or owned by someone else
	//   - an error matching store.ErrPersistence for any storage failure; the
	//     review is not recorded unless the commit succeeded
	SubmitReview(ctx context.Context, userID, cardID uuid.UUID, grade domain.ReviewGrade) (*ReviewResult, error)
}

// Option configures the service.
type Option func(*cardReviewServiceImpl)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *cardReviewServiceImpl) { s.now = now }
}

// Verify interface compliance at compile time
var _ CardReviewService = (*cardReviewServiceImpl)(nil)

type cardReviewServiceImpl struct {
	cards      store.CardStore
	runInTx    store.TxRunner
	srsService srs.Service
	emitter    events.EventEmitter
	now        func() time.Time
	logger     *slog.Logger
}

// NewCardReviewService creates a new CardReviewService implementation.
// A nil emitter drops events. If logger is nil, a default logger will be used.
func NewCardReviewService(
	cards store.CardStore,
	runInTx store.TxRunner,
	srsService srs.Service,
	emitter events.EventEmitter,
	logger *slog.Logger,
	opts ...Option,
) CardReviewService {
	if cards == nil {
		panic("cards cannot be nil")
	}
	if runInTx == nil {
		panic("runInTx cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &cardReviewServiceImpl{
		cards:      cards,
		runInTx:    runInTx,
		srsService: srsService,
		emitter:    emitter,
		now:        time.Now,
		logger:     logger.With(slog.String("component", "card_review_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitReview implements CardReviewService.
func (s *cardReviewServiceImpl) SubmitReview(
	ctx context.Context,
	userID, cardID uuid.UUID,
	grade domain.ReviewGrade,
) (*ReviewResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()))

	if !grade.Valid() {
		log.Debug("rejected review grade", slog.Int("grade", int(grade)))
		return nil, domain.NewValidationError("grade", "must be between 1 and 4", domain.ErrInvalidReviewGrade)
	}

	now := s.now().UTC()
	var result *ReviewResult

	err := s.runInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cards.WithTx(tx)

		card, err := cards.GetForUserForUpdate(ctx, userID, cardID)
		if err != nil {
			if errors.Is(err, store.ErrCardNotFound) {
				return ErrCardNotFound
			}
			return service.StorageError(serviceName, "submit_review", "failed to load card", err)
		}

		outcomes, err := s.srsService.Preview(card, now)
		if err != nil {
			return service.NewServiceError(serviceName, "submit_review", err.Error(), ErrInvalidSchedule)
		}
		next := outcomes.For(grade)

		if err := cards.UpdateSchedule(ctx, next); err != nil {
			if errors.Is(err, store.ErrCardNotFound) {
				return ErrCardNotFound
			}
			return service.StorageError(serviceName, "submit_review", "failed to save schedule", err)
		}

		result = &ReviewResult{Card: next, Intervals: outcomes.Intervals(now)}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrCardNotFound):
			log.Debug("card not found for review")
			return nil, ErrCardNotFound
		case errors.Is(err, ErrInvalidSchedule):
			log.Error("stored card cannot be reviewed", slog.String("error", err.Error()))
			return nil, err
		}

		log.Error("failed to submit review", slog.String("error", err.Error()))
		var serviceErr *service.ServiceError
		if errors.As(err, &serviceErr) {
			return nil, err
		}
		return nil, service.StorageError(serviceName, "submit_review", "transaction failed", err)
	}

	events.Emit(ctx, s.emitter, log, events.TypeReviewSubmitted, userID, events.ReviewSubmitted{
		CardID:     cardID,
		Grade:      int(grade),
		State:      string(result.Card.State),
		NextReview: result.Card.NextReview,
	}, now)

	log.Debug("review submitted",
		slog.String("grade", grade.String()),
		slog.String("state", string(result.Card.State)),
		slog.Time("next_review", result.Card.NextReview))

	return result, nil
}
