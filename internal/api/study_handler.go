package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/service/card_review"
	"github.com/phrazzld/scry-study/internal/service/scheduler"
)

// StudyHandler serves due cards, due summaries and review submission.
type StudyHandler struct {
	scheduler scheduler.Service
	reviews   card_review.CardReviewService
	logger    *slog.Logger
}

// NewStudyHandler creates a StudyHandler.
func NewStudyHandler(
	schedulerSvc scheduler.Service,
	reviewSvc card_review.CardReviewService,
	logger *slog.Logger,
) *StudyHandler {
	if schedulerSvc == nil {
		panic("schedulerSvc cannot be nil for StudyHandler")
	}
	if reviewSvc == nil {
		panic("reviewSvc cannot be nil for StudyHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StudyHandler{
		scheduler: schedulerSvc,
		reviews:   reviewSvc,
		logger:    logger.With(slog.String("component", "study_handler")),
	}
}

// GetDueCards handles GET /study/cards.
func (h *StudyHandler) GetDueCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	deckID, err := optionalUUIDQuery(r, "deck_id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	limit, err := optionalIntQuery(r, "limit")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	due, err := h.scheduler.GetDueCards(r.Context(), userID, deckID, limit)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Debug("served due cards",
		slog.String("user_id", userID.String()),
		slog.Int("returned", due.ReturnedCount),
		slog.Int("total_due", due.TotalDue))
	shared.RespondWithJSON(w, r, http.StatusOK, StudyCardsResponse{
		Data:          cardsToResponse(due.Cards),
		TotalDue:      due.TotalDue,
		ReturnedCount: due.ReturnedCount,
	})
}

// GetSummary handles GET /study/summary.
func (h *StudyHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	summary, err := h.scheduler.GetDueSummary(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, summaryToResponse(summary))
}

// SubmitReview handles POST /study/review.
func (h *StudyHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req ReviewRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	cardID, err := uuid.Parse(req.FlashcardID)
	if err != nil {
		HandleAPIError(w, r, domain.NewValidationError("flashcard_id", "must be a UUID", domain.ErrInvalidID))
		return
	}
	grade, err := domain.ParseReviewGrade(req.Rating)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	result, err := h.reviews.SubmitReview(r.Context(), userID, cardID, grade)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Debug("review recorded",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("grade", grade.String()),
		slog.String("state", string(result.Card.State)))
	shared.RespondWithJSON(w, r, http.StatusOK, ReviewResponse{
		Flashcard:     cardToResponse(result.Card),
		NextIntervals: result.Intervals,
	})
}
