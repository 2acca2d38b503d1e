package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/service/card_generation"
)

// GenerationHandler serves AI-assisted card creation.
type GenerationHandler struct {
	generator card_generation.Service
	logger    *slog.Logger
}

// NewGenerationHandler creates a GenerationHandler.
func NewGenerationHandler(svc card_generation.Service, logger *slog.Logger) *GenerationHandler {
	if svc == nil {
		panic("svc cannot be nil for GenerationHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerationHandler{
		generator: svc,
		logger:    logger.With(slog.String("component", "generation_handler")),
	}
}

// Generate handles POST /generate.
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req GenerateRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	deckID, err := uuid.Parse(req.DeckID)
	if err != nil {
		HandleAPIError(w, r, domain.NewValidationError("deck_id", "must be a UUID", domain.ErrInvalidID))
		return
	}

	result, err := h.generator.Generate(r.Context(), userID, card_generation.Request{
		DeckID: deckID,
		Text:   req.Text,
		Count:  req.Count,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Info("cards generated",
		slog.String("user_id", userID.String()),
		slog.String("deck_id", deckID.String()),
		slog.Int("requested", result.Requested),
		slog.Int("generated", len(result.Cards)))
	shared.RespondWithJSON(w, r, http.StatusCreated, GenerateResponse{
		Data:           cardsToResponse(result.Cards),
		GeneratedCount: len(result.Cards),
		Quota:          QuotaSummary{Remaining: result.Remaining, ResetDate: result.ResetDate},
	})
}
