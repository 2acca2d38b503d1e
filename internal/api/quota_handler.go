package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/service/quota"
)

// QuotaHandler reports generation usage.
type QuotaHandler struct {
	quota  quota.Service
	logger *slog.Logger
}

// NewQuotaHandler creates a QuotaHandler.
func NewQuotaHandler(svc quota.Service, logger *slog.Logger) *QuotaHandler {
	if svc == nil {
		panic("svc cannot be nil for QuotaHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QuotaHandler{quota: svc, logger: logger.With(slog.String("component", "quota_handler"))}
}

// GetQuota handles GET /quota.
func (h *QuotaHandler) GetQuota(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	status, err := h.quota.Status(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, quotaToResponse(status))
}
