package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/service/dashboard"
)

// DashboardHandler serves the study overview.
type DashboardHandler struct {
	dashboard dashboard.Service
	logger    *slog.Logger
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(svc dashboard.Service, logger *slog.Logger) *DashboardHandler {
	if svc == nil {
		panic("svc cannot be nil for DashboardHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{dashboard: svc, logger: logger.With(slog.String("component", "dashboard_handler"))}
}

// GetDashboard handles GET /dashboard.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	overview, err := h.dashboard.Overview(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, overviewToResponse(overview))
}
