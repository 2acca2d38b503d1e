package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/scry-study/internal/api"
	apiMiddleware "github.com/phrazzld/scry-study/internal/api/middleware"
)

// setupRouter mounts every route. /health is public; everything else needs
// a bearer token. /generate exists only when a generator is configured.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	studyHandler := api.NewStudyHandler(app.schedulerService, app.cardReviewService, app.logger)
	quotaHandler := api.NewQuotaHandler(app.quotaService, app.logger)
	dashboardHandler := api.NewDashboardHandler(app.dashboardService, app.logger)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Route("/study", func(r chi.Router) {
			r.Get("/cards", studyHandler.GetDueCards)
			r.Get("/summary", studyHandler.GetSummary)
			r.Post("/review", studyHandler.SubmitReview)
		})
		r.Get("/quota", quotaHandler.GetQuota)
		r.Get("/dashboard", dashboardHandler.GetDashboard)

		if app.generationService != nil {
			generationHandler := api.NewGenerationHandler(app.generationService, app.logger)
			r.Post("/generate", generationHandler.Generate)
		}
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})

	return r
}
