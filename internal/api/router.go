package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(app *App, metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", app.HealthHandler)
	r.Post("/analyze", app.AnalyzeHandler)
	r.Post("/quick-analyze", app.QuickAnalyzeHandler)
	r.Get("/report/{id}", app.GetReportHandler)
	r.Get("/download/{id}", app.DownloadReportHandler)
	r.Get("/reports", app.ListReportsHandler)

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	return r
}
