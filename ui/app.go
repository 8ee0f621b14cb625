package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"dealscope/adapters/excel"
	"dealscope/app"
)

// App represents the HTTP API application
type App struct {
	router         *chi.Mux
	investigations *app.InvestigationService
	reports        *app.ReportService
	exporter       *excel.ReportExporter
}

// NewApp creates the API application over the pipeline services.
func NewApp(investigations *app.InvestigationService, reports *app.ReportService) *App {
	a := &App{
		router:         chi.NewRouter(),
		investigations: investigations,
		reports:        reports,
		exporter:       excel.NewReportExporter(),
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// Router returns the configured HTTP handler.
func (a *App) Router() http.Handler {
	return a.router
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
	a.router.Use(ownerContext)
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)

	a.router.Post("/api/investigations", a.handleInvestigate)

	a.router.Get("/api/reports", a.handleListReports)
	a.router.Get("/api/reports/{id}", a.handleGetReport)
	a.router.Delete("/api/reports/{id}", a.handleDeleteReport)
	a.router.Post("/api/reports/delete", a.handleDeleteReports)
	a.router.Get("/api/reports/{id}/export", a.handleExportReport)
	a.router.Get("/api/reports/{id}/summary.html", a.handleReportSummaryHTML)

	a.router.Get("/api/owners/me/risk-trends", a.handleRiskTrends)
}
