// Package api serves the dashboard analyses as JSON
package api

import (
	"log"
	"net/http"

	"enrolldash/app"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// multipartOverhead allows for boundaries and form fields around the file itself
const multipartOverhead = 1 << 20

// App is the JSON API application
type App struct {
	router  *chi.Mux
	service *app.DashboardService
}

// NewApp creates the API application over a dashboard service
func NewApp(service *app.DashboardService) *App {
	a := &App{
		router:  chi.NewRouter(),
		service: service,
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
	a.router.Use(a.limitUploadBody)
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)

	a.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/enrollment/summary", a.handleEnrollmentSummary)
		r.Post("/products/summary", a.handleProductsSummary)
		r.Get("/runs", a.handleListRuns)
	})
}

// limitUploadBody caps POST bodies at the configured upload size
func (a *App) limitUploadBody(next http.Handler) http.Handler {
	limit := a.service.Config().Uploads.MaxBytes
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && limit > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
		}
		next.ServeHTTP(w, r)
	})
}

// Handler exposes the router for tests and embedding
func (a *App) Handler() http.Handler {
	return a.router
}

// Start starts the HTTP server
func (a *App) Start(addr string) error {
	log.Printf("Starting enrollment API server on %s", addr)
	return http.ListenAndServe(addr, a.router)
}
