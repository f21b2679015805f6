/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/users/{id}/*     Weekly grids, day submission, week review
  /api/entries/*        Single-entry update/delete
  /api/reports/*        Overtime reports
  /api/scenarios/*      Demo scenarios

SECURITY NOTE:
  Identity is taken from X-User-ID / X-User-Role headers; there is no
  authentication here. An upstream gateway must set the headers.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-ID", "X-User-Role"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Weekly grids and week review
		r.Route("/users/{id}", func(r chi.Router) {
			r.Get("/weeks/{date}", h.GetWeek)
			r.Put("/days/{date}", h.SubmitDay)
			r.Post("/weeks/{date}/confirm", h.ConfirmWeek)
			r.Post("/weeks/{date}/approve", h.ApproveWeek)
			r.Post("/weeks/{date}/reject", h.RejectWeek)
			r.Post("/weeks/{date}/unlock", h.UnlockWeek)
		})

		// Single entries
		r.Route("/entries", func(r chi.Router) {
			r.Put("/{id}", h.UpdateEntry)
			r.Delete("/{id}", h.DeleteEntry)
		})

		// Reports
		r.Route("/reports", func(r chi.Router) {
			r.Get("/overtime", h.OvertimeReport)
		})

		// Demo scenarios
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
		})
	})

	return r
}
