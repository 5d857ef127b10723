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
  /api/farmers/*    Farmer management + per-farmer logs
  /api/logs/*       Daily shift entry
  /api/advances/*   Advance tracker
  /api/reports/*    Statements (JSON and printable)
  /api/calendar/*   BS month labels
  /api/scenarios/*  Demo scenarios (dev only)

SECURITY NOTE:
  No authentication middleware. The books run on a trusted LAN; all
  endpoints are public.

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
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Farmer routes
		r.Route("/farmers", func(r chi.Router) {
			r.Get("/", h.ListFarmers)
			r.Post("/", h.CreateFarmer)
			r.Get("/next-no", h.NextFarmerNo)
			r.Get("/{id}", h.GetFarmer)
			r.Put("/{id}", h.UpdateFarmer)
			r.Delete("/{id}", h.DeleteFarmer)
			r.Get("/{id}/logs", h.ListFarmerLogs)
		})

		// Daily log routes
		r.Route("/logs", func(r chi.Router) {
			r.Get("/", h.ListLogs)
			r.Post("/", h.SaveLog)
			r.Delete("/{id}", h.DeleteLog)
		})

		// Advance routes
		r.Route("/advances", func(r chi.Router) {
			r.Get("/", h.ListAdvances)
			r.Post("/", h.CreateAdvance)
			r.Delete("/{id}", h.DeleteAdvance)
		})

		// Report routes
		r.Route("/reports", func(r chi.Router) {
			r.Get("/statements", h.GetStatements)
			r.Get("/statements/print", h.PrintStatements)
		})

		// Calendar routes
		r.Route("/calendar", func(r chi.Router) {
			r.Get("/months", h.GetCalendar)
		})

		// Scenario routes (dev/demo only)
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
		})
	})

	return r
}
