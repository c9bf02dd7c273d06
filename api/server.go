/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/attendance/*  Punch recording and day classification (auth)
  /api/payroll/*     Computation and reporting
  /api/users/*       User directory
  /api/holidays/*    Holiday calendar

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
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Attendance routes (authenticated caller punches for themselves)
		r.Route("/attendance", func(r chi.Router) {
			r.Use(h.RequireAuth)
			r.Post("/timein", h.TimeIn)
			r.Post("/timeout", h.TimeOut)
			r.Post("/breakin", h.BreakIn)
			r.Post("/breakout", h.BreakOut)
			r.Get("/hours", h.DayHours)
			r.Get("/events", h.ListEvents)
		})

		// Payroll routes
		r.Route("/payroll", func(r chi.Router) {
			r.Post("/compute", h.ComputePayroll)
			r.Get("/report", h.PayrollReport)
		})

		// User routes
		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Put("/{id}/salary", h.SetSalary)
		})

		// Holiday routes
		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
		})
	})

	return r
}
