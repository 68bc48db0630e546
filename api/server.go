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
  1. Logger:      Request logging
  2. Recoverer:   Panic recovery (500 instead of crash)
  3. RequestID:   Unique ID per request for tracing
  4. CORS:        Cross-origin requests for the SPA frontend
  5. RequireAuth: JWT bearer validation on every /api route

ROUTE GROUPS:
  /api/config            Calculation parameters
  /api/feriados/*        Holiday calendar administration
  /api/profile, /roles   Profile completion
  /api/processos/*       Requests: preview, submit, workflow, document
  /api/admin/*           Parameter administration

SEE ALSO:
  - handlers.go: Handler implementations
  - auth.go: JWT middleware
  - cmd/diaria/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig carries the wiring inputs for NewRouter.
type RouterConfig struct {
	JWTSecret      string
	AllowedOrigins []string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes, all authenticated
	r.Route("/api", func(r chi.Router) {
		r.Use(RequireAuth(cfg.JWTSecret))

		r.Get("/config", h.GetConfig)

		// Holiday routes
		r.Route("/feriados", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
			r.Post("/defaults", h.AddDefaultHolidays)
			r.Delete("/{data}", h.DeleteHoliday)
		})

		// Profile routes
		r.Get("/profile", h.GetProfile)
		r.Put("/profile", h.SaveProfile)
		r.Get("/roles", h.ListRoles)

		// Process routes
		r.Route("/processos", func(r chi.Router) {
			r.Post("/calcular-preview", h.CalculatePreview)
			r.Get("/", h.ListProcesses)
			r.Post("/", h.SubmitProcess)
			r.Get("/{id}", h.GetProcess)
			r.Get("/{id}/historico", h.GetHistory)
			r.Get("/{id}/acoes", h.GetActions)
			r.Post("/{id}/transicao", h.TransitionProcess)
			r.Get("/{id}/documento", h.GetDocument)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Put("/parametros", h.UpdateParameters)
		})
	})

	return r
}
