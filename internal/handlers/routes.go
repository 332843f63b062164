package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires the HTTP API
func NewRouter(h *Handler, allowedOrigins []string, timeout time.Duration) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HealthCheck)
	r.Get("/metrics", h.GetMetrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/sports", h.ListSports)
		r.Get("/sports/{sport}/catalog", h.GetCatalog)
		r.Get("/options", h.GetOptions)
		r.Post("/analyze", h.Analyze)
	})

	return r
}
