package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Domain catalog
		r.Route("/domains", func(r chi.Router) {
			r.Get("/", s.handleListDomains)
			r.Get("/{name}", s.handleGetDomain)
		})

		// Device registry
		r.Route("/devices", func(r chi.Router) {
			r.Get("/", s.handleListDevices)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetDevice)
				r.Post("/commands", s.handleExecuteCommand)
				r.Get("/query", s.handleQueryRange)
			})
		})

		// Areas
		r.Get("/areas", s.handleListAreas)

		// Provider descriptors
		r.Route("/providers", func(r chi.Router) {
			r.Get("/", s.handleListProviders)
			r.Get("/{id}", s.handleGetProvider)
		})

		// WebSocket
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"version":   s.version,
		"providers": s.manager.ProviderCount(),
	})
}
