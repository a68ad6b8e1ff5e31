package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oakmere/homebus-core/internal/domain"
)

// handleListDomains returns the property domain catalog.
func (s *Server) handleListDomains(w http.ResponseWriter, _ *http.Request) {
	domains := domain.List()
	writeJSON(w, http.StatusOK, map[string]any{"domains": domains, "count": len(domains)})
}

// handleGetDomain returns a single domain by name.
func (s *Server) handleGetDomain(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	d, ok := domain.Get(name)
	if !ok {
		writeNotFound(w, "unknown domain: "+name)
		return
	}

	writeJSON(w, http.StatusOK, d)
}
