package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oakmere/homebus-core/internal/provider"
)

// descriptorView is the JSON projection of a provider descriptor.
type descriptorView struct {
	ID            string                 `json:"id"`
	DisplayName   string                 `json:"display_name"`
	Description   string                 `json:"description,omitempty"`
	Origin        provider.Origin        `json:"origin"`
	Status        provider.Status        `json:"status"`
	StatusMessage string                 `json:"status_message,omitempty"`
	ConfigFields  []provider.ConfigField `json:"config_fields,omitempty"`
}

func viewOf(d *provider.Descriptor) descriptorView {
	return descriptorView{
		ID:            d.ID(),
		DisplayName:   d.DisplayName(),
		Description:   d.Description(),
		Origin:        d.Origin(),
		Status:        d.Status(),
		StatusMessage: d.StatusMessage(),
		ConfigFields:  d.GetConfigFields(),
	}
}

// handleListProviders returns all registered provider descriptors with
// their connectivity status.
func (s *Server) handleListProviders(w http.ResponseWriter, _ *http.Request) {
	descriptors := s.descriptors.List()

	views := make([]descriptorView, 0, len(descriptors))
	for _, d := range descriptors {
		views = append(views, viewOf(d))
	}

	writeJSON(w, http.StatusOK, map[string]any{"providers": views, "count": len(views)})
}

// handleGetProvider returns a single descriptor by id.
func (s *Server) handleGetProvider(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	d, err := s.descriptors.Get(id)
	if err != nil {
		if errors.Is(err, provider.ErrDescriptorNotFound) {
			writeNotFound(w, "unknown provider: "+id)
			return
		}
		writeInternalError(w, "failed to look up provider")
		return
	}

	writeJSON(w, http.StatusOK, viewOf(d))
}
