package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/oakmere/homebus-core/internal/device"
)

// handleListDevices returns the aggregated device listing, with optional
// query filters.
//
// Query parameters:
//   - domain: filter by domain (water, climate, etc.)
//   - area_id: filter by area
//
// Partial provider failures do not fail the listing; devices from
// healthy providers are returned and failures are logged.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	devices, err := s.manager.AllDevices(ctx)
	if err != nil {
		s.logger.Warn("device listing incomplete", "error", err)
	}
	if devices == nil {
		devices = []device.Device{}
	}

	if domain := r.URL.Query().Get("domain"); domain != "" {
		devices = filterDevices(devices, func(d device.Device) bool { return d.Domain == domain })
	}
	if areaID := r.URL.Query().Get("area_id"); areaID != "" {
		devices = filterDevices(devices, func(d device.Device) bool { return d.AreaID == areaID })
	}

	writeJSON(w, http.StatusOK, map[string]any{"devices": devices, "count": len(devices)})
}

// handleGetDevice returns a single device by id.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	d, err := s.manager.Device(r.Context(), id)
	if err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			writeNotFound(w, "device not found: "+id)
			return
		}
		writeInternalError(w, "failed to look up device")
		return
	}

	writeJSON(w, http.StatusOK, d)
}

// commandRequest is the body for POST /devices/{id}/commands.
type commandRequest struct {
	Command string         `json:"command"`
	Params  map[string]any `json:"params"`
}

// commandResponse echoes the provider's verbatim result with a
// correlation id clients can match against WebSocket notifications.
type commandResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// handleExecuteCommand routes a command to the device's owning provider.
//
// The provider's result is returned verbatim; a failed command is still
// a 200 with success=false, since the request itself was well-formed.
// An unknown device is a 404.
func (s *Server) handleExecuteCommand(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Command == "" {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "command is required")
		return
	}

	// Confirm ownership first so an unknown device maps to a 404 rather
	// than a command failure.
	if _, err := s.manager.Device(r.Context(), id); err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			writeNotFound(w, "device not found: "+id)
			return
		}
		writeInternalError(w, "failed to look up device")
		return
	}

	result := s.manager.ExecuteCommand(r.Context(), id, req.Command, req.Params)

	writeJSON(w, http.StatusOK, commandResponse{
		ID:      uuid.NewString(),
		Success: result.Success,
		Error:   result.Error,
	})
}

// handleQueryRange runs a range query against a queryable device.
// Query string parameters are passed through as the domain-shaped params
// (start, end for schedule).
func (s *Server) handleQueryRange(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	params := make(map[string]any)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	items, err := s.manager.QueryRange(r.Context(), id, params)
	if err != nil {
		switch {
		case errors.Is(err, device.ErrDeviceNotFound):
			writeNotFound(w, "device not found: "+id)
		case errors.Is(err, device.ErrNotQueryable):
			writeBadRequest(w, "device does not support range queries: "+id)
		default:
			writeInternalError(w, "query failed")
		}
		return
	}
	if items == nil {
		items = []device.Item{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

// handleListAreas returns the aggregated area listing.
func (s *Server) handleListAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := s.manager.AllAreas(r.Context())
	if err != nil {
		s.logger.Warn("area listing incomplete", "error", err)
	}
	if areas == nil {
		areas = []device.Area{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"areas": areas, "count": len(areas)})
}

func filterDevices(devices []device.Device, keep func(device.Device) bool) []device.Device {
	out := devices[:0:0]
	for _, d := range devices {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}
