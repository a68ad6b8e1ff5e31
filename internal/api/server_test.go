package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/oakmere/homebus-core/internal/device"
	"github.com/oakmere/homebus-core/internal/domain"
	"github.com/oakmere/homebus-core/internal/infrastructure/config"
	"github.com/oakmere/homebus-core/internal/infrastructure/logging"
	"github.com/oakmere/homebus-core/internal/provider"
)

// fakeProvider is a minimal in-memory provider for handler tests.
type fakeProvider struct {
	id      string
	devices []device.Device
	areas   []device.Area
	items   []device.Item
	failCmd string
}

func (p *fakeProvider) ID() string                       { return p.id }
func (p *fakeProvider) Connect(context.Context) error    { return nil }
func (p *fakeProvider) Disconnect(context.Context) error { return nil }
func (p *fakeProvider) OnEvent(func(device.Event))       {}
func (p *fakeProvider) GetDevices(context.Context) ([]device.Device, error) {
	return p.devices, nil
}
func (p *fakeProvider) GetAreas(context.Context) ([]device.Area, error) {
	return p.areas, nil
}

func (p *fakeProvider) ExecuteCommand(_ context.Context, deviceID, command string, _ map[string]any) device.CommandResult {
	if command == p.failCmd {
		return device.CommandResult{Success: false, Error: "backend rejected command"}
	}
	return device.CommandResult{Success: true}
}

func (p *fakeProvider) QueryRange(_ context.Context, deviceID string, _ map[string]any) ([]device.Item, error) {
	return p.items, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	manager := device.NewManager()
	manager.RegisterProvider(&fakeProvider{
		id: "p1",
		devices: []device.Device{
			{ID: "valve-main", Name: "Main Valve", Domain: "water", AreaID: "utility"},
			{ID: "calendar-house", Name: "House Calendar", Domain: "schedule", AreaID: "hall"},
		},
		areas: []device.Area{
			{ID: "utility", Name: "Utility Room"},
			{ID: "hall", Name: "Hall"},
		},
		items: []device.Item{
			{"uid": "e1", "title": "Bin collection", "all_day": true},
		},
		failCmd: "explode",
	})

	registry := provider.NewRegistry()
	desc, err := provider.NewDescriptor(provider.Spec{
		ID:          "test-provider",
		DisplayName: "Test Provider",
		Origin:      provider.OriginBuiltin,
		Factory: func(map[string]any) (device.Provider, error) {
			return &fakeProvider{id: "p-created"}, nil
		},
	})
	if err != nil {
		t.Fatalf("NewDescriptor() error = %v", err)
	}
	if err := registry.Register(desc); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	srv, err := New(Deps{
		Config:      config.APIConfig{Host: "127.0.0.1", Port: 0},
		WS:          config.WebSocketConfig{MaxMessageSize: 8192, PingInterval: 30, PongTimeout: 10},
		Logger:      logging.Default(),
		Manager:     manager,
		Descriptors: registry,
		Version:     "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return srv
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	srv.buildRouter().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response body: %v (%s)", err, rec.Body.String())
	}
	return body
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
	if body["version"] != "test" {
		t.Errorf("version field = %v, want test", body["version"])
	}
}

func TestHandleListDevices(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/devices", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["count"] != 2.0 {
		t.Errorf("count = %v, want 2", body["count"])
	}
}

func TestHandleListDevicesFiltered(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/devices?domain=water", "")
	body := decodeBody(t, rec)
	if body["count"] != 1.0 {
		t.Errorf("count = %v, want 1", body["count"])
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/devices?area_id=hall", "")
	body = decodeBody(t, rec)
	if body["count"] != 1.0 {
		t.Errorf("count = %v, want 1", body["count"])
	}
}

func TestHandleGetDevice(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/devices/valve-main", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["id"] != "valve-main" {
		t.Errorf("id = %v, want valve-main", body["id"])
	}
}

func TestHandleGetDeviceNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/devices/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleExecuteCommand(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/devices/valve-main/commands",
		`{"command":"set_state","params":{"valve_open":false}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	if id, _ := body["id"].(string); id == "" {
		t.Error("command response has no correlation id")
	}
}

func TestHandleExecuteCommandProviderFailure(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/devices/valve-main/commands",
		`{"command":"explode"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	if !strings.Contains(rec.Body.String(), "backend rejected command") {
		t.Errorf("error detail missing from body: %s", rec.Body.String())
	}
}

func TestHandleExecuteCommandValidation(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/devices/valve-main/commands", `{"params":{}}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing command: status = %d, want 400", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/v1/devices/valve-main/commands", `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad json: status = %d, want 400", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/v1/devices/nope/commands", `{"command":"x"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown device: status = %d, want 404", rec.Code)
	}
}

func TestHandleQueryRange(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet,
		"/api/v1/devices/calendar-house/query?start=2026-01-01T00:00:00Z&end=2026-01-08T00:00:00Z", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["count"] != 1.0 {
		t.Errorf("count = %v, want 1", body["count"])
	}
}

func TestHandleQueryRangeNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/devices/nope/query", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleListAreas(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/areas", "")
	body := decodeBody(t, rec)
	if body["count"] != 2.0 {
		t.Errorf("count = %v, want 2", body["count"])
	}
}

func TestHandleListDomains(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/domains", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody(t, rec)
	if int(body["count"].(float64)) != len(domain.List()) {
		t.Errorf("count = %v, want %d", body["count"], len(domain.List()))
	}
}

func TestHandleGetDomain(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/domains/water", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/domains/teleporter", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown domain: status = %d, want 404", rec.Code)
	}
}

func TestHandleListProviders(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/providers", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["count"] != 1.0 {
		t.Errorf("count = %v, want 1", body["count"])
	}
	if !strings.Contains(rec.Body.String(), `"status":"uninitialized"`) {
		t.Errorf("descriptor status missing: %s", rec.Body.String())
	}
}

func TestHandleGetProvider(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/providers/test-provider", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/providers/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown provider: status = %d, want 404", rec.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/health", "")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("response has no X-Request-ID header")
	}
}

func TestNewRequiresDeps(t *testing.T) {
	if _, err := New(Deps{}); err == nil {
		t.Error("New() with empty deps should fail")
	}
}
