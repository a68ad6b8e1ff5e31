package main

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/oakmere/homebus-core/internal/device"
	"github.com/oakmere/homebus-core/internal/domain"
	"github.com/oakmere/homebus-core/internal/infrastructure/config"
	"github.com/oakmere/homebus-core/internal/infrastructure/logging"
	"github.com/oakmere/homebus-core/internal/provider"
)

// stubProvider is a minimal backend for exercising startup wiring.
type stubProvider struct {
	id  string
	cfg map[string]any
}

func (p *stubProvider) ID() string                         { return p.id }
func (p *stubProvider) Connect(_ context.Context) error    { return nil }
func (p *stubProvider) Disconnect(_ context.Context) error { return nil }
func (p *stubProvider) OnEvent(_ func(device.Event))       {}
func (p *stubProvider) GetDevices(_ context.Context) ([]device.Device, error) {
	return nil, nil
}
func (p *stubProvider) GetAreas(_ context.Context) ([]device.Area, error) {
	return nil, nil
}
func (p *stubProvider) ExecuteCommand(_ context.Context, _, _ string, _ map[string]any) device.CommandResult {
	return device.CommandResult{Success: true}
}

func stubSpec() provider.Spec {
	return provider.Spec{
		ID:          "stub",
		DisplayName: "Stub",
		Description: "Test backend.",
		Origin:      provider.OriginBuiltin,
		ConfigFields: []provider.ConfigField{
			{Name: "id", DisplayName: "Instance ID", Type: domain.FieldString, Required: true},
			{Name: "host", DisplayName: "Host", Type: domain.FieldString, Required: true},
		},
		Factory: func(cfg map[string]any) (device.Provider, error) {
			id, _ := cfg["id"].(string)
			return &stubProvider{id: id, cfg: cfg}, nil
		},
	}
}

func newStubRegistry(t *testing.T) *provider.Registry {
	t.Helper()
	reg := provider.NewRegistry()
	desc, err := provider.NewDescriptor(stubSpec())
	if err != nil {
		t.Fatalf("NewDescriptor failed: %v", err)
	}
	if err := reg.Register(desc); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return reg
}

func TestGetConfigPath_Default(t *testing.T) {
	t.Setenv("HOMEBUS_CONFIG", "")

	if got := getConfigPath(); got != defaultConfigPath {
		t.Errorf("expected %q, got %q", defaultConfigPath, got)
	}
}

func TestGetConfigPath_EnvOverride(t *testing.T) {
	t.Setenv("HOMEBUS_CONFIG", "/etc/homebus/custom.yaml")

	if got := getConfigPath(); got != "/etc/homebus/custom.yaml" {
		t.Errorf("expected env override, got %q", got)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("HOMEBUS_CONFIG", filepath.Join(t.TempDir(), "does-not-exist.yaml"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "loading config") {
		t.Errorf("expected config load error, got %v", err)
	}
}

func TestStartProviders(t *testing.T) {
	reg := newStubRegistry(t)
	manager := device.NewManager()
	cfg := &config.Config{
		Providers: []config.ProviderConfig{
			{ID: "stub-main", Type: "stub", Enabled: true, Config: map[string]any{"host": "10.0.0.5"}},
			{ID: "stub-off", Type: "stub", Enabled: false, Config: map[string]any{"host": "10.0.0.6"}},
		},
	}

	if err := startProviders(cfg, reg, manager, logging.Default()); err != nil {
		t.Fatalf("startProviders failed: %v", err)
	}

	if got := manager.ProviderCount(); got != 1 {
		t.Errorf("expected 1 registered provider, got %d", got)
	}

	desc, err := reg.Get("stub")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if desc.Status() != provider.StatusConnecting {
		t.Errorf("expected connecting status, got %s", desc.Status())
	}
	inst := desc.Instance()
	if inst == nil {
		t.Fatal("expected descriptor to hold the created instance")
	}
	if inst.ID() != "stub-main" {
		t.Errorf("expected instance id from config entry, got %q", inst.ID())
	}
}

func TestStartProviders_UnknownType(t *testing.T) {
	cfg := &config.Config{
		Providers: []config.ProviderConfig{
			{ID: "mystery", Type: "nope", Enabled: true},
		},
	}

	err := startProviders(cfg, newStubRegistry(t), device.NewManager(), logging.Default())
	if err == nil {
		t.Fatal("expected error for unknown provider type")
	}
	if !errors.Is(err, provider.ErrDescriptorNotFound) {
		t.Errorf("expected ErrDescriptorNotFound, got %v", err)
	}
}

func TestStartProviders_InvalidConfig(t *testing.T) {
	cfg := &config.Config{
		Providers: []config.ProviderConfig{
			{ID: "stub-main", Type: "stub", Enabled: true, Config: map[string]any{}},
		},
	}

	err := startProviders(cfg, newStubRegistry(t), device.NewManager(), logging.Default())
	if err == nil {
		t.Fatal("expected error for invalid provider config")
	}
	if !strings.Contains(err.Error(), "host is required") {
		t.Errorf("expected validation problems in error, got %v", err)
	}
}

func TestStartProviders_DoesNotMutateConfig(t *testing.T) {
	raw := map[string]any{"host": "10.0.0.5"}
	cfg := &config.Config{
		Providers: []config.ProviderConfig{
			{ID: "stub-main", Type: "stub", Enabled: true, Config: raw},
		},
	}

	if err := startProviders(cfg, newStubRegistry(t), device.NewManager(), logging.Default()); err != nil {
		t.Fatalf("startProviders failed: %v", err)
	}
	if _, ok := raw["id"]; ok {
		t.Error("expected original config map to stay untouched")
	}
}

func TestApplyConnectStatuses(t *testing.T) {
	reg := newStubRegistry(t)
	manager := device.NewManager()
	cfg := &config.Config{
		Providers: []config.ProviderConfig{
			{ID: "stub-main", Type: "stub", Enabled: true, Config: map[string]any{"host": "10.0.0.5"}},
		},
	}
	if err := startProviders(cfg, reg, manager, logging.Default()); err != nil {
		t.Fatalf("startProviders failed: %v", err)
	}
	desc, _ := reg.Get("stub")

	t.Run("success", func(t *testing.T) {
		applyConnectStatuses(reg, nil, logging.Default())
		if desc.Status() != provider.StatusConnected {
			t.Errorf("expected connected, got %s", desc.Status())
		}
	})

	t.Run("failure", func(t *testing.T) {
		// Return to connecting for the retry edge.
		if err := desc.SetStatus(provider.StatusError, "lost backend"); err != nil {
			t.Fatalf("SetStatus failed: %v", err)
		}
		if err := desc.SetStatus(provider.StatusConnecting, "retrying"); err != nil {
			t.Fatalf("SetStatus failed: %v", err)
		}

		connectErr := &device.ProviderError{
			ProviderID: "stub-main",
			Op:         "connect",
			Err:        errors.New("broker unreachable"),
		}
		applyConnectStatuses(reg, connectErr, logging.Default())
		if desc.Status() != provider.StatusError {
			t.Errorf("expected error status, got %s", desc.Status())
		}
		if !strings.Contains(desc.StatusMessage(), "broker unreachable") {
			t.Errorf("expected failure reason in status message, got %q", desc.StatusMessage())
		}
	})
}

func TestMarkDisconnected(t *testing.T) {
	reg := newStubRegistry(t)
	manager := device.NewManager()
	cfg := &config.Config{
		Providers: []config.ProviderConfig{
			{ID: "stub-main", Type: "stub", Enabled: true, Config: map[string]any{"host": "10.0.0.5"}},
		},
	}
	if err := startProviders(cfg, reg, manager, logging.Default()); err != nil {
		t.Fatalf("startProviders failed: %v", err)
	}
	applyConnectStatuses(reg, nil, logging.Default())

	markDisconnected(reg)

	desc, _ := reg.Get("stub")
	if desc.Status() != provider.StatusDisconnected {
		t.Errorf("expected disconnected, got %s", desc.Status())
	}
}
