package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "site:\n  id: test-site\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Site.ID != "test-site" {
		t.Errorf("Site.ID = %q, want %q", cfg.Site.ID, "test-site")
	}
	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port = %d, want 8080", cfg.API.Port)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
site:
  id: house
mqtt:
  broker:
    host: broker.local
    port: 8883
    tls: true
api:
  port: 9090
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MQTT.Broker.Host != "broker.local" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "broker.local")
	}
	if !cfg.MQTT.Broker.TLS {
		t.Error("MQTT.Broker.TLS = false, want true")
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "site:\n  id: house\n")

	t.Setenv("HOMEBUS_MQTT_HOST", "env-broker")
	t.Setenv("HOMEBUS_API_PORT", "7000")
	t.Setenv("HOMEBUS_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MQTT.Broker.Host != "env-broker" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "env-broker")
	}
	if cfg.API.Port != 7000 {
		t.Errorf("API.Port = %d, want 7000", cfg.API.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoadProviders(t *testing.T) {
	path := writeConfig(t, `
site:
  id: house
providers:
  - id: mqtt-main
    type: mqtt-bridge
    enabled: true
    config:
      topic_prefix: homebus
      qos: 1
  - id: mqtt-garden
    type: mqtt-bridge
    enabled: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Providers) != 2 {
		t.Fatalf("len(Providers) = %d, want 2", len(cfg.Providers))
	}
	if cfg.Providers[0].ID != "mqtt-main" {
		t.Errorf("Providers[0].ID = %q, want %q", cfg.Providers[0].ID, "mqtt-main")
	}
	if !cfg.Providers[0].Enabled {
		t.Error("Providers[0].Enabled = false, want true")
	}
	if cfg.Providers[0].Config["topic_prefix"] != "homebus" {
		t.Errorf("Providers[0].Config[topic_prefix] = %v, want homebus", cfg.Providers[0].Config["topic_prefix"])
	}
	if cfg.Providers[1].Enabled {
		t.Error("Providers[1].Enabled = true, want false")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing site id",
			mutate:  func(c *Config) { c.Site.ID = "" },
			wantErr: "site.id is required",
		},
		{
			name:    "invalid qos",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: "mqtt.qos",
		},
		{
			name:    "invalid api port",
			mutate:  func(c *Config) { c.API.Port = 0 },
			wantErr: "api.port",
		},
		{
			name: "provider missing type",
			mutate: func(c *Config) {
				c.Providers = []ProviderConfig{{ID: "p1"}}
			},
			wantErr: "providers[0].type is required",
		},
		{
			name: "duplicate provider ids",
			mutate: func(c *Config) {
				c.Providers = []ProviderConfig{
					{ID: "p1", Type: "mqtt-bridge"},
					{ID: "p1", Type: "mqtt-bridge"},
				}
			},
			wantErr: "duplicated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Load() = nil, want error for missing file")
	}
}
