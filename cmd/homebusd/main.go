// Homebus Core - Home Automation Hub
//
// This is the main entry point for the Homebus Core application: the
// device capability registry and command router at the centre of a
// Homebus installation. It brings up the MQTT bus connection, creates
// the configured providers from their descriptors, aggregates their
// devices into one registry, and serves the REST/WebSocket API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oakmere/homebus-core/internal/api"
	"github.com/oakmere/homebus-core/internal/device"
	"github.com/oakmere/homebus-core/internal/infrastructure/config"
	"github.com/oakmere/homebus-core/internal/infrastructure/logging"
	"github.com/oakmere/homebus-core/internal/infrastructure/mqtt"
	"github.com/oakmere/homebus-core/internal/provider"
	"github.com/oakmere/homebus-core/internal/providers/mqttbridge"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/homebus.yaml"

// shutdownTimeout bounds provider disconnection during shutdown.
const shutdownTimeout = 10 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for
// testability. Returning an error allows main to handle exit codes
// consistently.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting Homebus Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log.With("component", "mqtt"))
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	// Register builtin provider descriptors
	descriptors := provider.NewRegistry()
	bridgeDesc, err := provider.NewDescriptor(mqttbridge.Spec(mqttClient))
	if err != nil {
		return fmt.Errorf("building mqtt-bridge descriptor: %w", err)
	}
	if err := descriptors.Register(bridgeDesc); err != nil {
		return fmt.Errorf("registering mqtt-bridge descriptor: %w", err)
	}

	// Create the device manager and bring up configured providers
	manager := device.NewManager()
	manager.SetLogger(log.With("component", "device"))

	if err := startProviders(cfg, descriptors, manager, log); err != nil {
		return err
	}

	// Connect providers. Individual failures are isolated: healthy
	// providers stay connected, failed ones are flagged on their
	// descriptor.
	connectErr := manager.ConnectAll(ctx)
	applyConnectStatuses(descriptors, connectErr, log)
	log.Info("providers connected", "count", manager.ProviderCount())

	// Start API server
	server, err := api.New(api.Deps{
		Config:      cfg.API,
		WS:          cfg.WebSocket,
		Logger:      log.With("component", "api"),
		Manager:     manager,
		Descriptors: descriptors,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port))

	if err := healthCheck(ctx, mqttClient, server); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")

	// Disconnect providers with a fresh context; the parent is already
	// cancelled.
	disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := manager.DisconnectAll(disconnectCtx); err != nil {
		for _, failure := range device.ProviderFailures(err) {
			log.Warn("provider disconnect failed", "provider", failure.ProviderID, "error", failure.Err)
		}
	}
	markDisconnected(descriptors)

	log.Info("Homebus Core stopped")
	return nil
}

// startProviders creates and registers every enabled provider from
// configuration. A provider with invalid configuration aborts startup
// with all its problems listed; fixing configuration is cheaper than
// debugging a half-started hub.
func startProviders(cfg *config.Config, descriptors *provider.Registry, manager *device.Manager, log *logging.Logger) error {
	for _, pc := range cfg.Providers {
		if !pc.Enabled {
			log.Info("provider disabled, skipping", "id", pc.ID, "type", pc.Type)
			continue
		}

		desc, err := descriptors.Get(pc.Type)
		if err != nil {
			return fmt.Errorf("provider %s: %w", pc.ID, err)
		}

		// The instance id lives at the provider entry level in the
		// config file; descriptors expect it inside their config map.
		conf := make(map[string]any, len(pc.Config)+1)
		for k, v := range pc.Config {
			conf[k] = v
		}
		conf["id"] = pc.ID

		if problems := desc.ValidateConfig(conf); len(problems) > 0 {
			return fmt.Errorf("provider %s has invalid configuration: %v", pc.ID, problems)
		}

		p, err := desc.CreateProvider(conf)
		if err != nil {
			return fmt.Errorf("provider %s: %w", pc.ID, err)
		}

		manager.RegisterProvider(p)
		if err := desc.SetStatus(provider.StatusConnecting, "connecting to backend"); err != nil {
			return fmt.Errorf("provider %s: %w", pc.ID, err)
		}
		log.Info("provider created", "id", pc.ID, "type", pc.Type)
	}
	return nil
}

// applyConnectStatuses moves each connecting descriptor to connected or
// error based on the per-provider outcome of ConnectAll.
func applyConnectStatuses(descriptors *provider.Registry, connectErr error, log *logging.Logger) {
	failed := make(map[string]string)
	for _, failure := range device.ProviderFailures(connectErr) {
		failed[failure.ProviderID] = failure.Err.Error()
		log.Warn("provider connect failed", "provider", failure.ProviderID, "error", failure.Err)
	}

	for _, desc := range descriptors.List() {
		if desc.Status() != provider.StatusConnecting {
			continue
		}
		inst := desc.Instance()
		if inst == nil {
			continue
		}
		if reason, ok := failed[inst.ID()]; ok {
			desc.SetStatus(provider.StatusError, reason) //nolint:errcheck // Legal edge from connecting
		} else {
			desc.SetStatus(provider.StatusConnected, "connected") //nolint:errcheck // Legal edge from connecting
		}
	}
}

// markDisconnected moves every active descriptor to its terminal state
// during shutdown.
func markDisconnected(descriptors *provider.Registry) {
	for _, desc := range descriptors.List() {
		switch desc.Status() {
		case provider.StatusConnected, provider.StatusError:
			desc.SetStatus(provider.StatusDisconnected, "shutdown") //nolint:errcheck // Legal edge to disconnected
		}
	}
}

// healthCheck verifies all infrastructure connections are healthy.
func healthCheck(ctx context.Context, mqttClient *mqtt.Client, server *api.Server) error {
	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if err := server.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	return nil
}

// getConfigPath returns the configuration file path.
// Uses HOMEBUS_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("HOMEBUS_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
