// Package api provides the HTTP REST API and WebSocket server for
// Homebus Core.
//
// It exposes the device registry, the domain catalog, and provider
// descriptors to user interfaces, and relays device events and command
// notifications to WebSocket clients in real time.
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/oakmere/homebus-core/internal/device"
	"github.com/oakmere/homebus-core/internal/infrastructure/config"
	"github.com/oakmere/homebus-core/internal/infrastructure/logging"
	"github.com/oakmere/homebus-core/internal/provider"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight
// requests to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// WebSocket channels the server broadcasts on.
const (
	ChannelDeviceEvent     = "device.state_changed"
	ChannelCommandExecuted = "device.command_executed"
)

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config      config.APIConfig
	WS          config.WebSocketConfig
	Logger      *logging.Logger
	Manager     *device.Manager
	Descriptors *provider.Registry
	Version     string
}

// Server is the HTTP API server for Homebus Core.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg         config.APIConfig
	wsCfg       config.WebSocketConfig
	logger      *logging.Logger
	manager     *device.Manager
	descriptors *provider.Registry
	version     string

	server *http.Server
	hub    *Hub
	cancel context.CancelFunc

	eventSub   *device.Subscription
	commandSub *device.Subscription
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Manager == nil {
		return nil, fmt.Errorf("device manager is required")
	}
	if deps.Descriptors == nil {
		return nil, fmt.Errorf("descriptor registry is required")
	}

	return &Server{
		cfg:         deps.Config,
		wsCfg:       deps.WS,
		logger:      deps.Logger,
		manager:     deps.Manager,
		descriptors: deps.Descriptors,
		version:     deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It starts the WebSocket hub, subscribes to manager events for
// real-time broadcast, and launches the HTTP listener in a background
// goroutine. The server is stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	router := s.startRelay(ctx)

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// startRelay starts the WebSocket hub, subscribes to manager events for
// real-time broadcast, and returns the HTTP handler. It runs the hub on
// an internal context so Close() can stop it independently of the
// parent.
func (s *Server) startRelay(ctx context.Context) http.Handler {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	s.hub = NewHub(s.wsCfg, s.logger)
	go s.hub.Run(srvCtx)

	// Relay registry events to WebSocket clients.
	s.eventSub = s.manager.OnEvent(func(e device.Event) {
		s.hub.Broadcast(ChannelDeviceEvent, e)
	})
	s.commandSub = s.manager.OnCommandExecuted(func(n device.CommandNotification) {
		s.hub.Broadcast(ChannelCommandExecuted, n)
	})

	return s.buildRouter()
}

// Close gracefully shuts down the API server.
//
// It cancels the event relay subscriptions, stops the hub, and waits up
// to 10 seconds for in-flight requests to complete.
func (s *Server) Close() error {
	if s.eventSub != nil {
		s.eventSub.Cancel()
	}
	if s.commandSub != nil {
		s.commandSub.Cancel()
	}
	if s.cancel != nil {
		s.cancel()
	}

	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
