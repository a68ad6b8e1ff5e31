package device

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Logger defines the logging interface used by the Manager.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// defaultProviderTimeout bounds each provider I/O call inside a join so a
// hung integration cannot stall ConnectAll, DisconnectAll, or AllDevices.
const defaultProviderTimeout = 30 * time.Second

// Manager is the runtime registry over all active device providers.
//
// It holds no persistent state: the provider set and listener lists are
// the only mutable data, and every device read is a fresh aggregation.
// Registration and subscription may race with runtime reads; all shared
// lists are snapshotted under the mutex before use.
//
// All public methods are thread-safe.
type Manager struct {
	mu          sync.RWMutex
	providers   []Provider
	eventSubs   []eventSub
	commandSubs []commandSub

	timeout time.Duration
	logger  Logger
}

// NewManager creates an empty device manager.
func NewManager() *Manager {
	return &Manager{
		timeout: defaultProviderTimeout,
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the manager.
func (m *Manager) SetLogger(logger Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
}

// SetProviderTimeout overrides the per-provider I/O timeout used inside
// the aggregate joins. Zero or negative restores the default.
func (m *Manager) SetProviderTimeout(d time.Duration) {
	if d <= 0 {
		d = defaultProviderTimeout
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = d
}

// RegisterProvider appends a provider to the registered set and
// immediately subscribes to its event stream. Events are forwarded
// synchronously, in the provider's emission order, to every listener
// subscribed at delivery time.
//
// Registration order is preserved and is the tie-break for aggregate
// ordering and command routing. Registering the same provider twice is
// not deduplicated and produces duplicate event delivery; callers must
// register each provider exactly once. There is no unregister: provider
// lifetime is a process-lifetime decision made by the descriptor layer.
func (m *Manager) RegisterProvider(p Provider) {
	m.mu.Lock()
	m.providers = append(m.providers, p)
	logger := m.logger
	m.mu.Unlock()

	p.OnEvent(m.dispatchEvent)
	logger.Info("provider registered", "provider", p.ID())
}

// OnEvent subscribes a listener to all device events from all providers.
// Delivery starts with the next emitted event; there is no replay.
func (m *Manager) OnEvent(fn func(Event)) *Subscription {
	sub := &Subscription{}
	m.mu.Lock()
	m.eventSubs = append(m.eventSubs, eventSub{fn: fn, sub: sub})
	m.mu.Unlock()
	return sub
}

// OnCommandExecuted subscribes a listener to successful command
// executions. Listeners are not told about failures, parameters, or
// failure reasons.
func (m *Manager) OnCommandExecuted(fn func(CommandNotification)) *Subscription {
	sub := &Subscription{}
	m.mu.Lock()
	m.commandSubs = append(m.commandSubs, commandSub{fn: fn, sub: sub})
	m.mu.Unlock()
	return sub
}

// ConnectAll invokes every registered provider's Connect concurrently and
// waits for all of them, each under its own timeout.
//
// Failures are captured per provider and joined: the returned error names
// every provider that failed, and providers that connected successfully
// stay connected even when a sibling fails. Callers decide whether to
// abort startup or continue degraded.
func (m *Manager) ConnectAll(ctx context.Context) error {
	return m.forEachProvider(ctx, "connect", Provider.Connect)
}

// DisconnectAll is the shutdown counterpart of ConnectAll, with the same
// per-provider capture semantics.
func (m *Manager) DisconnectAll(ctx context.Context) error {
	return m.forEachProvider(ctx, "disconnect", Provider.Disconnect)
}

// forEachProvider runs op against every registered provider concurrently
// and joins the per-provider failures.
func (m *Manager) forEachProvider(ctx context.Context, opName string, op func(Provider, context.Context) error) error {
	providers, _, timeout := m.snapshot()

	errs := make([]error, len(providers))
	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()
			pctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			if err := op(p, pctx); err != nil {
				errs[i] = &ProviderError{ProviderID: p.ID(), Op: opName, Err: err}
			}
		}(i, p)
	}
	wg.Wait()

	return errors.Join(errs...)
}

// AllDevices fetches every registered provider's device listing
// concurrently and concatenates the results in provider registration
// order, preserving each provider's internal ordering. No deduplication
// is performed; a duplicate id across providers is logged and the
// first-registered provider's device shadows later ones in id lookups.
//
// When a provider's discovery fails, devices from the healthy providers
// are still returned alongside a joined error naming the failures.
func (m *Manager) AllDevices(ctx context.Context) ([]Device, error) {
	devices, _, err := m.discover(ctx)
	return devices, err
}

// AllAreas aggregates every provider's areas in registration order.
func (m *Manager) AllAreas(ctx context.Context) ([]Area, error) {
	providers, logger, timeout := m.snapshot()

	lists := make([][]Area, len(providers))
	errs := make([]error, len(providers))
	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()
			pctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			areas, err := p.GetAreas(pctx)
			if err != nil {
				errs[i] = &ProviderError{ProviderID: p.ID(), Op: "areas", Err: err}
				return
			}
			lists[i] = areas
		}(i, p)
	}
	wg.Wait()

	var out []Area
	for _, list := range lists {
		out = append(out, list...)
	}
	if err := errors.Join(errs...); err != nil {
		logger.Warn("area aggregation partially failed", "error", err)
		return out, err
	}
	return out, nil
}

// Device looks a device up by id in the aggregate listing. It performs a
// full discovery pass per call; with device counts in the tens this is
// cheaper than keeping an index coherent against live providers. The
// first match in provider registration order wins.
func (m *Manager) Device(ctx context.Context, id string) (Device, error) {
	devices, _, err := m.discover(ctx)
	for _, d := range devices {
		if d.ID == id {
			return d, nil
		}
	}
	if err != nil {
		return Device{}, err
	}
	return Device{}, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
}

// ExecuteCommand routes a command to the first registered provider whose
// current device listing claims the device id, and returns that
// provider's result verbatim. On success, and only on success, every
// command listener is notified with the (deviceID, command) pair in
// subscription order.
//
// The claim lookup and the execution are not atomic: a device can vanish
// between them. The provider's own result is the authority on the final
// outcome, not the lookup.
func (m *Manager) ExecuteCommand(ctx context.Context, deviceID, command string, params map[string]any) CommandResult {
	owner, _ := m.findOwner(ctx, deviceID)
	if owner == nil {
		return CommandResult{
			Success: false,
			Error:   fmt.Sprintf("No provider found for device: %s", deviceID),
		}
	}

	result := owner.ExecuteCommand(ctx, deviceID, command, params)
	if result.Success {
		m.notifyCommand(CommandNotification{DeviceID: deviceID, Command: command})
	}
	return result
}

// QueryRange routes a range query to the provider owning the device. The
// provider must implement RangeQueryer; providers that own the device but
// cannot answer range queries yield ErrNotQueryable.
func (m *Manager) QueryRange(ctx context.Context, deviceID string, params map[string]any) ([]Item, error) {
	owner, err := m.findOwner(ctx, deviceID)
	if owner == nil {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}

	q, ok := owner.(RangeQueryer)
	if !ok {
		return nil, fmt.Errorf("%w: provider %s", ErrNotQueryable, owner.ID())
	}
	return q.QueryRange(ctx, deviceID, params)
}

// ProviderCount returns the number of registered providers.
func (m *Manager) ProviderCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.providers)
}

// snapshot copies the shared state runtime reads iterate over.
func (m *Manager) snapshot() ([]Provider, Logger, time.Duration) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	providers := make([]Provider, len(m.providers))
	copy(providers, m.providers)
	return providers, m.logger, m.timeout
}

// discover fetches all provider listings concurrently and returns the
// concatenated devices plus a parallel claim table (device index →
// owning provider).
func (m *Manager) discover(ctx context.Context) ([]Device, []Provider, error) {
	providers, logger, timeout := m.snapshot()

	lists := make([][]Device, len(providers))
	errs := make([]error, len(providers))
	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()
			pctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			devices, err := p.GetDevices(pctx)
			if err != nil {
				errs[i] = &ProviderError{ProviderID: p.ID(), Op: "devices", Err: err}
				return
			}
			lists[i] = devices
		}(i, p)
	}
	wg.Wait()

	var devices []Device
	var owners []Provider
	firstOwner := make(map[string]string)
	for i, list := range lists {
		for _, d := range list {
			if prev, dup := firstOwner[d.ID]; dup {
				logger.Warn("duplicate device id across providers",
					"id", d.ID,
					"provider", providers[i].ID(),
					"first_provider", prev,
				)
			} else {
				firstOwner[d.ID] = providers[i].ID()
			}
			devices = append(devices, d)
			owners = append(owners, providers[i])
		}
	}

	return devices, owners, errors.Join(errs...)
}

// findOwner returns the first-registered provider claiming the device id.
func (m *Manager) findOwner(ctx context.Context, deviceID string) (Provider, error) {
	devices, owners, err := m.discover(ctx)
	for i, d := range devices {
		if d.ID == deviceID {
			return owners[i], err
		}
	}
	return nil, err
}

// dispatchEvent forwards a provider event synchronously to all active
// event listeners, in subscription order.
func (m *Manager) dispatchEvent(ev Event) {
	m.mu.RLock()
	subs := make([]eventSub, len(m.eventSubs))
	copy(subs, m.eventSubs)
	m.mu.RUnlock()

	for _, s := range subs {
		if s.sub.active() {
			s.fn(ev)
		}
	}
}

// notifyCommand forwards a command notification to all active command
// listeners, in subscription order.
func (m *Manager) notifyCommand(n CommandNotification) {
	m.mu.RLock()
	subs := make([]commandSub, len(m.commandSubs))
	copy(subs, m.commandSubs)
	m.mu.RUnlock()

	for _, s := range subs {
		if s.sub.active() {
			s.fn(n)
		}
	}
}
