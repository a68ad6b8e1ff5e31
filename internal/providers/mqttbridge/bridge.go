package mqttbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/oakmere/homebus-core/internal/device"
	"github.com/oakmere/homebus-core/internal/domain"
	"github.com/oakmere/homebus-core/internal/infrastructure/mqtt"
)

// mqttClient is the slice of the MQTT client the bridge needs. The
// concrete implementation is the core's shared mqtt.Client; tests supply
// a fake without a broker.
type mqttClient interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Logger interface for optional logging support.
type Logger interface {
	Warn(msg string, args ...any)
}

// Bridge is a device provider backed by MQTT topics.
//
// All public methods are thread-safe.
type Bridge struct {
	id     string
	cfg    *bridgeConfig
	client mqttClient

	// byID indexes the configured devices.
	byID map[string]*deviceConfig

	mu        sync.RWMutex
	states    map[string]map[string]any
	sink      func(device.Event)
	connected bool

	logger   Logger
	loggerMu sync.RWMutex
}

// commandMessage is the JSON wire shape published to command topics.
type commandMessage struct {
	Command   string         `json:"command"`
	Params    map[string]any `json:"params,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// New creates a bridge from raw provider configuration. The
// configuration must have passed the descriptor's ValidateConfig.
func New(raw map[string]any, client mqttClient) (*Bridge, error) {
	cfg, err := parseConfig(raw)
	if err != nil {
		return nil, err
	}
	if cfg.ID == "" {
		return nil, fmt.Errorf("mqttbridge: id is required")
	}

	b := &Bridge{
		id:     cfg.ID,
		cfg:    cfg,
		client: client,
		byID:   make(map[string]*deviceConfig, len(cfg.Devices)),
		states: make(map[string]map[string]any, len(cfg.Devices)),
	}
	for i := range cfg.Devices {
		d := &cfg.Devices[i]
		b.byID[d.ID] = d
	}
	return b, nil
}

// SetLogger sets an optional logger for payload and subscription warnings.
func (b *Bridge) SetLogger(logger Logger) {
	b.loggerMu.Lock()
	b.logger = logger
	b.loggerMu.Unlock()
}

func (b *Bridge) warn(msg string, args ...any) {
	b.loggerMu.RLock()
	logger := b.logger
	b.loggerMu.RUnlock()
	if logger != nil {
		logger.Warn(msg, args...)
	}
}

// ID returns the provider instance identifier.
func (b *Bridge) ID() string { return b.id }

// Connect subscribes to every configured device's state topic. A failed
// subscription unwinds the ones already made and reports the error.
func (b *Bridge) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("mqttbridge %s: connect: %w", b.id, err)
	}

	var subscribed []string
	for i := range b.cfg.Devices {
		d := &b.cfg.Devices[i]
		deviceID := d.ID
		err := b.client.Subscribe(d.StateTopic, byte(b.cfg.QoS), func(topic string, payload []byte) error {
			return b.handleStateMessage(deviceID, payload)
		})
		if err != nil {
			for _, topic := range subscribed {
				b.client.Unsubscribe(topic)
			}
			return fmt.Errorf("mqttbridge %s: subscribing %s: %w", b.id, d.StateTopic, err)
		}
		subscribed = append(subscribed, d.StateTopic)
	}

	b.mu.Lock()
	b.connected = true
	b.mu.Unlock()
	return nil
}

// Disconnect removes the bridge's subscriptions. Unsubscribe failures
// are logged, not returned: the broker drops subscriptions with the
// session anyway.
func (b *Bridge) Disconnect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("mqttbridge %s: disconnect: %w", b.id, err)
	}

	for i := range b.cfg.Devices {
		d := &b.cfg.Devices[i]
		if err := b.client.Unsubscribe(d.StateTopic); err != nil {
			b.warn("unsubscribe failed", "provider", b.id, "topic", d.StateTopic, "error", err)
		}
	}

	b.mu.Lock()
	b.connected = false
	b.mu.Unlock()
	return nil
}

// GetDevices returns the configured devices with their live state.
// Order follows the configuration file.
func (b *Bridge) GetDevices(ctx context.Context) ([]device.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("mqttbridge %s: get devices: %w", b.id, err)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	devices := make([]device.Device, 0, len(b.cfg.Devices))
	for i := range b.cfg.Devices {
		d := &b.cfg.Devices[i]
		devices = append(devices, device.Device{
			ID:       d.ID,
			Name:     d.Name,
			Domain:   d.Domain,
			AreaID:   d.Area,
			Features: d.Features,
			Roles:    d.Roles,
			State:    copyState(b.states[d.ID]),
		})
	}
	return devices, nil
}

// GetAreas returns the distinct areas referenced by the configured
// devices, in first-reference order.
func (b *Bridge) GetAreas(ctx context.Context) ([]device.Area, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("mqttbridge %s: get areas: %w", b.id, err)
	}

	seen := make(map[string]struct{})
	var areas []device.Area
	for i := range b.cfg.Devices {
		d := &b.cfg.Devices[i]
		if d.Area == "" {
			continue
		}
		if _, ok := seen[d.Area]; ok {
			continue
		}
		seen[d.Area] = struct{}{}

		name := d.AreaName
		if name == "" {
			name = d.Area
		}
		areas = append(areas, device.Area{ID: d.Area, Name: name})
	}
	return areas, nil
}

// OnEvent registers the event sink. Later calls replace it.
func (b *Bridge) OnEvent(fn func(device.Event)) {
	b.mu.Lock()
	b.sink = fn
	b.mu.Unlock()
}

// ExecuteCommand validates the command payload against the device's
// domain and publishes it to the device's command topic.
func (b *Bridge) ExecuteCommand(ctx context.Context, deviceID, command string, params map[string]any) device.CommandResult {
	if err := ctx.Err(); err != nil {
		return device.CommandResult{Success: false, Error: err.Error()}
	}

	dc, ok := b.byID[deviceID]
	if !ok {
		return device.CommandResult{Success: false, Error: fmt.Sprintf("unknown device: %s", deviceID)}
	}

	dom, ok := domain.Get(dc.Domain)
	if !ok {
		return device.CommandResult{Success: false, Error: fmt.Sprintf("unknown domain: %s", dc.Domain)}
	}

	if err := domain.ValidatePayload(dom, params); err != nil {
		return device.CommandResult{Success: false, Error: err.Error()}
	}

	payload, err := json.Marshal(commandMessage{
		Command:   command,
		Params:    params,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return device.CommandResult{Success: false, Error: fmt.Sprintf("encoding command: %v", err)}
	}

	if err := b.client.Publish(dc.CommandTopic, payload, byte(b.cfg.QoS), false); err != nil {
		return device.CommandResult{Success: false, Error: err.Error()}
	}

	return device.CommandResult{Success: true}
}

// handleStateMessage merges a state topic payload into the device's
// live state and emits an event with the merged snapshot.
func (b *Bridge) handleStateMessage(deviceID string, payload []byte) error {
	dc, ok := b.byID[deviceID]
	if !ok {
		return fmt.Errorf("mqttbridge %s: state for unknown device %s", b.id, deviceID)
	}

	var update map[string]any
	if err := json.Unmarshal(payload, &update); err != nil {
		return fmt.Errorf("mqttbridge %s: decoding state for %s: %w", b.id, deviceID, err)
	}

	b.mu.Lock()
	state := b.states[deviceID]
	if state == nil {
		state = make(map[string]any, len(update))
		b.states[deviceID] = state
	}
	for k, v := range update {
		state[k] = v
	}
	snapshot := copyState(state)
	sink := b.sink
	b.mu.Unlock()

	if sink != nil {
		sink(device.Event{
			DeviceID:  deviceID,
			Domain:    dc.Domain,
			State:     snapshot,
			Timestamp: time.Now().UTC(),
		})
	}
	return nil
}

// copyState returns a shallow copy of a state map; nil stays nil.
func copyState(state map[string]any) map[string]any {
	if state == nil {
		return nil
	}
	out := make(map[string]any, len(state))
	for k, v := range state {
		out[k] = v
	}
	return out
}
