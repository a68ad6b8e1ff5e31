package provider

import (
	"fmt"
	"sync"

	"github.com/oakmere/homebus-core/internal/device"
)

// Origin identifies where a descriptor comes from.
type Origin string

// Origin constants.
const (
	OriginBuiltin Origin = "builtin"
	OriginPlugin  Origin = "plugin"
)

// Factory manufactures a live device provider from validated
// configuration. It is only defined for configuration that passed
// ValidateConfig; callers must validate first.
type Factory func(cfg map[string]any) (device.Provider, error)

// Validator is an optional hook for integration-specific configuration
// checks beyond the generic field walk (cross-field constraints,
// duplicate entries inside structured fields). It must follow the same
// rules as ValidateConfig: return problems, never panic.
type Validator func(cfg map[string]any) []string

// Spec declares a descriptor. All fields except Validate are required.
type Spec struct {
	ID           string
	DisplayName  string
	Description  string
	Origin       Origin
	ConfigFields []ConfigField
	Factory      Factory
	Validate     Validator
}

// Descriptor is a plugin manifest with a guarded connectivity state
// machine. It owns zero or one live provider instance at a time; creating
// a new one replaces the previous instance.
//
// All public methods are thread-safe.
type Descriptor struct {
	spec Spec

	mu       sync.RWMutex
	status   Status
	message  string
	instance device.Provider
}

// NewDescriptor creates a descriptor from its spec.
func NewDescriptor(spec Spec) (*Descriptor, error) {
	if spec.ID == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidDescriptor)
	}
	if spec.DisplayName == "" {
		return nil, fmt.Errorf("%w: display name is required", ErrInvalidDescriptor)
	}
	if spec.Origin != OriginBuiltin && spec.Origin != OriginPlugin {
		return nil, fmt.Errorf("%w: origin must be builtin or plugin", ErrInvalidDescriptor)
	}
	if spec.Factory == nil {
		return nil, fmt.Errorf("%w: factory is required", ErrInvalidDescriptor)
	}

	return &Descriptor{
		spec:   spec,
		status: StatusUninitialized,
	}, nil
}

// ID returns the descriptor's unique identifier.
func (d *Descriptor) ID() string { return d.spec.ID }

// DisplayName returns the human-readable name.
func (d *Descriptor) DisplayName() string { return d.spec.DisplayName }

// Description returns the descriptor's description.
func (d *Descriptor) Description() string { return d.spec.Description }

// Origin reports whether the descriptor is builtin or a plugin.
func (d *Descriptor) Origin() Origin { return d.spec.Origin }

// GetConfigFields returns the ordered configuration field descriptors.
// The returned slice is a copy; mutating it does not affect the schema.
func (d *Descriptor) GetConfigFields() []ConfigField {
	out := make([]ConfigField, len(d.spec.ConfigFields))
	copy(out, d.spec.ConfigFields)
	return out
}

// ValidateConfig checks raw configuration against the declared fields
// and the optional integration hook. It returns a list of human-readable
// problems; an empty result means the configuration is valid. It never
// panics and is idempotent: the same input always yields the same
// problems.
func (d *Descriptor) ValidateConfig(cfg map[string]any) []string {
	problems := validateFields(d.spec.ConfigFields, cfg)
	if d.spec.Validate != nil {
		problems = append(problems, d.spec.Validate(cfg)...)
	}
	return problems
}

// CreateProvider manufactures a provider bound to the given
// configuration, replacing any previously created instance. Behaviour on
// configuration that failed ValidateConfig is undefined by contract;
// validate first.
func (d *Descriptor) CreateProvider(cfg map[string]any) (device.Provider, error) {
	p, err := d.spec.Factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating provider %s: %w", d.spec.ID, err)
	}

	d.mu.Lock()
	d.instance = p
	d.mu.Unlock()
	return p, nil
}

// Instance returns the most recently created provider, or nil.
func (d *Descriptor) Instance() device.Provider {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.instance
}

// Status returns the current connectivity status.
func (d *Descriptor) Status() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.status
}

// StatusMessage returns the human-readable status detail, if any.
func (d *Descriptor) StatusMessage() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.message
}

// SetStatus drives the connectivity state machine. Only the edges listed
// in status.go are accepted; re-entering the current status refreshes
// the message. SetStatus is the sole mutator of status.
func (d *Descriptor) SetStatus(status Status, message string) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if !canTransition(d.status, status) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, d.status, status)
	}

	d.status = status
	d.message = message
	return nil
}
