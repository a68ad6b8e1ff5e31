package provider

import (
	"fmt"
	"sync"
)

// Registry holds the descriptors known to this process, in registration
// order. Builtin descriptors are registered at startup; plugin
// descriptors as their packages load.
//
// All public methods are thread-safe.
type Registry struct {
	mu          sync.RWMutex
	descriptors []*Descriptor
	byID        map[string]*Descriptor
}

// NewRegistry creates an empty descriptor registry.
func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[string]*Descriptor),
	}
}

// Register adds a descriptor. Duplicate ids are rejected.
func (r *Registry) Register(d *Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[d.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrDescriptorExists, d.ID())
	}
	r.descriptors = append(r.descriptors, d)
	r.byID[d.ID()] = d
	return nil
}

// Get returns the descriptor with the given id.
func (r *Registry) Get(id string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDescriptorNotFound, id)
	}
	return d, nil
}

// List returns all descriptors in registration order.
func (r *Registry) List() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}
