package provider

import "errors"

// Domain errors for the provider package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, provider.ErrInvalidTransition) {
//	    // report the rejected status change
//	}
var (
	// ErrInvalidDescriptor is returned when a descriptor spec is missing
	// required attributes.
	ErrInvalidDescriptor = errors.New("provider: invalid descriptor")

	// ErrInvalidTransition is returned when SetStatus is asked for an
	// edge the state machine does not permit.
	ErrInvalidTransition = errors.New("provider: invalid status transition")

	// ErrInvalidStatus is returned when a status value is not recognised.
	ErrInvalidStatus = errors.New("provider: invalid status")

	// ErrDescriptorExists is returned when registering a descriptor id
	// that is already present.
	ErrDescriptorExists = errors.New("provider: descriptor already registered")

	// ErrDescriptorNotFound is returned when a descriptor id is unknown.
	ErrDescriptorNotFound = errors.New("provider: descriptor not found")
)
