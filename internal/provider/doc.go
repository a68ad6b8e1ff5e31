// Package provider implements the Provider Descriptor contract for
// Homebus Core.
//
// A descriptor is a plugin manifest: it declares the configuration fields
// an integration needs, validates raw configuration into a reportable
// problem list, manufactures the live device provider bound to that
// configuration, and tracks the instance's connectivity status through a
// guarded state machine.
//
// Descriptors are created at registry load time and live for the process.
// The status machine is driven externally by whoever manages the created
// provider's connect and disconnect calls:
//
//	uninitialized → connecting → {connected | error} → disconnected
//
// with error → connecting permitted as the retry path. SetStatus rejects
// every other transition with ErrInvalidTransition.
package provider
