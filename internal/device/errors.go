package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrDeviceNotFound) {
//	    // handle not found case
//	}
var (
	// ErrDeviceNotFound is returned when no registered provider claims a
	// device id.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrNotQueryable is returned when a range query targets a device
	// whose provider does not implement RangeQueryer.
	ErrNotQueryable = errors.New("device: provider does not support range queries")
)

// ProviderError wraps a failure from a single provider inside an
// aggregate join (ConnectAll, DisconnectAll, AllDevices), so callers can
// recover per-provider outcomes from the joined error:
//
//	var pe *device.ProviderError
//	if errors.As(err, &pe) {
//	    // pe.ProviderID names the failed integration
//	}
type ProviderError struct {
	ProviderID string
	Op         string
	Err        error
}

func (e *ProviderError) Error() string {
	return "provider " + e.ProviderID + ": " + e.Op + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ProviderFailures extracts the per-provider failures from a joined error
// returned by ConnectAll, DisconnectAll, or AllDevices. A nil error yields
// nil.
func ProviderFailures(err error) []*ProviderError {
	if err == nil {
		return nil
	}

	var out []*ProviderError
	collect(err, &out)
	return out
}

func collect(err error, out *[]*ProviderError) {
	switch e := err.(type) {
	case *ProviderError:
		*out = append(*out, e)
	// errors.Join wraps its parts behind Unwrap() []error.
	case interface{ Unwrap() []error }:
		for _, part := range e.Unwrap() {
			collect(part, out)
		}
	default:
		if inner := errors.Unwrap(err); inner != nil {
			collect(inner, out)
		}
	}
}
