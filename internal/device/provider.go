package device

import "context"

// Provider is a live connection to one device backend. Implementations
// live outside this package (builtin bridges, plugins); the manager
// consumes them through this contract only.
//
// Connect and Disconnect may fail with transport-specific errors; retry
// and backoff are the provider's own responsibility. GetDevices must
// return devices in a stable order of the provider's choosing, since the
// manager preserves it in aggregate listings.
type Provider interface {
	// ID returns the stable identifier of this provider instance.
	ID() string

	// Connect establishes the backend connection.
	Connect(ctx context.Context) error

	// Disconnect tears the backend connection down.
	Disconnect(ctx context.Context) error

	// GetDevices returns the provider's current device listing.
	GetDevices(ctx context.Context) ([]Device, error)

	// GetAreas returns the areas the provider knows about.
	GetAreas(ctx context.Context) ([]Area, error)

	// OnEvent registers the provider's single event sink. The manager
	// calls this exactly once, during registration; later calls replace
	// the sink.
	OnEvent(fn func(Event))

	// ExecuteCommand runs a command against one of the provider's
	// devices and reports the outcome. It must not panic on unknown
	// devices or commands; those are Success=false results.
	ExecuteCommand(ctx context.Context, deviceID, command string, params map[string]any) CommandResult
}

// RangeQueryer is the optional secondary read contract for providers that
// own devices in queryable domains (schedule and friends). Params are
// shaped by the domain's query Params schema.
type RangeQueryer interface {
	QueryRange(ctx context.Context, deviceID string, params map[string]any) ([]Item, error)
}
