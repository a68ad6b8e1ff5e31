package device

import "time"

// Device is a single controllable or monitorable entity reported by a
// provider. A device implicitly belongs to exactly one provider: the one
// that returned it from discovery.
type Device struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Domain   string         `json:"domain"`
	AreaID   string         `json:"area_id,omitempty"`
	Features []string       `json:"features,omitempty"`
	Roles    []string       `json:"roles,omitempty"`
	State    map[string]any `json:"state,omitempty"`
}

// Area is a physical or logical grouping of devices (room, floor, garden).
type Area struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Event is a state change notification emitted by a provider.
type Event struct {
	DeviceID  string         `json:"device_id"`
	Domain    string         `json:"domain"`
	State     map[string]any `json:"state"`
	Timestamp time.Time      `json:"timestamp"`
}

// CommandResult is the outcome of a command execution. The owning
// provider's result is forwarded verbatim by the manager; Error carries a
// human-readable reason when Success is false.
type CommandResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// CommandNotification is delivered to command listeners after a successful
// execution. Parameters and failure reasons are deliberately not included.
type CommandNotification struct {
	DeviceID string `json:"device_id"`
	Command  string `json:"command"`
}

// Item is a single element returned by a range query against a queryable
// domain. Its fields are shaped by the domain's query ItemFields.
type Item map[string]any
