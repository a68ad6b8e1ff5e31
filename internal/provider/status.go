package provider

// Status is the connectivity state of a descriptor's provider instance.
type Status string

// Status constants.
const (
	StatusUninitialized Status = "uninitialized"
	StatusConnecting    Status = "connecting"
	StatusConnected     Status = "connected"
	StatusError         Status = "error"
	StatusDisconnected  Status = "disconnected"
)

// AllStatuses returns all valid status values.
func AllStatuses() []Status {
	return []Status{
		StatusUninitialized, StatusConnecting, StatusConnected,
		StatusError, StatusDisconnected,
	}
}

// Valid reports whether s is a recognised status value.
func (s Status) Valid() bool {
	switch s {
	case StatusUninitialized, StatusConnecting, StatusConnected, StatusError, StatusDisconnected:
		return true
	}
	return false
}

// legalTransitions encodes the permitted edges of the status machine.
// Disconnected is terminal: a descriptor's provider is only disconnected
// at process shutdown, there is no restart edge.
var legalTransitions = map[Status][]Status{
	StatusUninitialized: {StatusConnecting},
	StatusConnecting:    {StatusConnected, StatusError},
	StatusConnected:     {StatusDisconnected},
	StatusError:         {StatusConnecting, StatusDisconnected},
	StatusDisconnected:  {},
}

// canTransition reports whether from → to is a legal edge. Re-entering
// the current status is allowed so callers can refresh the status message.
func canTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
