// Package device provides the Device Manager for Homebus Core.
//
// The Device Manager is the runtime registry over all active device
// providers. It holds the registered provider set, aggregates their device
// listings, fans provider events out to subscribers, and routes commands
// to the provider that owns the target device.
//
// # Architecture
//
//	┌────────────────────────────────────────────────────────────┐
//	│                       Device Manager                       │
//	│                                                            │
//	│  ┌───────────────┐  ┌────────────────┐  ┌───────────────┐  │
//	│  │   Providers   │  │   Event bus    │  │    Routing    │  │
//	│  │ (manager.go)  │  │(subscription.go│  │ (manager.go)  │  │
//	│  │               │  │   manager.go)  │  │               │  │
//	│  │ • ordered set │  │ • cancellable  │  │ • claim table │  │
//	│  │ • joins with  │  │   handles      │  │ • first owner │  │
//	│  │   timeouts    │  │ • sync fan-out │  │   wins        │  │
//	│  └───────────────┘  └────────────────┘  └───────────────┘  │
//	└────────────────────────────────────────────────────────────┘
//
// Providers implement the Provider contract (provider.go) and are
// registered exactly once; the manager never persists devices, every read
// is a fresh aggregation over the live providers.
//
// # Ordering
//
// Provider registration order is load-bearing: AllDevices concatenates in
// that order, and when two providers claim the same device id the
// first-registered provider wins both lookup and command routing.
// Listeners receive events and command notifications in subscription
// order.
package device
