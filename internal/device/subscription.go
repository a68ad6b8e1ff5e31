package device

import "sync/atomic"

// Subscription is the handle returned by OnEvent and OnCommandExecuted.
// Cancelling stops delivery; there is no replay, a listener only observes
// what happened between subscribe and cancel.
type Subscription struct {
	cancelled atomic.Bool
}

// Cancel stops delivery to this subscription. It is safe to call more
// than once and from any goroutine. A delivery already in flight on
// another goroutine may still complete.
func (s *Subscription) Cancel() {
	s.cancelled.Store(true)
}

// active reports whether the subscription should still receive deliveries.
func (s *Subscription) active() bool {
	return !s.cancelled.Load()
}

// eventSub pairs a listener with its cancellation handle.
type eventSub struct {
	fn  func(Event)
	sub *Subscription
}

// commandSub pairs a command listener with its cancellation handle.
type commandSub struct {
	fn  func(CommandNotification)
	sub *Subscription
}
