package rx

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// State is the lifecycle state of a Subscription.
type State int32

const (
	// StateActive receives values.
	StateActive State = iota
	// StateCancelled was cancelled by its owner. Terminal.
	StateCancelled
	// StateCompleted received its completion. Terminal.
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateCancelled:
		return "cancelled"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Subscription is a live attachment of one subscriber to a composed chain.
// The caller that subscribed owns it; sources only keep a registration that
// Cancel removes.
type Subscription struct {
	id    uuid.UUID
	state atomic.Int32
	ctl   *control
}

func newSubscription() *Subscription {
	id := uuid.New()
	return &Subscription{id: id, ctl: newControl(id)}
}

// ID returns the subscription's unique identifier.
func (s *Subscription) ID() uuid.UUID { return s.id }

// State returns the current lifecycle state.
func (s *Subscription) State() State { return State(s.state.Load()) }

// Active reports whether the subscription still receives values.
func (s *Subscription) Active() bool { return s.State() == StateActive }

// Cancel detaches the subscription from its source. Once Cancel returns no
// further values or completion are delivered. Cancelling twice, or after
// completion, is a no-op.
func (s *Subscription) Cancel() {
	if s.state.CompareAndSwap(int32(StateActive), int32(StateCancelled)) {
		s.ctl.stop()
	}
}

// complete moves an active subscription to completed and detaches it.
// It reports whether the transition happened.
func (s *Subscription) complete() bool {
	if !s.state.CompareAndSwap(int32(StateActive), int32(StateCompleted)) {
		return false
	}
	s.ctl.stop()
	return true
}
