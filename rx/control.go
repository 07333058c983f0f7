package rx

import (
	"sync"

	"github.com/google/uuid"
)

// control tracks whether one attachment of a chain is live. Stopping it runs
// its detach hooks once, most recent first.
type control struct {
	id uuid.UUID

	mu      sync.Mutex
	stopped bool
	hooks   []func()
}

func newControl(id uuid.UUID) *control {
	return &control{id: id}
}

func (c *control) active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.stopped
}

// onStop registers fn to run when c stops. If c has already stopped, fn runs now.
func (c *control) onStop(fn func()) {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		fn()
		return
	}
	c.hooks = append(c.hooks, fn)
	c.mu.Unlock()
}

func (c *control) stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	hooks := c.hooks
	c.hooks = nil
	c.mu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
}

// child returns a control that stops when c stops and can also be stopped
// on its own, detaching only the part of the chain attached under it.
func (c *control) child() *control {
	ch := newControl(c.id)
	c.onStop(ch.stop)
	return ch
}
