package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/rxkit/component"
	"github.com/kbukum/rxkit/rx"
)

// drainer runs a deferred scheduler's queued deliveries on an interval.
// Registered before the bus, it stops after it and delivers the completions
// the bus queued while finishing its topics.
type drainer struct {
	sched    *rx.Deferred
	interval time.Duration

	mu   sync.Mutex
	quit chan struct{}
	done chan struct{}
}

var (
	_ component.Component   = (*drainer)(nil)
	_ component.Describable = (*drainer)(nil)
)

func newDrainer(d *rx.Deferred, interval time.Duration) *drainer {
	return &drainer{sched: d, interval: interval}
}

func (d *drainer) Name() string { return "drainer" }

func (d *drainer) Start(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.quit != nil {
		return nil
	}
	d.quit = make(chan struct{})
	d.done = make(chan struct{})
	go d.loop(d.quit, d.done)
	return nil
}

func (d *drainer) loop(quit <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
			d.sched.Drain()
		}
	}
}

// Stop ends the loop, then runs whatever is still queued.
func (d *drainer) Stop(ctx context.Context) error {
	d.mu.Lock()
	quit, done := d.quit, d.done
	d.quit = nil
	d.mu.Unlock()

	if quit != nil {
		close(quit)
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	d.sched.Drain()
	return nil
}

func (d *drainer) Health(_ context.Context) component.Health {
	d.mu.Lock()
	running := d.quit != nil
	d.mu.Unlock()

	status := component.StatusHealthy
	if !running {
		status = component.StatusUnhealthy
	}
	return component.Health{
		Name:    d.Name(),
		Status:  status,
		Message: fmt.Sprintf("%d deliveries pending", d.sched.Pending()),
	}
}

func (d *drainer) Describe() component.Description {
	return component.Description{
		Name:    "Deferred Drain",
		Type:    "scheduler",
		Details: fmt.Sprintf("every %s", d.interval),
	}
}
