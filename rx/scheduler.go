package rx

import (
	"sync"

	"github.com/kbukum/rxkit/errors"
)

// Scheduler modes accepted by SchedulerFor.
const (
	ModeImmediate = "immediate"
	ModeDeferred  = "deferred"
)

// Scheduler runs delivery tasks for ReceiveOn.
type Scheduler interface {
	Schedule(task func())
}

type immediate struct{}

func (immediate) Schedule(task func()) { task() }

// Immediate runs each task inline on the calling goroutine.
var Immediate Scheduler = immediate{}

// Deferred queues tasks until its owner calls Drain.
type Deferred struct {
	mu    sync.Mutex
	tasks []func()
}

// NewDeferred creates an empty deferred scheduler.
func NewDeferred() *Deferred {
	return &Deferred{}
}

// Schedule queues task.
func (d *Deferred) Schedule(task func()) {
	d.mu.Lock()
	d.tasks = append(d.tasks, task)
	d.mu.Unlock()
}

// Pending returns the number of queued tasks.
func (d *Deferred) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.tasks)
}

// Drain runs queued tasks in FIFO order, including tasks scheduled while
// draining, and returns how many ran.
func (d *Deferred) Drain() int {
	n := 0
	for {
		d.mu.Lock()
		if len(d.tasks) == 0 {
			d.mu.Unlock()
			return n
		}
		task := d.tasks[0]
		d.tasks[0] = nil
		d.tasks = d.tasks[1:]
		d.mu.Unlock()

		task()
		n++
	}
}

// SchedulerFor returns the scheduler for a configured mode. An empty mode
// means immediate.
func SchedulerFor(mode string) (Scheduler, error) {
	switch mode {
	case "", ModeImmediate:
		return Immediate, nil
	case ModeDeferred:
		return NewDeferred(), nil
	default:
		return nil, errors.InvalidInput("scheduler", "unknown scheduler mode "+mode)
	}
}
