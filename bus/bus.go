package bus

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/kbukum/rxkit/component"
	"github.com/kbukum/rxkit/errors"
	"github.com/kbukum/rxkit/logger"
	"github.com/kbukum/rxkit/observability"
	"github.com/kbukum/rxkit/rx"
)

// topic is the type-independent view of an *rx.Subject the bus keeps.
type topic interface {
	Name() string
	Len() int
	IsFinished() bool
	Finish()
}

type topicEntry struct {
	subject  topic
	elemType string
}

// Options configures a Bus.
type Options struct {
	Logger      *logger.Logger
	Metrics     *observability.Metrics
	Diagnostics func(error)
}

// Bus is a registry of named topics.
type Bus struct {
	name string
	opts Options
	log  *logger.Logger

	mu      sync.RWMutex
	topics  map[string]topicEntry
	running bool
	stopped bool
}

var (
	_ component.Component   = (*Bus)(nil)
	_ component.Describable = (*Bus)(nil)
)

// New creates an empty bus.
func New(name string, opts Options) *Bus {
	log := opts.Logger
	if log == nil {
		log = logger.Get("bus")
	}
	return &Bus{
		name:   name,
		opts:   opts,
		log:    log.WithFields(logger.Fields("bus", name)),
		topics: make(map[string]topicEntry),
	}
}

// Topic returns the subject for name, creating it if needed. Asking for an
// existing topic with another element type is a TYPE_MISMATCH error; any
// request after Stop is a BUS_STOPPED error.
func Topic[T any](b *Bus, name string) (*rx.Subject[T], error) {
	want := reflect.TypeFor[T]().String()

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return nil, errors.BusStopped(b.name)
	}
	if entry, ok := b.topics[name]; ok {
		subject, ok := entry.subject.(*rx.Subject[T])
		if !ok {
			return nil, errors.TypeMismatch(name, entry.elemType, want)
		}
		return subject, nil
	}

	subject := rx.NewSubject[T](
		rx.WithName(name),
		rx.WithLogger(b.log),
		rx.WithMetrics(b.opts.Metrics),
		rx.WithDiagnostics(b.opts.Diagnostics),
	)
	b.topics[name] = topicEntry{subject: subject, elemType: want}
	b.log.Debug("topic created", logger.Fields(logger.FieldTopic, name, "type", want))
	return subject, nil
}

// Publish sends v to the named topic, creating the topic if needed.
func Publish[T any](b *Bus, name string, v T) error {
	subject, err := Topic[T](b, name)
	if err != nil {
		return err
	}
	subject.Send(v)
	return nil
}

// Topics returns the topic names in sorted order.
func (b *Bus) Topics() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.topics))
	for name := range b.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Name returns the component name.
func (b *Bus) Name() string { return b.name }

// Start marks the bus as running.
func (b *Bus) Start(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return errors.BusStopped(b.name)
	}
	b.running = true
	b.log.Info("bus started", logger.Fields("topics", len(b.topics)))
	return nil
}

// Stop finishes every topic and refuses new ones. Calling Stop again is a no-op.
func (b *Bus) Stop(_ context.Context) error {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return nil
	}
	b.stopped = true
	b.running = false
	entries := make([]topic, 0, len(b.topics))
	for _, entry := range b.topics {
		entries = append(entries, entry.subject)
	}
	b.mu.Unlock()

	for _, t := range entries {
		if !t.IsFinished() {
			t.Finish()
		}
	}
	b.log.Info("bus stopped", logger.Fields("topics", len(entries)))
	return nil
}

// Health reports the bus status with its topic and subscription counts.
func (b *Bus) Health(_ context.Context) component.Health {
	b.mu.RLock()
	defer b.mu.RUnlock()

	status := component.StatusHealthy
	if !b.running {
		status = component.StatusUnhealthy
	}
	subscribers := 0
	for _, entry := range b.topics {
		subscribers += entry.subject.Len()
	}
	return component.Health{
		Name:    b.name,
		Status:  status,
		Message: fmt.Sprintf("%d topics, %d subscriptions", len(b.topics), subscribers),
	}
}

// Describe returns summary info for the startup log.
func (b *Bus) Describe() component.Description {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return component.Description{
		Name:    "Topic Bus",
		Type:    "bus",
		Details: fmt.Sprintf("topics=%d", len(b.topics)),
	}
}
