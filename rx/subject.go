package rx

import (
	"context"
	"sync"

	"github.com/kbukum/rxkit/errors"
	"github.com/kbukum/rxkit/logger"
	"github.com/kbukum/rxkit/observability"
)

// SubjectOption configures a Subject.
type SubjectOption func(*subjectConfig)

type subjectConfig struct {
	name        string
	log         *logger.Logger
	metrics     *observability.Metrics
	diagnostics func(error)
}

// WithName sets the name used in logs and metrics.
func WithName(name string) SubjectOption {
	return func(c *subjectConfig) { c.name = name }
}

// WithLogger sets the subject's logger.
func WithLogger(l *logger.Logger) SubjectOption {
	return func(c *subjectConfig) { c.log = l }
}

// WithMetrics records subject activity on m.
func WithMetrics(m *observability.Metrics) SubjectOption {
	return func(c *subjectConfig) { c.metrics = m }
}

// WithDiagnostics installs a hook that receives recovered subscriber panics
// and sends dropped after completion. It is never called while the subject
// holds its lock.
func WithDiagnostics(fn func(error)) SubjectOption {
	return func(c *subjectConfig) { c.diagnostics = fn }
}

// entry is the subject's registration for one attached chain. since is the
// first event sequence number the entry may receive.
type entry[T any] struct {
	ctl   *control
	down  sink[T]
	since uint64
}

// event is one queued delivery. A nil completion means a value. A non-nil
// target limits delivery to that entry.
type event[T any] struct {
	value      T
	completion *Completion
	target     *entry[T]
	seq        uint64
}

// Subject is the mutable root of a chain: values and a completion are pushed
// into it with Send and SendCompletion and fanned out to every active
// subscription in subscription order.
//
// Deliveries for one subject never run concurrently. A Send made while
// another delivery is in progress, from a subscriber callback or another
// goroutine, is queued and delivered by the call already in progress.
type Subject[T any] struct {
	cfg subjectConfig
	log *logger.Logger
	pub *Publisher[T]

	mu         sync.Mutex
	entries    []*entry[T]
	queue      []event[T]
	draining   bool
	seq        uint64
	finished   bool
	completion Completion

	replay     bool
	current    T
	hasCurrent bool
}

// NewSubject creates a subject that delivers only values sent after a
// subscription attaches.
func NewSubject[T any](opts ...SubjectOption) *Subject[T] {
	cfg := subjectConfig{name: "subject"}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = logger.Get("rx")
	}
	s := &Subject[T]{
		cfg: cfg,
		log: cfg.log.WithFields(logger.Fields(logger.FieldSubject, cfg.name)),
	}
	s.pub = newPublisher(s.attach)
	return s
}

// NewCurrentValueSubject creates a subject that holds its latest value and
// delivers it to each new subscription before any later value.
func NewCurrentValueSubject[T any](initial T, opts ...SubjectOption) *Subject[T] {
	s := NewSubject[T](opts...)
	s.replay = true
	s.current = initial
	s.hasCurrent = true
	return s
}

// Name returns the subject's name.
func (s *Subject[T]) Name() string { return s.cfg.name }

// Publisher returns the publisher rooted at this subject. Every chain built
// from it shares the subject; each subscription is registered independently.
func (s *Subject[T]) Publisher() *Publisher[T] { return s.pub }

// Len returns the number of registered subscriptions.
func (s *Subject[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// IsFinished reports whether a completion has been sent.
func (s *Subject[T]) IsFinished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// Completion returns the stored completion once the subject has finished.
func (s *Subject[T]) Completion() (Completion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completion, s.finished
}

// Value returns the latest value of a current-value subject. It reports
// false for a passthrough subject.
func (s *Subject[T]) Value() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.hasCurrent
}

// Send delivers v to every active subscription. After completion the value
// is dropped.
func (s *Subject[T]) Send(v T) {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		s.dropped()
		return
	}
	if s.replay {
		s.current = v
	}
	s.seq++
	s.queue = append(s.queue, event[T]{value: v, seq: s.seq})
	s.mu.Unlock()

	s.cfg.metrics.RecordSent(context.Background(), s.cfg.name)
	s.drain()
}

// SendCompletion finishes the subject. The first completion is stored and
// delivered once to every active subscription, after which the list is
// cleared. Later completions and values are dropped.
func (s *Subject[T]) SendCompletion(c Completion) {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		s.dropped()
		return
	}
	s.finished = true
	s.completion = c
	s.seq++
	s.queue = append(s.queue, event[T]{completion: &c, seq: s.seq})
	s.mu.Unlock()

	status := "finished"
	if c.IsFailure() {
		status = "failed"
		s.log.Debug("subject failed", logger.Fields(logger.FieldError, c.Err().Error()))
	} else {
		s.log.Debug("subject finished")
	}
	s.cfg.metrics.RecordCompletion(context.Background(), s.cfg.name, status)
	s.drain()
}

// Finish sends the successful completion.
func (s *Subject[T]) Finish() { s.SendCompletion(Finished) }

// Fail sends a failure completion carrying err.
func (s *Subject[T]) Fail(err error) { s.SendCompletion(Failed(err)) }

func (s *Subject[T]) attach(ctl *control, down sink[T]) {
	if !ctl.active() {
		return
	}

	s.mu.Lock()
	if s.finished {
		c := s.completion
		s.mu.Unlock()
		down.complete(c)
		return
	}
	e := &entry[T]{ctl: ctl, down: down, since: s.seq + 1}
	s.entries = append(s.entries, e)
	if s.replay {
		s.queue = append(s.queue, event[T]{value: s.current, target: e, seq: s.seq})
	}
	count := len(s.entries)
	s.mu.Unlock()

	s.cfg.metrics.RecordSubscribed(context.Background(), s.cfg.name, 1)
	s.log.Debug("subscription attached", logger.Fields(
		logger.FieldSubscriptionID, ctl.id.String(),
		logger.FieldSubscribers, count,
	))
	ctl.onStop(func() { s.remove(e) })

	if s.replay {
		s.drain()
	}
}

func (s *Subject[T]) remove(e *entry[T]) {
	s.mu.Lock()
	found := false
	for i, cur := range s.entries {
		if cur == e {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			found = true
			break
		}
	}
	count := len(s.entries)
	s.mu.Unlock()

	if !found {
		return
	}
	s.cfg.metrics.RecordSubscribed(context.Background(), s.cfg.name, -1)
	s.log.Debug("subscription detached", logger.Fields(
		logger.FieldSubscriptionID, e.ctl.id.String(),
		logger.FieldSubscribers, count,
	))
}

// drain delivers queued events in order until the queue is empty. Only one
// caller drains at a time; others return after enqueueing.
func (s *Subject[T]) drain() {
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	var failures []error
	for len(s.queue) > 0 {
		ev := s.queue[0]
		s.queue[0] = event[T]{}
		s.queue = s.queue[1:]
		targets := s.targetsLocked(ev)
		cleared := 0
		if ev.completion != nil {
			cleared = len(s.entries)
			s.entries = nil
		}
		s.mu.Unlock()

		s.cfg.metrics.RecordSubscribed(context.Background(), s.cfg.name, -cleared)
		failures = append(failures, s.dispatch(ev, targets)...)
		s.mu.Lock()
	}
	s.queue = nil
	s.draining = false
	s.mu.Unlock()

	if s.cfg.diagnostics != nil {
		for _, err := range failures {
			s.cfg.diagnostics(err)
		}
	}
}

func (s *Subject[T]) targetsLocked(ev event[T]) []*entry[T] {
	if ev.target != nil {
		return []*entry[T]{ev.target}
	}
	targets := make([]*entry[T], 0, len(s.entries))
	for _, e := range s.entries {
		if e.since <= ev.seq {
			targets = append(targets, e)
		}
	}
	return targets
}

// dispatch delivers ev to each target still active and returns the panics
// recovered along the way.
func (s *Subject[T]) dispatch(ev event[T], targets []*entry[T]) []error {
	var failures []error
	delivered := 0
	for _, e := range targets {
		if !e.ctl.active() {
			continue
		}
		if err := s.deliver(e, ev); err != nil {
			failures = append(failures, err)
			continue
		}
		delivered++
	}
	if ev.completion == nil {
		s.cfg.metrics.RecordDelivered(context.Background(), s.cfg.name, delivered)
	}
	return failures
}

func (s *Subject[T]) deliver(e *entry[T], ev event[T]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			appErr := errors.SubscriberPanic(e.ctl.id.String(), r)
			s.log.Error("subscriber panicked", logger.Fields(
				logger.FieldSubscriptionID, e.ctl.id.String(),
				logger.FieldError, appErr.Message,
			))
			s.cfg.metrics.RecordPanic(context.Background(), s.cfg.name)
			err = appErr
		}
	}()
	if ev.completion != nil {
		e.down.complete(*ev.completion)
	} else {
		e.down.next(ev.value)
	}
	return nil
}

func (s *Subject[T]) dropped() {
	s.log.Debug("value dropped after completion")
	s.cfg.metrics.RecordDropped(context.Background(), s.cfg.name, "finished")
	if s.cfg.diagnostics != nil {
		s.cfg.diagnostics(errors.SubjectFinished(s.cfg.name))
	}
}
