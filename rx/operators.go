package rx

import (
	"github.com/kbukum/rxkit/outcome"
)

// Map transforms each value using f. A panic in f is not converted into a
// failure; use TryMap for functions that can fail.
func Map[T, U any](p *Publisher[T], f func(T) U) *Publisher[U] {
	return newPublisher(func(ctl *control, down sink[U]) {
		p.attach(ctl, sink[T]{
			next:     func(v T) { down.next(f(v)) },
			complete: down.complete,
		})
	})
}

// TryMap transforms each value using f. The first error ends the
// subscription with that error as a failure completion.
func TryMap[T, U any](p *Publisher[T], f func(T) (U, error)) *Publisher[U] {
	return FlatMap(p, func(v T) outcome.Outcome[U] {
		u, err := f(v)
		return outcome.Of(u, err)
	})
}

// FlatMap transforms each value into an Outcome. A success is delivered;
// the first failure detaches the stage from its source and ends the
// subscription with that failure.
func FlatMap[T, U any](p *Publisher[T], f func(T) outcome.Outcome[U]) *Publisher[U] {
	return newPublisher(func(ctl *control, down sink[U]) {
		up := ctl.child()
		p.attach(up, sink[T]{
			next: func(v T) {
				if !up.active() {
					return
				}
				u, err := f(v).Get()
				if err != nil {
					up.stop()
					down.complete(Failed(err))
					return
				}
				down.next(u)
			},
			complete: func(c Completion) {
				if up.active() {
					down.complete(c)
				}
			},
		})
	})
}

// Filter keeps only values that satisfy the predicate. Other values are
// dropped without any signal.
func Filter[T any](p *Publisher[T], keep func(T) bool) *Publisher[T] {
	return newPublisher(func(ctl *control, down sink[T]) {
		p.attach(ctl, sink[T]{
			next: func(v T) {
				if keep(v) {
					down.next(v)
				}
			},
			complete: down.complete,
		})
	})
}

// MapError rewrites the error of a failure completion.
func MapError[T any](p *Publisher[T], f func(error) error) *Publisher[T] {
	return newPublisher(func(ctl *control, down sink[T]) {
		p.attach(ctl, sink[T]{
			next: down.next,
			complete: func(c Completion) {
				down.complete(outcome.MapError(c, f))
			},
		})
	})
}

// CatchError replaces a failed upstream with the publisher returned by
// handler. A nil publisher lets the failure through.
func CatchError[T any](p *Publisher[T], handler func(error) *Publisher[T]) *Publisher[T] {
	return newPublisher(func(ctl *control, down sink[T]) {
		up := ctl.child()
		p.attach(up, sink[T]{
			next: func(v T) {
				if up.active() {
					down.next(v)
				}
			},
			complete: func(c Completion) {
				if !up.active() {
					return
				}
				up.stop()
				if c.IsSuccess() {
					down.complete(c)
					return
				}
				fallback := handler(c.Err())
				if fallback == nil {
					down.complete(c)
					return
				}
				if ctl.active() {
					fallback.attach(ctl, down)
				}
			},
		})
	})
}

// ReplaceError turns a failure into a final value followed by Finished.
func ReplaceError[T any](p *Publisher[T], v T) *Publisher[T] {
	return CatchError(p, func(error) *Publisher[T] { return Just(v) })
}

// Retry resubscribes to p after a failure, at most attempts times. The last
// failure is delivered when attempts run out.
func Retry[T any](p *Publisher[T], attempts int) *Publisher[T] {
	return newPublisher(func(ctl *control, down sink[T]) {
		remaining := attempts
		var run func()
		run = func() {
			up := ctl.child()
			p.attach(up, sink[T]{
				next: func(v T) {
					if up.active() {
						down.next(v)
					}
				},
				complete: func(c Completion) {
					if !up.active() {
						return
					}
					up.stop()
					if c.IsFailure() && remaining > 0 && ctl.active() {
						remaining--
						run()
						return
					}
					down.complete(c)
				},
			})
		}
		run()
	})
}

// Tap calls the given side effects and passes events through unchanged.
// Either function may be nil.
func Tap[T any](p *Publisher[T], onValue func(T), onComplete func(Completion)) *Publisher[T] {
	return newPublisher(func(ctl *control, down sink[T]) {
		p.attach(ctl, sink[T]{
			next: func(v T) {
				if onValue != nil {
					onValue(v)
				}
				down.next(v)
			},
			complete: func(c Completion) {
				if onComplete != nil {
					onComplete(c)
				}
				down.complete(c)
			},
		})
	})
}

// Scan delivers the running accumulation of values, starting from init.
// Each subscription accumulates independently.
func Scan[T, R any](p *Publisher[T], init R, f func(R, T) R) *Publisher[R] {
	return newPublisher(func(ctl *control, down sink[R]) {
		acc := init
		p.attach(ctl, sink[T]{
			next: func(v T) {
				acc = f(acc, v)
				down.next(acc)
			},
			complete: down.complete,
		})
	})
}

// Reduce accumulates all values and delivers the result once the source
// finishes. A failure is passed through without a value.
func Reduce[T, R any](p *Publisher[T], init R, f func(R, T) R) *Publisher[R] {
	return newPublisher(func(ctl *control, down sink[R]) {
		acc := init
		p.attach(ctl, sink[T]{
			next: func(v T) { acc = f(acc, v) },
			complete: func(c Completion) {
				if c.IsSuccess() {
					down.next(acc)
				}
				down.complete(c)
			},
		})
	})
}

// Take delivers the first n values and then finishes, detaching from the source.
func Take[T any](p *Publisher[T], n int) *Publisher[T] {
	return newPublisher(func(ctl *control, down sink[T]) {
		if n <= 0 {
			down.complete(Finished)
			return
		}
		up := ctl.child()
		count := 0
		p.attach(up, sink[T]{
			next: func(v T) {
				if !up.active() {
					return
				}
				count++
				down.next(v)
				if count >= n {
					up.stop()
					down.complete(Finished)
				}
			},
			complete: func(c Completion) {
				if up.active() {
					down.complete(c)
				}
			},
		})
	})
}

// ReceiveOn delivers downstream events through s. Events still queued when
// the subscription ends are dropped.
func ReceiveOn[T any](p *Publisher[T], s Scheduler) *Publisher[T] {
	return newPublisher(func(ctl *control, down sink[T]) {
		p.attach(ctl, sink[T]{
			next: func(v T) {
				s.Schedule(func() {
					if ctl.active() {
						down.next(v)
					}
				})
			},
			complete: func(c Completion) {
				s.Schedule(func() {
					if ctl.active() {
						down.complete(c)
					}
				})
			},
		})
	})
}
