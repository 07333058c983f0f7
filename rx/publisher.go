package rx

import (
	"context"

	"github.com/kbukum/rxkit/errors"
	"github.com/kbukum/rxkit/outcome"
)

// Completion is the terminal signal of a subscription: success means the
// source finished, failure carries the error that ended it.
type Completion = outcome.Outcome[struct{}]

// Finished is the successful completion.
var Finished = outcome.Success(struct{}{})

// Failed returns a failure completion carrying err.
func Failed(err error) Completion {
	return outcome.Failure[struct{}](err)
}

// sink is one stage's delivery pair. Stages wrap the sink of the stage
// below them; the subscriber's callbacks sit at the bottom.
type sink[T any] struct {
	next     func(T)
	complete func(Completion)
}

// Publisher is an immutable, lazily composed description of a value-producing
// chain. Use the package-level operators to derive new publishers and
// Subscribe to run one.
type Publisher[T any] struct {
	attach func(ctl *control, down sink[T])
}

func newPublisher[T any](attach func(*control, sink[T])) *Publisher[T] {
	return &Publisher[T]{attach: attach}
}

// Subscribe composes the chain and attaches it to its root source. onValue
// receives each value in order; onComplete receives the completion exactly
// once unless the subscription is cancelled first. Either callback may be nil.
//
// Finite sources deliver synchronously, so the returned subscription may
// already be completed.
func (p *Publisher[T]) Subscribe(onValue func(T), onComplete func(Completion)) *Subscription {
	sub := newSubscription()
	p.attach(sub.ctl, sink[T]{
		next: func(v T) {
			if !sub.Active() {
				return
			}
			if onValue != nil {
				onValue(v)
			}
		},
		complete: func(c Completion) {
			if !sub.complete() {
				return
			}
			if onComplete != nil {
				onComplete(c)
			}
		},
	})
	return sub
}

// SubscribeContext is Subscribe with the subscription cancelled when ctx is done.
// If ctx is already done nothing is attached.
func (p *Publisher[T]) SubscribeContext(ctx context.Context, onValue func(T), onComplete func(Completion)) *Subscription {
	if ctx.Err() != nil {
		sub := newSubscription()
		sub.Cancel()
		return sub
	}
	sub := p.Subscribe(onValue, onComplete)
	stop := context.AfterFunc(ctx, sub.Cancel)
	sub.ctl.onStop(func() { stop() })
	return sub
}

// Sink subscribes onValue and ignores the completion.
func (p *Publisher[T]) Sink(onValue func(T)) *Subscription {
	return p.Subscribe(onValue, nil)
}

// Collect subscribes to p and returns every value it delivers synchronously.
// The error is the failure that ended the stream, or a NOT_COMPLETED AppError
// when p did not complete during the call; the subscription is then cancelled.
func Collect[T any](p *Publisher[T]) ([]T, error) {
	var (
		values []T
		done   bool
		err    error
	)
	sub := p.Subscribe(
		func(v T) { values = append(values, v) },
		func(c Completion) {
			done = true
			err = c.Err()
		},
	)
	if !done {
		sub.Cancel()
		return values, errors.NotCompleted()
	}
	return values, err
}
