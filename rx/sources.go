package rx

import (
	"context"
	"slices"
)

// Iterator provides pull-based sequential access to a stream of values.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// FromSlice creates a publisher that delivers items in order to each
// subscriber and then finishes. The slice is copied.
func FromSlice[T any](items []T) *Publisher[T] {
	items = slices.Clone(items)
	return newPublisher(func(ctl *control, down sink[T]) {
		for _, v := range items {
			if !ctl.active() {
				return
			}
			down.next(v)
		}
		if ctl.active() {
			down.complete(Finished)
		}
	})
}

// Just creates a publisher over the given values.
func Just[T any](values ...T) *Publisher[T] {
	return FromSlice(values)
}

// Empty creates a publisher that finishes without values.
func Empty[T any]() *Publisher[T] {
	return newPublisher(func(_ *control, down sink[T]) {
		down.complete(Finished)
	})
}

// Fail creates a publisher that fails immediately with err.
func Fail[T any](err error) *Publisher[T] {
	return newPublisher(func(_ *control, down sink[T]) {
		down.complete(Failed(err))
	})
}

// FromIterator creates a publisher that pulls from a fresh iterator per
// subscription. An iterator error ends the subscription with a failure.
func FromIterator[T any](ctx context.Context, factory func(context.Context) Iterator[T]) *Publisher[T] {
	return newPublisher(func(ctl *control, down sink[T]) {
		iter := factory(ctx)
		defer iter.Close()
		for ctl.active() {
			v, ok, err := iter.Next(ctx)
			if err != nil {
				down.complete(Failed(err))
				return
			}
			if !ok {
				down.complete(Finished)
				return
			}
			down.next(v)
		}
	})
}

// Defer creates the real publisher with factory at each subscription.
func Defer[T any](factory func() *Publisher[T]) *Publisher[T] {
	return newPublisher(func(ctl *control, down sink[T]) {
		factory().attach(ctl, down)
	})
}
