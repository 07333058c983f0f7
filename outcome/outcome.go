package outcome

import (
	"fmt"

	"github.com/kbukum/rxkit/errors"
)

// Outcome is either a Success holding a value or a Failure holding a non-nil error.
type Outcome[T any] struct {
	value T
	err   error
}

// Success returns an Outcome holding v.
func Success[T any](v T) Outcome[T] {
	return Outcome[T]{value: v}
}

// Failure returns an Outcome holding err. A nil err is replaced by a
// NIL_FAILURE AppError so the failure tag always carries an error.
func Failure[T any](err error) Outcome[T] {
	if err == nil {
		err = errors.NilFailure()
	}
	return Outcome[T]{err: err}
}

// Of builds an Outcome from a Go (value, error) pair.
func Of[T any](v T, err error) Outcome[T] {
	if err != nil {
		return Failure[T](err)
	}
	return Success(v)
}

// IsSuccess reports whether o holds a value.
func (o Outcome[T]) IsSuccess() bool { return o.err == nil }

// IsFailure reports whether o holds an error.
func (o Outcome[T]) IsFailure() bool { return o.err != nil }

// Value returns the held value and true on Success, or the zero value and false.
func (o Outcome[T]) Value() (T, bool) {
	if o.err != nil {
		var zero T
		return zero, false
	}
	return o.value, true
}

// Err returns the held error, or nil on Success.
func (o Outcome[T]) Err() error { return o.err }

// Get unpacks o into a Go (value, error) pair.
func (o Outcome[T]) Get() (T, error) {
	if o.err != nil {
		var zero T
		return zero, o.err
	}
	return o.value, nil
}

// OrElse returns the held value, or fallback on Failure.
func (o Outcome[T]) OrElse(fallback T) T {
	if o.err != nil {
		return fallback
	}
	return o.value
}

// Fold calls exactly one of onSuccess or onFailure.
func (o Outcome[T]) Fold(onSuccess func(T), onFailure func(error)) {
	if o.err != nil {
		if onFailure != nil {
			onFailure(o.err)
		}
		return
	}
	if onSuccess != nil {
		onSuccess(o.value)
	}
}

func (o Outcome[T]) String() string {
	if o.err != nil {
		return fmt.Sprintf("Failure(%v)", o.err)
	}
	return fmt.Sprintf("Success(%v)", o.value)
}

// Map applies f to the value of a Success. A Failure passes through and f is
// not called. A panic in f is not recovered; use TryMap for fallible functions.
func Map[T, U any](o Outcome[T], f func(T) U) Outcome[U] {
	if o.err != nil {
		return Failure[U](o.err)
	}
	return Success(f(o.value))
}

// TryMap is Map for functions that can fail: an error from f becomes a Failure.
func TryMap[T, U any](o Outcome[T], f func(T) (U, error)) Outcome[U] {
	if o.err != nil {
		return Failure[U](o.err)
	}
	v, err := f(o.value)
	return Of(v, err)
}

// Then applies f to the value of a Success and returns its Outcome as is.
// A chain of Then calls stops at the first Failure.
func Then[T, U any](o Outcome[T], f func(T) Outcome[U]) Outcome[U] {
	if o.err != nil {
		return Failure[U](o.err)
	}
	return f(o.value)
}

// FlatMap is an alias of Then.
func FlatMap[T, U any](o Outcome[T], f func(T) Outcome[U]) Outcome[U] {
	return Then(o, f)
}

// MapError applies f to the error of a Failure. A Success passes through.
func MapError[T any](o Outcome[T], f func(error) error) Outcome[T] {
	if o.err == nil {
		return o
	}
	return Failure[T](f(o.err))
}

// Recover turns a Failure into a Success using f. If f fails, the result
// stays a Failure carrying f's error. A Success passes through.
func Recover[T any](o Outcome[T], f func(error) (T, error)) Outcome[T] {
	if o.err == nil {
		return o
	}
	v, err := f(o.err)
	return Of(v, err)
}

// Tap runs the matching side effect and returns o unchanged.
func Tap[T any](o Outcome[T], onSuccess func(T), onFailure func(error)) Outcome[T] {
	o.Fold(onSuccess, onFailure)
	return o
}
