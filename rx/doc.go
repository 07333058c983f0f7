// Package rx provides a small single-threaded reactive publish/subscribe
// engine.
//
// A Publisher describes a computation without running it. Operators such as
// Map, Filter and TryMap wrap a parent publisher with one stage and return a
// new publisher in constant time; nothing touches the source until Subscribe
// is called. Subscribe walks the chain from the subscriber back to the root,
// wrapping each downstream delivery function with the stage's transform, and
// installs the composed function at the root. Every Subscribe call builds its
// own independent chain.
//
// A Subject is the mutable root: values and a completion are pushed into it
// with Send and SendCompletion and fanned out to every active subscription
// in subscription order. Cancelling one subscription never affects another.
//
// # Operators
//
//   - Map, TryMap, FlatMap: transform each value; errors become a failure completion
//   - Filter: drop values silently
//   - MapError, CatchError, ReplaceError, Retry: reshape or recover failures
//   - Tap, Scan, Reduce, Take: side effects, accumulation, truncation
//   - ReceiveOn: deliver through an Immediate or Deferred scheduler
//
// # Usage
//
//	subject := rx.NewSubject[int](rx.WithName("ticks"))
//	evens := rx.Filter(subject.Publisher(), func(n int) bool { return n%2 == 0 })
//	labels := rx.Map(evens, strconv.Itoa)
//	sub := labels.Subscribe(
//	    func(s string) { fmt.Println(s) },
//	    func(c rx.Completion) { fmt.Println("done:", c) },
//	)
//	subject.Send(1)
//	subject.Send(2)
//	sub.Cancel()
//
// # Concurrency
//
// Subjects guard their subscriber list with a mutex and serialize deliveries
// through an internal FIFO queue, so each subscriber sees values in Send order
// and never concurrently. Re-entrant Send calls from inside a callback are
// queued and delivered after the current value has reached every subscriber.
// Finite sources and operators run on the caller's goroutine.
package rx
