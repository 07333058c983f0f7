// Package bus holds named rx subjects, one per topic, and manages them as a
// single lifecycle component.
//
// Topics are created on first use with the element type of the caller:
//
//	b := bus.New("events")
//	ticks, err := bus.Topic[int](b, "ticks")
//	sub := ticks.Publisher().Sink(func(n int) { ... })
//	_ = bus.Publish(b, "ticks", 1)
//
// Stopping the bus finishes every topic, so each live subscription receives
// a successful completion, and refuses new topics afterwards.
package bus
