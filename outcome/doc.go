// Package outcome provides Outcome, a tagged union holding either a produced
// value or a failure.
//
// Outcomes are immutable. The combinators in this package evaluate eagerly:
// each call returns a new Outcome immediately. Laziness starts one layer up,
// in package rx, where publishers compose stages without running them.
//
//	o := outcome.Then(outcome.Success(3), parse)
//	o = outcome.MapError(o, annotate)
//	v, err := o.Get()
package outcome
