package taskqueue

import "fmt"

// Step computes a result of type R2 from the previous stage's result of
// type R. Go methods can't introduce their own type parameters, so chaining
// a step that changes type is a package-level function (Call), not a method
// on AsyncChain.
type Step[R, R2 any] func(R) (R2, error)

// FailureHandler reacts to a step's error (or recovered panic).
type FailureHandler func(error)

// TerminationHandler reacts to the chain being abandoned before it runs.
type TerminationHandler func()

func noopFailure(error) {}
func noopTermination()  {}

// AsyncChain is a linked sequence of steps, each running as a continuation
// of the previous step's success. Build one with NewAsyncChain and extend it
// with Call (or CallAndDiscard); run it with Execute.
//
// Passing nil for onFailure or onTermination to Call means "use whatever the
// previous step would have used", walking back through the chain until a
// step supplies its own. NewAsyncChain's handlers are never nil (nil there
// means "do nothing"), so the walk always terminates at the root.
//
// One quirk is deliberately part of the contract rather than a bug: a
// step's own panic is recovered one level up, in the previous step's
// success continuation, so it is delivered to the PREVIOUS step's failure
// handler rather than the panicking step's own override. This falls out of
// where the recover sits: each step's body runs inside the continuation
// handed to its parent, and that continuation reports a recovered panic to
// the parent's failure handler. Callers that override onFailure
// per-step should account for it instead of expecting symmetry with a
// plain return of an error.
type AsyncChain[R any] struct {
	run         func(onSuccess func(R))
	failure     FailureHandler
	termination TerminationHandler
}

// NewAsyncChain starts a chain with compute as its first step. onFailure and
// onTermination, if nil, default to doing nothing.
func NewAsyncChain[R any](compute Computation[R], onFailure FailureHandler, onTermination TerminationHandler) *AsyncChain[R] {
	if onFailure == nil {
		onFailure = noopFailure
	}
	if onTermination == nil {
		onTermination = noopTermination
	}

	c := &AsyncChain[R]{failure: onFailure, termination: onTermination}
	c.run = func(onSuccess func(R)) {
		defer func() {
			if rec := recover(); rec != nil {
				c.failure(fmt.Errorf(`taskqueue: async chain step panicked: %v`, rec))
			}
		}()
		r, err := compute()
		if err != nil {
			c.failure(err)
			return
		}
		onSuccess(r)
	}
	return c
}

// WithDefaults builds a zero-step chain carrying only the default failure
// and termination handlers, with no computation attached yet. It is the
// entry point for a chain that starts from a value already in hand rather
// than from a Computation[R]: Execute invokes onSuccess synchronously with
// R's zero value, and neither onFailure nor onTermination is ever touched.
// Call appending a first step to the result turns it into a real chain.
func WithDefaults[R any](onFailure FailureHandler, onTermination TerminationHandler) *AsyncChain[R] {
	if onFailure == nil {
		onFailure = noopFailure
	}
	if onTermination == nil {
		onTermination = noopTermination
	}

	c := &AsyncChain[R]{failure: onFailure, termination: onTermination}
	c.run = func(onSuccess func(R)) {
		var zero R
		onSuccess(zero)
	}
	return c
}

// Call appends step as a continuation of prev's success. See AsyncChain's
// doc comment for how nil onFailure/onTermination inherit, and for the
// panic-routing quirk.
func Call[R, R2 any](prev *AsyncChain[R], step Step[R, R2], onFailure FailureHandler, onTermination TerminationHandler) *AsyncChain[R2] {
	failure := onFailure
	if failure == nil {
		failure = prev.failure
	}
	termination := onTermination
	if termination == nil {
		termination = prev.termination
	}

	next := &AsyncChain[R2]{failure: failure, termination: termination}
	next.run = func(onSuccess func(R2)) {
		prev.run(func(r R) {
			defer func() {
				if rec := recover(); rec != nil {
					prev.failure(fmt.Errorf(`taskqueue: async chain step panicked: %v`, rec))
				}
			}()
			r2, err := step(r)
			if err != nil {
				failure(err)
				return
			}
			onSuccess(r2)
		})
	}
	return next
}

// CallAndDiscard appends a side-effecting step whose result isn't needed by
// later steps (logging, a notification, a metric) without changing the
// chain's value type.
func CallAndDiscard[R any](prev *AsyncChain[R], step func(R) error, onFailure FailureHandler, onTermination TerminationHandler) *AsyncChain[R] {
	return Call[R, R](prev, func(r R) (R, error) {
		if err := step(r); err != nil {
			return r, err
		}
		return r, nil
	}, onFailure, onTermination)
}

// Execute runs every step in the chain, in order, synchronously, invoking
// onSuccess with the final result if every step succeeds. onSuccess may be
// nil. A failure anywhere in the chain short-circuits the remaining steps.
func (c *AsyncChain[R]) Execute(onSuccess func(R)) {
	if onSuccess == nil {
		onSuccess = func(R) {}
	}
	c.run(onSuccess)
}

// Terminated invokes the chain's (possibly inherited) termination handler
// directly. Callers that hand a chain's Execute to a Sink as a Computation
// should pass this as the paired Callback's Terminated, so a chain abandoned
// by a shutting-down queue still notifies someone.
func (c *AsyncChain[R]) Terminated() {
	c.termination()
}
