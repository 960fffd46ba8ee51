package taskqueue

import (
	"fmt"
	"sync/atomic"
)

// Computation is the user-supplied work a Task performs. It is executed by
// a worker goroutine, outside of any queue lock.
type Computation[R any] func() (R, error)

// Task pairs a Computation with its Callback, and enforces the at-most-once
// terminal-signal invariant: across Run and Terminate, at most one of
// Callback.Success, Callback.Failure, or Callback.Terminated is ever called.
//
// Tasks are created by Sink.Offer/Sink.Put and are otherwise immutable; the
// only mutable state is the one-shot completed flag.
type Task[R any] struct {
	compute   Computation[R]
	callback  Callback[R]
	completed atomic.Bool
}

func newTask[R any](compute Computation[R], callback Callback[R]) *Task[R] {
	return &Task[R]{compute: compute, callback: callback}
}

// Run executes the computation, then attempts to claim the task's terminal
// signal. If the task was already terminated (e.g. concurrently drained),
// the computation's result is discarded and nothing is delivered. Otherwise
// Callback.Failure is delivered if the computation returned an error
// (including a recovered panic), else Callback.Success.
//
// Run itself never panics: both the computation and the callback are
// guarded, so a user error can never break the calling worker's loop.
func (t *Task[R]) Run() {
	result, err := t.runCompute()

	if !t.completed.CompareAndSwap(false, true) {
		return
	}

	if t.callback == nil {
		return
	}

	t.deliver(func() {
		if err != nil {
			t.callback.Failure(err)
		} else {
			t.callback.Success(result)
		}
	})
}

func (t *Task[R]) runCompute() (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf(`taskqueue: panic in computation: %v`, r)
		}
	}()
	if t.compute == nil {
		return result, nil
	}
	return t.compute()
}

// Terminate marks the task as completed without running its computation,
// delivering Callback.Terminated if this call is the one that claims the
// terminal signal. It is a no-op if the task already completed (normally, or
// via a prior Terminate).
func (t *Task[R]) Terminate() {
	if !t.completed.CompareAndSwap(false, true) {
		return
	}
	if t.callback == nil {
		return
	}
	t.deliver(t.callback.Terminated)
}

// deliver invokes fn, recovering from (and discarding) any panic raised by a
// user-supplied callback, so that a misbehaving Callback cannot break the
// worker loop or the close path that calls it.
func (t *Task[R]) deliver(fn func()) {
	defer func() {
		_ = recover()
	}()
	fn()
}
