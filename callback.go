package taskqueue

// Callback is a three-way result sink for a single Task: exactly one of
// Success, Failure, or Terminated is invoked for any task whose submission
// succeeded (see Sink.Offer/Sink.Put), and none is invoked otherwise.
//
// Implementations MUST tolerate invocation from an arbitrary goroutine: the
// submitting goroutine (Sink.Offer/Put, when the queue is already
// terminated), a worker goroutine (normal completion or drain-on-shutdown),
// or the goroutine that called Service.Close (drain after a close timeout).
type Callback[R any] interface {
	// Success is invoked with the computation's result, on normal completion.
	Success(result R)
	// Failure is invoked with the computation's error, on abnormal completion.
	Failure(err error)
	// Terminated is invoked instead of Success/Failure when the task is
	// dropped without running, because the owning service has shut down.
	Terminated()
}

// funcCallback is the concrete type produced by NewCallback. Any handler left
// nil is a silent no-op, per the Callback contract.
type funcCallback[R any] struct {
	onSuccess    func(R)
	onFailure    func(error)
	onTerminated func()
}

// NewCallback builds a Callback from up to three handlers. A nil handler is a
// silent no-op for that terminal signal; NewCallback(nil, nil, nil) is a
// valid, fully inert Callback.
func NewCallback[R any](onSuccess func(R), onFailure func(error), onTerminated func()) Callback[R] {
	return &funcCallback[R]{onSuccess: onSuccess, onFailure: onFailure, onTerminated: onTerminated}
}

func (c *funcCallback[R]) Success(result R) {
	if c.onSuccess != nil {
		c.onSuccess(result)
	}
}

func (c *funcCallback[R]) Failure(err error) {
	if c.onFailure != nil {
		c.onFailure(err)
	}
}

func (c *funcCallback[R]) Terminated() {
	if c.onTerminated != nil {
		c.onTerminated()
	}
}

// overrideSuccessCallback decorates an arbitrary Callback, replacing its
// Success handler while delegating Failure/Terminated to the original.
type overrideSuccessCallback[R any] struct {
	base      Callback[R]
	onSuccess func(R)
}

// OverrideSuccess returns a Callback that delegates Failure and Terminated to
// cb, but routes Success to onSuccess instead. If onSuccess is nil, cb is
// returned unchanged (a no-op override). If cb was itself built by
// NewCallback, the decoration is short-circuited into a fresh funcCallback,
// rather than nesting wrappers.
func OverrideSuccess[R any](cb Callback[R], onSuccess func(R)) Callback[R] {
	if onSuccess == nil || cb == nil {
		return cb
	}
	if fc, ok := cb.(*funcCallback[R]); ok {
		return &funcCallback[R]{
			onSuccess:    onSuccess,
			onFailure:    fc.onFailure,
			onTerminated: fc.onTerminated,
		}
	}
	return &overrideSuccessCallback[R]{base: cb, onSuccess: onSuccess}
}

func (c *overrideSuccessCallback[R]) Success(result R) {
	c.onSuccess(result)
}

func (c *overrideSuccessCallback[R]) Failure(err error) {
	c.base.Failure(err)
}

func (c *overrideSuccessCallback[R]) Terminated() {
	c.base.Terminated()
}
