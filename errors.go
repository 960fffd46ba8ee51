package taskqueue

import "errors"

var (
	// ErrPoolClosing is returned by WorkerPool.Close when the pool is not in
	// the RUNNING phase (e.g. already closing or terminated). Close is a
	// single-caller contract; this error only covers the documented no-op
	// case, not concurrent misuse.
	ErrPoolClosing = errors.New(`taskqueue: pool is not running`)

	// ErrCloseTimeout is returned by WorkerPool.CloseTimeout (and surfaced by
	// Service.CloseTimeout) when the grace period and worker-drain wait together
	// exceed the supplied deadline.
	ErrCloseTimeout = errors.New(`taskqueue: close timed out waiting for workers`)
)
