package taskqueue

import "context"

// Service binds a queue to the WorkerPool draining it, presenting the pair
// as one unit with a single close operation. It owns neither the queue's
// construction nor its sinks: callers build a concrete queue (UnboundedQueue,
// BoundedQueue, TwoLevelQueue, SplittingQueue) themselves, keep using its
// Sink()/External()/Internal() directly for submissions, and hand the
// queue's embedded *QueueBase to NewService only to wire up the pool and its
// shutdown.
type Service[R any] struct {
	queue *QueueBase[R]
	pool  *WorkerPool[R]
}

// NewService constructs a Service, starting worker goroutines against queue
// immediately per threading (see NewWorkerPool and Threading).
func NewService[R any](queue *QueueBase[R], threading Threading, logger Logger) *Service[R] {
	return &Service[R]{
		queue: queue,
		pool:  NewWorkerPool[R](queue, threading, logger),
	}
}

// Phase reports the underlying pool's lifecycle phase.
func (s *Service[R]) Phase() string { return s.pool.Phase() }

// Close stops the queue from accepting further submissions and blocks,
// without a time limit, until every in-flight and already-queued task has
// run.
func (s *Service[R]) Close() error {
	return s.pool.Close()
}

// CloseTimeout is like Close, but bounded by ctx. If ctx is done before every
// worker finishes draining the queue, CloseTimeout collects whatever tasks
// are still queued and calls Task.Terminate on each of them directly (which,
// per Task's at-most-once delivery guarantee, is a no-op for any task a
// worker manages to start concurrently) rather than leaving them orphaned
// for the caller to hunt down, then returns ErrCloseTimeout.
func (s *Service[R]) CloseTimeout(ctx context.Context) error {
	err := s.pool.CloseTimeout(ctx)
	if err == nil {
		return nil
	}
	for _, task := range s.queue.DrainTo(nil) {
		task.Terminate()
	}
	return err
}
