package taskqueue

import (
	"context"
	"sync"
	"sync/atomic"
)

// discipline is the strategy a concrete queue injects into QueueBase,
// determining storage and ordering. It is the "protected operations exposed
// to subclasses" of spec.md's QueueBase, reframed as composition: QueueBase
// holds the lock, the two condition variables, and the running flag; each
// discipline only ever touches its own storage, and always while QueueBase's
// lock is held on its behalf.
type discipline[R any] interface {
	// isEmpty reports whether the discipline currently has nothing pollable.
	isEmpty() bool
	// poll removes and returns the next eligible task, or nil if none.
	poll() *Task[R]
	// drainTo appends every task still held by the discipline, in its
	// defined order, to out, and clears the discipline's storage.
	drainTo(out []*Task[R]) []*Task[R]
}

// afterCallbackHook is implemented by disciplines that need to react once a
// task's computation has completed (currently only the splitting
// discipline, to unlock the task's bucket). Disciplines that don't implement
// it get the spec's documented default of "false" automatically, via a type
// assertion in QueueBase, rather than a base-class default method.
type afterCallbackHook[R any] interface {
	afterCallback(task *Task[R]) bool
}

// QueueBase is the shared lock, the two condition variables (notFull,
// notEmpty), and the running flag that every concrete queue discipline in
// this package is built from. It is embedded by each concrete queue type
// (UnboundedQueue, BoundedQueue, TwoLevelQueue, SplittingQueue), so their
// Terminate/DrainTo/Running methods, below, are simply QueueBase's.
type QueueBase[R any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond
	running  atomic.Bool
	d        discipline[R]
	hook     afterCallbackHook[R]
}

func newQueueBase[R any](d discipline[R]) *QueueBase[R] {
	q := &QueueBase[R]{d: d}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	q.running.Store(true)
	if hook, ok := d.(afterCallbackHook[R]); ok {
		q.hook = hook
	}
	return q
}

// Running reports whether the queue still accepts submissions. It is safe to
// call from any goroutine without holding any lock.
func (q *QueueBase[R]) Running() bool {
	return q.running.Load()
}

// Terminate marks the queue as no longer running, waking every producer
// blocked in a Sink's blocking Put and every worker blocked waiting for a
// task. It does not itself drain or touch queued tasks; see DrainTo.
func (q *QueueBase[R]) Terminate() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.running.Store(false)
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// DrainTo appends every task still queued, in discipline-defined order, to
// out, removing them from the queue, and returns the extended slice. It is
// how Service.Close collects orphan tasks after a pool close timeout.
func (q *QueueBase[R]) DrainTo(out []*Task[R]) []*Task[R] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.d.drainTo(out)
}

// trySubmit is the non-blocking half of a Sink's Offer: it attempts insert
// exactly once while holding the lock. If the queue has already terminated,
// it reports terminated=true without calling insert at all.
func (q *QueueBase[R]) trySubmit(insert func() bool) (submitted, terminated bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.running.Load() {
		return false, true
	}
	if insert() {
		q.notEmpty.Signal()
		return true, false
	}
	return false, false
}

// submitBlocking is the blocking half of a Sink's Put: it repeatedly attempts
// insert while holding the lock, waiting on notFull between attempts, until
// insert succeeds, the queue terminates, or ctx is canceled.
//
// sync.Cond.Wait cannot be interrupted by a context the way a Java thread's
// interrupt flag can, so cancellation is implemented with a small watcher
// goroutine that wakes every notFull waiter when ctx is done; each woken
// waiter rechecks ctx.Err() itself, the same way it rechecks the running
// flag after being woken by Terminate.
func (q *QueueBase[R]) submitBlocking(ctx context.Context, insert func() bool) (terminated bool, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var stop chan struct{}
	if done := ctx.Done(); done != nil {
		stop = make(chan struct{})
		go func() {
			select {
			case <-done:
				q.mu.Lock()
				q.notFull.Broadcast()
				q.mu.Unlock()
			case <-stop:
			}
		}()
		defer close(stop)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	for q.running.Load() {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if insert() {
			q.notEmpty.Signal()
			return false, nil
		}
		q.notFull.Wait()
	}
	return true, nil
}

// lock/unlock/takeIfNotTerminatedLocked/afterCallbackLocked are the
// lower-level primitives a WorkerPool's body composes directly (see
// WorkerPool.workerLoop and runTask), matching spec.md §4.8's "acquire queue.L ... takeIfNotTerminated
// ... release L ... run ... re-acquire L ... afterCallback" sequence exactly,
// rather than bundling take+run+afterCallback into one opaque call.

func (q *QueueBase[R]) lock()   { q.mu.Lock() }
func (q *QueueBase[R]) unlock() { q.mu.Unlock() }

// takeIfNotTerminatedLocked must be called with the lock held. It waits
// while the discipline is empty and the queue is running, then polls. It
// returns nil only when the queue terminated while empty.
func (q *QueueBase[R]) takeIfNotTerminatedLocked() *Task[R] {
	for q.d.isEmpty() && q.running.Load() {
		q.notEmpty.Wait()
	}
	t := q.d.poll()
	if t != nil {
		q.notFull.Signal()
	}
	return t
}

// afterCallbackLocked must be called with the lock held, after a task
// obtained from takeIfNotTerminatedLocked has run. If the discipline
// implements afterCallbackHook and it returns true, both conditions are
// broadcast, so any producer or worker that might now be unblocked re-checks.
func (q *QueueBase[R]) afterCallbackLocked(t *Task[R]) {
	if q.hook == nil {
		return
	}
	if q.hook.afterCallback(t) {
		q.notEmpty.Broadcast()
		q.notFull.Broadcast()
	}
}

// Sink is the producer-side facade of a queue: non-blocking Offer and
// blocking Put. A Sink is bound to exactly one queue (or, for TwoLevelQueue,
// one of its two internal storages) and never outlives it.
type Sink[R any] struct {
	q     *QueueBase[R]
	offer func(t *Task[R]) bool
}

func (q *QueueBase[R]) createSink(offer func(t *Task[R]) bool) *Sink[R] {
	return &Sink[R]{q: q, offer: offer}
}

// Offer attempts to submit compute/callback without blocking. True means the
// system is handling the callback contract (either the task was queued, or
// the queue had already terminated and Callback.Terminated was invoked
// inline); false means the queue is at capacity and the caller must retry or
// abandon the submission (no callback is invoked in that case).
func (s *Sink[R]) Offer(compute Computation[R], callback Callback[R]) bool {
	task := newTask(compute, callback)
	submitted, terminated := s.q.trySubmit(func() bool { return s.offer(task) })
	if terminated {
		if callback != nil {
			callback.Terminated()
		}
		return true
	}
	return submitted
}

// Put submits compute/callback, blocking only while the queue is both
// running and at capacity. A canceled ctx surfaces as ctx.Err(), and the
// task is not submitted (no callback is invoked). If the queue terminates
// while Put is blocked, Callback.Terminated is invoked and Put returns nil.
func (s *Sink[R]) Put(ctx context.Context, compute Computation[R], callback Callback[R]) error {
	task := newTask(compute, callback)
	terminated, err := s.q.submitBlocking(ctx, func() bool { return s.offer(task) })
	if err != nil {
		return err
	}
	if terminated && callback != nil {
		callback.Terminated()
	}
	return nil
}
