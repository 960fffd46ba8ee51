package taskqueue

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
)

// Threading configures the worker goroutines a WorkerPool (or Service)
// starts, per spec.md §6. A zero Threading is valid: ThreadCount <= 0 means
// "use runtime.GOMAXPROCS(0)", the idiomatic Go stand-in for "the number of
// threads the runtime itself thinks is sane", and a nil NameFormat means
// "name workers plainly". Go has no first-class thread name or
// context-classloader equivalent, so NameFormat's effect is limited to
// diagnostics surfaced through the optional Logger; see SPEC_FULL.md's
// Supplemented Features for why the context-classloader half of spec.md's
// Threading has no analogue here.
type Threading struct {
	// ThreadCount is the number of worker goroutines to start. <= 0 defaults
	// to runtime.GOMAXPROCS(0).
	ThreadCount int
	// NameFormat, if non-nil, names each worker goroutine (0-indexed) for
	// logging. A panic recovered from a worker is logged against this name.
	NameFormat func(index int) string
}

func defaultNameFormat(index int) string { return fmt.Sprintf(`worker-%d`, index) }

// resolve fills in Threading's defaults, returning the worker count to start
// and a NameFormat guaranteed to be non-nil.
func (t Threading) resolve() (workers int, nameFormat func(int) string) {
	workers = t.ThreadCount
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	nameFormat = t.NameFormat
	if nameFormat == nil {
		nameFormat = defaultNameFormat
	}
	return workers, nameFormat
}

// WorkerPool runs a fixed number of worker goroutines, each repeatedly
// taking a task from a QueueBase and running it, until the queue is both
// terminated and empty. Its lifecycle is STARTING -> RUNNING -> CLOSING ->
// TERMINATED, modeled with a single reusable barrier: workers and the
// controller rendezvous there at startup (the controller then deregisters),
// and workers rendezvous there again, one final time each, as they exit
// their loop during shutdown.
type WorkerPool[R any] struct {
	queue   *QueueBase[R]
	workers int
	logger  Logger
	life    *barrier
	phase   atomic.Int32
}

// NewWorkerPool constructs and starts a WorkerPool against queue, per
// threading's worker count and naming (see Threading). logger may be nil,
// in which case the pool logs nothing. NewWorkerPool blocks until every
// worker goroutine has started and the pool has reached the RUNNING phase.
func NewWorkerPool[R any](queue *QueueBase[R], threading Threading, logger Logger) *WorkerPool[R] {
	workers, nameFormat := threading.resolve()
	if workers < 1 {
		panic(fmt.Sprintf(`taskqueue: WorkerPool requires at least 1 worker, got %d`, workers))
	}

	wp := &WorkerPool[R]{
		queue:   queue,
		workers: workers,
		logger:  logger,
		life:    newBarrier(workers + 1),
	}

	for i := 0; i < workers; i++ {
		go wp.workerLoop(nameFormat(i))
	}
	wp.life.arrive(true) // controller deregisters; life.required stays workers+1 for this generation, life.parties becomes workers for the next
	wp.phase.Store(int32(phaseRunning))

	return wp
}

// Phase reports the pool's current lifecycle phase.
func (wp *WorkerPool[R]) Phase() string {
	return phase(wp.phase.Load()).String()
}

func (wp *WorkerPool[R]) workerLoop(name string) {
	wp.life.arrive(false)

	for {
		wp.queue.lock()
		task := wp.queue.takeIfNotTerminatedLocked()
		wp.queue.unlock()
		if task == nil {
			break
		}
		wp.runTask(name, task)
	}

	wp.life.arrive(true)
}

func (wp *WorkerPool[R]) runTask(name string, task *Task[R]) {
	defer func() {
		if r := recover(); r != nil {
			logError(wp.logger, fmt.Sprintf(`%s: recovered from an unexpected panic`, name), fmt.Errorf(`%v`, r))
		}
	}()

	task.Run()

	wp.queue.lock()
	wp.queue.afterCallbackLocked(task)
	wp.queue.unlock()
}

// Close terminates the queue and blocks until every worker has drained it
// and exited. Calling it more than once, or after CloseTimeout, returns
// ErrPoolClosing rather than blocking again.
func (wp *WorkerPool[R]) Close() error {
	if !wp.phase.CompareAndSwap(int32(phaseRunning), int32(phaseClosing)) {
		return ErrPoolClosing
	}
	wp.queue.Terminate()
	wp.life.await()
	wp.phase.Store(int32(phaseTerminated))
	return nil
}

// CloseTimeout is like Close, but returns ErrCloseTimeout instead of
// blocking forever if ctx is canceled (or its deadline elapses) before every
// worker has exited. Workers that haven't yet exited keep running in the
// background; the pool still reaches TERMINATED from the caller's point of
// view; any tasks still queued at that point are left for the caller to
// collect via QueueBase.DrainTo.
func (wp *WorkerPool[R]) CloseTimeout(ctx context.Context) error {
	if !wp.phase.CompareAndSwap(int32(phaseRunning), int32(phaseClosing)) {
		return ErrPoolClosing
	}
	wp.queue.Terminate()
	if !wp.life.awaitContext(ctx) {
		wp.phase.Store(int32(phaseTerminated))
		logWarn(wp.logger, `worker pool close timed out with workers still draining`, `workers`, wp.workers)
		return ErrCloseTimeout
	}
	wp.phase.Store(int32(phaseTerminated))
	return nil
}
