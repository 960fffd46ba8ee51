// Package taskqueue implements a reusable asynchronous task-execution
// service: a fixed pool of worker goroutines draws computations from a
// pluggable, thread-safe task queue, and delivers each result (success,
// failure, or shutdown notice) to a per-task Callback.
//
// The pieces compose as: a [Callback] is attached to a computation to form a
// [Task]; a [Sink] accepts tasks on behalf of a queue discipline built on
// [QueueBase]
// ([NewUnboundedQueue], [NewBoundedQueue], [NewTwoLevelQueue],
// [NewSplittingQueue]); a [WorkerPool] runs a fixed number of goroutines
// against a looped body; and [Service] binds one queue to one pool, handling
// graceful and forced shutdown so every submitted task receives exactly one
// terminal callback. [AsyncChain] composes steps, each a function returning a
// value and an error, into a linear pipeline.
//
// The package does not implement distributed execution, persistence of
// pending tasks, priority scheduling beyond the two-level and splitting
// disciplines, result futures, or cancellation of an individual already
// running task.
package taskqueue
