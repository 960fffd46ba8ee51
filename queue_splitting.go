package taskqueue

import (
	"container/list"
	"context"
)

// splitTask pairs a task with the bucket key it was submitted under.
type splitTask[R any] struct {
	task   *Task[R]
	bucket any
}

// splittingDiscipline enforces "at most one task per bucket running at a
// time". Tasks queue in plain FIFO order; poll scans forward for the first
// task whose bucket isn't currently locked, skipping over (without
// reordering) any task whose bucket is locked by a task still running.
// afterCallback unlocks a finished task's bucket.
type splittingDiscipline[R any] struct {
	tasks   *list.List       // of *splitTask[R]
	locked  map[any]struct{} // buckets currently running
	running map[*Task[R]]any // task -> bucket, for tasks taken but not yet completed
}

func newSplittingDiscipline[R any]() *splittingDiscipline[R] {
	return &splittingDiscipline[R]{
		tasks:   list.New(),
		locked:  make(map[any]struct{}),
		running: make(map[*Task[R]]any),
	}
}

func (d *splittingDiscipline[R]) isEmpty() bool {
	for e := d.tasks.Front(); e != nil; e = e.Next() {
		st := e.Value.(*splitTask[R])
		if _, locked := d.locked[st.bucket]; !locked {
			return false
		}
	}
	return true
}

func (d *splittingDiscipline[R]) offer(st *splitTask[R]) bool {
	d.tasks.PushBack(st)
	return true
}

func (d *splittingDiscipline[R]) poll() *Task[R] {
	for e := d.tasks.Front(); e != nil; e = e.Next() {
		st := e.Value.(*splitTask[R])
		if _, locked := d.locked[st.bucket]; locked {
			continue
		}
		d.tasks.Remove(e)
		d.locked[st.bucket] = struct{}{}
		d.running[st.task] = st.bucket
		return st.task
	}
	return nil
}

func (d *splittingDiscipline[R]) drainTo(out []*Task[R]) []*Task[R] {
	for e := d.tasks.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*splitTask[R]).task)
	}
	d.tasks.Init()
	return out
}

func (d *splittingDiscipline[R]) afterCallback(t *Task[R]) bool {
	bucket, ok := d.running[t]
	if !ok {
		return false
	}
	delete(d.running, t)
	delete(d.locked, bucket)
	return true
}

// SplittingQueue serializes execution per bucket: submissions that share a
// bucket key never run concurrently, but submissions in different buckets
// do. Because a Computation[R] is an opaque closure with nothing
// introspectable, the bucket key here is supplied by the caller at
// submission time (via SplittingSink.Offer/Put) rather than derived from
// the computation itself.
type SplittingQueue[R any] struct {
	*QueueBase[R]
	d    *splittingDiscipline[R]
	sink *SplittingSink[R]
}

// NewSplittingQueue constructs a SplittingQueue.
func NewSplittingQueue[R any]() *SplittingQueue[R] {
	d := newSplittingDiscipline[R]()
	base := newQueueBase[R](d)
	q := &SplittingQueue[R]{QueueBase: base, d: d}
	q.sink = &SplittingSink[R]{q: base, d: d}
	return q
}

// Sink returns the queue's bucket-aware producer-facing sink.
func (q *SplittingQueue[R]) Sink() *SplittingSink[R] { return q.sink }

// SplittingSink is SplittingQueue's analogue of Sink, taking an explicit
// bucket key alongside the computation and callback.
type SplittingSink[R any] struct {
	q *QueueBase[R]
	d *splittingDiscipline[R]
}

// Offer attempts to submit compute/callback, tagged with bucket, without
// blocking. Since the splitting discipline is unbounded, this only reports
// false if bucket itself were somehow un-offerable, which never happens in
// practice; it exists for symmetry with the other disciplines' sinks and so
// callers can share code with them.
func (s *SplittingSink[R]) Offer(bucket any, compute Computation[R], callback Callback[R]) bool {
	task := newTask(compute, callback)
	st := &splitTask[R]{task: task, bucket: bucket}
	submitted, terminated := s.q.trySubmit(func() bool { return s.d.offer(st) })
	if terminated {
		if callback != nil {
			callback.Terminated()
		}
		return true
	}
	return submitted
}

// Put submits compute/callback tagged with bucket. Since the splitting
// discipline never rejects an offer for lack of room, Put never actually
// blocks on capacity; it still honors ctx cancellation before submitting and
// the queue's termination, per the shared Sink contract.
func (s *SplittingSink[R]) Put(ctx context.Context, bucket any, compute Computation[R], callback Callback[R]) error {
	task := newTask(compute, callback)
	st := &splitTask[R]{task: task, bucket: bucket}
	terminated, err := s.q.submitBlocking(ctx, func() bool { return s.d.offer(st) })
	if err != nil {
		return err
	}
	if terminated && callback != nil {
		callback.Terminated()
	}
	return nil
}
