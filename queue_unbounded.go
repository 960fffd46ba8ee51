package taskqueue

import "container/list"

// unboundedDiscipline stores tasks in a plain FIFO linked list; offer always
// succeeds, so it never blocks a producer and has no capacity to exhaust.
type unboundedDiscipline[R any] struct {
	tasks *list.List // of *Task[R]
}

func newUnboundedDiscipline[R any]() *unboundedDiscipline[R] {
	return &unboundedDiscipline[R]{tasks: list.New()}
}

func (d *unboundedDiscipline[R]) isEmpty() bool { return d.tasks.Len() == 0 }

func (d *unboundedDiscipline[R]) offer(t *Task[R]) bool {
	d.tasks.PushBack(t)
	return true
}

func (d *unboundedDiscipline[R]) poll() *Task[R] {
	e := d.tasks.Front()
	if e == nil {
		return nil
	}
	d.tasks.Remove(e)
	return e.Value.(*Task[R])
}

func (d *unboundedDiscipline[R]) drainTo(out []*Task[R]) []*Task[R] {
	for e := d.tasks.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*Task[R]))
	}
	d.tasks.Init()
	return out
}

// UnboundedQueue is a FIFO queue with no capacity limit. Offer on its sink
// never fails for lack of room; Put never blocks waiting for room.
type UnboundedQueue[R any] struct {
	*QueueBase[R]
	sink *Sink[R]
}

// NewUnboundedQueue constructs an UnboundedQueue ready for use.
func NewUnboundedQueue[R any]() *UnboundedQueue[R] {
	d := newUnboundedDiscipline[R]()
	base := newQueueBase[R](d)
	return &UnboundedQueue[R]{
		QueueBase: base,
		sink:      base.createSink(d.offer),
	}
}

// Sink returns the queue's single producer-facing sink.
func (q *UnboundedQueue[R]) Sink() *Sink[R] { return q.sink }
