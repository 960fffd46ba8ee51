package taskqueue

// twoLevelDiscipline backs a queue with two storages under a single lock: a
// bounded "external" storage for caller submissions, and an unbounded
// "internal" storage for continuations or other work the system itself
// re-enqueues. poll always prefers internal over external, so work already
// in flight drains before new external work is admitted.
type twoLevelDiscipline[R any] struct {
	internal *unboundedDiscipline[R]
	external *boundedDiscipline[R]
}

func (d *twoLevelDiscipline[R]) isEmpty() bool {
	return d.internal.isEmpty() && d.external.isEmpty()
}

func (d *twoLevelDiscipline[R]) poll() *Task[R] {
	if t := d.internal.poll(); t != nil {
		return t
	}
	return d.external.poll()
}

func (d *twoLevelDiscipline[R]) drainTo(out []*Task[R]) []*Task[R] {
	out = d.internal.drainTo(out)
	out = d.external.drainTo(out)
	return out
}

// TwoLevelQueue gives internal submissions priority over external ones
// while sharing one lock, one capacity signal, and one worker-visible
// stream. External() is bounded and meant for callers; Internal() is
// unbounded and meant for continuations the system re-enqueues on a
// worker's behalf.
type TwoLevelQueue[R any] struct {
	*QueueBase[R]
	d        *twoLevelDiscipline[R]
	external *Sink[R]
	internal *Sink[R]
}

// NewTwoLevelQueue constructs a TwoLevelQueue whose external storage has
// capacity 2^externalLog2Cap.
func NewTwoLevelQueue[R any](externalLog2Cap int) *TwoLevelQueue[R] {
	d := &twoLevelDiscipline[R]{
		internal: newUnboundedDiscipline[R](),
		external: newBoundedDiscipline[R](externalLog2Cap),
	}
	base := newQueueBase[R](d)
	return &TwoLevelQueue[R]{
		QueueBase: base,
		d:         d,
		external:  base.createSink(d.external.offer),
		internal:  base.createSink(d.internal.offer),
	}
}

// External returns the bounded sink callers submit work to.
func (q *TwoLevelQueue[R]) External() *Sink[R] { return q.external }

// Internal returns the unbounded, higher-priority sink reserved for
// continuations and other system-originated re-submissions.
func (q *TwoLevelQueue[R]) Internal() *Sink[R] { return q.internal }
