package taskqueue

// boundedDiscipline stores tasks in a power-of-two ring buffer; offer fails
// once the buffer is full.
type boundedDiscipline[R any] struct {
	ring *ringBuffer[*Task[R]]
}

func newBoundedDiscipline[R any](log2Cap int) *boundedDiscipline[R] {
	return &boundedDiscipline[R]{ring: newRingBuffer[*Task[R]](log2Cap)}
}

func (d *boundedDiscipline[R]) isEmpty() bool { return d.ring.Len() == 0 }

func (d *boundedDiscipline[R]) offer(t *Task[R]) bool { return d.ring.Offer(t) }

func (d *boundedDiscipline[R]) poll() *Task[R] {
	t, ok := d.ring.Poll()
	if !ok {
		return nil
	}
	return t
}

func (d *boundedDiscipline[R]) drainTo(out []*Task[R]) []*Task[R] {
	return d.ring.Drain(out)
}

// BoundedQueue is a FIFO queue backed by a fixed-capacity ring buffer.
// Offer on its sink fails once the buffer is full; Put blocks until room
// frees up, the queue terminates, or its context is canceled.
type BoundedQueue[R any] struct {
	*QueueBase[R]
	sink *Sink[R]
}

// NewBoundedQueue constructs a BoundedQueue whose capacity is 2^log2Cap.
// It panics if log2Cap is outside [0, 30], the same range newRingBuffer
// enforces.
func NewBoundedQueue[R any](log2Cap int) *BoundedQueue[R] {
	d := newBoundedDiscipline[R](log2Cap)
	base := newQueueBase[R](d)
	return &BoundedQueue[R]{
		QueueBase: base,
		sink:      base.createSink(d.offer),
	}
}

// Sink returns the queue's single producer-facing sink.
func (q *BoundedQueue[R]) Sink() *Sink[R] { return q.sink }
