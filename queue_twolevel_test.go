package taskqueue

import "testing"

func TestTwoLevelQueue_internalTakesPriorityOverExternal(t *testing.T) {
	q := NewTwoLevelQueue[string](4)

	var got string
	q.External().Offer(func() (string, error) { return `external`, nil }, NewCallback(func(s string) { got = s }, nil, nil))
	q.Internal().Offer(func() (string, error) { return `internal`, nil }, NewCallback(func(s string) { got = s }, nil, nil))

	q.lock()
	task := q.takeIfNotTerminatedLocked()
	q.unlock()
	task.Run()

	if got != `internal` {
		t.Errorf(`expected internal task to be taken first, got %q`, got)
	}
}

func TestTwoLevelQueue_externalBoundedInternalUnbounded(t *testing.T) {
	q := NewTwoLevelQueue[int](0) // external capacity 1

	if !q.External().Offer(func() (int, error) { return 1, nil }, nil) {
		t.Fatal(`expected first external offer to succeed`)
	}
	if q.External().Offer(func() (int, error) { return 2, nil }, nil) {
		t.Error(`expected second external offer to fail, capacity is 1`)
	}

	for i := 0; i < 100; i++ {
		if !q.Internal().Offer(func() (int, error) { return i, nil }, nil) {
			t.Fatalf(`internal offer %d: expected unbounded internal sink to always accept`, i)
		}
	}
}

func TestTwoLevelQueue_isEmptyRequiresBoth(t *testing.T) {
	q := NewTwoLevelQueue[int](4)

	q.lock()
	empty := q.d.isEmpty()
	q.unlock()
	if !empty {
		t.Fatal(`expected fresh queue to be empty`)
	}

	q.External().Offer(func() (int, error) { return 1, nil }, nil)

	q.lock()
	empty = q.d.isEmpty()
	q.unlock()
	if empty {
		t.Error(`expected non-empty once external has a task`)
	}
}
