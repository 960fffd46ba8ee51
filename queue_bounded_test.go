package taskqueue

import (
	"context"
	"testing"
	"time"
)

func TestBoundedQueue_offerFailsWhenFull(t *testing.T) {
	q := NewBoundedQueue[int](1) // capacity 2
	sink := q.Sink()

	if !sink.Offer(func() (int, error) { return 1, nil }, nil) {
		t.Fatal(`expected first offer to succeed`)
	}
	if !sink.Offer(func() (int, error) { return 2, nil }, nil) {
		t.Fatal(`expected second offer to succeed`)
	}
	if sink.Offer(func() (int, error) { return 3, nil }, nil) {
		t.Error(`expected third offer to fail, queue is full`)
	}
}

func TestBoundedQueue_putBlocksThenSucceedsAfterTake(t *testing.T) {
	defer checkNumGoroutines(time.Second)(t)

	q := NewBoundedQueue[int](0) // capacity 1
	sink := q.Sink()

	sink.Offer(func() (int, error) { return 1, nil }, nil)

	putDone := make(chan error, 1)
	go func() {
		putDone <- sink.Put(context.Background(), func() (int, error) { return 2, nil }, nil)
	}()

	select {
	case <-putDone:
		t.Fatal(`expected Put to block while queue is full`)
	case <-time.After(50 * time.Millisecond):
	}

	q.lock()
	task := q.takeIfNotTerminatedLocked()
	q.unlock()
	task.Run()
	q.lock()
	q.afterCallbackLocked(task)
	q.unlock()

	select {
	case err := <-putDone:
		if err != nil {
			t.Errorf(`expected Put to succeed, got %v`, err)
		}
	case <-time.After(time.Second):
		t.Fatal(`Put never unblocked after room freed up`)
	}
}

func TestBoundedQueue_putRespectsContextCancellation(t *testing.T) {
	defer checkNumGoroutines(time.Second)(t)

	q := NewBoundedQueue[int](0) // capacity 1
	sink := q.Sink()
	sink.Offer(func() (int, error) { return 1, nil }, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := sink.Put(ctx, func() (int, error) { return 2, nil }, nil)
	if err == nil {
		t.Fatal(`expected Put to return an error once context deadline exceeded`)
	}
}

func TestBoundedQueue_terminateWakesBlockedPut(t *testing.T) {
	defer checkNumGoroutines(time.Second)(t)

	q := NewBoundedQueue[int](0)
	sink := q.Sink()
	sink.Offer(func() (int, error) { return 1, nil }, nil)

	var termCalled bool
	done := make(chan struct{})
	go func() {
		sink.Put(context.Background(), func() (int, error) { return 2, nil }, NewCallback[int](nil, nil, func() {
			termCalled = true
		}))
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	q.Terminate()

	<-done
	if !termCalled {
		t.Error(`expected Terminated callback when queue terminates while Put is blocked`)
	}
}
