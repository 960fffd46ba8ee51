package taskqueue

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRingBuffer_offerPollRoundTrip(t *testing.T) {
	r := newRingBuffer[int](3) // capacity 8

	for i := 0; i < r.Cap(); i++ {
		if !r.Offer(i) {
			t.Fatalf(`offer %d: expected success`, i)
		}
	}
	if r.Offer(99) {
		t.Error(`expected offer to fail once full`)
	}

	var got []int
	for {
		v, ok := r.Poll()
		if !ok {
			break
		}
		got = append(got, v)
	}

	want := []int{0, 1, 2, 3, 4, 5, 6, 7}
	if diff := cmp.Diff(want, got); diff != `` {
		t.Errorf(`round trip mismatch (-want +got):\n%s`, diff)
	}
}

func TestRingBuffer_wrapAround(t *testing.T) {
	r := newRingBuffer[int](2) // capacity 4

	for i := 0; i < 4; i++ {
		r.Offer(i)
	}
	r.Poll()
	r.Poll()
	r.Offer(4)
	r.Offer(5)

	var got []int
	for {
		v, ok := r.Poll()
		if !ok {
			break
		}
		got = append(got, v)
	}

	want := []int{2, 3, 4, 5}
	if diff := cmp.Diff(want, got); diff != `` {
		t.Errorf(`wrap-around mismatch (-want +got):\n%s`, diff)
	}
}

func TestRingBuffer_drain(t *testing.T) {
	r := newRingBuffer[string](2) // capacity 4
	r.Offer(`a`)
	r.Offer(`b`)
	r.Poll()
	r.Offer(`c`)
	r.Offer(`d`)
	r.Offer(`e`)

	got := r.Drain(nil)
	want := []string{`b`, `c`, `d`, `e`}
	if diff := cmp.Diff(want, got); diff != `` {
		t.Errorf(`drain mismatch (-want +got):\n%s`, diff)
	}

	if r.Len() != 0 {
		t.Errorf(`expected empty after drain, got len=%d`, r.Len())
	}
	if !r.Offer(`fresh`) {
		t.Error(`expected buffer to be usable after drain`)
	}
}

func TestNewRingBuffer_invalidLog2Panics(t *testing.T) {
	for _, log2 := range []int{-1, 31} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf(`log2=%d: expected panic`, log2)
				}
			}()
			newRingBuffer[int](log2)
		}()
	}
}
