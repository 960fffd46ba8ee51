package taskqueue

import (
	"runtime"
	"testing"
	"time"
)

// checkNumGoroutines returns a cleanup func that polls runtime.NumGoroutine
// until it matches the count observed when checkNumGoroutines was called, or
// timeout elapses, failing the test if goroutines leaked. The pack's own
// microbatch tests reference a helper of this exact name and shape
// (checkNumGoroutines(timeout)(t)) without shipping it in the retrieved
// files; this is a from-scratch reimplementation of the same idiom.
func checkNumGoroutines(timeout time.Duration) func(t *testing.T) {
	before := runtime.NumGoroutine()
	return func(t *testing.T) {
		t.Helper()
		deadline := time.Now().Add(timeout)
		for {
			after := runtime.NumGoroutine()
			if after <= before {
				return
			}
			if time.Now().After(deadline) {
				t.Errorf(`goroutine leak: before=%d after=%d`, before, after)
				return
			}
			time.Sleep(time.Millisecond * 10)
		}
	}
}
