package taskqueue

import (
	"errors"
	"testing"
)

func TestNewCallback_nilHandlersAreNoops(t *testing.T) {
	cb := NewCallback[int](nil, nil, nil)
	cb.Success(1)
	cb.Failure(errors.New(`x`))
	cb.Terminated()
}

func TestNewCallback_dispatch(t *testing.T) {
	var gotSuccess int
	var gotFailure error
	var gotTerminated bool

	cb := NewCallback(
		func(r int) { gotSuccess = r },
		func(err error) { gotFailure = err },
		func() { gotTerminated = true },
	)

	cb.Success(42)
	if gotSuccess != 42 {
		t.Errorf(`expected 42, got %d`, gotSuccess)
	}

	wantErr := errors.New(`boom`)
	cb.Failure(wantErr)
	if gotFailure != wantErr {
		t.Errorf(`expected %v, got %v`, wantErr, gotFailure)
	}

	cb.Terminated()
	if !gotTerminated {
		t.Error(`expected terminated to be recorded`)
	}
}

func TestOverrideSuccess_nilOnSuccessIsNoop(t *testing.T) {
	cb := NewCallback[int](nil, nil, nil)
	if OverrideSuccess[int](cb, nil) != cb {
		t.Error(`expected unchanged callback when onSuccess is nil`)
	}
}

func TestOverrideSuccess_funcCallbackShortCircuits(t *testing.T) {
	var failureCalled, terminatedCalled bool
	base := NewCallback[int](
		func(int) { t.Error(`base success should never be invoked`) },
		func(error) { failureCalled = true },
		func() { terminatedCalled = true },
	)

	var overridden int
	wrapped := OverrideSuccess(base, func(r int) { overridden = r })

	if _, ok := wrapped.(*funcCallback[int]); !ok {
		t.Errorf(`expected short-circuit to a fresh funcCallback, got %T`, wrapped)
	}

	wrapped.Success(7)
	if overridden != 7 {
		t.Errorf(`expected 7, got %d`, overridden)
	}

	wrapped.Failure(errors.New(`x`))
	if !failureCalled {
		t.Error(`expected failure to delegate to base`)
	}

	wrapped.Terminated()
	if !terminatedCalled {
		t.Error(`expected terminated to delegate to base`)
	}
}

// userCallback is a minimal hand-rolled Callback[R] implementation, used to
// exercise the generic decorator path (as opposed to the funcCallback
// short-circuit).
type userCallback[R any] struct {
	successes    []R
	failures     []error
	terminations int
}

func (u *userCallback[R]) Success(r R)    { u.successes = append(u.successes, r) }
func (u *userCallback[R]) Failure(e error) { u.failures = append(u.failures, e) }
func (u *userCallback[R]) Terminated()     { u.terminations++ }

func TestOverrideSuccess_genericDecorator(t *testing.T) {
	base := &userCallback[string]{}
	var overridden string
	wrapped := OverrideSuccess[string](base, func(s string) { overridden = s })

	if _, ok := wrapped.(*overrideSuccessCallback[string]); !ok {
		t.Errorf(`expected overrideSuccessCallback, got %T`, wrapped)
	}

	wrapped.Success(`hi`)
	if overridden != `hi` || len(base.successes) != 0 {
		t.Errorf(`expected success routed only to override, got overridden=%q base.successes=%v`, overridden, base.successes)
	}

	wrapped.Failure(errors.New(`e`))
	if len(base.failures) != 1 {
		t.Error(`expected failure delegated to base`)
	}

	wrapped.Terminated()
	if base.terminations != 1 {
		t.Error(`expected terminated delegated to base`)
	}
}
