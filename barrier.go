package taskqueue

import (
	"context"
	"sync"
)

// phase enumerates WorkerPool's lifecycle, per spec: a controller goroutine
// plus N worker goroutines rendezvous at a shared barrier to move between
// phases.
type phase int32

const (
	phaseStarting phase = iota
	phaseRunning
	phaseClosing
	phaseTerminated
)

func (p phase) String() string {
	switch p {
	case phaseStarting:
		return `STARTING`
	case phaseRunning:
		return `RUNNING`
	case phaseClosing:
		return `CLOSING`
	case phaseTerminated:
		return `TERMINATED`
	default:
		return `UNKNOWN`
	}
}

// barrier is a reusable rendezvous point for a fixed number of parties,
// modeled after a cyclic barrier: each party calls arrive and blocks until
// every registered party has arrived, at which point all are released
// together and a generation counter advances. Unlike a plain WaitGroup, a
// barrier is reusable across repeated phases, and supports removing a party
// (deregistering) as part of the same arrival, which is what lets the worker
// pool shrink its rendezvous set from N+1 (workers plus controller) down to
// N (workers only) after startup.
//
// This is a hand-rolled synchronization primitive, grounded on the same
// mutex+condition-variable idiom as the pack's other concurrency code (e.g.
// catrate.Limiter's atomic+mutex combination, and the sync.Cond-based
// producer/consumer wait in the pack's worker-pool-executor reference code);
// no off-the-shelf barrier exists in the examples or in golang.org/x/sync.
type barrier struct {
	mu         sync.Mutex
	cond       *sync.Cond
	parties    int // registered parties, takes effect for the NEXT generation
	required   int // arrivals needed to trip the CURRENT generation (fixed for its duration)
	count      int // parties that have arrived so far, this generation
	generation int
	terminated bool
}

func newBarrier(parties int) *barrier {
	b := &barrier{parties: parties, required: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// arrive registers the calling goroutine's arrival at the barrier, optionally
// deregistering it (removing it from future generations) in the same atomic
// step. It blocks until every party required for the current generation has
// arrived, then returns. If the barrier is force-terminated while waiting,
// arrive returns immediately with ok=false.
//
// A generation's required arrival count is fixed when that generation
// begins, so a deregistering arrival only shrinks the party count used to
// compute the NEXT generation's threshold; it never lets the current
// generation trip early just because fewer parties remain registered.
func (b *barrier) arrive(deregister bool) (ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.terminated {
		return false
	}

	gen := b.generation
	b.count++
	if deregister {
		b.parties--
	}

	if b.count >= b.required {
		b.count = 0
		b.required = b.parties
		b.generation++
		b.cond.Broadcast()
		return true
	}

	for !b.terminated && b.generation == gen {
		b.cond.Wait()
	}
	return !b.terminated
}

// await blocks until the barrier's current generation completes (tripped by
// its registered parties, or force-terminated), without itself counting as
// an arriving party. It's for a controller goroutine that needs to wait for
// a generation it isn't a registered party of — e.g. WorkerPool's shutdown
// rendezvous, where only the workers (not the goroutine calling Close) are
// registered parties.
func (b *barrier) await() (ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	gen := b.generation
	for !b.terminated && b.generation == gen {
		b.cond.Wait()
	}
	return !b.terminated
}

// awaitContext is like await, but also returns early with ok=false (and
// force-terminates the barrier) if ctx is canceled first.
func (b *barrier) awaitContext(ctx context.Context) (ok bool) {
	if ctx == nil || ctx.Done() == nil {
		return b.await()
	}

	done := make(chan struct{})
	result := make(chan bool, 1)
	go func() {
		result <- b.await()
		close(done)
	}()

	select {
	case ok = <-result:
		return ok
	case <-ctx.Done():
		b.forceTerminate()
		<-done
		return false
	}
}

// forceTerminate releases every goroutine currently blocked in arrive, and
// causes all future arrive calls to return immediately with ok=false, until
// reset.
func (b *barrier) forceTerminate() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.terminated = true
	b.cond.Broadcast()
}

// reset clears a forced termination and re-arms the barrier for parties
// fresh participants. It must only be called when no goroutine is blocked in
// arrive.
func (b *barrier) reset(parties int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.terminated = false
	b.parties = parties
	b.required = parties
	b.count = 0
	b.generation++
}

// arriveContext is like arrive, but also returns early with ok=false if ctx
// is canceled before the barrier advances. On cancellation it force-terminates
// the barrier (as awaitContext does) to release its own pending arrival.
func (b *barrier) arriveContext(ctx context.Context) (ok bool) {
	if ctx == nil || ctx.Done() == nil {
		return b.arrive(false)
	}

	done := make(chan struct{})
	result := make(chan bool, 1)
	go func() {
		result <- b.arrive(false)
		close(done)
	}()

	select {
	case ok = <-result:
		return ok
	case <-ctx.Done():
		// force-terminating the whole barrier is what unblocks our own
		// goroutine's wait.
		b.forceTerminate()
		<-done
		return false
	}
}
