package sync

import (
	fib "github.com/joeycumines/go-fib"
)

// Barrier blocks tasks until a threshold number of them have called
// [Barrier.Wait]; the last arrival is the leader and wakes the rest.
//
// The barrier reuses a single shared countdown and does not track
// generations, so reuse is safe only after the previous generation's
// waiters have all resumed. Overlapping generations let a late arrival from
// the old generation decrement the count for the new one.
type Barrier struct {
	threshold int
	count     int
	waiters   []fib.TaskID
}

// NewBarrier creates a barrier for n participants. n must be greater than
// zero.
func NewBarrier(n int) *Barrier {
	if n <= 0 {
		panic(`fib/sync: barrier threshold must be greater than zero`)
	}
	return &Barrier{threshold: n, count: n}
}

// BarrierWaitResult reports whether the caller was the generation's leader.
type BarrierWaitResult struct {
	isLeader bool
}

// IsLeader reports whether this task's arrival tripped the barrier.
// Exactly one participant per generation is the leader.
func (r BarrierWaitResult) IsLeader() bool {
	return r.isLeader
}

// Wait blocks until the barrier's threshold is reached. The arrival that
// brings the count to zero resets it, wakes all parked participants, and
// returns immediately as leader; every other participant parks and returns
// as non-leader once woken.
func (b *Barrier) Wait() BarrierWaitResult {
	b.count--
	if b.count == 0 {
		b.count = b.threshold
		for len(b.waiters) > 0 {
			id := b.waiters[0]
			b.waiters = b.waiters[1:]
			fib.Wake(id)
		}
		return BarrierWaitResult{isLeader: true}
	}
	b.waiters = append(b.waiters, fib.Current())
	fib.Park(fib.CauseBarrier)
	return BarrierWaitResult{isLeader: false}
}
