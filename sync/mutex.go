package sync

import (
	fib "github.com/joeycumines/go-fib"
)

// Mutex is a non-reentrant mutual-exclusion lock owning a value of type T.
// Access to the value is only possible through a guard returned by
// [Mutex.Lock].
//
// Waiters are woken in FIFO order, but a task arriving at an unlocked mutex
// acquires immediately, ahead of any still-parked waiter (barging).
type Mutex[T any] struct {
	data    T
	locked  bool
	waiters []fib.TaskID
}

// NewMutex creates a mutex protecting data.
func NewMutex[T any](data T) *Mutex[T] {
	return &Mutex[T]{data: data}
}

// Lock acquires the mutex, parking the calling task while it is held
// elsewhere. A woken waiter re-checks and loops, so the lock is taken by
// whichever task runs first.
func (m *Mutex[T]) Lock() *MutexGuard[T] {
	for m.locked {
		m.waiters = append(m.waiters, fib.Current())
		fib.Park(fib.CauseLock)
	}
	m.locked = true
	return &MutexGuard[T]{m: m}
}

// MutexGuard grants access to the protected value until [MutexGuard.Unlock]
// is called.
type MutexGuard[T any] struct {
	m        *Mutex[T]
	released bool
}

// Get returns the protected value. Panics after Unlock.
func (g *MutexGuard[T]) Get() *T {
	if g.released {
		panic(`fib/sync: use of released mutex guard`)
	}
	return &g.m.data
}

// Unlock releases the mutex and wakes the head waiter, if any. Panics if
// called twice.
func (g *MutexGuard[T]) Unlock() {
	if g.released {
		panic(`fib/sync: unlock of released mutex guard`)
	}
	g.released = true
	g.m.locked = false
	if len(g.m.waiters) > 0 {
		id := g.m.waiters[0]
		g.m.waiters = g.m.waiters[1:]
		fib.Wake(id)
	}
}
