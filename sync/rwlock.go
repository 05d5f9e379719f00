package sync

import (
	fib "github.com/joeycumines/go-fib"
)

type rwState uint8

const (
	rwNone rwState = iota
	rwRead
	rwWrite
)

type rwAccess uint8

const (
	accessRead rwAccess = iota
	accessWrite
)

type rwWaiter struct {
	id     fib.TaskID
	access rwAccess
}

// RwLock is a reader-writer lock owning a value of type T: any number of
// concurrent readers, or a single writer.
//
// Waiters queue in arrival order. On release, a writer at the head of the
// queue is woken alone; a reader at the head is woken together with every
// contiguous reader behind it, stopping at the first writer. Woken tasks
// race against new arrivals; the lock state is set by whichever acquirer
// wins, not by the waker. This keeps writers FIFO among themselves while
// letting reads batch.
type RwLock[T any] struct {
	data        T
	state       rwState
	waiters     []rwWaiter
	readerCount int
}

// NewRwLock creates a reader-writer lock protecting data.
func NewRwLock[T any](data T) *RwLock[T] {
	return &RwLock[T]{data: data}
}

// Read acquires the lock for reading, parking while a writer holds it.
func (l *RwLock[T]) Read() *RwLockReadGuard[T] {
	for l.state == rwWrite {
		l.waiters = append(l.waiters, rwWaiter{id: fib.Current(), access: accessRead})
		fib.Park(fib.CauseLock)
	}
	l.state = rwRead
	l.readerCount++
	return &RwLockReadGuard[T]{l: l}
}

// Write acquires the lock for writing, parking while any guard is held.
func (l *RwLock[T]) Write() *RwLockWriteGuard[T] {
	for l.state != rwNone {
		l.waiters = append(l.waiters, rwWaiter{id: fib.Current(), access: accessWrite})
		fib.Park(fib.CauseLock)
	}
	if l.readerCount != 0 {
		panic(`fib/sync: rwlock has readers but no read state`)
	}
	l.state = rwWrite
	return &RwLockWriteGuard[T]{l: l}
}

// wakeUp runs the release policy described on [RwLock].
func (l *RwLock[T]) wakeUp() {
	if l.state != rwNone {
		panic(`fib/sync: rwlock wake-up while held`)
	}
	if len(l.waiters) == 0 {
		return
	}
	if l.waiters[0].access == accessWrite {
		id := l.waiters[0].id
		l.waiters = l.waiters[1:]
		fib.Wake(id)
		return
	}
	for len(l.waiters) > 0 && l.waiters[0].access == accessRead {
		id := l.waiters[0].id
		l.waiters = l.waiters[1:]
		fib.Wake(id)
	}
}

// RwLockReadGuard grants shared access to the protected value until
// [RwLockReadGuard.Unlock] is called.
type RwLockReadGuard[T any] struct {
	l        *RwLock[T]
	released bool
}

// Get returns the protected value. The caller must not modify it. Panics
// after Unlock.
func (g *RwLockReadGuard[T]) Get() *T {
	if g.released {
		panic(`fib/sync: use of released read guard`)
	}
	return &g.l.data
}

// Unlock releases the read guard; the last reader out resets the lock and
// runs the wake-up policy. Panics if called twice.
func (g *RwLockReadGuard[T]) Unlock() {
	if g.released {
		panic(`fib/sync: unlock of released read guard`)
	}
	g.released = true
	g.l.readerCount--
	if g.l.readerCount == 0 {
		g.l.state = rwNone
		g.l.wakeUp()
	}
}

// RwLockWriteGuard grants exclusive access to the protected value until
// [RwLockWriteGuard.Unlock] is called.
type RwLockWriteGuard[T any] struct {
	l        *RwLock[T]
	released bool
}

// Get returns the protected value. Panics after Unlock.
func (g *RwLockWriteGuard[T]) Get() *T {
	if g.released {
		panic(`fib/sync: use of released write guard`)
	}
	return &g.l.data
}

// Unlock releases the write guard, resetting the lock and running the
// wake-up policy. Panics if called twice.
func (g *RwLockWriteGuard[T]) Unlock() {
	if g.released {
		panic(`fib/sync: unlock of released write guard`)
	}
	g.released = true
	g.l.state = rwNone
	g.l.wakeUp()
}
