// Package oneshot provides a single-producer, single-consumer,
// single-value channel for the fib runtime.
//
// A successful send is observed by exactly one successful receive with the
// identical value. Closing either handle marks the channel closed; a send
// also closes it, since the sender is spent. Handles must be closed when
// dropped without use, or a parked receiver would never learn the value is
// not coming.
package oneshot

import (
	"errors"

	fib "github.com/joeycumines/go-fib"
)

// Standard errors.
var (
	// ErrClosed is returned when the channel closed before the value could
	// be sent or received.
	ErrClosed = errors.New(`fib/oneshot: channel closed`)

	// ErrEmpty is returned by TryRecv when no value has been sent yet.
	ErrEmpty = errors.New(`fib/oneshot: no value yet`)

	// ErrAlreadySent is returned by a second Send.
	ErrAlreadySent = errors.New(`fib/oneshot: value already sent`)
)

type core[T any] struct {
	val        T
	set        bool
	sent       bool
	recvWaiter fib.TaskID
	hasWaiter  bool
	closed     bool
}

func (c *core[T]) take() (T, bool) {
	var zero T
	if !c.set {
		return zero, false
	}
	c.set = false
	val := c.val
	c.val = zero
	return val, true
}

func (c *core[T]) wakeReceiver() {
	if c.hasWaiter {
		c.hasWaiter = false
		fib.Wake(c.recvWaiter)
	}
}

// Channel creates a one-shot channel.
func Channel[T any]() (*Sender[T], *Receiver[T]) {
	c := &core[T]{}
	return &Sender[T]{c: c}, &Receiver[T]{c: c}
}

// Sender is the producing half. Send spends it.
type Sender[T any] struct {
	c *core[T]
}

// Send stores the value, wakes a parked receiver, and closes the channel.
// Returns [ErrClosed] if the channel closed first, or [ErrAlreadySent] on a
// second send; the caller keeps the item on error.
func (s *Sender[T]) Send(item T) error {
	if s.c.sent {
		return ErrAlreadySent
	}
	if s.c.closed {
		return ErrClosed
	}
	s.c.val = item
	s.c.set = true
	s.c.sent = true
	s.c.closed = true
	s.c.wakeReceiver()
	return nil
}

// IsClosed reports whether the channel has been closed.
func (s *Sender[T]) IsClosed() bool {
	return s.c.closed
}

// Close marks the channel closed and wakes a parked receiver, which will
// observe [ErrClosed]. Call it when dropping an unused sender. Idempotent.
func (s *Sender[T]) Close() {
	if s.c.closed {
		return
	}
	s.c.closed = true
	s.c.wakeReceiver()
}

// Receiver is the consuming half.
type Receiver[T any] struct {
	c *core[T]
}

// IsEmpty reports whether no value is currently stored.
func (r *Receiver[T]) IsEmpty() bool {
	return !r.c.set
}

// TryRecv takes the value without blocking. Returns [ErrEmpty] while the
// channel is open with no value, or [ErrClosed] if it closed without one.
func (r *Receiver[T]) TryRecv() (T, error) {
	if val, ok := r.c.take(); ok {
		return val, nil
	}
	var zero T
	if r.c.closed {
		return zero, ErrClosed
	}
	return zero, ErrEmpty
}

// BlockingRecv takes the value, parking the calling task until the sender
// delivers one or closes. Returns [ErrClosed] if the channel closed without
// a value. It consumes the receiver; call it at most once.
func (r *Receiver[T]) BlockingRecv() (T, error) {
	if val, ok := r.c.take(); ok {
		return val, nil
	}
	var zero T
	if r.c.closed {
		return zero, ErrClosed
	}
	if r.c.hasWaiter {
		panic(`fib/oneshot: multiple concurrent receivers`)
	}
	r.c.recvWaiter = fib.Current()
	r.c.hasWaiter = true
	fib.Park(fib.CauseChannel)
	if val, ok := r.c.take(); ok {
		return val, nil
	}
	return zero, ErrClosed
}

// Close marks the channel closed. Call it when dropping an unused
// receiver; a later Send will observe [ErrClosed]. Idempotent.
func (r *Receiver[T]) Close() {
	r.c.closed = true
}
