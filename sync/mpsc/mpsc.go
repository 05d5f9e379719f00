// Package mpsc provides multi-producer, single-consumer channels for the
// fib runtime, in unbounded ([Channel]) and bounded ([SyncChannel])
// flavours.
//
// Sender handles share a reference count; the channel closes when the last
// sender closes, and closing the receiver closes the channel and wakes any
// parked senders. After close, buffered items may still be drained by the
// receiver, after which [Receiver.Recv] returns [ErrDisconnected].
package mpsc

import (
	"errors"

	fib "github.com/joeycumines/go-fib"
)

// Standard errors.
var (
	// ErrDisconnected is returned once the other side of the channel is
	// gone: by sends after the receiver closed, and by receives after the
	// buffer is drained and every sender closed.
	ErrDisconnected = errors.New(`fib/mpsc: channel disconnected`)

	// ErrFull is returned by TrySend on a bounded channel at capacity.
	ErrFull = errors.New(`fib/mpsc: channel full`)

	// ErrEmpty is returned by TryRecv on an empty, still-open channel.
	ErrEmpty = errors.New(`fib/mpsc: channel empty`)
)

// channel is the non-blocking contract the two buffer flavours share. The
// blocking Send/Recv loops live on the handles.
type channel[T any] interface {
	// send appends item if possible; ok is false when the channel is full
	// and the caller should park.
	send(item T) (ok bool, err error)
	// recv pops the front of the buffer; ok is false when the buffer is
	// empty but the channel is still open.
	recv() (item T, ok bool, err error)

	addRecvWaiter(id fib.TaskID)
	addSenderWaiter(id fib.TaskID)
	close()
}

// Channel creates an unbounded channel. Sends never block.
func Channel[T any]() (*Sender[T], *Receiver[T]) {
	ch := &unboundedChan[T]{}
	return &Sender[T]{ch: ch, senders: &senderCount{n: 1}}, &Receiver[T]{ch: ch}
}

// SyncChannel creates a bounded channel with the given capacity, which must
// be greater than zero. The capacity-plus-first send with no intervening
// receive parks the sender until the next receive.
func SyncChannel[T any](capacity int) (*Sender[T], *Receiver[T]) {
	if capacity <= 0 {
		panic(`fib/mpsc: channel capacity must be greater than zero`)
	}
	ch := &syncChan[T]{capacity: capacity}
	return &Sender[T]{ch: ch, senders: &senderCount{n: 1}}, &Receiver[T]{ch: ch}
}

// senderCount is the shared token tracking live sender handles.
type senderCount struct {
	n int
}

// Sender is a cloneable producer handle. Each handle must be closed; the
// channel disconnects when the last one is.
type Sender[T any] struct {
	ch      channel[T]
	senders *senderCount
	closed  bool
}

// Send delivers item, parking the calling task while a bounded channel is
// at capacity. Returns [ErrDisconnected] if the channel is closed; the
// caller keeps the item.
func (s *Sender[T]) Send(item T) error {
	if s.closed {
		panic(`fib/mpsc: send on a closed sender handle`)
	}
	for {
		ok, err := s.ch.send(item)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		s.ch.addSenderWaiter(fib.Current())
		fib.Park(fib.CauseChannel)
	}
}

// TrySend delivers item without blocking. Returns [ErrFull] if a bounded
// channel is at capacity, or [ErrDisconnected] if the channel is closed.
func (s *Sender[T]) TrySend(item T) error {
	if s.closed {
		panic(`fib/mpsc: send on a closed sender handle`)
	}
	ok, err := s.ch.send(item)
	if err != nil {
		return err
	}
	if !ok {
		return ErrFull
	}
	return nil
}

// Clone returns a new sender handle sharing the channel.
func (s *Sender[T]) Clone() *Sender[T] {
	if s.closed {
		panic(`fib/mpsc: clone of a closed sender handle`)
	}
	s.senders.n++
	return &Sender[T]{ch: s.ch, senders: s.senders}
}

// Close releases this handle. The last handle closed disconnects the
// channel and wakes the parked receiver, if any. Idempotent per handle.
func (s *Sender[T]) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.senders.n--
	if s.senders.n == 0 {
		s.ch.close()
	}
}

// Receiver is the single consumer handle. At most one task may be parked
// in [Receiver.Recv] at a time.
type Receiver[T any] struct {
	ch channel[T]
}

// Recv pops the oldest buffered item, parking the calling task while the
// channel is empty and open. Returns [ErrDisconnected] once the channel is
// closed and drained.
func (r *Receiver[T]) Recv() (T, error) {
	for {
		item, ok, err := r.ch.recv()
		if err != nil {
			var zero T
			return zero, err
		}
		if ok {
			return item, nil
		}
		r.ch.addRecvWaiter(fib.Current())
		fib.Park(fib.CauseChannel)
	}
}

// TryRecv pops the oldest buffered item without blocking. Returns
// [ErrEmpty] if the channel is empty and open, or [ErrDisconnected] once
// closed and drained.
func (r *Receiver[T]) TryRecv() (T, error) {
	item, ok, err := r.ch.recv()
	if err != nil {
		var zero T
		return zero, err
	}
	if !ok {
		var zero T
		return zero, ErrEmpty
	}
	return item, nil
}

// Close disconnects the channel and wakes any parked senders, which will
// observe [ErrDisconnected].
func (r *Receiver[T]) Close() {
	r.ch.close()
}

// unboundedChan buffers without limit; senders never park.
type unboundedChan[T any] struct {
	buffer     []T
	recvWaiter fib.TaskID
	hasWaiter  bool
	closed     bool
}

func (c *unboundedChan[T]) send(item T) (bool, error) {
	if c.closed {
		return false, ErrDisconnected
	}
	c.buffer = append(c.buffer, item)
	if c.hasWaiter {
		c.hasWaiter = false
		fib.Wake(c.recvWaiter)
	}
	return true, nil
}

func (c *unboundedChan[T]) recv() (T, bool, error) {
	var zero T
	if c.hasWaiter {
		panic(`fib/mpsc: multiple concurrent receivers`)
	}
	if len(c.buffer) == 0 {
		if c.closed {
			return zero, false, ErrDisconnected
		}
		return zero, false, nil
	}
	item := c.buffer[0]
	c.buffer = c.buffer[1:]
	return item, true, nil
}

func (c *unboundedChan[T]) addRecvWaiter(id fib.TaskID) {
	if c.hasWaiter {
		panic(`fib/mpsc: multiple concurrent receivers`)
	}
	c.recvWaiter = id
	c.hasWaiter = true
}

func (c *unboundedChan[T]) addSenderWaiter(fib.TaskID) {
	panic(`fib/mpsc: unbounded channel has no sender waiters`)
}

func (c *unboundedChan[T]) close() {
	c.closed = true
	if c.hasWaiter {
		c.hasWaiter = false
		fib.Wake(c.recvWaiter)
	}
}

// syncChan buffers up to capacity items; senders park while full.
type syncChan[T any] struct {
	buffer        []T
	capacity      int
	senderWaiters []fib.TaskID
	recvWaiter    fib.TaskID
	hasWaiter     bool
	closed        bool
}

func (c *syncChan[T]) send(item T) (bool, error) {
	if c.closed {
		return false, ErrDisconnected
	}
	if len(c.buffer) >= c.capacity {
		return false, nil
	}
	c.buffer = append(c.buffer, item)
	if c.hasWaiter {
		c.hasWaiter = false
		fib.Wake(c.recvWaiter)
	}
	c.wakeSender()
	return true, nil
}

func (c *syncChan[T]) recv() (T, bool, error) {
	var zero T
	if c.hasWaiter {
		panic(`fib/mpsc: multiple concurrent receivers`)
	}
	if len(c.buffer) == 0 {
		if c.closed {
			return zero, false, ErrDisconnected
		}
		return zero, false, nil
	}
	item := c.buffer[0]
	c.buffer = c.buffer[1:]
	c.wakeSender()
	return item, true, nil
}

func (c *syncChan[T]) wakeSender() {
	if len(c.senderWaiters) > 0 {
		id := c.senderWaiters[0]
		c.senderWaiters = c.senderWaiters[1:]
		fib.Wake(id)
	}
}

func (c *syncChan[T]) addRecvWaiter(id fib.TaskID) {
	if c.hasWaiter {
		panic(`fib/mpsc: multiple concurrent receivers`)
	}
	c.recvWaiter = id
	c.hasWaiter = true
}

func (c *syncChan[T]) addSenderWaiter(id fib.TaskID) {
	c.senderWaiters = append(c.senderWaiters, id)
}

func (c *syncChan[T]) close() {
	c.closed = true
	if c.hasWaiter {
		c.hasWaiter = false
		fib.Wake(c.recvWaiter)
	}
	for len(c.senderWaiters) > 0 {
		id := c.senderWaiters[0]
		c.senderWaiters = c.senderWaiters[1:]
		fib.Wake(id)
	}
}
