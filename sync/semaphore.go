package sync

import (
	"errors"

	fib "github.com/joeycumines/go-fib"
)

// Standard errors.
var (
	// ErrClosed is returned by acquire operations on a closed semaphore.
	ErrClosed = errors.New(`fib/sync: semaphore closed`)

	// ErrNoPermits is returned by TryAcquire when no permits are available.
	ErrNoPermits = errors.New(`fib/sync: no permits available`)
)

// MaxPermits is the maximum number of permits a semaphore can hold.
const MaxPermits = 65535

// Semaphore is a counting semaphore. Waiters park in FIFO order; releases
// wake waiters without transferring permits, so a woken waiter re-runs the
// acquire check and may re-park if a barging task got there first.
//
// Conservation invariant: available permits plus the counts of all live
// permits is constant across any sequence of acquire/release/add/forget/
// split/merge (ignoring Close).
type Semaphore struct {
	permits int
	waiters []fib.TaskID
	closed  bool
}

// NewSemaphore creates a semaphore with the given number of permits, which
// must be between 1 and [MaxPermits].
func NewSemaphore(permits int) *Semaphore {
	if permits <= 0 || permits > MaxPermits {
		panic(`fib/sync: semaphore permits out of range`)
	}
	return &Semaphore{permits: permits}
}

// AvailablePermits returns the number of permits currently available.
func (s *Semaphore) AvailablePermits() int {
	return s.permits
}

// AddPermits makes n more permits available and wakes one waiter per
// available permit (counting permits that were already available), up to
// the number of waiters. Woken waiters take their permits through the
// normal acquire re-check; nothing is decremented here.
func (s *Semaphore) AddPermits(n int) {
	if n < 0 || s.permits+n > MaxPermits {
		panic(`fib/sync: semaphore permits out of range`)
	}
	if n == 0 {
		return
	}
	s.permits += n
	wake := min(s.permits, len(s.waiters))
	for range wake {
		id := s.waiters[0]
		s.waiters = s.waiters[1:]
		fib.Wake(id)
	}
}

// ForgetPermits discards up to n available permits, returning the number
// actually forgotten.
func (s *Semaphore) ForgetPermits(n int) int {
	if n <= 0 || s.permits == 0 {
		return 0
	}
	forgotten := min(s.permits, n)
	s.permits -= forgotten
	return forgotten
}

// Acquire takes one permit, parking the calling task until one is
// available. Returns [ErrClosed] if the semaphore is or becomes closed.
func (s *Semaphore) Acquire() (*Permit, error) {
	for {
		if s.closed {
			return nil, ErrClosed
		}
		if s.permits > 0 {
			s.permits--
			return &Permit{sem: s, permits: 1}, nil
		}
		s.waiters = append(s.waiters, fib.Current())
		fib.Park(fib.CauseSemaphore)
	}
}

// TryAcquire takes one permit without blocking. Returns [ErrClosed] if the
// semaphore is closed, or [ErrNoPermits] if none are available.
func (s *Semaphore) TryAcquire() (*Permit, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.permits == 0 {
		return nil, ErrNoPermits
	}
	s.permits--
	return &Permit{sem: s, permits: 1}, nil
}

// IsClosed reports whether the semaphore has been closed.
func (s *Semaphore) IsClosed() bool {
	return s.closed
}

// Close closes the semaphore and wakes all waiters; each returns
// [ErrClosed] from its acquire. Idempotent.
func (s *Semaphore) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for len(s.waiters) > 0 {
		id := s.waiters[0]
		s.waiters = s.waiters[1:]
		fib.Wake(id)
	}
}

// Permit represents ownership of one or more semaphore permits. A permit
// must eventually be released, forgotten, or merged into another permit.
type Permit struct {
	sem     *Semaphore
	permits int
}

// NumPermits returns the number of permits this permit currently holds.
func (p *Permit) NumPermits() int {
	return p.permits
}

// Release returns the held permits to the semaphore, waking waiters as per
// [Semaphore.AddPermits]. The permit is empty afterwards; releasing an
// empty permit is a no-op.
func (p *Permit) Release() {
	n := p.permits
	p.permits = 0
	p.sem.AddPermits(n)
}

// Forget drops the held permits without returning them to the semaphore,
// permanently reducing the total.
func (p *Permit) Forget() {
	p.permits = 0
}

// Merge moves all permits out of other into p. Panics if the permits come
// from different semaphores.
func (p *Permit) Merge(other *Permit) {
	if p.sem != other.sem {
		panic(`fib/sync: cannot merge permits from different semaphores`)
	}
	p.permits += other.permits
	other.permits = 0
}

// Split detaches n permits into a fresh permit, or returns nil if p holds
// fewer than n.
func (p *Permit) Split(n int) *Permit {
	if n < 0 || n > MaxPermits || n > p.permits {
		return nil
	}
	p.permits -= n
	return &Permit{sem: p.sem, permits: n}
}
