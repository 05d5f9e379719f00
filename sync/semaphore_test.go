package sync

import (
	"testing"

	fib "github.com/joeycumines/go-fib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustAcquire panics rather than failing the test: a test failure helper
// cannot stop a task goroutine without wedging the scheduler.
func mustAcquire(sem *Semaphore) *Permit {
	p, err := sem.Acquire()
	if err != nil {
		panic(err)
	}
	return p
}

func TestNewSemaphore_rangePanics(t *testing.T) {
	for _, tc := range [...]struct {
		name    string
		permits int
	}{
		{`zero`, 0},
		{`negative`, -1},
		{`over max`, MaxPermits + 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error(`expected panic`)
				}
			}()
			NewSemaphore(tc.permits)
		})
	}
}

// Fifty tasks spin try-acquire/yield until they hold one of ten permits.
// At every instant, available permits plus live permits must equal ten.
func TestSemaphore_tryAcquireContention(t *testing.T) {
	fib.BlockOn(func() any {
		sem := NewSemaphore(10)
		live := 0
		succeeded := 0
		var handles []*fib.JoinHandle[any]
		for range 50 {
			handles = append(handles, fib.Spawn(func() any {
				for {
					permit, err := sem.TryAcquire()
					if err == nil {
						live++
						succeeded++
						assert.Equal(t, 10, sem.AvailablePermits()+live)
						fib.YieldNow()
						live--
						permit.Release()
						return nil
					}
					assert.ErrorIs(t, err, ErrNoPermits)
					fib.YieldNow()
				}
			}))
		}
		for _, h := range handles {
			h.Join()
		}
		assert.Equal(t, 50, succeeded)
		assert.Equal(t, 10, sem.AvailablePermits())
		return nil
	})
}

func TestSemaphore_acquireParksUntilRelease(t *testing.T) {
	var order []string
	fib.BlockOn(func() any {
		sem := NewSemaphore(1)
		permit := mustAcquire(sem)
		h := fib.Spawn(func() any {
			p := mustAcquire(sem)
			order = append(order, `acquired`)
			p.Release()
			return nil
		})
		fib.YieldNow()
		order = append(order, `releasing`)
		permit.Release()
		h.Join()
		return nil
	})
	assert.Equal(t, []string{`releasing`, `acquired`}, order)
}

// With one permit the semaphore degenerates to a mutex: critical sections
// never overlap.
func TestSemaphore_degeneratesToMutex(t *testing.T) {
	fib.BlockOn(func() any {
		sem := NewSemaphore(1)
		inside := 0
		var handles []*fib.JoinHandle[any]
		for range 5 {
			handles = append(handles, fib.Spawn(func() any {
				p := mustAcquire(sem)
				inside++
				assert.Equal(t, 1, inside)
				fib.YieldNow()
				inside--
				p.Release()
				return nil
			}))
		}
		for _, h := range handles {
			h.Join()
		}
		return nil
	})
}

func TestSemaphore_close(t *testing.T) {
	fib.BlockOn(func() any {
		sem := NewSemaphore(1)
		permit := mustAcquire(sem)

		h := fib.Spawn(func() error {
			_, err := sem.Acquire()
			return err
		})
		fib.YieldNow() // h parks
		assert.False(t, sem.IsClosed())
		sem.Close()
		sem.Close() // idempotent
		assert.True(t, sem.IsClosed())
		assert.ErrorIs(t, h.Join(), ErrClosed)

		_, err := sem.Acquire()
		assert.ErrorIs(t, err, ErrClosed)
		_, err = sem.TryAcquire()
		assert.ErrorIs(t, err, ErrClosed)

		permit.Release() // releasing into a closed semaphore is harmless
		return nil
	})
}

func TestSemaphore_addPermitsWakesWaiters(t *testing.T) {
	fib.BlockOn(func() any {
		sem := NewSemaphore(1)
		_ = mustAcquire(sem)

		results := make([]bool, 3)
		var handles []*fib.JoinHandle[any]
		for i := range 3 {
			handles = append(handles, fib.Spawn(func() any {
				p := mustAcquire(sem)
				results[i] = true
				p.Forget()
				return nil
			}))
		}
		fib.YieldNow() // all three park
		sem.AddPermits(3)
		for _, h := range handles {
			h.Join()
		}
		assert.Equal(t, []bool{true, true, true}, results)
		assert.Equal(t, 0, sem.AvailablePermits())
		return nil
	})
}

func TestSemaphore_forgetPermits(t *testing.T) {
	sem := NewSemaphore(5)
	require.Equal(t, 0, sem.ForgetPermits(0))
	require.Equal(t, 3, sem.ForgetPermits(3))
	require.Equal(t, 2, sem.AvailablePermits())
	require.Equal(t, 2, sem.ForgetPermits(10))
	require.Equal(t, 0, sem.AvailablePermits())
	require.Equal(t, 0, sem.ForgetPermits(1))
}

func TestPermit_arithmetic(t *testing.T) {
	fib.BlockOn(func() any {
		sem := NewSemaphore(10)
		p := mustAcquire(sem)
		for range 4 {
			p.Merge(mustAcquire(sem))
		}
		assert.Equal(t, 5, p.NumPermits())
		assert.Equal(t, 5, sem.AvailablePermits())

		half := p.Split(2)
		if assert.NotNil(t, half) {
			assert.Equal(t, 2, half.NumPermits())
			assert.Equal(t, 3, p.NumPermits())
			half.Forget()
			assert.Equal(t, 0, half.NumPermits())
		}

		assert.Nil(t, p.Split(4), `cannot split more than held`)
		assert.Nil(t, p.Split(-1))

		p.Release()
		assert.Equal(t, 8, sem.AvailablePermits()) // two permanently forgotten
		return nil
	})
}

func TestPermit_mergeAcrossSemaphoresPanics(t *testing.T) {
	fib.BlockOn(func() any {
		a := mustAcquire(NewSemaphore(1))
		b := mustAcquire(NewSemaphore(1))
		defer func() {
			if recover() == nil {
				t.Error(`expected panic`)
			}
		}()
		a.Merge(b)
		return nil
	})
}
