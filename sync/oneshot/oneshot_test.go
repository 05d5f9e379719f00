package oneshot

import (
	"testing"

	fib "github.com/joeycumines/go-fib"
	"github.com/stretchr/testify/assert"
)

// The receiver polls empty, joins the sender task, then takes the value.
func TestOneshot_sendThenRecv(t *testing.T) {
	fib.BlockOn(func() any {
		tx, rx := Channel[string]()
		h := fib.Spawn(func() any {
			if err := tx.Send(`Hello from task`); err != nil {
				panic(err)
			}
			return nil
		})

		_, err := rx.TryRecv()
		assert.ErrorIs(t, err, ErrEmpty)

		h.Join()

		v, err := rx.BlockingRecv()
		assert.NoError(t, err)
		assert.Equal(t, `Hello from task`, v)
		return nil
	})
}

func TestOneshot_blockingRecvParksUntilSend(t *testing.T) {
	var events []string
	fib.BlockOn(func() any {
		tx, rx := Channel[int]()
		h := fib.Spawn(func() int {
			events = append(events, `receiving`)
			v, err := rx.BlockingRecv()
			if err != nil {
				panic(err)
			}
			events = append(events, `received`)
			return v
		})
		fib.YieldNow()
		events = append(events, `sending`)
		assert.NoError(t, tx.Send(3))
		assert.Equal(t, 3, h.Join())
		assert.Equal(t, []string{`receiving`, `sending`, `received`}, events)
		return nil
	})
}

func TestOneshot_doubleSend(t *testing.T) {
	tx, _ := Channel[int]()
	assert.NoError(t, tx.Send(1))
	assert.ErrorIs(t, tx.Send(2), ErrAlreadySent)
}

func TestOneshot_sendAfterReceiverClose(t *testing.T) {
	tx, rx := Channel[int]()
	rx.Close()
	assert.True(t, tx.IsClosed())
	assert.ErrorIs(t, tx.Send(1), ErrClosed)
}

func TestOneshot_senderCloseWakesReceiver(t *testing.T) {
	fib.BlockOn(func() any {
		tx, rx := Channel[int]()
		h := fib.Spawn(func() error {
			_, err := rx.BlockingRecv()
			return err
		})
		fib.YieldNow() // receiver parks
		tx.Close()
		assert.ErrorIs(t, h.Join(), ErrClosed)
		return nil
	})
}

func TestOneshot_tryRecvStates(t *testing.T) {
	tx, rx := Channel[string]()
	assert.True(t, rx.IsEmpty())

	_, err := rx.TryRecv()
	assert.ErrorIs(t, err, ErrEmpty)

	assert.NoError(t, tx.Send(`v`))
	assert.False(t, rx.IsEmpty())

	v, err := rx.TryRecv()
	assert.NoError(t, err)
	assert.Equal(t, `v`, v)

	// The value is spent and the sender with it.
	_, err = rx.TryRecv()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestOneshot_blockingRecvAfterSenderGone(t *testing.T) {
	tx, rx := Channel[int]()
	tx.Close()
	fib.BlockOn(func() any {
		_, err := rx.BlockingRecv()
		assert.ErrorIs(t, err, ErrClosed)
		return nil
	})
}

func TestOneshot_sendDeliversDespiteClose(t *testing.T) {
	// A sent value outlives the implicit close that sending causes.
	tx, rx := Channel[int]()
	assert.NoError(t, tx.Send(7))
	assert.True(t, tx.IsClosed())
	v, err := rx.TryRecv()
	assert.NoError(t, err)
	assert.Equal(t, 7, v)
}
