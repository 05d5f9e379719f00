package fib

// coroutine is a single-use handle to a suspended flow of execution: the Go
// rendition of a saved machine context. Each flow is a goroutine parked on a
// channel receive; transferring control is an unbuffered channel handoff, so
// at most one flow in the web is runnable at any time. Resuming a coroutine
// consumes it - the replacement handle for the peer arrives with the next
// transfer back.
type coroutine struct {
	ch chan transfer
}

// transfer is the value exchanged on every context switch: a fresh handle to
// the side that just suspended (nil on a final switch, after which that side
// never runs again), plus a word of payload.
type transfer struct {
	cx   *coroutine
	data any
}

// newCoroutine creates a fresh context bound to a new goroutine. The entry
// function receives the first transfer made into the context, exactly once;
// the goroutine exits when entry returns.
func newCoroutine(entry func(transfer)) *coroutine {
	cx := &coroutine{ch: make(chan transfer)}
	go func() {
		entry(<-cx.ch)
	}()
	return cx
}

// resume transfers control into the suspended flow, passing data, and parks
// the caller until control comes back. The received transfer carries the
// peer's replacement context. Resuming the same coroutine twice deadlocks.
func (cx *coroutine) resume(data any) transfer {
	self := &coroutine{ch: make(chan transfer)}
	cx.ch <- transfer{cx: self, data: data}
	return <-self.ch
}

// finish transfers control into the suspended flow without minting a
// replacement context. The caller's frame must not run again afterwards.
func (cx *coroutine) finish(data any) {
	cx.ch <- transfer{data: data}
}
