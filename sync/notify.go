package sync

import (
	fib "github.com/joeycumines/go-fib"
)

// Notify is a one-shot notification: wake one waiter, or store a single
// permit for the next one. The permit is a one-slot capability, so any
// number of consecutive [Notify.NotifyOne] calls with no waiters coalesce
// into a single wake on the next [Notify.Wait].
type Notify struct {
	waiters []fib.TaskID
	permit  bool
}

// NewNotify creates a notification with no stored permit.
func NewNotify() *Notify {
	return &Notify{}
}

// Wait consumes a stored permit and returns immediately if one is present;
// otherwise it parks the calling task until notified.
func (n *Notify) Wait() {
	if n.permit {
		n.permit = false
		return
	}
	n.waiters = append(n.waiters, fib.Current())
	fib.Park(fib.CauseNotify)
}

// NotifyOne wakes the oldest waiter, or stores the permit if there is none.
func (n *Notify) NotifyOne() {
	if len(n.waiters) > 0 {
		id := n.waiters[0]
		n.waiters = n.waiters[1:]
		fib.Wake(id)
		return
	}
	n.permit = true
}

// NotifyLast wakes the newest waiter, or stores the permit if there is
// none.
func (n *Notify) NotifyLast() {
	if len(n.waiters) > 0 {
		id := n.waiters[len(n.waiters)-1]
		n.waiters = n.waiters[:len(n.waiters)-1]
		fib.Wake(id)
		return
	}
	n.permit = true
}

// NotifyWaiters wakes every parked waiter. It does not store a permit.
func (n *Notify) NotifyWaiters() {
	for len(n.waiters) > 0 {
		id := n.waiters[0]
		n.waiters = n.waiters[1:]
		fib.Wake(id)
	}
}
