// Package sync provides blocking synchronization primitives for the fib
// runtime: mutex, reader-writer lock, counting semaphore, one-shot
// notification, and barrier.
//
// Every primitive follows the same idiom: inspect internal state; if
// acquisition succeeds, proceed; otherwise record the calling task's id on
// an internal FIFO waiter list and park via the scheduler. Releasing
// parties pop waiter ids and hand them back to the scheduler's wake entry
// point. Waiter lists hold ids, never task objects, so no primitive keeps a
// reference into another task.
//
// State mutations need no internal locking: only one task executes at a
// time and the scheduler never preempts, so every operation is atomic with
// respect to every other task. The corollary is that nothing in this
// package may be touched from outside the runtime's control flow.
package sync
