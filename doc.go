// Package fib implements a cooperative, single-threaded, stackful-fiber
// concurrency runtime: many user-space tasks multiplexed onto a single flow
// of control (an M:1 model), with explicit context transfers between a base
// (scheduler) context and task contexts.
//
// # Architecture
//
// The runtime is a package-level singleton holding a FIFO ready queue of
// runnable tasks, a blocked table of parked tasks, a context table of saved
// execution contexts, and a base-context slot. [BlockOn] spawns a root task
// and drives the drain loop until no runnable and no blocked work remains.
// A task runs until it hands a packet (yield, block, or result) back to the
// base context; the scheduler reads the packet, updates the task's state,
// and picks the next ready task. Every suspension returns to base; there is
// no task-to-task switch.
//
// Execution contexts are realised as goroutine rendezvous: each task owns a
// goroutine, and transferring control is an unbuffered channel handoff, so
// exactly one goroutine in the web is ever runnable. Task stacks are
// ordinary goroutine stacks, managed by the Go runtime.
//
// # Suspension Points
//
// A task may suspend only by calling [YieldNow], by blocking on one of the
// synchronization primitives (see the sync, sync/mpsc, and sync/oneshot
// packages), or by returning. There are no implicit yields and no
// preemption. Scheduling is strict FIFO: newly spawned tasks and yielding
// tasks go to the back of the ready queue, and waiters parked on a
// primitive are woken in the order they parked.
//
// # Integrating Primitives
//
// Synchronization primitives integrate with the scheduler through a uniform
// protocol: record [Current] on an internal waiter list, then [Park] with a
// [BlockCause]; releasing parties pass stored ids to [Wake]. User-defined
// primitives may use the same three functions.
//
// # Thread Safety
//
// There is none, on purpose. All runtime state is plain, non-atomic data,
// sound only because control is handed off explicitly and no two tasks ever
// run concurrently. Neither the runtime nor any primitive may be used from
// goroutines other than those the runtime itself manages. A blocked table
// with no reachable waker is a deadlock; the runtime logs and abandons the
// blocked tasks rather than attempting detection or recovery.
//
// # Usage
//
//	sum := fib.BlockOn(func() int {
//	    a := fib.Spawn(func() int { return 1 })
//	    b := fib.Spawn(func() int { fib.YieldNow(); return 2 })
//	    return a.Join() + b.Join()
//	})
package fib
