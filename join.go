package fib

// JoinHandle observes the completion of a spawned task. It carries the
// target task's id and a shared reference to its single-assignment result
// slot.
type JoinHandle[R any] struct {
	id     TaskID
	result *onceCell[R]
}

// ID returns the id of the task this handle joins.
func (h *JoinHandle[R]) ID() TaskID {
	return h.id
}

// IsFinished reports whether the task has produced its result.
func (h *JoinHandle[R]) IsFinished() bool {
	return h.result.ok
}

// Join blocks the calling task cooperatively until the target task
// finishes, then returns its result. Joining is a spin of [YieldNow] until
// the scheduler has dropped the target's context, not a waiter-list wake,
// so a join of a task that never finishes keeps the ready queue busy
// forever rather than deadlocking the loop.
func (h *JoinHandle[R]) Join() R {
	for rt.tracked(h.id) {
		YieldNow()
	}
	if !h.result.ok {
		panic(`fib: joined task was abandoned without a result`)
	}
	return h.result.val
}
