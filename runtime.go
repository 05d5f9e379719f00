package fib

// runtime is the scheduler singleton. Base and task contexts alternate
// strictly: while a task runs, the base context is parked in baseCx and the
// running task has no entry in cxs; while the scheduler runs, baseCx is nil
// and every live task's context is in cxs.
//
// The state is plain, non-atomic data. That is sound because control is
// handed off explicitly: no code touches the runtime except the single
// goroutine currently holding control, and every holder releases its view
// before performing a context switch.
type runtime struct {
	baseCx  *coroutine
	cxs     map[TaskID]*coroutine
	ready   []anyTask
	blocked map[TaskID]anyTask
	cur     TaskID
	nextID  TaskID
	running bool
}

var rt = &runtime{
	cxs:     make(map[TaskID]*coroutine),
	blocked: make(map[TaskID]anyTask),
	cur:     noTask,
}

// BlockOn spawns fn as the root task and drives the drain loop until there
// is no runnable and no blocked work left, then returns the root task's
// result. Calling BlockOn while a task is running is a programmer error and
// panics.
//
// If the loop goes idle with tasks still blocked (a deadlock: no reachable
// waker), the blocked tasks are logged at error level and abandoned, and
// their goroutines leak. If the root task itself was abandoned, BlockOn
// panics.
func BlockOn[R any](fn func() R) R {
	if rt.running {
		panic(`fib: BlockOn called while the runtime is already running`)
	}
	rt.running = true
	defer func() { rt.running = false }()

	root := Spawn(fn)
	rt.drain()

	if !root.result.ok {
		panic(`fib: root task abandoned while blocked`)
	}
	return root.result.val
}

// drain is the round-robin scheduler loop.
func (r *runtime) drain() {
	for len(r.ready) > 0 {
		t := r.ready[0]
		r.ready = r.ready[1:]
		r.cur = t.id()
		t.resume()
		switch t.state() {
		case taskFinished:
			logger().Trace().Uint64(`task`, uint64(t.id())).Log(`task finished`)
		case taskReady:
			r.ready = append(r.ready, t)
		case taskBlocked:
			if _, ok := r.blocked[t.id()]; ok {
				panic(`fib: task already in the blocked table`)
			}
			r.blocked[t.id()] = t
			logger().Trace().
				Uint64(`task`, uint64(t.id())).
				Stringer(`cause`, t.cause()).
				Log(`task blocked`)
		default:
			panic(`fib: task resumed to an unexpected state`)
		}
		r.cur = noTask
	}

	// A wake can only originate from a running task, so an empty ready
	// queue with a non-empty blocked table is terminal: abandon the
	// deadlocked tasks.
	if len(r.blocked) > 0 {
		logger().Err().Int(`blocked`, len(r.blocked)).Log(`drain loop idle; abandoning blocked tasks`)
		for id := range r.blocked {
			delete(r.blocked, id)
			delete(r.cxs, id)
		}
	}
}

// Spawn allocates an id and a fresh task context, pushes the task onto the
// back of the ready queue, and returns a handle sharing the task's result
// slot. Spawning is permitted both from inside a running task and before
// the runtime is entered.
//
// A panic in fn is not recovered: it unwinds the task's goroutine without
// ever resuming the scheduler and, like any unrecovered goroutine panic,
// terminates the program.
func Spawn[R any](fn func() R) *JoinHandle[R] {
	id := rt.nextID
	rt.nextID++

	t, cx := newTask(id, fn)
	rt.ready = append(rt.ready, t)
	if _, ok := rt.cxs[id]; ok {
		panic(`fib: duplicate task id`)
	}
	rt.cxs[id] = cx

	logger().Trace().Uint64(`task`, uint64(id)).Log(`task spawned`)

	return &JoinHandle[R]{id: id, result: t.result}
}

// YieldNow relinquishes control to the scheduler, re-appending the calling
// task to the back of the ready queue. Panics outside a running task.
func YieldNow() {
	rt.yieldToBase(&packet{kind: packetYield})
}

// Park blocks the calling task with the given cause. The caller must first
// have recorded its id (see Current) on the waiter list of whichever
// primitive will later Wake it; the scheduler moves the task into the
// blocked table and will not run it again until then. Panics outside a
// running task.
func Park(cause BlockCause) {
	rt.yieldToBase(&packet{kind: packetBlockOn, cause: cause})
}

// Wake moves a blocked task to the back of the ready queue. Waking an id
// that is not in the blocked table is a programmer error and panics.
func Wake(id TaskID) {
	t, ok := rt.blocked[id]
	if !ok {
		panic(`fib: wake of a task that is not blocked`)
	}
	delete(rt.blocked, id)
	t.setReady()
	rt.ready = append(rt.ready, t)
	logger().Trace().Uint64(`task`, uint64(id)).Log(`task woken`)
}

// Current returns the id of the running task. Panics outside a running
// task.
func Current() TaskID {
	if rt.baseCx == nil || rt.cur == noTask {
		panic(`fib: no task is running`)
	}
	return rt.cur
}

// yieldToBase hands a packet to the scheduler and parks the calling task
// until it is next resumed.
func (r *runtime) yieldToBase(p *packet) {
	base := r.baseCx
	if base == nil {
		panic(`fib: yield outside of a running task`)
	}
	r.baseCx = nil
	from := base.resume(p)
	r.setBaseCx(from.cx)
}

func (r *runtime) setBaseCx(cx *coroutine) {
	if r.baseCx != nil {
		panic(`fib: base context already set`)
	}
	r.baseCx = cx
}

func (r *runtime) takeBaseCx() *coroutine {
	cx := r.baseCx
	if cx == nil {
		panic(`fib: base context not set`)
	}
	r.baseCx = nil
	return cx
}

// takeCurCx removes the current task's stored context. An entry is present
// exactly while the task is suspended.
func (r *runtime) takeCurCx() *coroutine {
	cx, ok := r.cxs[r.cur]
	if !ok {
		panic(`fib: no context for the current task`)
	}
	delete(r.cxs, r.cur)
	return cx
}

func (r *runtime) setCurCx(cx *coroutine) {
	if _, ok := r.cxs[r.cur]; ok {
		panic(`fib: context for the current task already set`)
	}
	r.cxs[r.cur] = cx
}

// tracked reports whether the runtime still holds a context for id, i.e.
// the task has not finished.
func (r *runtime) tracked(id TaskID) bool {
	_, ok := r.cxs[id]
	return ok
}
