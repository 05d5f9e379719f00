package fib

// TaskID uniquely identifies a task for the lifetime of the process.
// Ids are allocated monotonically and never reused.
type TaskID uint64

// noTask is the id held while no task is current.
const noTask = ^TaskID(0)

// taskInitSentinel is sent back by the trampoline once the init handoff has
// completed, so the spawner knows the closure was taken.
const taskInitSentinel = 42

type taskState uint8

const (
	taskReady taskState = iota
	taskRunning
	taskBlocked
	taskFinished
)

func (s taskState) String() string {
	switch s {
	case taskReady:
		return "ready"
	case taskRunning:
		return "running"
	case taskBlocked:
		return "blocked"
	case taskFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// anyTask erases the result type so the scheduler can own a heterogeneous
// set of tasks.
type anyTask interface {
	id() TaskID
	resume()
	state() taskState
	cause() BlockCause
	setReady()
}

// task is a fiber: an id, a state, and a shared single-assignment result
// slot. Its execution context lives in the runtime's context table while it
// is suspended.
type task[R any] struct {
	tid    TaskID
	st     taskState
	bc     BlockCause
	result *onceCell[R]
}

// onceCell is a single-assignment slot, shared between a task and any
// outstanding join handles.
type onceCell[R any] struct {
	val R
	ok  bool
}

func (c *onceCell[R]) store(val R) {
	if c.ok {
		panic(`fib: result slot assigned twice`)
	}
	c.val = val
	c.ok = true
}

// newTask primes a fresh context pointing at the task trampoline and runs
// the init handshake: the trampoline takes the closure, hands back the
// sentinel, and parks awaiting its first real resume. The returned context
// is ready for the context table.
func newTask[R any](id TaskID, fn func() R) (*task[R], *coroutine) {
	cx := newCoroutine(taskEntry[R])
	t := cx.resume(fn)
	if t.data != taskInitSentinel {
		panic(`fib: task init handshake failed`)
	}
	return &task[R]{
		tid:    id,
		st:     taskReady,
		result: new(onceCell[R]),
	}, t.cx
}

// taskEntry is the per-task trampoline. It takes ownership of the closure
// passed on first resume, completes the init handshake, records the base
// context obtained from the scheduler's first real resume, runs the
// closure, and hands the result to base with a final switch. Control never
// returns to this frame after that switch.
func taskEntry[R any](toSpawner transfer) {
	fn := toSpawner.data.(func() R)
	fromBase := toSpawner.cx.resume(taskInitSentinel)
	rt.setBaseCx(fromBase.cx)

	result := fn()

	base := rt.takeBaseCx()
	base.finish(&packet{kind: packetResult, result: result})
}

func (t *task[R]) id() TaskID {
	return t.tid
}

func (t *task[R]) state() taskState {
	return t.st
}

func (t *task[R]) cause() BlockCause {
	return t.bc
}

func (t *task[R]) setReady() {
	t.st = taskReady
}

// resume removes the task's stored context, transfers control into it, and
// applies the packet that comes back: result packets fill the result slot
// and drop the context for good; yield and block packets reinstall the
// updated context and set the matching state.
func (t *task[R]) resume() {
	if t.st != taskReady {
		panic(`fib: resumed a task that is not ready`)
	}
	cx := rt.takeCurCx()
	t.st = taskRunning

	from := cx.resume(nil)
	p := from.data.(*packet)
	switch p.kind {
	case packetResult:
		// A nil interface result has no dynamic type to assert; it is R's
		// zero value.
		var val R
		if p.result != nil {
			val = p.result.(R)
		}
		t.result.store(val)
		t.st = taskFinished
	case packetYield:
		rt.setCurCx(from.cx)
		t.st = taskReady
	case packetBlockOn:
		rt.setCurCx(from.cx)
		t.st = taskBlocked
		t.bc = p.cause
	}
}
