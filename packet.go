package fib

// BlockCause tags why a task parked, carried in the block packet so the
// scheduler can log or specialize. All causes park identically into the
// blocked table.
type BlockCause uint8

const (
	// CauseLock is used by mutexes, reader-writer locks, and anything else
	// lock-shaped.
	CauseLock BlockCause = iota
	// CauseChannel is used by the mpsc and oneshot channels.
	CauseChannel
	// CauseNotify is used by one-shot notifications.
	CauseNotify
	// CauseSemaphore is used by the counting semaphore.
	CauseSemaphore
	// CauseBarrier is used by barriers.
	CauseBarrier
)

// String returns a human-readable representation of the cause.
func (c BlockCause) String() string {
	switch c {
	case CauseLock:
		return "lock"
	case CauseChannel:
		return "channel"
	case CauseNotify:
		return "notify"
	case CauseSemaphore:
		return "semaphore"
	case CauseBarrier:
		return "barrier"
	default:
		return "unknown"
	}
}

type packetKind uint8

const (
	packetYield packetKind = iota
	packetBlockOn
	packetResult
)

// packet conveys intent from a task to the scheduler across a context
// transfer. Single-use: ownership passes to the scheduler with the switch.
type packet struct {
	kind   packetKind
	cause  BlockCause // packetBlockOn only
	result any        // packetResult only
}
