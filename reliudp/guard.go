package reliudp

import "sync/atomic"

// guard is a single-owner reentrancy check: it enforces spec.md §5's
// assumption that "the user does not concurrently invoke multiple methods
// on the same endpoint" instead of silently trusting it. Adapted from the
// teacher's tmutex.Mutex down to the one operation Stream actually needs —
// a non-blocking compare-and-swap acquire — since Stream never contends for
// the guard and so never calls the teacher's blocking Lock.
type guard struct {
	v int32
}

// init readies g for use; the zero value is not directly usable because 0
// would read as "already held".
func (g *guard) init() {
	g.v = 1
}

// tryAcquire reports whether g was free and is now held by the caller.
func (g *guard) tryAcquire() bool {
	return atomic.CompareAndSwapInt32(&g.v, 1, 0)
}

// release gives g back up.
func (g *guard) release() {
	atomic.StoreInt32(&g.v, 1)
}
