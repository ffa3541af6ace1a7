package window

import (
	"container/heap"

	"github.com/sorairo/reliudp/segment"
)

// SendWindow is the ordered-by-seq collection of segments a sender has put
// on the wire at least once and not yet seen fully acknowledged (spec.md §3,
// invariant 2: every member satisfies seq >= confirmedBytes).
type SendWindow struct {
	h segHeap
}

// Insert adds s to the window. Pure acks (empty payload) must never be
// inserted — the caller enforces that, per spec.md §4.4.
func (w *SendWindow) Insert(s segment.Segment) {
	heap.Push(&w.h, s)
}

// Len reports how many segments are currently outstanding.
func (w *SendWindow) Len() int {
	return w.h.Len()
}

// Peek returns the lowest-seq segment without removing it, and whether the
// window is non-empty.
func (w *SendWindow) Peek() (segment.Segment, bool) {
	if w.h.Len() == 0 {
		return segment.Segment{}, false
	}
	return w.h[0], true
}

// Pop removes and returns the lowest-seq segment.
func (w *SendWindow) Pop() (segment.Segment, bool) {
	if w.h.Len() == 0 {
		return segment.Segment{}, false
	}
	s := heap.Pop(&w.h).(segment.Segment)
	return s, true
}

// PruneBelow discards every segment whose Seq is less than confirmed: it has
// been fully acknowledged and is no longer a retransmission candidate
// (spec.md §4.5, "prune the send window of any segment whose seq <
// confirmed_bytes").
func (w *SendWindow) PruneBelow(confirmed uint64) {
	for w.h.Len() > 0 && w.h[0].Seq < confirmed {
		heap.Pop(&w.h)
	}
}
