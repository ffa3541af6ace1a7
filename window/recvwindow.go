package window

import (
	"container/heap"

	"github.com/sorairo/reliudp/segment"
)

// RecvWindow is the ordered-by-seq collection of segments received off the
// wire but not yet deliverable in order (spec.md §3, invariant 3: every
// member satisfies seq > receivedBytes).
type RecvWindow struct {
	h segHeap
}

// Insert adds a received segment to the window.
func (w *RecvWindow) Insert(s segment.Segment) {
	heap.Push(&w.h, s)
}

// Len reports how many segments are currently pending reassembly.
func (w *RecvWindow) Len() int {
	return w.h.Len()
}

// Drain repeatedly takes the lowest-seq pending segment and, per spec.md
// §4.7: delivers it and advances receivedBytes if its Seq equals
// receivedBytes; discards it silently if its Seq is less than receivedBytes
// (a duplicate of already-delivered data); otherwise leaves it in the window
// and stops. deliver is called once per in-order segment, in seq order, with
// that segment's payload. Drain returns the advanced receivedBytes.
func (w *RecvWindow) Drain(receivedBytes uint64, deliver func(payload []byte)) uint64 {
	for w.h.Len() > 0 {
		s := w.h[0]
		switch {
		case s.Seq == receivedBytes:
			heap.Pop(&w.h)
			deliver(s.Payload)
			receivedBytes += uint64(len(s.Payload))
		case s.Seq > receivedBytes:
			return receivedBytes
		default:
			// s.Seq < receivedBytes: duplicate of already-delivered data.
			heap.Pop(&w.h)
		}
	}
	return receivedBytes
}
