// Package window implements the two ordered-by-seq collections a Stream
// keeps: the send window (segments sent but not yet fully acknowledged) and
// the receive window (segments received out of order, not yet deliverable).
//
// Both are a thin container/heap on top of segment.Segment, grounded in
// original_source's choice of a PriorityQueue for the same two collections
// and in spec.md's own suggestion of "a min-heap plus a dead set".
package window

import (
	"github.com/sorairo/reliudp/segment"
)

// segHeap is a container/heap.Interface over segments ordered by Seq.
type segHeap []segment.Segment

func (h segHeap) Len() int            { return len(h) }
func (h segHeap) Less(i, j int) bool  { return h[i].Seq < h[j].Seq }
func (h segHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *segHeap) Push(x interface{}) { *h = append(*h, x.(segment.Segment)) }
func (h *segHeap) Pop() interface{} {
	old := *h
	n := len(old)
	s := old[n-1]
	*h = old[:n-1]
	return s
}
