package reliudp

import (
	"time"

	"github.com/sorairo/reliudp/segment"
	"github.com/sorairo/reliudp/window"
)

// receiver holds the state necessary to turn inbound segments into ordered
// application bytes. Split out of Stream the way the teacher splits
// receiver out of endpoint in transport/tcp/rcv.go.
type receiver struct {
	ep *Stream

	receivedBytes uint64
	window        window.RecvWindow
}

// deliver appends payload to the stream's read buffer. Kept as its own
// method so window.RecvWindow.Drain's callback reads as a single call.
func (r *receiver) deliver(payload []byte) {
	r.ep.readBuffer = r.ep.readBuffer.Append(payload)
}

// drain runs the receive-window reassembly loop of spec.md §4.7: pop the
// lowest-seq pending segment while it is exactly the next expected byte,
// appending its payload and advancing receivedBytes; stop (leaving the
// segment in place) once the head is ahead of receivedBytes; silently
// discard anything behind receivedBytes as a duplicate.
func (r *receiver) drain() {
	r.receivedBytes = r.window.Drain(r.receivedBytes, r.deliver)
}

// receiveSegment implements spec.md §4.5. It performs one receive attempt
// bounded by timeout (zero means block indefinitely). Mirroring
// original_source's single broad except around the recvfrom/decode step
// only, any failure to receive or decode a datagram is folded into "nothing
// happened" (spec.md §7: "transient receive failures ... not errors at the
// API level"); a failure to send the resulting ack segment is not caught
// here and propagates to the caller, exactly as original_source's
// unconditional call to _send_segment does.
func (r *receiver) receiveSegment(timeout time.Duration) (bool, error) {
	buf := make([]byte, r.ep.cfg.mss+segment.HeaderSize)
	n, err := r.ep.channel.RecvFrom(buf, timeout)
	if err != nil {
		return false, nil
	}

	seg, err := segment.Decode(buf[:n])
	if err != nil {
		// Malformed inbound datagram: spec.md §7 leaves this
		// implementation-defined. Treated as transient, same as a
		// timeout, after logging it once.
		r.ep.cfg.logf("reliudp: dropping malformed datagram: %v", err)
		return false, nil
	}

	if !seg.IsPureAck() {
		r.window.Insert(seg)
		r.drain()

		ack := segment.Segment{Seq: r.ep.snd.sentBytes, Ack: r.receivedBytes}
		if _, err := r.ep.snd.sendSegment(ack); err != nil {
			return false, err
		}
	}

	r.ep.snd.handleAck(seg.Ack)
	return true, nil
}
