package reliudp

import (
	"time"

	"github.com/sorairo/reliudp/buffer"
	"github.com/sorairo/reliudp/segment"
	"github.com/sorairo/reliudp/window"
)

// sender holds the state necessary to emit segments and track which of them
// remain unacknowledged. Split out of Stream the way the teacher splits
// sender out of endpoint in transport/tcp/snd.go.
type sender struct {
	ep *Stream

	sentBytes      uint64
	confirmedBytes uint64
	window         window.SendWindow
}

// hasRoom reports whether the send window has room for another segment.
// Spec.md §4.3 step 1: the check is strict '>' for "full", so equality
// between in-flight bytes and windowSize is treated as room available —
// preserved exactly as specified, not tightened to '>='.
func (s *sender) hasRoom() bool {
	inFlight := s.sentBytes - s.confirmedBytes
	return inFlight <= s.ep.cfg.windowSize
}

// sendSegment hands seg to the datagram channel with its blocking timeout
// disabled (spec.md §4.4: "this path never suspends on a send"). It updates
// sentBytes on a first transmission, truncates seg's payload in place to
// whatever the channel actually accepted, and inserts it into the send
// window if any payload was accepted. Pure acks therefore never enter the
// window, since they have no payload to accept.
func (s *sender) sendSegment(seg segment.Segment) (int, error) {
	n, err := s.ep.channel.SendTo(seg.Encode())
	if err != nil {
		return 0, err
	}
	accepted := n - segment.HeaderSize
	if accepted < 0 {
		accepted = 0
	}

	if seg.Seq == s.sentBytes {
		s.sentBytes += uint64(accepted)
	}

	if accepted > 0 {
		if accepted < len(seg.Payload) {
			seg.Payload = seg.Payload[:accepted]
		}
		// seg.Payload may still alias the caller's own buffer (Send builds
		// it as a sub-slice of data). A segment surviving in the send
		// window must keep the bytes it was first sent with until it is
		// acknowledged, even if the caller reuses or overwrites its buffer
		// in between, so copy into owned storage before retaining it.
		owned := buffer.NewView(len(seg.Payload))
		copy(owned, seg.Payload)
		seg.Payload = owned
		seg.SentAt = time.Now()
		s.window.Insert(seg)
	}
	return accepted, nil
}

// retransmitExpired examines only the head of the send window (lowest seq);
// if it has been outstanding longer than ackTimeout, it is resent — a
// single-shot retransmission per call, per spec.md §4.6 ("Only one segment
// is re-sent per iteration").
func (s *sender) retransmitExpired() error {
	head, ok := s.window.Peek()
	if !ok {
		return nil
	}
	if time.Since(head.SentAt) <= s.ep.cfg.ackTimeout {
		return nil
	}
	s.window.Pop()
	s.ep.cfg.logf("reliudp: retransmitting seq=%d len=%d", head.Seq, len(head.Payload))
	_, err := s.sendSegment(head)
	return err
}

// handleAck folds an inbound cumulative ack into confirmedBytes and prunes
// the send window. confirmedBytes is clamped with max rather than assigned
// unconditionally (spec.md §9's flagged fix to the original's behavior,
// which could move confirmedBytes backward on a stale or misbehaving peer).
func (s *sender) handleAck(ack uint64) {
	if ack > s.confirmedBytes {
		s.confirmedBytes = ack
	}
	s.window.PruneBelow(s.confirmedBytes)
}
