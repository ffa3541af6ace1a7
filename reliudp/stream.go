// Package reliudp implements a reliable, ordered, bidirectional byte-stream
// transport on top of an unreliable datagram.Channel: a simplified TCP —
// segmentation into fixed-maximum-size units, cumulative sequence/ack
// numbering, a sliding-window sender with timeout-driven retransmission, and
// an out-of-order reorder buffer at the receiver.
package reliudp

import (
	"github.com/sorairo/reliudp/buffer"
	"github.com/sorairo/reliudp/datagram"
	"github.com/sorairo/reliudp/segment"
)

// Stream is one endpoint of the reliable transport. It owns all per-endpoint
// state (counters, send window, receive window, application read buffer)
// and drives the wire through its datagram.Channel. A Stream is driven by
// one caller goroutine at a time (spec.md §5); concurrent calls into the
// same Stream return ErrConcurrentUse rather than racing.
type Stream struct {
	channel datagram.Channel
	cfg     config
	guard   guard

	snd sender
	rcv receiver

	readBuffer buffer.View
	closed     bool
}

// NewStream wraps channel with the reliability layer. channel is assumed
// already bound to a local address and fixed to a single remote peer (see
// datagram.DialUDP); no handshake is performed, so both endpoints must be
// constructed and ready before either calls Send.
func NewStream(channel datagram.Channel, opts ...Option) *Stream {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Stream{channel: channel, cfg: cfg}
	s.guard.init()
	s.snd.ep = s
	s.rcv.ep = s
	return s
}

// Send consumes data left-to-right, emitting segments onto the wire while
// the in-flight window has room, and between emissions opportunistically
// servicing inbound datagrams to collect acknowledgments and advance the
// window (spec.md §4.3). It returns the number of payload bytes from this
// call placed on the wire at least once, not necessarily acknowledged.
//
// Send terminates when data has been fully emitted and every in-flight byte
// is acknowledged, or when ackCritLag consecutive receive attempts come back
// empty. Every receive attempt it makes is bounded by ackTimeout, so once the
// peer goes silent Send returns within about ackCritLag*ackTimeout plus the
// cost of the sends themselves; each successful receive resets that count,
// so the total duration of a call is not bounded while datagrams keep
// arriving.
func (s *Stream) Send(data []byte) (int, error) {
	if !s.guard.tryAcquire() {
		return 0, ErrConcurrentUse
	}
	defer s.guard.release()
	if s.closed {
		return 0, ErrClosed
	}

	sent := 0
	lag := 0
	for (len(data) > 0 || s.snd.confirmedBytes < s.snd.sentBytes) && lag < s.cfg.ackCritLag {
		if s.snd.hasRoom() && len(data) > 0 {
			n := len(data)
			if n > s.cfg.mss {
				n = s.cfg.mss
			}
			seg := segment.Segment{Seq: s.snd.sentBytes, Ack: s.rcv.receivedBytes, Payload: data[:n]}
			written, err := s.snd.sendSegment(seg)
			if err != nil {
				return sent, err
			}
			data = data[written:]
			sent += written
		} else {
			ok, err := s.rcv.receiveSegment(s.cfg.ackTimeout)
			if err != nil {
				return sent, err
			}
			if ok {
				lag = 0
			} else {
				lag++
			}
		}

		if err := s.snd.retransmitExpired(); err != nil {
			return sent, err
		}
	}

	if lag >= s.cfg.ackCritLag {
		s.cfg.logf("reliudp: send returning early after %d consecutive empty receives", lag)
	}
	return sent, nil
}

// Recv returns up to n bytes: it first serves from the read buffer, then,
// if short, repeatedly performs a blocking (no timeout) receive until it has
// n bytes or a receive attempt fails, in which case it returns whatever it
// collected so far (spec.md §4.2). The returned slice length is always <= n.
func (s *Stream) Recv(n int) ([]byte, error) {
	if !s.guard.tryAcquire() {
		return nil, ErrConcurrentUse
	}
	defer s.guard.release()
	if s.closed {
		return nil, ErrClosed
	}

	out := make([]byte, 0, n)
	out = s.takeFromReadBuffer(out, n)

	for len(out) < n {
		ok, err := s.rcv.receiveSegment(0)
		if err != nil {
			return out, err
		}
		if !ok {
			break
		}
		out = s.takeFromReadBuffer(out, n)
	}
	return out, nil
}

func (s *Stream) takeFromReadBuffer(out []byte, n int) []byte {
	want := n - len(out)
	if want <= 0 {
		return out
	}
	take := want
	if take > len(s.readBuffer) {
		take = len(s.readBuffer)
	}
	out = append(out, s.readBuffer[:take]...)
	s.readBuffer.TrimFront(take)
	return out
}

// Close releases the underlying channel. No teardown segments are
// exchanged, per spec.md §1's Non-goals.
func (s *Stream) Close() error {
	if !s.guard.tryAcquire() {
		return ErrConcurrentUse
	}
	defer s.guard.release()
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return s.channel.Close()
}
