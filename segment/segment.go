// Package segment implements the wire framing for reliudp: a 16-byte header
// of two big-endian 64-bit counters followed by an opaque payload.
package segment

import (
	"encoding/binary"
	"errors"
	"time"
)

// HeaderSize is the fixed size, in bytes, of a segment's header: an 8-byte
// seq counter followed by an 8-byte ack counter.
const HeaderSize = 16

// ErrShort is returned by Decode when given fewer than HeaderSize bytes.
// Spec leaves this case implementation-defined ("either discard silently or
// treat as transient"); this module rejects it, and callers treat ErrShort
// the same as any other transient receive failure.
var ErrShort = errors.New("segment: datagram shorter than header")

// Segment is the unit of wire framing exchanged between the two endpoints of
// a Stream. Seq is the byte offset of Payload's first byte in the sender's
// stream; Ack is the sender's current count of in-order bytes delivered to
// its own application layer ("next byte I expect is Ack"). A segment with an
// empty Payload is a pure acknowledgment.
//
// SentAt is local bookkeeping only, stamped when the segment enters a send
// window; it is never placed on the wire.
type Segment struct {
	Seq     uint64
	Ack     uint64
	Payload []byte
	SentAt  time.Time
}

// Encode concatenates the big-endian Seq, the big-endian Ack, and Payload.
func (s Segment) Encode() []byte {
	b := make([]byte, HeaderSize+len(s.Payload))
	binary.BigEndian.PutUint64(b[0:8], s.Seq)
	binary.BigEndian.PutUint64(b[8:16], s.Ack)
	copy(b[HeaderSize:], s.Payload)
	return b
}

// Decode parses b into a Segment. It is infallible on any buffer of at
// least HeaderSize bytes and never allocates beyond the payload slice:
// Payload aliases the tail of b rather than copying it, so callers that
// reuse b across receives must copy Payload before the next receive.
func Decode(b []byte) (Segment, error) {
	if len(b) < HeaderSize {
		return Segment{}, ErrShort
	}
	return Segment{
		Seq:     binary.BigEndian.Uint64(b[0:8]),
		Ack:     binary.BigEndian.Uint64(b[8:16]),
		Payload: b[HeaderSize:],
	}, nil
}

// IsPureAck reports whether s carries no payload.
func (s Segment) IsPureAck() bool {
	return len(s.Payload) == 0
}
