package segment_test

import (
	"bytes"
	"testing"

	"github.com/sorairo/reliudp/segment"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []segment.Segment{
		{Seq: 0, Ack: 0, Payload: nil},
		{Seq: 5, Ack: 0, Payload: []byte("hello")},
		{Seq: 1500, Ack: 12, Payload: bytes.Repeat([]byte{0xab}, 1500)},
	}
	for _, want := range cases {
		b := want.Encode()
		if len(b) != segment.HeaderSize+len(want.Payload) {
			t.Fatalf("Encode length = %d, want %d", len(b), segment.HeaderSize+len(want.Payload))
		}
		got, err := segment.Decode(b)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got.Seq != want.Seq || got.Ack != want.Ack {
			t.Fatalf("Decode = %+v, want seq=%d ack=%d", got, want.Seq, want.Ack)
		}
		if !bytes.Equal(got.Payload, want.Payload) {
			t.Fatalf("Decode payload = %x, want %x", got.Payload, want.Payload)
		}
	}
}

func TestDecodeShortDatagram(t *testing.T) {
	for n := 0; n < segment.HeaderSize; n++ {
		if _, err := segment.Decode(make([]byte, n)); err != segment.ErrShort {
			t.Fatalf("Decode(%d bytes) err = %v, want ErrShort", n, err)
		}
	}
}

func TestIsPureAck(t *testing.T) {
	if !(segment.Segment{}).IsPureAck() {
		t.Fatal("zero-value segment should be a pure ack")
	}
	if (segment.Segment{Payload: []byte{1}}).IsPureAck() {
		t.Fatal("segment with payload should not be a pure ack")
	}
}
