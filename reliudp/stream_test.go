package reliudp_test

import (
	"bytes"
	"math/rand"
	"testing"
	"time"

	"github.com/sorairo/reliudp/reliudp"
	"github.com/sorairo/reliudp/reliudp/reliudptest"
)

func testOpts() []reliudp.Option {
	// Shrink timing constants so the test suite runs in milliseconds, not
	// the production 10ms*20 = 200ms per stalled Send call.
	return []reliudp.Option{
		reliudp.WithAckTimeout(2 * time.Millisecond),
		reliudp.WithAckCritLag(20),
	}
}

func exchange(t *testing.T, link *reliudptest.Link, payload []byte, recvChunk int) []byte {
	t.Helper()
	a, b := reliudptest.NewPipe(link)
	sa := reliudp.NewStream(a, testOpts()...)
	sb := reliudp.NewStream(b, testOpts()...)
	defer sa.Close()
	defer sb.Close()

	done := make(chan struct{})
	var recvErr error
	got := make([]byte, 0, len(payload))
	go func() {
		defer close(done)
		for len(got) < len(payload) {
			chunk, err := sb.Recv(recvChunk)
			if err != nil {
				recvErr = err
				return
			}
			if len(chunk) == 0 {
				return
			}
			got = append(got, chunk...)
		}
	}()

	remaining := payload
	for len(remaining) > 0 {
		n, err := sa.Send(remaining)
		if err != nil {
			t.Fatalf("Send: %v", err)
		}
		if n == 0 {
			t.Fatal("Send made no progress; peer unreachable?")
		}
		remaining = remaining[n:]
	}
	// Drain any trailing unacknowledged bytes: each Send(nil) call only
	// bounds itself by ackCritLag consecutive empty receives, so under loss
	// or reordering it may take more than one call to fully confirm.
	for i := 0; i < 50 && sa.Stats().ConfirmedBytes < sa.Stats().SentBytes; i++ {
		if _, err := sa.Send(nil); err != nil {
			t.Fatalf("Send(nil) drain: %v", err)
		}
	}

	<-done
	if recvErr != nil {
		t.Fatalf("Recv: %v", recvErr)
	}
	return got
}

func TestLoopbackTinyWrite(t *testing.T) {
	got := exchange(t, &reliudptest.Link{}, []byte("hello"), 5)
	if string(got) != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestWriteLargerThanMSS(t *testing.T) {
	payload := bytes.Repeat([]byte("X"), 5000)
	got := exchange(t, &reliudptest.Link{}, payload, 5000)
	if !bytes.Equal(got, payload) {
		t.Fatalf("got %d bytes, want %d identical bytes", len(got), len(payload))
	}
}

func TestWriteLargerThanWindow(t *testing.T) {
	payload := make([]byte, 65536)
	rand.New(rand.NewSource(2)).Read(payload)
	got := exchange(t, &reliudptest.Link{}, payload, 65536)
	if !bytes.Equal(got, payload) {
		t.Fatal("content mismatch across a payload larger than the window")
	}
}

func TestOutOfOrderWire(t *testing.T) {
	payload := make([]byte, 9000)
	rand.New(rand.NewSource(3)).Read(payload)
	got := exchange(t, &reliudptest.Link{ReorderBatch: 3}, payload, 9000)
	if !bytes.Equal(got, payload) {
		t.Fatal("content mismatch over a reordering wire")
	}
}

func TestLossyWire(t *testing.T) {
	payload := make([]byte, 32*1024)
	rand.New(rand.NewSource(4)).Read(payload)
	link := &reliudptest.Link{DropProb: 0.3, Rand: rand.New(rand.NewSource(42))}
	got := exchange(t, link, payload, 32*1024)
	if !bytes.Equal(got, payload) {
		t.Fatal("content mismatch over a 30%-lossy wire")
	}
}

func TestSilentPeerReturnsWithinAckCritLag(t *testing.T) {
	a, _ := reliudptest.NewPipe(&reliudptest.Link{})
	s := reliudp.NewStream(a, reliudp.WithAckTimeout(2*time.Millisecond), reliudp.WithAckCritLag(20))
	defer s.Close()

	start := time.Now()
	n, err := s.Send([]byte("x"))
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if n != 1 {
		t.Fatalf("Send returned n=%d, want 1 (byte was placed on the wire)", n)
	}
	if elapsed > 200*time.Millisecond {
		t.Fatalf("Send took %v, want well under ackCritLag*ackTimeout bound", elapsed)
	}
}

func TestDuplicateSegmentDoesNotDuplicateDelivery(t *testing.T) {
	// Reorder batching holds segments back long enough for the sender to
	// retransmit them, so the receiver sees the same seq more than once; the
	// protocol silently discards anything with seq < receivedBytes, so the
	// guarantee to check directly is: the delivered content equals the
	// payload and Stats().ReceivedBytes equals the bytes actually sent, for a
	// payload spanning many segments.
	payload := bytes.Repeat([]byte("ab"), 4000)
	link := &reliudptest.Link{ReorderBatch: 4}
	a, b := reliudptest.NewPipe(link)
	sa := reliudp.NewStream(a, testOpts()...)
	sb := reliudp.NewStream(b, testOpts()...)
	defer sa.Close()
	defer sb.Close()

	done := make(chan []byte)
	go func() {
		got := make([]byte, 0, len(payload))
		for len(got) < len(payload) {
			chunk, err := sb.Recv(len(payload) - len(got))
			if err != nil || len(chunk) == 0 {
				break
			}
			got = append(got, chunk...)
		}
		done <- got
	}()

	remaining := payload
	for len(remaining) > 0 {
		n, err := sa.Send(remaining)
		if err != nil {
			t.Fatalf("Send: %v", err)
		}
		remaining = remaining[n:]
	}
	sa.Send(nil)

	got := <-done
	if !bytes.Equal(got, payload) {
		t.Fatal("duplicate or reordered segments corrupted delivered content")
	}
	if sb.Stats().ReceivedBytes != uint64(len(payload)) {
		t.Fatalf("ReceivedBytes = %d, want %d", sb.Stats().ReceivedBytes, len(payload))
	}
}

func TestStatsMonotoneAndBounded(t *testing.T) {
	payload := make([]byte, 40000)
	link := &reliudptest.Link{}
	a, b := reliudptest.NewPipe(link)
	sa := reliudp.NewStream(a, testOpts()...)
	sb := reliudp.NewStream(b, testOpts()...)
	defer sa.Close()
	defer sb.Close()

	go func() {
		got := 0
		for got < len(payload) {
			chunk, err := sb.Recv(len(payload) - got)
			if err != nil || len(chunk) == 0 {
				return
			}
			got += len(chunk)
		}
	}()

	var prevSent, prevConfirmed uint64
	remaining := payload
	for len(remaining) > 0 {
		n, err := sa.Send(remaining)
		if err != nil {
			t.Fatalf("Send: %v", err)
		}
		remaining = remaining[n:]

		st := sa.Stats()
		if st.SentBytes < prevSent || st.ConfirmedBytes < prevConfirmed {
			t.Fatal("counters are not monotone")
		}
		if st.ConfirmedBytes > st.SentBytes {
			t.Fatal("confirmedBytes exceeds sentBytes")
		}
		if st.InFlight > reliudp.DefaultWindowSize+uint64(reliudp.DefaultMSS) {
			t.Fatalf("in-flight bytes %d exceeded windowSize+mss bound", st.InFlight)
		}
		prevSent, prevConfirmed = st.SentBytes, st.ConfirmedBytes
	}
}

func TestCloseThenSendReturnsErrClosed(t *testing.T) {
	a, _ := reliudptest.NewPipe(&reliudptest.Link{})
	s := reliudp.NewStream(a)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := s.Send([]byte("x")); err != reliudp.ErrClosed {
		t.Fatalf("Send after Close: err = %v, want ErrClosed", err)
	}
	if _, err := s.Recv(1); err != reliudp.ErrClosed {
		t.Fatalf("Recv after Close: err = %v, want ErrClosed", err)
	}
	if err := s.Close(); err != reliudp.ErrClosed {
		t.Fatalf("second Close: err = %v, want ErrClosed", err)
	}
}
