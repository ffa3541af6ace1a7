// Package reliudptest provides an in-memory datagram.Channel pair with
// injectable loss and reordering, generalized from the teacher's
// transport/tcp/testing/context fixture down to this module's one
// collaborator, so spec.md §8's adversarial scenarios (out-of-order wire,
// lossy wire, silent peer) can run deterministically without real sockets.
package reliudptest

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/sorairo/reliudp/datagram"
)

// errTimeout is returned by RecvFrom when timeout elapses with nothing
// delivered. It implements net.Error's Timeout() so callers that type-assert
// for it behave the same as against a real socket deadline.
type errTimeout struct{}

func (errTimeout) Error() string   { return "reliudptest: recv timeout" }
func (errTimeout) Timeout() bool   { return true }
func (errTimeout) Temporary() bool { return true }

var errClosed = errors.New("reliudptest: channel closed")

// Link is a lossy, reorderable, shared medium between two Pipe endpoints.
// DropProb is the per-datagram probability of silent loss (spec.md §8
// scenario 5, "lossy wire"). ReorderBatch, when > 1, buffers that many
// consecutive datagrams per direction and delivers them in reverse order
// (scenario 4, "out-of-order wire"). Latency adds a fixed delay before a
// datagram becomes receivable. A zero-value Link is lossless, in-order, and
// instantaneous.
type Link struct {
	DropProb     float64
	ReorderBatch int
	Latency      time.Duration
	Rand         *rand.Rand

	mu   sync.Mutex
	aToB queue
	bToA queue
}

type datagramMsg struct {
	data    []byte
	readyAt time.Time
}

type queue struct {
	pending []datagramMsg
	batch   []datagramMsg
}

// NewPipe returns two connected Channels sharing link: a's sends arrive on
// b's receives, and vice versa.
func NewPipe(link *Link) (a, b datagram.Channel) {
	if link.Rand == nil {
		link.Rand = rand.New(rand.NewSource(1))
	}
	pa := &pipeEnd{link: link, send: &link.aToB, recv: &link.bToA}
	pb := &pipeEnd{link: link, send: &link.bToA, recv: &link.aToB}
	return pa, pb
}

type pipeEnd struct {
	link   *Link
	send   *queue
	recv   *queue
	closed bool
	mu     sync.Mutex
}

func (p *pipeEnd) SendTo(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, errClosed
	}

	p.link.mu.Lock()
	defer p.link.mu.Unlock()

	if p.link.DropProb > 0 && p.link.Rand.Float64() < p.link.DropProb {
		return len(b), nil // silently dropped, as a real lossy UDP wire would
	}

	cp := make([]byte, len(b))
	copy(cp, b)
	msg := datagramMsg{data: cp, readyAt: time.Now().Add(p.link.Latency)}

	batch := p.link.ReorderBatch
	if batch <= 1 {
		p.send.pending = append(p.send.pending, msg)
		return len(b), nil
	}

	p.send.batch = append(p.send.batch, msg)
	if len(p.send.batch) >= batch {
		for i := len(p.send.batch) - 1; i >= 0; i-- {
			p.send.pending = append(p.send.pending, p.send.batch[i])
		}
		p.send.batch = p.send.batch[:0]
	}
	return len(b), nil
}

func (p *pipeEnd) RecvFrom(buf []byte, timeout time.Duration) (int, error) {
	deadline := time.Now().Add(timeout)
	for {
		p.mu.Lock()
		closed := p.closed
		p.mu.Unlock()
		if closed {
			return 0, errClosed
		}

		if n, ok := p.tryRecv(buf); ok {
			return n, nil
		}

		if timeout > 0 && time.Now().After(deadline) {
			return 0, errTimeout{}
		}
		time.Sleep(time.Millisecond)
	}
}

func (p *pipeEnd) tryRecv(buf []byte) (int, bool) {
	p.link.mu.Lock()
	defer p.link.mu.Unlock()

	q := p.recv
	now := time.Now()
	for i, msg := range q.pending {
		if msg.readyAt.After(now) {
			continue
		}
		n := copy(buf, msg.data)
		q.pending = append(q.pending[:i:i], q.pending[i+1:]...)
		return n, true
	}
	return 0, false
}

func (p *pipeEnd) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
