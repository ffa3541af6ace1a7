package reliudp

// Stats is a read-only snapshot of a Stream's counters, additive
// instrumentation grounded in the teacher's own habit of asserting
// directly on endpoint counters from its tests (transport/tcp/tcp_test.go).
// It makes spec.md §8's testable properties ("Monotone counters", "Bounded
// in-flight") checkable from outside the package.
type Stats struct {
	SentBytes      uint64
	ConfirmedBytes uint64
	ReceivedBytes  uint64
	InFlight       uint64
	SendWindowLen  int
	RecvWindowLen  int
}

// Stats returns a snapshot of s's current counters.
func (s *Stream) Stats() Stats {
	return Stats{
		SentBytes:      s.snd.sentBytes,
		ConfirmedBytes: s.snd.confirmedBytes,
		ReceivedBytes:  s.rcv.receivedBytes,
		InFlight:       s.snd.sentBytes - s.snd.confirmedBytes,
		SendWindowLen:  s.snd.window.Len(),
		RecvWindowLen:  s.rcv.window.Len(),
	}
}
