package reliudp

import (
	"log"
	"time"
)

// Defaults from spec.md §3, §4.2, §4.6.
const (
	DefaultMSS        = 1500
	DefaultWindowSize = 12 * DefaultMSS
	DefaultAckCritLag = 20
	DefaultAckTimeout = 10 * time.Millisecond
)

// config holds every tunable constant of the reliability layer. Spec.md's
// Design Notes flag ack_crit_lag specifically as "consider exposing it as
// configuration"; this module exposes all four constants the same way,
// through functional options, so tests can shrink window/timeout values
// without waiting on production timing.
type config struct {
	mss        int
	windowSize uint64
	ackCritLag int
	ackTimeout time.Duration
	logger     *log.Logger
}

func defaultConfig() config {
	return config{
		mss:        DefaultMSS,
		windowSize: DefaultWindowSize,
		ackCritLag: DefaultAckCritLag,
		ackTimeout: DefaultAckTimeout,
		logger:     log.Default(),
	}
}

// Option configures a Stream at construction time.
type Option func(*config)

// WithMSS overrides the maximum payload bytes per segment.
func WithMSS(mss int) Option {
	return func(c *config) { c.mss = mss }
}

// WithWindowSize overrides the maximum unacknowledged payload bytes
// permitted in flight.
func WithWindowSize(size uint64) Option {
	return func(c *config) { c.windowSize = size }
}

// WithAckCritLag overrides the maximum number of consecutive failed receive
// attempts Send tolerates before returning early.
func WithAckCritLag(lag int) Option {
	return func(c *config) { c.ackCritLag = lag }
}

// WithAckTimeout overrides the bounded receive timeout Send uses while
// servicing the wire, and the retransmission timer in §4.6.
func WithAckTimeout(d time.Duration) Option {
	return func(c *config) { c.ackTimeout = d }
}

// WithLogger overrides the logger used for the few anomalies this module
// logs (a malformed or dropped datagram, a retransmission, send() returning
// early under ackCritLag). A nil logger disables logging.
func WithLogger(l *log.Logger) Option {
	return func(c *config) { c.logger = l }
}

func (c *config) logf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
