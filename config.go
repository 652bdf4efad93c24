package sel

import (
	"time"

	"github.com/warpfork/go-sel/log"
)

const (
	// DefaultWaitTimeout bounds each park of a blocking select between polls.
	// Wakeups normally come from channel notifications well before this;
	// the timeout only covers notifications lost to the register-then-check race.
	DefaultWaitTimeout = 100 * time.Millisecond

	// DefaultSendGrace is how long a send case may wait for buffer space
	// during a single poll.  It is unrelated to DefaultWaitTimeout.
	DefaultSendGrace = time.Millisecond

	// DefaultOverdueAfter is how long a blocking select waits before it is
	// reported as overdue.
	DefaultOverdueAfter = 10 * time.Second
)

// Config holds the tunables of a Selector.
type Config struct {
	WaitTimeout time.Duration
	SendGrace   time.Duration

	// OverdueAfter and OnOverdue configure the long-wait report.
	// Deadlines as handled by this mechanism are imprecise and best-effort
	// (they are only checked when the select wakes up); their intended use is
	// logging and detection of bad behaviors, not control flow.
	// A non-positive OverdueAfter disables the report.
	OverdueAfter time.Duration
	OnOverdue    func(selector string, waited time.Duration)

	Logger  log.Logger
	Tracer  Tracer
	Metrics *Metrics
}

func NewConfig() *Config {
	return &Config{
		WaitTimeout:  DefaultWaitTimeout,
		SendGrace:    DefaultSendGrace,
		OverdueAfter: DefaultOverdueAfter,
		Logger:       log.Default(),
	}
}

type Option func(*Config)

// WithWaitTimeout sets the bound on each park between polls.
// Non-positive values restore DefaultWaitTimeout.
func WithWaitTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d <= 0 {
			d = DefaultWaitTimeout
		}
		c.WaitTimeout = d
	}
}

// WithSendGrace sets how long each send attempt may wait for space.
// Zero (or less) means a single attempt with no waiting.
func WithSendGrace(d time.Duration) Option {
	return func(c *Config) {
		if d < 0 {
			d = 0
		}
		c.SendGrace = d
	}
}

// WithOverdue sets the long-wait report.  fn may be nil, in which case the
// report only goes to the logger.
func WithOverdue(after time.Duration, fn func(selector string, waited time.Duration)) Option {
	return func(c *Config) {
		c.OverdueAfter = after
		c.OnOverdue = fn
	}
}

// WithLogger replaces the logger.  Nil means log.Discard.
func WithLogger(l log.Logger) Option {
	return func(c *Config) {
		if l == nil {
			l = log.Discard
		}
		c.Logger = l
	}
}

func WithTracer(t Tracer) Option {
	return func(c *Config) { c.Tracer = t }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Config) { c.Metrics = m }
}
