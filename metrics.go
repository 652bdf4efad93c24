package sel

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts select invocations.  A nil *Metrics records nothing.
//
// Labels are deliberately coarse (terminator and outcome only);
// case labels are free-form and would blow up cardinality.
type Metrics struct {
	invocations   *prometheus.CounterVec
	passes        prometheus.Counter
	waitTimeouts  prometheus.Counter
	blockDuration prometheus.Histogram
}

const (
	outcomeCase      = "case"
	outcomeDefault   = "default"
	outcomeNone      = "none"
	outcomeCancelled = "cancelled"
	outcomePanic     = "panic"
)

// NewMetrics builds the collectors and registers them with reg.
// A nil reg leaves them unregistered (handy in tests).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sel_invocations_total",
				Help: "select invocations by terminator and outcome",
			},
			[]string{"terminator", "outcome"},
		),
		passes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sel_passes_total",
			Help: "evaluation passes over a case set",
		}),
		waitTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sel_wait_timeouts_total",
			Help: "blocking waits that lapsed without a channel notification",
		}),
		blockDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sel_block_duration_seconds",
			Help:    "time spent in blocking selects",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.invocations, m.passes, m.waitTimeouts, m.blockDuration)
	}
	return m
}

func (m *Metrics) Invocations() *prometheus.CounterVec { return m.invocations }
func (m *Metrics) Passes() prometheus.Counter          { return m.passes }
func (m *Metrics) WaitTimeouts() prometheus.Counter    { return m.waitTimeouts }
func (m *Metrics) BlockDuration() prometheus.Histogram { return m.blockDuration }

func (m *Metrics) invocation(terminator, outcome string) {
	if m == nil {
		return
	}
	m.invocations.WithLabelValues(terminator, outcome).Inc()
}

func (m *Metrics) pass() {
	if m == nil {
		return
	}
	m.passes.Inc()
}

func (m *Metrics) waitTimeout() {
	if m == nil {
		return
	}
	m.waitTimeouts.Inc()
}

func (m *Metrics) blocked(d time.Duration) {
	if m == nil {
		return
	}
	m.blockDuration.Observe(d.Seconds())
}
