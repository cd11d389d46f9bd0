package auth

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Reasons a notification was ignored.
const (
	ignoredShortFrame      = "short_frame"
	ignoredUnknownOpcode   = "unknown_opcode"
	ignoredBadSecret       = "bad_secret"
	ignoredAfterCompletion = "after_completion"
)

// Metrics exports handshake counters to Prometheus.
// All methods are nil-safe: calls on a nil *Metrics are no-ops.
type Metrics struct {
	// started counts sessions started by the registry.
	started prometheus.Counter

	// completed counts completed sessions by status.
	completed *prometheus.CounterVec

	// pending tracks sessions currently held by the registry.
	pending prometheus.Gauge

	// keyResets counts keys re-sent after a mismatch.
	keyResets prometheus.Counter

	// ignoredFrames counts notifications dropped without a state change.
	ignoredFrames *prometheus.CounterVec

	// duration observes handshake durations in seconds.
	duration prometheus.Histogram
}

// NewMetrics creates handshake metrics and registers them with reg.
// If reg is nil the metrics are created but not registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bandauth",
			Subsystem: "auth",
			Name:      "sessions_started_total",
			Help:      "Total number of handshakes started",
		}),
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bandauth",
			Subsystem: "auth",
			Name:      "sessions_completed_total",
			Help:      "Total number of handshakes completed, by status",
		}, []string{"status"}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bandauth",
			Subsystem: "auth",
			Name:      "sessions_pending",
			Help:      "Number of sessions waiting for or running a handshake",
		}),
		keyResets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bandauth",
			Subsystem: "auth",
			Name:      "key_resets_total",
			Help:      "Total number of keys re-sent after a key mismatch",
		}),
		ignoredFrames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bandauth",
			Subsystem: "auth",
			Name:      "ignored_notifications_total",
			Help:      "Total number of notifications ignored, by reason",
		}, []string{"reason"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bandauth",
			Subsystem: "auth",
			Name:      "handshake_duration_seconds",
			Help:      "Time from session start to completion",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),
	}

	if reg != nil {
		m.started = registerOrReuse(reg, m.started).(prometheus.Counter)
		m.completed = registerOrReuse(reg, m.completed).(*prometheus.CounterVec)
		m.pending = registerOrReuse(reg, m.pending).(prometheus.Gauge)
		m.keyResets = registerOrReuse(reg, m.keyResets).(prometheus.Counter)
		m.ignoredFrames = registerOrReuse(reg, m.ignoredFrames).(*prometheus.CounterVec)
		m.duration = registerOrReuse(reg, m.duration).(prometheus.Histogram)
	}
	return m
}

func registerOrReuse(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector
		}
		panic(err)
	}
	return c
}

// RecordStart counts a started session.
func (m *Metrics) RecordStart() {
	if m == nil {
		return
	}
	m.started.Inc()
}

// RecordCompletion counts a completed session.
func (m *Metrics) RecordCompletion(res Result) {
	if m == nil {
		return
	}
	m.completed.WithLabelValues(res.Status.String()).Inc()
	if res.Duration > 0 {
		m.duration.Observe(res.Duration.Seconds())
	}
}

// SetPending sets the pending session gauge.
func (m *Metrics) SetPending(n int) {
	if m == nil {
		return
	}
	m.pending.Set(float64(n))
}

// RecordKeyReset counts a key re-send.
func (m *Metrics) RecordKeyReset() {
	if m == nil {
		return
	}
	m.keyResets.Inc()
}

// RecordIgnoredFrame counts an ignored notification.
func (m *Metrics) RecordIgnoredFrame(reason string) {
	if m == nil {
		return
	}
	m.ignoredFrames.WithLabelValues(reason).Inc()
}
