package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for script generation and live recordings.
type Metrics struct {
	scriptsGenerated *prometheus.CounterVec
	blocksEmitted    *prometheus.CounterVec
	eventsCaptured   *prometheus.CounterVec
	recordingsActive prometheus.Gauge
}

var (
	defaultOnce sync.Once
	shared      *Metrics
)

// Default returns the metrics registered with the global Prometheus registry.
func Default() *Metrics {
	defaultOnce.Do(func() {
		shared = MustNew(prometheus.DefaultRegisterer)
	})
	return shared
}

// MustNew registers a fresh set of collectors with reg and panics on a
// registration conflict.
func MustNew(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		scriptsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "selenex",
			Name:      "scripts_generated_total",
			Help:      "Scripts generated, by request source.",
		}, []string{"source"}),
		blocksEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "selenex",
			Name:      "script_blocks_total",
			Help:      "Statement blocks emitted into generated scripts, by kind.",
		}, []string{"kind"}),
		eventsCaptured: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "selenex",
			Subsystem: "recorder",
			Name:      "events_total",
			Help:      "Browser events captured by live recordings, by action.",
		}, []string{"action"}),
		recordingsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "selenex",
			Subsystem: "recorder",
			Name:      "sessions_active",
			Help:      "Recording sessions with an open browser.",
		}),
	}
	reg.MustRegister(m.scriptsGenerated, m.blocksEmitted, m.eventsCaptured, m.recordingsActive)
	return m
}

// ScriptGenerated counts one generated script and its blocks by kind.
func (m *Metrics) ScriptGenerated(source string, blocksByKind map[string]int) {
	if m == nil {
		return
	}
	m.scriptsGenerated.WithLabelValues(source).Inc()
	for kind, n := range blocksByKind {
		m.blocksEmitted.WithLabelValues(kind).Add(float64(n))
	}
}

func (m *Metrics) EventCaptured(action string) {
	if m == nil {
		return
	}
	if action == "" {
		action = "unknown"
	}
	m.eventsCaptured.WithLabelValues(action).Inc()
}

func (m *Metrics) RecordingStarted() {
	if m == nil {
		return
	}
	m.recordingsActive.Inc()
}

func (m *Metrics) RecordingEnded() {
	if m == nil {
		return
	}
	m.recordingsActive.Dec()
}

// Handler serves the global registry in the Prometheus text format.
func Handler() http.Handler {
	Default()
	return promhttp.Handler()
}
