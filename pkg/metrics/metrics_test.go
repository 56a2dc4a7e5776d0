package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestScriptGenerated(t *testing.T) {
	m := MustNew(prometheus.NewRegistry())

	m.ScriptGenerated("api", map[string]int{"click": 3, "navigation": 1})
	m.ScriptGenerated("api", map[string]int{"click": 1})
	m.ScriptGenerated("cli", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.scriptsGenerated.WithLabelValues("api")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scriptsGenerated.WithLabelValues("cli")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.blocksEmitted.WithLabelValues("click")))
}

func TestRecordingGaugeAndEvents(t *testing.T) {
	m := MustNew(prometheus.NewRegistry())

	m.RecordingStarted()
	m.RecordingStarted()
	m.RecordingEnded()
	m.EventCaptured("click")
	m.EventCaptured("")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.recordingsActive))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsCaptured.WithLabelValues("unknown")))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ScriptGenerated("api", map[string]int{"click": 1})
		m.EventCaptured("click")
		m.RecordingStarted()
		m.RecordingEnded()
	})
}

func TestDefaultIsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
}
