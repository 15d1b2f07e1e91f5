package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.CountPrediction("ok")
		m.ObservePipeline(time.Millisecond)
		m.ObserveFetch("mock", time.Millisecond)
		m.ObserveInference(time.Millisecond)
		m.AddSyncBars(3)
	})
}

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.CountPrediction("ok")
	m.CountPrediction("ok")
	m.CountPrediction("EmptySeries")
	m.AddSyncBars(90)
	m.AddSyncBars(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PredictionsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PredictionsTotal.WithLabelValues("EmptySeries")))
	assert.Equal(t, 90.0, testutil.ToFloat64(m.SyncBarsTotal))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "forecaster_predictions_total")
	assert.Contains(t, names, "forecaster_sync_bars_total")
}

func TestUnregistered(t *testing.T) {
	m := NewMetrics(nil)
	m.ObserveFetch("yahoo", 20*time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(m.FetchDur))
}
