package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the forecaster.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	PredictionsTotal *prometheus.CounterVec // labels: code
	PipelineDur      prometheus.Histogram
	FetchDur         *prometheus.HistogramVec // labels: provider
	InferenceDur     prometheus.Histogram
	SyncBarsTotal    prometheus.Counter
}

// NewMetrics creates all metrics and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PredictionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forecaster_predictions_total",
			Help: "Pipeline runs by outcome code",
		}, []string{"code"}),
		PipelineDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "forecaster_pipeline_seconds",
			Help:    "End-to-end pipeline duration",
			Buckets: prometheus.DefBuckets,
		}),
		FetchDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "forecaster_fetch_seconds",
			Help:    "Upstream price data fetch duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		InferenceDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "forecaster_inference_seconds",
			Help:    "Model invocation duration",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		SyncBarsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forecaster_sync_bars_total",
			Help: "Daily bars written to the local store by sync runs",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.PredictionsTotal,
			m.PipelineDur,
			m.FetchDur,
			m.InferenceDur,
			m.SyncBarsTotal,
		)
	}
	return m
}

// CountPrediction records one pipeline outcome.
func (m *Metrics) CountPrediction(code string) {
	if m == nil {
		return
	}
	m.PredictionsTotal.WithLabelValues(code).Inc()
}

func (m *Metrics) ObservePipeline(d time.Duration) {
	if m == nil {
		return
	}
	m.PipelineDur.Observe(d.Seconds())
}

func (m *Metrics) ObserveFetch(provider string, d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDur.WithLabelValues(provider).Observe(d.Seconds())
}

func (m *Metrics) ObserveInference(d time.Duration) {
	if m == nil {
		return
	}
	m.InferenceDur.Observe(d.Seconds())
}

func (m *Metrics) AddSyncBars(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SyncBarsTotal.Add(float64(n))
}
