package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dashboard"

// Metrics groups the collectors exported on /metrics. Each instance owns its
// registry so tests and multiple services do not collide.
type Metrics struct {
	Registry *prometheus.Registry

	ChartFetches  *prometheus.CounterVec   // source, status
	FetchDuration *prometheus.HistogramVec // source
	CacheLookups  *prometheus.CounterVec   // result = hit|miss
	CacheEntries  prometheus.Gauge
	SchedulerRuns *prometheus.CounterVec // job, outcome
	WSClients     prometheus.Gauge
}

// -----------------------------------------------------------------------------

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		ChartFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chart",
			Name:      "fetches_total",
			Help:      "Chart fetches by source and result status.",
		}, []string{"source", "status"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chart",
			Name:      "fetch_duration_seconds",
			Help:      "Time spent fetching a chart from its source.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chart_cache",
			Name:      "lookups_total",
			Help:      "Chart cache lookups by result.",
		}, []string{"result"}),
		CacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "chart_cache",
			Name:      "entries",
			Help:      "Entries currently held by the chart cache.",
		}),
		SchedulerRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "runs_total",
			Help:      "Scheduled refresh runs by job and outcome.",
		}, []string{"job", "outcome"}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "clients",
			Help:      "Connected WebSocket clients.",
		}),
	}

	m.Registry.MustRegister(
		m.ChartFetches,
		m.FetchDuration,
		m.CacheLookups,
		m.CacheEntries,
		m.SchedulerRuns,
		m.WSClients,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// -----------------------------------------------------------------------------

// ObserveFetch records one source fetch. Safe on a nil receiver.
func (m *Metrics) ObserveFetch(source, status string, took time.Duration) {
	if m == nil {
		return
	}
	m.ChartFetches.WithLabelValues(source, status).Inc()
	m.FetchDuration.WithLabelValues(source).Observe(took.Seconds())
}

// CacheHit, CacheMiss and SetCacheEntries are nil-safe as well.
func (m *Metrics) CacheHit() {
	if m != nil {
		m.CacheLookups.WithLabelValues("hit").Inc()
	}
}

func (m *Metrics) CacheMiss() {
	if m != nil {
		m.CacheLookups.WithLabelValues("miss").Inc()
	}
}

func (m *Metrics) SetCacheEntries(n int) {
	if m != nil {
		m.CacheEntries.Set(float64(n))
	}
}

// ObserveJob counts a scheduler run; err decides the outcome label.
func (m *Metrics) ObserveJob(job string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.SchedulerRuns.WithLabelValues(job, outcome).Inc()
}

func (m *Metrics) ClientConnected() {
	if m != nil {
		m.WSClients.Inc()
	}
}

func (m *Metrics) ClientDisconnected() {
	if m != nil {
		m.WSClients.Dec()
	}
}

// -----------------------------------------------------------------------------

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
