// Package prom implements the observability hook interfaces on top of
// Prometheus collectors.
//
// A single [Metrics] value satisfies every hook interface, so it can be
// registered once for all event categories:
//
//	m := prom.New(prometheus.DefaultRegisterer)
//	observability.SetSessionHooks(m)
//	observability.SetLayoutHooks(m)
//	observability.SetStyleHooks(m)
//	observability.SetHTTPHooks(m)
//
// Serve the collected series with promhttp.Handler().
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/courseflow/pkg/buildinfo"
	"github.com/matzehuels/courseflow/pkg/observability"
)

const namespace = "courseflow"

var (
	_ observability.SessionHooks = (*Metrics)(nil)
	_ observability.LayoutHooks  = (*Metrics)(nil)
	_ observability.StyleHooks   = (*Metrics)(nil)
	_ observability.HTTPHooks    = (*Metrics)(nil)
)

// Metrics records hook events as Prometheus series.
type Metrics struct {
	loads         *prometheus.CounterVec
	loadDuration  *prometheus.HistogramVec
	scopeChanges  prometheus.Counter
	scopeNodes    prometheus.Histogram
	activations   *prometheus.CounterVec
	runsStarted   prometheus.Counter
	runsEnded     *prometheus.CounterVec
	runTicks      prometheus.Histogram
	runDuration   prometheus.Histogram
	activeRuns    prometheus.Gauge
	styleMisses   *prometheus.CounterVec
	requests      *prometheus.CounterVec
	requestTiming *prometheus.HistogramVec
	build         *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg.
// It panics if registration fails, like prometheus.MustRegister.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_loads_total",
			Help:      "Catalog loads by grouping mode and result.",
		}, []string{"mode", "result"}),
		loadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_load_duration_seconds",
			Help:      "Duration of catalog loads.",
		}, []string{"mode"}),
		scopeChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scope_changes_total",
			Help:      "Number of scope changes across all sessions.",
		}),
		scopeNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scope_nodes",
			Help:      "Node count of newly activated scopes.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		activations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_activations_total",
			Help:      "Node activations by whether the node was found.",
		}, []string{"found"}),
		runsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layout_runs_started_total",
			Help:      "Force layout runs started.",
		}),
		runsEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layout_runs_ended_total",
			Help:      "Force layout runs ended by final state.",
		}, []string{"state"}),
		runTicks: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_run_ticks",
			Help:      "Ticks executed per layout run.",
			Buckets:   prometheus.LinearBuckets(0, 50, 21),
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_run_duration_seconds",
			Help:      "Wall time between run start and end.",
		}),
		activeRuns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "layout_runs_active",
			Help:      "Layout runs currently in the running state.",
		}),
		styleMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "style_lookup_misses_total",
			Help:      "Style lookups that fell back to a default.",
		}, []string{"tier", "property"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP responses by route and status.",
		}, []string{"method", "route", "status"}),
		requestTiming: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
		}, []string{"method", "route"}),
		build: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Always 1, labeled with the running build.",
		}, []string{"version", "commit", "go_version"}),
	}
	info := buildinfo.Get()
	m.build.WithLabelValues(info.Version, info.Commit, info.GoVersion).Set(1)

	reg.MustRegister(
		m.loads, m.loadDuration,
		m.scopeChanges, m.scopeNodes, m.activations,
		m.runsStarted, m.runsEnded, m.runTicks, m.runDuration, m.activeRuns,
		m.styleMisses,
		m.requests, m.requestTiming,
		m.build,
	)
	return m
}

// OnLoad implements observability.SessionHooks.
func (m *Metrics) OnLoad(_ context.Context, mode string, _ int, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.loads.WithLabelValues(mode, result).Inc()
	m.loadDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// OnScopeChange implements observability.SessionHooks.
func (m *Metrics) OnScopeChange(_ string, nodeCount int) {
	m.scopeChanges.Inc()
	m.scopeNodes.Observe(float64(nodeCount))
}

// OnActivate implements observability.SessionHooks.
func (m *Metrics) OnActivate(_ string, found bool) {
	m.activations.WithLabelValues(strconv.FormatBool(found)).Inc()
}

// OnRunStart implements observability.LayoutHooks.
func (m *Metrics) OnRunStart(uint64, int) {
	m.runsStarted.Inc()
	m.activeRuns.Inc()
}

// OnRunEnd implements observability.LayoutHooks.
func (m *Metrics) OnRunEnd(_ uint64, state string, ticks int, d time.Duration) {
	m.activeRuns.Dec()
	m.runsEnded.WithLabelValues(state).Inc()
	m.runTicks.Observe(float64(ticks))
	m.runDuration.Observe(d.Seconds())
}

// OnLookupMiss implements observability.StyleHooks.
func (m *Metrics) OnLookupMiss(tier, property, _ string) {
	m.styleMisses.WithLabelValues(tier, property).Inc()
}

// OnRequest implements observability.HTTPHooks.
func (m *Metrics) OnRequest(context.Context, string, string) {}

// OnResponse implements observability.HTTPHooks.
func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestTiming.WithLabelValues(method, route).Observe(d.Seconds())
}
