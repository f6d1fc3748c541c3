package observability

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cognigen/cognigen-backend/internal/platform/envutil"
	"github.com/cognigen/cognigen-backend/internal/platform/logger"
)

type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	aiRequests *prometheus.CounterVec
	aiLatency  *prometheus.HistogramVec

	pathOps             *prometheus.CounterVec
	generationFallbacks prometheus.Counter
	pathCache           *prometheus.CounterVec

	migratedSubmodules prometheus.Counter
	migratedPaths      *prometheus.CounterVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", true)
}

// Current returns the process metrics, or nil when Init has not run. Every
// method is safe to call on a nil *Metrics.
func Current() *Metrics {
	return instance
}

func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = NewMetrics()
		if log != nil {
			log.Info("prometheus metrics initialized")
		}
	})
	return instance
}

// NewMetrics builds a metrics set on its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cg_api_requests_total",
			Help: "Total API requests by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cg_api_request_duration_seconds",
			Help:    "API request latency in seconds by method/route/status.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 120, 600},
		}, []string{"method", "route", "status"}),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Name: "cg_api_inflight_requests",
			Help: "API requests currently being served.",
		}),
		aiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cg_ai_requests_total",
			Help: "AI collaborator calls by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		aiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cg_ai_request_duration_seconds",
			Help:    "AI collaborator call latency in seconds.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"endpoint"}),
		pathOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cg_learning_path_operations_total",
			Help: "Learning path service operations by name and outcome.",
		}, []string{"op", "outcome"}),
		generationFallbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "cg_learning_path_generation_fallbacks_total",
			Help: "Path generations persisted as partial drafts after a collaborator failure.",
		}),
		pathCache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cg_learning_path_cache_total",
			Help: "Path cache lookups by result.",
		}, []string{"result"}),
		migratedSubmodules: f.NewCounter(prometheus.CounterOpts{
			Name: "cg_cell_migration_submodules_total",
			Help: "Submodules converted from legacy content to cells.",
		}),
		migratedPaths: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cg_cell_migration_paths_total",
			Help: "Paths visited by the cell migration by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAIRequest(endpoint, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = "unknown"
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.aiRequests.WithLabelValues(endpoint, outcome).Inc()
	if dur > 0 {
		m.aiLatency.WithLabelValues(endpoint).Observe(dur.Seconds())
	}
}

func (m *Metrics) IncPathOp(op, outcome string) {
	if m == nil {
		return
	}
	m.pathOps.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) IncGenerationFallback() {
	if m == nil {
		return
	}
	m.generationFallbacks.Inc()
}

func (m *Metrics) IncPathCache(result string) {
	if m == nil {
		return
	}
	m.pathCache.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveMigration(result string, submodules int) {
	if m == nil {
		return
	}
	m.migratedPaths.WithLabelValues(result).Inc()
	if submodules > 0 {
		m.migratedSubmodules.Add(float64(submodules))
	}
}
