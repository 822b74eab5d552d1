package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	analysesStarted   prometheus.Counter
	analysesCompleted prometheus.Counter
	analysesFailed    prometheus.Counter
	analysisDuration  prometheus.Histogram
}

// New builds a metrics registry for the given service name.
func New(service string) *Metrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docanalyzer",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docanalyzer",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	analysesStarted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   "docanalyzer",
		Subsystem:   "pipeline",
		Name:        "analyses_started_total",
		Help:        "Total analyses started.",
		ConstLabels: prometheus.Labels{"service": service},
	})
	analysesCompleted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   "docanalyzer",
		Subsystem:   "pipeline",
		Name:        "analyses_completed_total",
		Help:        "Total analyses completed and stored.",
		ConstLabels: prometheus.Labels{"service": service},
	})
	analysesFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   "docanalyzer",
		Subsystem:   "pipeline",
		Name:        "analyses_failed_total",
		Help:        "Total analyses that failed terminally.",
		ConstLabels: prometheus.Labels{"service": service},
	})
	analysisDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace:   "docanalyzer",
		Subsystem:   "pipeline",
		Name:        "analysis_duration_seconds",
		Help:        "End-to-end analysis duration in seconds.",
		Buckets:     []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		ConstLabels: prometheus.Labels{"service": service},
	})

	registry.MustRegister(
		requestTotal,
		requestDuration,
		analysesStarted,
		analysesCompleted,
		analysesFailed,
		analysisDuration,
	)

	return &Metrics{
		registry:          registry,
		requestTotal:      requestTotal,
		requestDuration:   requestDuration,
		analysesStarted:   analysesStarted,
		analysesCompleted: analysesCompleted,
		analysesFailed:    analysesFailed,
		analysisDuration:  analysisDuration,
	}
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records per-request counters and latency.
func (m *Metrics) Middleware(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := normalizePath(c.Request.URL.Path)

		c.Next()

		m.requestTotal.WithLabelValues(
			service,
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.requestDuration.WithLabelValues(service, c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// AnalysisStarted increments the started counter.
func (m *Metrics) AnalysisStarted() { m.analysesStarted.Inc() }

// AnalysisCompleted records a stored analysis and its duration.
func (m *Metrics) AnalysisCompleted(d time.Duration) {
	m.analysesCompleted.Inc()
	m.analysisDuration.Observe(d.Seconds())
}

// AnalysisFailed increments the failure counter.
func (m *Metrics) AnalysisFailed() { m.analysesFailed.Inc() }

// normalizePath collapses ID-carrying routes to keep label cardinality bounded.
func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/documents/") {
		return path
	}
	switch rest := strings.TrimPrefix(path, "/documents/"); {
	case rest == "storage/stats" || rest == "supported-types" || rest == "analyze":
		return path
	case strings.HasSuffix(rest, "/actions"):
		return "/documents/{document_id}/actions"
	default:
		return "/documents/{document_id}"
	}
}
