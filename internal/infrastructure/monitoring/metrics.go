// Package monitoring exposes Prometheus metrics for the kitchen service
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "kitchen"

// FeedStats is what the change feed reports about itself
type FeedStats interface {
	Subscribers() int
	Dropped() int64
}

// MetricsCollector handles Prometheus metrics collection. It implements
// outbound.OperationMetrics.
type MetricsCollector struct {
	logger   *zap.Logger
	factory  promauto.Factory
	gatherer prometheus.Gatherer

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// Business metrics
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	itemsTotal        *prometheus.CounterVec
}

// NewMetricsCollector registers every metric with reg
func NewMetricsCollector(reg prometheus.Registerer, gatherer prometheus.Gatherer, logger *zap.Logger) *MetricsCollector {
	factory := promauto.With(reg)

	return &MetricsCollector{
		logger:   logger.Named("metrics"),
		factory:  factory,
		gatherer: gatherer,

		// HTTP metrics
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		httpResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "HTTP response size in bytes",
				Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"method", "path"},
		),

		// Business metrics
		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of data layer operations by outcome",
			},
			[]string{"operation", "status"},
		),
		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Data layer operation duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
			},
			[]string{"operation"},
		),
		itemsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "items_total",
				Help:      "Rows added, merged, moved or decremented by composite operations",
			},
			[]string{"operation"},
		),
	}
}

// ObserveOperation records one operation's duration and outcome
func (m *MetricsCollector) ObserveOperation(name string, started time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.operationsTotal.WithLabelValues(name, status).Inc()
	m.operationDuration.WithLabelValues(name).Observe(time.Since(started).Seconds())
}

// AddItems counts rows touched by a composite operation
func (m *MetricsCollector) AddItems(operation string, n int) {
	if n <= 0 {
		return
	}
	m.itemsTotal.WithLabelValues(operation).Add(float64(n))
}

// WatchFeed exposes the change feed's subscriber count and drop counter
func (m *MetricsCollector) WatchFeed(feed FeedStats) {
	m.factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "changefeed_subscribers",
			Help:      "Number of live change feed subscriptions",
		},
		func() float64 { return float64(feed.Subscribers()) },
	)
	m.factory.NewCounterFunc(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "changefeed_dropped_total",
			Help:      "Changes not delivered because a subscriber was too slow",
		},
		func() float64 { return float64(feed.Dropped()) },
	)
}

// HTTPMiddleware creates a chi middleware for HTTP metrics collection
func (m *MetricsCollector) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		m.httpResponseSize.WithLabelValues(r.Method, path).Observe(float64(ww.BytesWritten()))
	})
}

// Handler returns the Prometheus metrics HTTP handler
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
