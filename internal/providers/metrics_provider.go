package providers

import (
	"surveyd/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncSubmissions()
	IncDuplicateRejected(kind string)
	IncRateLimited(tier string)
	AddRetentionDeleted(count int64)
}

type MetricsProvider struct {
	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	submissionsTotal   prometheus.Counter
	duplicatesRejected *prometheus.CounterVec
	rateLimitedTotal   *prometheus.CounterVec
	retentionDeleted   prometheus.Counter
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncSubmissions() {
	m.submissionsTotal.Inc()
}

func (m *MetricsProvider) IncDuplicateRejected(kind string) {
	m.duplicatesRejected.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) IncRateLimited(tier string) {
	m.rateLimitedTotal.WithLabelValues(tier).Inc()
}

func (m *MetricsProvider) AddRetentionDeleted(count int64) {
	m.retentionDeleted.Add(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, sessions SessionProviderInterface) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "surveyd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "surveyd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "surveyd_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "surveyd_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		submissionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "surveyd_submissions_total",
			Help: "Total number of accepted survey submissions",
		}),

		duplicatesRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "surveyd_duplicates_rejected_total",
			Help: "Total number of submissions rejected as duplicates",
		}, []string{"kind"}),

		rateLimitedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "surveyd_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		}, []string{"tier"}),

		retentionDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "surveyd_retention_deleted_total",
			Help: "Total number of submissions erased by retention sweeps",
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "surveyd_sessions_active",
		Help: "Current number of active admin sessions",
	}, func() float64 {
		return float64(sessions.ActiveCount())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                  {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)  {}
func (n *noopMetrics) IncCacheHits()                                     {}
func (n *noopMetrics) IncCacheMisses()                                   {}
func (n *noopMetrics) IncSubmissions()                                   {}
func (n *noopMetrics) IncDuplicateRejected(_ string)                     {}
func (n *noopMetrics) IncRateLimited(_ string)                           {}
func (n *noopMetrics) AddRetentionDeleted(_ int64)                       {}
