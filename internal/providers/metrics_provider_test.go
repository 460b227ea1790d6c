package providers

import (
	"surveyd/internal/structures"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

type metricsTestSessions struct{}

func (m *metricsTestSessions) Issue(_ string) Session     { return Session{} }
func (m *metricsTestSessions) Validate(_ string) bool     { return false }
func (m *metricsTestSessions) Revoke(_ string)            {}
func (m *metricsTestSessions) SweepExpired() int          { return 0 }
func (m *metricsTestSessions) ActiveCount() int           { return 3 }

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf, &metricsTestSessions{})
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	// Ensure no-op methods don't panic
	m.IncRequestsTotal("/test", 200)
	m.ObserveRequestDuration("/test", time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.IncSubmissions()
	m.IncDuplicateRejected("exact")
	m.IncRateLimited("survey")
	m.AddRetentionDeleted(5)
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	defer func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	}()

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf, &metricsTestSessions{})
	_, ok := m.(*MetricsProvider)
	assert.True(t, ok, "should return real provider when enabled")

	m.IncRequestsTotal("/api/survey", 201)
	m.ObserveRequestDuration("/api/survey", 5*time.Millisecond)
	m.IncSubmissions()
	m.IncDuplicateRejected("exact")
	m.IncDuplicateRejected("identity_window")
	m.IncRateLimited("auth")
	m.AddRetentionDeleted(12)

	families, err := reg.Gather()
	assert.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["surveyd_requests_total"])
	assert.True(t, names["surveyd_submissions_total"])
	assert.True(t, names["surveyd_duplicates_rejected_total"])
	assert.True(t, names["surveyd_rate_limited_total"])
	assert.True(t, names["surveyd_retention_deleted_total"])
	assert.True(t, names["surveyd_sessions_active"])
}

func TestHttpStatusBucket(t *testing.T) {
	assert.Equal(t, "2xx", httpStatusBucket(201))
	assert.Equal(t, "3xx", httpStatusBucket(304))
	assert.Equal(t, "4xx", httpStatusBucket(429))
	assert.Equal(t, "5xx", httpStatusBucket(500))
	assert.Equal(t, "1xx", httpStatusBucket(100))
}
