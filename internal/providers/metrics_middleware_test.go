package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type mockMetrics struct {
	requestEndpoint string
	requestStatus   int
	requestCalls    int
	durationCalls   int
	rateLimited     []string
}

func (m *mockMetrics) IncRequestsTotal(endpoint string, status int) {
	m.requestEndpoint = endpoint
	m.requestStatus = status
	m.requestCalls++
}
func (m *mockMetrics) ObserveRequestDuration(_ string, _ time.Duration) { m.durationCalls++ }
func (m *mockMetrics) IncCacheHits()                                    {}
func (m *mockMetrics) IncCacheMisses()                                  {}
func (m *mockMetrics) IncSubmissions()                                  {}
func (m *mockMetrics) IncDuplicateRejected(_ string)                    {}
func (m *mockMetrics) IncRateLimited(tier string)                       { m.rateLimited = append(m.rateLimited, tier) }
func (m *mockMetrics) AddRetentionDeleted(_ int64)                      {}

func TestMetricsMiddleware_CapturesStatusAndEndpoint(t *testing.T) {
	metrics := &mockMetrics{}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	mw := MetricsMiddleware(metrics, handler)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	assert.Equal(t, 1, metrics.requestCalls)
	assert.Equal(t, 1, metrics.durationCalls)
	assert.Equal(t, "/api/stats", metrics.requestEndpoint)
	assert.Equal(t, http.StatusCreated, metrics.requestStatus)
}

func TestMetricsMiddleware_DefaultStatusIsOK(t *testing.T) {
	metrics := &mockMetrics{}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("implicit 200"))
	})

	mw := MetricsMiddleware(metrics, handler)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, metrics.requestStatus)
}

func TestRateLimitMiddleware_AllowsWithinBudget(t *testing.T) {
	metrics := &mockMetrics{}
	rl, _ := newTestLimiter(t)

	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	mw := RateLimitMiddleware(rl, metrics, handler)
	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	assert.True(t, called)
	assert.Empty(t, metrics.rateLimited)
}

func TestRateLimitMiddleware_RejectsOverBudget(t *testing.T) {
	metrics := &mockMetrics{}
	rl, _ := newTestLimiter(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})

	mw := RateLimitMiddleware(rl, metrics, handler)
	for i := 0; i < 100; i++ {
		rl.Allow(TierAPI, "10.0.0.1")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, []string{TierAPI}, metrics.rateLimited)
	assert.Contains(t, rr.Body.String(), "Too many requests")
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.10:1234"
	assert.Equal(t, "192.168.1.10", GetClientIP(req))

	req.Header.Set("X-Real-IP", "203.0.113.7")
	assert.Equal(t, "203.0.113.7", GetClientIP(req))

	req.Header.Set("X-Forwarded-For", "198.51.100.4, 10.0.0.1")
	assert.Equal(t, "198.51.100.4", GetClientIP(req))
}
