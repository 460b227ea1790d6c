package internal

import (
	"net/http"
	"net/http/httptest"
	"surveyd/internal/controllers"
	"surveyd/internal/structures"
	"surveyd/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func routeTestControllers() (*controllers.ApiController, *controllers.AdminController, *controllers.PrivacyController) {
	logger := &testutil.MockLogger{}
	limiter := &testutil.MockRateLimiter{}
	metrics := &testutil.MockMetrics{}
	cache := testutil.NewMockCache()
	conf := &structures.Config{
		Retention: structures.RetentionConfig{HorizonDays: 730},
	}

	ac := controllers.NewApiController(logger, &testutil.MockSurveyService{}, &testutil.MockStatsService{}, cache, limiter, metrics)
	adc := controllers.NewAdminController(conf, logger, &testutil.MockAuthService{}, &testutil.MockSurveyService{}, &testutil.MockStatsService{}, &testutil.MockRetentionService{}, &testutil.MockAuditStore{}, limiter, metrics)
	pc := controllers.NewPrivacyController(logger, &testutil.MockPrivacyService{}, &testutil.MockAuthService{ValidTokens: map[string]bool{"good-token": true}}, limiter, metrics)
	return ac, adc, pc
}

func TestInitRoutes_RegistersAllRoutes(t *testing.T) {
	ac, adc, pc := routeTestControllers()
	router := InitRoutes(ac, adc, pc)
	routes := router.GetRoutes()

	require.Len(t, routes, 12)

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}

	assert.Contains(t, urls, "/api/survey")
	assert.Contains(t, urls, "/api/stats")
	assert.Contains(t, urls, "/api/auth/login")
	assert.Contains(t, urls, "/api/auth/logout")
	assert.Contains(t, urls, "/api/admin/export")
	assert.Contains(t, urls, "/api/admin/audit")
	assert.Contains(t, urls, "/api/admin/duplicates")
	assert.Contains(t, urls, "/api/admin/cleanup")
	assert.Contains(t, urls, "/api/rgpd/request")
	assert.Contains(t, urls, "/api/rgpd/export/{email}")
	assert.Contains(t, urls, "/api/rgpd/delete/{email}")
	assert.Contains(t, urls, "/api/rgpd/withdraw-consent")
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	ac, adc, pc := routeTestControllers()
	router := InitRoutes(ac, adc, pc)

	mux := http.NewServeMux()
	for _, r := range router.GetRoutes() {
		mux.Handle(r.Url, r.Handler)
	}

	// POST-only survey endpoint rejects GET
	req := httptest.NewRequest(http.MethodGet, "/api/survey", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	// GET-only stats endpoint rejects POST
	req = httptest.NewRequest(http.MethodPost, "/api/stats", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestInitRoutes_EmailWildcard(t *testing.T) {
	ac, adc, pc := routeTestControllers()
	router := InitRoutes(ac, adc, pc)

	mux := http.NewServeMux()
	for _, r := range router.GetRoutes() {
		mux.Handle(r.Url, r.Handler)
	}

	// path segment reaches the privacy handler as {email}
	req := httptest.NewRequest(http.MethodGet, "/api/rgpd/export/resident@example.com", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	// a non-address segment is rejected by the handler, not the mux
	req = httptest.NewRequest(http.MethodGet, "/api/rgpd/export/not-an-email", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
