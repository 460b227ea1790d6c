package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"surveyd/internal/models"
	"surveyd/internal/providers"
	"surveyd/internal/services"
	"surveyd/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApiController(survey *testutil.MockSurveyService, stats *testutil.MockStatsService, cache *testutil.MockCache, limiter *testutil.MockRateLimiter, metrics *testutil.MockMetrics) *ApiController {
	return NewApiController(&testutil.MockLogger{}, survey, stats, cache, limiter, metrics)
}

func validSubmissionBody() string {
	return `{"building":"A","apartment":"12","status":"owner","has_ev":"yes","interested":"yes","email":"resident@example.com","consent_contact":true}`
}

func TestSubmitSurvey_Accepted(t *testing.T) {
	var gotIP string
	survey := &testutil.MockSurveyService{
		SubmitFn: func(_ context.Context, input *models.SubmissionInput, ip, _ string) (*models.SubmissionRecord, *models.DuplicateVerdict, error) {
			gotIP = ip
			assert.Equal(t, "A", input.Building)
			return &models.SubmissionRecord{ID: 5}, nil, nil
		},
	}
	limiter := &testutil.MockRateLimiter{}
	ac := newApiController(survey, &testutil.MockStatsService{}, testutil.NewMockCache(), limiter, &testutil.MockMetrics{})

	req := httptest.NewRequest(http.MethodPost, "/api/survey", strings.NewReader(validSubmissionBody()))
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rr := httptest.NewRecorder()

	ac.SubmitSurvey(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "203.0.113.7", gotIP)
	assert.Equal(t, []string{providers.TierSurvey + ":203.0.113.7"}, limiter.Allows)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, float64(5), resp["id"])
}

func TestSubmitSurvey_RateLimited(t *testing.T) {
	limiter := &testutil.MockRateLimiter{Deny: true, Message: "Submission limit reached. Please try again later."}
	metrics := &testutil.MockMetrics{}
	ac := newApiController(&testutil.MockSurveyService{}, &testutil.MockStatsService{}, testutil.NewMockCache(), limiter, metrics)

	req := httptest.NewRequest(http.MethodPost, "/api/survey", strings.NewReader(validSubmissionBody()))
	rr := httptest.NewRecorder()

	ac.SubmitSurvey(rr, req)

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, []string{providers.TierSurvey}, metrics.RateLimitedTiers)
	assert.Contains(t, rr.Body.String(), "Submission limit reached")
}

func TestSubmitSurvey_InvalidJSON(t *testing.T) {
	ac := newApiController(&testutil.MockSurveyService{}, &testutil.MockStatsService{}, testutil.NewMockCache(), &testutil.MockRateLimiter{}, &testutil.MockMetrics{})

	req := httptest.NewRequest(http.MethodPost, "/api/survey", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()

	ac.SubmitSurvey(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSubmitSurvey_ValidationFailure(t *testing.T) {
	ac := newApiController(&testutil.MockSurveyService{}, &testutil.MockStatsService{}, testutil.NewMockCache(), &testutil.MockRateLimiter{}, &testutil.MockMetrics{})

	// status outside the allowed set
	body := `{"building":"A","status":"visitor","has_ev":"yes","interested":"yes"}`
	req := httptest.NewRequest(http.MethodPost, "/api/survey", strings.NewReader(body))
	rr := httptest.NewRecorder()

	ac.SubmitSurvey(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSubmitSurvey_UnknownBuilding(t *testing.T) {
	survey := &testutil.MockSurveyService{
		SubmitFn: func(_ context.Context, _ *models.SubmissionInput, _, _ string) (*models.SubmissionRecord, *models.DuplicateVerdict, error) {
			return nil, nil, services.ErrUnknownBuilding
		},
	}
	ac := newApiController(survey, &testutil.MockStatsService{}, testutil.NewMockCache(), &testutil.MockRateLimiter{}, &testutil.MockMetrics{})

	req := httptest.NewRequest(http.MethodPost, "/api/survey", strings.NewReader(validSubmissionBody()))
	rr := httptest.NewRecorder()

	ac.SubmitSurvey(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Unknown building")
}

func TestSubmitSurvey_Duplicate(t *testing.T) {
	original := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	survey := &testutil.MockSurveyService{
		SubmitFn: func(_ context.Context, _ *models.SubmissionInput, _, _ string) (*models.SubmissionRecord, *models.DuplicateVerdict, error) {
			return nil, &models.DuplicateVerdict{Kind: models.VerdictExact, OriginalID: 3, CreatedAt: original}, nil
		},
	}
	ac := newApiController(survey, &testutil.MockStatsService{}, testutil.NewMockCache(), &testutil.MockRateLimiter{}, &testutil.MockMetrics{})

	req := httptest.NewRequest(http.MethodPost, "/api/survey", strings.NewReader(validSubmissionBody()))
	rr := httptest.NewRecorder()

	ac.SubmitSurvey(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, models.VerdictExact, resp["kind"])
	assert.Equal(t, false, resp["success"])

	// machine-readable code in error, prose in message
	assert.Equal(t, "duplicate", resp["error"])
	assert.NotEmpty(t, resp["message"])
}

func TestGetStats_CacheMissThenHit(t *testing.T) {
	calls := 0
	stats := &testutil.MockStatsService{
		StatsFn: func(_ context.Context) (*models.SurveyStats, error) {
			calls++
			return &models.SurveyStats{TotalResponses: 7}, nil
		},
	}
	cache := testutil.NewMockCache()
	metrics := &testutil.MockMetrics{}
	ac := newApiController(&testutil.MockSurveyService{}, stats, cache, &testutil.MockRateLimiter{}, metrics)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)

	rr := httptest.NewRecorder()
	ac.GetStats(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"total_responses":7`)

	rr = httptest.NewRecorder()
	ac.GetStats(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	// second response came from cache
	assert.Equal(t, 1, calls)
}
