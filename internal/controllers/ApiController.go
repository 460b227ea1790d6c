package controllers

import (
	"errors"
	"net/http"
	"surveyd/internal/models"
	"surveyd/internal/providers"
	"surveyd/internal/services"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"
)

const maxRequestBodySize = 1 << 20 // 1 MB

// ApiController serves the public endpoints: survey submission and the
// anonymized statistics rollup.
type ApiController struct {
	logger  providers.Logger
	survey  services.SurveyServiceInterface
	stats   services.StatsServiceInterface
	cache   providers.CacheProviderInterface
	limiter providers.RateLimiterInterface
	metrics providers.MetricsProviderInterface
}

func NewApiController(
	logger providers.Logger,
	survey services.SurveyServiceInterface,
	stats services.StatsServiceInterface,
	cache providers.CacheProviderInterface,
	limiter providers.RateLimiterInterface,
	metrics providers.MetricsProviderInterface,
) *ApiController {
	return &ApiController{
		logger:  logger,
		survey:  survey,
		stats:   stats,
		cache:   cache,
		limiter: limiter,
		metrics: metrics,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}

// checkTier applies one of the per-endpoint rate tiers and answers the
// request itself when the ceiling is hit.
func checkTier(w http.ResponseWriter, r *http.Request, limiter providers.RateLimiterInterface, metrics providers.MetricsProviderInterface, tier string) bool {
	decision := limiter.Allow(tier, providers.GetClientIP(r))
	if !decision.Allowed {
		metrics.IncRateLimited(tier)
		writeError(w, http.StatusTooManyRequests, decision.Message)
		return false
	}
	return true
}

func (ac *ApiController) SubmitSurvey(w http.ResponseWriter, r *http.Request) {
	if !checkTier(w, r, ac.limiter, ac.metrics, providers.TierSurvey) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var input models.SubmissionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	v := validate.Struct(&input)
	if !v.Validate() {
		writeError(w, http.StatusBadRequest, v.Errors.One())
		return
	}

	rec, verdict, err := ac.survey.Submit(r.Context(), &input, providers.GetClientIP(r), r.UserAgent())
	if err != nil {
		if errors.Is(err, services.ErrUnknownBuilding) {
			writeError(w, http.StatusBadRequest, "Unknown building")
			return
		}
		ac.logger.Errorf(providers.TypeApp, "Submission failed: %s", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if verdict != nil {
		writeJSON(w, http.StatusConflict, map[string]any{
			"success":       false,
			"error":         "duplicate",
			"message":       "A submission already exists for this household",
			"kind":          verdict.Kind,
			"original_date": verdict.CreatedAt,
		})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"id":      rec.ID,
	})
}

func (ac *ApiController) GetStats(w http.ResponseWriter, r *http.Request) {
	if data, ok := ac.cache.Get("stats"); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	stats, err := ac.stats.Stats(r.Context())
	if err != nil {
		ac.logger.Errorf(providers.TypeApp, "Stats aggregation failed: %s", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	gson, err := json.Marshal(stats)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	ac.cache.Set("stats", gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}
