package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"surveyd/internal/models"
	"surveyd/internal/providers"
	"surveyd/internal/services"
	"surveyd/internal/store"
	"surveyd/internal/structures"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
)

// AdminController serves the token-protected endpoints: login, CSV export,
// the audit trail, duplicate review and the manual retention sweep.
type AdminController struct {
	conf      *structures.Config
	logger    providers.Logger
	auth      services.AuthServiceInterface
	survey    services.SurveyServiceInterface
	stats     services.StatsServiceInterface
	retention services.RetentionServiceInterface
	audit     store.AuditStoreInterface
	limiter   providers.RateLimiterInterface
	metrics   providers.MetricsProviderInterface
}

func NewAdminController(
	conf *structures.Config,
	logger providers.Logger,
	auth services.AuthServiceInterface,
	survey services.SurveyServiceInterface,
	stats services.StatsServiceInterface,
	retention services.RetentionServiceInterface,
	audit store.AuditStoreInterface,
	limiter providers.RateLimiterInterface,
	metrics providers.MetricsProviderInterface,
) *AdminController {
	return &AdminController{
		conf:      conf,
		logger:    logger,
		auth:      auth,
		survey:    survey,
		stats:     stats,
		retention: retention,
		audit:     audit,
		limiter:   limiter,
		metrics:   metrics,
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(auth[len("Bearer "):])
	}
	return ""
}

// authorized checks the session token and answers 401 itself when it is
// missing or stale.
func (adc *AdminController) authorized(w http.ResponseWriter, r *http.Request) bool {
	if adc.auth.Authorized(bearerToken(r)) {
		return true
	}
	writeError(w, http.StatusUnauthorized, "Unauthorized")
	return false
}

func (adc *AdminController) Login(w http.ResponseWriter, r *http.Request) {
	if !checkTier(w, r, adc.limiter, adc.metrics, providers.TierAuth) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := adc.auth.Login(r.Context(), payload.Password, providers.GetClientIP(r))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
		"expires_in": int(session.ExpiresAt.Sub(session.CreatedAt).Seconds()),
	})
}

func (adc *AdminController) Logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	adc.auth.Logout(r.Context(), token, providers.GetClientIP(r))
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// ExportCSV streams every stored response. Denied attempts are audited
// too, so probing for the endpoint leaves a trace.
func (adc *AdminController) ExportCSV(w http.ResponseWriter, r *http.Request) {
	ip := providers.GetClientIP(r)
	if !adc.auth.Authorized(bearerToken(r)) {
		adc.appendAudit(r, models.EventExportDenied, nil)
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	data, err := adc.stats.ExportCSV(r.Context())
	if err != nil {
		adc.logger.Errorf(providers.TypeApp, "CSV export failed: %s", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	adc.appendAudit(r, models.EventExport, map[string]any{"bytes": len(data)})
	adc.logger.Infof(providers.TypeApp, "CSV export served to %s", ip)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="survey_export.csv"`)

	if strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(http.StatusOK)
		gz := gzip.NewWriter(w)
		_, _ = gz.Write(data)
		_ = gz.Close()
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (adc *AdminController) AuditLog(w http.ResponseWriter, r *http.Request) {
	if !adc.authorized(w, r) {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, offset = store.NormalizePage(limit, offset)

	entries, err := adc.audit.List(r.Context(), limit, offset)
	if err != nil {
		adc.logger.Errorf(providers.TypeApp, "Audit listing failed: %s", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	adc.appendAudit(r, models.EventAuditView, nil)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"logs":    entries,
		"pagination": map[string]any{
			"limit":  limit,
			"offset": offset,
			"count":  len(entries),
		},
	})
}

func (adc *AdminController) Duplicates(w http.ResponseWriter, r *http.Request) {
	if !adc.authorized(w, r) {
		return
	}

	groups, err := adc.survey.Duplicates(r.Context())
	if err != nil {
		adc.logger.Errorf(providers.TypeApp, "Duplicate listing failed: %s", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	adc.appendAudit(r, models.EventDuplicatesView, nil)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"duplicates": groups,
	})
}

// Cleanup triggers a retention sweep now, optionally with a tighter
// horizon than the configured one (?days=N).
func (adc *AdminController) Cleanup(w http.ResponseWriter, r *http.Request) {
	if !adc.authorized(w, r) {
		return
	}

	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	if days <= 0 {
		days = adc.conf.Retention.HorizonDays
	}

	deleted, err := adc.retention.Sweep(r.Context(), days, models.EventManualCleanup, providers.GetClientIP(r))
	if err != nil {
		adc.logger.Errorf(providers.TypeApp, "Manual cleanup failed: %s", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"deleted_count":  deleted,
		"retention_days": days,
	})
}

func (adc *AdminController) appendAudit(r *http.Request, event string, details map[string]interface{}) {
	if err := adc.audit.Append(r.Context(), event, providers.GetClientIP(r), details); err != nil {
		adc.logger.Errorf(providers.TypeApp, "Failed to append %s audit entry: %s", event, err)
	}
}
