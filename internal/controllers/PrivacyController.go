package controllers

import (
	"errors"
	"net/http"
	"strings"
	"surveyd/internal/providers"
	"surveyd/internal/services"
	"surveyd/internal/store"
	"time"

	json "github.com/goccy/go-json"
)

// PrivacyController serves the data-subject endpoints. Intake is public
// behind the rgpd rate tier; the operations that actually touch stored
// data (export, erasure, consent withdrawal) are executed by an admin
// and require a session token.
type PrivacyController struct {
	logger  providers.Logger
	privacy services.PrivacyServiceInterface
	auth    services.AuthServiceInterface
	limiter providers.RateLimiterInterface
	metrics providers.MetricsProviderInterface
}

func NewPrivacyController(
	logger providers.Logger,
	privacy services.PrivacyServiceInterface,
	auth services.AuthServiceInterface,
	limiter providers.RateLimiterInterface,
	metrics providers.MetricsProviderInterface,
) *PrivacyController {
	return &PrivacyController{
		logger:  logger,
		privacy: privacy,
		auth:    auth,
		limiter: limiter,
		metrics: metrics,
	}
}

func (pc *PrivacyController) authorized(w http.ResponseWriter, r *http.Request) bool {
	if pc.auth.Authorized(bearerToken(r)) {
		return true
	}
	writeError(w, http.StatusUnauthorized, "Unauthorized")
	return false
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && strings.Contains(email[at:], ".")
}

// Request records a data-subject request for asynchronous handling.
func (pc *PrivacyController) Request(w http.ResponseWriter, r *http.Request) {
	if !checkTier(w, r, pc.limiter, pc.metrics, providers.TierRgpd) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload struct {
		Email       string `json:"email"`
		RequestType string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validEmail(payload.Email) {
		writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}
	switch payload.RequestType {
	case "access", "delete":
	default:
		writeError(w, http.StatusBadRequest, "Invalid request type")
		return
	}

	if err := pc.privacy.Intake(r.Context(), payload.Email, payload.RequestType, providers.GetClientIP(r)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No data found for this address")
			return
		}
		pc.logger.Errorf(providers.TypeApp, "Privacy intake failed: %s", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Your request has been recorded and will be processed",
	})
}

func (pc *PrivacyController) Export(w http.ResponseWriter, r *http.Request) {
	if !pc.authorized(w, r) {
		return
	}

	email := r.PathValue("email")
	if !validEmail(email) {
		writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	records, err := pc.privacy.Export(r.Context(), email, providers.GetClientIP(r))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No data found for this address")
			return
		}
		pc.logger.Errorf(providers.TypeApp, "Privacy export failed: %s", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"data":        records,
		"exported_at": time.Now().UTC(),
	})
}

func (pc *PrivacyController) Delete(w http.ResponseWriter, r *http.Request) {
	if !pc.authorized(w, r) {
		return
	}

	email := r.PathValue("email")
	if !validEmail(email) {
		writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	deleted, err := pc.privacy.Delete(r.Context(), email, providers.GetClientIP(r))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No data found for this address")
			return
		}
		pc.logger.Errorf(providers.TypeApp, "Privacy deletion failed: %s", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"records_deleted": deleted,
	})
}

func (pc *PrivacyController) WithdrawConsent(w http.ResponseWriter, r *http.Request) {
	if !pc.authorized(w, r) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validEmail(payload.Email) {
		writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	updated, err := pc.privacy.WithdrawConsent(r.Context(), payload.Email, providers.GetClientIP(r))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No data found for this address")
			return
		}
		pc.logger.Errorf(providers.TypeApp, "Consent withdrawal failed: %s", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"records_updated": updated,
	})
}
