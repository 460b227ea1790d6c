package controllers

import (
	"fmt"
	"net/http"
	"surveyd/internal/providers"
	"surveyd/internal/store"
	"time"

	json "github.com/goccy/go-json"
)

type HealthController struct {
	submissions store.SubmissionStoreInterface
	sessions    providers.SessionProviderInterface
	startTime   time.Time
}

type healthResponse struct {
	Status         string  `json:"status"`
	Uptime         string  `json:"uptime"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
	TotalResponses int     `json:"total_responses"`
	ActiveSessions int     `json:"active_sessions"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	total, err := hc.submissions.Count(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "degraded"})
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:         "ok",
		Uptime:         formatDuration(uptime),
		UptimeSeconds:  uptime.Seconds(),
		TotalResponses: total,
		ActiveSessions: hc.sessions.ActiveCount(),
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(submissions store.SubmissionStoreInterface, sessions providers.SessionProviderInterface) *HealthController {
	return &HealthController{
		submissions: submissions,
		sessions:    sessions,
		startTime:   time.Now(),
	}
}
