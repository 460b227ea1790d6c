package models

import (
	"time"

	json "github.com/goccy/go-json"
)

// Audit event types. The audit log is append-only; entries are written by
// every operation that touches submission or session state and are never
// removed by the retention sweep.
const (
	EventSubmission       = "submission"
	EventDuplicateAttempt = "duplicate_attempt"
	EventLogin            = "login"
	EventLogout           = "logout"
	EventExport           = "export"
	EventExportDenied     = "export_denied"
	EventAuditView        = "audit_view"
	EventDuplicatesView   = "duplicates_view"
	EventManualCleanup    = "manual_cleanup"
	EventRetentionCleanup = "retention_cleanup"
	EventRgpdRequest      = "rgpd_request"
	EventRgpdExport       = "rgpd_export"
	EventRgpdDelete       = "rgpd_delete"
	EventConsentWithdrawn = "consent_withdrawn"
)

type AuditEntry struct {
	ID        int64           `json:"id"`
	EventType string          `json:"event_type"`
	IPAddress string          `json:"ip_address"`
	Details   json.RawMessage `json:"details"`
	CreatedAt time.Time       `json:"created_at"`
}
