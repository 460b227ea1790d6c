package services

import (
	"context"
	"fmt"
	"surveyd/internal/providers"
	"surveyd/internal/store"
	"time"
)

type RetentionServiceInterface interface {
	Sweep(ctx context.Context, horizonDays int, event, ip string) (int64, error)
}

// RetentionService deletes submissions older than the retention horizon.
// The audit log is never touched: it outlives the records it describes.
type RetentionService struct {
	submissions store.SubmissionStoreInterface
	audit       store.AuditStoreInterface
	metrics     providers.MetricsProviderInterface
	logger      providers.Logger
	now         func() time.Time
}

func NewRetentionService(
	submissions store.SubmissionStoreInterface,
	audit store.AuditStoreInterface,
	metrics providers.MetricsProviderInterface,
	logger providers.Logger,
) RetentionServiceInterface {
	return &RetentionService{
		submissions: submissions,
		audit:       audit,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// Sweep removes everything older than horizonDays. The event name records
// whether the sweep was scheduled or admin-triggered; a sweep that deletes
// nothing leaves no audit entry.
func (rs *RetentionService) Sweep(ctx context.Context, horizonDays int, event, ip string) (int64, error) {
	if horizonDays < 1 {
		horizonDays = 1
	}
	cutoff := rs.now().UTC().AddDate(0, 0, -horizonDays)

	deleted, err := rs.submissions.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("retention sweep: %w", err)
	}
	if deleted == 0 {
		return 0, nil
	}

	rs.metrics.AddRetentionDeleted(deleted)
	if err := rs.audit.Append(ctx, event, ip, map[string]interface{}{
		"deleted":      deleted,
		"horizon_days": horizonDays,
		"cutoff":       cutoff.Format(time.RFC3339),
	}); err != nil {
		rs.logger.Errorf(providers.TypeApp, "Failed to append %s audit entry: %s", event, err)
	}
	rs.logger.Infof(providers.TypeApp, "Retention sweep (%s) removed %d records older than %d days", event, deleted, horizonDays)
	return deleted, nil
}
