package services

import (
	"context"
	"fmt"
	"strings"
	"surveyd/internal/models"
	"surveyd/internal/providers"
	"surveyd/internal/store"
)

type PrivacyServiceInterface interface {
	Intake(ctx context.Context, email, requestType, ip string) error
	Export(ctx context.Context, email, ip string) ([]models.SubmissionRecord, error)
	Delete(ctx context.Context, email, ip string) (int64, error)
	WithdrawConsent(ctx context.Context, email, ip string) (int64, error)
}

// PrivacyService implements the data-subject operations: access, erasure
// and consent withdrawal. Every operation leaves an audit entry with the
// address redacted.
type PrivacyService struct {
	submissions store.SubmissionStoreInterface
	audit       store.AuditStoreInterface
	logger      providers.Logger
}

func NewPrivacyService(
	submissions store.SubmissionStoreInterface,
	audit store.AuditStoreInterface,
	logger providers.Logger,
) PrivacyServiceInterface {
	return &PrivacyService{
		submissions: submissions,
		audit:       audit,
		logger:      logger,
	}
}

// Intake records that a data-subject request was received. It only checks
// whether the address has stored data; no record content is returned.
// store.ErrNotFound when there is none.
func (ps *PrivacyService) Intake(ctx context.Context, email, requestType, ip string) error {
	email = normalizeEmail(email)
	count, err := ps.submissions.CountByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("privacy request lookup: %w", err)
	}
	if count == 0 {
		return store.ErrNotFound
	}

	if err := ps.audit.Append(ctx, models.EventRgpdRequest, ip, map[string]interface{}{
		"email":        redactEmail(email),
		"request_type": requestType,
		"count":        count,
	}); err != nil {
		return fmt.Errorf("record privacy request: %w", err)
	}
	ps.logger.Infof(providers.TypeApp, "Privacy request (%s) received", requestType)
	return nil
}

// Export returns every record stored for the address. store.ErrNotFound
// when there are none.
func (ps *PrivacyService) Export(ctx context.Context, email, ip string) ([]models.SubmissionRecord, error) {
	email = normalizeEmail(email)
	records, err := ps.submissions.ListByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("export by email: %w", err)
	}
	if len(records) == 0 {
		return nil, store.ErrNotFound
	}

	ps.appendAudit(ctx, models.EventRgpdExport, ip, map[string]interface{}{
		"email": redactEmail(email),
		"count": len(records),
	})
	return records, nil
}

// Delete erases every record stored for the address and returns the count.
// store.ErrNotFound when nothing matched; the deletion and its count come
// from a single statement, so the audit entry is exact.
func (ps *PrivacyService) Delete(ctx context.Context, email, ip string) (int64, error) {
	email = normalizeEmail(email)
	deleted, err := ps.submissions.DeleteByEmail(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("delete by email: %w", err)
	}
	if deleted == 0 {
		return 0, store.ErrNotFound
	}

	ps.appendAudit(ctx, models.EventRgpdDelete, ip, map[string]interface{}{
		"email": redactEmail(email),
		"count": deleted,
	})
	ps.logger.Infof(providers.TypeApp, "Erasure request removed %d records", deleted)
	return deleted, nil
}

// WithdrawConsent keeps the anonymous survey answers but strips the email
// and consent timestamp from every matching record.
func (ps *PrivacyService) WithdrawConsent(ctx context.Context, email, ip string) (int64, error) {
	email = normalizeEmail(email)
	updated, err := ps.submissions.WithdrawConsent(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("withdraw consent: %w", err)
	}
	if updated == 0 {
		return 0, store.ErrNotFound
	}

	ps.appendAudit(ctx, models.EventConsentWithdrawn, ip, map[string]interface{}{
		"email": redactEmail(email),
		"count": updated,
	})
	return updated, nil
}

func (ps *PrivacyService) appendAudit(ctx context.Context, event, ip string, details map[string]interface{}) {
	if err := ps.audit.Append(ctx, event, ip, details); err != nil {
		ps.logger.Errorf(providers.TypeApp, "Failed to append %s audit entry: %s", event, err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
