// Package services holds the business rules between the HTTP controllers
// and the store: duplicate suppression, admin authentication, privacy
// operations, retention and statistics.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"surveyd/internal/fingerprint"
	"surveyd/internal/models"
	"surveyd/internal/providers"
	"surveyd/internal/store"
	"surveyd/internal/structures"
	"time"
)

// ErrUnknownBuilding is returned when a submission names a building the
// complex does not have.
var ErrUnknownBuilding = errors.New("unknown building")

type SurveyServiceInterface interface {
	Submit(ctx context.Context, input *models.SubmissionInput, ip, userAgent string) (*models.SubmissionRecord, *models.DuplicateVerdict, error)
	Duplicates(ctx context.Context) ([]models.DuplicateGroup, error)
}

type SurveyService struct {
	conf        *structures.Config
	submissions store.SubmissionStoreInterface
	audit       store.AuditStoreInterface
	metrics     providers.MetricsProviderInterface
	logger      providers.Logger
	now         func() time.Time
}

func NewSurveyService(
	conf *structures.Config,
	submissions store.SubmissionStoreInterface,
	audit store.AuditStoreInterface,
	metrics providers.MetricsProviderInterface,
	logger providers.Logger,
) SurveyServiceInterface {
	return &SurveyService{
		conf:        conf,
		submissions: submissions,
		audit:       audit,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// Submit stores a survey response unless it collides with an earlier one.
// Two windows are checked in order: an exact fingerprint match within the
// fingerprint window, then a same-email-same-building match within the
// longer identity window. A non-nil verdict means the submission was
// rejected and nothing was stored.
func (s *SurveyService) Submit(ctx context.Context, input *models.SubmissionInput, ip, userAgent string) (*models.SubmissionRecord, *models.DuplicateVerdict, error) {
	if !s.knownBuilding(input.Building) {
		return nil, nil, ErrUnknownBuilding
	}

	email := strings.ToLower(strings.TrimSpace(input.ContactEmail()))
	hash := fingerprint.Generate(input.Building, input.Apartment, email, input.Status)
	now := s.now().UTC()

	ref, err := s.submissions.LatestByHash(ctx, hash, now.Add(-s.conf.Survey.FingerprintWindow))
	if err != nil {
		return nil, nil, fmt.Errorf("duplicate check: %w", err)
	}
	if ref != nil {
		return nil, s.reject(ctx, models.VerdictExact, ref, email, input.Building, ip), nil
	}

	if email != "" {
		ref, err = s.submissions.LatestByEmailBuilding(ctx, email, input.Building, now.Add(-s.conf.Survey.IdentityWindow))
		if err != nil {
			return nil, nil, fmt.Errorf("identity check: %w", err)
		}
		if ref != nil {
			return nil, s.reject(ctx, models.VerdictIdentityWindow, ref, email, input.Building, ip), nil
		}
	}

	rec := &models.SubmissionRecord{
		CreatedAt:         now,
		Building:          input.Building,
		Apartment:         strings.TrimSpace(input.Apartment),
		ParkingSpot:       strings.TrimSpace(input.ParkingSpot),
		Status:            input.Status,
		HasEV:             input.HasEV,
		Interested:        input.Interested,
		PreferredSolution: input.PreferredSolution,
		Timeline:          input.Timeline,
		Comments:          strings.TrimSpace(input.Comments),
		ConsentContact:    input.ConsentContact && email != "",
		IPAddress:         ip,
		UserAgent:         userAgent,
		SubmissionHash:    hash,
	}
	if rec.ConsentContact {
		rec.Email = &email
		// The client reports when the consent box was ticked; an absent
		// or unparseable value leaves the timestamp null.
		if ts, err := time.Parse(time.RFC3339, input.ConsentTimestamp); err == nil {
			utc := ts.UTC()
			rec.ConsentTimestamp = &utc
		}
	}

	id, err := s.submissions.Insert(ctx, rec)
	if err != nil {
		return nil, nil, fmt.Errorf("store submission: %w", err)
	}
	rec.ID = id

	s.metrics.IncSubmissions()
	s.appendAudit(ctx, models.EventSubmission, ip, map[string]interface{}{
		"id":       id,
		"building": input.Building,
		"status":   input.Status,
	})
	s.logger.Infof(providers.TypeApp, "Submission %d accepted for building %s", id, input.Building)

	return rec, nil, nil
}

func (s *SurveyService) reject(ctx context.Context, kind string, ref *store.RecordRef, email, building, ip string) *models.DuplicateVerdict {
	s.metrics.IncDuplicateRejected(kind)
	s.appendAudit(ctx, models.EventDuplicateAttempt, ip, map[string]interface{}{
		"kind":        kind,
		"original_id": ref.ID,
		"building":    building,
		"email":       redactEmail(email),
	})
	s.logger.Warnf(providers.TypeApp, "Duplicate submission rejected (%s), original %d", kind, ref.ID)
	return &models.DuplicateVerdict{
		Kind:       kind,
		OriginalID: ref.ID,
		CreatedAt:  ref.CreatedAt,
	}
}

func (s *SurveyService) Duplicates(ctx context.Context) ([]models.DuplicateGroup, error) {
	return s.submissions.DuplicateGroups(ctx)
}

func (s *SurveyService) knownBuilding(building string) bool {
	for _, b := range s.conf.Survey.Buildings {
		if b == building {
			return true
		}
	}
	return false
}

// appendAudit must not fail the request it decorates.
func (s *SurveyService) appendAudit(ctx context.Context, event, ip string, details map[string]interface{}) {
	if err := s.audit.Append(ctx, event, ip, details); err != nil {
		s.logger.Errorf(providers.TypeApp, "Failed to append %s audit entry: %s", event, err)
	}
}

// redactEmail keeps the first three characters so audit entries stay
// correlatable without storing the address itself.
func redactEmail(email string) string {
	if email == "" {
		return ""
	}
	if len(email) <= 3 {
		return email + "***"
	}
	return email[:3] + "***"
}
