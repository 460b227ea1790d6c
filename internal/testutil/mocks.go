package testutil

import (
	"context"
	"surveyd/internal/models"
	"surveyd/internal/providers"
	"surveyd/internal/store"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu               sync.Mutex
	Requests         int
	Durations        int
	CacheHits        int
	CacheMisses      int
	Submissions      int
	DuplicateKinds   []string
	RateLimitedTiers []string
	RetentionDeleted int64
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Durations++
}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) IncSubmissions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Submissions++
}
func (m *MockMetrics) IncDuplicateRejected(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicateKinds = append(m.DuplicateKinds, kind)
}
func (m *MockMetrics) IncRateLimited(tier string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RateLimitedTiers = append(m.RateLimitedTiers, tier)
}
func (m *MockMetrics) AddRetentionDeleted(count int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RetentionDeleted += count
}

// MockAuditStore implements store.AuditStoreInterface in memory.
type MockAuditStore struct {
	mu      sync.Mutex
	Entries []AuditCall
	Err     error
}

type AuditCall struct {
	EventType string
	IPAddress string
	Details   map[string]interface{}
}

func (m *MockAuditStore) Append(_ context.Context, eventType, ipAddress string, details map[string]interface{}) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, AuditCall{EventType: eventType, IPAddress: ipAddress, Details: details})
	return nil
}

func (m *MockAuditStore) List(_ context.Context, limit, offset int) ([]models.AuditEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return nil, nil
}

// Events returns the recorded event types in append order.
func (m *MockAuditStore) Events() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		events[i] = e.EventType
	}
	return events
}

// MockSubmissionStore implements store.SubmissionStoreInterface with
// injectable behavior per method.
type MockSubmissionStore struct {
	InsertFn                func(ctx context.Context, rec *models.SubmissionRecord) (int64, error)
	LatestByHashFn          func(ctx context.Context, hash string, since time.Time) (*store.RecordRef, error)
	LatestByEmailBuildingFn func(ctx context.Context, email, building string, since time.Time) (*store.RecordRef, error)
	ListByEmailFn           func(ctx context.Context, email string) ([]models.SubmissionRecord, error)
	CountByEmailFn          func(ctx context.Context, email string) (int64, error)
	DeleteByEmailFn         func(ctx context.Context, email string) (int64, error)
	WithdrawConsentFn       func(ctx context.Context, email string) (int64, error)
	DeleteOlderThanFn       func(ctx context.Context, cutoff time.Time) (int64, error)
	DuplicateGroupsFn       func(ctx context.Context) ([]models.DuplicateGroup, error)
	ListAllFn               func(ctx context.Context) ([]models.SubmissionRecord, error)
	CountFn                 func(ctx context.Context) (int, error)
	AggregateFn             func(ctx context.Context) (*models.SurveyStats, error)
}

func (m *MockSubmissionStore) Insert(ctx context.Context, rec *models.SubmissionRecord) (int64, error) {
	if m.InsertFn != nil {
		return m.InsertFn(ctx, rec)
	}
	return 1, nil
}

func (m *MockSubmissionStore) LatestByHash(ctx context.Context, hash string, since time.Time) (*store.RecordRef, error) {
	if m.LatestByHashFn != nil {
		return m.LatestByHashFn(ctx, hash, since)
	}
	return nil, nil
}

func (m *MockSubmissionStore) LatestByEmailBuilding(ctx context.Context, email, building string, since time.Time) (*store.RecordRef, error) {
	if m.LatestByEmailBuildingFn != nil {
		return m.LatestByEmailBuildingFn(ctx, email, building, since)
	}
	return nil, nil
}

func (m *MockSubmissionStore) ListByEmail(ctx context.Context, email string) ([]models.SubmissionRecord, error) {
	if m.ListByEmailFn != nil {
		return m.ListByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *MockSubmissionStore) CountByEmail(ctx context.Context, email string) (int64, error) {
	if m.CountByEmailFn != nil {
		return m.CountByEmailFn(ctx, email)
	}
	return 0, nil
}

func (m *MockSubmissionStore) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	if m.DeleteByEmailFn != nil {
		return m.DeleteByEmailFn(ctx, email)
	}
	return 0, nil
}

func (m *MockSubmissionStore) WithdrawConsent(ctx context.Context, email string) (int64, error) {
	if m.WithdrawConsentFn != nil {
		return m.WithdrawConsentFn(ctx, email)
	}
	return 0, nil
}

func (m *MockSubmissionStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.DeleteOlderThanFn != nil {
		return m.DeleteOlderThanFn(ctx, cutoff)
	}
	return 0, nil
}

func (m *MockSubmissionStore) DuplicateGroups(ctx context.Context) ([]models.DuplicateGroup, error) {
	if m.DuplicateGroupsFn != nil {
		return m.DuplicateGroupsFn(ctx)
	}
	return nil, nil
}

func (m *MockSubmissionStore) ListAll(ctx context.Context) ([]models.SubmissionRecord, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	return nil, nil
}

func (m *MockSubmissionStore) Count(ctx context.Context) (int, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}
	return 0, nil
}

func (m *MockSubmissionStore) Aggregate(ctx context.Context) (*models.SurveyStats, error) {
	if m.AggregateFn != nil {
		return m.AggregateFn(ctx)
	}
	return &models.SurveyStats{
		ByStatus:          map[string]int{},
		ByBuilding:        map[string]int{},
		HasEV:             map[string]int{},
		Interest:          map[string]int{},
		PreferredSolution: map[string]int{},
		Timeline:          map[string]int{},
	}, nil
}

// MockSessionProvider implements providers.SessionProviderInterface.
type MockSessionProvider struct {
	mu      sync.Mutex
	Issued  []providers.Session
	Revoked []string
	Valid   map[string]bool
	Swept   int
}

func (m *MockSessionProvider) Issue(ip string) providers.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := providers.Session{Token: "mock-token", IPAddress: ip}
	m.Issued = append(m.Issued, s)
	return s
}

func (m *MockSessionProvider) Validate(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Valid[token]
}

func (m *MockSessionProvider) Revoke(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Revoked = append(m.Revoked, token)
	delete(m.Valid, token)
}

func (m *MockSessionProvider) SweepExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Swept
}

func (m *MockSessionProvider) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Valid)
}

// MockRateLimiter implements providers.RateLimiterInterface. Allows
// everything unless Deny is set.
type MockRateLimiter struct {
	mu       sync.Mutex
	Deny     bool
	Message  string
	Allows   []string
	Forgiven []string
}

func (m *MockRateLimiter) Allow(tier, key string) providers.Decision {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Allows = append(m.Allows, tier+":"+key)
	return providers.Decision{Allowed: !m.Deny, Message: m.Message}
}

func (m *MockRateLimiter) Forgive(tier, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Forgiven = append(m.Forgiven, tier+":"+key)
}

// MockSurveyService implements services.SurveyServiceInterface.
type MockSurveyService struct {
	SubmitFn     func(ctx context.Context, input *models.SubmissionInput, ip, userAgent string) (*models.SubmissionRecord, *models.DuplicateVerdict, error)
	DuplicatesFn func(ctx context.Context) ([]models.DuplicateGroup, error)
}

func (m *MockSurveyService) Submit(ctx context.Context, input *models.SubmissionInput, ip, userAgent string) (*models.SubmissionRecord, *models.DuplicateVerdict, error) {
	if m.SubmitFn != nil {
		return m.SubmitFn(ctx, input, ip, userAgent)
	}
	return &models.SubmissionRecord{ID: 1}, nil, nil
}

func (m *MockSurveyService) Duplicates(ctx context.Context) ([]models.DuplicateGroup, error) {
	if m.DuplicatesFn != nil {
		return m.DuplicatesFn(ctx)
	}
	return nil, nil
}

// MockAuthService implements services.AuthServiceInterface.
type MockAuthService struct {
	LoginFn     func(ctx context.Context, password, ip string) (providers.Session, error)
	LogoutCalls []string
	ValidTokens map[string]bool
	mu          sync.Mutex
}

func (m *MockAuthService) Login(ctx context.Context, password, ip string) (providers.Session, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, password, ip)
	}
	return providers.Session{Token: "mock-token"}, nil
}

func (m *MockAuthService) Logout(_ context.Context, token, _ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LogoutCalls = append(m.LogoutCalls, token)
}

func (m *MockAuthService) Authorized(token string) bool {
	return m.ValidTokens[token]
}

// MockPrivacyService implements services.PrivacyServiceInterface.
type MockPrivacyService struct {
	IntakeFn          func(ctx context.Context, email, requestType, ip string) error
	ExportFn          func(ctx context.Context, email, ip string) ([]models.SubmissionRecord, error)
	DeleteFn          func(ctx context.Context, email, ip string) (int64, error)
	WithdrawConsentFn func(ctx context.Context, email, ip string) (int64, error)
}

func (m *MockPrivacyService) Intake(ctx context.Context, email, requestType, ip string) error {
	if m.IntakeFn != nil {
		return m.IntakeFn(ctx, email, requestType, ip)
	}
	return nil
}

func (m *MockPrivacyService) Export(ctx context.Context, email, ip string) ([]models.SubmissionRecord, error) {
	if m.ExportFn != nil {
		return m.ExportFn(ctx, email, ip)
	}
	return nil, nil
}

func (m *MockPrivacyService) Delete(ctx context.Context, email, ip string) (int64, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, email, ip)
	}
	return 0, nil
}

func (m *MockPrivacyService) WithdrawConsent(ctx context.Context, email, ip string) (int64, error) {
	if m.WithdrawConsentFn != nil {
		return m.WithdrawConsentFn(ctx, email, ip)
	}
	return 0, nil
}

// MockRetentionService implements services.RetentionServiceInterface.
type MockRetentionService struct {
	SweepFn func(ctx context.Context, horizonDays int, event, ip string) (int64, error)
	mu      sync.Mutex
	Sweeps  []SweepCall
}

type SweepCall struct {
	HorizonDays int
	Event       string
}

func (m *MockRetentionService) Sweep(ctx context.Context, horizonDays int, event, ip string) (int64, error) {
	m.mu.Lock()
	m.Sweeps = append(m.Sweeps, SweepCall{HorizonDays: horizonDays, Event: event})
	m.mu.Unlock()
	if m.SweepFn != nil {
		return m.SweepFn(ctx, horizonDays, event, ip)
	}
	return 0, nil
}

// MockStatsService implements services.StatsServiceInterface.
type MockStatsService struct {
	StatsFn     func(ctx context.Context) (*models.SurveyStats, error)
	ExportCSVFn func(ctx context.Context) ([]byte, error)
}

func (m *MockStatsService) Stats(ctx context.Context) (*models.SurveyStats, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx)
	}
	return &models.SurveyStats{}, nil
}

func (m *MockStatsService) ExportCSV(ctx context.Context) ([]byte, error) {
	if m.ExportCSVFn != nil {
		return m.ExportCSVFn(ctx)
	}
	return []byte{0xEF, 0xBB, 0xBF}, nil
}
