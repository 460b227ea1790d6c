package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"surveyd/internal/models"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// RecordRef points at an existing response, for duplicate verdicts.
type RecordRef struct {
	ID        int64
	CreatedAt time.Time
}

type SubmissionStoreInterface interface {
	Insert(ctx context.Context, rec *models.SubmissionRecord) (int64, error)
	LatestByHash(ctx context.Context, hash string, since time.Time) (*RecordRef, error)
	LatestByEmailBuilding(ctx context.Context, email, building string, since time.Time) (*RecordRef, error)
	ListByEmail(ctx context.Context, email string) ([]models.SubmissionRecord, error)
	CountByEmail(ctx context.Context, email string) (int64, error)
	DeleteByEmail(ctx context.Context, email string) (int64, error)
	WithdrawConsent(ctx context.Context, email string) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	DuplicateGroups(ctx context.Context) ([]models.DuplicateGroup, error)
	ListAll(ctx context.Context) ([]models.SubmissionRecord, error)
	Count(ctx context.Context) (int, error)
	Aggregate(ctx context.Context) (*models.SurveyStats, error)
}

type SubmissionStore struct {
	db *sql.DB
}

func NewSubmissionStore(s *Store) SubmissionStoreInterface {
	return &SubmissionStore{db: s.DB}
}

var responseColumns = []string{
	"id", "created_at", "building", "apartment", "parking_spot", "status",
	"has_ev", "interested", "preferred_solution", "timeline", "comments",
	"email", "consent_contact", "consent_timestamp",
	"ip_address", "user_agent", "submission_hash",
}

func (ss *SubmissionStore) Insert(ctx context.Context, rec *models.SubmissionRecord) (int64, error) {
	query, args, err := sq.Insert("responses").
		Columns(responseColumns[1:]...).
		Values(
			rec.CreatedAt, rec.Building, nullable(rec.Apartment), nullable(rec.ParkingSpot), rec.Status,
			rec.HasEV, rec.Interested, nullable(rec.PreferredSolution), nullable(rec.Timeline), nullable(rec.Comments),
			rec.Email, rec.ConsentContact, rec.ConsentTimestamp,
			rec.IPAddress, rec.UserAgent, rec.SubmissionHash,
		).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	res, err := ss.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert response: %w", err)
	}
	return res.LastInsertId()
}

func (ss *SubmissionStore) LatestByHash(ctx context.Context, hash string, since time.Time) (*RecordRef, error) {
	query, args, err := sq.Select("id", "created_at").
		From("responses").
		Where(sq.Eq{"submission_hash": hash}).
		Where(sq.Gt{"created_at": since}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build hash lookup: %w", err)
	}
	return ss.queryRef(ctx, query, args)
}

func (ss *SubmissionStore) LatestByEmailBuilding(ctx context.Context, email, building string, since time.Time) (*RecordRef, error) {
	query, args, err := sq.Select("id", "created_at").
		From("responses").
		Where(sq.Eq{"email": email, "building": building}).
		Where(sq.Gt{"created_at": since}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build identity lookup: %w", err)
	}
	return ss.queryRef(ctx, query, args)
}

func (ss *SubmissionStore) queryRef(ctx context.Context, query string, args []interface{}) (*RecordRef, error) {
	var ref RecordRef
	err := ss.db.QueryRowContext(ctx, query, args...).Scan(&ref.ID, &ref.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query response ref: %w", err)
	}
	return &ref, nil
}

func (ss *SubmissionStore) ListByEmail(ctx context.Context, email string) ([]models.SubmissionRecord, error) {
	query, args, err := sq.Select(responseColumns...).
		From("responses").
		Where(sq.Eq{"email": email}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build email listing: %w", err)
	}
	return ss.queryRecords(ctx, query, args)
}

func (ss *SubmissionStore) CountByEmail(ctx context.Context, email string) (int64, error) {
	query, args, err := sq.Select("COUNT(*)").
		From("responses").
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build email count: %w", err)
	}
	var count int64
	if err := ss.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count by email: %w", err)
	}
	return count, nil
}

// DeleteByEmail removes every record for the email in one statement; the
// returned count is exactly what was deleted.
func (ss *SubmissionStore) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	query, args, err := sq.Delete("responses").
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build email delete: %w", err)
	}
	res, err := ss.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete by email: %w", err)
	}
	return res.RowsAffected()
}

// WithdrawConsent clears the consent flag and nulls the email and consent
// timestamp in one statement. Irreversible: the email is not retained
// anywhere after this.
func (ss *SubmissionStore) WithdrawConsent(ctx context.Context, email string) (int64, error) {
	query, args, err := sq.Update("responses").
		Set("consent_contact", false).
		Set("email", nil).
		Set("consent_timestamp", nil).
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build consent withdrawal: %w", err)
	}
	res, err := ss.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("withdraw consent: %w", err)
	}
	return res.RowsAffected()
}

func (ss *SubmissionStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := sq.Delete("responses").
		Where(sq.Lt{"created_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build retention delete: %w", err)
	}
	res, err := ss.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete older than cutoff: %w", err)
	}
	return res.RowsAffected()
}

func (ss *SubmissionStore) DuplicateGroups(ctx context.Context) ([]models.DuplicateGroup, error) {
	query, args, err := sq.Select(
		"email", "building", "COUNT(*) AS cnt", "GROUP_CONCAT(id) AS ids",
		"MIN(created_at) AS first_submission", "MAX(created_at) AS last_submission").
		From("responses").
		Where("email IS NOT NULL AND email != ''").
		GroupBy("email", "building").
		Having("COUNT(*) > 1").
		OrderBy("cnt DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build duplicate groups: %w", err)
	}

	rows, err := ss.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query duplicate groups: %w", err)
	}
	defer rows.Close()

	groups := make([]models.DuplicateGroup, 0)
	for rows.Next() {
		var g models.DuplicateGroup
		var ids string
		if err := rows.Scan(&g.Email, &g.Building, &g.Count, &ids, &g.FirstSubmission, &g.LastSubmission); err != nil {
			return nil, fmt.Errorf("scan duplicate group: %w", err)
		}
		g.IDs = parseIDList(ids)
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func parseIDList(s string) []int64 {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (ss *SubmissionStore) ListAll(ctx context.Context) ([]models.SubmissionRecord, error) {
	query, args, err := sq.Select(responseColumns...).
		From("responses").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build full listing: %w", err)
	}
	return ss.queryRecords(ctx, query, args)
}

func (ss *SubmissionStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := ss.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM responses").Scan(&count); err != nil {
		return 0, fmt.Errorf("count responses: %w", err)
	}
	return count, nil
}

func (ss *SubmissionStore) Aggregate(ctx context.Context) (*models.SurveyStats, error) {
	stats := &models.SurveyStats{
		ByStatus:          make(map[string]int),
		ByBuilding:        make(map[string]int),
		HasEV:             make(map[string]int),
		Interest:          make(map[string]int),
		PreferredSolution: make(map[string]int),
		Timeline:          make(map[string]int),
	}

	total, err := ss.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalResponses = total

	for _, agg := range []struct {
		column string
		dest   map[string]int
	}{
		{"status", stats.ByStatus},
		{"building", stats.ByBuilding},
		{"has_ev", stats.HasEV},
		{"interested", stats.Interest},
		{"preferred_solution", stats.PreferredSolution},
		{"timeline", stats.Timeline},
	} {
		if err := ss.countBy(ctx, agg.column, agg.dest); err != nil {
			return nil, err
		}
	}

	for _, c := range []struct {
		condition string
		dest      *int
	}{
		{"parking_spot IS NOT NULL AND parking_spot != ''", &stats.WithParking},
		{"comments IS NOT NULL AND comments != ''", &stats.WithComments},
		{"consent_contact = 1 AND email IS NOT NULL AND email != ''", &stats.WithConsent},
	} {
		query, args, err := sq.Select("COUNT(*)").From("responses").Where(c.condition).ToSql()
		if err != nil {
			return nil, fmt.Errorf("build conditional count: %w", err)
		}
		if err := ss.db.QueryRowContext(ctx, query, args...).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("conditional count: %w", err)
		}
	}

	return stats, nil
}

func (ss *SubmissionStore) countBy(ctx context.Context, column string, dest map[string]int) error {
	query, args, err := sq.Select(column, "COUNT(*)").
		From("responses").
		Where(column + " IS NOT NULL AND " + column + " != ''").
		GroupBy(column).
		ToSql()
	if err != nil {
		return fmt.Errorf("build group count: %w", err)
	}

	rows, err := ss.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("group count on %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("scan group count: %w", err)
		}
		dest[key] = count
	}
	return rows.Err()
}

func (ss *SubmissionStore) queryRecords(ctx context.Context, query string, args []interface{}) ([]models.SubmissionRecord, error) {
	rows, err := ss.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query responses: %w", err)
	}
	defer rows.Close()

	records := make([]models.SubmissionRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func scanRecord(rows *sql.Rows) (*models.SubmissionRecord, error) {
	var rec models.SubmissionRecord
	var apartment, parkingSpot, solution, timeline, comments, email sql.NullString
	var consentTS sql.NullTime

	err := rows.Scan(
		&rec.ID, &rec.CreatedAt, &rec.Building, &apartment, &parkingSpot, &rec.Status,
		&rec.HasEV, &rec.Interested, &solution, &timeline, &comments,
		&email, &rec.ConsentContact, &consentTS,
		&rec.IPAddress, &rec.UserAgent, &rec.SubmissionHash,
	)
	if err != nil {
		return nil, fmt.Errorf("scan response: %w", err)
	}

	rec.Apartment = apartment.String
	rec.ParkingSpot = parkingSpot.String
	rec.PreferredSolution = solution.String
	rec.Timeline = timeline.String
	rec.Comments = comments.String
	if email.Valid {
		rec.Email = &email.String
	}
	if consentTS.Valid {
		rec.ConsentTimestamp = &consentTS.Time
	}
	return &rec, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
