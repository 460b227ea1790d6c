package store

import (
	"context"
	"database/sql"
	"fmt"
	"surveyd/internal/models"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/goccy/go-json"
)

const (
	auditDefaultLimit = 100
	auditMaxLimit     = 500
)

type AuditStoreInterface interface {
	Append(ctx context.Context, eventType, ipAddress string, details map[string]interface{}) error
	List(ctx context.Context, limit, offset int) ([]models.AuditEntry, error)
}

// AuditStore is append-only: entries are never updated or deleted, and
// retention sweeps do not touch them.
type AuditStore struct {
	db *sql.DB
}

func NewAuditStore(s *Store) AuditStoreInterface {
	return &AuditStore{db: s.DB}
}

func (as *AuditStore) Append(ctx context.Context, eventType, ipAddress string, details map[string]interface{}) error {
	payload := []byte("{}")
	if len(details) > 0 {
		var err error
		payload, err = json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshal audit details: %w", err)
		}
	}

	query, args, err := sq.Insert("audit_log").
		Columns("event_type", "ip_address", "details", "created_at").
		Values(eventType, ipAddress, string(payload), time.Now().UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build audit insert: %w", err)
	}

	if _, err := as.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// NormalizePage resolves the limit and offset List will actually apply:
// missing or non-positive limits fall back to the default, oversized
// limits are capped, negative offsets become zero.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = auditDefaultLimit
	}
	if limit > auditMaxLimit {
		limit = auditMaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (as *AuditStore) List(ctx context.Context, limit, offset int) ([]models.AuditEntry, error) {
	limit, offset = NormalizePage(limit, offset)

	query, args, err := sq.Select("id", "event_type", "ip_address", "details", "created_at").
		From("audit_log").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build audit listing: %w", err)
	}

	rows, err := as.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	entries := make([]models.AuditEntry, 0, limit)
	for rows.Next() {
		var entry models.AuditEntry
		var details string
		if err := rows.Scan(&entry.ID, &entry.EventType, &entry.IPAddress, &details, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entry.Details = json.RawMessage(details)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
