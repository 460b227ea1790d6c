// Package store implements the relational persistence layer on SQLite.
// The database is the single source of truth for submission records and
// the audit log; every mutation is a single atomic statement.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"surveyd/internal/providers"
	"surveyd/internal/structures"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by lookups that match no rows.
var ErrNotFound = errors.New("store: not found")

type Store struct {
	DB *sql.DB
}

func NewStore(conf *structures.Config, logger providers.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", conf.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	// WAL keeps readers from blocking the write path
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := createSchema(db); err != nil {
		return nil, err
	}

	logger.Infof(providers.TypeApp, "Database ready at %s", conf.Database.Path)
	return &Store{DB: db}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const schema = `
-- Survey responses
CREATE TABLE IF NOT EXISTS responses (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP NOT NULL,

    -- Identity
    building TEXT NOT NULL,
    apartment TEXT,
    parking_spot TEXT,
    status TEXT NOT NULL,

    -- Interest
    has_ev TEXT NOT NULL,
    interested TEXT NOT NULL,
    preferred_solution TEXT,
    timeline TEXT,
    comments TEXT,

    -- Contact (optional, consent-gated)
    email TEXT,
    consent_contact INTEGER NOT NULL DEFAULT 0,
    consent_timestamp TIMESTAMP,

    -- Provenance
    ip_address TEXT NOT NULL,
    user_agent TEXT NOT NULL,
    submission_hash TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_responses_hash ON responses(submission_hash, created_at);
CREATE INDEX IF NOT EXISTS idx_responses_email_building ON responses(email, building);
CREATE INDEX IF NOT EXISTS idx_responses_created_at ON responses(created_at);

-- Append-only audit trail, retained independently of submission retention
CREATE TABLE IF NOT EXISTS audit_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    event_type TEXT NOT NULL,
    ip_address TEXT NOT NULL,
    details TEXT NOT NULL DEFAULT '{}',
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_log_created_at ON audit_log(created_at);
`
