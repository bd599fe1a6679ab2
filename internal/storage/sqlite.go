// Package storage persists contact form submissions in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ContactSubmission is one message sent through the contact endpoint.
type ContactSubmission struct {
	ID        string
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}

// ContactStore persists contact submissions.
type ContactStore interface {
	SaveSubmission(ctx context.Context, sub *ContactSubmission) error
	ListSubmissions(ctx context.Context, limit int) ([]ContactSubmission, error)
	Ping(ctx context.Context) error
	Close() error
}

// SQLiteStore implements ContactStore over a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

var _ ContactStore = (*SQLiteStore)(nil)

const contactSchema = `
CREATE TABLE IF NOT EXISTS contact_submissions (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL,
	message    TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_contact_created_at ON contact_submissions (created_at DESC);
`

// Open opens the store and bootstraps the schema. Use ":memory:" for
// an ephemeral database in tests.
func Open(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(contactSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveSubmission inserts a submission, assigning ID and timestamp when
// absent.
func (s *SQLiteStore) SaveSubmission(ctx context.Context, sub *ContactSubmission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contact_submissions (id, name, email, message, created_at) VALUES (?, ?, ?, ?, ?)`,
		sub.ID, sub.Name, sub.Email, sub.Message, sub.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// ListSubmissions returns the most recent submissions, newest first.
func (s *SQLiteStore) ListSubmissions(ctx context.Context, limit int) ([]ContactSubmission, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, message, created_at FROM contact_submissions ORDER BY created_at DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []ContactSubmission
	for rows.Next() {
		var sub ContactSubmission
		var createdAt int64
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Email, &sub.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		sub.CreatedAt = time.UnixMilli(createdAt).UTC()
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return out, nil
}
