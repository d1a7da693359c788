package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// uploadedAtLayout keeps fractional seconds fixed-width so the TEXT column
// sorts chronologically under ORDER BY.
const uploadedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Record is one completed upload. Only finished uploads are persisted; the
// store never carries pending work.
type Record struct {
	ID         string
	Label      string
	Title      string
	FilePath   string
	VideoID    string
	URL        string
	SizeBytes  int64
	Attempts   int
	UploadedAt time.Time
}

// Store persists upload history in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database under stateDir.
func Open(stateDir string) (*Store, error) {
	dbPath := filepath.Join(stateDir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts a completed upload. A missing ID gets a fresh UUID and a
// zero UploadedAt defaults to now.
func (s *Store) Record(ctx context.Context, rec Record) (Record, error) {
	if strings.TrimSpace(rec.ID) == "" {
		rec.ID = uuid.NewString()
	}
	if rec.UploadedAt.IsZero() {
		rec.UploadedAt = time.Now().UTC()
	}
	if rec.Attempts < 1 {
		rec.Attempts = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO uploads (
            id, label, title, file_path, video_id, url,
            size_bytes, attempts, uploaded_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Label,
		rec.Title,
		rec.FilePath,
		rec.VideoID,
		rec.URL,
		rec.SizeBytes,
		rec.Attempts,
		rec.UploadedAt.UTC().Format(uploadedAtLayout),
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert upload record: %w", err)
	}
	return rec, nil
}

// Recent returns the most recent uploads, newest first. A non-positive limit
// returns everything.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT id, label, title, file_path, video_id, url,
            size_bytes, attempts, uploaded_at
        FROM uploads ORDER BY uploaded_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query uploads: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var uploadedAt string
		if err := rows.Scan(
			&rec.ID,
			&rec.Label,
			&rec.Title,
			&rec.FilePath,
			&rec.VideoID,
			&rec.URL,
			&rec.SizeBytes,
			&rec.Attempts,
			&uploadedAt,
		); err != nil {
			return nil, fmt.Errorf("scan upload record: %w", err)
		}
		if parsed, parseErr := time.Parse(time.RFC3339Nano, uploadedAt); parseErr == nil {
			rec.UploadedAt = parsed
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate upload records: %w", err)
	}
	return records, nil
}
