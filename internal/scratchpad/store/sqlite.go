package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	mdwerror "github.com/msto63/sexpad/foundation/core/error"
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// SQLiteConfig holds configuration for the SQLite store
type SQLiteConfig struct {
	Path string
}

// DefaultSQLiteConfig returns default configuration
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		Path: "./data/sexpad.db",
	}
}

// NewSQLiteStore opens (and if needed creates) the history database
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, dbError(err, "failed to create directory", "store.NewSQLiteStore")
	}

	// Open database with WAL mode
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, dbError(err, "failed to open database", "store.NewSQLiteStore")
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, dbError(err, "failed to initialize schema", "store.NewSQLiteStore")
	}

	return store, nil
}

// initSchema creates the necessary tables
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		canonical TEXT NOT NULL DEFAULT '',
		expr_count INTEGER NOT NULL DEFAULT 0,
		error_kind TEXT NOT NULL DEFAULT '',
		error_message TEXT NOT NULL DEFAULT '',
		error_line INTEGER NOT NULL DEFAULT 0,
		error_column INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_submissions_created ON submissions(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Save inserts a submission
func (s *SQLiteStore) Save(ctx context.Context, sub *Submission) error {
	if err := validate(sub); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (id, source, canonical, expr_count, error_kind, error_message, error_line, error_column, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sub.ID, sub.Source, sub.Canonical, sub.ExprCount,
		sub.ErrorKind, sub.ErrorMessage, sub.ErrorLine, sub.ErrorColumn,
		sub.CreatedAt.UnixNano())

	if err != nil {
		return dbError(err, "failed to save submission", "store.Save").WithDetail("id", sub.ID)
	}
	return nil
}

// Get retrieves a submission by ID
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, source, canonical, expr_count, error_kind, error_message, error_line, error_column, created_at
		FROM submissions WHERE id = ?
	`, id)

	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, dbError(err, "failed to get submission", "store.Get").WithDetail("id", id)
	}
	return sub, nil
}

// List returns submissions newest first
func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]*Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, canonical, expr_count, error_kind, error_message, error_line, error_column, created_at
		FROM submissions
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, dbError(err, "failed to list submissions", "store.List")
	}
	defer rows.Close()

	subs := []*Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, dbError(err, "failed to scan submission", "store.List")
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "failed to list submissions", "store.List")
	}
	return subs, nil
}

// Prune deletes submissions created before olderThan
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM submissions WHERE created_at < ?`, olderThan.UnixNano())
	if err != nil {
		return 0, dbError(err, "failed to prune submissions", "store.Prune")
	}
	return result.RowsAffected()
}

// Statistics returns store statistics
func (s *SQLiteStore) Statistics(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN error_kind != '' THEN 1 ELSE 0 END), 0)
		FROM submissions
	`).Scan(&stats.Total, &stats.Failed)
	if err != nil {
		return nil, dbError(err, "failed to compute statistics", "store.Statistics")
	}
	return &stats, nil
}

// Ping verifies the database connection
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return dbError(err, "database ping failed", "store.Ping")
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSubmission(row rowScanner) (*Submission, error) {
	var sub Submission
	var createdAt int64

	err := row.Scan(&sub.ID, &sub.Source, &sub.Canonical, &sub.ExprCount,
		&sub.ErrorKind, &sub.ErrorMessage, &sub.ErrorLine, &sub.ErrorColumn, &createdAt)
	if err != nil {
		return nil, err
	}

	sub.CreatedAt = time.Unix(0, createdAt).UTC()
	return &sub, nil
}

func dbError(err error, message, operation string) *mdwerror.Error {
	return mdwerror.Wrap(err, message).
		WithCode(mdwerror.CodeDatabaseError).
		WithOperation(operation)
}
