package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/todo-client/internal/model"
)

// SQLiteStore implements Ledger using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

var _ Ledger = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// A single connection keeps ":memory:" databases shared and serializes
	// writers from concurrent commands.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SchemaVersion returns the highest applied migration.
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.GetContext(ctx, &v, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// === Delivered notifications ===

// IsDelivered reports whether the notification was already raised.
func (s *SQLiteStore) IsDelivered(ctx context.Context, notificationID int64) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM delivered_notifications WHERE notification_id = ?",
		notificationID,
	)
	if err != nil {
		return false, fmt.Errorf("checking notification %d: %w", notificationID, err)
	}
	return n > 0, nil
}

// MarkDelivered records a raised notification. Recording it twice is a no-op.
func (s *SQLiteStore) MarkDelivered(ctx context.Context, notificationID, userID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO delivered_notifications (notification_id, user_id, delivered_at)
		VALUES (?, ?, ?)`,
		notificationID, userID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording notification %d: %w", notificationID, err)
	}
	return nil
}

// === Print jobs ===

// CreatePrintJob records a print job. An empty ID is replaced with a new
// UUID and a zero CreatedAt with the current time.
func (s *SQLiteStore) CreatePrintJob(ctx context.Context, job model.PrintJob) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO print_jobs (id, path, summary, todo_count, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		job.ID, job.Path, job.Summary, job.TodoCount, job.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating print job: %w", err)
	}
	return nil
}

// GetPrintJobs returns the most recent print jobs, newest first. A
// non-positive limit returns all of them.
func (s *SQLiteStore) GetPrintJobs(ctx context.Context, limit int) ([]model.PrintJob, error) {
	query := "SELECT id, path, summary, todo_count, created_at FROM print_jobs ORDER BY created_at DESC"
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var jobs []model.PrintJob
	if err := s.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, fmt.Errorf("querying print jobs: %w", err)
	}
	return jobs, nil
}
