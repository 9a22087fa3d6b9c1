package report

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db      *sql.DB
	closed  bool
	writeMu sync.Mutex
}

// NewSQLiteStore opens (creating if needed) a report database at dbPath
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=60000", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS outcomes (
		bucket TEXT NOT NULL,
		key TEXT NOT NULL,
		size INTEGER NOT NULL,
		status TEXT NOT NULL,
		kind TEXT,
		message TEXT,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (bucket, key)
	);

	CREATE INDEX IF NOT EXISTS idx_outcomes_status ON outcomes(status);
	`

	_, err := s.db.Exec(query)
	return err
}

// SaveOutcome upserts one outcome record
func (s *SQLiteStore) SaveOutcome(record *OutcomeRecord) error {
	if s.closed {
		return fmt.Errorf("report store is closed")
	}

	// Serialize writes to avoid SQLITE_BUSY from multiple concurrent workers
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.retryOnBusy(func() error {
		return s.saveOutcome(record)
	})
}

func (s *SQLiteStore) saveOutcome(record *OutcomeRecord) error {
	record.UpdatedAt = time.Now()

	query := `
	INSERT INTO outcomes
	(bucket, key, size, status, kind, message, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(bucket, key) DO UPDATE SET
		size = excluded.size,
		status = excluded.status,
		kind = excluded.kind,
		message = excluded.message,
		updated_at = excluded.updated_at
	`

	_, err := s.db.Exec(query,
		record.Bucket,
		record.Key,
		record.Size,
		record.Status,
		record.Kind,
		record.Message,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save outcome: %w", err)
	}

	return nil
}

func (s *SQLiteStore) retryOnBusy(operation func() error) error {
	const maxRetries = 10
	baseDelay := 50 * time.Millisecond

	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		err = operation()
		if err == nil {
			return nil
		}

		if !isSQLiteBusyError(err) {
			return err
		}

		time.Sleep(baseDelay * time.Duration(1<<uint(attempt)))
	}

	return err
}

func isSQLiteBusyError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "SQLITE_BUSY")
}

// ListFailed returns all failed outcomes ordered by key
func (s *SQLiteStore) ListFailed() ([]*OutcomeRecord, error) {
	query := `
	SELECT bucket, key, size, status, kind, message, updated_at
	FROM outcomes WHERE status = 'failed'
	ORDER BY key ASC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*OutcomeRecord

	for rows.Next() {
		var record OutcomeRecord
		var kind, message sql.NullString

		err := rows.Scan(
			&record.Bucket,
			&record.Key,
			&record.Size,
			&record.Status,
			&kind,
			&message,
			&record.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		record.Kind = kind.String
		record.Message = message.String

		records = append(records, &record)
	}

	return records, rows.Err()
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.closed = true
	return s.db.Close()
}
