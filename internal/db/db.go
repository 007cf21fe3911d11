package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB keeps a log of failed search requests so connectivity problems can be
// looked at after the fact. Queries themselves are never stored.
type DB struct {
	conn *sql.DB
	now  func() time.Time
}

type Failure struct {
	ID         int64
	RequestID  string
	Endpoint   string
	Cause      string
	OccurredAt time.Time
}

func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn, now: time.Now}
	if err := db.init(); err != nil {
		conn.Close() //nolint:errcheck
		return nil, err
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) init() error {
	schema := `
		CREATE TABLE IF NOT EXISTS transport_failures (
			id INTEGER PRIMARY KEY,
			request_id TEXT NOT NULL,
			endpoint TEXT NOT NULL,
			cause TEXT NOT NULL,
			occurred_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_transport_failures_occurred_at ON transport_failures(occurred_at);
	`

	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// RecordFailure stores one transport failure. It satisfies search.Recorder.
func (db *DB) RecordFailure(ctx context.Context, requestID, endpoint string, cause error) error {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}

	_, err := db.InsertFailure(ctx, Failure{
		RequestID:  requestID,
		Endpoint:   endpoint,
		Cause:      msg,
		OccurredAt: db.now(),
	})
	return err
}

func (db *DB) InsertFailure(ctx context.Context, f Failure) (int64, error) {
	result, err := db.conn.ExecContext(ctx, `
		INSERT INTO transport_failures (request_id, endpoint, cause, occurred_at)
		VALUES (?, ?, ?, ?)
	`, f.RequestID, f.Endpoint, f.Cause, f.OccurredAt.UnixMilli())
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// RecentFailures returns up to limit failures, newest first.
func (db *DB) RecentFailures(limit int) ([]Failure, error) {
	rows, err := db.conn.Query(`
		SELECT id, request_id, endpoint, cause, occurred_at
		FROM transport_failures
		ORDER BY occurred_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var failures []Failure
	for rows.Next() {
		var f Failure
		var occurredAt int64
		if err := rows.Scan(&f.ID, &f.RequestID, &f.Endpoint, &f.Cause, &occurredAt); err != nil {
			return nil, err
		}
		f.OccurredAt = time.UnixMilli(occurredAt)
		failures = append(failures, f)
	}

	return failures, rows.Err()
}

func (db *DB) FailureCount() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM transport_failures").Scan(&count)
	return count, err
}

// PruneFailures deletes failures older than before and returns how many
// were removed.
func (db *DB) PruneFailures(before time.Time) (int64, error) {
	result, err := db.conn.Exec("DELETE FROM transport_failures WHERE occurred_at < ?", before.UnixMilli())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
