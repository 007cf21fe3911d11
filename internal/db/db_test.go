package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setupTestDB(t *testing.T) (*DB, func()) {
	tmpDir, err := os.MkdirTemp("", "pfind-db-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := Open(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to open database: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return db, cleanup
}

func TestDatabaseOpen(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if db == nil {
		t.Fatal("expected non-nil database")
	}

	count, err := db.FailureCount()
	if err != nil {
		t.Fatalf("failed to count failures: %v", err)
	}

	if count != 0 {
		t.Errorf("expected empty log, got %d", count)
	}
}

func TestRecordFailure(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	fixed := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	db.now = func() time.Time { return fixed }

	err := db.RecordFailure(context.Background(), "req-1", "http://localhost:5000/search", errors.New("connection refused"))
	if err != nil {
		t.Fatalf("failed to record failure: %v", err)
	}

	failures, err := db.RecentFailures(10)
	if err != nil {
		t.Fatalf("failed to list failures: %v", err)
	}

	if len(failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(failures))
	}

	f := failures[0]
	if f.RequestID != "req-1" {
		t.Errorf("expected request id 'req-1', got '%s'", f.RequestID)
	}

	if f.Cause != "connection refused" {
		t.Errorf("expected cause 'connection refused', got '%s'", f.Cause)
	}

	if !f.OccurredAt.Equal(fixed) {
		t.Errorf("expected occurred_at %v, got %v", fixed, f.OccurredAt)
	}
}

func TestRecordFailure_NilCause(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if err := db.RecordFailure(context.Background(), "req-1", "http://x", nil); err != nil {
		t.Fatalf("failed to record failure: %v", err)
	}

	failures, _ := db.RecentFailures(1)
	if len(failures) != 1 || failures[0].Cause != "unknown error" {
		t.Errorf("expected placeholder cause, got %+v", failures)
	}
}

func TestRecentFailuresOrderAndLimit(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_, err := db.InsertFailure(ctx, Failure{
			RequestID:  string(rune('a' + i)),
			Endpoint:   "http://x",
			Cause:      "timeout",
			OccurredAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("failed to insert failure: %v", err)
		}
	}

	failures, err := db.RecentFailures(3)
	if err != nil {
		t.Fatalf("failed to list failures: %v", err)
	}

	if len(failures) != 3 {
		t.Fatalf("expected 3 failures, got %d", len(failures))
	}

	if failures[0].RequestID != "e" || failures[2].RequestID != "c" {
		t.Errorf("expected newest first, got %s..%s", failures[0].RequestID, failures[2].RequestID)
	}
}

func TestPruneFailures(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	db.InsertFailure(ctx, Failure{RequestID: "old", Endpoint: "http://x", Cause: "x", OccurredAt: old})
	db.InsertFailure(ctx, Failure{RequestID: "new", Endpoint: "http://x", Cause: "x", OccurredAt: recent})

	removed, err := db.PruneFailures(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("failed to prune: %v", err)
	}

	if removed != 1 {
		t.Errorf("expected 1 pruned failure, got %d", removed)
	}

	count, _ := db.FailureCount()
	if count != 1 {
		t.Errorf("expected 1 remaining failure, got %d", count)
	}
}
