package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"testing"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_OpensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open() failed: %v", err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer s2.Close()

	var count int
	if err := s2.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count); err != nil {
		t.Errorf("query failed: %v", err)
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/test.db")
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
}

// Pragma tests

func TestPragmas(t *testing.T) {
	s := createTestStore(t)

	tests := []struct {
		name string
		want string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"}, // NORMAL
		{"busy_timeout", "5000"},
		{"foreign_keys", "1"},
	}
	for _, tt := range tests {
		if got := queryPragma(t, s.db, tt.name); got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.name, got, tt.want)
		}
	}
}

// Schema tests

func TestSchema_Tables(t *testing.T) {
	s := createTestStore(t)

	runs := getTableColumns(t, s.db, "runs")
	for _, col := range []string{"seq", "id", "suite", "digest", "document", "passed", "failed", "created_at"} {
		if !slices.Contains(runs, col) {
			t.Errorf("runs table missing column %q, got %v", col, runs)
		}
	}

	verdicts := getTableColumns(t, s.db, "verdicts")
	for _, col := range []string{"run_id", "ordinal", "case_name", "direction", "check_name", "status", "class", "message"} {
		if !slices.Contains(verdicts, col) {
			t.Errorf("verdicts table missing column %q, got %v", col, verdicts)
		}
	}
}

func TestConstraint_VerdictRequiresRun(t *testing.T) {
	s := createTestStore(t)

	_, err := s.db.Exec(`
		INSERT INTO verdicts (run_id, ordinal, case_name, direction, check_name, status)
		VALUES ('missing', 0, 'c', 'cs2vb', 'text', 'pass')
	`)
	if err == nil {
		t.Error("expected foreign key violation, got nil")
	}
}

func TestSchema_SuiteIndex(t *testing.T) {
	s := createTestStore(t)

	indexes := getTableIndexes(t, s.db, "runs")
	if !slices.Contains(indexes, "idx_runs_suite") {
		t.Errorf("expected idx_runs_suite, got indexes: %v", indexes)
	}
}

// Schema version tests

func TestSchemaVersion_StampedOnCreate(t *testing.T) {
	s := createTestStore(t)

	if got := queryPragma(t, s.db, "user_version"); got != strconv.Itoa(schemaVersion) {
		t.Errorf("user_version = %s, want %d", got, schemaVersion)
	}
}

func TestSchemaVersion_RejectsNewerDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion+1)); err != nil {
		t.Fatalf("failed to set user_version: %v", err)
	}
	db.Close()

	_, err = Open(path)
	if !errors.Is(err, ErrSchemaTooNew) {
		t.Fatalf("Open() error = %v, want ErrSchemaTooNew", err)
	}
}

func TestSchemaVersion_ReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		if _, err := s.db.Exec(`
			INSERT INTO runs (id, suite, digest, document, passed, failed, created_at)
			VALUES (?, 's', 'd', '{}', 0, 0, '2026-01-01T00:00:00Z')
		`, fmt.Sprintf("run-%d", i)); err != nil {
			t.Fatalf("insert iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s := createStoreAt(t, path)
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count); err != nil {
		t.Fatalf("count runs: %v", err)
	}
	if count != 3 {
		t.Errorf("runs = %d, want 3", count)
	}
}

// Helper functions

func queryPragma(t *testing.T, db *sql.DB, name string) string {
	t.Helper()

	var value string
	if err := db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		t.Fatalf("failed to query PRAGMA %s: %v", name, err)
	}
	return value
}

func getTableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()

	rows, err := db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		t.Fatalf("failed to get table info for %q: %v", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			t.Fatalf("failed to scan column info: %v", err)
		}
		columns = append(columns, name)
	}
	return columns
}

func getTableIndexes(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()

	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='index' AND tbl_name=?", table)
	if err != nil {
		t.Fatalf("failed to get indexes for %q: %v", table, err)
	}
	defer rows.Close()

	var indexes []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan index name: %v", err)
		}
		indexes = append(indexes, name)
	}
	return indexes
}
