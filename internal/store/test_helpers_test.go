package store

import (
	"path/filepath"
	"testing"
)

// createTestStore opens a fresh store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	return createStoreAt(t, filepath.Join(t.TempDir(), "test.db"))
}

// createStoreAt opens the store at path and closes it when the test ends.
func createStoreAt(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
