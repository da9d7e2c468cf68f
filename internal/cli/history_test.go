package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/convcheck/internal/store"
	"github.com/roach88/convcheck/internal/testutil"
)

func TestHistory_AfterRun(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	writeFile(t, dir, "suites/basics.yaml", passingSuite)
	db := filepath.Join(dir, "runs.db")

	out, _, err := executeCLI(t, append([]string{"run", filepath.Join(dir, "suites"), "--db", db}, identityArgs...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "run ")

	out, _, err = executeCLI(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "RUN")
	assert.Contains(t, out, "basics")

	out, _, err = executeCLI(t, "--format", "json", "history", "--db", db)
	require.NoError(t, err)
	var resp struct {
		Status string      `json:"status"`
		Data   []store.Run `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, 2, resp.Data[0].Passed)

	out, _, err = executeCLI(t, "history", "--db", db, "--run", resp.Data[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ basics/same text")
	assert.Contains(t, out, "Summary: 2 passed, 0 failed")
}

func TestHistory_SuiteFilter(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	writeFile(t, dir, "suites/basics.yaml", passingSuite)
	writeFile(t, dir, "suites/broken.yaml", failingSuite)
	db := filepath.Join(dir, "runs.db")

	_, _, err := executeCLI(t, append([]string{"run", filepath.Join(dir, "suites"), "--db", db}, identityArgs...)...)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	out, _, err := executeCLI(t, "--format", "json", "history", "--db", db, "--suite", "broken")
	require.NoError(t, err)
	var resp struct {
		Data []store.Run `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "broken", resp.Data[0].Suite)
	assert.Equal(t, 1, resp.Data[0].Failed)

	out, _, err = executeCLI(t, "history", "--db", db, "--suite", "absent")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}

func TestHistory_DeterministicIDs(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	writeFile(t, dir, "basics.yaml", passingSuite)
	db := filepath.Join(dir, "runs.db")

	opts := &RunOptions{
		RootOptions:   &RootOptions{Format: "text"},
		Converter:     "sh",
		ConverterArgs: []string{"-c", "cat"},
		Workers:       2,
		DB:            db,
		IDs:           testutil.NewSequentialIDGenerator("run"),
	}
	out := &bytes.Buffer{}
	require.NoError(t, runSuites(context.Background(), opts, []string{dir}, out, out))
	assert.Contains(t, out.String(), "run run-0001")

	s, err := store.Open(db)
	require.NoError(t, err)
	defer s.Close()
	run, err := s.ReadRun(context.Background(), "run-0001")
	require.NoError(t, err)
	assert.Len(t, run.Verdicts, 6)
}

func TestHistory_Empty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	s, err := store.Open(db)
	require.NoError(t, err)
	s.Close()

	out, _, err := executeCLI(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}

func TestHistory_MissingDatabase(t *testing.T) {
	_, _, err := executeCLI(t, "history", "--db", filepath.Join(t.TempDir(), "absent.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "database not found")
}

func TestHistory_UnknownRun(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	s, err := store.Open(db)
	require.NoError(t, err)
	s.Close()

	_, _, err = executeCLI(t, "history", "--db", db, "--run", "absent")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrRunNotFound)
}
