package fixture

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_RewriteCreatesAndOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures", "case.vb")

	require.NoError(t, File{Path: path}.Rewrite("", "Dim a"))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Dim a\n", got)

	require.NoError(t, File{Path: path}.Rewrite("Dim a", "Dim b"))
	got, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Dim b\n", got)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.cs"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReplace_SubstitutesFirstOccurrence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.yaml")
	content := "expected: |\n  Dim a\nother: Dim a\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	require.NoError(t, Replace{Path: path}.Rewrite("Dim a", "Dim b"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "expected: |\n  Dim b\nother: Dim a\n", string(data))
}

func TestReplace_ExpectedNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nothing"), 0644))

	err := Replace{Path: path}.Rewrite("Dim a", "Dim b")
	assert.True(t, errors.Is(err, ErrExpectedNotFound))

	err = Replace{Path: path}.Rewrite("", "Dim b")
	assert.True(t, errors.Is(err, ErrExpectedNotFound))
}

func TestGolden_RewriteWritesGoldenFile(t *testing.T) {
	dir := t.TempDir()
	g := Golden{T: t, Dir: dir, Name: "array_literal"}

	require.NoError(t, g.Rewrite("", "Dim a = {1, 2}"))

	assert.Equal(t, filepath.Join(dir, "array_literal.golden"), g.Path())
	got, err := Load(g.Path())
	require.NoError(t, err)
	assert.Equal(t, "Dim a = {1, 2}\n", got)
}

func TestDiscard(t *testing.T) {
	assert.NoError(t, Discard{}.Rewrite("a", "b"))
}
