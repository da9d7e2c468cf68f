// Package fixture loads expected-output fixtures and rewrites them when a
// run is recharacterizing.
//
// Rewrites are unsynchronized and last-writer-wins. Two cases that share a
// fixture path must not recharacterize concurrently.
package fixture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Load reads a fixture file.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read fixture: %w", err)
	}
	return string(data), nil
}

// File overwrites a whole fixture file with actual output.
type File struct {
	Path string
}

// Rewrite writes actual to the fixture, followed by a newline.
func (f File) Rewrite(_, actual string) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0755); err != nil {
		return fmt.Errorf("create fixture directory: %w", err)
	}
	if err := os.WriteFile(f.Path, []byte(actual+"\n"), 0644); err != nil {
		return fmt.Errorf("write fixture: %w", err)
	}
	return nil
}

// ErrExpectedNotFound is returned by Replace when the expected text does not
// occur verbatim in the target file.
var ErrExpectedNotFound = errors.New("expected text not found in file")

// Replace substitutes the first verbatim occurrence of the expected text in
// a file. It serves suites that keep expected output inline.
type Replace struct {
	Path string
}

// Rewrite replaces expected with actual inside the file.
func (r Replace) Rewrite(expected, actual string) error {
	data, err := os.ReadFile(r.Path)
	if err != nil {
		return fmt.Errorf("read %s: %w", r.Path, err)
	}
	content := string(data)
	if expected == "" || !strings.Contains(content, expected) {
		return fmt.Errorf("%s: %w", r.Path, ErrExpectedNotFound)
	}
	content = strings.Replace(content, expected, actual, 1)
	if err := os.WriteFile(r.Path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write %s: %w", r.Path, err)
	}
	return nil
}

// Golden writes fixtures through goldie, stored as <Dir>/<Name>.golden.
// It is meant for package tests that keep expected output as golden files.
type Golden struct {
	T    *testing.T
	Dir  string
	Name string
}

func (g Golden) goldie() *goldie.Goldie {
	dir := g.Dir
	if dir == "" {
		dir = "testdata/golden"
	}
	return goldie.New(g.T,
		goldie.WithFixtureDir(dir),
		goldie.WithNameSuffix(".golden"),
	)
}

// Path returns the golden file location.
func (g Golden) Path() string {
	return g.goldie().GoldenFileName(g.T, g.Name)
}

// Rewrite stores actual as the golden file.
func (g Golden) Rewrite(_, actual string) error {
	return g.goldie().Update(g.T, g.Name, []byte(actual+"\n"))
}

// Discard drops rewrites. Used when a case has no writable fixture.
type Discard struct{}

// Rewrite does nothing.
func (Discard) Rewrite(string, string) error { return nil }
