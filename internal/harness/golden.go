package harness

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/roach88/convcheck/internal/fixture"
)

// GoldenCase builds a case whose expected text lives in a goldie fixture,
// testdata/golden/{name}.golden relative to the test package. Recharacterizing
// writes actual output back to the same file.
//
// A missing golden file leaves Expected empty so the text check fails and,
// with recharacterization on, creates the file.
func GoldenCase(t *testing.T, name string, direction Direction, source string) Case {
	t.Helper()

	g := fixture.Golden{T: t, Name: name}
	expected, err := fixture.Load(g.Path())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("load golden %s: %v", name, err)
	}

	return Case{
		Name:      name,
		Direction: direction,
		Source:    source,
		Expected:  expected,
		Rewriter:  g,
	}
}

// CheckT runs a case and marks t failed for every failed verdict.
//
// Usage from a converter's test package:
//
//	checker := harness.New(map[harness.Direction]convert.Converter{harness.CSToVB: conv})
//	harness.CheckT(t, checker, harness.GoldenCase(t, "array_literal", harness.CSToVB, src))
func CheckT(t testing.TB, c *Checker, tc Case) Report {
	t.Helper()

	report := c.Check(context.Background(), tc)
	for _, v := range report.Verdicts() {
		if v.Failed() {
			t.Errorf("%s check failed for %s [%s]:\n%s", v.Check, tc.Name, v.Class, v.Message)
		}
	}
	return report
}
