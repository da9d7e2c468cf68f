// Package textdiff asserts exact text equality between expected and actual
// converter output and renders diagnostics when they differ.
//
// Comparison ignores only the line-ending representation and trailing
// whitespace at the end of the whole text. Everything else, including
// indentation and blank lines, must match.
package textdiff

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/roach88/convcheck/internal/probe"
)

// LineSplitter separates sections of a failure message.
const LineSplitter = "\n----------------------------------------\n"

// MismatchError reports that expected and actual text differ.
type MismatchError struct {
	Expected string
	Actual   string

	// Line and Column locate the first difference, 1-based.
	Line   int
	Column int

	// Context is the diagnostic built on failure.
	Context string
}

func (e *MismatchError) Error() string {
	header := fmt.Sprintf("expected and actual text differ at line %d, column %d", e.Line, e.Column)
	if e.Context == "" {
		return header
	}
	return header + "\n" + e.Context
}

// MisconfigurationError is returned whenever recharacterization is enabled.
// A run that rewrites fixtures must never report success.
type MisconfigurationError struct{}

func (e *MisconfigurationError) Error() string {
	return "test setup issue: recharacterize is enabled; disable it after regenerating fixtures"
}

// Normalize canonicalizes line endings and trims trailing whitespace.
func Normalize(s string) string {
	return strings.TrimRightFunc(probe.HomogenizeEOL(s), unicode.IsSpace)
}

// Equal compares expected and actual after Normalize. On mismatch it calls
// context (when non-nil) to build the diagnostic; context is never called on
// success.
func Equal(expected, actual string, context func() string) error {
	want, got := Normalize(expected), Normalize(actual)
	if want == got {
		return nil
	}

	line, col := FirstDifference(want, got)
	err := &MismatchError{Expected: want, Actual: got, Line: line, Column: col}
	if context != nil {
		err.Context = context()
	}
	return err
}

// Rewriter persists actual output over an expected fixture.
type Rewriter interface {
	Rewrite(expected, actual string) error
}

// Asserter is the equality assertion used by the harness.
type Asserter struct {
	// Recharacterize rewrites fixtures with actual output on mismatch.
	// It is an authoring aid: Assert always fails while it is set.
	Recharacterize bool

	// Rewriter receives mismatches when Recharacterize is set.
	Rewriter Rewriter
}

// Assert compares expected and actual. The failure message contains a diff
// of the two texts followed by the original source.
func (a *Asserter) Assert(expected, actual, source string) error {
	want, got := Normalize(expected), Normalize(actual)
	err := Equal(want, got, func() string {
		var sb strings.Builder
		sb.WriteString(Describe(want, got))
		sb.WriteString(LineSplitter)
		sb.WriteString("source:\n")
		sb.WriteString(source)
		if a.Recharacterize && a.Rewriter != nil {
			if rerr := a.Rewriter.Rewrite(want, got); rerr != nil {
				fmt.Fprintf(&sb, "%srecharacterize failed: %v", LineSplitter, rerr)
			}
		}
		return sb.String()
	})

	if a.Recharacterize {
		return errors.Join(err, &MisconfigurationError{})
	}
	return err
}
