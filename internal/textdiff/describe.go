package textdiff

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sergi/go-diff/diffmatchpatch"
)

const endOfText = "<end of text>"

// FirstDifference returns the 1-based line and column of the first
// difference between two "\n"-separated texts. It returns (0, 0) when the
// texts are equal.
func FirstDifference(expected, actual string) (line, column int) {
	if expected == actual {
		return 0, 0
	}
	want := strings.Split(expected, "\n")
	got := strings.Split(actual, "\n")

	for i := 0; i < len(want) && i < len(got); i++ {
		if want[i] != got[i] {
			return i + 1, firstRuneDifference(want[i], got[i]) + 1
		}
	}
	// One text is a line-prefix of the other.
	return min(len(want), len(got)) + 1, 1
}

func firstRuneDifference(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	i := 0
	for i < len(ra) && i < len(rb) && ra[i] == rb[i] {
		i++
	}
	return i
}

// Describe renders a human-readable account of how actual differs from
// expected: the first diverging line, an inline character diff of it, and a
// unified line diff of the whole text.
func Describe(expected, actual string) string {
	line, col := FirstDifference(expected, actual)
	if line == 0 {
		return "texts are equal"
	}

	wantLine := lineAt(expected, line)
	gotLine := lineAt(actual, line)

	var sb strings.Builder
	fmt.Fprintf(&sb, "first difference at line %d, column %d\n", line, col)
	fmt.Fprintf(&sb, "  expected: %s\n", wantLine)
	fmt.Fprintf(&sb, "  actual:   %s\n", gotLine)
	if wantLine != endOfText && gotLine != endOfText {
		fmt.Fprintf(&sb, "  inline:   %s\n", inlineDiff(wantLine, gotLine))
	}

	unified, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "Expected",
		ToFile:   "Actual",
		Context:  3,
	})
	if err != nil {
		fmt.Fprintf(&sb, "\n(unified diff unavailable: %v)", err)
		return sb.String()
	}
	sb.WriteString("\n")
	sb.WriteString(unified)
	return sb.String()
}

// lineAt returns the 1-based line n of s, or a placeholder past the end.
func lineAt(s string, n int) string {
	lines := strings.Split(s, "\n")
	if n > len(lines) {
		return endOfText
	}
	return lines[n-1]
}

// inlineDiff marks deletions as [-text-] and insertions as {+text+}.
func inlineDiff(expected, actual string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(expected, actual, false))

	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			sb.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			sb.WriteString("{+" + d.Text + "+}")
		default:
			sb.WriteString(d.Text)
		}
	}
	return sb.String()
}
