package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/convcheck/internal/probe"
	"github.com/roach88/convcheck/internal/textdiff"
)

// Direction is a conversion direction.
type Direction string

const (
	CSToVB Direction = "cs2vb"
	VBToCS Direction = "vb2cs"
)

// Directions lists the supported directions.
var Directions = []Direction{CSToVB, VBToCS}

// ParseDirection validates a direction name.
func ParseDirection(s string) (Direction, error) {
	for _, d := range Directions {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown direction %q: must be one of %v", s, Directions)
}

// Profile bundles the per-direction probe and wrapping rules.
type Profile struct {
	Direction Direction

	// Style is the comment style of the source language.
	Style probe.Style

	// Eligible gates probe injection.
	Eligible probe.Predicate

	blockHead string
	blockTail string
}

const blockIndent = "    "

// ProfileFor returns the profile for d.
//
// C# sources skip "#region" lines, which converters may move or drop.
// VB sources accept every line.
func ProfileFor(d Direction) (Profile, error) {
	switch d {
	case CSToVB:
		return Profile{
			Direction: d,
			Style:     probe.CSharpStyle,
			Eligible:  probe.ExcludeDirective("#region"),
			blockHead: "Private Sub SurroundingSub()",
			blockTail: "End Sub",
		}, nil
	case VBToCS:
		return Profile{
			Direction: d,
			Style:     probe.VisualBasicStyle,
			Eligible:  probe.AcceptAll,
			blockHead: "{",
			blockTail: "}",
		}, nil
	default:
		return Profile{}, fmt.Errorf("unknown direction %q", d)
	}
}

// Wrap surrounds expected statements with the direction's enclosing block,
// indenting each line. Trailing whitespace of expected is dropped first.
func (p Profile) Wrap(expected string) string {
	body := strings.ReplaceAll(textdiff.Normalize(expected), "\n", "\n"+blockIndent)
	return p.blockHead + "\n" + blockIndent + body + "\n" + p.blockTail
}

// Unwrap reverses Wrap. It reports false when text is not wrapped.
func (p Profile) Unwrap(text string) (string, bool) {
	text = probe.HomogenizeEOL(text)
	head, tail := p.blockHead+"\n", "\n"+p.blockTail
	if !strings.HasPrefix(text, head) || !strings.HasSuffix(text, tail) || len(text) < len(head)+len(tail) {
		return "", false
	}
	body := text[len(head) : len(text)-len(tail)]
	body = strings.TrimPrefix(body, blockIndent)
	return strings.ReplaceAll(body, "\n"+blockIndent, "\n"), true
}
