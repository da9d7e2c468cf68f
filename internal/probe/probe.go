// Package probe annotates source lines with recoverable line-number markers.
//
// A probe is a single-line comment appended to an eligible source line:
//
//	x = 1; // SourceLine:4
//
// After conversion the markers are recovered from the output text by
// internal/verify. The scheme is a pure text convention so it works for any
// pair of grammars that both have a single-line comment.
package probe

import (
	"strconv"
	"strings"
)

// DefaultPrefix is the marker text that follows the comment start token.
const DefaultPrefix = " SourceLine:"

// Style describes how a probe is rendered for one source language.
type Style struct {
	// CommentStart is the single-line comment token, e.g. "//" or "'".
	CommentStart string

	// Prefix precedes the line index inside the comment.
	Prefix string
}

// Built-in styles for the two supported source languages.
var (
	CSharpStyle      = Style{CommentStart: "//", Prefix: DefaultPrefix}
	VisualBasicStyle = Style{CommentStart: "'", Prefix: DefaultPrefix}
)

// Marker renders the probe text for a line index.
func (s Style) Marker(index int) string {
	return s.CommentStart + s.Prefix + strconv.Itoa(index)
}

// Predicate decides whether a probe may be appended to a line.
type Predicate func(line string) bool

// AcceptAll accepts every line.
func AcceptAll(string) bool { return true }

// ExcludeDirective rejects lines whose left-trimmed text starts with
// directive. Converters may drop or move directive lines such as "#region".
func ExcludeDirective(directive string) Predicate {
	return func(line string) bool {
		return !strings.HasPrefix(strings.TrimLeft(line, " \t"), directive)
	}
}

// Injection is the result of annotating a source document.
type Injection struct {
	// Lines is the rewritten document, one entry per source line.
	Lines []string

	// Indices lists the annotated line indices in ascending order.
	Indices []int

	// Prefix is the marker prefix actually used. It differs from the
	// requested style's prefix when the source already contains that text.
	Prefix string
}

// Text joins the annotated lines with the canonical "\n" separator.
func (in Injection) Text() string {
	return strings.Join(in.Lines, "\n")
}

// Tokens renders Indices the way they appear inside markers.
func (in Injection) Tokens() []string {
	tokens := make([]string, len(in.Indices))
	for i, idx := range in.Indices {
		tokens[i] = strconv.Itoa(idx)
	}
	return tokens
}

// Inject appends a probe marker to every eligible line of source.
//
// A line is skipped when it already contains style.CommentStart (it carries a
// comment, possibly an earlier probe) or when eligible rejects it. The check
// is textual, so a comment token inside a string literal also skips the line.
// A nil predicate accepts every line. An empty source has zero lines.
//
// When the source already contains style.Prefix, a numbered variant absent
// from the source is used instead and reported in Injection.Prefix.
func Inject(source string, style Style, eligible Predicate) Injection {
	if source == "" {
		return Injection{Lines: []string{}, Indices: []int{}, Prefix: style.Prefix}
	}
	if eligible == nil {
		eligible = AcceptAll
	}

	source = HomogenizeEOL(source)
	style.Prefix = UniquePrefix(source, style.Prefix)

	lines := strings.Split(source, "\n")
	out := Injection{
		Lines:   make([]string, len(lines)),
		Indices: []int{},
		Prefix:  style.Prefix,
	}
	for i, line := range lines {
		if strings.Contains(line, style.CommentStart) || !eligible(line) {
			out.Lines[i] = line
			continue
		}
		out.Lines[i] = line + style.Marker(i)
		out.Indices = append(out.Indices, i)
	}
	return out
}

// UniquePrefix returns prefix if it does not occur in text. Otherwise it
// numbers the prefix, " SourceLine:" becoming " SourceLine1:", " SourceLine2:"
// and so on, until the result does not occur in text.
func UniquePrefix(text, prefix string) string {
	if prefix != "" && !strings.Contains(text, prefix) {
		return prefix
	}
	stem := strings.TrimSuffix(prefix, ":")
	for n := 1; ; n++ {
		candidate := stem + strconv.Itoa(n) + ":"
		if !strings.Contains(text, candidate) {
			return candidate
		}
	}
}

// HomogenizeEOL converts "\r\n" and lone "\r" line endings to "\n".
func HomogenizeEOL(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
