// Package verify recovers probe markers from converted text and checks that
// every injected marker survived, in the original order.
package verify

import (
	"fmt"
	"strings"
)

// MissingMarkersError reports injected markers absent from the converted text.
// The converter dropped or merged those source lines.
type MissingMarkersError struct {
	Missing []string
}

func (e *MissingMarkersError) Error() string {
	return "comments not converted from source lines: " + strings.Join(e.Missing, ", ")
}

// OrderError reports markers that are present but emitted in a different
// sequence than they were injected.
type OrderError struct {
	Expected string
	Actual   string
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("comments converted out of order\n  Expected: %s\n  Actual:   %s", e.Expected, e.Actual)
}

// Verdict holds both marker checks for one conversion.
type Verdict struct {
	// Observed lists recovered markers in the order they appear.
	Observed []string

	// Missing lists expected markers absent from Observed, in expected order.
	Missing []string

	// Completeness is a *MissingMarkersError, or nil.
	Completeness error

	// Order is an *OrderError, or nil.
	Order error
}

// Passed reports whether both checks passed.
func (v Verdict) Passed() bool {
	return v.Completeness == nil && v.Order == nil
}

// Extract returns the marker tokens found in converted, in physical order.
//
// The text is split on every occurrence of prefix. Each segment after the
// first contributes the text up to its first newline, with trailing
// whitespace trimmed.
func Extract(converted, prefix string) []string {
	if prefix == "" {
		return []string{}
	}
	segments := strings.Split(converted, prefix)
	tokens := make([]string, 0, len(segments)-1)
	for _, seg := range segments[1:] {
		if i := strings.IndexByte(seg, '\n'); i >= 0 {
			seg = seg[:i]
		}
		tokens = append(tokens, strings.TrimRight(seg, " \t\r\v\f"))
	}
	return tokens
}

// Check compares the expected marker sequence against the markers recovered
// from converted. Both checks always run.
func Check(expected []string, converted, prefix string) Verdict {
	observed := Extract(converted, prefix)
	v := Verdict{Observed: observed, Missing: missing(expected, observed)}

	if len(v.Missing) > 0 {
		v.Completeness = &MissingMarkersError{Missing: v.Missing}
	}

	want := strings.Join(expected, ", ")
	got := strings.Join(observed, ", ")
	if want != got {
		v.Order = &OrderError{Expected: want, Actual: got}
	}
	return v
}

// missing returns the distinct elements of expected not present in observed.
func missing(expected, observed []string) []string {
	seen := make(map[string]struct{}, len(observed))
	for _, tok := range observed {
		seen[tok] = struct{}{}
	}
	out := []string{}
	for _, tok := range expected {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
