package harness

import (
	"github.com/roach88/convcheck/internal/convert"
	"github.com/roach88/convcheck/internal/textdiff"
)

// FailureClass is a stable category for a failed check.
type FailureClass string

const (
	// MissingMarker: injected probes absent from the converted output.
	MissingMarker FailureClass = "MISSING_MARKER"
	// OrderMismatch: probes present but emitted in a different sequence.
	OrderMismatch FailureClass = "ORDER_MISMATCH"
	// TextMismatch: converted text differs from the expected text.
	TextMismatch FailureClass = "TEXT_MISMATCH"
	// Misconfiguration: recharacterization left enabled.
	Misconfiguration FailureClass = "MISCONFIGURATION"
	// ConverterUnavailable: no converter registered for the case direction.
	ConverterUnavailable FailureClass = "CONVERTER_UNAVAILABLE"
)

// CheckName identifies one of the per-case checks.
type CheckName string

const (
	CheckText         CheckName = "text"
	CheckCompleteness CheckName = "completeness"
	CheckOrder        CheckName = "order"
)

// Status is the outcome of a single check.
type Status string

const (
	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
	StatusSkipped Status = "skipped"
)

// Verdict is the outcome of one check, with enough detail to reproduce a
// failure without rerunning the conversion.
type Verdict struct {
	Check   CheckName    `json:"check"`
	Status  Status       `json:"status"`
	Class   FailureClass `json:"class,omitempty"`
	Message string       `json:"message,omitempty"`
}

// Failed reports whether the check ran and failed.
func (v Verdict) Failed() bool {
	return v.Status == StatusFail
}

func pass(check CheckName) Verdict {
	return Verdict{Check: check, Status: StatusPass}
}

func skipped(check CheckName) Verdict {
	return Verdict{Check: check, Status: StatusSkipped}
}

func fail(check CheckName, class FailureClass, message string) Verdict {
	return Verdict{Check: check, Status: StatusFail, Class: class, Message: message}
}

// Case is one conversion to verify.
type Case struct {
	// Name identifies the case in reports.
	Name string

	// Direction selects the converter and the probe style.
	Direction Direction

	// Source is the input handed to the converter.
	Source string

	// Expected is the known-correct converted text.
	Expected string

	// Options overrides the checker's default converter options.
	Options *convert.Options

	// ExpectSurroundingBlock wraps Expected in the direction's surrounding
	// block (a method for C# to VB, braces for VB to C#) before comparing.
	ExpectSurroundingBlock bool

	// SkipOrderCheck disables the probe checks for a case with a known
	// comment conversion issue.
	SkipOrderCheck bool

	// Rewriter receives actual output when recharacterizing. nil discards.
	Rewriter textdiff.Rewriter
}

// Report holds the independent verdicts for one case.
type Report struct {
	Case         string    `json:"case"`
	Direction    Direction `json:"direction"`
	Text         Verdict   `json:"text"`
	Completeness Verdict   `json:"completeness"`
	Order        Verdict   `json:"order"`
}

// Verdicts returns the three verdicts in reporting order.
func (r Report) Verdicts() []Verdict {
	return []Verdict{r.Text, r.Completeness, r.Order}
}

// Passed reports whether no check failed.
func (r Report) Passed() bool {
	for _, v := range r.Verdicts() {
		if v.Failed() {
			return false
		}
	}
	return true
}
