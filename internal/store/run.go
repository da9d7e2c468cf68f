package store

import (
	"fmt"
	"time"

	"github.com/roach88/convcheck/internal/harness"
	"github.com/roach88/convcheck/internal/report"
)

// Run is one recorded suite run.
type Run struct {
	ID        string       `json:"id"`
	Suite     string       `json:"suite"`
	Digest    string       `json:"digest"`
	Passed    int          `json:"passed"`
	Failed    int          `json:"failed"`
	CreatedAt time.Time    `json:"created_at"`
	Verdicts  []VerdictRow `json:"verdicts,omitempty"`

	// Document is the canonical report JSON the digest was computed from.
	Document string `json:"-"`
}

// VerdictRow is one check outcome within a run.
type VerdictRow struct {
	Case      string `json:"case"`
	Direction string `json:"direction"`
	Check     string `json:"check"`
	Status    string `json:"status"`
	Class     string `json:"class,omitempty"`
	Message   string `json:"message,omitempty"`
}

// NewRun builds a Run from a suite's reports, computing its canonical
// document and digest.
func NewRun(gen IDGenerator, suite string, reports []harness.Report, now time.Time) (Run, error) {
	doc := report.Document(suite, reports)
	canonical, err := report.MarshalCanonical(doc)
	if err != nil {
		return Run{}, fmt.Errorf("new run: %w", err)
	}
	digest, err := report.Digest(doc)
	if err != nil {
		return Run{}, fmt.Errorf("new run: %w", err)
	}

	summary := harness.Summarize(reports)
	run := Run{
		ID:        gen.Generate(),
		Suite:     suite,
		Digest:    digest,
		Passed:    summary.Passed,
		Failed:    summary.Failed,
		CreatedAt: now.UTC(),
		Document:  string(canonical),
	}
	for _, r := range reports {
		for _, v := range r.Verdicts() {
			run.Verdicts = append(run.Verdicts, VerdictRow{
				Case:      r.Case,
				Direction: string(r.Direction),
				Check:     string(v.Check),
				Status:    string(v.Status),
				Class:     string(v.Class),
				Message:   v.Message,
			})
		}
	}
	return run, nil
}
