// Package report renders suite runs as canonical JSON documents and
// computes their content digests.
package report

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/convcheck/internal/harness"
)

// DomainReport prefixes report digests. The version suffix allows the
// document layout to change without colliding with older digests.
const DomainReport = "convcheck/report/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Digest returns the domain-separated SHA-256 of v's canonical JSON.
func Digest(v any) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("digest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainReport, canonical), nil
}

// Document builds the canonical document for one suite's reports. Empty
// class and message fields are omitted since null is not representable.
func Document(suite string, reports []harness.Report) map[string]any {
	summary := harness.Summarize(reports)

	cases := make([]any, len(reports))
	for i, r := range reports {
		verdicts := make([]any, 0, 3)
		for _, v := range r.Verdicts() {
			verdicts = append(verdicts, verdictObject(v))
		}
		cases[i] = map[string]any{
			"name":      r.Case,
			"direction": string(r.Direction),
			"passed":    r.Passed(),
			"verdicts":  verdicts,
		}
	}

	return map[string]any{
		"suite":  suite,
		"cases":  cases,
		"passed": summary.Passed,
		"failed": summary.Failed,
		"total":  summary.Total,
	}
}

func verdictObject(v harness.Verdict) map[string]any {
	obj := map[string]any{
		"check":  string(v.Check),
		"status": string(v.Status),
	}
	if v.Class != "" {
		obj["class"] = string(v.Class)
	}
	if v.Message != "" {
		obj["message"] = v.Message
	}
	return obj
}
