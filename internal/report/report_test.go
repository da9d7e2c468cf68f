package report

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/convcheck/internal/harness"
)

func sampleReports() []harness.Report {
	return []harness.Report{
		{
			Case:         "loops/counter",
			Direction:    harness.CSToVB,
			Text:         harness.Verdict{Check: harness.CheckText, Status: harness.StatusPass},
			Completeness: harness.Verdict{Check: harness.CheckCompleteness, Status: harness.StatusPass},
			Order:        harness.Verdict{Check: harness.CheckOrder, Status: harness.StatusSkipped},
		},
		{
			Case:      "loops/foreach",
			Direction: harness.CSToVB,
			Text: harness.Verdict{
				Check:   harness.CheckText,
				Status:  harness.StatusFail,
				Class:   harness.TextMismatch,
				Message: "expected and actual text differ at line 1, column 5",
			},
			Completeness: harness.Verdict{Check: harness.CheckCompleteness, Status: harness.StatusPass},
			Order:        harness.Verdict{Check: harness.CheckOrder, Status: harness.StatusPass},
		},
	}
}

func TestDocument(t *testing.T) {
	doc := Document("loops", sampleReports())

	assert.Equal(t, "loops", doc["suite"])
	assert.Equal(t, 1, doc["passed"])
	assert.Equal(t, 1, doc["failed"])
	assert.Equal(t, 2, doc["total"])

	cases := doc["cases"].([]any)
	require.Len(t, cases, 2)
	first := cases[0].(map[string]any)
	assert.Equal(t, true, first["passed"])
	verdicts := first["verdicts"].([]any)
	require.Len(t, verdicts, 3)
	assert.NotContains(t, verdicts[0].(map[string]any), "class", "empty class is omitted")

	second := cases[1].(map[string]any)
	text := second["verdicts"].([]any)[0].(map[string]any)
	assert.Equal(t, "TEXT_MISMATCH", text["class"])
}

func TestDocumentMarshalsCanonically(t *testing.T) {
	got, err := MarshalCanonical(Document("s", sampleReports()[:1]))
	require.NoError(t, err)

	want := `{"cases":[{"direction":"cs2vb","name":"loops/counter","passed":true,"verdicts":[` +
		`{"check":"text","status":"pass"},{"check":"completeness","status":"pass"},{"check":"order","status":"skipped"}]}],` +
		`"failed":0,"passed":1,"suite":"s","total":1}`
	assert.Equal(t, want, string(got))
}

func TestDigest(t *testing.T) {
	doc := Document("loops", sampleReports())

	d1, err := Digest(doc)
	require.NoError(t, err)
	d2, err := Digest(Document("loops", sampleReports()))
	require.NoError(t, err)
	assert.Equal(t, d1, d2, "digest must be deterministic")
	assert.Len(t, d1, 64)

	other, err := Digest(Document("arrays", sampleReports()))
	require.NoError(t, err)
	assert.NotEqual(t, d1, other)
}

func TestDigestDomainSeparation(t *testing.T) {
	got, err := Digest("x")
	require.NoError(t, err)

	sum := sha256.Sum256([]byte(DomainReport + "\x00" + `"x"`))
	assert.Equal(t, hex.EncodeToString(sum[:]), got)

	plain := sha256.Sum256([]byte(`"x"`))
	assert.NotEqual(t, hex.EncodeToString(plain[:]), got)
}

func TestDigestRejectsFloats(t *testing.T) {
	_, err := Digest(map[string]any{"ratio": 0.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "digest: failed to marshal")
}
