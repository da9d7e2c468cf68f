package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/convcheck/internal/convert"
)

func run(t *testing.T, c convert.Converter, source string) string {
	t.Helper()
	out, err := c.Convert(context.Background(), source, convert.DefaultOptions())
	require.NoError(t, err)
	return out
}

func TestFakeConverters(t *testing.T) {
	tests := []struct {
		name string
		conv convert.Converter
		in   string
		want string
	}{
		{"identity", Identity, "a\nb", "a\nb"},
		{"reverse", Reverse, "a\nb\nc", "c\nb\na"},
		{"reverse crlf", Reverse, "a\r\nb", "b\na"},
		{"drop middle", DropLine(1), "a\nb\nc", "a\nc"},
		{"drop out of range", DropLine(5), "a\nb", "a\nb"},
		{"swap", SwapLines(0), "a\nb\nc", "b\na\nc"},
		{"swap last is noop", SwapLines(2), "a\nb\nc", "a\nb\nc"},
		{"replace", Replace("int", "Integer"), "Dim a As int", "Dim a As Integer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, run(t, tt.conv, tt.in))
		})
	}
}

func TestFailing(t *testing.T) {
	out, err := Failing("partial", "boom").Convert(context.Background(), "x", convert.Options{})
	assert.Equal(t, "partial", out)
	assert.EqualError(t, err, "boom")
}

func TestRecorder(t *testing.T) {
	rec := &Recorder{Next: Identity}
	opts := convert.EmptyNamespaceStrictOff()

	out, err := rec.Convert(context.Background(), "src", opts)

	require.NoError(t, err)
	assert.Equal(t, "src", out)
	assert.Equal(t, []string{"src"}, rec.Sources)
	assert.Equal(t, []convert.Options{opts}, rec.Options)
}
