// Package testutil provides deterministic stand-ins for tests: fake
// converters with known line behavior and a predictable ID generator.
package testutil

import (
	"context"
	"errors"
	"strings"

	"github.com/roach88/convcheck/internal/convert"
)

// Identity returns its input unchanged.
var Identity = convert.Func(func(_ context.Context, source string, _ convert.Options) (string, error) {
	return source, nil
})

// Reverse emits the source lines in reverse order.
var Reverse = convert.Func(func(_ context.Context, source string, _ convert.Options) (string, error) {
	lines := splitLines(source)
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return strings.Join(lines, "\n"), nil
})

// DropLine removes the line at index.
func DropLine(index int) convert.Converter {
	return convert.Func(func(_ context.Context, source string, _ convert.Options) (string, error) {
		lines := splitLines(source)
		if index < 0 || index >= len(lines) {
			return source, nil
		}
		out := append([]string{}, lines[:index]...)
		out = append(out, lines[index+1:]...)
		return strings.Join(out, "\n"), nil
	})
}

// SwapLines exchanges the line at index with the one after it.
func SwapLines(index int) convert.Converter {
	return convert.Func(func(_ context.Context, source string, _ convert.Options) (string, error) {
		lines := splitLines(source)
		if index < 0 || index+1 >= len(lines) {
			return source, nil
		}
		lines[index], lines[index+1] = lines[index+1], lines[index]
		return strings.Join(lines, "\n"), nil
	})
}

// Replace substitutes old with new in the source.
func Replace(old, new string) convert.Converter {
	return convert.Func(func(_ context.Context, source string, _ convert.Options) (string, error) {
		return strings.ReplaceAll(source, old, new), nil
	})
}

// Failing returns partial output followed by an error.
func Failing(partial, message string) convert.Converter {
	return convert.Func(func(context.Context, string, convert.Options) (string, error) {
		return partial, errors.New(message)
	})
}

// Recorder wraps a converter and remembers the last options it received.
// It is not safe for concurrent use.
type Recorder struct {
	Next    convert.Converter
	Sources []string
	Options []convert.Options
}

// Convert records the call and delegates to Next.
func (r *Recorder) Convert(ctx context.Context, source string, opts convert.Options) (string, error) {
	r.Sources = append(r.Sources, source)
	r.Options = append(r.Options, opts)
	return r.Next.Convert(ctx, source, opts)
}

func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
