// Package convert adapts an opaque source-to-source converter for the harness.
//
// The harness never branches on converter success: Invoke returns an Outcome
// holding converted text and error text side by side, and Outcome.Text
// flattens the two at the assertion boundary. Some cases assert on the error
// text itself, so a converter failure is an outcome, not a harness error.
package convert

import (
	"context"
	"fmt"
	"time"
)

// Converter turns source text into converted text.
//
// Implementations must be reentrant: the harness invokes the same converter
// concurrently with unrelated sources and expects no state to carry over
// between calls. A converter may return partial output together with an
// error.
type Converter interface {
	Convert(ctx context.Context, source string, opts Options) (string, error)
}

// Func adapts a plain function to the Converter interface.
type Func func(ctx context.Context, source string, opts Options) (string, error)

// Convert calls f.
func (f Func) Convert(ctx context.Context, source string, opts Options) (string, error) {
	return f(ctx, source, opts)
}

// Outcome is the result of one converter invocation.
type Outcome struct {
	// Converted is the converter output, possibly partial.
	Converted string

	// Err describes the failure; empty on success.
	Err string
}

// Failed reports whether the converter reported an error.
func (o Outcome) Failed() bool {
	return o.Err != ""
}

// Text is the converted text followed by any error text.
func (o Outcome) Text() string {
	return o.Converted + o.Err
}

// Invoke runs c on source. A nil opts uses DefaultOptions.
//
// Invoke never fails: converter errors and panics are folded into
// Outcome.Err. There is no retry.
func Invoke(ctx context.Context, c Converter, source string, opts *Options) (out Outcome) {
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}

	defer func() {
		if r := recover(); r != nil {
			out.Err = fmt.Sprintf("converter panicked: %v", r)
		}
	}()

	converted, err := c.Convert(ctx, source, o)
	out.Converted = converted
	if err != nil {
		out.Err = err.Error()
	}
	return out
}

// WithTimeout bounds each call to c by d. A non-positive d returns c.
func WithTimeout(c Converter, d time.Duration) Converter {
	if d <= 0 {
		return c
	}
	return Func(func(ctx context.Context, source string, opts Options) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return c.Convert(ctx, source, opts)
	})
}
