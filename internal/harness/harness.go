package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/convcheck/internal/convert"
	"github.com/roach88/convcheck/internal/fixture"
	"github.com/roach88/convcheck/internal/probe"
	"github.com/roach88/convcheck/internal/textdiff"
	"github.com/roach88/convcheck/internal/verify"
)

// Checker verifies cases against registered converters.
//
// A Checker holds no per-case state and is safe for concurrent use when the
// registered converters are reentrant.
type Checker struct {
	converters     map[Direction]convert.Converter
	logger         *slog.Logger
	recharacterize bool
	rootNamespace  *string
	orderChecks    map[Direction]bool
}

// Option configures a Checker.
type Option func(*Checker)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) { c.logger = l }
}

// WithRecharacterize rewrites fixtures with actual output. Every text check
// fails while this is enabled.
func WithRecharacterize(on bool) Option {
	return func(c *Checker) { c.recharacterize = on }
}

// WithRootNamespace sets the root namespace used when a case has no options
// of its own.
func WithRootNamespace(ns string) Option {
	return func(c *Checker) { c.rootNamespace = &ns }
}

// WithOrderChecks enables or disables the probe checks for one direction.
// They are enabled for every direction by default.
func WithOrderChecks(d Direction, on bool) Option {
	return func(c *Checker) { c.orderChecks[d] = on }
}

// New creates a Checker with one converter per direction.
func New(converters map[Direction]convert.Converter, opts ...Option) *Checker {
	c := &Checker{
		converters:  make(map[Direction]convert.Converter, len(converters)),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		orderChecks: make(map[Direction]bool),
	}
	for d, conv := range converters {
		c.converters[d] = conv
	}
	for _, d := range Directions {
		c.orderChecks[d] = true
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check runs the text check and the probe checks for one case.
//
// The text check converts the plain source. The probe checks convert a
// separately annotated copy, so a probe the converter mishandles never
// affects the text verdict.
func (c *Checker) Check(ctx context.Context, tc Case) Report {
	report := Report{Case: tc.Name, Direction: tc.Direction}

	conv, ok := c.converters[tc.Direction]
	profile, err := ProfileFor(tc.Direction)
	if !ok || err != nil {
		msg := fmt.Sprintf("no converter registered for direction %q", tc.Direction)
		report.Text = fail(CheckText, ConverterUnavailable, msg)
		report.Completeness = fail(CheckCompleteness, ConverterUnavailable, msg)
		report.Order = fail(CheckOrder, ConverterUnavailable, msg)
		c.log(ctx, report)
		return report
	}

	opts := c.options(tc)
	report.Text = c.checkText(ctx, conv, profile, tc, opts)

	if tc.SkipOrderCheck || !c.orderChecks[tc.Direction] {
		report.Completeness = skipped(CheckCompleteness)
		report.Order = skipped(CheckOrder)
	} else {
		report.Completeness, report.Order = c.checkProbes(ctx, conv, profile, tc, opts)
	}

	c.log(ctx, report)
	return report
}

// options resolves the converter options for a case.
func (c *Checker) options(tc Case) *convert.Options {
	if tc.Options != nil {
		opts := *tc.Options
		return &opts
	}
	opts := convert.DefaultOptions()
	if c.rootNamespace != nil {
		opts = opts.WithRootNamespace(*c.rootNamespace)
	}
	return &opts
}

func (c *Checker) checkText(ctx context.Context, conv convert.Converter, profile Profile, tc Case, opts *convert.Options) Verdict {
	expected := tc.Expected
	var rewriter textdiff.Rewriter = fixture.Discard{}
	if tc.Rewriter != nil {
		rewriter = tc.Rewriter
	}
	if tc.ExpectSurroundingBlock {
		expected = profile.Wrap(expected)
		rewriter = &unwrapRewriter{profile: profile, expected: tc.Expected, next: rewriter}
	}

	out := convert.Invoke(ctx, conv, tc.Source, opts)
	if out.Failed() {
		c.logger.Debug("converter reported error", "case", tc.Name, "error", out.Err)
	}

	asserter := &textdiff.Asserter{Recharacterize: c.recharacterize, Rewriter: rewriter}
	err := asserter.Assert(expected, out.Text(), tc.Source)
	if err == nil {
		return pass(CheckText)
	}

	var misconfig *textdiff.MisconfigurationError
	if errors.As(err, &misconfig) {
		return fail(CheckText, Misconfiguration, err.Error())
	}
	return fail(CheckText, TextMismatch, err.Error())
}

func (c *Checker) checkProbes(ctx context.Context, conv convert.Converter, profile Profile, tc Case, opts *convert.Options) (completeness, order Verdict) {
	injected := probe.Inject(tc.Source, profile.Style, profile.Eligible)
	annotated := injected.Text()

	out := convert.Invoke(ctx, conv, annotated, opts)
	converted := out.Text()
	v := verify.Check(injected.Tokens(), converted, injected.Prefix)

	c.logger.Debug("probe markers",
		"case", tc.Name,
		"injected", len(injected.Indices),
		"observed", len(v.Observed),
	)

	diag := sourceAndConverted(annotated, converted)
	completeness = pass(CheckCompleteness)
	if v.Completeness != nil {
		completeness = fail(CheckCompleteness, MissingMarker, v.Completeness.Error()+diag)
	}
	order = pass(CheckOrder)
	if v.Order != nil {
		order = fail(CheckOrder, OrderMismatch, v.Order.Error()+diag)
	}
	return completeness, order
}

func sourceAndConverted(source, converted string) string {
	var sb strings.Builder
	sb.WriteString(textdiff.LineSplitter)
	sb.WriteString("converted:\n")
	sb.WriteString(converted)
	sb.WriteString(textdiff.LineSplitter)
	sb.WriteString("source:\n")
	sb.WriteString(source)
	return sb.String()
}

func (c *Checker) log(ctx context.Context, r Report) {
	level := slog.LevelInfo
	if !r.Passed() {
		level = slog.LevelWarn
	}
	c.logger.Log(ctx, level, "case checked",
		"case", r.Case,
		"direction", r.Direction,
		"text", r.Text.Status,
		"completeness", r.Completeness.Status,
		"order", r.Order.Status,
	)
}

// unwrapRewriter strips the surrounding block from actual output before
// handing it to the fixture, which stores the unwrapped statements.
type unwrapRewriter struct {
	profile  Profile
	expected string
	next     textdiff.Rewriter
}

func (u *unwrapRewriter) Rewrite(_, actual string) error {
	body, ok := u.profile.Unwrap(actual)
	if !ok {
		return fmt.Errorf("actual output is not wrapped in %q", u.profile.blockHead)
	}
	return u.next.Rewrite(textdiff.Normalize(u.expected), body)
}
