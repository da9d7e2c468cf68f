package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/convcheck/internal/convert"
	"github.com/roach88/convcheck/internal/harness"
	"github.com/roach88/convcheck/internal/report"
	"github.com/roach88/convcheck/internal/store"
	"github.com/roach88/convcheck/internal/suite"
)

// EnvRecharacterize enables recharacterization when set to "1" or "true".
const EnvRecharacterize = "CONVCHECK_RECHARACTERIZE"

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Converter      string        // converter executable
	ConverterArgs  []string      // extra converter arguments
	Workers        int           // concurrent cases
	Timeout        time.Duration // per-conversion timeout, 0 for none
	Filter         string        // suite file glob
	DB             string        // run history database, optional
	Recharacterize bool          // rewrite fixtures from actual output

	// IDs generates run IDs. Nil uses store.UUIDv7Generator.
	IDs store.IDGenerator
	// Now returns the run timestamp. Nil uses time.Now.
	Now func() time.Time
}

// SuiteResult is the outcome of one suite file.
type SuiteResult struct {
	Name    string           `json:"name"`
	File    string           `json:"file"`
	RunID   string           `json:"run_id,omitempty"`
	Digest  string           `json:"digest"`
	Reports []harness.Report `json:"reports"`
	harness.Summary
}

// RunResult is the outcome of a run command.
type RunResult struct {
	Suites []SuiteResult `json:"suites"`
	Passed int           `json:"passed"`
	Failed int           `json:"failed"`
	Total  int           `json:"total"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <suite>...",
		Short: "Run conversion suites against a converter",
		Long: `Run suite files (YAML or CUE) against an external converter.

The converter reads source text on stdin and writes converted text to
stdout. The direction (cs2vb or vb2cs) is passed in CONVCHECK_DIRECTION and
the converter options as JSON in CONVCHECK_OPTIONS. A non-zero exit marks
the conversion as failed; stderr carries the error text.

Directories are searched for .yaml, .yml and .cue suite files.

Exit codes:
  0 - All cases passed
  1 - One or more cases failed
  2 - Command error (missing suite, invalid suite, database error)

Examples:
  convcheck run ./suites --converter ./bin/convert
  convcheck run ./suites --converter dotnet --arg run --arg --project --arg ./Converter
  convcheck run ./suites --converter ./bin/convert --filter "loops*" --db runs.db
  CONVCHECK_RECHARACTERIZE=1 convcheck run ./suites --converter ./bin/convert`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuites(cmd.Context(), opts, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.Converter, "converter", "", "converter executable (required)")
	cmd.Flags().StringArrayVar(&opts.ConverterArgs, "arg", nil, "argument passed to the converter (repeatable)")
	cmd.Flags().IntVar(&opts.Workers, "workers", runtime.GOMAXPROCS(0), "cases checked concurrently")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "timeout per conversion (0 for none)")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only run suite files matching this glob")
	cmd.Flags().StringVar(&opts.DB, "db", "", "record runs in this SQLite database")
	cmd.Flags().BoolVar(&opts.Recharacterize, "recharacterize", envEnabled(EnvRecharacterize),
		"rewrite expected fixtures from actual output (also "+EnvRecharacterize+"=1)")
	_ = cmd.MarkFlagRequired("converter")

	return cmd
}

func envEnabled(name string) bool {
	switch strings.ToLower(os.Getenv(name)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func runSuites(ctx context.Context, opts *RunOptions, paths []string, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts.RootOptions, out, errOut)

	var files []string
	for _, p := range paths {
		found, err := suite.Find(p, opts.Filter)
		if err != nil {
			return f.Error(ExitCommandError, ErrCodeSuiteNotFound, fmt.Sprintf("suite path not found: %s", p), err)
		}
		files = append(files, found...)
	}

	// Load everything before running anything so a bad suite fails fast.
	suites := make([]*suite.Suite, 0, len(files))
	cases := make([][]harness.Case, 0, len(files))
	for _, file := range files {
		s, err := suite.Load(file)
		if err != nil {
			return f.Error(ExitCommandError, ErrCodeSuiteInvalid, "failed to load suite", err)
		}
		resolved, err := s.Resolve()
		if err != nil {
			return f.Error(ExitCommandError, ErrCodeSuiteInvalid, fmt.Sprintf("failed to resolve suite %s", s.Name), err)
		}
		suites = append(suites, s)
		cases = append(cases, resolved)
	}

	var db *store.Store
	if opts.DB != "" {
		var err error
		db, err = store.Open(opts.DB)
		if err != nil {
			return f.Error(ExitCommandError, ErrCodeStoreFailed, "failed to open run database", err)
		}
		defer db.Close()
	}

	workers := opts.Workers
	if opts.Recharacterize && workers != 1 {
		// Inline expectations share the suite file; rewrite it serially.
		f.VerboseLog("recharacterize: running cases serially")
		workers = 1
	}

	checker := harness.New(converters(opts),
		harness.WithLogger(f.Logger()),
		harness.WithRecharacterize(opts.Recharacterize),
	)

	ids := opts.IDs
	if ids == nil {
		ids = store.UUIDv7Generator{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	result := RunResult{Suites: make([]SuiteResult, 0, len(suites))}
	for i, s := range suites {
		f.VerboseLog("running suite %s (%d cases) from %s", s.Name, len(cases[i]), s.Path)
		reports := checker.RunAll(ctx, cases[i], workers)

		digest, err := report.Digest(report.Document(s.Name, reports))
		if err != nil {
			return f.Error(ExitCommandError, ErrCodeGeneric, "failed to digest report", err)
		}
		sr := SuiteResult{
			Name:    s.Name,
			File:    s.Path,
			Digest:  digest,
			Reports: reports,
			Summary: harness.Summarize(reports),
		}

		if db != nil {
			run, err := store.NewRun(ids, s.Name, reports, now())
			if err != nil {
				return f.Error(ExitCommandError, ErrCodeStoreFailed, "failed to build run record", err)
			}
			if err := db.WriteRun(ctx, run); err != nil {
				return f.Error(ExitCommandError, ErrCodeStoreFailed, "failed to record run", err)
			}
			sr.RunID = run.ID
			f.VerboseLog("recorded run %s", run.ID)
		}

		result.Suites = append(result.Suites, sr)
		result.Passed += sr.Passed
		result.Failed += sr.Failed
		result.Total += sr.Total
	}

	if opts.Format == "json" {
		return outputRunJSON(f, result)
	}
	return outputRunText(out, result)
}

// converters builds one external converter per direction.
func converters(opts *RunOptions) map[harness.Direction]convert.Converter {
	m := make(map[harness.Direction]convert.Converter, len(harness.Directions))
	for _, d := range harness.Directions {
		c := &convert.Command{Path: opts.Converter, Args: opts.ConverterArgs, Direction: string(d)}
		m[d] = convert.WithTimeout(c, opts.Timeout)
	}
	return m
}

func outputRunJSON(f *OutputFormatter, result RunResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if result.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeChecksFailed,
			Message: fmt.Sprintf("%d case(s) failed", result.Failed),
		}
	}
	if err := f.JSON(response); err != nil {
		return err
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", result.Failed))
	}
	return nil
}

func outputRunText(w io.Writer, result RunResult) error {
	st := newStyles(w)

	if len(result.Suites) == 0 {
		fmt.Fprintln(w, "No suites found.")
		return nil
	}

	for _, s := range result.Suites {
		fmt.Fprintf(w, "%s %s\n", st.title.Render(s.Name), st.detail.Render("("+s.File+")"))
		for _, r := range s.Reports {
			if r.Passed() {
				fmt.Fprintf(w, "%s %s\n", st.pass.Render("✓"), r.Case)
				continue
			}
			fmt.Fprintf(w, "%s %s\n", st.fail.Render("✗"), r.Case)
			for _, v := range r.Verdicts() {
				if !v.Failed() {
					continue
				}
				fmt.Fprintf(w, "  %s %s\n", v.Check, st.fail.Render(string(v.Class)))
				fmt.Fprintln(w, indent(v.Message, "    "))
			}
		}
		if s.RunID != "" {
			fmt.Fprintln(w, st.detail.Render("run "+s.RunID))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", result.Failed))
	}
	fmt.Fprintln(w, st.pass.Render("✓ All cases passed"))
	return nil
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}
