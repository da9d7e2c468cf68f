package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/roach88/convcheck/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DB    string
	Suite string
	Limit int
	RunID string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List runs recorded with "convcheck run --db", newest first.
With --run, print the verdicts of one run.

Examples:
  convcheck history --db runs.db
  convcheck history --db runs.db --limit 5 --format json
  convcheck history --db runs.db --suite loops
  convcheck history --db runs.db --run 0190c3b2-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "run history database (required)")
	cmd.Flags().StringVar(&opts.Suite, "suite", "", "list only runs of this suite")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 for all)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show the verdicts of one run")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(ctx context.Context, opts *HistoryOptions, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts.RootOptions, out, errOut)

	// Opening would create an empty database; a typo should be an error.
	if _, err := os.Stat(opts.DB); err != nil {
		return f.Error(ExitCommandError, ErrCodeStoreFailed, fmt.Sprintf("database not found: %s", opts.DB), err)
	}
	db, err := store.Open(opts.DB)
	if err != nil {
		return f.Error(ExitCommandError, ErrCodeStoreFailed, "failed to open run database", err)
	}
	defer db.Close()

	if opts.RunID != "" {
		run, err := db.ReadRun(ctx, opts.RunID)
		if err != nil {
			return f.Error(ExitCommandError, ErrCodeStoreFailed, "failed to read run", err)
		}
		if opts.Format == "json" {
			return f.JSON(CLIResponse{Status: "ok", Data: run})
		}
		return outputRunDetail(out, run)
	}

	runs, err := db.ListRuns(ctx, store.RunFilter{Suite: opts.Suite, Limit: opts.Limit})
	if err != nil {
		return f.Error(ExitCommandError, ErrCodeStoreFailed, "failed to list runs", err)
	}
	if opts.Format == "json" {
		return f.JSON(CLIResponse{Status: "ok", Data: runs})
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	st := newStyles(out)
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.detail).
		Headers("RUN", "SUITE", "PASSED", "FAILED", "DIGEST", "CREATED")
	for _, r := range runs {
		tbl.Row(r.ID, r.Suite, strconv.Itoa(r.Passed), strconv.Itoa(r.Failed),
			shortDigest(r.Digest), r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	_, err = fmt.Fprintln(out, tbl.Render())
	return err
}

func outputRunDetail(w io.Writer, run store.Run) error {
	st := newStyles(w)
	fmt.Fprintf(w, "%s %s\n", st.title.Render(run.Suite), st.detail.Render("run "+run.ID))
	fmt.Fprintf(w, "digest %s\n", run.Digest)
	for _, v := range run.Verdicts {
		mark := st.pass.Render("✓")
		switch v.Status {
		case "fail":
			mark = st.fail.Render("✗")
		case "skipped":
			mark = st.skipped.Render("-")
		}
		line := fmt.Sprintf("%s %s %s", mark, v.Case, v.Check)
		if v.Class != "" {
			line += " " + st.fail.Render(v.Class)
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "Summary: %d passed, %d failed\n", run.Passed, run.Failed)
	return nil
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
