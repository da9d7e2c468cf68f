package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/convcheck/internal/harness"
	"github.com/roach88/convcheck/internal/probe"
)

// InjectOptions holds flags for the inject command.
type InjectOptions struct {
	*RootOptions
	Direction string
	Prefix    string
}

// InjectResult is the JSON payload of the inject command.
type InjectResult struct {
	Text    string   `json:"text"`
	Markers []string `json:"markers"`
	Prefix  string   `json:"prefix"`
}

// NewInjectCommand creates the inject command.
func NewInjectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InjectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inject <file>",
		Short: "Print a source file with line probes appended",
		Long: `Append a line-number comment to every eligible line of a source file,
exactly as the completeness and order checks do before conversion.

Use "-" to read from stdin.

Examples:
  convcheck inject Program.cs --direction cs2vb
  convcheck inject Module1.vb --direction vb2cs --prefix " L:"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInject(opts, args[0], cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.Direction, "direction", string(harness.CSToVB), "conversion direction (cs2vb|vb2cs)")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", probe.DefaultPrefix, "text between the comment token and the line index")

	return cmd
}

func runInject(opts *InjectOptions, path string, in io.Reader, out, errOut io.Writer) error {
	f := newFormatter(opts.RootOptions, out, errOut)

	direction, err := harness.ParseDirection(opts.Direction)
	if err != nil {
		return f.Error(ExitCommandError, ErrCodeGeneric, "invalid direction", err)
	}
	profile, err := harness.ProfileFor(direction)
	if err != nil {
		return f.Error(ExitCommandError, ErrCodeGeneric, "invalid direction", err)
	}

	var data []byte
	if path == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return f.Error(ExitCommandError, ErrCodeReadFailed, fmt.Sprintf("failed to read %s", path), err)
	}

	style := profile.Style
	style.Prefix = opts.Prefix
	injection := probe.Inject(string(data), style, profile.Eligible)
	f.VerboseLog("annotated %d of %d lines", len(injection.Indices), len(injection.Lines))

	if opts.Format == "json" {
		return f.JSON(CLIResponse{Status: "ok", Data: InjectResult{
			Text:    injection.Text(),
			Markers: injection.Tokens(),
			Prefix:  injection.Prefix,
		}})
	}
	fmt.Fprintln(out, injection.Text())
	return nil
}
