package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/convcheck/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd := cli.NewRootCommand()
	cmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	cmd.SetVersionTemplate("convcheck {{.Version}}\n")

	err := cmd.Execute()
	if err != nil {
		var exitErr *cli.ExitError
		// Errors reported through the formatter are already printed.
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	os.Exit(cli.GetExitCode(err))
}
