package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Environment variables passed to an external converter process.
const (
	EnvDirection = "CONVCHECK_DIRECTION"
	EnvOptions   = "CONVCHECK_OPTIONS"
)

// Command runs an external converter executable.
//
// Protocol: the source is written to stdin and the options are passed as
// JSON in CONVCHECK_OPTIONS. Exit status 0 means stdout is the converted
// text. Any other exit means stdout is partial output and stderr (or the
// exit error when stderr is empty) describes the failure.
type Command struct {
	Path      string
	Args      []string
	Direction string
}

// Convert implements Converter.
func (c *Command) Convert(ctx context.Context, source string, opts Options) (string, error) {
	optsJSON, err := json.Marshal(opts)
	if err != nil {
		return "", fmt.Errorf("marshal options: %w", err)
	}

	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Stdin = strings.NewReader(source)
	cmd.Env = append(os.Environ(),
		EnvDirection+"="+c.Direction,
		EnvOptions+"="+string(optsJSON),
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if runErr == nil {
		return stdout.String(), nil
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) && stderr.Len() > 0 {
		return stdout.String(), errors.New(stderr.String())
	}
	return stdout.String(), fmt.Errorf("run converter %s: %w", c.Path, runErr)
}
