package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Error(ExitCommandError, ErrCodeSuiteInvalid, "failed to load suite", errors.New("name is required"))

	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeSuiteInvalid, resp.Error.Code)
	assert.Equal(t, "failed to load suite", resp.Error.Message)
	assert.Equal(t, "name is required", resp.Error.Details)
}

func TestOutputFormatter_TextErrorGoesToErrWriter(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: out, ErrWriter: errOut}

	err := formatter.Error(ExitCommandError, ErrCodeGeneric, "bad input", nil)

	require.Error(t, err)
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Error [E001]: bad input")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			errOut := &bytes.Buffer{}
			formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: tt.verbose}

			formatter.VerboseLog("Processing %s", "loops.yaml")

			assert.Empty(t, out.String(), "verbose output must not corrupt stdout")
			if tt.wantLog {
				assert.Contains(t, errOut.String(), "Processing loops.yaml")
			} else {
				assert.Empty(t, errOut.String())
			}
		})
	}
}

func TestOutputFormatter_Logger(t *testing.T) {
	errOut := &bytes.Buffer{}

	quiet := &OutputFormatter{Writer: &bytes.Buffer{}, ErrWriter: errOut}
	quiet.Logger().Info("hidden")
	assert.Empty(t, errOut.String())

	loud := &OutputFormatter{Writer: &bytes.Buffer{}, ErrWriter: errOut, Verbose: true}
	loud.Logger().Debug("case checked", "case", "loops/counter")
	assert.Contains(t, errOut.String(), "case=loops/counter")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(NewExitError(ExitFailure, "2 case(s) failed")))
	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("wrapped: %w", NewExitError(ExitCommandError, "x"))))
	assert.Equal(t, ExitCommandError, GetExitCode(errors.New("unknown flag: --bogus")))
}

func TestExitError_Unwrap(t *testing.T) {
	base := errors.New("disk full")
	err := WrapExitError(ExitCommandError, "failed to record run", base)

	assert.Equal(t, "failed to record run: disk full", err.Error())
	assert.ErrorIs(t, err, base)
}
