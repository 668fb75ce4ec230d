// Package process launches external tools and classifies their failures.
package process

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"

	"opensound/internal/logging"
	"opensound/internal/services"
)

// Runner abstracts command execution for testability.
type Runner interface {
	Run(ctx context.Context, name string, args []string, dir string) ([]byte, error)
}

// Exec runs commands on the host with os/exec.
type Exec struct {
	logger *slog.Logger
}

// New constructs an Exec runner. A nil logger discards diagnostics.
func New(logger *slog.Logger) *Exec {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Exec{logger: logger}
}

// Run executes name with args, in dir when it is not empty, and blocks until
// the child exits. Standard output and standard error are captured together
// in the order they were written.
func (e *Exec) Run(ctx context.Context, name string, args []string, dir string) ([]byte, error) {
	logger := logging.WithContext(ctx, e.logger)
	logger.Debug("Launching \"" + CommandLine(name, args) + "\"")

	var output bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Dir = dir
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Start(); err != nil {
		return nil, &services.ToolNotFoundError{Name: name, Err: err}
	}
	if err := cmd.Wait(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		logger.Debug("command failed",
			logging.String("command", name),
			logging.Int("exit_code", exitCode),
		)
		return output.Bytes(), &services.ProcessFailedError{
			Name:     name,
			ExitCode: exitCode,
			Output:   output.String(),
		}
	}
	return output.Bytes(), nil
}

// CommandLine renders name and args the way they are reported in logs.
func CommandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
