package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrIO            = errors.New("io error")
	ErrParse         = errors.New("parse error")
	ErrToolNotFound  = errors.New("tool not found")
	ErrProcessFailed = errors.New("process failed")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
)

// IOError reports a filesystem operation that failed for a reason other than
// the target already existing or already being absent.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s failed", e.Op, e.Path)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

// NewIOError builds an IOError for the given operation and path.
func NewIOError(op, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}

// ParseError reports manifest content that is not valid structured data.
type ParseError struct {
	Path   string
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	msg := "parse " + e.Path
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ToolNotFoundError reports an external executable that could not be located
// or started.
type ToolNotFoundError struct {
	Name string
	Err  error
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("%s was not found", e.Name)
}

func (e *ToolNotFoundError) Unwrap() error { return e.Err }

func (e *ToolNotFoundError) Is(target error) bool { return target == ErrToolNotFound }

// ProcessFailedError reports an external executable that ran but exited with a
// non-zero status. Output holds the interleaved stdout/stderr capture.
type ProcessFailedError struct {
	Name     string
	ExitCode int
	Output   string
}

func (e *ProcessFailedError) Error() string {
	return fmt.Sprintf("%s failed:\n%s", e.Name, e.Output)
}

func (e *ProcessFailedError) Is(target error) bool { return target == ErrProcessFailed }

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps a pipeline error to the process exit status reported by the CLI.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
