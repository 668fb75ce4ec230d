package archive

import (
	"context"
	"log/slog"
	"runtime"
	"strings"

	"opensound/internal/logging"
	"opensound/internal/process"
)

// Flavor selects the command-line dialect of the external archiver.
type Flavor string

const (
	FlavorZip      Flavor = "zip"
	FlavorSevenZip Flavor = "7z"
)

// HostFlavor returns 7z on Windows and zip everywhere else.
func HostFlavor() Flavor {
	if runtime.GOOS == "windows" {
		return FlavorSevenZip
	}
	return FlavorZip
}

// External archives through zip or 7z run in the archive's working directory.
type External struct {
	binary string
	flavor Flavor
	runner process.Runner
	logger *slog.Logger
}

// NewExternal builds an External archiver. An empty binary defaults to the
// flavor's usual executable name.
func NewExternal(binary string, flavor Flavor, runner process.Runner, logger *slog.Logger) *External {
	if logger == nil {
		logger = logging.NewNop()
	}
	if runner == nil {
		runner = process.New(logger)
	}
	if flavor == "" {
		flavor = HostFlavor()
	}
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = string(flavor)
	}
	return &External{binary: binary, flavor: flavor, runner: runner, logger: logger}
}

// Args returns the archiver argument vector for output and entries.
func (e *External) Args(output string, entries []string) []string {
	var args []string
	switch e.flavor {
	case FlavorSevenZip:
		args = []string{"a", "-r", "-tzip", output}
	default:
		args = []string{"-r", output}
	}
	return append(args, entries...)
}

func (e *External) Archive(ctx context.Context, cwd, output string, entries []string) error {
	logger := logging.WithContext(ctx, e.logger)
	resolved, err := prepareOutput(cwd, output, logger)
	if err != nil {
		return err
	}
	_, err = e.runner.Run(ctx, e.binary, e.Args(resolved, entries), cwd)
	return err
}
