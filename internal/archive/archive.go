// Package archive bundles a directory's entries into zip files, either by
// shelling out to zip/7z or natively with archive/zip.
package archive

import (
	"context"
	"log/slog"
	"path/filepath"

	"opensound/internal/fileutil"
)

// Archiver writes output containing entries, which are relative to cwd.
// Directories are included recursively.
type Archiver interface {
	Archive(ctx context.Context, cwd, output string, entries []string) error
}

// prepareOutput resolves output against cwd, ensures its parent exists and
// removes any previous archive at that location.
func prepareOutput(cwd, output string, logger *slog.Logger) (string, error) {
	if !filepath.IsAbs(output) {
		output = filepath.Join(cwd, output)
	}
	if err := fileutil.EnsureParent(output, logger); err != nil {
		return "", err
	}
	if err := fileutil.RemovePath(output, logger); err != nil {
		return "", err
	}
	return output, nil
}
