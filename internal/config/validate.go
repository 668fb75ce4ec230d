package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateArchive(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.WorkspaceDir == c.Paths.OutputDir {
		return errors.New("paths.workspace_dir and paths.output_dir must differ")
	}
	if isWithin(c.Paths.OutputDir, c.Paths.WorkspaceDir) {
		return fmt.Errorf("paths.workspace_dir %q must not be inside paths.output_dir", c.Paths.WorkspaceDir)
	}
	if isWithin(c.Paths.WorkspaceDir, c.Paths.OutputDir) {
		return fmt.Errorf("paths.output_dir %q must not be inside paths.workspace_dir", c.Paths.OutputDir)
	}
	if isWithin(c.Paths.OutputDir, c.Paths.ArtifactPath) {
		return fmt.Errorf("paths.artifact_path %q must not be inside paths.output_dir", c.Paths.ArtifactPath)
	}
	return nil
}

func (c *Config) validateArchive() error {
	switch c.Archive.Mode {
	case ArchiveModeExternal, ArchiveModeNative:
		return nil
	default:
		return fmt.Errorf("archive.mode must be %q or %q, got %q", ArchiveModeExternal, ArchiveModeNative, c.Archive.Mode)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}

func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
