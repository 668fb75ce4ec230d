package preflight

import (
	"path/filepath"

	"opensound/internal/config"
	"opensound/internal/manifest"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	return []Result{
		CheckReadableFile("Object manifest", filepath.Join(cfg.Paths.ObjectSourceDir, manifest.ObjectFileName)),
		CheckReadableFile("Asset pack manifest", filepath.Join(cfg.Paths.AssetPackSourceDir, manifest.AssetPackFileName)),
		CheckCreatable("Workspace directory", cfg.Paths.WorkspaceDir),
		CheckCreatable("Output directory", cfg.Paths.OutputDir),
		CheckCreatable("Distributable directory", filepath.Dir(cfg.Paths.ArtifactPath)),
	}
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
