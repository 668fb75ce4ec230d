package history

import "time"

// Status is the lifecycle state of a recorded build.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Build is one pipeline run.
type Build struct {
	ID            string
	Status        Status
	ErrorMessage  string
	StartedAt     time.Time
	FinishedAt    time.Time
	Distributable string
	Packages      []Package
}

// Duration returns how long the build ran, or zero while it is running.
func (b Build) Duration() time.Duration {
	if b.FinishedAt.IsZero() || b.StartedAt.IsZero() {
		return 0
	}
	return b.FinishedAt.Sub(b.StartedAt)
}

// Package is one archive produced by a build.
type Package struct {
	Kind         string
	ManifestID   string
	Samples      int
	Transcoded   int
	Markers      int
	ArchivePath  string
	ArchiveBytes int64
}
