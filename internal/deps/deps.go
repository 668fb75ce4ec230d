package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"opensound/internal/config"
)

// Requirement is an executable a build may launch.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports whether a requirement resolved on PATH. Detail holds the
// resolved path or the reason it did not resolve.
type Status struct {
	Requirement
	Available bool
	Detail    string
}

// Requirements lists the executables a build with cfg will launch. ffprobe
// is only required when transcode verification is on; the archiver only when
// archives are produced externally.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required for sample transcoding",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Verifies transcoded samples",
			Optional:    !cfg.Transcode.Verify,
		},
		{
			Name:        "Archiver",
			Command:     cfg.ArchiverBinary(),
			Description: "Builds package archives",
			Optional:    cfg.Archive.Mode == config.ArchiveModeNative,
		},
	}
}

// CheckBinaries resolves every requirement with exec.LookPath.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, len(requirements))
	for i, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		results[i] = Status{Requirement: req}
		if req.Command == "" {
			results[i].Detail = "command not configured"
			continue
		}
		resolved, err := exec.LookPath(req.Command)
		if err != nil {
			results[i].Detail = fmt.Sprintf("%s was not found on PATH", req.Command)
			continue
		}
		results[i].Available = true
		results[i].Detail = resolved
	}
	return results
}

// Missing returns the required dependencies that are unavailable.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s)
		}
	}
	return missing
}
