// Package ffprobe reads audio stream properties through ffprobe's JSON
// output. Inspect runs the tool through a process.Runner so callers share the
// same missing-tool and exit-status errors as every other subprocess.
package ffprobe
