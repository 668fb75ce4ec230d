package testsupport

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"opensound/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Archives are produced natively so tests do not need zip installed.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ObjectSourceDir = filepath.Join(base, "openrct2.audio.additional")
	cfgVal.Paths.AssetPackSourceDir = filepath.Join(base, "openrct2.sound")
	cfgVal.Paths.WorkspaceDir = filepath.Join(base, "temp")
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Paths.ArtifactPath = filepath.Join(base, "artifacts", "opensound.zip")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.History.Path = filepath.Join(base, "history.db")
	cfgVal.Archive.Mode = config.ArchiveModeNative

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	if err := builder.cfg.Normalize(); err != nil {
		t.Fatalf("normalize config: %v", err)
	}
	return builder.cfg
}

// WithArchiveMode selects the archiver.
func WithArchiveMode(mode string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Archive.Mode = mode
	}
}

// WithHistory toggles the build history store.
func WithHistory(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = enabled
	}
}

// WithStubbedBinaries writes stub executables that exit 0 for the provided
// names and prepends them to PATH. If names is empty, ffmpeg, ffprobe and zip
// are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe", "zip"}
		}
		for _, name := range names {
			b.writeBinary(name, "exit 0\n")
		}
	}
}

// WithCopyingFFmpeg installs an ffmpeg stub that copies its -i input to its
// final argument and points the config at it. A missing input fails the way
// ffmpeg does, with a non-zero exit and a message.
func WithCopyingFFmpeg() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcode.FFmpegBinary = b.writeBinary("ffmpeg", copyingFFmpeg)
	}
}

// WithFailingBinary installs name as a stub that prints output and exits
// with code.
func WithFailingBinary(name, output string, code int) ConfigOption {
	return func(b *configBuilder) {
		b.writeBinary(name, "echo '"+output+"' >&2\nexit "+strconv.Itoa(code)+"\n")
	}
}

// WithMissingFFmpeg points the transcoder at an executable that does not exist.
func WithMissingFFmpeg() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcode.FFmpegBinary = filepath.Join(b.baseDir, "bin", "ffmpeg-missing")
	}
}

const copyingFFmpeg = `src=""
dst=""
while [ $# -gt 0 ]; do
  case "$1" in
    -i) src="$2"; shift 2 ;;
    *) dst="$1"; shift ;;
  esac
done
cp "$src" "$dst"
`

func (b *configBuilder) writeBinary(name, body string) string {
	b.t.Helper()
	binDir := filepath.Join(b.baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		b.t.Fatalf("write stub %s: %v", name, err)
	}
	if !b.pathPrepended() {
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
	return target
}

func (b *configBuilder) pathPrepended() bool {
	binDir := filepath.Join(b.baseDir, "bin")
	return strings.HasPrefix(os.Getenv("PATH"), binDir+string(os.PathListSeparator))
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkspaceDir)
}
