package ffmpeg

import (
	"context"
	"log/slog"
	"strings"

	"opensound/internal/fileutil"
	"opensound/internal/logging"
	"opensound/internal/process"
)

// Verifier checks a transcoded file against the expected format.
type Verifier interface {
	Verify(ctx context.Context, path string, want Format) error
}

// Option configures the transcoder.
type Option func(*Transcoder)

// WithRunner injects a custom process runner (primarily for tests).
func WithRunner(runner process.Runner) Option {
	return func(t *Transcoder) {
		if runner != nil {
			t.runner = runner
		}
	}
}

// WithVerifier enables post-transcode verification.
func WithVerifier(v Verifier) Option {
	return func(t *Transcoder) {
		t.verifier = v
	}
}

// WithLogger sets the logger used for directory diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transcoder) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Transcoder wraps ffmpeg invocations.
type Transcoder struct {
	binary   string
	format   Format
	runner   process.Runner
	verifier Verifier
	logger   *slog.Logger
}

// New constructs a transcoder for binary, defaulting to "ffmpeg" on PATH.
func New(binary string, opts ...Option) *Transcoder {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	t := &Transcoder{
		binary: binary,
		format: Canonical,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.runner == nil {
		t.runner = process.New(t.logger)
	}
	return t
}

// Binary returns the ffmpeg executable the transcoder invokes.
func (t *Transcoder) Binary() string {
	return t.binary
}

// TranscodeSample writes src to dst in the canonical format, creating dst's
// parent directory first. Tool errors are returned unchanged.
func (t *Transcoder) TranscodeSample(ctx context.Context, dst, src string) error {
	logger := logging.WithContext(ctx, t.logger)
	if err := fileutil.EnsureParent(dst, logger); err != nil {
		return err
	}
	if _, err := t.runner.Run(ctx, t.binary, t.format.Args(src, dst), ""); err != nil {
		return err
	}
	if t.verifier != nil {
		return t.verifier.Verify(ctx, dst, t.format)
	}
	return nil
}
