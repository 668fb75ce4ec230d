package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"opensound/internal/archive"
	"opensound/internal/config"
	"opensound/internal/fileutil"
	"opensound/internal/history"
	"opensound/internal/logging"
	"opensound/internal/media/ffmpeg"
	"opensound/internal/notifications"
	"opensound/internal/packager"
	"opensound/internal/process"
	"opensound/internal/services"
)

// ErrBusy reports that another process holds the workspace lock.
var ErrBusy = errors.New("another opensound build is using the workspace")

// Recorder persists build history. *history.Store satisfies it.
type Recorder interface {
	StartBuild(ctx context.Context, id string, startedAt time.Time) error
	AddPackage(ctx context.Context, buildID string, pkg history.Package) error
	FinishBuild(ctx context.Context, id string, finishedAt time.Time, distributable string, runErr error) error
}

// Summary describes a finished run.
type Summary struct {
	BuildID       string
	Packages      []packager.Result
	Distributable string
	Duration      time.Duration
}

// Option configures the pipeline.
type Option func(*Pipeline)

// WithRunner replaces the process runner used for ffmpeg and the archiver.
func WithRunner(runner process.Runner) Option {
	return func(p *Pipeline) {
		if runner != nil {
			p.runner = runner
		}
	}
}

// WithTranscoder replaces the ffmpeg transcoder.
func WithTranscoder(t packager.Transcoder) Option {
	return func(p *Pipeline) {
		p.transcoder = t
	}
}

// WithArchiver replaces the archiver selected by configuration.
func WithArchiver(a archive.Archiver) Option {
	return func(p *Pipeline) {
		p.archiver = a
	}
}

// WithHistory records every run to r.
func WithHistory(r Recorder) Option {
	return func(p *Pipeline) {
		p.history = r
	}
}

// WithNotifier replaces the ntfy service built from configuration.
func WithNotifier(n notifications.Service) Option {
	return func(p *Pipeline) {
		p.notifier = n
	}
}

// WithClock overrides the time source (primarily for tests).
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// Pipeline builds every package described by the configuration.
type Pipeline struct {
	cfg        *config.Config
	base       *slog.Logger
	logger     *slog.Logger
	runner     process.Runner
	transcoder packager.Transcoder
	archiver   archive.Archiver
	history    Recorder
	notifier   notifications.Service
	now        func() time.Time
}

// New wires a pipeline from cfg. Collaborators not supplied through options
// are built from configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Pipeline{
		cfg:    cfg,
		base:   logger,
		logger: logging.NewComponentLogger(logger, "pipeline"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.runner == nil {
		p.runner = process.New(logger)
	}
	if p.transcoder == nil {
		topts := []ffmpeg.Option{ffmpeg.WithRunner(p.runner), ffmpeg.WithLogger(logger)}
		if cfg.Transcode.Verify {
			topts = append(topts, ffmpeg.WithVerifier(ffmpeg.ProbeVerifier{Binary: cfg.FFprobeBinary(), Runner: p.runner}))
		}
		p.transcoder = ffmpeg.New(cfg.FFmpegBinary(), topts...)
	}
	if p.archiver == nil {
		p.archiver = NewArchiver(cfg, p.runner, logger)
	}
	if p.notifier == nil {
		p.notifier = notifications.NewService(cfg)
	}
	return p
}

// NewArchiver returns the archiver selected by cfg.Archive.Mode.
func NewArchiver(cfg *config.Config, runner process.Runner, logger *slog.Logger) archive.Archiver {
	if cfg.Archive.Mode == config.ArchiveModeNative {
		return archive.NewNative(logger)
	}
	return archive.NewExternal(cfg.ArchiverBinary(), archive.HostFlavor(), runner, logger)
}

// LockPath returns the advisory lock file guarding the workspace.
func LockPath(cfg *config.Config) string {
	return cfg.Paths.WorkspaceDir + ".lock"
}

// Run executes one build. On failure the workspace may be left behind.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	started := p.now()
	summary := Summary{BuildID: uuid.NewString()}
	ctx = services.WithBuildID(ctx, summary.BuildID)
	logger := logging.WithContext(ctx, p.logger)

	lockPath := LockPath(p.cfg)
	if err := fileutil.EnsureParent(lockPath, logger); err != nil {
		return summary, err
	}
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return summary, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return summary, ErrBusy
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release workspace lock", logging.Error(err))
		}
	}()

	p.recordStart(ctx, summary.BuildID, started)
	logger.Info("build started",
		logging.String("workspace", p.cfg.Paths.WorkspaceDir),
		logging.String("output", p.cfg.Paths.OutputDir),
	)

	runErr := p.run(ctx, &summary)
	summary.Duration = p.now().Sub(started)
	// Finish bookkeeping must survive an interrupted build.
	finishCtx := context.WithoutCancel(ctx)
	p.recordFinish(finishCtx, summary, runErr)
	p.notify(finishCtx, summary, runErr)
	if runErr != nil {
		return summary, runErr
	}
	logger.Info("build complete",
		logging.String("distributable", summary.Distributable),
		logging.Int("packages", len(summary.Packages)),
		logging.Duration("duration", summary.Duration),
	)
	return summary, nil
}

func (p *Pipeline) run(ctx context.Context, summary *Summary) error {
	logger := logging.WithContext(ctx, p.logger)
	paths := p.cfg.Paths

	if err := fileutil.EnsureDirectory(paths.OutputDir, logger); err != nil {
		return err
	}

	builder := &packager.Builder{
		Workspace:  paths.WorkspaceDir,
		OutputRoot: paths.OutputDir,
		Transcoder: p.transcoder,
		Archiver:   p.archiver,
		Logger:     p.base,
	}
	steps := []func(context.Context, string) (packager.Result, error){
		builder.BuildObjectPackage,
		builder.BuildAssetPack,
	}
	sources := []string{paths.ObjectSourceDir, paths.AssetPackSourceDir}
	for i, build := range steps {
		result, err := build(ctx, sources[i])
		if err != nil {
			return err
		}
		summary.Packages = append(summary.Packages, result)
		p.recordPackage(ctx, summary.BuildID, result)
	}

	entries, err := fileutil.ListTree(paths.OutputDir, fileutil.ListOptions{
		IncludeDirectories: true,
		IncludeFiles:       true,
	})
	if err != nil {
		return err
	}
	distCtx := services.WithStage(ctx, "distributable")
	if err := p.archiver.Archive(distCtx, paths.OutputDir, paths.ArtifactPath, entries); err != nil {
		return err
	}
	summary.Distributable = paths.ArtifactPath

	return fileutil.RemovePath(paths.WorkspaceDir, logger)
}
