package packager

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"opensound/internal/archive"
	"opensound/internal/fileutil"
	"opensound/internal/logging"
	"opensound/internal/manifest"
	"opensound/internal/services"
)

// Kind identifies a package type.
type Kind string

const (
	KindObject    Kind = "object"
	KindAssetPack Kind = "assetpack"
)

// Extension returns the archive extension for the package kind.
func (k Kind) Extension() string {
	if k == KindAssetPack {
		return ".parkap"
	}
	return ".parkobj"
}

// Transcoder converts a single source sample to the canonical format.
type Transcoder interface {
	TranscodeSample(ctx context.Context, dst, src string) error
}

// Result describes a package produced by a build.
type Result struct {
	Kind         Kind
	ID           string
	Samples      int
	Transcoded   int
	Markers      int
	ArchivePath  string
	ArchiveBytes int64
}

// Builder owns the workspace for the duration of each build call. Builds on
// the same Builder must not run concurrently.
type Builder struct {
	Workspace  string
	OutputRoot string
	Transcoder Transcoder
	Archiver   archive.Archiver
	Logger     *slog.Logger
}

func (b *Builder) logger(ctx context.Context) *slog.Logger {
	return logging.WithContext(ctx, logging.NewComponentLogger(b.Logger, "packager"))
}

// ObjectArchivePath returns where the object package with id is written.
func (b *Builder) ObjectArchivePath(id string) string {
	return filepath.Join(b.OutputRoot, "object", "official", "audio", id+KindObject.Extension())
}

// AssetPackArchivePath returns where the asset pack with id is written.
func (b *Builder) AssetPackArchivePath(id string) string {
	return filepath.Join(b.OutputRoot, "assetpack", id+KindAssetPack.Extension())
}

// sampleJob is one file sample scheduled for transcoding.
type sampleJob struct {
	object int
	index  int
	source string
	dest   string
	rel    string
}

// planSamples maps every sample to its transcoded location and rejects two
// samples that would land on the same file. With skipMarkers set, reference
// markers are counted and left in place.
func (b *Builder) planSamples(sourceDir string, lists [][]string, skipMarkers bool) ([]sampleJob, int, error) {
	var jobs []sampleJob
	markers := 0
	claimed := make(map[string]string)
	for oi, samples := range lists {
		for si, sample := range samples {
			if skipMarkers && manifest.IsReference(sample) {
				markers++
				continue
			}
			rel := manifest.ChangeExtension(sample, manifest.TranscodedExtension)
			dest := filepath.Join(b.Workspace, filepath.FromSlash(rel))
			if prev, ok := claimed[dest]; ok {
				return nil, 0, services.Wrap(services.ErrValidation, "package", "plan samples",
					"samples "+prev+" and "+sample+" both transcode to "+rel, nil)
			}
			claimed[dest] = sample
			jobs = append(jobs, sampleJob{
				object: oi,
				index:  si,
				source: filepath.Join(sourceDir, filepath.FromSlash(sample)),
				dest:   dest,
				rel:    rel,
			})
		}
	}
	return jobs, markers, nil
}

func (b *Builder) transcode(ctx context.Context, jobs []sampleJob, set func(sampleJob) error) error {
	logger := b.logger(ctx)
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		logger.Debug("transcoding sample",
			logging.String("source", job.source),
			logging.String("dest", job.dest),
		)
		if err := b.Transcoder.TranscodeSample(ctx, job.dest, job.source); err != nil {
			return err
		}
		if err := set(job); err != nil {
			return err
		}
	}
	return nil
}

// seal writes the rewritten manifest into the workspace and archives the
// workspace's top-level entries to archivePath. The returned path is
// absolute so relative output roots never resolve against the workspace.
func (b *Builder) seal(ctx context.Context, doc *manifest.Document, manifestName, archivePath string) (string, int64, error) {
	abs, err := filepath.Abs(archivePath)
	if err != nil {
		return "", 0, services.NewIOError("resolve", archivePath, err)
	}
	archivePath = abs
	if err := manifest.Save(filepath.Join(b.Workspace, manifestName), doc); err != nil {
		return "", 0, err
	}
	entries, err := fileutil.ListTree(b.Workspace, fileutil.ListOptions{
		IncludeDirectories: true,
		IncludeFiles:       true,
	})
	if err != nil {
		return "", 0, err
	}
	if err := b.Archiver.Archive(ctx, b.Workspace, archivePath, entries); err != nil {
		return "", 0, err
	}
	info, err := os.Stat(archivePath)
	if err != nil {
		return "", 0, services.NewIOError("stat", archivePath, err)
	}
	return archivePath, info.Size(), nil
}
