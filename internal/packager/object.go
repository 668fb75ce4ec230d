package packager

import (
	"context"
	"path/filepath"

	"opensound/internal/fileutil"
	"opensound/internal/logging"
	"opensound/internal/manifest"
	"opensound/internal/services"
)

// BuildObjectPackage packages sourceDir/object.json and its samples into
// <OutputRoot>/object/official/audio/<id>.parkobj.
func (b *Builder) BuildObjectPackage(ctx context.Context, sourceDir string) (Result, error) {
	ctx = services.WithStage(ctx, string(KindObject))
	if err := fileutil.ResetDirectory(b.Workspace, b.logger(ctx)); err != nil {
		return Result{}, err
	}

	m, err := manifest.LoadObject(filepath.Join(sourceDir, manifest.ObjectFileName))
	if err != nil {
		return Result{}, err
	}
	ctx = services.WithPackage(ctx, m.ID)
	logger := b.logger(ctx)

	jobs, markers, err := b.planSamples(sourceDir, [][]string{m.Samples}, false)
	if err != nil {
		return Result{}, err
	}
	logger.Info("building object package",
		logging.String("source", sourceDir),
		logging.Int("samples", len(m.Samples)),
	)

	err = b.transcode(ctx, jobs, func(job sampleJob) error {
		return m.SetSample(job.index, job.rel)
	})
	if err != nil {
		return Result{}, err
	}

	archivePath, size, err := b.seal(ctx, m.Document(), manifest.ObjectFileName, b.ObjectArchivePath(m.ID))
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Kind:         KindObject,
		ID:           m.ID,
		Samples:      len(m.Samples),
		Transcoded:   len(jobs),
		Markers:      markers,
		ArchivePath:  archivePath,
		ArchiveBytes: size,
	}
	logger.Info("object package built",
		logging.String("path", archivePath),
		logging.Int64("bytes", size),
	)
	return result, nil
}
