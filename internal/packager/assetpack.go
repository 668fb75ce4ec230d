package packager

import (
	"context"
	"path/filepath"

	"opensound/internal/fileutil"
	"opensound/internal/logging"
	"opensound/internal/manifest"
	"opensound/internal/services"
)

// BuildAssetPack packages sourceDir/openrct2.sound.json and its samples into
// <OutputRoot>/assetpack/<id>.parkap with the manifest stored as manifest.json.
func (b *Builder) BuildAssetPack(ctx context.Context, sourceDir string) (Result, error) {
	ctx = services.WithStage(ctx, string(KindAssetPack))
	if err := fileutil.ResetDirectory(b.Workspace, b.logger(ctx)); err != nil {
		return Result{}, err
	}

	m, err := manifest.LoadAssetPack(filepath.Join(sourceDir, manifest.AssetPackFileName))
	if err != nil {
		return Result{}, err
	}
	ctx = services.WithPackage(ctx, m.ID)
	logger := b.logger(ctx)

	lists := make([][]string, len(m.Objects))
	total := 0
	for i, obj := range m.Objects {
		lists[i] = obj.Samples
		total += len(obj.Samples)
	}
	jobs, markers, err := b.planSamples(sourceDir, lists, true)
	if err != nil {
		return Result{}, err
	}
	logger.Info("building asset pack",
		logging.String("source", sourceDir),
		logging.Int("objects", len(m.Objects)),
		logging.Int("samples", total),
		logging.Int("markers", markers),
	)

	err = b.transcode(ctx, jobs, func(job sampleJob) error {
		return m.SetSample(job.object, job.index, job.rel)
	})
	if err != nil {
		return Result{}, err
	}

	archivePath, size, err := b.seal(ctx, m.Document(), manifest.AssetPackOutputFileName, b.AssetPackArchivePath(m.ID))
	if err != nil {
		return Result{}, err
	}

	logger.Info("asset pack built",
		logging.String("path", archivePath),
		logging.Int64("bytes", size),
	)
	return Result{
		Kind:         KindAssetPack,
		ID:           m.ID,
		Samples:      total,
		Transcoded:   len(jobs),
		Markers:      markers,
		ArchivePath:  archivePath,
		ArchiveBytes: size,
	}, nil
}
