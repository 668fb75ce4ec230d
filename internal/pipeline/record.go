package pipeline

import (
	"context"
	"time"

	"opensound/internal/history"
	"opensound/internal/logging"
	"opensound/internal/notifications"
	"opensound/internal/packager"
)

func (p *Pipeline) recordStart(ctx context.Context, id string, started time.Time) {
	if p.history == nil {
		return
	}
	if err := p.history.StartBuild(ctx, id, started); err != nil {
		p.historyWarning(ctx, "failed to record build start", err)
		p.history = nil
	}
}

func (p *Pipeline) recordPackage(ctx context.Context, id string, result packager.Result) {
	if p.history == nil {
		return
	}
	pkg := history.Package{
		Kind:         string(result.Kind),
		ManifestID:   result.ID,
		Samples:      result.Samples,
		Transcoded:   result.Transcoded,
		Markers:      result.Markers,
		ArchivePath:  result.ArchivePath,
		ArchiveBytes: result.ArchiveBytes,
	}
	if err := p.history.AddPackage(ctx, id, pkg); err != nil {
		p.historyWarning(ctx, "failed to record package", err)
	}
}

func (p *Pipeline) recordFinish(ctx context.Context, summary Summary, runErr error) {
	if p.history == nil {
		return
	}
	if err := p.history.FinishBuild(ctx, summary.BuildID, p.now(), summary.Distributable, runErr); err != nil {
		p.historyWarning(ctx, "failed to record build result", err)
	}
}

func (p *Pipeline) historyWarning(ctx context.Context, msg string, err error) {
	logging.WarnWithContext(logging.WithContext(ctx, p.logger), msg, "history_write_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check history.path permissions or disable history"),
		logging.String(logging.FieldImpact, "build history will be incomplete"),
	)
}

func (p *Pipeline) notify(ctx context.Context, summary Summary, runErr error) {
	var err error
	if runErr != nil {
		err = p.notifier.NotifyBuildFailed(ctx, summary.BuildID, runErr)
	} else {
		err = p.notifier.NotifyBuildCompleted(ctx, notifications.BuildOutcome{
			BuildID:       summary.BuildID,
			Packages:      len(summary.Packages),
			Distributable: summary.Distributable,
			Duration:      summary.Duration,
		})
	}
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, p.logger), "failed to send notification", "notification_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
		)
	}
}
