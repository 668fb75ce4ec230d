package pipeline_test

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"opensound/internal/history"
	"opensound/internal/notifications"
	"opensound/internal/pipeline"
	"opensound/internal/services"
	"opensound/internal/testsupport"
)

func zipEntries(t *testing.T, path string) []string {
	t.Helper()
	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer r.Close()
	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRunBuildsAllPackages(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCopyingFFmpeg())
	testsupport.SeedSources(t, cfg)
	store := testsupport.MustOpenHistory(t, cfg)

	summary, err := pipeline.New(cfg, nil, pipeline.WithHistory(store)).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.BuildID == "" {
		t.Fatal("expected build id")
	}
	if len(summary.Packages) != 2 {
		t.Fatalf("expected 2 packages, got %d", len(summary.Packages))
	}
	if summary.Distributable != cfg.Paths.ArtifactPath {
		t.Fatalf("distributable = %q", summary.Distributable)
	}

	objectPkg := filepath.Join(cfg.Paths.OutputDir, "object", "official", "audio", "test.parkobj")
	if got, want := zipEntries(t, objectPkg), []string{"object.json", "one.wav", "sub/", "sub/two.wav"}; !equal(got, want) {
		t.Fatalf("object package entries = %v, want %v", got, want)
	}
	packPkg := filepath.Join(cfg.Paths.OutputDir, "assetpack", "openrct2.sound.parkap")
	if got, want := zipEntries(t, packPkg), []string{"base/", "base/lift.wav", "extra/", "extra/scream.wav", "manifest.json"}; !equal(got, want) {
		t.Fatalf("asset pack entries = %v, want %v", got, want)
	}

	want := []string{
		"assetpack/",
		"assetpack/openrct2.sound.parkap",
		"object/",
		"object/official/",
		"object/official/audio/",
		"object/official/audio/test.parkobj",
	}
	if got := zipEntries(t, cfg.Paths.ArtifactPath); !equal(got, want) {
		t.Fatalf("distributable entries = %v, want %v", got, want)
	}

	if _, err := os.Stat(cfg.Paths.WorkspaceDir); !os.IsNotExist(err) {
		t.Fatalf("expected workspace removed, stat err = %v", err)
	}

	build, err := store.Get(context.Background(), summary.BuildID)
	if err != nil {
		t.Fatalf("history Get: %v", err)
	}
	if build.Status != history.StatusSucceeded || len(build.Packages) != 2 {
		t.Fatalf("unexpected history record: %#v", build)
	}
	if build.Packages[1].Markers != 1 {
		t.Fatalf("expected asset pack marker count 1, got %d", build.Packages[1].Markers)
	}
}

func TestRunIsRepeatable(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCopyingFFmpeg())
	testsupport.SeedSources(t, cfg)

	p := pipeline.New(cfg, nil)
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	first, err := os.ReadFile(cfg.Paths.ArtifactPath)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	second, err := os.ReadFile(cfg.Paths.ArtifactPath)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(first) != string(second) {
		t.Fatal("expected identical distributables across runs")
	}
}

func TestRunMissingFFmpegAbortsBeforeArchiving(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMissingFFmpeg())
	testsupport.SeedSources(t, cfg)
	store := testsupport.MustOpenHistory(t, cfg)

	summary, err := pipeline.New(cfg, nil, pipeline.WithHistory(store)).Run(context.Background())
	if !errors.Is(err, services.ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound, got %v", err)
	}
	if want := cfg.Transcode.FFmpegBinary + " was not found"; err.Error() != want {
		t.Fatalf("message = %q, want %q", err.Error(), want)
	}
	if _, statErr := os.Stat(filepath.Join(cfg.Paths.OutputDir, "object")); !os.IsNotExist(statErr) {
		t.Fatalf("expected no package output, stat err = %v", statErr)
	}
	if _, statErr := os.Stat(cfg.Paths.ArtifactPath); !os.IsNotExist(statErr) {
		t.Fatalf("expected no distributable, stat err = %v", statErr)
	}

	build, getErr := store.Get(context.Background(), summary.BuildID)
	if getErr != nil {
		t.Fatalf("history Get: %v", getErr)
	}
	if build.Status != history.StatusFailed || build.ErrorMessage != err.Error() {
		t.Fatalf("unexpected history record: %#v", build)
	}
}

func TestRunFailingFFmpegReportsOutput(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFailingBinary("ffmpeg", "Invalid data found", 1))
	testsupport.SeedSources(t, cfg)

	_, err := pipeline.New(cfg, nil).Run(context.Background())
	var failed *services.ProcessFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected ProcessFailedError, got %v", err)
	}
	if failed.Name != "ffmpeg" || failed.Output != "Invalid data found\n" {
		t.Fatalf("unexpected failure: %#v", failed)
	}
}

func TestRunMissingManifestFails(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCopyingFFmpeg())

	_, err := pipeline.New(cfg, nil).Run(context.Background())
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

func TestRunFailsWhenWorkspaceLocked(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCopyingFFmpeg())
	testsupport.SeedSources(t, cfg)

	lock := flock.New(pipeline.LockPath(cfg))
	ok, err := lock.TryLock()
	if err != nil || !ok {
		t.Fatalf("acquire test lock: ok=%v err=%v", ok, err)
	}
	defer lock.Unlock()

	if _, err := pipeline.New(cfg, nil).Run(context.Background()); !errors.Is(err, pipeline.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

type brokenRecorder struct{ calls int }

func (b *brokenRecorder) StartBuild(context.Context, string, time.Time) error {
	b.calls++
	return errors.New("disk full")
}

func (b *brokenRecorder) AddPackage(context.Context, string, history.Package) error {
	b.calls++
	return errors.New("disk full")
}

func (b *brokenRecorder) FinishBuild(context.Context, string, time.Time, string, error) error {
	b.calls++
	return errors.New("disk full")
}

func TestRunIgnoresHistoryFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCopyingFFmpeg())
	testsupport.SeedSources(t, cfg)
	recorder := &brokenRecorder{}

	if _, err := pipeline.New(cfg, nil, pipeline.WithHistory(recorder)).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if recorder.calls != 1 {
		t.Fatalf("expected history disabled after first failure, got %d calls", recorder.calls)
	}
}

type recordingNotifier struct {
	completed []notifications.BuildOutcome
	failed    []error
}

func (r *recordingNotifier) NotifyBuildCompleted(_ context.Context, outcome notifications.BuildOutcome) error {
	r.completed = append(r.completed, outcome)
	return errors.New("ntfy unreachable")
}

func (r *recordingNotifier) NotifyBuildFailed(_ context.Context, _ string, err error) error {
	r.failed = append(r.failed, err)
	return nil
}

func (r *recordingNotifier) TestNotification(context.Context) error { return nil }

func TestRunNotifiesOutcome(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCopyingFFmpeg())
	testsupport.SeedSources(t, cfg)
	notifier := &recordingNotifier{}

	summary, err := pipeline.New(cfg, nil, pipeline.WithNotifier(notifier)).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed despite notifier error: %v", err)
	}
	if len(notifier.completed) != 1 || len(notifier.failed) != 0 {
		t.Fatalf("unexpected notifications: %+v", notifier)
	}
	got := notifier.completed[0]
	if got.BuildID != summary.BuildID || got.Packages != 2 || got.Distributable != cfg.Paths.ArtifactPath {
		t.Fatalf("unexpected outcome: %+v", got)
	}

	failing := testsupport.NewConfig(t, testsupport.WithMissingFFmpeg())
	testsupport.SeedSources(t, failing)
	notifier = &recordingNotifier{}
	if _, err := pipeline.New(failing, nil, pipeline.WithNotifier(notifier)).Run(context.Background()); err == nil {
		t.Fatal("expected failure")
	}
	if len(notifier.failed) != 1 || !errors.Is(notifier.failed[0], services.ErrToolNotFound) {
		t.Fatalf("unexpected failure notifications: %+v", notifier.failed)
	}
}

// interruptingRecorder cancels the build once it has been recorded as started.
type interruptingRecorder struct {
	cancel    context.CancelFunc
	finished  bool
	finishErr error
	finishCtx error
}

func (r *interruptingRecorder) StartBuild(context.Context, string, time.Time) error {
	r.cancel()
	return nil
}

func (r *interruptingRecorder) AddPackage(context.Context, string, history.Package) error {
	return nil
}

func (r *interruptingRecorder) FinishBuild(ctx context.Context, _ string, _ time.Time, _ string, runErr error) error {
	r.finished = true
	r.finishErr = runErr
	r.finishCtx = ctx.Err()
	return ctx.Err()
}

type contextNotifier struct {
	recordingNotifier
	ctxErr error
}

func (c *contextNotifier) NotifyBuildFailed(ctx context.Context, id string, err error) error {
	c.ctxErr = ctx.Err()
	return c.recordingNotifier.NotifyBuildFailed(ctx, id, err)
}

func TestRunRecordsInterruptedBuild(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCopyingFFmpeg())
	testsupport.SeedSources(t, cfg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	recorder := &interruptingRecorder{cancel: cancel}
	notifier := &contextNotifier{}

	_, err := pipeline.New(cfg, nil, pipeline.WithHistory(recorder), pipeline.WithNotifier(notifier)).Run(ctx)
	if err == nil {
		t.Fatal("expected interrupted build to fail")
	}
	if !recorder.finished || recorder.finishErr == nil {
		t.Fatalf("build finish not recorded: %+v", recorder)
	}
	if recorder.finishCtx != nil {
		t.Fatalf("history finish saw cancelled context: %v", recorder.finishCtx)
	}
	if len(notifier.failed) != 1 {
		t.Fatalf("expected one failure notification, got %+v", notifier.failed)
	}
	if notifier.ctxErr != nil {
		t.Fatalf("notification saw cancelled context: %v", notifier.ctxErr)
	}
}
