package logging

import (
	"context"
	"log/slog"
	"time"

	"opensound/internal/services"
)

// Standard attribute keys.
const (
	FieldComponent = "component"
	FieldBuildID   = "build_id"
	FieldStage     = "stage"
	FieldPackage   = "package"
	// FieldEventType classifies warnings for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests what the operator should check.
	FieldErrorHint = "error_hint"
	// FieldImpact is the consequence of a warning for the current build.
	FieldImpact = "impact"
)

// headerKeys are rendered ahead of other attributes by the console handler.
var headerKeys = []string{FieldBuildID, FieldStage, FieldPackage}

func String(key, value string) slog.Attr { return slog.String(key, value) }

func Int(key string, value int) slog.Attr { return slog.Int(key, value) }

func Int64(key string, value int64) slog.Attr { return slog.Int64(key, value) }

func Duration(key string, value time.Duration) slog.Attr { return slog.Duration(key, value) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// WithContext tags logger with the build id, stage and package carried by ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if ctx == nil {
		return logger
	}
	var args []any
	if id, ok := services.BuildIDFromContext(ctx); ok {
		args = append(args, slog.String(FieldBuildID, id))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		args = append(args, slog.String(FieldStage, stage))
	}
	if pkg, ok := services.PackageFromContext(ctx); ok {
		args = append(args, slog.String(FieldPackage, pkg))
	}
	if len(args) == 0 {
		return logger
	}
	return logger.With(args...)
}

// NewComponentLogger tags logger with a component name. A nil logger yields a
// no-op logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(slog.String(FieldComponent, component))
}

// WarnWithContext logs a warning that always carries event_type, error_hint
// and impact. Missing fields get defaults.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...slog.Attr) {
	if logger == nil {
		return
	}
	has := make(map[string]bool, len(attrs))
	args := make([]any, 0, len(attrs)+3)
	for _, a := range attrs {
		has[a.Key] = true
		args = append(args, a)
	}
	if !has[FieldEventType] {
		args = append(args, slog.String(FieldEventType, eventType))
	}
	if !has[FieldErrorHint] {
		args = append(args, slog.String(FieldErrorHint, "rerun with --verbose for details"))
	}
	if !has[FieldImpact] {
		args = append(args, slog.String(FieldImpact, "build continues"))
	}
	logger.Warn(msg, args...)
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
