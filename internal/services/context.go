package services

import "context"

type contextKey string

const (
	buildIDKey contextKey = "build_id"
	stageKey   contextKey = "stage"
	packageKey contextKey = "package"
)

// WithBuildID annotates context with the pipeline run identifier.
func WithBuildID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, buildIDKey, id)
}

// BuildIDFromContext extracts the pipeline run identifier if present.
func BuildIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(buildIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithPackage annotates context with the manifest id of the package being built.
func WithPackage(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, packageKey, id)
}

// PackageFromContext returns the package id if present.
func PackageFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(packageKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
