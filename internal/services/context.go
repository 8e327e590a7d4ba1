package services

import "context"

type contextKey string

const (
	runIDKey    contextKey = "run_id"
	stageKey    contextKey = "stage"
	sceneKey    contextKey = "scene_index"
	providerKey contextKey = "provider"
)

// WithRunID annotates context with the pipeline run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(runIDKey).(string); ok && str != "" {
		return str, true
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
	if str, ok := ctx.Value(stageKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithScene annotates context with the zero-based scene index.
func WithScene(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, sceneKey, index)
}

// SceneFromContext extracts the scene index if present.
func SceneFromContext(ctx context.Context) (int, bool) {
	if idx, ok := ctx.Value(sceneKey).(int); ok {
		return idx, true
	}
	return 0, false
}

// WithProvider annotates context with the search provider name.
func WithProvider(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, providerKey, name)
}

// ProviderFromContext returns the provider name if present.
func ProviderFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(providerKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}
