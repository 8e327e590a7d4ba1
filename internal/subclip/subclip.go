// Package subclip turns a scene assignment into a short local clip.
//
// Every clip is re-encoded to a uniform profile so the final concat can
// run in stream-copy mode. Moving footage is trimmed from the head of
// the source; still images are looped for the clip duration.
package subclip

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"newsreel/internal/asset"
	"newsreel/internal/config"
	"newsreel/internal/logging"
	"newsreel/internal/media/ffmpeg"
	"newsreel/internal/services"
	"newsreel/internal/textutil"
)

// RunFunc matches ffmpeg.Run and exists so tests can substitute the
// subprocess call.
type RunFunc func(ctx context.Context, binary string, args []string) error

// Builder produces uniform subclips under a run-scoped directory.
type Builder struct {
	binary      string
	timeout     time.Duration
	clipSeconds float64
	outputDir   string
	run         RunFunc
	logger      *slog.Logger
}

// New constructs a builder writing clips into outputDir.
func New(cfg *config.Config, outputDir string, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Builder{
		binary:      cfg.Tools.FFmpegBinary,
		timeout:     cfg.TrimTimeout(),
		clipSeconds: cfg.Pipeline.ClipSeconds,
		outputDir:   outputDir,
		run:         ffmpeg.Run,
		logger:      logger,
	}
}

// WithRun replaces the subprocess runner. Test hook.
func (b *Builder) WithRun(run RunFunc) *Builder {
	b.run = run
	return b
}

// ClipPath returns the deterministic output path for a scene/candidate
// pair. Deterministic paths make reruns idempotent and keep the concat
// list readable.
func (b *Builder) ClipPath(sceneIndex int, candidate asset.Candidate) string {
	name := fmt.Sprintf("scene_%03d_%s.mp4", sceneIndex, textutil.SanitizeToken(candidate.Identifier))
	return filepath.Join(b.outputDir, name)
}

// Build renders the clip for a scene from its assigned candidate and
// returns the clip path. The output file is verified to exist and be
// nonempty, but stream-level validation is the caller's job.
func (b *Builder) Build(ctx context.Context, sceneIndex int, candidate asset.Candidate) (string, error) {
	if candidate.Locator == "" {
		return "", services.Wrap(services.ErrValidation, "subclip", "build", "candidate has no locator", nil)
	}

	outPath := b.ClipPath(sceneIndex, candidate)

	var args []string
	if candidate.MediaType == asset.MediaImage {
		args = ffmpeg.StillArgs(candidate.Locator, b.clipSeconds, outPath)
	} else {
		args = ffmpeg.TrimArgs(candidate.Locator, 0, b.clipSeconds, outPath)
	}

	runCtx := ctx
	if b.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	logging.WithContext(ctx, b.logger).Info("building subclip",
		logging.Int("scene", sceneIndex),
		logging.String("identifier", candidate.Identifier),
		logging.String("media_type", string(candidate.MediaType)),
	)

	if err := b.run(runCtx, b.binary, args); err != nil {
		os.Remove(outPath)
		return "", services.Wrap(services.ErrExternalTool, "subclip", "build",
			fmt.Sprintf("trim failed for %s", candidate.Identifier), err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "subclip", "build",
			fmt.Sprintf("trim produced no output for %s", candidate.Identifier), err)
	}
	if info.Size() == 0 {
		os.Remove(outPath)
		return "", services.Wrap(services.ErrExternalTool, "subclip", "build",
			fmt.Sprintf("trim produced empty output for %s", candidate.Identifier), nil)
	}
	return outPath, nil
}
