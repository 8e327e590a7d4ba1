// Package compile assembles validated subclips into the final artifact.
//
// The assembler owns the last two validation layers. Layer B re-probes
// the whole pool and aborts listing every offender before any concat
// work starts. Layer C lives inside Concatenate itself so that even a
// direct caller bypassing Assemble cannot feed the concat demuxer an
// unprobed file. The artifact is probed once more before it is moved
// into the output directory.
package compile

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"newsreel/internal/config"
	"newsreel/internal/fileutil"
	"newsreel/internal/logging"
	"newsreel/internal/manifest"
	"newsreel/internal/media/ffmpeg"
	"newsreel/internal/services"
	"newsreel/internal/validate"
)

// RunFunc matches ffmpeg.Run. Test hook.
type RunFunc func(ctx context.Context, binary string, args []string) error

// Assembler concatenates a sealed manifest's clips into one artifact.
type Assembler struct {
	binary    string
	timeout   time.Duration
	outputDir string
	validator *validate.StreamValidator
	run       RunFunc
	logger    *slog.Logger
}

// New constructs an assembler. The validator is shared with the rest of
// the pipeline so all layers probe the same way.
func New(cfg *config.Config, validator *validate.StreamValidator, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Assembler{
		binary:    cfg.Tools.FFmpegBinary,
		timeout:   cfg.ConcatTimeout(),
		outputDir: cfg.Paths.OutputDir,
		validator: validator,
		run:       ffmpeg.Run,
		logger:    logger,
	}
}

// WithRun replaces the subprocess runner. Test hook.
func (a *Assembler) WithRun(run RunFunc) *Assembler {
	a.run = run
	return a
}

// Assemble concatenates the manifest's clips in scene order and moves
// the artifact into the output directory. The manifest must contain
// only stream-valid assignments; anything else is a caller bug.
func (a *Assembler) Assemble(ctx context.Context, m *manifest.Manifest, workDir string) (string, error) {
	if len(m.Assignments) == 0 {
		return "", services.Wrap(services.ErrValidation, "compile", "assemble", "manifest has no assignments", nil)
	}
	if err := m.RequireAllStreamValid(); err != nil {
		return "", services.Wrap(services.ErrValidation, "compile", "assemble", "manifest not sealed", err)
	}

	// Layer B: re-probe the whole pool. A clip that passed its build-time
	// probe can still have been truncated or replaced on disk since.
	var offenders []string
	for _, assignment := range m.Assignments {
		if !a.validator.HasVideoStream(ctx, assignment.ClipPath) {
			offenders = append(offenders, assignment.ClipPath)
		}
	}
	if len(offenders) > 0 {
		return "", services.NewStructured(
			services.CodeStreamValidationFailed,
			"clips lost their video stream between build and assembly",
			len(offenders), len(m.Assignments), offenders,
		)
	}

	paths := make([]string, len(m.Assignments))
	for i, assignment := range m.Assignments {
		paths[i] = assignment.ClipPath
	}

	stagedPath := filepath.Join(workDir, fmt.Sprintf("compilation_%s.mp4", m.RunID))
	if err := a.Concatenate(ctx, paths, stagedPath); err != nil {
		return "", err
	}

	if !a.validator.HasVideoStream(ctx, stagedPath) {
		return "", services.NewStructured(
			services.CodeArtifactInvalid,
			"concatenated artifact has no video stream",
			1, 1, []string{stagedPath},
		)
	}

	finalPath := filepath.Join(a.outputDir, fmt.Sprintf("newsreel_%s.mp4", m.RunID))
	if err := fileutil.MoveFile(stagedPath, finalPath); err != nil {
		return "", services.Wrap(services.ErrTransient, "compile", "assemble", "move artifact to output directory", err)
	}

	logging.WithContext(ctx, a.logger).Info("compilation assembled",
		logging.String("artifact", finalPath),
		logging.Int("clips", len(paths)),
	)
	return finalPath, nil
}

// Concatenate joins clipPaths into outputPath with the concat demuxer.
// Every input is probed immediately before the list file is written;
// this check is deliberately redundant with the assembler's pool-wide
// pass so the primitive stays safe when called directly.
func (a *Assembler) Concatenate(ctx context.Context, clipPaths []string, outputPath string) error {
	if len(clipPaths) == 0 {
		return services.Wrap(services.ErrValidation, "compile", "concatenate", "no input clips", nil)
	}

	var offenders []string
	for _, path := range clipPaths {
		if !a.validator.HasVideoStream(ctx, path) {
			offenders = append(offenders, path)
		}
	}
	if len(offenders) > 0 {
		return services.NewStructured(
			services.CodeConcatInputInvalid,
			"concat inputs missing a video stream",
			len(offenders), len(clipPaths), offenders,
		)
	}

	var list strings.Builder
	for _, path := range clipPaths {
		list.WriteString(ffmpeg.ConcatListEntry(path))
	}
	listPath := outputPath + ".concat.txt"
	if err := fileutil.WriteFileAtomic(listPath, []byte(list.String()), 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "compile", "concatenate", "write concat list", err)
	}

	runCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	if err := a.run(runCtx, a.binary, ffmpeg.ConcatArgs(listPath, outputPath)); err != nil {
		return services.Wrap(services.ErrExternalTool, "compile", "concatenate", "concat demuxer failed", err)
	}
	return nil
}
