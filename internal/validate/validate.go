// Package validate implements the stream probe shared by the three
// validation layers.
//
// File existence and nonzero size do not imply a usable video track: a
// failed trim can still leave a well-formed container with zero video
// streams. The probe inspects the container's stream table restricted to
// the video class and fails closed on any probe error or timeout.
package validate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"newsreel/internal/config"
	"newsreel/internal/logging"
	"newsreel/internal/media/ffprobe"
)

// ProbeFunc matches ffprobe.VideoStreamIndexes and exists so tests can
// substitute the subprocess call.
type ProbeFunc func(ctx context.Context, binary, path string) ([]int, error)

// StreamValidator answers one question: does this file contain at least
// one video stream.
type StreamValidator struct {
	binary  string
	timeout time.Duration
	probe   ProbeFunc
	logger  *slog.Logger
}

// New constructs a validator from configuration.
func New(cfg *config.Config, logger *slog.Logger) *StreamValidator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamValidator{
		binary:  cfg.Tools.FFprobeBinary,
		timeout: cfg.ProbeTimeout(),
		probe:   ffprobe.VideoStreamIndexes,
		logger:  logger,
	}
}

// NewWithProbe constructs a validator around an explicit probe function.
func NewWithProbe(probe ProbeFunc, timeout time.Duration, logger *slog.Logger) *StreamValidator {
	if logger == nil {
		logger = logging.NewNop()
	}
	if probe == nil {
		probe = func(context.Context, string, string) ([]int, error) {
			return nil, errors.New("no probe configured")
		}
	}
	return &StreamValidator{probe: probe, timeout: timeout, logger: logger}
}

// HasVideoStream probes path and reports whether a video stream is
// present. A probe error or timeout is treated identically to "no video
// stream found": the caller must not accept the clip.
func (v *StreamValidator) HasVideoStream(ctx context.Context, path string) bool {
	probeCtx := ctx
	if v.timeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	indexes, err := v.probe(probeCtx, v.binary, path)
	if err != nil {
		logging.WithContext(ctx, v.logger).Warn("stream probe failed, treating file as videoless",
			logging.String("path", path),
			logging.Error(err),
		)
		return false
	}
	return len(indexes) > 0
}
