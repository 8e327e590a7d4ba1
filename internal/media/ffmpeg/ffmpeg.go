package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Subclips are re-encoded to a uniform profile so the final concat can run
// in stream-copy mode without renegotiating codecs per input.
const (
	targetWidth  = 1280
	targetHeight = 720
	targetFPS    = 30
)

func scaleFilter() string {
	return fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,fps=%d",
		targetWidth, targetHeight, targetWidth, targetHeight, targetFPS,
	)
}

// TrimArgs builds the argument list for trimming a subclip out of a video
// source. Seeking happens before the input open so remote locators are not
// read from the beginning.
func TrimArgs(source string, start, duration float64, output string) []string {
	return []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-ss", formatSeconds(start),
		"-t", formatSeconds(duration),
		"-i", source,
		"-vf", scaleFilter(),
		"-c:v", "libx264", "-preset", "veryfast", "-pix_fmt", "yuv420p",
		"-an",
		output,
	}
}

// StillArgs builds the argument list for rendering a still image source as
// a fixed-duration clip with the same profile as trimmed subclips.
func StillArgs(source string, duration float64, output string) []string {
	return []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-loop", "1",
		"-t", formatSeconds(duration),
		"-i", source,
		"-vf", scaleFilter(),
		"-c:v", "libx264", "-preset", "veryfast", "-pix_fmt", "yuv420p",
		"-an",
		output,
	}
}

// ConcatArgs builds the argument list for the concat demuxer run over a
// previously written list file.
func ConcatArgs(listPath, output string) []string {
	return []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "concat", "-safe", "0",
		"-i", listPath,
		"-c", "copy",
		output,
	}
}

// ConcatListEntry renders one line of a concat demuxer list file, escaping
// single quotes in the path.
func ConcatListEntry(path string) string {
	escaped := strings.ReplaceAll(path, "'", `'\''`)
	return fmt.Sprintf("file '%s'\n", escaped)
}

// Run executes the configured ffmpeg binary with the given arguments. The
// context bounds the subprocess lifetime; cancellation kills it.
func Run(ctx context.Context, binary string, args []string) error {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	if len(args) == 0 {
		return errors.New("ffmpeg: no arguments")
	}
	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("ffmpeg: %w", ctxErr)
		}
		return fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func formatSeconds(value float64) string {
	if value < 0 {
		value = 0
	}
	return strconv.FormatFloat(value, 'f', 3, 64)
}
