// Package ffmpeg wraps the ffmpeg invocations the pipeline performs: per-
// scene subclip trims, still-image clips, and the final concat demuxer run.
//
// Success is defined by process exit status; visual validity is certified
// separately by the stream probe.
package ffmpeg
