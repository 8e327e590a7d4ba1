// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// The stream-validation layers use VideoStreamIndexes, which restricts the
// probe to the video stream class: an empty index list means the container
// has no video track, regardless of file size.
package ffprobe
