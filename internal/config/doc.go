// Package config loads, normalizes, and validates the TOML configuration
// for the newsreel pipeline.
//
// Configuration sections by subsystem:
//   - Paths: work, output, and log directories
//   - Search: archival provider endpoint, page size, requested mediatypes
//   - Filter: mediatype allowlist and allowed license classes
//   - Coverage: minimum scene coverage ratio
//   - Tools: ffmpeg/ffprobe binaries and subprocess timeouts
//   - Pipeline: worker counts, run deadline, clip duration
//   - Logging: log format and level
package config
