// Package config loads, validates, and defaults the TOML configuration.
//
// Configuration sections:
//   - Encoder: ffmpeg/ffprobe binaries and codec parameters
//   - Files: extension filter, output naming, checkpoint and lock files
//   - Session: event-loop poll interval and keep-awake toggle
//   - Logging: log format, level, and log file directory
//   - History: run-history database location
package config
