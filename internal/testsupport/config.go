// Package testsupport provides builders and fixtures shared across package
// tests.
package testsupport

import (
	"testing"

	"framepress/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a validated default config tuned for fast tests.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Session.PollIntervalMS = 10
	cfg.Session.KeepAwake = false
	cfg.History.Enabled = false

	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithBinaries points the encoder at stub ffmpeg/ffprobe executables.
func WithBinaries(ffmpeg, ffprobe string) ConfigOption {
	return func(c *config.Config) {
		c.Encoder.FFmpegBinary = ffmpeg
		c.Encoder.FFprobeBinary = ffprobe
	}
}

// WithTargetCodec overrides the codec the skip rules look for.
func WithTargetCodec(codec string) ConfigOption {
	return func(c *config.Config) {
		c.Encoder.TargetCodec = codec
	}
}
