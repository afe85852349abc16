package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateEncoder(); err != nil {
		return err
	}
	if err := c.validateFiles(); err != nil {
		return err
	}
	if err := c.validateSession(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateEncoder() error {
	if strings.TrimSpace(c.Encoder.FFmpegBinary) == "" {
		return errors.New("encoder.ffmpeg_binary must be set")
	}
	if strings.TrimSpace(c.Encoder.FFprobeBinary) == "" {
		return errors.New("encoder.ffprobe_binary must be set")
	}
	if c.Encoder.TargetCodec == "" {
		return errors.New("encoder.target_codec must be set")
	}
	if strings.TrimSpace(c.Encoder.VideoCodec) == "" {
		return errors.New("encoder.video_codec must be set")
	}
	if c.Encoder.AudioQuality < 0 || c.Encoder.AudioQuality > 9 {
		return errors.New("encoder.audio_quality must be between 0 and 9")
	}
	return nil
}

func (c *Config) validateFiles() error {
	if len(c.Files.VideoExtensions) == 0 {
		return errors.New("files.video_extensions must not be empty")
	}
	for _, ext := range c.Files.VideoExtensions {
		if ext == "" || ext == "." {
			return fmt.Errorf("files.video_extensions contains an invalid entry %q", ext)
		}
	}
	if c.Files.OutputSuffix == "" {
		return errors.New("files.output_suffix must be set")
	}
	if strings.TrimSpace(c.Files.CheckpointFile) == "" {
		return errors.New("files.checkpoint_file must be set")
	}
	if strings.TrimSpace(c.Files.ListFile) == "" {
		return errors.New("files.list_file must be set")
	}
	return nil
}

func (c *Config) validateSession() error {
	if c.Session.PollIntervalMS <= 0 {
		return errors.New("session.poll_interval_ms must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
}

func (c *Config) validateHistory() error {
	if c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		return errors.New("history.path must be set when history.enabled is true")
	}
	return nil
}
