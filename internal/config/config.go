package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Encoder contains the ffmpeg invocation settings.
type Encoder struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
	// TargetCodec is the codec name ffprobe reports for already-converted
	// files (used by the skip rules), not the encoder name.
	TargetCodec  string `toml:"target_codec"`
	VideoCodec   string `toml:"video_codec"`
	VideoParams  string `toml:"video_params"`
	AudioCodec   string `toml:"audio_codec"`
	AudioQuality int    `toml:"audio_quality"`
}

// Files contains file selection and naming settings.
type Files struct {
	VideoExtensions []string `toml:"video_extensions"`
	OutputSuffix    string   `toml:"output_suffix"`
	ListFile        string   `toml:"list_file"`
	CheckpointFile  string   `toml:"checkpoint_file"`
	LockFile        string   `toml:"lock_file"`
}

// Session contains event-loop and run-environment settings.
type Session struct {
	PollIntervalMS int  `toml:"poll_interval_ms"`
	KeepAwake      bool `toml:"keep_awake"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// Dir receives the per-run log file; empty means the working directory.
	Dir string `toml:"dir"`
}

// History contains configuration for the run-history database.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Config encapsulates all configuration values for framepress.
type Config struct {
	Encoder Encoder `toml:"encoder"`
	Files   Files   `toml:"files"`
	Session Session `toml:"session"`
	Logging Logging `toml:"logging"`
	History History `toml:"history"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/framepress/config.toml")
}

// Load locates, parses, and validates a configuration file. Missing files are
// not an error: defaults apply and exists reports false.
func Load(path string) (cfg *Config, resolvedPath string, exists bool, err error) {
	value := Default()

	resolvedPath, exists, err = resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&value); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := value.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := value.Validate(); err != nil {
		return nil, "", false, err
	}

	return &value, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("framepress.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

// HasExtension reports whether name carries one of the configured video
// extensions (case-insensitive).
func (c *Config) HasExtension(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range c.Files.VideoExtensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

func (c *Config) normalize() error {
	c.Encoder.TargetCodec = strings.ToLower(strings.TrimSpace(c.Encoder.TargetCodec))
	c.Files.OutputSuffix = strings.TrimSpace(c.Files.OutputSuffix)
	for i, ext := range c.Files.VideoExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Files.VideoExtensions[i] = ext
	}
	if c.Logging.Dir != "" {
		expanded, err := expandPath(c.Logging.Dir)
		if err != nil {
			return err
		}
		c.Logging.Dir = expanded
	}
	if c.History.Path != "" {
		expanded, err := expandPath(c.History.Path)
		if err != nil {
			return err
		}
		c.History.Path = expanded
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	trimmed := strings.TrimSpace(pathValue)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return filepath.Abs(trimmed)
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
