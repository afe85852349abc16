package encode

import (
	"strconv"
	"strings"

	"framepress/internal/config"
	"framepress/internal/media"
)

// Job describes one transcode: the source file, the temporary output the
// encoder writes, and the probed metadata. Metadata is read-only after
// creation.
type Job struct {
	InputPath  string
	OutputPath string
	Meta       media.Info
}

// BuildArgs assembles the ffmpeg argument list for job. A positive
// resumeFrame is translated into an input seek of resumeFrame/fps seconds;
// the child then reports frame numbers relative to that point.
func BuildArgs(cfg *config.Config, job Job, resumeFrame int64) []string {
	args := []string{"-nostdin"}
	if resumeFrame > 0 {
		fps := job.Meta.FPS
		if fps <= 0 {
			fps = 25
		}
		seek := float64(resumeFrame) / fps
		args = append(args, "-ss", strconv.FormatFloat(seek, 'f', 3, 64))
	}
	args = append(args,
		"-i", job.InputPath,
		"-c:v", cfg.Encoder.VideoCodec,
	)
	if cfg.Encoder.VideoParams != "" {
		args = append(args, "-x265-params", cfg.Encoder.VideoParams)
	}
	args = append(args,
		"-c:a", cfg.Encoder.AudioCodec,
		"-q:a", strconv.Itoa(cfg.Encoder.AudioQuality),
		"-y", job.OutputPath,
	)
	return args
}

// CommandLine renders the full invocation for dry-run logging.
func CommandLine(cfg *config.Config, job Job, resumeFrame int64) string {
	parts := []string{cfg.Encoder.FFmpegBinary}
	for _, arg := range BuildArgs(cfg, job, resumeFrame) {
		if strings.ContainsAny(arg, " \t\"") {
			arg = strconv.Quote(arg)
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}
