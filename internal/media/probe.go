package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"framepress/internal/services"
)

// fallbackFPS applies when the reported frame rate is missing or malformed.
const fallbackFPS = 25

// Info describes the video properties framepress needs from a file.
type Info struct {
	Codec       string
	FPS         float64
	Duration    float64
	TotalFrames int64
}

var commandContext = exec.CommandContext

// Probe runs ffprobe against path and extracts the first video stream's
// codec and frame rate plus the container duration. Files without a video
// stream yield an empty codec name.
func Probe(ctx context.Context, binary, path string) (Info, error) {
	cmd := commandContext(ctx, binary,
		"-v", "error",
		"-show_entries", "stream=codec_name,codec_type,r_frame_rate:format=duration",
		"-of", "json",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return Info{}, services.Wrap(services.ErrExternalTool, "media", "probe", path, err)
	}
	info, err := parseProbeOutput(out)
	if err != nil {
		return Info{}, services.Wrap(services.ErrExternalTool, "media", "parse probe output", path, err)
	}
	return info, nil
}

func parseProbeOutput(data []byte) (Info, error) {
	var payload struct {
		Streams []struct {
			CodecName  string `json:"codec_name"`
			CodecType  string `json:"codec_type"`
			RFrameRate string `json:"r_frame_rate"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return Info{}, fmt.Errorf("decode ffprobe json: %w", err)
	}

	info := Info{FPS: fallbackFPS}
	for _, stream := range payload.Streams {
		if stream.CodecType != "video" {
			continue
		}
		info.Codec = strings.ToLower(stream.CodecName)
		info.FPS = parseRate(stream.RFrameRate)
		break
	}

	if payload.Format.Duration != "" {
		if seconds, err := strconv.ParseFloat(payload.Format.Duration, 64); err == nil {
			info.Duration = seconds
		}
	}

	info.TotalFrames = int64(info.Duration * info.FPS)
	if info.TotalFrames < 1 {
		info.TotalFrames = 1
	}
	return info, nil
}

// parseRate decodes ffprobe's rational frame rate ("30000/1001"). Malformed
// or zero-denominator values fall back to 25fps, matching the tolerance the
// rest of the pipeline expects.
func parseRate(raw string) float64 {
	num, den, ok := strings.Cut(strings.TrimSpace(raw), "/")
	if !ok {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			return v
		}
		return fallbackFPS
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return fallbackFPS
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return fallbackFPS
	}
	return n / d
}
