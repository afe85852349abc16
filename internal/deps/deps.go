// Package deps verifies the external tools a batch run depends on.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"framepress/internal/config"
	"framepress/internal/keepawake"
	"framepress/internal/services"
)

// Status reports the availability of one external tool.
type Status struct {
	Name      string
	Command   string
	Optional  bool
	Available bool
	Detail    string
}

// Check resolves every tool the configuration references. ffmpeg and
// ffprobe are required; the sleep inhibitor is best-effort.
func Check(cfg *config.Config) []Status {
	statuses := []Status{
		lookup("ffmpeg", cfg.Encoder.FFmpegBinary, false),
		lookup("ffprobe", cfg.Encoder.FFprobeBinary, false),
	}
	if helper := keepawake.HelperBinary(); helper != "" {
		statuses = append(statuses, lookup("keep-awake helper", helper, true))
	}
	return statuses
}

// Require fails when any mandatory tool is missing, naming every absent
// binary in one error.
func Require(cfg *config.Config) error {
	var missing []string
	for _, status := range Check(cfg) {
		if !status.Optional && !status.Available {
			missing = append(missing, status.Command)
		}
	}
	if len(missing) > 0 {
		return services.Wrap(services.ErrConfiguration, "deps", "require",
			fmt.Sprintf("required tools not found: %s", strings.Join(missing, ", ")), nil)
	}
	return nil
}

func lookup(name, command string, optional bool) Status {
	status := Status{Name: name, Command: strings.TrimSpace(command), Optional: optional}
	if status.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	resolved, err := exec.LookPath(status.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", status.Command)
		return status
	}
	status.Command = resolved
	status.Available = true
	return status
}
