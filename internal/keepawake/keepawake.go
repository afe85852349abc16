// Package keepawake spawns a helper process that inhibits system sleep for
// the duration of a batch run. Absence of a suitable helper is not an error;
// encoding simply proceeds without it.
package keepawake

import (
	"log/slog"
	"os/exec"
	"runtime"
	"sync"
	"syscall"

	"framepress/internal/logging"
)

// Start launches the platform's sleep inhibitor, if one exists, and returns
// a stop function. The stop function is idempotent and safe to call from
// both the normal and the signal cleanup path.
func Start(logger *slog.Logger) (stop func()) {
	cmd := command()
	if cmd == nil {
		return func() {}
	}
	if err := cmd.Start(); err != nil {
		if logger != nil {
			logger.Debug("keep-awake helper unavailable", logging.Error(err))
		}
		return func() {}
	}
	if logger != nil {
		logger.Debug("keep-awake helper started", logging.String("helper", cmd.Path))
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = cmd.Process.Signal(syscall.SIGTERM)
			_ = cmd.Wait()
		})
	}
}

// HelperBinary names the sleep inhibitor used on this platform, or "" when
// the platform has none.
func HelperBinary() string {
	switch runtime.GOOS {
	case "darwin":
		return "caffeinate"
	case "linux":
		return "systemd-inhibit"
	}
	return ""
}

func command() *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		if path, err := exec.LookPath("caffeinate"); err == nil {
			return exec.Command(path, "-i")
		}
	case "linux":
		if path, err := exec.LookPath("systemd-inhibit"); err == nil {
			return exec.Command(path, "--what=idle:sleep", "--who=framepress", "--why=batch encode", "sleep", "infinity")
		}
	}
	return nil
}
