package encode

import (
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"

	"framepress/internal/config"
	"framepress/internal/services"
)

// Process is a handle to a running encoder child. The combined stdout and
// stderr stream is exposed through Output; Terminate requests a graceful
// stop and Wait collects the exit status.
type Process struct {
	cmd      *exec.Cmd
	output   io.ReadCloser
	termOnce sync.Once
}

// Start launches the encoder for job. The child is deliberately not bound
// to a context: cancellation must arrive as a graceful stop signal through
// Terminate, never as a hard kill.
func Start(cfg *config.Config, job Job, resumeFrame int64) (*Process, error) {
	cmd := exec.Command(cfg.Encoder.FFmpegBinary, BuildArgs(cfg, job, resumeFrame)...)
	proc, err := newProcess(cmd)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "encode", "start ffmpeg", job.InputPath, err)
	}
	return proc, nil
}

func newProcess(cmd *exec.Cmd) (*Process, error) {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &Process{cmd: cmd, output: stdout}, nil
}

// Output returns the child's combined stdout+stderr stream.
func (p *Process) Output() io.Reader { return p.output }

// Terminate sends the child a graceful stop signal. Idempotent; delivery
// failures are swallowed since the process may already be gone.
func (p *Process) Terminate() {
	p.termOnce.Do(func() {
		if p.cmd.Process != nil {
			_ = p.cmd.Process.Signal(syscall.SIGTERM)
		}
	})
}

// Wait collects the exit status. All reads from Output must have completed.
func (p *Process) Wait() error {
	return p.cmd.Wait()
}
