package encode

import (
	"context"
	"time"
)

// SessionOptions configures the per-job event loop.
type SessionOptions struct {
	// Keys delivers operator keystrokes one byte at a time. Nil when the
	// input is not an interactive terminal; only automatic termination
	// conditions apply then.
	Keys <-chan byte
	// PollInterval bounds the wait inside the loop so cancellation and
	// cleanup are never starved. Defaults to 100ms.
	PollInterval time.Duration
	// OnFrame is invoked with every absolute frame index, in stream order.
	OnFrame func(absFrame int64)
	// OnPause persists the checkpoint the moment pause is requested, before
	// the child is told to stop.
	OnPause func(frame int64)
}

// Result describes how a session ended.
type Result struct {
	Outcome   Outcome
	LastFrame int64
	// ExitErr is the child's wait error; nil means exit status zero. For
	// pause and quit it reflects the terminated process and carries no
	// meaning beyond reaping.
	ExitErr error
}

// RunSession multiplexes proc's output stream with operator keystrokes until
// the job reaches a terminal state. Context cancellation (the OS interrupt
// path) is treated exactly like the quit key. The child's exit status is
// always collected before returning, so callers never leak a zombie.
func RunSession(ctx context.Context, proc *Process, startFrame int64, opts SessionOptions) Result {
	state := NewRunState(startFrame)
	parser := NewParser(func(rel int64) {
		abs := state.Observe(rel)
		if opts.OnFrame != nil {
			opts.OnFrame(abs)
		}
	})

	output := make(chan []byte, 1)
	go func() {
		defer close(output)
		buf := make([]byte, 4096)
		for {
			n, err := proc.Output().Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				output <- chunk
			}
			if err != nil {
				return
			}
		}
	}()

	interval := opts.PollInterval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	keys := opts.Keys

	finish := func(outcome Outcome) {
		if outcome == OutcomePause && opts.OnPause != nil {
			opts.OnPause(state.LastFrame)
		}
		proc.Terminate()
	}

loop:
	for {
		// Control dispatch comes first: a pause or quit keystroke queued in
		// this iteration wins over any pending progress.
		select {
		case key, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			if outcome := state.HandleKey(key); outcome.Terminal() {
				finish(outcome)
				break loop
			}
			continue
		default:
		}

		select {
		case <-ctx.Done():
			finish(state.RequestQuit())
			break loop
		case key, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			if outcome := state.HandleKey(key); outcome.Terminal() {
				finish(outcome)
				break loop
			}
		case chunk, ok := <-output:
			if !ok {
				break loop
			}
			parser.Consume(chunk)
		case <-ticker.C:
			// Bounded wait only; the next iteration re-checks everything.
		}
	}

	// Drain whatever the child emitted between the break and its exit so the
	// reader goroutine reaches EOF, then reap the process.
	for range output {
	}
	exitErr := proc.Wait()
	state.HandleExit(exitErr)

	return Result{Outcome: state.Outcome(), LastFrame: state.LastFrame, ExitErr: exitErr}
}
