// Package terminal owns the interactive-input side of a run: TTY detection,
// raw mode as a scoped acquire/release pair, and the keystroke channel.
package terminal

import (
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// IsInteractive reports whether f is attached to a terminal. When it is not,
// the keystroke source is absent and only automatic termination applies.
func IsInteractive(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// RawMode holds the saved terminal state for restoration. Restore is
// idempotent so it can run both from a deferred scope and from a signal
// cleanup path.
type RawMode struct {
	fd    int
	state *term.State
	once  sync.Once
}

// EnterRaw switches f into character-at-a-time, no-echo mode.
func EnterRaw(f *os.File) (*RawMode, error) {
	fd := int(f.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return &RawMode{fd: fd, state: state}, nil
}

// Restore puts the terminal back into its saved state. Safe to call more
// than once and on a nil receiver.
func (r *RawMode) Restore() {
	if r == nil {
		return
	}
	r.once.Do(func() {
		_ = term.Restore(r.fd, r.state)
	})
}

// ReadKeys starts a reader goroutine that delivers f's bytes one at a time.
// The channel closes when the stream ends. The goroutine holds the only read
// on f, so there is exactly one reader of the keystroke stream for the whole
// run; it is not stoppable mid-read and is expected to live until process
// exit.
func ReadKeys(f *os.File) <-chan byte {
	keys := make(chan byte, 8)
	go func() {
		defer close(keys)
		buf := make([]byte, 1)
		for {
			n, err := f.Read(buf)
			if n > 0 {
				keys <- buf[0]
			}
			if err != nil {
				return
			}
		}
	}()
	return keys
}
