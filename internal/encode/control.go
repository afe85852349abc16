package encode

// Outcome is the control state of a job. Running is the only state with
// outgoing transitions; all others are terminal.
type Outcome int

const (
	OutcomeRunning Outcome = iota
	// OutcomePause: operator requested pause; progress is checkpointed.
	OutcomePause
	// OutcomeQuit: operator requested quit (keystroke or OS signal).
	OutcomeQuit
	// OutcomeDone: child exited zero with no pause/quit pending.
	OutcomeDone
	// OutcomeFailed: child exited non-zero with no pause/quit pending.
	OutcomeFailed
)

// Terminal reports whether no further transition can occur.
func (o Outcome) Terminal() bool { return o != OutcomeRunning }

func (o Outcome) String() string {
	switch o {
	case OutcomeRunning:
		return "running"
	case OutcomePause:
		return "paused"
	case OutcomeQuit:
		return "quit"
	case OutcomeDone:
		return "completed"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Operator control keys. In raw mode Ctrl-C arrives as a plain byte rather
// than a signal, so it maps to quit here.
const (
	keyQuit  = 'q'
	keyPause = 'p'
	keySpace = ' '
	keyETX   = 0x03
)

// RunState is the transient per-job state shared between loop iterations:
// the resume offset, the last absolute frame seen, and the control outcome.
type RunState struct {
	StartFrame int64
	LastFrame  int64
	outcome    Outcome
}

// NewRunState initializes state for a job beginning at startFrame.
func NewRunState(startFrame int64) *RunState {
	return &RunState{StartFrame: startFrame, LastFrame: startFrame}
}

// Observe folds a relative frame report into the absolute last-seen frame
// and returns it. The value never decreases.
func (s *RunState) Observe(relFrame int64) int64 {
	if abs := s.StartFrame + relFrame; abs > s.LastFrame {
		s.LastFrame = abs
	}
	return s.LastFrame
}

// HandleKey applies one keystroke. Unrecognized keys cause no transition,
// and a terminal state is never left.
func (s *RunState) HandleKey(key byte) Outcome {
	if s.outcome.Terminal() {
		return s.outcome
	}
	switch key | 0x20 { // ASCII lowercase; harmless for space
	case keyQuit:
		s.outcome = OutcomeQuit
	case keyPause, keySpace:
		s.outcome = OutcomePause
	default:
		if key == keyETX {
			s.outcome = OutcomeQuit
		}
	}
	return s.outcome
}

// RequestQuit forces the quit transition; used for OS interrupt and
// termination signals, which behave exactly like the quit key.
func (s *RunState) RequestQuit() Outcome {
	if !s.outcome.Terminal() {
		s.outcome = OutcomeQuit
	}
	return s.outcome
}

// HandleExit records the child's exit. It has no effect once a pause or
// quit has been requested.
func (s *RunState) HandleExit(err error) Outcome {
	if s.outcome.Terminal() {
		return s.outcome
	}
	if err == nil {
		s.outcome = OutcomeDone
	} else {
		s.outcome = OutcomeFailed
	}
	return s.outcome
}

// Outcome returns the current control state.
func (s *RunState) Outcome() Outcome { return s.outcome }
