// Package encode drives one ffmpeg job at a time: it builds the command,
// owns the child process lifecycle, incrementally parses frame= progress
// markers from the combined output stream, and multiplexes that stream with
// operator keystrokes in a single bounded-wait event loop.
//
// Key invariants:
//   - The child reports frames relative to its seek point; RunState maps
//     them to absolute frame indices and never lets the last-seen frame
//     decrease.
//   - A pause or quit keystroke is dispatched before any progress queued in
//     the same loop iteration.
//   - Process termination is a graceful stop signal; the exit status is
//     collected by a final wait after the loop ends.
package encode
