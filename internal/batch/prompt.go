package batch

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"framepress/internal/checkpoint"
	"framepress/internal/logging"
)

// resolveResume loads the checkpoint slot and decides whether this run
// honors it. A checkpoint naming a file that is no longer in the directory
// is ignored but left in place. Declining the prompt clears the slot;
// non-interactive runs start fresh without clearing it.
func (o *Orchestrator) resolveResume(files []string, opts Options) *checkpoint.Checkpoint {
	record := o.store.Load()
	if record == nil {
		return nil
	}
	if !slices.Contains(files, record.File) {
		o.logger.Warn("checkpoint refers to a missing file, ignoring",
			logging.String("file", record.File),
		)
		return nil
	}
	if opts.AssumeYes {
		o.logger.Info("resuming from checkpoint",
			logging.String("file", record.File),
			logging.Int64("frame", record.Frame),
		)
		return record
	}
	if !o.interactive {
		o.logger.Info("checkpoint present but input is not a terminal, starting fresh",
			logging.String("file", record.File),
		)
		return nil
	}

	fmt.Fprintf(o.stdout, "\nFound partial work for: %s\n", record.File)
	fmt.Fprintf(o.stdout, "Resume from frame %d? (Y/n): ", record.Frame)
	answer, err := readLine(o.promptIn)
	if err != nil {
		return nil
	}
	if strings.EqualFold(answer, "n") || strings.EqualFold(answer, "no") {
		if err := o.store.Clear(); err != nil {
			o.logger.Warn("failed to clear checkpoint", logging.Error(err))
		}
		o.logger.Info("checkpoint discarded, starting fresh")
		return nil
	}
	return record
}

// readLine reads up to the next newline one byte at a time so no input
// beyond the answer is consumed; the rest of the stream belongs to the
// keystroke reader.
func readLine(r io.Reader) (string, error) {
	var line []byte
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				break
			}
			line = append(line, buf[0])
		}
		if err != nil {
			if err == io.EOF && len(line) > 0 {
				break
			}
			return "", err
		}
	}
	return strings.TrimSpace(string(line)), nil
}
