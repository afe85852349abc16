// Package batch iterates the eligible files of a working directory and runs
// one encode job at a time, applying the skip, resume, and cleanup rules.
package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"framepress/internal/checkpoint"
	"framepress/internal/config"
	"framepress/internal/encode"
	"framepress/internal/fileutil"
	"framepress/internal/history"
	"framepress/internal/logging"
	"framepress/internal/media"
	"framepress/internal/scan"
	"framepress/internal/terminal"
)

// Options selects the run mode.
type Options struct {
	// DryRun logs the command each eligible file would get without
	// executing anything.
	DryRun bool
	// ListMode writes the absolute paths of eligible files to the
	// configured list file instead of transcoding.
	ListMode bool
	// AssumeYes accepts a matching checkpoint without prompting.
	AssumeYes bool
}

type probeFunc func(ctx context.Context, binary, path string) (media.Info, error)
type startFunc func(cfg *config.Config, job encode.Job, resumeFrame int64) (*encode.Process, error)

// Orchestrator owns one batch run over a directory.
type Orchestrator struct {
	cfg    *config.Config
	dir    string
	store  *checkpoint.Store
	hist   *history.Store
	logger *slog.Logger
	runID  string

	stdin       *os.File
	stdout      io.Writer
	promptIn    io.Reader
	interactive bool

	probe    probeFunc
	start    startFunc
	keys     <-chan byte
	keysOnce sync.Once

	// frameHook, when set, observes every absolute frame index. Test hook.
	frameHook func(absFrame int64)
}

// New constructs an orchestrator over dir. hist may be nil when history is
// disabled.
func New(cfg *config.Config, dir string, store *checkpoint.Store, hist *history.Store, logger *slog.Logger, runID string) *Orchestrator {
	return &Orchestrator{
		cfg:         cfg,
		dir:         dir,
		store:       store,
		hist:        hist,
		logger:      logging.WithComponent(logger, "batch"),
		runID:       runID,
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		promptIn:    os.Stdin,
		interactive: terminal.IsInteractive(os.Stdin),
		probe:       media.Probe,
		start:       encode.Start,
	}
}

// Run processes every eligible file in order until the list is exhausted or
// a pause/quit halts the loop. The only fatal error is an unreadable
// directory listing; everything else is handled per file.
func (o *Orchestrator) Run(ctx context.Context, opts Options) error {
	files, err := scan.Eligible(o.dir, o.cfg.Files.VideoExtensions, o.cfg.Files.OutputSuffix)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		o.logger.Info("no candidate files found")
		return nil
	}

	resume := o.resolveResume(files, opts)
	o.printSummary(files, resume)

	var eligible []string

	for _, file := range files {
		if ctx.Err() != nil {
			o.logger.Info("run interrupted before next file")
			break
		}

		inputPath := filepath.Join(o.dir, file)
		outputPath := o.outputPathFor(inputPath)
		resuming := resume != nil && resume.File == file

		info, err := o.probe(ctx, o.cfg.Encoder.FFprobeBinary, inputPath)
		if err != nil {
			o.logger.Warn("skipping file: probe failed", logging.String("file", file), logging.Error(err))
			continue
		}
		o.logger.Info("file probed",
			logging.String("file", file),
			logging.String("codec", info.Codec),
			logging.Float64("duration_s", info.Duration),
		)

		if info.Codec == o.cfg.Encoder.TargetCodec && !resuming {
			o.logger.Info("skipping file: already in target codec", logging.String("file", file))
			continue
		}
		if !resuming && o.outputAlreadyConverted(ctx, outputPath) {
			o.logger.Info("skipping file: converted output already present",
				logging.String("file", file),
				logging.String("output", filepath.Base(outputPath)),
			)
			continue
		}

		eligible = append(eligible, file)

		var startFrame int64
		if resuming {
			startFrame = resume.Frame
			o.logger.Info("resuming file", logging.String("file", file), logging.Int64("frame", startFrame))
		} else {
			o.logger.Info("processing file", logging.String("file", file))
		}

		job := encode.Job{InputPath: inputPath, OutputPath: outputPath, Meta: info}

		if opts.DryRun {
			o.logger.Info("dry run", logging.String("command", encode.CommandLine(o.cfg, job, startFrame)))
			resume = nil
			continue
		}
		if opts.ListMode {
			resume = nil
			continue
		}

		startedAt := time.Now()
		result, err := o.runJob(ctx, job, startFrame)
		if err != nil {
			o.logger.Error("failed to start encoder", logging.String("file", file), logging.Error(err))
			o.record(ctx, file, info, "failed", startFrame, startedAt)
			continue
		}

		if halt := o.settle(ctx, file, job, info, result, startedAt); halt {
			return nil
		}
	}

	if opts.ListMode {
		listPath := filepath.Join(o.dir, o.cfg.Files.ListFile)
		if err := scan.WriteList(listPath, o.dir, eligible); err != nil {
			o.logger.Error("failed to write file list", logging.Error(err))
			return err
		}
		o.logger.Info("file list saved", logging.String("path", listPath), logging.Int("files", len(eligible)))
	}
	return nil
}

// settle applies the post-job rules for a terminal outcome and reports
// whether the whole orchestration loop must halt.
func (o *Orchestrator) settle(ctx context.Context, file string, job encode.Job, info media.Info, result encode.Result, startedAt time.Time) (halt bool) {
	switch result.Outcome {
	case encode.OutcomeDone:
		if err := fileutil.ReplaceFile(job.OutputPath, job.InputPath); err != nil {
			o.logger.Error("failed to commit output", logging.String("file", file), logging.Error(err))
			o.record(ctx, file, info, "failed", result.LastFrame, startedAt)
			return false
		}
		// Only this file's checkpoint is spent; a slot naming another file
		// keeps its progress.
		if rec := o.store.Load(); rec != nil && rec.File == file {
			if err := o.store.Clear(); err != nil {
				o.logger.Warn("failed to clear checkpoint", logging.Error(err))
			}
		}
		o.logger.Info("file converted",
			logging.String("file", file),
			logging.Int64("frames", result.LastFrame),
		)
		o.record(ctx, file, info, "completed", result.LastFrame, startedAt)
		return false

	case encode.OutcomePause:
		// The checkpoint was persisted the moment the key was pressed.
		o.logger.Info("paused, progress saved",
			logging.String("file", file),
			logging.Int64("frame", result.LastFrame),
		)
		o.record(ctx, file, info, "paused", result.LastFrame, startedAt)
		return true

	case encode.OutcomeQuit:
		if err := o.store.Clear(); err != nil {
			o.logger.Warn("failed to clear checkpoint", logging.Error(err))
		}
		if err := fileutil.RemoveIfExists(job.OutputPath); err != nil {
			o.logger.Warn("failed to remove partial output", logging.Error(err))
		}
		o.logger.Info("quit requested, cleaned up", logging.String("file", file))
		o.record(ctx, file, info, "aborted", result.LastFrame, startedAt)
		return true

	default: // OutcomeFailed
		if o.store.Load() == nil {
			if err := fileutil.RemoveIfExists(job.OutputPath); err != nil {
				o.logger.Warn("failed to remove partial output", logging.Error(err))
			}
		}
		o.logger.Error("encode failed",
			logging.String("file", file),
			logging.Error(result.ExitErr),
		)
		o.record(ctx, file, info, "failed", result.LastFrame, startedAt)
		return false
	}
}

// runJob enters raw mode, runs the session event loop, and unconditionally
// restores the terminal before returning.
func (o *Orchestrator) runJob(ctx context.Context, job encode.Job, startFrame int64) (encode.Result, error) {
	proc, err := o.start(o.cfg, job, startFrame)
	if err != nil {
		return encode.Result{}, err
	}

	var raw *terminal.RawMode
	if o.interactive && o.stdin != nil && terminal.IsInteractive(o.stdin) {
		if r, rawErr := terminal.EnterRaw(o.stdin); rawErr == nil {
			raw = r
		} else {
			o.logger.Warn("could not enter raw terminal mode", logging.Error(rawErr))
		}
	}
	defer func() {
		raw.Restore()
		fmt.Fprintln(o.stdout)
	}()

	resumingRun := startFrame > 0
	result := encode.RunSession(ctx, proc, startFrame, encode.SessionOptions{
		Keys:         o.keySource(),
		PollInterval: time.Duration(o.cfg.Session.PollIntervalMS) * time.Millisecond,
		OnFrame: func(abs int64) {
			renderProgress(o.stdout, abs, job.Meta.TotalFrames, resumingRun)
			if o.frameHook != nil {
				o.frameHook(abs)
			}
		},
		OnPause: func(frame int64) {
			if err := o.store.Save(filepath.Base(job.InputPath), frame); err != nil {
				o.logger.Warn("failed to save checkpoint", logging.Error(err))
			}
		},
	})
	return result, nil
}

// keySource lazily creates the single keystroke reader for the run. It is
// nil for non-interactive input, which disables operator controls.
func (o *Orchestrator) keySource() <-chan byte {
	o.keysOnce.Do(func() {
		if o.keys == nil && o.interactive && o.stdin != nil && terminal.IsInteractive(o.stdin) {
			o.keys = terminal.ReadKeys(o.stdin)
		}
	})
	return o.keys
}

func (o *Orchestrator) outputPathFor(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + o.cfg.Files.OutputSuffix
}

// outputAlreadyConverted reports whether a previous successful run left a
// converted output next to the input. Probe failures on the candidate are
// ignored; a stale partial is handled by the normal encode path.
func (o *Orchestrator) outputAlreadyConverted(ctx context.Context, outputPath string) bool {
	if _, err := os.Stat(outputPath); err != nil {
		return false
	}
	info, err := o.probe(ctx, o.cfg.Encoder.FFprobeBinary, outputPath)
	if err != nil {
		return false
	}
	return info.Codec == o.cfg.Encoder.TargetCodec
}

func (o *Orchestrator) record(ctx context.Context, file string, info media.Info, outcome string, lastFrame int64, startedAt time.Time) {
	if o.hist == nil {
		return
	}
	_, err := o.hist.Append(ctx, history.Record{
		RunID:       o.runID,
		File:        file,
		SourceCodec: info.Codec,
		Outcome:     outcome,
		LastFrame:   lastFrame,
		TotalFrames: info.TotalFrames,
		StartedAt:   startedAt,
		FinishedAt:  time.Now(),
	})
	if err != nil {
		o.logger.Warn("failed to record history", logging.Error(err))
	}
}
