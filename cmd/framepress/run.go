package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"framepress/internal/batch"
	"framepress/internal/checkpoint"
	"framepress/internal/deps"
	"framepress/internal/history"
	"framepress/internal/keepawake"
	"framepress/internal/logging"
)

func runBatch(cmdCtx context.Context, cctx *commandContext, dir, logLevel string, opts batch.Options) error {
	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := cctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := deps.Require(cfg); err != nil {
		return err
	}

	workDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve directory: %w", err)
	}
	if info, err := os.Stat(workDir); err != nil {
		return fmt.Errorf("stat directory: %w", err)
	} else if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", workDir)
	}

	// Inspection modes touch nothing, so no log file and no lock.
	var logPath string
	if !opts.DryRun && !opts.ListMode {
		logDir := cfg.Logging.Dir
		if logDir == "" {
			logDir = workDir
		}
		logPath = logging.RunLogPath(logDir, time.Now())
	}
	logger, err := logging.NewFromConfig(cfg, logPath)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	runID := uuid.NewString()
	logger.Info("starting run",
		logging.String("run_id", runID),
		logging.String("dir", workDir),
		logging.Bool("dry_run", opts.DryRun),
		logging.Bool("list_mode", opts.ListMode),
	)

	if !opts.DryRun && !opts.ListMode {
		lock := flock.New(filepath.Join(workDir, cfg.Files.LockFile))
		locked, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("acquire directory lock: %w", err)
		}
		if !locked {
			return fmt.Errorf("another framepress run owns %s", workDir)
		}
		defer lock.Unlock()

		if cfg.Session.KeepAwake {
			stop := keepawake.Start(logger)
			defer stop()
		}
	}

	var hist *history.Store
	if cfg.History.Enabled && !opts.DryRun && !opts.ListMode {
		path := cfg.History.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		hist, err = history.Open(path)
		if err != nil {
			logger.Warn("history disabled: database unavailable", logging.Error(err))
			hist = nil
		} else {
			defer hist.Close()
		}
	}

	store := checkpoint.NewStore(filepath.Join(workDir, cfg.Files.CheckpointFile))
	orchestrator := batch.New(cfg, workDir, store, hist, logger, runID)
	return orchestrator.Run(signalCtx, opts)
}
