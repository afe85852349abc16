package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConsoleHandlerFormatsLine(t *testing.T) {
	var b strings.Builder
	handler := &consoleHandler{writer: &b, level: slog.LevelInfo}
	logger := slog.New(handler)

	logger = WithComponent(logger, "batch")
	logger.Info("job finished", String("file", "movie one.mp4"), Int64("frames", 1200))

	line := b.String()
	if !strings.Contains(line, "INFO batch: job finished") {
		t.Fatalf("unexpected line %q", line)
	}
	if !strings.Contains(line, `file="movie one.mp4"`) {
		t.Fatalf("expected quoted value in %q", line)
	}
	if !strings.Contains(line, "frames=1200") {
		t.Fatalf("expected frames attr in %q", line)
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var b strings.Builder
	handler := &consoleHandler{writer: &b, level: slog.LevelWarn}
	logger := slog.New(handler)

	logger.Info("hidden")
	logger.Warn("visible")

	if strings.Contains(b.String(), "hidden") {
		t.Fatalf("info record should be filtered: %q", b.String())
	}
	if !strings.Contains(b.String(), "visible") {
		t.Fatalf("warn record should pass: %q", b.String())
	}
}

func TestNewWritesLogFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "run.log")
	logger, err := New(Options{Level: "info", Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hello", String("k", "v"))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Fatalf("expected message in log file, got %q", string(data))
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestRunLogPath(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	got := RunLogPath("", start)
	if got != "framepress_20260314_092653.log" {
		t.Fatalf("unexpected path %q", got)
	}
	if dir := filepath.Dir(RunLogPath("/tmp/logs", start)); dir != "/tmp/logs" {
		t.Fatalf("expected dir to be honored, got %q", dir)
	}
}

func TestNoopHandlerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("noop logger should report disabled")
	}
}
