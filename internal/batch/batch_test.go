package batch

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"framepress/internal/checkpoint"
	"framepress/internal/config"
	"framepress/internal/logging"
	"framepress/internal/testsupport"
)

// probeScript reports hevc for converted outputs and h264 for everything
// else, with a fixed 8s / 25fps shape (200 total frames).
const probeScript = `for a; do path="$a"; done
case "$path" in
  *_h265_mp3.mp4|*hevc*) codec=hevc ;;
  *) codec=h264 ;;
esac
printf '{"streams":[{"codec_name":"%s","codec_type":"video","r_frame_rate":"25/1"}],"format":{"duration":"8.0"}}' "$codec"`

// encodeScript converts instantly: it records its arguments, emits two
// progress lines, and writes the output file.
const encodeScript = `for a; do out="$a"; done
echo "$@" >> "$(dirname "$out")/ffmpeg_args.txt"
printf 'frame=  50 fps=25\rframe= 120 fps=25\r'
printf 'converted' > "$out"
exit 0`

// hangScript emits one progress line and then blocks until terminated.
const hangScript = `for a; do out="$a"; done
echo "$@" >> "$(dirname "$out")/ffmpeg_args.txt"
printf 'partial' > "$out"
printf 'frame= 120 fps=25\r'
exec sleep 30`

func newTestOrchestrator(t *testing.T, dir, ffmpegScript string) (*Orchestrator, *checkpoint.Store, *config.Config) {
	t.Helper()

	bin := t.TempDir()
	ffmpeg := testsupport.StubBinary(t, bin, "ffmpeg", ffmpegScript)
	ffprobe := testsupport.StubBinary(t, bin, "ffprobe", probeScript)
	cfg := testsupport.NewConfig(t, testsupport.WithBinaries(ffmpeg, ffprobe))

	store := checkpoint.NewStore(filepath.Join(dir, cfg.Files.CheckpointFile))
	o := New(cfg, dir, store, nil, logging.NewNop(), "test-run")
	o.stdout = io.Discard
	o.interactive = false
	return o, store, cfg
}

func recordedArgs(t *testing.T, dir string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "ffmpeg_args.txt"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read recorded args: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestRunConvertsBatchInOrder(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "b.mp4"), 64)
	testsupport.WriteFile(t, filepath.Join(dir, "a.mp4"), 64)
	o, store, cfg := newTestOrchestrator(t, dir, encodeScript)

	if err := o.Run(context.Background(), Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, name := range []string{"a.mp4", "b.mp4"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if string(data) != "converted" {
			t.Fatalf("%s was not replaced by the converted output", name)
		}
		output := strings.TrimSuffix(name, ".mp4") + cfg.Files.OutputSuffix
		if _, err := os.Stat(filepath.Join(dir, output)); !os.IsNotExist(err) {
			t.Fatalf("temporary output %s left behind", output)
		}
	}

	args := recordedArgs(t, dir)
	if len(args) != 2 {
		t.Fatalf("expected 2 encoder invocations, got %d", len(args))
	}
	if !strings.Contains(args[0], "a.mp4") || !strings.Contains(args[1], "b.mp4") {
		t.Fatalf("files processed out of order: %v", args)
	}
	if store.Load() != nil {
		t.Fatal("checkpoint should be empty after a clean batch")
	}
}

func TestRunSkipsTargetCodecFiles(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "already_hevc.mp4"), 64)
	testsupport.WriteFile(t, filepath.Join(dir, "plain.mp4"), 64)
	o, _, _ := newTestOrchestrator(t, dir, encodeScript)

	if err := o.Run(context.Background(), Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	args := recordedArgs(t, dir)
	if len(args) != 1 || !strings.Contains(args[0], "plain.mp4") {
		t.Fatalf("expected only plain.mp4 to be encoded, got %v", args)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "already_hevc.mp4"))
	if bytes.Contains(data, []byte("converted")) {
		t.Fatal("file already in the target codec was rewritten")
	}
}

func TestRunSkipsWhenConvertedOutputPresent(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "vid.mp4"), 64)
	testsupport.WriteFile(t, filepath.Join(dir, "vid_h265_mp3.mp4"), 64)
	o, _, _ := newTestOrchestrator(t, dir, encodeScript)

	if err := o.Run(context.Background(), Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if args := recordedArgs(t, dir); len(args) != 0 {
		t.Fatalf("expected no encoder invocations, got %v", args)
	}
}

func TestPauseSavesCheckpointAndHalts(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "a.mp4"), 64)
	testsupport.WriteFile(t, filepath.Join(dir, "b.mp4"), 64)
	o, store, cfg := newTestOrchestrator(t, dir, hangScript)

	keys := make(chan byte, 1)
	o.keys = keys
	o.interactive = true
	var once sync.Once
	o.frameHook = func(int64) { once.Do(func() { keys <- 'p' }) }

	if err := o.Run(context.Background(), Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	record := store.Load()
	if record == nil {
		t.Fatal("pause did not persist a checkpoint")
	}
	if record.File != "a.mp4" || record.Frame != 120 {
		t.Fatalf("unexpected checkpoint %+v", record)
	}
	// Partial output stays so the resumed run can pick up where it left off.
	if _, err := os.Stat(filepath.Join(dir, "a"+cfg.Files.OutputSuffix)); err != nil {
		t.Fatalf("partial output missing after pause: %v", err)
	}
	args := recordedArgs(t, dir)
	if len(args) != 1 {
		t.Fatalf("pause should halt the batch, saw %d invocations", len(args))
	}
}

func TestQuitCleansUpAndHalts(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "a.mp4"), 64)
	testsupport.WriteFile(t, filepath.Join(dir, "b.mp4"), 64)
	o, store, cfg := newTestOrchestrator(t, dir, hangScript)

	keys := make(chan byte, 1)
	o.keys = keys
	o.interactive = true
	var once sync.Once
	o.frameHook = func(int64) { once.Do(func() { keys <- 'q' }) }

	if err := o.Run(context.Background(), Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if store.Load() != nil {
		t.Fatal("quit should leave no checkpoint")
	}
	if _, err := os.Stat(filepath.Join(dir, "a"+cfg.Files.OutputSuffix)); !os.IsNotExist(err) {
		t.Fatal("quit should remove the partial output")
	}
	data, _ := os.ReadFile(filepath.Join(dir, "a.mp4"))
	if string(data) == "converted" || len(data) != 64 {
		t.Fatal("quit must leave the input untouched")
	}
	if args := recordedArgs(t, dir); len(args) != 1 {
		t.Fatalf("quit should halt the batch, saw %d invocations", len(args))
	}
}

func TestFailedEncodeCleansUpAndContinues(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "a.mp4"), 64)
	testsupport.WriteFile(t, filepath.Join(dir, "b.mp4"), 64)
	failScript := `for a; do out="$a"; done
echo "$@" >> "$(dirname "$out")/ffmpeg_args.txt"
printf 'partial' > "$out"
exit 3`
	o, store, cfg := newTestOrchestrator(t, dir, failScript)

	if err := o.Run(context.Background(), Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	args := recordedArgs(t, dir)
	if len(args) != 2 {
		t.Fatalf("a failed file must not stop the batch, saw %d invocations", len(args))
	}
	for _, name := range []string{"a", "b"} {
		if _, err := os.Stat(filepath.Join(dir, name+cfg.Files.OutputSuffix)); !os.IsNotExist(err) {
			t.Fatalf("partial output for %s left behind", name)
		}
	}
	if store.Load() != nil {
		t.Fatal("failed encode should not leave a checkpoint")
	}
}

func TestResumeSeeksFromCheckpointFrame(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "a.mp4"), 64)
	o, store, _ := newTestOrchestrator(t, dir, encodeScript)
	if err := store.Save("a.mp4", 100); err != nil {
		t.Fatalf("seed checkpoint: %v", err)
	}

	if err := o.Run(context.Background(), Options{AssumeYes: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	args := recordedArgs(t, dir)
	if len(args) != 1 {
		t.Fatalf("expected 1 invocation, got %d", len(args))
	}
	// 100 frames at 25 fps.
	if !strings.Contains(args[0], "-ss 4.000") {
		t.Fatalf("resume did not seek to the checkpoint position: %s", args[0])
	}
	if store.Load() != nil {
		t.Fatal("checkpoint should clear once the resumed file completes")
	}
}

func TestResumeDeclinedClearsCheckpoint(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "a.mp4"), 64)
	o, store, _ := newTestOrchestrator(t, dir, encodeScript)
	if err := store.Save("a.mp4", 100); err != nil {
		t.Fatalf("seed checkpoint: %v", err)
	}

	var out bytes.Buffer
	o.stdout = &out
	o.interactive = true
	o.promptIn = strings.NewReader("n\n")

	if err := o.Run(context.Background(), Options{DryRun: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.Contains(out.String(), "Resume from frame 100?") {
		t.Fatalf("prompt not shown: %q", out.String())
	}
	if store.Load() != nil {
		t.Fatal("declining the prompt must clear the checkpoint")
	}
}

func TestNonInteractiveKeepsUnansweredCheckpoint(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "a.mp4"), 64)
	o, store, _ := newTestOrchestrator(t, dir, encodeScript)
	if err := store.Save("a.mp4", 100); err != nil {
		t.Fatalf("seed checkpoint: %v", err)
	}

	if err := o.Run(context.Background(), Options{DryRun: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if store.Load() == nil {
		t.Fatal("non-interactive run must not discard the checkpoint")
	}
}

func TestCheckpointForMissingFileIsIgnored(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "a.mp4"), 64)
	o, store, _ := newTestOrchestrator(t, dir, encodeScript)
	if err := store.Save("gone.mp4", 50); err != nil {
		t.Fatalf("seed checkpoint: %v", err)
	}

	if err := o.Run(context.Background(), Options{AssumeYes: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	args := recordedArgs(t, dir)
	if len(args) != 1 || strings.Contains(args[0], "-ss") {
		t.Fatalf("stale checkpoint must not influence the run: %v", args)
	}
}

func TestDryRunExecutesNothing(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "a.mp4"), 64)
	o, _, _ := newTestOrchestrator(t, dir, encodeScript)

	if err := o.Run(context.Background(), Options{DryRun: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if args := recordedArgs(t, dir); len(args) != 0 {
		t.Fatalf("dry run invoked the encoder: %v", args)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "a.mp4"))
	if len(data) != 64 {
		t.Fatal("dry run modified an input file")
	}
}

func TestListModeWritesEligiblePaths(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "plain.mp4"), 64)
	testsupport.WriteFile(t, filepath.Join(dir, "already_hevc.mp4"), 64)
	o, _, cfg := newTestOrchestrator(t, dir, encodeScript)

	if err := o.Run(context.Background(), Options{ListMode: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, cfg.Files.ListFile))
	if err != nil {
		t.Fatalf("read list file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 || lines[0] != filepath.Join(dir, "plain.mp4") {
		t.Fatalf("unexpected list content: %q", lines)
	}
	if args := recordedArgs(t, dir); len(args) != 0 {
		t.Fatalf("list mode invoked the encoder: %v", args)
	}
}

func TestContextCancelBehavesLikeQuit(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "a.mp4"), 64)
	o, store, cfg := newTestOrchestrator(t, dir, hangScript)

	ctx, cancel := context.WithCancel(context.Background())
	var once sync.Once
	o.frameHook = func(int64) { once.Do(cancel) }

	if err := o.Run(ctx, Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if store.Load() != nil {
		t.Fatal("cancel should leave no checkpoint")
	}
	if _, err := os.Stat(filepath.Join(dir, "a"+cfg.Files.OutputSuffix)); !os.IsNotExist(err) {
		t.Fatal("cancel should remove the partial output")
	}
}
