package history_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"framepress/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAndRecent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	now := time.Now()

	for i, outcome := range []string{"completed", "failed", "paused"} {
		id, err := store.Append(ctx, history.Record{
			RunID:       "run-1",
			File:        "movie.mp4",
			SourceCodec: "h264",
			Outcome:     outcome,
			LastFrame:   int64(100 * (i + 1)),
			TotalFrames: 1500,
			StartedAt:   now.Add(-time.Minute),
			FinishedAt:  now,
		})
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
		if id == 0 {
			t.Fatal("expected non-zero id")
		}
	}

	records, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// Newest first.
	if records[0].Outcome != "paused" || records[1].Outcome != "failed" {
		t.Fatalf("unexpected ordering: %v, %v", records[0].Outcome, records[1].Outcome)
	}
	if records[0].LastFrame != 300 {
		t.Fatalf("expected last frame 300, got %d", records[0].LastFrame)
	}
	if records[0].FinishedAt.IsZero() {
		t.Fatal("expected parsed finished timestamp")
	}
}

func TestRecentEmptyStore(t *testing.T) {
	store := openStore(t)
	records, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestNilStoreCloseIsSafe(t *testing.T) {
	var store *history.Store
	if err := store.Close(); err != nil {
		t.Fatalf("nil store close should be a no-op, got %v", err)
	}
}
