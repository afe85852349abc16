package encode

import (
	"testing"
)

func collectFrames(t *testing.T, chunks ...string) []int64 {
	t.Helper()
	var frames []int64
	parser := NewParser(func(frame int64) { frames = append(frames, frame) })
	for _, chunk := range chunks {
		parser.Consume([]byte(chunk))
	}
	return frames
}

func TestParserFindsFrameMarkers(t *testing.T) {
	frames := collectFrames(t,
		"frame=  120 fps= 25 q=28.0 size=    1024KiB time=00:00:04.80\r",
		"frame=  240 fps= 25 q=28.0 size=    2048KiB time=00:00:09.60\r",
	)
	if len(frames) != 2 || frames[0] != 120 || frames[1] != 240 {
		t.Fatalf("unexpected frames %v", frames)
	}
}

func TestParserIgnoresOtherLines(t *testing.T) {
	frames := collectFrames(t,
		"ffmpeg version 7.1 Copyright (c) 2000-2024\n",
		"Stream mapping:\n",
		"  Stream #0:0 -> #0:0 (h264 (native) -> hevc (libx265))\n",
		"x265 [info]: HEVC encoder version 3.5\n",
	)
	if len(frames) != 0 {
		t.Fatalf("expected no frames, got %v", frames)
	}
}

func TestParserByteAtATime(t *testing.T) {
	var frames []int64
	parser := NewParser(func(frame int64) { frames = append(frames, frame) })
	for _, b := range []byte("noise\nframe= 77 fps=30\rtrailing") {
		parser.Consume([]byte{b})
	}
	if len(frames) != 1 || frames[0] != 77 {
		t.Fatalf("expected single frame 77, got %v", frames)
	}
	// The trailing partial line must stay buffered until its terminator.
	parser.Consume([]byte(" frame= 78\n"))
	if len(frames) != 2 || frames[1] != 78 {
		t.Fatalf("expected frame 78 after terminator, got %v", frames)
	}
}

func TestParserMixedTerminators(t *testing.T) {
	frames := collectFrames(t, "frame=1\rframe=2\nframe=3\r\nframe=4\r")
	want := []int64{1, 2, 3, 4}
	if len(frames) != len(want) {
		t.Fatalf("expected %v, got %v", want, frames)
	}
	for i := range want {
		if frames[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, frames)
		}
	}
}
