package ffmpeg

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTrimArgsOrdering(t *testing.T) {
	args := TrimArgs("https://example.org/source.mp4", 1.5, 5, "out.mp4")
	joined := strings.Join(args, " ")
	ss := strings.Index(joined, "-ss 1.500")
	in := strings.Index(joined, "-i https://example.org/source.mp4")
	if ss == -1 || in == -1 || ss > in {
		t.Fatalf("expected seek before input open: %s", joined)
	}
	if !strings.Contains(joined, "-t 5.000") {
		t.Fatalf("missing duration: %s", joined)
	}
	if args[len(args)-1] != "out.mp4" {
		t.Fatalf("expected output last, got %v", args)
	}
}

func TestStillArgsLoops(t *testing.T) {
	args := StillArgs("photo.jpg", 4, "out.mp4")
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-loop 1") || !strings.Contains(joined, "-t 4.000") {
		t.Fatalf("unexpected still args: %s", joined)
	}
}

func TestTrimArgsClampsNegativeStart(t *testing.T) {
	args := TrimArgs("src.mp4", -3, 5, "out.mp4")
	joined := strings.Join(args, " ")
	if strings.Contains(joined, "-ss -") {
		t.Fatalf("negative start leaked into args: %v", args)
	}
	if !strings.Contains(joined, "-ss 0.000") {
		t.Fatalf("expected clamped start: %v", args)
	}
}

func TestConcatListEntryEscapesQuotes(t *testing.T) {
	entry := ConcatListEntry("/tmp/it's a clip.mp4")
	if entry != "file '/tmp/it'\\''s a clip.mp4'\n" {
		t.Fatalf("unexpected entry: %q", entry)
	}
}

func TestConcatArgsUsesDemuxer(t *testing.T) {
	args := ConcatArgs("list.txt", "final.mp4")
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-f concat -safe 0 -i list.txt") {
		t.Fatalf("unexpected concat args: %s", joined)
	}
	if !strings.Contains(joined, "-c copy") {
		t.Fatalf("expected stream copy: %s", joined)
	}
}

func stubFFmpeg(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestRunSuccess(t *testing.T) {
	binary := stubFFmpeg(t, "exit 0")
	if err := Run(context.Background(), binary, []string{"-version"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunNonzeroExitIncludesOutput(t *testing.T) {
	binary := stubFFmpeg(t, "echo 'invalid data found' >&2\nexit 1")
	err := Run(context.Background(), binary, []string{"-i", "broken.mp4"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "invalid data found") {
		t.Fatalf("expected tool output in error, got %v", err)
	}
}

func TestRunHonorsContextTimeout(t *testing.T) {
	binary := stubFFmpeg(t, "sleep 5")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	err := Run(ctx, binary, []string{"-i", "slow.mp4"})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("subprocess was not killed on deadline")
	}
}

func TestRunRejectsEmptyArgs(t *testing.T) {
	if err := Run(context.Background(), "ffmpeg", nil); err == nil {
		t.Fatal("expected error for empty args")
	}
}
