package subclip

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"newsreel/internal/asset"
	"newsreel/internal/config"
	"newsreel/internal/logging"
	"newsreel/internal/services"
)

func newBuilder(t *testing.T) (*Builder, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Pipeline.ClipSeconds = 5
	return New(&cfg, dir, logging.NewNop()), dir
}

func TestClipPathIsDeterministicAndSafe(t *testing.T) {
	b, dir := newBuilder(t)
	cand := asset.Candidate{Identifier: "Apollo11/raw footage"}
	path := b.ClipPath(3, cand)
	if path != b.ClipPath(3, cand) {
		t.Fatal("clip path not deterministic")
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("clip escaped output dir: %s", path)
	}
	if base := filepath.Base(path); !strings.HasPrefix(base, "scene_003_") || !strings.HasSuffix(base, ".mp4") {
		t.Fatalf("unexpected clip name: %s", base)
	}
}

func TestBuildWritesClip(t *testing.T) {
	b, _ := newBuilder(t)
	var gotArgs []string
	b.WithRun(func(ctx context.Context, binary string, args []string) error {
		gotArgs = args
		// The last argument is the output path by construction.
		return os.WriteFile(args[len(args)-1], []byte("video"), 0o644)
	})

	cand := asset.Candidate{
		Identifier: "apollo-11",
		MediaType:  asset.MediaVideo,
		Locator:    "https://archive.org/download/apollo-11",
	}
	path, err := b.Build(context.Background(), 0, cand)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("clip missing: %v", err)
	}
	joined := strings.Join(gotArgs, " ")
	if !strings.Contains(joined, "-ss 0.000") {
		t.Fatalf("expected trim args for movie source, got %s", joined)
	}
}

func TestBuildUsesStillArgsForImages(t *testing.T) {
	b, _ := newBuilder(t)
	var gotArgs []string
	b.WithRun(func(ctx context.Context, binary string, args []string) error {
		gotArgs = args
		return os.WriteFile(args[len(args)-1], []byte("video"), 0o644)
	})

	cand := asset.Candidate{
		Identifier: "moon-photo",
		MediaType:  asset.MediaImage,
		Locator:    "https://archive.org/download/moon-photo",
	}
	if _, err := b.Build(context.Background(), 1, cand); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	joined := strings.Join(gotArgs, " ")
	if !strings.Contains(joined, "-loop 1") {
		t.Fatalf("expected loop args for image source, got %s", joined)
	}
}

func TestBuildRejectsMissingLocator(t *testing.T) {
	b, _ := newBuilder(t)
	_, err := b.Build(context.Background(), 0, asset.Candidate{Identifier: "no-locator"})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBuildFailsWhenToolFails(t *testing.T) {
	b, _ := newBuilder(t)
	b.WithRun(func(ctx context.Context, binary string, args []string) error {
		return errors.New("exit status 1")
	})
	cand := asset.Candidate{
		Identifier: "broken",
		MediaType:  asset.MediaVideo,
		Locator:    "https://archive.org/download/broken",
	}
	_, err := b.Build(context.Background(), 0, cand)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestBuildFailsWhenOutputEmpty(t *testing.T) {
	b, _ := newBuilder(t)
	b.WithRun(func(ctx context.Context, binary string, args []string) error {
		return os.WriteFile(args[len(args)-1], nil, 0o644)
	})
	cand := asset.Candidate{
		Identifier: "empty",
		MediaType:  asset.MediaVideo,
		Locator:    "https://archive.org/download/empty",
	}
	path, err := b.Build(context.Background(), 0, cand)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if _, statErr := os.Stat(b.ClipPath(0, cand)); !os.IsNotExist(statErr) {
		t.Fatalf("empty output should be removed, path=%s", path)
	}
}
