package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"newsreel/internal/asset"
	"newsreel/internal/compile"
	"newsreel/internal/config"
	"newsreel/internal/logging"
	"newsreel/internal/manifest"
	"newsreel/internal/search"
	"newsreel/internal/services"
	"newsreel/internal/testsupport"
	"newsreel/internal/validate"
)

type fakeSearcher struct {
	pool []asset.Candidate
}

func (f *fakeSearcher) Search(ctx context.Context, req search.Request) []asset.Candidate {
	return f.pool
}

// fakeBuilder writes clip files whose content decides whether the
// content-based probe sees a video stream.
type fakeBuilder struct {
	dir     string
	content func(candidate asset.Candidate) string
}

func (f *fakeBuilder) Build(ctx context.Context, sceneIndex int, candidate asset.Candidate) (string, error) {
	path := filepath.Join(f.dir, fmt.Sprintf("scene_%03d_%s.mp4", sceneIndex, candidate.Identifier))
	return path, os.WriteFile(path, []byte(f.content(candidate)), 0o644)
}

func contentProbe(ctx context.Context, binary, path string) ([]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.Contains(string(data), "video") {
		return []int{0}, nil
	}
	return nil, nil
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return testsupport.NewConfig(t, testsupport.WithSubclipWorkers(2))
}

func newTestRunner(t *testing.T, cfg *config.Config, pool []asset.Candidate, content func(asset.Candidate) string) *Runner {
	t.Helper()
	validator := validate.NewWithProbe(contentProbe, time.Second, logging.NewNop())
	assembler := compile.New(cfg, validator, logging.NewNop())
	assembler.WithRun(func(ctx context.Context, binary string, args []string) error {
		return os.WriteFile(args[len(args)-1], []byte("video concat"), 0o644)
	})
	return NewRunner(cfg, &fakeSearcher{pool: pool}, logging.NewNop()).
		WithValidator(validator).
		WithAssembler(assembler).
		WithBuilderFactory(func(clipsDir string) ClipBuilder {
			return &fakeBuilder{dir: clipsDir, content: content}
		})
}

func archivePool() []asset.Candidate {
	return []asset.Candidate{
		{Identifier: "apollo-launch", Title: "Saturn V rocket launch", MediaType: asset.MediaVideo, Downloads: 500, Locator: "https://archive.org/download/apollo-launch"},
		{Identifier: "moon-walk", Title: "Astronauts walking on the moon", MediaType: asset.MediaVideo, Downloads: 900, Locator: "https://archive.org/download/moon-walk"},
		{Identifier: "ticker-tape", Title: "Ticker tape parade celebration", MediaType: asset.MediaVideo, Downloads: 300, Locator: "https://archive.org/download/ticker-tape"},
		{Identifier: "mission-control", Title: "Mission control room footage", MediaType: asset.MediaVideo, Downloads: 200, Locator: "https://archive.org/download/mission-control"},
	}
}

func sixtyNineScenes() []manifest.Scene {
	return []manifest.Scene{
		{Index: 0, Text: "The rocket launch begins the mission"},
		{Index: 1, Text: "Astronauts walking on the moon surface"},
		{Index: 2, Text: "Parade celebration back home"},
	}
}

func TestRunProducesCompilation(t *testing.T) {
	cfg := newTestConfig(t)
	runner := newTestRunner(t, cfg, archivePool(), func(asset.Candidate) string { return "video" })

	result, err := runner.Run(context.Background(), "moon landing 1969", sixtyNineScenes())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if _, err := os.Stat(result.ArtifactPath); err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	if result.Manifest.Status != manifest.StatusCompleted {
		t.Fatalf("status = %q, want completed", result.Manifest.Status)
	}
	if result.Coverage.Ratio() != 1.0 {
		t.Fatalf("coverage = %v, want 1.0", result.Coverage.Ratio())
	}

	stages := make(map[string]bool)
	for _, record := range result.Telemetry {
		stages[record.Stage] = true
	}
	for _, want := range []string{"search", "filter", "dedupe", "assign", "build"} {
		if !stages[want] {
			t.Fatalf("missing telemetry stage %q, have %v", want, stages)
		}
	}

	// The persisted manifest must match what the run returned.
	store := testsupport.MustOpenStore(t, result.RunDir)
	persisted, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if persisted.Status != manifest.StatusCompleted || persisted.ArtifactPath != result.ArtifactPath {
		t.Fatalf("persisted manifest mismatch: %+v", persisted)
	}
}

func TestRunAbortsWhenPoolEmpty(t *testing.T) {
	cfg := newTestConfig(t)
	runner := newTestRunner(t, cfg, nil, func(asset.Candidate) string { return "video" })

	_, err := runner.Run(context.Background(), "obscure topic", sixtyNineScenes())
	structured, ok := services.AsStructured(err)
	if !ok {
		t.Fatalf("expected structured error, got %v", err)
	}
	if structured.Code != services.CodeCoverageBelowThreshold {
		t.Fatalf("code = %q, want %q", structured.Code, services.CodeCoverageBelowThreshold)
	}
}

func TestRunFallsBackWhenClipFailsValidation(t *testing.T) {
	cfg := newTestConfig(t)
	// The most popular candidate produces a videoless clip; its scene
	// must fall back to the next shortlist entry.
	runner := newTestRunner(t, cfg, archivePool(), func(c asset.Candidate) string {
		if c.Identifier == "moon-walk" {
			return "no stream here"
		}
		return "video"
	})

	result, err := runner.Run(context.Background(), "moon landing 1969", sixtyNineScenes())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	var failed, validForScene1 bool
	for _, attempt := range result.Manifest.Assignments {
		if attempt.Candidate.Identifier == "moon-walk" {
			if attempt.State != manifest.StateStreamInvalid {
				t.Fatalf("moon-walk attempt state = %q, want stream_invalid", attempt.State)
			}
			if attempt.FailureReason == "" {
				t.Fatal("failed attempt must record a reason")
			}
			failed = true
		}
		if attempt.SceneIndex == 1 && attempt.State == manifest.StateStreamValid {
			validForScene1 = true
		}
	}
	if !failed {
		t.Fatal("expected a recorded failed attempt for moon-walk")
	}
	if !validForScene1 {
		t.Fatal("scene 1 should have recovered via its shortlist")
	}
}

func TestRunNeverAssemblesVideolessClips(t *testing.T) {
	cfg := newTestConfig(t)
	// Every clip comes out videoless. The rebuilt coverage gate must
	// abort the run before assembly; no artifact may appear.
	runner := newTestRunner(t, cfg, archivePool(), func(asset.Candidate) string { return "black" })

	_, err := runner.Run(context.Background(), "moon landing 1969", sixtyNineScenes())
	structured, ok := services.AsStructured(err)
	if !ok {
		t.Fatalf("expected structured error, got %v", err)
	}
	if structured.Code != services.CodeCoverageBelowThreshold {
		t.Fatalf("code = %q, want %q", structured.Code, services.CodeCoverageBelowThreshold)
	}

	entries, readErr := os.ReadDir(cfg.Paths.OutputDir)
	if readErr != nil {
		t.Fatalf("read output dir: %v", readErr)
	}
	if len(entries) != 0 {
		t.Fatalf("output dir should be empty, found %v", entries)
	}
}

func TestRunPersistsAbortedManifest(t *testing.T) {
	cfg := newTestConfig(t)
	runner := newTestRunner(t, cfg, nil, func(asset.Candidate) string { return "video" })

	_, err := runner.Run(context.Background(), "obscure topic", sixtyNineScenes())
	if err == nil {
		t.Fatal("expected gate failure")
	}

	runs, err := os.ReadDir(cfg.Paths.WorkDir)
	if err != nil {
		t.Fatalf("read work dir: %v", err)
	}
	var runDir string
	for _, entry := range runs {
		if entry.IsDir() {
			runDir = filepath.Join(cfg.Paths.WorkDir, entry.Name())
		}
	}
	if runDir == "" {
		t.Fatal("no run directory created")
	}
	store := testsupport.MustOpenStore(t, runDir)
	persisted, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if persisted.Status != manifest.StatusAborted {
		t.Fatalf("status = %q, want aborted", persisted.Status)
	}
}

func TestRunRejectsEmptySceneList(t *testing.T) {
	cfg := newTestConfig(t)
	runner := newTestRunner(t, cfg, archivePool(), func(asset.Candidate) string { return "video" })
	if _, err := runner.Run(context.Background(), "anything", nil); err == nil {
		t.Fatal("expected error for empty scene list")
	}
}
