// Package pipeline orchestrates a compilation run end to end: search,
// filter, dedupe, scene assignment, the coverage gate, subclip
// construction with per-clip validation, and final assembly. Every run
// gets its own directory under the work dir holding the clips, the
// telemetry log, and the persisted manifest.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"newsreel/internal/asset"
	"newsreel/internal/compile"
	"newsreel/internal/config"
	"newsreel/internal/coverage"
	"newsreel/internal/dedupe"
	"newsreel/internal/fileutil"
	"newsreel/internal/filter"
	"newsreel/internal/logging"
	"newsreel/internal/manifest"
	"newsreel/internal/search"
	"newsreel/internal/services"
	"newsreel/internal/subclip"
	"newsreel/internal/telemetry"
	"newsreel/internal/validate"
)

// Searcher is the candidate source the runner fans out to.
type Searcher interface {
	Search(ctx context.Context, req search.Request) []asset.Candidate
}

// ClipBuilder renders one scene's clip. Satisfied by subclip.Builder.
type ClipBuilder interface {
	Build(ctx context.Context, sceneIndex int, candidate asset.Candidate) (string, error)
}

// Assembler turns a sealed manifest into the final artifact. Satisfied
// by compile.Assembler.
type Assembler interface {
	Assemble(ctx context.Context, m *manifest.Manifest, workDir string) (string, error)
}

// Result is everything a completed run produced.
type Result struct {
	RunID        string
	RunDir       string
	ArtifactPath string
	Manifest     *manifest.Manifest
	Coverage     coverage.Report
	Telemetry    []telemetry.Record
}

// Runner executes compilation runs. One runner may execute many runs,
// but runs are serialized through a work-dir lock.
type Runner struct {
	cfg       *config.Config
	searcher  Searcher
	policy    *filter.Policy
	validator *validate.StreamValidator
	assembler Assembler
	logger    *slog.Logger

	// newBuilder builds the per-run clip builder. Test hook.
	newBuilder func(clipsDir string) ClipBuilder
}

// NewRunner wires a runner from configuration and a candidate source.
func NewRunner(cfg *config.Config, searcher Searcher, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	validator := validate.New(cfg, logger)
	return &Runner{
		cfg:       cfg,
		searcher:  searcher,
		policy:    filter.NewPolicy(cfg.Filter.AllowedMediaTypes, cfg.Filter.AllowedLicenses),
		validator: validator,
		assembler: compile.New(cfg, validator, logger),
		logger:    logger,
		newBuilder: func(clipsDir string) ClipBuilder {
			return subclip.New(cfg, clipsDir, logger)
		},
	}
}

// WithValidator replaces the stream validator. Test hook.
func (r *Runner) WithValidator(validator *validate.StreamValidator) *Runner {
	r.validator = validator
	return r
}

// WithAssembler replaces the assembler. Test hook.
func (r *Runner) WithAssembler(assembler Assembler) *Runner {
	r.assembler = assembler
	return r
}

// WithBuilderFactory replaces the clip builder factory. Test hook.
func (r *Runner) WithBuilderFactory(factory func(clipsDir string) ClipBuilder) *Runner {
	r.newBuilder = factory
	return r
}

// Run executes one compilation run for the query over the given scenes.
// A failed gate persists an aborted manifest and returns the gate's
// structured error.
func (r *Runner) Run(ctx context.Context, query string, scenes []manifest.Scene) (*Result, error) {
	if len(scenes) == 0 {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "run", "no scenes provided", nil)
	}

	runID := uuid.NewString()
	runDir := filepath.Join(r.cfg.Paths.WorkDir, runID)
	clipsDir := filepath.Join(runDir, "clips")
	for _, dir := range []string{runDir, clipsDir} {
		if err := fileutil.EnsureDir(dir); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "pipeline", "run", "create run directory", err)
		}
	}

	lock := flock.New(filepath.Join(r.cfg.Paths.WorkDir, "newsreel.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "pipeline", "run", "acquire work-dir lock", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrTransient, "pipeline", "run", "another run is in progress", nil)
	}
	defer lock.Unlock()

	ctx = services.WithRunID(ctx, runID)
	if timeout := r.cfg.RunTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	recorder, err := telemetry.NewRecorder(runDir, r.cfg.Pipeline.SampleDrops)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "run", "open telemetry log", err)
	}
	defer recorder.Close()

	store, err := manifest.Open(runDir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "run", "open manifest store", err)
	}
	defer store.Close()

	m := &manifest.Manifest{
		RunID:       runID,
		Query:       query,
		CreatedAt:   time.Now().UTC(),
		TotalScenes: len(scenes),
		Status:      manifest.StatusRunning,
	}
	if err := store.Save(ctx, m); err != nil {
		return nil, services.Wrap(services.ErrTransient, "pipeline", "run", "persist initial manifest", err)
	}

	logger := logging.WithContext(ctx, r.logger)
	logger.Info("run started",
		logging.String("query", query),
		logging.Int("scenes", len(scenes)),
		logging.String("run_dir", runDir),
	)

	abort := func(stageErr error) (*Result, error) {
		m.Status = manifest.StatusAborted
		if saveErr := store.Save(ctx, m); saveErr != nil {
			logger.Warn("persist aborted manifest failed", logging.Error(saveErr))
		}
		return nil, stageErr
	}

	// Search.
	pool := r.searcher.Search(services.WithStage(ctx, "search"), search.Request{
		Query:      query,
		MediaTypes: r.cfg.Search.MediaTypes,
		PageSize:   r.cfg.Search.PageSize,
	})
	r.emit(recorder, "search", query, len(pool), len(pool), nil, nil)

	// Filter.
	kept, verdicts := r.policy.Apply(pool)
	filterBreakdown := filter.DropBreakdown(verdicts)
	r.emit(recorder, "filter", query, len(pool), len(kept), filterBreakdown, filterSamples(verdicts))

	// Dedupe.
	deduped := dedupe.Collapse(kept, nil)
	r.emit(recorder, "dedupe", query, len(kept), len(deduped.Kept), deduped.Breakdown(), dedupeSamples(deduped.Dropped))

	m.DropBreakdown = mergeBreakdowns(filterBreakdown, deduped.Breakdown())

	// Assignment and the pre-build coverage gate.
	shortlists := Rank(scenes, deduped.Kept, defaultShortlistSize)
	_, covered := provisionalAssignments(shortlists)
	r.emit(recorder, "assign", query, len(scenes), covered, nil, nil)

	report, err := coverage.Evaluate(len(scenes), covered, r.cfg.Coverage.Threshold)
	if err != nil {
		return abort(err)
	}
	m.Coverage = report.Ratio()

	// Build clips with per-clip validation and shortlist fallback.
	builder := r.newBuilder(clipsDir)
	attempts := r.buildClips(ctx, builder, shortlists)
	m.Assignments = attempts

	valid := 0
	for _, attempt := range attempts {
		if attempt.State == manifest.StateStreamValid {
			valid++
		}
	}
	r.emit(recorder, "build", query, covered, valid, buildBreakdown(attempts), nil)

	// Validation failures can push coverage back under the threshold.
	report, err = coverage.Evaluate(len(scenes), valid, r.cfg.Coverage.Threshold)
	if err != nil {
		return abort(err)
	}
	m.Coverage = report.Ratio()

	// Seal and assemble: the assembler only ever sees stream-valid clips.
	sealed := &manifest.Manifest{
		RunID:       m.RunID,
		Query:       m.Query,
		CreatedAt:   m.CreatedAt,
		Coverage:    m.Coverage,
		TotalScenes: m.TotalScenes,
		Assignments: m.ValidAssignments(),
	}
	artifact, err := r.assembler.Assemble(services.WithStage(ctx, "assemble"), sealed, runDir)
	if err != nil {
		return abort(err)
	}

	m.ArtifactPath = artifact
	m.Status = manifest.StatusCompleted
	if err := store.Save(ctx, m); err != nil {
		return nil, services.Wrap(services.ErrTransient, "pipeline", "run", "persist completed manifest", err)
	}

	logger.Info("run completed",
		logging.String("artifact", artifact),
		logging.Float64("coverage", m.Coverage),
	)
	return &Result{
		RunID:        runID,
		RunDir:       runDir,
		ArtifactPath: artifact,
		Manifest:     m,
		Coverage:     report,
		Telemetry:    recorder.Records(),
	}, nil
}

// buildClips renders clips for every shortlisted scene with a bounded
// worker pool. Each worker claims candidates from its scene's shortlist
// under the shared lock, so a candidate never serves two scenes even
// when a fallback fires mid-build. Every attempt, failed or not, is
// returned for the manifest.
func (r *Runner) buildClips(ctx context.Context, builder ClipBuilder, shortlists []Shortlist) []manifest.SceneAssignment {
	var (
		mu       sync.Mutex
		taken    = make(map[string]struct{})
		attempts []manifest.SceneAssignment
	)

	claim := func(shortlist Shortlist) (asset.Candidate, bool) {
		mu.Lock()
		defer mu.Unlock()
		for _, candidate := range shortlist.Ranked {
			if _, used := taken[candidate.Identifier]; used {
				continue
			}
			taken[candidate.Identifier] = struct{}{}
			return candidate, true
		}
		return asset.Candidate{}, false
	}
	record := func(attempt manifest.SceneAssignment) {
		mu.Lock()
		defer mu.Unlock()
		attempts = append(attempts, attempt)
	}

	var group errgroup.Group
	group.SetLimit(max(r.cfg.Pipeline.SubclipWorkers, 1))
	for _, shortlist := range shortlists {
		group.Go(func() error {
			sceneCtx := services.WithScene(ctx, shortlist.Scene.Index)
			for {
				candidate, ok := claim(shortlist)
				if !ok {
					return nil
				}
				attempt := manifest.SceneAssignment{
					SceneIndex: shortlist.Scene.Index,
					SceneText:  shortlist.Scene.Text,
					Candidate:  candidate,
					State:      manifest.StateUnvalidated,
				}

				clipPath, err := builder.Build(sceneCtx, shortlist.Scene.Index, candidate)
				if err != nil {
					attempt.State = manifest.StateStreamInvalid
					attempt.FailureReason = err.Error()
					record(attempt)
					continue
				}
				attempt.ClipPath = clipPath

				// Layer one: probe the freshly built clip before it can
				// enter the pool.
				if !r.validator.HasVideoStream(sceneCtx, clipPath) {
					attempt.State = manifest.StateStreamInvalid
					attempt.FailureReason = fmt.Sprintf("clip %s has no video stream", clipPath)
					record(attempt)
					logging.WithContext(sceneCtx, r.logger).Warn("clip failed stream validation, trying next candidate",
						logging.String("identifier", candidate.Identifier),
					)
					continue
				}

				attempt.State = manifest.StateStreamValid
				record(attempt)
				return nil
			}
		})
	}
	_ = group.Wait()

	sortAttempts(attempts)
	return attempts
}

func (r *Runner) emit(recorder *telemetry.Recorder, stage, query string, before, after int, breakdown map[string]int, samples []telemetry.SampleDrop) {
	if err := recorder.Emit(telemetry.Record{
		Stage:         stage,
		Query:         query,
		TotalBefore:   before,
		TotalAfter:    after,
		DropBreakdown: breakdown,
		SampleDrops:   samples,
	}); err != nil {
		r.logger.Warn("telemetry emit failed", logging.String("stage", stage), logging.Error(err))
	}
}
