package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"newsreel/internal/asset"
	"newsreel/internal/logging"
)

type fakeProvider struct {
	name       string
	candidates []asset.Candidate
	err        error
	delay      time.Duration
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Search(ctx context.Context, req Request) ([]asset.Candidate, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

func TestMultiMergesInRegistryOrder(t *testing.T) {
	first := &fakeProvider{name: "first", candidates: []asset.Candidate{{Identifier: "a"}, {Identifier: "b"}}, delay: 20 * time.Millisecond}
	second := &fakeProvider{name: "second", candidates: []asset.Candidate{{Identifier: "c"}}}

	multi := NewMulti([]Provider{first, second}, time.Second, logging.NewNop())
	got := multi.Search(context.Background(), Request{Query: "q"})

	if len(got) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(got))
	}
	// First provider finishes last but still leads the merged output.
	if got[0].Identifier != "a" || got[2].Identifier != "c" {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestMultiToleratesFailingProvider(t *testing.T) {
	broken := &fakeProvider{name: "broken", err: errors.New("upstream down")}
	healthy := &fakeProvider{name: "healthy", candidates: []asset.Candidate{{Identifier: "kept"}}}

	multi := NewMulti([]Provider{broken, healthy}, time.Second, logging.NewNop())
	got := multi.Search(context.Background(), Request{Query: "q"})

	if len(got) != 1 || got[0].Identifier != "kept" {
		t.Fatalf("expected healthy provider results to survive, got %v", got)
	}
}

func TestMultiTimesOutSlowProvider(t *testing.T) {
	slow := &fakeProvider{name: "slow", delay: time.Second, candidates: []asset.Candidate{{Identifier: "late"}}}
	fast := &fakeProvider{name: "fast", candidates: []asset.Candidate{{Identifier: "fast"}}}

	multi := NewMulti([]Provider{slow, fast}, 50*time.Millisecond, logging.NewNop())
	got := multi.Search(context.Background(), Request{Query: "q"})

	if len(got) != 1 || got[0].Identifier != "fast" {
		t.Fatalf("expected slow provider to be degraded to empty, got %v", got)
	}
}
