package search

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"newsreel/internal/asset"
	"newsreel/internal/logging"
	"newsreel/internal/services"
)

// Multi fans a search out across providers with bounded concurrency and an
// independent timeout per provider. A provider error or timeout degrades
// that provider's contribution to empty rather than failing the search.
type Multi struct {
	providers []Provider
	timeout   time.Duration
	logger    *slog.Logger
}

// NewMulti constructs a fan-out searcher over the given providers.
func NewMulti(providers []Provider, timeout time.Duration, logger *slog.Logger) *Multi {
	if logger == nil {
		logger = logging.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Multi{providers: providers, timeout: timeout, logger: logger}
}

// Search queries every provider concurrently and merges results in
// registry order, so output is deterministic given the same responses.
func (m *Multi) Search(ctx context.Context, req Request) []asset.Candidate {
	results := make([][]asset.Candidate, len(m.providers))

	var group errgroup.Group
	group.SetLimit(len(m.providers) + 1)
	for i, provider := range m.providers {
		group.Go(func() error {
			providerCtx, cancel := context.WithTimeout(services.WithProvider(ctx, provider.Name()), m.timeout)
			defer cancel()

			candidates, err := provider.Search(providerCtx, req)
			if err != nil {
				logging.WithContext(providerCtx, m.logger).Warn("provider search failed, contributing no candidates",
					logging.Error(err),
					logging.String("query", req.Query),
				)
				return nil
			}
			results[i] = candidates
			return nil
		})
	}
	_ = group.Wait()

	var merged []asset.Candidate
	for i := range results {
		merged = append(merged, results[i]...)
	}
	return merged
}
