package search

import (
	"context"

	"newsreel/internal/asset"
)

// Request carries the parameters of one candidate search.
type Request struct {
	Query      string
	MediaTypes []string
	PageSize   int
}

// Provider is a single archival media source.
type Provider interface {
	Name() string
	Search(ctx context.Context, req Request) ([]asset.Candidate, error)
}
