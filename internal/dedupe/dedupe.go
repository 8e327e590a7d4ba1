// Package dedupe removes duplicate candidates from the working pool:
// identifiers already assigned to a scene, identifiers repeated across
// sources, and near-duplicate titles collapsed to one representative.
//
// Telemetry keeps every dropped candidate; only the assignable pool
// shrinks.
package dedupe

import (
	"newsreel/internal/asset"
	"newsreel/internal/textutil"
)

// Drop reasons recorded in telemetry.
const (
	ReasonAlreadyAssigned     = "DROP_ALREADY_ASSIGNED"
	ReasonDuplicateIdentifier = "DROP_DUPLICATE_IDENTIFIER"
	ReasonDuplicateTitle      = "DROP_DUPLICATE_TITLE"
)

// Dropped records one candidate removed by dedup and what it duplicated.
type Dropped struct {
	Candidate   asset.Candidate
	Reason      string
	DuplicateOf string
}

// Result is the outcome of one dedup pass.
type Result struct {
	Kept    []asset.Candidate
	Dropped []Dropped
}

// Collapse deduplicates the pool. assignedIdentifiers holds identifiers
// already placed in the manifest being built; candidates repeating them
// are removed first. Among same-title candidates the highest-popularity
// one survives, keeping the position of the first occurrence so pool
// order stays deterministic.
func Collapse(pool []asset.Candidate, assignedIdentifiers map[string]struct{}) Result {
	result := Result{Kept: make([]asset.Candidate, 0, len(pool))}
	seenIdentifiers := make(map[string]struct{}, len(pool))
	titleIndex := make(map[string]int, len(pool))

	for _, candidate := range pool {
		if _, assigned := assignedIdentifiers[candidate.Identifier]; assigned {
			result.Dropped = append(result.Dropped, Dropped{
				Candidate:   candidate,
				Reason:      ReasonAlreadyAssigned,
				DuplicateOf: candidate.Identifier,
			})
			continue
		}
		if _, seen := seenIdentifiers[candidate.Identifier]; seen {
			result.Dropped = append(result.Dropped, Dropped{
				Candidate:   candidate,
				Reason:      ReasonDuplicateIdentifier,
				DuplicateOf: candidate.Identifier,
			})
			continue
		}
		seenIdentifiers[candidate.Identifier] = struct{}{}

		titleKey := textutil.NormalizeTitle(candidate.Title)
		if titleKey == "" {
			result.Kept = append(result.Kept, candidate)
			continue
		}
		if at, seen := titleIndex[titleKey]; seen {
			existing := result.Kept[at]
			if candidate.Downloads > existing.Downloads {
				result.Kept[at] = candidate
				result.Dropped = append(result.Dropped, Dropped{
					Candidate:   existing,
					Reason:      ReasonDuplicateTitle,
					DuplicateOf: candidate.Identifier,
				})
			} else {
				result.Dropped = append(result.Dropped, Dropped{
					Candidate:   candidate,
					Reason:      ReasonDuplicateTitle,
					DuplicateOf: existing.Identifier,
				})
			}
			continue
		}
		titleIndex[titleKey] = len(result.Kept)
		result.Kept = append(result.Kept, candidate)
	}
	return result
}

// Breakdown tallies dedup drops by reason.
func (r Result) Breakdown() map[string]int {
	breakdown := make(map[string]int)
	for _, dropped := range r.Dropped {
		breakdown[dropped.Reason]++
	}
	return breakdown
}
