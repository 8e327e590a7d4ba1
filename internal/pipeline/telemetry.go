package pipeline

import (
	"sort"

	"newsreel/internal/dedupe"
	"newsreel/internal/filter"
	"newsreel/internal/manifest"
	"newsreel/internal/telemetry"
)

func filterSamples(verdicts []filter.Verdict) []telemetry.SampleDrop {
	var samples []telemetry.SampleDrop
	for _, verdict := range verdicts {
		if verdict.Keep {
			continue
		}
		samples = append(samples, telemetry.SampleDrop{
			Identifier:  verdict.Candidate.Identifier,
			Title:       verdict.Candidate.Title,
			Reason:      string(verdict.Reason),
			MatchedTerm: verdict.MatchedTerm,
		})
	}
	return samples
}

func dedupeSamples(dropped []dedupe.Dropped) []telemetry.SampleDrop {
	var samples []telemetry.SampleDrop
	for _, drop := range dropped {
		samples = append(samples, telemetry.SampleDrop{
			Identifier:  drop.Candidate.Identifier,
			Title:       drop.Candidate.Title,
			Reason:      drop.Reason,
			MatchedTerm: drop.DuplicateOf,
		})
	}
	return samples
}

func mergeBreakdowns(breakdowns ...map[string]int) map[string]int {
	merged := make(map[string]int)
	for _, breakdown := range breakdowns {
		for reason, count := range breakdown {
			merged[reason] += count
		}
	}
	return merged
}

// buildBreakdown tallies failed build attempts. A scene can contribute
// several failed attempts before its fallback succeeds.
func buildBreakdown(attempts []manifest.SceneAssignment) map[string]int {
	breakdown := make(map[string]int)
	for _, attempt := range attempts {
		if attempt.State == manifest.StateStreamInvalid {
			breakdown["DROP_STREAM_INVALID"]++
		}
	}
	return breakdown
}

func sortAttempts(attempts []manifest.SceneAssignment) {
	sort.SliceStable(attempts, func(a, b int) bool {
		if attempts[a].SceneIndex != attempts[b].SceneIndex {
			return attempts[a].SceneIndex < attempts[b].SceneIndex
		}
		return attempts[a].Candidate.Identifier < attempts[b].Candidate.Identifier
	})
}
