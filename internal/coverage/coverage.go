// Package coverage implements the hard gate that aborts a run before it
// can produce a partially illustrated video.
package coverage

import (
	"fmt"

	"newsreel/internal/services"
)

// Report captures one coverage evaluation.
type Report struct {
	TotalScenes   int
	CoveredScenes int
	Threshold     float64
}

// Ratio returns the fraction of scenes with at least one assignable
// candidate.
func (r Report) Ratio() float64 {
	if r.TotalScenes <= 0 {
		return 0
	}
	return float64(r.CoveredScenes) / float64(r.TotalScenes)
}

// Evaluate checks scene coverage against the threshold. Coverage exactly
// at the threshold passes; anything below fails with a structured error.
// The gate is not retryable: the caller must broaden the query instead.
func Evaluate(totalScenes, coveredScenes int, threshold float64) (Report, error) {
	report := Report{TotalScenes: totalScenes, CoveredScenes: coveredScenes, Threshold: threshold}
	if totalScenes <= 0 {
		return report, services.Wrap(services.ErrConfiguration, "coverage", "evaluate", "no scenes to cover", nil)
	}
	if coveredScenes > totalScenes {
		return report, services.Wrap(services.ErrConfiguration, "coverage", "evaluate",
			fmt.Sprintf("covered scenes %d exceed total %d", coveredScenes, totalScenes), nil)
	}
	if report.Ratio() < threshold {
		return report, services.NewStructured(
			services.CodeCoverageBelowThreshold,
			fmt.Sprintf("scene coverage %.0f%% is below the required %.0f%%", report.Ratio()*100, threshold*100),
			totalScenes-coveredScenes,
			totalScenes,
			nil,
		)
	}
	return report, nil
}
