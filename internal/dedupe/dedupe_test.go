package dedupe

import (
	"testing"

	"newsreel/internal/asset"
)

func TestCollapseDropsAssignedIdentifiers(t *testing.T) {
	pool := []asset.Candidate{
		{Identifier: "already-used", Title: "Used"},
		{Identifier: "fresh", Title: "Fresh"},
	}
	result := Collapse(pool, map[string]struct{}{"already-used": {}})
	if len(result.Kept) != 1 || result.Kept[0].Identifier != "fresh" {
		t.Fatalf("unexpected kept pool: %v", result.Kept)
	}
	if len(result.Dropped) != 1 || result.Dropped[0].Reason != ReasonAlreadyAssigned {
		t.Fatalf("unexpected drops: %v", result.Dropped)
	}
}

func TestCollapseDropsRepeatedIdentifiers(t *testing.T) {
	pool := []asset.Candidate{
		{Identifier: "same", Title: "First copy"},
		{Identifier: "same", Title: "Second copy"},
	}
	result := Collapse(pool, nil)
	if len(result.Kept) != 1 || result.Kept[0].Title != "First copy" {
		t.Fatalf("unexpected kept pool: %v", result.Kept)
	}
	if result.Dropped[0].Reason != ReasonDuplicateIdentifier {
		t.Fatalf("unexpected reason: %v", result.Dropped[0])
	}
}

func TestCollapsePrefersPopularTitleDuplicate(t *testing.T) {
	pool := []asset.Candidate{
		{Identifier: "low", Title: "Moon Landing 1969", Downloads: 10},
		{Identifier: "unrelated", Title: "Something else"},
		{Identifier: "high", Title: "moon   landing, 1969!", Downloads: 500},
	}
	result := Collapse(pool, nil)
	if len(result.Kept) != 2 {
		t.Fatalf("expected 2 kept, got %v", result.Kept)
	}
	// The popular duplicate replaces the earlier one in place.
	if result.Kept[0].Identifier != "high" || result.Kept[1].Identifier != "unrelated" {
		t.Fatalf("unexpected kept order: %v", result.Kept)
	}
	if len(result.Dropped) != 1 || result.Dropped[0].Candidate.Identifier != "low" || result.Dropped[0].DuplicateOf != "high" {
		t.Fatalf("unexpected drops: %v", result.Dropped)
	}
}

func TestCollapseKeepsLessPopularLater(t *testing.T) {
	pool := []asset.Candidate{
		{Identifier: "high", Title: "Moon Landing", Downloads: 500},
		{Identifier: "low", Title: "Moon Landing", Downloads: 10},
	}
	result := Collapse(pool, nil)
	if len(result.Kept) != 1 || result.Kept[0].Identifier != "high" {
		t.Fatalf("unexpected kept pool: %v", result.Kept)
	}
	if result.Dropped[0].Candidate.Identifier != "low" || result.Dropped[0].DuplicateOf != "high" {
		t.Fatalf("unexpected drops: %v", result.Dropped)
	}
}

func TestCollapseIgnoresEmptyTitles(t *testing.T) {
	pool := []asset.Candidate{
		{Identifier: "a"},
		{Identifier: "b"},
	}
	result := Collapse(pool, nil)
	if len(result.Kept) != 2 {
		t.Fatalf("empty titles must not collapse: %v", result.Kept)
	}
}

func TestBreakdown(t *testing.T) {
	result := Result{Dropped: []Dropped{
		{Reason: ReasonDuplicateTitle},
		{Reason: ReasonDuplicateTitle},
		{Reason: ReasonAlreadyAssigned},
	}}
	breakdown := result.Breakdown()
	if breakdown[ReasonDuplicateTitle] != 2 || breakdown[ReasonAlreadyAssigned] != 1 {
		t.Fatalf("unexpected breakdown: %v", breakdown)
	}
}
