package manifest

import (
	"testing"

	"newsreel/internal/asset"
)

func TestValidAssignmentsFiltersByState(t *testing.T) {
	m := &Manifest{Assignments: []SceneAssignment{
		{SceneIndex: 0, State: StateStreamValid},
		{SceneIndex: 1, State: StateStreamInvalid},
		{SceneIndex: 2, State: StateUnvalidated},
		{SceneIndex: 3, State: StateStreamValid},
	}}
	valid := m.ValidAssignments()
	if len(valid) != 2 || valid[0].SceneIndex != 0 || valid[1].SceneIndex != 3 {
		t.Fatalf("unexpected valid assignments: %v", valid)
	}
}

func TestRequireAllStreamValid(t *testing.T) {
	ok := &Manifest{Assignments: []SceneAssignment{
		{SceneIndex: 0, State: StateStreamValid},
	}}
	if err := ok.RequireAllStreamValid(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := &Manifest{Assignments: []SceneAssignment{
		{SceneIndex: 0, State: StateStreamValid},
		{SceneIndex: 1, State: StateUnvalidated, Candidate: asset.Candidate{Identifier: "sneaky"}},
	}}
	if err := bad.RequireAllStreamValid(); err == nil {
		t.Fatal("expected error for unvalidated assignment")
	}
}
