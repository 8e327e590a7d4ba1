package manifest

import (
	"fmt"
	"time"

	"newsreel/internal/asset"
)

// ValidationState tracks a clip through the three validation layers.
type ValidationState string

const (
	StateUnvalidated   ValidationState = "unvalidated"
	StateStreamValid   ValidationState = "stream_valid"
	StateStreamInvalid ValidationState = "stream_invalid"
)

// Scene is one script beat awaiting illustration.
type Scene struct {
	Index int
	Text  string
}

// SceneAssignment binds a scene to a resolved candidate and local subclip.
// An assignment enters the manifest Unvalidated, transitions to
// StreamValid or StreamInvalid after the per-clip probe, and an invalid
// assignment never re-enters the pool.
type SceneAssignment struct {
	SceneIndex    int
	SceneText     string
	Candidate     asset.Candidate
	ClipPath      string
	State         ValidationState
	FailureReason string
}

// Manifest is the ordered record of one pipeline run.
type Manifest struct {
	RunID         string
	Query         string
	CreatedAt     time.Time
	Coverage      float64
	TotalScenes   int
	DropBreakdown map[string]int
	Assignments   []SceneAssignment
	ArtifactPath  string
	Status        string
}

// Run status values persisted with the manifest.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusAborted   = "aborted"
)

// ValidAssignments returns the stream-valid assignments in scene order.
func (m *Manifest) ValidAssignments() []SceneAssignment {
	valid := make([]SceneAssignment, 0, len(m.Assignments))
	for _, assignment := range m.Assignments {
		if assignment.State == StateStreamValid {
			valid = append(valid, assignment)
		}
	}
	return valid
}

// RequireAllStreamValid rejects a manifest containing any assignment that
// is not stream-valid. The assembler calls this before it does anything
// else, so a future caller cannot hand it an unvalidated pool.
func (m *Manifest) RequireAllStreamValid() error {
	for _, assignment := range m.Assignments {
		if assignment.State != StateStreamValid {
			return fmt.Errorf("scene %d assignment %q has state %q, want %q",
				assignment.SceneIndex, assignment.Candidate.Identifier, assignment.State, StateStreamValid)
		}
	}
	return nil
}
