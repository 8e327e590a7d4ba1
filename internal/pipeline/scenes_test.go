package pipeline

import (
	"errors"
	"strings"
	"testing"

	"newsreel/internal/services"
)

func TestParseScenes(t *testing.T) {
	script := `# apollo program script

Rocket on the launch pad
Liftoff and ascent

# closing act
Crowds celebrating in the streets
`
	scenes, err := ParseScenes(strings.NewReader(script))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(scenes) != 3 {
		t.Fatalf("expected 3 scenes, got %d", len(scenes))
	}
	if scenes[0].Index != 0 || scenes[0].Text != "Rocket on the launch pad" {
		t.Fatalf("unexpected first scene: %+v", scenes[0])
	}
	if scenes[2].Index != 2 || scenes[2].Text != "Crowds celebrating in the streets" {
		t.Fatalf("unexpected last scene: %+v", scenes[2])
	}
}

func TestParseScenesRejectsEmptyScript(t *testing.T) {
	_, err := ParseScenes(strings.NewReader("# only comments\n\n"))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
