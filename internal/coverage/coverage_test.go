package coverage

import (
	"errors"
	"testing"

	"newsreel/internal/services"
)

func TestEvaluateExactThresholdPasses(t *testing.T) {
	report, err := Evaluate(100, 50, 0.5)
	if err != nil {
		t.Fatalf("coverage of exactly 50%% must pass: %v", err)
	}
	if report.Ratio() != 0.5 {
		t.Fatalf("unexpected ratio: %v", report.Ratio())
	}
}

func TestEvaluateBelowThresholdFailsStructured(t *testing.T) {
	_, err := Evaluate(100, 49, 0.5)
	if err == nil {
		t.Fatal("coverage of 49% must fail")
	}
	structured, ok := services.AsStructured(err)
	if !ok {
		t.Fatalf("expected structured error, got %v", err)
	}
	if structured.Code != services.CodeCoverageBelowThreshold {
		t.Fatalf("unexpected code: %q", structured.Code)
	}
	if structured.InvalidCount != 51 || structured.TotalCount != 100 {
		t.Fatalf("unexpected counts: %#v", structured)
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation classification, got %v", err)
	}
}

func TestEvaluateScenarioFromEndToEnd(t *testing.T) {
	// 40 scenes, 30 covered: 75% passes the default 50% gate.
	report, err := Evaluate(40, 30, 0.5)
	if err != nil {
		t.Fatalf("expected pass: %v", err)
	}
	if report.Ratio() != 0.75 {
		t.Fatalf("unexpected ratio: %v", report.Ratio())
	}
}

func TestEvaluateZeroScenesIsConfigurationDefect(t *testing.T) {
	_, err := Evaluate(0, 0, 0.5)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestEvaluateRejectsImpossibleCounts(t *testing.T) {
	if _, err := Evaluate(10, 11, 0.5); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
