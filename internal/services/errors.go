package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// Structured error codes for pipeline-fatal gates.
const (
	CodeCoverageBelowThreshold = "coverage_below_threshold"
	CodeStreamValidationFailed = "stream_validation_failed"
	CodeConcatInputInvalid     = "concat_input_invalid"
	CodeArtifactInvalid        = "artifact_invalid"
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Structured is the machine-readable failure payload for pipeline-fatal
// gates: the coverage threshold and the pool-wide / pre-concat stream
// validation layers. It wraps ErrValidation so errors.Is classification
// keeps working.
type Structured struct {
	Code         string
	Reason       string
	InvalidCount int
	TotalCount   int
	InvalidItems []string
}

// NewStructured constructs a Structured gate failure.
func NewStructured(code, reason string, invalidCount, totalCount int, invalidItems []string) *Structured {
	return &Structured{
		Code:         code,
		Reason:       reason,
		InvalidCount: invalidCount,
		TotalCount:   totalCount,
		InvalidItems: append([]string(nil), invalidItems...),
	}
}

func (s *Structured) Error() string {
	if len(s.InvalidItems) > 0 {
		return fmt.Sprintf("%s: %s (%d/%d invalid: %s)", s.Code, s.Reason, s.InvalidCount, s.TotalCount, strings.Join(s.InvalidItems, ", "))
	}
	return fmt.Sprintf("%s: %s (%d/%d invalid)", s.Code, s.Reason, s.InvalidCount, s.TotalCount)
}

// Unwrap tags every structured gate failure as a validation error.
func (s *Structured) Unwrap() error { return ErrValidation }

// MarshalJSON emits the wire schema used by callers and the CLI:
// {error, reason, invalid_count, total_count, invalid_items}.
func (s *Structured) MarshalJSON() ([]byte, error) {
	items := s.InvalidItems
	if items == nil {
		items = []string{}
	}
	return json.Marshal(struct {
		Error        string   `json:"error"`
		Reason       string   `json:"reason"`
		InvalidCount int      `json:"invalid_count"`
		TotalCount   int      `json:"total_count"`
		InvalidItems []string `json:"invalid_items"`
	}{s.Code, s.Reason, s.InvalidCount, s.TotalCount, items})
}

// AsStructured extracts a Structured payload from an error chain.
func AsStructured(err error) (*Structured, bool) {
	var s *Structured
	if errors.As(err, &s) {
		return s, true
	}
	return nil, false
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
