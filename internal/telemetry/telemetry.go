// Package telemetry records per-stage attrition so pipeline tuning has
// data to work with. Each stage that narrows the candidate pool emits
// one record: counts before and after, a reason breakdown, and a capped
// sample of dropped items.
package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// SampleDrop identifies one dropped candidate and why it was dropped.
type SampleDrop struct {
	Identifier  string `json:"identifier"`
	Title       string `json:"title,omitempty"`
	Reason      string `json:"reason"`
	MatchedTerm string `json:"matched_term,omitempty"`
}

// Record is one stage transition. DropBreakdown keys are drop reason
// codes, values are counts.
type Record struct {
	Stage         string         `json:"stage"`
	Query         string         `json:"query"`
	TotalBefore   int            `json:"total_before"`
	TotalAfter    int            `json:"total_after"`
	TotalDropped  int            `json:"total_dropped"`
	DropBreakdown map[string]int `json:"drop_breakdown,omitempty"`
	SampleDrops   []SampleDrop   `json:"sample_drops,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
}

// Recorder appends records to a JSONL file and keeps an in-memory copy
// for end-of-run summaries. Safe for concurrent use.
type Recorder struct {
	mu          sync.Mutex
	file        *os.File
	records     []Record
	sampleLimit int
	now         func() time.Time
}

const defaultSampleLimit = 5

// NewRecorder opens (or creates) telemetry.jsonl under runDir.
// sampleLimit caps SampleDrops per record; zero or negative selects the
// default.
func NewRecorder(runDir string, sampleLimit int) (*Recorder, error) {
	if sampleLimit <= 0 {
		sampleLimit = defaultSampleLimit
	}
	file, err := os.OpenFile(filepath.Join(runDir, "telemetry.jsonl"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &Recorder{file: file, sampleLimit: sampleLimit, now: time.Now}, nil
}

// NewMemoryRecorder keeps records in memory only. Test hook and
// fallback when no run directory exists yet.
func NewMemoryRecorder(sampleLimit int) *Recorder {
	if sampleLimit <= 0 {
		sampleLimit = defaultSampleLimit
	}
	return &Recorder{sampleLimit: sampleLimit, now: time.Now}
}

// Emit finalizes and stores one record. TotalDropped and Timestamp are
// filled in here; SampleDrops is truncated to the configured limit.
func (r *Recorder) Emit(rec Record) error {
	rec.TotalDropped = rec.TotalBefore - rec.TotalAfter
	rec.Timestamp = r.now().UTC()
	if len(rec.SampleDrops) > r.sampleLimit {
		rec.SampleDrops = rec.SampleDrops[:r.sampleLimit]
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	if r.file == nil {
		return nil
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := r.file.Write(append(line, '\n')); err != nil {
		return err
	}
	return nil
}

// Records returns a copy of everything emitted so far.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Close flushes and closes the underlying file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}
