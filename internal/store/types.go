package store

import (
	"fmt"
	"time"
)

// JobConfig holds the configuration of a scoring job (result copy).
// It is defined here and aliased by the server package, which avoids an
// import cycle.
type JobConfig struct {
	RefPath string `json:"refPath"`
	DisPath string `json:"disPath"`
	Bpc     int    `json:"bpc,omitempty"` // 8, 10 or 12; 0 means 8
}

// Result is a completed scoring run. The per-frame rows live in the
// adjacent trace.jsonl; Result carries only the aggregate.
type Result struct {
	// JobID is the unique identifier of the run.
	JobID string `json:"jobId"`

	// Frames is the number of frame pairs scored.
	Frames int `json:"frames"`

	// ScaleScores are the mean per-scale VIF ratios over all frames,
	// indexed by scale.
	ScaleScores [4]float64 `json:"scaleScores"`

	// Timestamp records when the run finished.
	Timestamp time.Time `json:"timestamp"`

	// Config holds the job configuration for later inspection.
	Config JobConfig `json:"config"`
}

// ResultInfo is result metadata without the score payload, for listings.
type ResultInfo struct {
	JobID     string    `json:"jobId"`
	Frames    int       `json:"frames"`
	Timestamp time.Time `json:"timestamp"`
	RefPath   string    `json:"refPath"`
	DisPath   string    `json:"disPath"`
}

// NewResult creates a result from run state.
func NewResult(jobID string, frames int, scaleScores [4]float64, config JobConfig) *Result {
	return &Result{
		JobID:       jobID,
		Frames:      frames,
		ScaleScores: scaleScores,
		Timestamp:   time.Now(),
		Config:      config,
	}
}

// ToInfo converts a full Result to its listing metadata.
func (r *Result) ToInfo() ResultInfo {
	return ResultInfo{
		JobID:     r.JobID,
		Frames:    r.Frames,
		Timestamp: r.Timestamp,
		RefPath:   r.Config.RefPath,
		DisPath:   r.Config.DisPath,
	}
}

// Validate checks that the result has usable data.
func (r *Result) Validate() error {
	if r.JobID == "" {
		return &ValidationError{Field: "JobID", Reason: "cannot be empty"}
	}
	if r.Frames <= 0 {
		return &ValidationError{Field: "Frames", Reason: "must be positive"}
	}
	if r.Config.RefPath == "" {
		return &ValidationError{Field: "Config.RefPath", Reason: "cannot be empty"}
	}
	if r.Config.DisPath == "" {
		return &ValidationError{Field: "Config.DisPath", Reason: "cannot be empty"}
	}
	return nil
}

// ValidationError describes an invalid result field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid result: %s %s", e.Field, e.Reason)
}
