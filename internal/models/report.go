package models

import (
	"encoding/json"
	"os"
	"time"
)

// EvaluationResult is the score for one completed trajectory.
type EvaluationResult struct {
	Score float64 `json:"score"`
	// Values holds the extracted/compared values where the strategy has any.
	Values    []string `json:"values,omitempty"`
	Rationale string   `json:"rationale"`
}

// Passed reports whether the result counts as a success for accuracy
// purposes. Fuzzy scores are continuous; only a perfect score counts.
func (r EvaluationResult) Passed() bool {
	return r.Score >= 1.0
}

// TaskRecord pairs one task with its trajectory and evaluation.
type TaskRecord struct {
	TaskID     string           `json:"task_id"`
	Category   string           `json:"category"`
	Score      float64          `json:"score"`
	Status     TerminalStatus   `json:"status"`
	Turns      int              `json:"turns"`
	Result     EvaluationResult `json:"result"`
	Trajectory Trajectory       `json:"trajectory"`
}

// ReportStatistics summarizes score dispersion across the batch.
type ReportStatistics struct {
	AggregateScore float64 `json:"aggregate_score"`
	CI95Lo         float64 `json:"ci95_lo,omitempty"`
	CI95Hi         float64 `json:"ci95_hi,omitempty"`
}

// AssessmentReport is the aggregate outcome of one assessment run. It grows
// monotonically while the batch runs and is immutable afterwards.
type AssessmentReport struct {
	RunID           string            `json:"run_id"`
	SubjectURL      string            `json:"subject_url"`
	TaskCategory    string            `json:"task_category"`
	Interactive     bool              `json:"interactive"`
	Timestamp       time.Time         `json:"timestamp"`
	Accuracy        float64           `json:"accuracy"`
	SuccessfulTasks int               `json:"successful_tasks"`
	TotalTasks      int               `json:"total_tasks"`
	Results         []TaskRecord      `json:"results"`
	Statistics      *ReportStatistics `json:"statistics,omitempty"`
	DurationMs      int64             `json:"duration_ms"`
}

// WriteJSON writes the report to path as indented JSON.
func (r *AssessmentReport) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
