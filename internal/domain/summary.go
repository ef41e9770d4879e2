package domain

import "time"

// Count is one row of a ranked sub-type histogram
type Count struct {
	SubType string `json:"sub_type"`
	Count   int    `json:"count"`
}

// Snapshot is a read-only view of the aggregated classification state
type Snapshot struct {
	// Ranked by count, descending; ties keep first-seen order
	Errors        []Count `json:"errors"`
	Warnings      []Count `json:"warnings"`
	TotalErrors   int     `json:"total_errors"`
	TotalWarnings int     `json:"total_warnings"`

	// Exemplars in line order
	Subsystem  []LineRef `json:"subsystem"`
	JobErrors  []LineRef `json:"job_errors"`
	Recursion  []LineRef `json:"recursion"`
	Exceptions []LineRef `json:"exceptions"`
}

// Empty reports whether nothing was tagged
func (s Snapshot) Empty() bool {
	return s.TotalErrors == 0 && s.TotalWarnings == 0 &&
		len(s.Subsystem) == 0 && len(s.JobErrors) == 0 && len(s.Recursion) == 0
}

// RepetitionEvent describes a run of identical consecutive lines
type RepetitionEvent struct {
	Start  int    `json:"start"`
	Length int    `json:"length"`
	Text   string `json:"text"`
}

// End returns the last line number covered by the run
func (e RepetitionEvent) End() int {
	return e.Start + e.Length - 1
}

// Analysis is everything a single pass over a log produced
type Analysis struct {
	Source      string            `json:"source,omitempty"`
	Lines       int               `json:"lines"`
	Snapshot    Snapshot          `json:"snapshot"`
	Repetitions []RepetitionEvent `json:"repetitions"`
	StartedAt   time.Time         `json:"started_at"`
	Duration    time.Duration     `json:"duration_ns"`
}

// HasFaults reports whether the pass found errors, job errors, recursion or loops
func (a *Analysis) HasFaults() bool {
	return a.Snapshot.TotalErrors > 0 || len(a.Snapshot.JobErrors) > 0 ||
		len(a.Snapshot.Recursion) > 0 || len(a.Repetitions) > 0
}

// ErrorOutput represents a structured error for NDJSON output
type ErrorOutput struct {
	Type          string `json:"type"`          // Always "error"
	SchemaVersion int    `json:"schemaVersion"` // Schema version for compatibility
	Code          string `json:"code"`          // Machine-readable error code
	Message       string `json:"message"`       // Human-readable message
	Hint          string `json:"hint,omitempty"`
}

// NewErrorOutput creates a new error output
// Note: SchemaVersion should be set by the caller (output package)
func NewErrorOutput(code, message string) *ErrorOutput {
	return &ErrorOutput{
		Type:    "error",
		Code:    code,
		Message: message,
	}
}
