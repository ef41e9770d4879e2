package output

import (
	"encoding/json"
	"io"

	"github.com/vburojevic/logscan/internal/domain"
	"github.com/vburojevic/logscan/internal/search"
	"github.com/vburojevic/logscan/internal/source"
)

// NDJSONWriter writes analysis results as NDJSON
type NDJSONWriter struct {
	w       io.Writer
	encoder *json.Encoder
}

// NewNDJSONWriter creates a new NDJSON writer
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false) // log lines are full of <> and &
	return &NDJSONWriter{
		w:       w,
		encoder: enc,
	}
}

// AnalysisOutput is the final result of one analyze run
type AnalysisOutput struct {
	Type          string `json:"type"`          // Always "analysis"
	SchemaVersion int    `json:"schemaVersion"` // Schema version for compatibility
	*domain.Analysis
	HasFaults  bool             `json:"has_faults"`
	Signatures []SignatureMatch `json:"signatures,omitempty"`
}

// RepetitionOutput is emitted as soon as a repeated run is detected
type RepetitionOutput struct {
	Type          string `json:"type"` // Always "repetition"
	SchemaVersion int    `json:"schemaVersion"`
	Start         int    `json:"start"`
	End           int    `json:"end"`
	Length        int    `json:"length"`
	Text          string `json:"text"`
}

// ReportSavedOutput points at a written summary file
type ReportSavedOutput struct {
	Type          string `json:"type"` // Always "report_saved"
	SchemaVersion int    `json:"schemaVersion"`
	Path          string `json:"path"`
}

// InfoOutput represents an informational message
type InfoOutput struct {
	Type          string `json:"type"` // Always "info"
	SchemaVersion int    `json:"schemaVersion"`
	Message       string `json:"message"`
	Path          string `json:"path,omitempty"`
}

// WarningOutput represents a warning message
type WarningOutput struct {
	Type          string `json:"type"` // Always "warning"
	SchemaVersion int    `json:"schemaVersion"`
	Message       string `json:"message"`
}

// PreviewOutput carries the head of a file
type PreviewOutput struct {
	Type          string `json:"type"` // Always "preview"
	SchemaVersion int    `json:"schemaVersion"`
	*source.Preview
}

// MatchOutput is one grep hit
type MatchOutput struct {
	Type          string `json:"type"` // Always "match"
	SchemaVersion int    `json:"schemaVersion"`
	search.Match
}

// SearchSummaryOutput closes a grep stream
type SearchSummaryOutput struct {
	Type          string           `json:"type"` // Always "search_summary"
	SchemaVersion int              `json:"schemaVersion"`
	Keyword       string           `json:"keyword"`
	FilesScanned  int              `json:"files_scanned"`
	Matches       int              `json:"matches"`
	MissingRoots  []string         `json:"missing_roots,omitempty"`
	Skipped       []search.Skipped `json:"skipped,omitempty"`
}

// WriteAnalysis outputs the final analysis
func (w *NDJSONWriter) WriteAnalysis(a *domain.Analysis, sigs []SignatureMatch) error {
	return w.encoder.Encode(&AnalysisOutput{
		Type:          "analysis",
		SchemaVersion: SchemaVersion,
		Analysis:      a,
		HasFaults:     a.HasFaults(),
		Signatures:    sigs,
	})
}

// WriteRepetition outputs a repetition event
func (w *NDJSONWriter) WriteRepetition(ev domain.RepetitionEvent) error {
	return w.encoder.Encode(&RepetitionOutput{
		Type:          "repetition",
		SchemaVersion: SchemaVersion,
		Start:         ev.Start,
		End:           ev.End(),
		Length:        ev.Length,
		Text:          ev.Text,
	})
}

// WriteReportSaved outputs the path of a written summary file
func (w *NDJSONWriter) WriteReportSaved(path string) error {
	return w.encoder.Encode(&ReportSavedOutput{
		Type:          "report_saved",
		SchemaVersion: SchemaVersion,
		Path:          path,
	})
}

// WriteError outputs an error
func (w *NDJSONWriter) WriteError(code, message string, hint ...string) error {
	err := domain.NewErrorOutput(code, message)
	if len(hint) > 0 {
		err.Hint = hint[0]
	}
	err.SchemaVersion = SchemaVersion
	return w.encoder.Encode(err)
}

// WriteInfo outputs an informational message
func (w *NDJSONWriter) WriteInfo(message, path string) error {
	return w.encoder.Encode(&InfoOutput{
		Type:          "info",
		SchemaVersion: SchemaVersion,
		Message:       message,
		Path:          path,
	})
}

// WriteWarning outputs a warning message
func (w *NDJSONWriter) WriteWarning(message string) error {
	return w.encoder.Encode(&WarningOutput{
		Type:          "warning",
		SchemaVersion: SchemaVersion,
		Message:       message,
	})
}

// WritePreview outputs a file preview
func (w *NDJSONWriter) WritePreview(p *source.Preview) error {
	return w.encoder.Encode(&PreviewOutput{
		Type:          "preview",
		SchemaVersion: SchemaVersion,
		Preview:       p,
	})
}

// WriteSearch outputs every match followed by a summary line
func (w *NDJSONWriter) WriteSearch(keyword string, res *search.Result) error {
	for _, m := range res.Matches {
		if err := w.encoder.Encode(&MatchOutput{
			Type:          "match",
			SchemaVersion: SchemaVersion,
			Match:         m,
		}); err != nil {
			return err
		}
	}
	return w.encoder.Encode(&SearchSummaryOutput{
		Type:          "search_summary",
		SchemaVersion: SchemaVersion,
		Keyword:       keyword,
		FilesScanned:  res.FilesScanned,
		Matches:       len(res.Matches),
		MissingRoots:  res.MissingRoots,
		Skipped:       res.Skipped,
	})
}

// WriteRaw outputs raw JSON data
func (w *NDJSONWriter) WriteRaw(v interface{}) error {
	return w.encoder.Encode(v)
}
