package output

import (
	"io"

	"github.com/vburojevic/logscan/internal/domain"
)

// Emitter is the format-independent sink the analyze command writes to.
type Emitter interface {
	Repetition(ev domain.RepetitionEvent) error
	Analysis(a *domain.Analysis, sigs []SignatureMatch) error
	ReportSaved(path string) error
	Info(message, path string) error
	Warning(message string) error
	Error(code, message, hint string) error
}

// NewEmitter returns an NDJSON emitter for "ndjson" and a text emitter otherwise
func NewEmitter(format string, w io.Writer, opts ReportOptions) Emitter {
	if format == "ndjson" {
		return &ndjsonEmitter{w: NewNDJSONWriter(w)}
	}
	return &textEmitter{w: NewTextWriter(w, opts)}
}

type ndjsonEmitter struct {
	w *NDJSONWriter
}

func (e *ndjsonEmitter) Repetition(ev domain.RepetitionEvent) error { return e.w.WriteRepetition(ev) }
func (e *ndjsonEmitter) Analysis(a *domain.Analysis, sigs []SignatureMatch) error {
	return e.w.WriteAnalysis(a, sigs)
}
func (e *ndjsonEmitter) ReportSaved(path string) error   { return e.w.WriteReportSaved(path) }
func (e *ndjsonEmitter) Info(message, path string) error { return e.w.WriteInfo(message, path) }
func (e *ndjsonEmitter) Warning(message string) error    { return e.w.WriteWarning(message) }
func (e *ndjsonEmitter) Error(code, message, hint string) error {
	return e.w.WriteError(code, message, hint)
}

type textEmitter struct {
	w *TextWriter
}

func (e *textEmitter) Repetition(ev domain.RepetitionEvent) error { return e.w.WriteRepetition(ev) }
func (e *textEmitter) Analysis(a *domain.Analysis, sigs []SignatureMatch) error {
	return e.w.WriteAnalysis(a, sigs)
}
func (e *textEmitter) ReportSaved(path string) error   { return e.w.WriteReportSaved(path) }
func (e *textEmitter) Info(message, path string) error { return e.w.WriteInfo(message, path) }
func (e *textEmitter) Warning(message string) error    { return e.w.WriteWarning(message) }
func (e *textEmitter) Error(code, message, hint string) error {
	if err := e.w.WriteError(code, message); err != nil {
		return err
	}
	if hint != "" {
		return e.w.WriteInfo(Styles.Help.Render("Hint: "+hint), "")
	}
	return nil
}
