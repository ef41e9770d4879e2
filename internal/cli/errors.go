package cli

import (
	"errors"

	"github.com/vburojevic/logscan/internal/output"
	"github.com/vburojevic/logscan/internal/search"
	"github.com/vburojevic/logscan/internal/source"
)

// Error codes emitted in NDJSON error objects and text diagnostics
const (
	CodeLogNotFound       = "LOG_NOT_FOUND"
	CodeSourceUnavailable = "SOURCE_UNAVAILABLE"
	CodeReadError         = "READ_ERROR"
	CodeReportError       = "REPORT_ERROR"
	CodeSignatureError    = "SIGNATURE_STORE_ERROR"
	CodeInvalidArgument   = "INVALID_ARGUMENT"
	CodeSearchError       = "SEARCH_ERROR"
	CodeTUIError          = "TUI_ERROR"
	CodeInternal          = "INTERNAL_ERROR"
)

// CLIError is returned by every command that has already reported a failure
// on stdout (ndjson) or stderr (text). main only sets the exit status for it.
type CLIError struct {
	Code    string
	Message string
	Hint    string
}

func (e *CLIError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// outputErrorCommon normalizes error emission across commands, respecting
// ndjson vs text formats so consumers always get machine-readable failures.
func outputErrorCommon(globals *Globals, code, message string, hint ...string) error {
	h := ""
	if len(hint) > 0 {
		h = hint[0]
	}
	if globals != nil {
		if globals.Format == "ndjson" {
			_ = output.NewNDJSONWriter(globals.Stdout).WriteError(code, message, h)
		} else {
			_ = output.NewEmitter("text", globals.Stderr, output.ReportOptions{}).Error(code, message, h)
		}
	}
	return &CLIError{Code: code, Message: message, Hint: h}
}

// ReportUnhandled emits err unless a command already reported it as a CLIError
func ReportUnhandled(globals *Globals, err error) {
	var cliErr *CLIError
	if err == nil || errors.As(err, &cliErr) {
		return
	}
	_ = outputErrorCommon(globals, CodeInternal, err.Error())
}

// sourceErrorCode maps source failures to error codes
func sourceErrorCode(err error) string {
	switch {
	case errors.Is(err, source.ErrNotFound):
		return CodeLogNotFound
	case errors.Is(err, source.ErrSourceUnavailable):
		return CodeSourceUnavailable
	case errors.Is(err, search.ErrNoRoots), errors.Is(err, search.ErrEmptyKeyword):
		return CodeInvalidArgument
	default:
		return CodeReadError
	}
}
