package cli

import (
	"github.com/vburojevic/logscan/internal/output"
)

// emitInfo respects format/quiet. Text goes to stdout with the report.
func emitInfo(globals *Globals, emitter output.Emitter, msg, path string) {
	if globals.Quiet {
		return
	}
	if err := emitter.Info(msg, path); err != nil {
		globals.Debug("write info: %v", err)
	}
}

// emitWarning respects format/quiet. Text warnings go to stderr.
func emitWarning(globals *Globals, emitter output.Emitter, msg string) {
	if globals.Quiet {
		return
	}
	if globals.Format == "ndjson" {
		if err := emitter.Warning(msg); err != nil {
			globals.Debug("write warning: %v", err)
		}
		return
	}
	if err := output.NewTextWriter(globals.Stderr, output.ReportOptions{}).WriteWarning(msg); err != nil {
		globals.Debug("write warning: %v", err)
	}
}
