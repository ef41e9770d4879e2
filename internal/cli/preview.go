package cli

import (
	"github.com/vburojevic/logscan/internal/output"
	"github.com/vburojevic/logscan/internal/source"
)

// PreviewCmd prints the head of any file
type PreviewCmd struct {
	Path  string `arg:"" help:"File to preview (~ and $VARS are expanded)"`
	Lines int    `short:"n" help:"Number of lines to show (default from config, 160)"`
}

// Run executes the preview command
func (c *PreviewCmd) Run(globals *Globals) error {
	maybeNoStyle(globals)
	n := c.Lines
	if n <= 0 {
		n = globals.cfg().Preview.Lines
	}

	path := source.ExpandPath(c.Path)
	p, err := source.ReadHead(path, n, sourceOptions(globals))
	if err != nil {
		return outputErrorCommon(globals, sourceErrorCode(err), err.Error(), hintForSource(err))
	}
	globals.Debug("previewed %d lines of %s as %s", len(p.Lines), p.Path, p.Encoding)

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WritePreview(p)
	}
	return output.NewTextWriter(globals.Stdout, output.ReportOptions{}).WritePreview(p)
}
