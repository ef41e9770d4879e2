package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/vburojevic/logscan/internal/output"
	"github.com/vburojevic/logscan/internal/search"
	"github.com/vburojevic/logscan/internal/source"
)

// GrepCmd searches files under one or more directories for a keyword
type GrepCmd struct {
	Keyword string   `arg:"" help:"Case-insensitive keyword"`
	Roots   []string `arg:"" optional:"" name:"root" help:"Directories to search (default: search.roots from config)"`
	Ext     []string `short:"e" help:"File extensions to read, e.g. .xml (default from config; pass '*' for all files)"`
	Context int      `short:"C" default:"-1" help:"Lines of context on each side of a match (default from config, 4)"`
	Workers int      `short:"j" help:"Concurrent file readers (default: number of CPUs)"`
}

// Run executes the grep command
func (c *GrepCmd) Run(globals *Globals) error {
	maybeNoStyle(globals)
	cfg := globals.cfg()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	roots := c.Roots
	if len(roots) == 0 {
		roots = cfg.Search.Roots
	}
	expanded := make([]string, 0, len(roots))
	for _, r := range roots {
		expanded = append(expanded, source.ExpandPath(r))
	}

	exts := c.Ext
	if len(exts) == 0 {
		exts = cfg.Search.Extensions
	}
	if len(exts) == 1 && exts[0] == "*" {
		exts = nil
	}

	around := c.Context
	if around < 0 {
		around = cfg.Search.Context
	}
	if around == 0 {
		// search treats 0 as its default window
		around = -1
	}

	workers := c.Workers
	if workers <= 0 {
		workers = cfg.Search.Workers
	}

	globals.Log().Debug("searching",
		zap.String("keyword", c.Keyword),
		zap.Strings("roots", expanded),
		zap.Strings("extensions", exts),
	)
	res, err := search.Search(ctx, expanded, c.Keyword, search.Options{
		Extensions: exts,
		Context:    around,
		Workers:    workers,
		Logger:     globals.Log(),
	})
	if err != nil {
		if ctx.Err() != nil {
			return outputErrorCommon(globals, CodeSearchError, "search interrupted")
		}
		return outputErrorCommon(globals, sourceErrorCode(err), err.Error(), hintForSearch(err))
	}

	emitter := output.NewEmitter(globals.Format, globals.Stdout, output.ReportOptions{})
	for _, root := range res.MissingRoots {
		emitWarning(globals, emitter, "search path does not exist: "+root)
	}
	if globals.Format != "ndjson" {
		for _, s := range res.Skipped {
			emitWarning(globals, emitter, "could not read "+s.Path+": "+s.Reason)
		}
		return output.NewTextWriter(globals.Stdout, output.ReportOptions{}).WriteSearch(c.Keyword, res)
	}
	return output.NewNDJSONWriter(globals.Stdout).WriteSearch(c.Keyword, res)
}
