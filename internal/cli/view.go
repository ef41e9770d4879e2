package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vburojevic/logscan/internal/analyzer"
	"github.com/vburojevic/logscan/internal/filter"
	"github.com/vburojevic/logscan/internal/source"
	"github.com/vburojevic/logscan/internal/tui"
)

// ViewCmd launches an interactive viewer over a classified log
type ViewCmd struct {
	Path      string   `arg:"" optional:"" help:"Log file to view (default: same discovery as analyze)"`
	Threshold int      `short:"t" help:"Report runs of more than N identical lines (default from config, 5)"`
	Pattern   string   `short:"p" help:"Only show lines matching this regex"`
	Exclude   []string `short:"x" help:"Hide lines matching this regex (repeatable)"`
	Hide      []string `help:"Hide lines tagged with these sub-types; a trailing * matches a prefix"`
}

// Run executes the view command
func (c *ViewCmd) Run(globals *Globals) error {
	cfg := globals.cfg()
	lines, err := filter.CompilePipeline(c.Pattern, c.Exclude)
	if err != nil {
		return outputErrorCommon(globals, CodeInvalidArgument, err.Error())
	}
	if !isTerminal(os.Stdin) || !isTerminal(globals.Stdout) {
		return outputErrorCommon(globals, CodeTUIError, "view needs an interactive terminal", "Use `logscan analyze` for non-interactive output")
	}

	path, err := locateLog(cfg, c.Path)
	if err != nil {
		return outputErrorCommon(globals, sourceErrorCode(err), err.Error(), hintForSource(err))
	}
	r, err := source.Open(path, sourceOptions(globals))
	if err != nil {
		return outputErrorCommon(globals, sourceErrorCode(err), err.Error(), hintForSource(err))
	}
	defer func() {
		if err := r.Close(); err != nil {
			globals.Debug("close %s: %v", path, err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	entries := make(chan tui.Entry, 256)
	done := make(chan tui.Result, 1)
	opts := append(engineOptions(cfg, c.Threshold, false), analyzer.WithSource(path))
	streamCtx, stopStream := context.WithCancel(ctx)
	go func() {
		a, err := tui.Stream(streamCtx, r, entries, opts...)
		done <- tui.Result{Analysis: a, Err: err}
	}()
	// runs before the reader is closed: entries closes once Stream has
	// stopped reading
	defer func() {
		stopStream()
		for range entries {
		}
	}()

	model := tui.New(path, 0, entries, done).WithLineFilter(c.lineFilter(lines))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return outputErrorCommon(globals, CodeTUIError, fmt.Sprintf("TUI error: %v", err))
	}

	return nil
}

// lineFilter combines the compiled patterns with the hidden sub-types
func (c *ViewCmd) lineFilter(p *filter.Pipeline) filter.Filter {
	chain := filter.NewChain()
	if p != nil {
		chain.Add(p)
	}
	if len(c.Hide) > 0 {
		chain.Add(filter.NewExcludeSubTypeFilter(c.Hide))
	}
	return chain
}
