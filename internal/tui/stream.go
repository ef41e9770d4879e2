package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/vburojevic/logscan/internal/analyzer"
	"github.com/vburojevic/logscan/internal/domain"
)

// Stream runs a fresh engine over src and sends every line to entries as it
// is classified. It stops early with ctx.Err() when ctx is cancelled. entries
// is closed before Stream returns, after which src is no longer read.
func Stream(ctx context.Context, src analyzer.LineSource, entries chan<- Entry, opts ...analyzer.Option) (*domain.Analysis, error) {
	defer close(entries)

	var pending *domain.RepetitionEvent
	opts = append(opts, analyzer.WithRepetitionHandler(func(ev domain.RepetitionEvent) {
		pending = &ev
	}))
	e := analyzer.NewEngine(opts...)

	for src.Scan() {
		text := src.Text()
		tags := e.Process(text)
		entry := Entry{
			Line:       e.Lines(),
			Text:       strings.TrimSpace(text),
			Tags:       tags,
			Repetition: pending,
		}
		pending = nil
		select {
		case entries <- entry:
		case <-ctx.Done():
			return e.Analysis(), ctx.Err()
		}
	}
	if err := src.Err(); err != nil {
		return e.Analysis(), fmt.Errorf("read line %d: %w", e.Lines()+1, err)
	}

	a := e.Finish()
	if pending != nil {
		// run still open at end of input, reported by Finish
		select {
		case entries <- Entry{Line: e.Lines(), Repetition: pending}:
		case <-ctx.Done():
			return a, ctx.Err()
		}
	}
	return a, nil
}
