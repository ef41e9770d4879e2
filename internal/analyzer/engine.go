package analyzer

import (
	"fmt"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/vburojevic/logscan/internal/domain"
)

// LineSource yields decoded lines in file order. *bufio.Scanner satisfies it.
type LineSource interface {
	Scan() bool
	Text() string
	Err() error
}

// Engine drives the classifier, aggregator and repetition detector over a
// single pass. An Engine is not safe for concurrent use and must not be
// reused across inputs.
type Engine struct {
	classifier *Classifier
	aggregator *Aggregator
	detector   *RepetitionDetector

	clock         clock.Clock
	source        string
	flushTrailing bool
	onRepetition  func(domain.RepetitionEvent)

	lines       int
	repetitions []domain.RepetitionEvent
	startedAt   time.Time
	finished    *domain.Analysis
}

// Option configures an Engine
type Option func(*engineConfig)

type engineConfig struct {
	rules         RuleSet
	threshold     int
	clock         clock.Clock
	source        string
	flushTrailing bool
	onRepetition  func(domain.RepetitionEvent)
}

// WithRules replaces the default rule set
func WithRules(rules RuleSet) Option {
	return func(c *engineConfig) { c.rules = rules }
}

// WithThreshold sets the repetition threshold
func WithThreshold(n int) Option {
	return func(c *engineConfig) { c.threshold = n }
}

// WithClock injects the clock used for timings
func WithClock(clk clock.Clock) Option {
	return func(c *engineConfig) { c.clock = clk }
}

// WithSource records the name of the analysed input
func WithSource(name string) Option {
	return func(c *engineConfig) { c.source = name }
}

// WithFlushTrailing reports a run that is still open at end of input
func WithFlushTrailing(enabled bool) Option {
	return func(c *engineConfig) { c.flushTrailing = enabled }
}

// WithRepetitionHandler is called for every repetition event as it is detected
func WithRepetitionHandler(fn func(domain.RepetitionEvent)) Option {
	return func(c *engineConfig) { c.onRepetition = fn }
}

// NewEngine creates a fresh engine
func NewEngine(opts ...Option) *Engine {
	cfg := engineConfig{
		threshold: DefaultThreshold,
		clock:     clock.New(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rules == nil {
		cfg.rules = DefaultRules(DefaultMarkers())
	}

	return &Engine{
		classifier:    NewClassifier(cfg.rules),
		aggregator:    NewAggregator(),
		detector:      NewRepetitionDetector(cfg.threshold),
		clock:         cfg.clock,
		source:        cfg.source,
		flushTrailing: cfg.flushTrailing,
		onRepetition:  cfg.onRepetition,
	}
}

// Process consumes one raw line and returns the tags it produced
func (e *Engine) Process(raw string) []domain.Tag {
	if e.startedAt.IsZero() {
		e.startedAt = e.clock.Now()
	}
	e.lines++
	text := strings.TrimSpace(raw)

	tags := e.classifier.Classify(e.lines, text)
	for _, tag := range tags {
		e.aggregator.Add(tag)
	}
	if ev, ok := e.detector.Observe(e.lines, text); ok {
		e.record(ev)
	}
	return tags
}

// Run processes every line of src. On a read error the partial analysis is
// returned together with the error.
func (e *Engine) Run(src LineSource) (*domain.Analysis, error) {
	if e.startedAt.IsZero() {
		e.startedAt = e.clock.Now()
	}
	for src.Scan() {
		e.Process(src.Text())
	}
	if err := src.Err(); err != nil {
		return e.Analysis(), fmt.Errorf("read line %d: %w", e.lines+1, err)
	}
	return e.Finish(), nil
}

// Finish closes the pass. Calling it again returns the same analysis.
func (e *Engine) Finish() *domain.Analysis {
	if e.finished != nil {
		return e.finished
	}
	if e.flushTrailing {
		if ev, ok := e.detector.Flush(e.lines); ok {
			e.record(ev)
		}
	}
	e.finished = e.Analysis()
	return e.finished
}

// Analysis returns the state after the lines processed so far
func (e *Engine) Analysis() *domain.Analysis {
	reps := make([]domain.RepetitionEvent, len(e.repetitions))
	copy(reps, e.repetitions)

	a := &domain.Analysis{
		Source:      e.source,
		Lines:       e.lines,
		Snapshot:    e.aggregator.Snapshot(),
		Repetitions: reps,
		StartedAt:   e.startedAt,
	}
	if !e.startedAt.IsZero() {
		a.Duration = e.clock.Since(e.startedAt)
	}
	return a
}

// Lines returns how many lines have been processed
func (e *Engine) Lines() int {
	return e.lines
}

// Threshold returns the repetition threshold in effect
func (e *Engine) Threshold() int {
	return e.detector.Threshold()
}

func (e *Engine) record(ev domain.RepetitionEvent) {
	e.repetitions = append(e.repetitions, ev)
	if e.onRepetition != nil {
		e.onRepetition(ev)
	}
}
