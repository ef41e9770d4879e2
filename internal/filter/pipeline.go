package filter

import (
	"fmt"
	"regexp"
)

// Pipeline chains a keep pattern and exclude patterns so callers can reuse a single matcher.
type Pipeline struct {
	pattern  *regexp.Regexp
	excludes []*regexp.Regexp
}

// NewPipeline returns nil when there is nothing to match
func NewPipeline(pattern *regexp.Regexp, excludes []*regexp.Regexp) *Pipeline {
	if pattern == nil && len(excludes) == 0 {
		return nil
	}
	return &Pipeline{pattern: pattern, excludes: excludes}
}

// CompilePipeline compiles pattern and excludes. An empty pattern keeps every line.
func CompilePipeline(pattern string, excludes []string) (*Pipeline, error) {
	var keep *regexp.Regexp
	if pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		keep = re
	}
	var drop []*regexp.Regexp
	for _, ex := range excludes {
		re, err := regexp.Compile(ex)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", ex, err)
		}
		drop = append(drop, re)
	}
	return NewPipeline(keep, drop), nil
}

// Match returns true when the line passes all predicates.
func (p *Pipeline) Match(line *Line) bool {
	if p == nil || line == nil {
		return true
	}
	if p.pattern != nil && !p.pattern.MatchString(line.Text) {
		return false
	}
	for _, ex := range p.excludes {
		if ex.MatchString(line.Text) {
			return false
		}
	}
	return true
}
