package filter

import (
	"github.com/vburojevic/logscan/internal/domain"
)

// Line is the part of a classified line the filters look at
type Line struct {
	Text     string
	Tags     []domain.Tag
	Repeated bool
}

// Tagged reports whether the line carries any tag or closes a repeated run
func (l *Line) Tagged() bool {
	return len(l.Tags) > 0 || l.Repeated
}

// Filter determines if a line should be shown
type Filter interface {
	// Match returns true if the line passes the filter
	Match(line *Line) bool
}

// Chain combines multiple filters (all must pass)
type Chain struct {
	filters []Filter
}

// NewChain creates a filter chain from multiple filters. Nil filters are skipped.
func NewChain(filters ...Filter) *Chain {
	c := &Chain{}
	for _, f := range filters {
		c.Add(f)
	}
	return c
}

// Match returns true only if all filters pass
func (c *Chain) Match(line *Line) bool {
	for _, f := range c.filters {
		if !f.Match(line) {
			return false
		}
	}
	return true
}

// Add appends a filter to the chain
func (c *Chain) Add(f Filter) {
	if f == nil {
		return
	}
	c.filters = append(c.filters, f)
}

// Len returns the number of filters in the chain
func (c *Chain) Len() int {
	return len(c.filters)
}
