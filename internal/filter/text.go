package filter

import (
	"strings"
)

// TextFilter keeps lines containing a substring, ignoring case
type TextFilter struct {
	query string
}

// NewTextFilter creates a text filter. An empty query matches everything.
func NewTextFilter(query string) *TextFilter {
	return &TextFilter{query: strings.ToLower(query)}
}

// Match returns true if the line text contains the query
func (f *TextFilter) Match(line *Line) bool {
	if f.query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(line.Text), f.query)
}
