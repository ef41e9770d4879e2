package filter

import (
	"github.com/vburojevic/logscan/internal/domain"
)

// TaggedFilter keeps lines that carry a tag or close a repeated run
type TaggedFilter struct{}

// Match returns true for tagged lines
func (TaggedFilter) Match(line *Line) bool {
	return line.Tagged()
}

// CategoryFilter keeps lines tagged with any of the given categories
type CategoryFilter struct {
	categories []domain.Category
}

// NewCategoryFilter creates a category filter
func NewCategoryFilter(categories ...domain.Category) *CategoryFilter {
	return &CategoryFilter{categories: categories}
}

// Match returns true if one of the line's tags is in the list
func (f *CategoryFilter) Match(line *Line) bool {
	if len(f.categories) == 0 {
		return true
	}
	for _, t := range line.Tags {
		for _, c := range f.categories {
			if t.Category == c {
				return true
			}
		}
	}
	return false
}
