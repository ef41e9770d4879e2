package filter

import (
	"regexp"
	"strings"

	"github.com/vburojevic/logscan/internal/domain"
)

// ExcludePatternFilter drops lines matching a regex pattern
type ExcludePatternFilter struct {
	pattern *regexp.Regexp
}

// NewExcludePatternFilter creates an exclusion filter from a pattern string
func NewExcludePatternFilter(pattern string) (*ExcludePatternFilter, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &ExcludePatternFilter{pattern: re}, nil
}

// Match returns true if the line does NOT match the exclusion pattern
func (f *ExcludePatternFilter) Match(line *Line) bool {
	if f.pattern == nil {
		return true
	}
	return !f.pattern.MatchString(line.Text)
}

// ExcludeSubTypeFilter drops lines tagged with one of the given sub-types.
// A trailing * matches by prefix.
type ExcludeSubTypeFilter struct {
	subTypes []string
}

// NewExcludeSubTypeFilter creates an exclusion filter for sub-types
func NewExcludeSubTypeFilter(subTypes []string) *ExcludeSubTypeFilter {
	return &ExcludeSubTypeFilter{subTypes: subTypes}
}

// Match returns true if none of the line's tags carry an excluded sub-type
func (f *ExcludeSubTypeFilter) Match(line *Line) bool {
	for _, t := range line.Tags {
		if t.SubType != "" && matchesAny(t, f.subTypes) {
			return false
		}
	}
	return true
}

func matchesAny(t domain.Tag, patterns []string) bool {
	for _, p := range patterns {
		if strings.HasSuffix(p, "*") {
			if strings.HasPrefix(t.SubType, strings.TrimSuffix(p, "*")) {
				return true
			}
		} else if t.SubType == p {
			return true
		}
	}
	return false
}
