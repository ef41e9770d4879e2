package analyzer

import (
	"sort"
	"strings"

	"github.com/vburojevic/logscan/internal/domain"
)

// histogram counts sub-types and remembers first-seen order for tie breaks
type histogram struct {
	counts map[string]int
	order  []string
	total  int
}

func newHistogram() histogram {
	return histogram{counts: make(map[string]int)}
}

func (h *histogram) add(subType string) {
	if _, ok := h.counts[subType]; !ok {
		h.order = append(h.order, subType)
	}
	h.counts[subType]++
	h.total++
}

// ranked orders sub-types by count, descending. The stable sort over
// first-seen order breaks ties.
func (h *histogram) ranked() []domain.Count {
	out := make([]domain.Count, len(h.order))
	for i, st := range h.order {
		out[i] = domain.Count{SubType: st, Count: h.counts[st]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// Aggregator keeps running counts and exemplar lists for one pass
type Aggregator struct {
	errors   histogram
	warnings histogram

	subsystem  []domain.LineRef
	jobErrors  []domain.LineRef
	recursion  []domain.LineRef
	exceptions []domain.LineRef
}

// NewAggregator creates an empty aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{
		errors:   newHistogram(),
		warnings: newHistogram(),
	}
}

// Add folds a single tag into the aggregate state
func (a *Aggregator) Add(tag domain.Tag) {
	switch tag.Category {
	case domain.CategoryError:
		a.errors.add(tag.SubType)
		if strings.Contains(tag.Text, "Exception") {
			a.exceptions = append(a.exceptions, tag.Ref())
		}
	case domain.CategoryWarning:
		a.warnings.add(tag.SubType)
	case domain.CategorySubsystem:
		a.subsystem = append(a.subsystem, tag.Ref())
	case domain.CategoryJobError:
		a.jobErrors = append(a.jobErrors, tag.Ref())
	case domain.CategoryRecursion:
		a.recursion = append(a.recursion, tag.Ref())
	}
}

// Count returns the current count for a sub-type of a counted category
func (a *Aggregator) Count(category domain.Category, subType string) int {
	switch category {
	case domain.CategoryError:
		return a.errors.counts[subType]
	case domain.CategoryWarning:
		return a.warnings.counts[subType]
	default:
		return 0
	}
}

// Snapshot ranks the live counts and copies the exemplar lists. Nothing is
// cached; every call reflects the state at that moment.
func (a *Aggregator) Snapshot() domain.Snapshot {
	return domain.Snapshot{
		Errors:        a.errors.ranked(),
		Warnings:      a.warnings.ranked(),
		TotalErrors:   a.errors.total,
		TotalWarnings: a.warnings.total,
		Subsystem:     cloneRefs(a.subsystem),
		JobErrors:     cloneRefs(a.jobErrors),
		Recursion:     cloneRefs(a.recursion),
		Exceptions:    cloneRefs(a.exceptions),
	}
}

func cloneRefs(refs []domain.LineRef) []domain.LineRef {
	out := make([]domain.LineRef, len(refs))
	copy(out, refs)
	return out
}
