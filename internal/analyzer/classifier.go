package analyzer

import "github.com/vburojevic/logscan/internal/domain"

// Classifier evaluates a fixed rule set against single lines
type Classifier struct {
	rules RuleSet
}

// NewClassifier creates a classifier over rules. The slice is copied so later
// changes by the caller do not leak into classification.
func NewClassifier(rules RuleSet) *Classifier {
	rs := make(RuleSet, len(rules))
	copy(rs, rules)
	return &Classifier{rules: rs}
}

// Rules returns a copy of the rule set in evaluation order
func (c *Classifier) Rules() RuleSet {
	rs := make(RuleSet, len(c.rules))
	copy(rs, c.rules)
	return rs
}

// Classify returns one tag per rule that matches text. Rules are not
// mutually exclusive; an unmatched line yields nil.
func (c *Classifier) Classify(line int, text string) []domain.Tag {
	var tags []domain.Tag
	for _, r := range c.rules {
		if r.Match == nil || !r.Match(text) {
			continue
		}
		tag := domain.Tag{
			Category: r.Category,
			Line:     line,
			Text:     text,
		}
		if r.Category.Counted() {
			tag.SubType = r.SubType(text)
		}
		tags = append(tags, tag)
	}
	return tags
}
