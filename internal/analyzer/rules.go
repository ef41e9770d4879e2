package analyzer

import (
	"regexp"
	"strings"

	"github.com/vburojevic/logscan/internal/domain"
)

// Sub-type labels for warnings and the error fallback
const (
	SubsystemWarning    = "Subsystem Warning"
	JobWarning          = "Job Warning"
	PathFollowerWarning = "PathFollower Warning"
	OtherWarning        = "Other Warning"
	UnknownError        = "Unknown Error"
)

// Markers are the literal substrings the default rule set looks for.
// An empty marker disables the rule (or chain link) that uses it.
type Markers struct {
	// Subsystem tags subsystem messages (case-insensitive)
	Subsystem string
	// SubsystemWarning, JobWarning and PathFollower pick the warning
	// sub-type (case-sensitive containment, checked in that order)
	SubsystemWarning string
	JobWarning       string
	PathFollower     string
	// JobError names the error-recovery job entry point
	JobError string
	// Recursion names the call site known to recur pathologically
	Recursion string
}

// DefaultMarkers returns the markers for the Portal Gun mod's Player.log
func DefaultMarkers() Markers {
	return Markers{
		Subsystem:        "[Portal Gun]",
		SubsystemWarning: "Portal Gun",
		JobWarning:       "JobUtility",
		PathFollower:     "PathFollower",
		JobError:         "JobUtility.TryStartErrorRecoverJob",
		Recursion:        "TryReuseExistingPortal",
	}
}

// SubTypeRule is one link of a priority-ordered sub-type extraction chain
type SubTypeRule struct {
	Name    string
	Extract func(text string) (string, bool)
}

// Rule is an immutable, named pattern rule
type Rule struct {
	Name     string
	Category domain.Category
	Match    func(text string) bool

	// SubTypes is evaluated top to bottom; the first link that extracts wins.
	// Fallback is used when no link matches.
	SubTypes []SubTypeRule
	Fallback string
}

// SubType runs the extraction chain against text
func (r Rule) SubType(text string) string {
	for _, st := range r.SubTypes {
		if s, ok := st.Extract(text); ok {
			return s
		}
	}
	return r.Fallback
}

// RuleSet is the ordered, enumerated list of rules a Classifier evaluates
type RuleSet []Rule

// Names returns the rule names in evaluation order
func (rs RuleSet) Names() []string {
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = r.Name
	}
	return names
}

// DefaultRules builds the fixed rule set from the given markers
func DefaultRules(m Markers) RuleSet {
	var rules RuleSet

	if m.Subsystem != "" {
		rules = append(rules, Rule{
			Name:     "subsystem",
			Category: domain.CategorySubsystem,
			Match:    ContainsFold(m.Subsystem),
		})
	}

	rules = append(rules, Rule{
		Name:     "error",
		Category: domain.CategoryError,
		Match:    AnyFold("Error", "Exception", "Failed"),
		SubTypes: []SubTypeRule{
			{Name: "exception", Extract: FirstSubmatch(`(?i)(\w*Exception)`)},
			{Name: "error_colon", Extract: FirstSubmatch(`(?i)(Error:\s*\w+)`)},
			{Name: "failed", Extract: FirstSubmatch(`(?i)(Failed\s+\w+)`)},
		},
		Fallback: UnknownError,
	})

	var warnChain []SubTypeRule
	for _, link := range []struct{ marker, label string }{
		{m.SubsystemWarning, SubsystemWarning},
		{m.JobWarning, JobWarning},
		{m.PathFollower, PathFollowerWarning},
	} {
		if link.marker == "" {
			continue
		}
		warnChain = append(warnChain, SubTypeRule{
			Name:    link.label,
			Extract: ContainsLabel(link.marker, link.label),
		})
	}
	rules = append(rules, Rule{
		Name:     "warning",
		Category: domain.CategoryWarning,
		Match:    ContainsFold("Warning"),
		SubTypes: warnChain,
		Fallback: OtherWarning,
	})

	if m.JobError != "" {
		rules = append(rules, Rule{
			Name:     "job_error",
			Category: domain.CategoryJobError,
			Match:    ContainsFold(m.JobError),
		})
	}
	if m.Recursion != "" {
		rules = append(rules, Rule{
			Name:     "recursion",
			Category: domain.CategoryRecursion,
			Match:    ContainsFold(m.Recursion),
		})
	}

	return rules
}

// ContainsFold matches lines containing marker, ignoring case
func ContainsFold(marker string) func(string) bool {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(marker))
	return re.MatchString
}

// AnyFold matches lines containing any of the words, ignoring case
func AnyFold(words ...string) func(string) bool {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	re := regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)
	return re.MatchString
}

// FirstSubmatch extracts the first capture group of pattern
func FirstSubmatch(pattern string) func(string) (string, bool) {
	re := regexp.MustCompile(pattern)
	return func(text string) (string, bool) {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 {
			return "", false
		}
		return m[1], true
	}
}

// ContainsLabel yields label when text contains marker (case-sensitive)
func ContainsLabel(marker, label string) func(string) (string, bool) {
	return func(text string) (string, bool) {
		if strings.Contains(text, marker) {
			return label, true
		}
		return "", false
	}
}
