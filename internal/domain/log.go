package domain

// Category identifies which rule family produced a tag
type Category string

const (
	CategoryError     Category = "error"
	CategoryWarning   Category = "warning"
	CategorySubsystem Category = "subsystem"
	CategoryJobError  Category = "job_error"
	CategoryRecursion Category = "recursion"
)

// Categories lists every category in classification order
func Categories() []Category {
	return []Category{
		CategorySubsystem,
		CategoryError,
		CategoryWarning,
		CategoryJobError,
		CategoryRecursion,
	}
}

// Counted reports whether tags of this category feed a sub-type histogram
// (as opposed to an exemplar list)
func (c Category) Counted() bool {
	return c == CategoryError || c == CategoryWarning
}

// Label returns the human-readable name used in reports
func (c Category) Label() string {
	switch c {
	case CategoryError:
		return "Error"
	case CategoryWarning:
		return "Warning"
	case CategorySubsystem:
		return "Subsystem"
	case CategoryJobError:
		return "Job Error"
	case CategoryRecursion:
		return "Recursion"
	default:
		return string(c)
	}
}

// Tag is the result of one rule firing against one line
type Tag struct {
	Category Category `json:"category"`
	SubType  string   `json:"sub_type,omitempty"`
	Line     int      `json:"line"`
	Text     string   `json:"text"`
}

// LineRef points at a single log line kept as an exemplar
type LineRef struct {
	Line int    `json:"line"`
	Text string `json:"text"`
}

// Ref returns the exemplar form of the tag
func (t Tag) Ref() LineRef {
	return LineRef{Line: t.Line, Text: t.Text}
}
