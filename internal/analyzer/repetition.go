package analyzer

import "github.com/vburojevic/logscan/internal/domain"

// DefaultThreshold is the run length a line must exceed to be reported
const DefaultThreshold = 5

// RepetitionDetector reports runs of identical consecutive lines.
//
// A run is reported when the line after it differs, so a run that reaches
// the end of input is only reported through Flush.
type RepetitionDetector struct {
	threshold int
	previous  string
	count     int
}

// NewRepetitionDetector creates a detector; threshold < 1 uses DefaultThreshold
func NewRepetitionDetector(threshold int) *RepetitionDetector {
	if threshold < 1 {
		threshold = DefaultThreshold
	}
	return &RepetitionDetector{threshold: threshold}
}

// Threshold returns the exclusive run-length threshold
func (d *RepetitionDetector) Threshold() int {
	return d.threshold
}

// Observe feeds the normalized text of line. It returns the run that just
// ended when that run was longer than the threshold.
func (d *RepetitionDetector) Observe(line int, text string) (domain.RepetitionEvent, bool) {
	if text == d.previous {
		d.count++
		return domain.RepetitionEvent{}, false
	}

	var (
		ev      domain.RepetitionEvent
		emitted bool
	)
	if d.count > d.threshold {
		ev = domain.RepetitionEvent{
			Start:  line - d.count,
			Length: d.count,
			Text:   d.previous,
		}
		emitted = true
	}
	d.previous = text
	d.count = 1
	return ev, emitted
}

// Flush reports a run still open after lastLine. Only strict mode calls it.
func (d *RepetitionDetector) Flush(lastLine int) (domain.RepetitionEvent, bool) {
	if d.count <= d.threshold {
		return domain.RepetitionEvent{}, false
	}
	ev := domain.RepetitionEvent{
		Start:  lastLine - d.count + 1,
		Length: d.count,
		Text:   d.previous,
	}
	d.count = 0
	return ev, true
}
