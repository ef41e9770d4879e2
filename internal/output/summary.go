package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vburojevic/logscan/internal/domain"
)

// DefaultSummaryTop is how many ranked sub-types the summary file lists
const DefaultSummaryTop = 10

// SummaryTitle heads every summary file
const SummaryTitle = "Log Analysis Report"

// WriteSummary renders the plaintext summary file body
func WriteSummary(w io.Writer, a *domain.Analysis, top int) error {
	if top <= 0 {
		top = DefaultSummaryTop
	}
	snap := a.Snapshot

	var b strings.Builder
	b.WriteString(SummaryTitle + "\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	fmt.Fprintf(&b, "File analyzed: %s\n", a.Source)
	fmt.Fprintf(&b, "Total lines: %s\n", formatCount(a.Lines))
	fmt.Fprintf(&b, "Total errors: %d\n", snap.TotalErrors)
	fmt.Fprintf(&b, "Total warnings: %d\n", snap.TotalWarnings)
	fmt.Fprintf(&b, "Subsystem messages: %d\n", len(snap.Subsystem))
	fmt.Fprintf(&b, "Repeated runs: %d\n\n", len(a.Repetitions))

	b.WriteString("Top Errors:\n")
	writeTop(&b, snap.Errors, top)
	b.WriteString("\nTop Warnings:\n")
	writeTop(&b, snap.Warnings, top)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeTop(b *strings.Builder, counts []domain.Count, top int) {
	if len(counts) > top {
		counts = counts[:top]
	}
	for _, c := range counts {
		fmt.Fprintf(b, "  %s: %d\n", c.SubType, c.Count)
	}
}

// SaveSummary writes the summary file to path, replacing any previous one
func SaveSummary(path string, a *domain.Analysis, top int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return WriteSummary(f, a, top)
}
