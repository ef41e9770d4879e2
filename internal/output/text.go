package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vburojevic/logscan/internal/domain"
	"github.com/vburojevic/logscan/internal/search"
	"github.com/vburojevic/logscan/internal/source"
)

// ReportOptions tune the console report
type ReportOptions struct {
	// Samples is how many exemplar lines are shown at each end of a list
	Samples int
	// Truncate caps exemplar text in runes; 0 disables truncation
	Truncate int
	// JobPatterns are reported when any job error line contains them
	JobPatterns []string
	// RecursionCall names the call site counted as recursion
	RecursionCall string
}

// DefaultReportOptions mirrors the defaults in config
func DefaultReportOptions() ReportOptions {
	return ReportOptions{
		Samples:       5,
		Truncate:      100,
		JobPatterns:   []string{"TryStartErrorRecoverJob"},
		RecursionCall: "TryReuseExistingPortal",
	}
}

var numbers = message.NewPrinter(language.English)

// formatCount renders n with thousands separators
func formatCount(n int) string {
	return numbers.Sprintf("%d", n)
}

// Truncate shortens s to limit runes followed by "..."
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

// TextWriter writes analysis results as styled text
type TextWriter struct {
	w    io.Writer
	opts ReportOptions
}

// NewTextWriter creates a new text writer
func NewTextWriter(w io.Writer, opts ReportOptions) *TextWriter {
	return &TextWriter{w: w, opts: opts}
}

// WriteRepetition prints a detected run as it happens
func (w *TextWriter) WriteRepetition(ev domain.RepetitionEvent) error {
	line := Styles.Loop.Render("Potential loop detected") + " around line " +
		Styles.Value.Render(strconv.Itoa(ev.Start)) + ": " +
		Styles.Value.Render(strconv.Itoa(ev.Length)) + " identical lines\n"
	_, err := io.WriteString(w.w, line)
	return err
}

// WriteAnalysis prints the console report. sigs may be nil.
func (w *TextWriter) WriteAnalysis(a *domain.Analysis, sigs []SignatureMatch) error {
	var b strings.Builder
	snap := a.Snapshot
	idx := indexSignatures(sigs)

	if a.Source != "" {
		b.WriteString(Styles.Header.Render("Analysis of "+a.Source) + "\n")
	}
	b.WriteString(Styles.Label.Render("Total lines: ") + Styles.Value.Render(formatCount(a.Lines)) + "\n")

	b.WriteString(w.section(domain.CategoryError, "ERRORS FOUND", snap.TotalErrors))
	if len(snap.Errors) == 0 {
		b.WriteString("  No errors found\n")
	} else if err := renderCounts(&b, domain.CategoryError, snap.Errors, idx); err != nil {
		return err
	}

	b.WriteString(w.section(domain.CategoryWarning, "WARNINGS FOUND", snap.TotalWarnings))
	if len(snap.Warnings) == 0 {
		b.WriteString("  No warnings found\n")
	} else if err := renderCounts(&b, domain.CategoryWarning, snap.Warnings, idx); err != nil {
		return err
	}

	b.WriteString(w.section(domain.CategorySubsystem, "SUBSYSTEM MESSAGES", len(snap.Subsystem)))
	if len(snap.Subsystem) == 0 {
		b.WriteString("  No subsystem messages found\n")
	} else {
		w.writeHeadTail(&b, snap.Subsystem)
	}

	if len(snap.Exceptions) > 0 {
		b.WriteString(w.section(domain.CategoryError, "EXCEPTIONS", len(snap.Exceptions)))
		w.writeRefs(&b, head(snap.Exceptions, w.samples()))
		if len(snap.Exceptions) > w.samples() {
			b.WriteString("  ...\n")
		}
	}

	b.WriteString(w.section(domain.CategoryJobError, "JOB ERRORS", len(snap.JobErrors)))
	if len(snap.JobErrors) == 0 {
		b.WriteString("  No job errors found\n")
	} else {
		fmt.Fprintf(&b, "  Found %s job error recovery attempts\n", formatCount(len(snap.JobErrors)))
		for _, p := range w.jobPatterns(snap.JobErrors) {
			b.WriteString("  • " + p + "\n")
		}
	}

	b.WriteString(w.section(domain.CategoryRecursion, "POTENTIAL RECURSION", len(snap.Recursion)))
	if len(snap.Recursion) == 0 {
		b.WriteString("  No recursion detected\n")
	} else {
		call := w.opts.RecursionCall
		if call == "" {
			call = "the recursion marker"
		}
		fmt.Fprintf(&b, "  Found %s calls to %s\n", formatCount(len(snap.Recursion)), call)
		b.WriteString("  " + Styles.Caution.Render("This may indicate infinite recursion") + "\n")
	}

	b.WriteString("\n" + Styles.Loop.Render(fmt.Sprintf("REPEATED RUNS (%d total):", len(a.Repetitions))) + "\n")
	if len(a.Repetitions) == 0 {
		b.WriteString("  No repeated runs detected\n")
	} else if err := w.renderRepetitions(&b, a.Repetitions); err != nil {
		return err
	}

	b.WriteString("\n" + Styles.Label.Render("Status: ") + StatusText(a) + "\n")

	_, err := io.WriteString(w.w, b.String())
	return err
}

func (w *TextWriter) section(c domain.Category, title string, total int) string {
	return "\n" + CategoryStyle(c).Render(fmt.Sprintf("%s (%s total):", title, formatCount(total))) + "\n"
}

func (w *TextWriter) samples() int {
	if w.opts.Samples <= 0 {
		return 5
	}
	return w.opts.Samples
}

// writeHeadTail shows the first samples refs and, when the list is longer
// than twice that, the last samples refs too
func (w *TextWriter) writeHeadTail(b *strings.Builder, refs []domain.LineRef) {
	n := w.samples()
	b.WriteString("  First few messages:\n")
	w.writeRefs(b, head(refs, n))
	if len(refs) > 2*n {
		b.WriteString("  ...\n")
		b.WriteString("  Last few messages:\n")
		w.writeRefs(b, refs[len(refs)-n:])
	}
}

func (w *TextWriter) writeRefs(b *strings.Builder, refs []domain.LineRef) {
	for _, r := range refs {
		b.WriteString("    " + Styles.LineNumber.Render("Line "+strconv.Itoa(r.Line)+":") + " " + Truncate(r.Text, w.opts.Truncate) + "\n")
	}
}

func (w *TextWriter) jobPatterns(refs []domain.LineRef) []string {
	var found []string
	for _, p := range w.opts.JobPatterns {
		for _, r := range refs {
			if strings.Contains(r.Text, p) {
				found = append(found, p)
				break
			}
		}
	}
	return found
}

func head(refs []domain.LineRef, n int) []domain.LineRef {
	if len(refs) > n {
		return refs[:n]
	}
	return refs
}

func renderCounts(b *strings.Builder, c domain.Category, counts []domain.Count, idx signatureIndex) error {
	table := tablewriter.NewWriter(b)
	if idx != nil {
		table.Header("Sub-type", "Count", "Status")
	} else {
		table.Header("Sub-type", "Count")
	}
	for _, cnt := range counts {
		row := []any{cnt.SubType, formatCount(cnt.Count)}
		if idx != nil {
			row = append(row, idx.status(c, cnt.SubType))
		}
		if err := table.Append(row...); err != nil {
			return err
		}
	}
	return table.Render()
}

func (w *TextWriter) renderRepetitions(b *strings.Builder, events []domain.RepetitionEvent) error {
	table := tablewriter.NewWriter(b)
	table.Header("Start", "End", "Length", "Line")
	for _, ev := range events {
		if err := table.Append(ev.Start, ev.End(), ev.Length, Truncate(ev.Text, w.opts.Truncate)); err != nil {
			return err
		}
	}
	return table.Render()
}

// WriteReportSaved tells the user where the summary file went
func (w *TextWriter) WriteReportSaved(path string) error {
	_, err := io.WriteString(w.w, "\n"+Styles.Label.Render("Detailed report saved to: ")+Styles.Path.Render(path)+"\n")
	return err
}

// WriteInfo outputs an informational line
func (w *TextWriter) WriteInfo(message, path string) error {
	line := message
	if path != "" {
		line += ": " + Styles.Path.Render(path)
	}
	_, err := io.WriteString(w.w, line+"\n")
	return err
}

// WriteWarning outputs a styled warning
func (w *TextWriter) WriteWarning(message string) error {
	_, err := io.WriteString(w.w, Styles.Caution.Render("Warning:")+" "+message+"\n")
	return err
}

// WriteError outputs a styled error
func (w *TextWriter) WriteError(code, message string) error {
	errorLabel := Styles.Danger.Render("Error")
	codeStr := Styles.Caution.Render("[" + code + "]")
	line := errorLabel + " " + codeStr + ": " + message + "\n"
	_, err := io.WriteString(w.w, line)
	return err
}

// WritePreview prints a numbered file head
func (w *TextWriter) WritePreview(p *source.Preview) error {
	var b strings.Builder
	rule := strings.Repeat("=", 80)
	b.WriteString(rule + "\n")
	b.WriteString(Styles.Label.Render("FILE: ") + Styles.Path.Render(p.Path) + "\n")
	if p.Note != "" {
		b.WriteString(Styles.Caution.Render("NOTE: ") + p.Note + "\n")
	}
	fmt.Fprintf(&b, "%s%d (%s)", Styles.Label.Render("LINES: "), len(p.Lines), p.Encoding)
	if p.Truncated {
		b.WriteString(", truncated")
	}
	b.WriteString("\n" + rule + "\n")
	width := len(strconv.Itoa(len(p.Lines)))
	if width < 3 {
		width = 3
	}
	for i, line := range p.Lines {
		b.WriteString(Styles.LineNumber.Render(fmt.Sprintf("%*d:", width, i+1)) + " " + line + "\n")
	}
	b.WriteString(rule + "\n")
	_, err := io.WriteString(w.w, b.String())
	return err
}

// WriteSearch prints every match with its context window
func (w *TextWriter) WriteSearch(keyword string, res *search.Result) error {
	var b strings.Builder
	for _, m := range res.Matches {
		b.WriteString(Styles.Label.Render("File: ") + Styles.Path.Render(m.Path) + "\n")
		b.WriteString(Styles.Label.Render("Size: ") + formatCount(int(m.Size)) + " bytes\n")
		b.WriteString(Styles.Label.Render("Match at line ") + Styles.Value.Render(strconv.Itoa(m.Line)) + ":\n")
		for _, c := range m.Context {
			num := Styles.LineNumber.Render(fmt.Sprintf("%6d", c.Line))
			if c.Line == m.Line {
				b.WriteString(Styles.Match.Render(">") + num + "  " + Styles.Match.Render(c.Text) + "\n")
				continue
			}
			b.WriteString(" " + num + "  " + c.Text + "\n")
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s %s match(es) for %q in %s file(s)\n",
		Styles.Label.Render("Found"), formatCount(len(res.Matches)), keyword, formatCount(res.FilesScanned))
	_, err := io.WriteString(w.w, b.String())
	return err
}
