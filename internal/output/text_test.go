package output

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/logscan/internal/domain"
	"github.com/vburojevic/logscan/internal/search"
	"github.com/vburojevic/logscan/internal/source"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{name: "short text untouched", in: "abc", limit: 5, want: "abc"},
		{name: "exact length untouched", in: "abcde", limit: 5, want: "abcde"},
		{name: "long text cut", in: "abcdefgh", limit: 5, want: "abcde..."},
		{name: "zero limit disables", in: "abcdefgh", limit: 0, want: "abcdefgh"},
		{name: "cuts on runes", in: "ääääää", limit: 3, want: "äää..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.limit))
		})
	}
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", formatCount(0))
	assert.Equal(t, "999", formatCount(999))
	assert.Equal(t, "12,345", formatCount(12345))
	assert.Equal(t, "1,000,000", formatCount(1000000))
}

func TestTextWriter_WriteAnalysis(t *testing.T) {
	var buf bytes.Buffer
	w := NewTextWriter(&buf, DefaultReportOptions())

	require.NoError(t, w.WriteAnalysis(sampleAnalysis(), nil))

	out := buf.String()
	assert.Contains(t, out, "Analysis of /logs/Player.log")
	assert.Contains(t, out, "Total lines: 12,345")
	assert.Contains(t, out, "ERRORS FOUND (8 total):")
	assert.Contains(t, out, "NullReferenceException")
	assert.Contains(t, out, "Error: timeout")
	assert.Contains(t, out, "WARNINGS FOUND (3 total):")
	assert.Contains(t, out, "Other Warning")
	assert.Contains(t, out, "SUBSYSTEM MESSAGES (1 total):")
	assert.Contains(t, out, "Line 1: [Portal Gun] init")
	assert.Contains(t, out, "EXCEPTIONS (1 total):")
	assert.Contains(t, out, "Found 1 job error recovery attempts")
	assert.Contains(t, out, "• TryStartErrorRecoverJob")
	assert.Contains(t, out, "No recursion detected")
	assert.Contains(t, out, "REPEATED RUNS (1 total):")
	assert.Contains(t, out, "FAULTS DETECTED")

	// errors are listed in ranked order
	assert.Less(t, strings.Index(out, "NullReferenceException"), strings.Index(out, "Error: timeout"))
}

func TestTextWriter_WriteAnalysisEmpty(t *testing.T) {
	var buf bytes.Buffer
	w := NewTextWriter(&buf, DefaultReportOptions())

	require.NoError(t, w.WriteAnalysis(&domain.Analysis{}, nil))

	out := buf.String()
	assert.Contains(t, out, "Total lines: 0")
	assert.Contains(t, out, "No errors found")
	assert.Contains(t, out, "No warnings found")
	assert.Contains(t, out, "No subsystem messages found")
	assert.Contains(t, out, "No job errors found")
	assert.Contains(t, out, "No recursion detected")
	assert.Contains(t, out, "No repeated runs detected")
	assert.NotContains(t, out, "EXCEPTIONS")
	assert.Contains(t, out, "OK")
}

func TestTextWriter_SubsystemHeadTail(t *testing.T) {
	refs := func(n int) []domain.LineRef {
		out := make([]domain.LineRef, n)
		for i := range out {
			out[i] = domain.LineRef{Line: i + 1, Text: fmt.Sprintf("[Portal Gun] message %02d", i+1)}
		}
		return out
	}

	t.Run("ten or fewer shows head only", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewTextWriter(&buf, DefaultReportOptions())
		require.NoError(t, w.WriteAnalysis(&domain.Analysis{Snapshot: domain.Snapshot{Subsystem: refs(10)}}, nil))

		out := buf.String()
		assert.Contains(t, out, "message 05")
		assert.NotContains(t, out, "message 06")
		assert.NotContains(t, out, "Last few messages")
	})

	t.Run("more than ten shows head and tail", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewTextWriter(&buf, DefaultReportOptions())
		require.NoError(t, w.WriteAnalysis(&domain.Analysis{Snapshot: domain.Snapshot{Subsystem: refs(12)}}, nil))

		out := buf.String()
		assert.Contains(t, out, "message 05")
		assert.NotContains(t, out, "message 06")
		assert.NotContains(t, out, "message 07")
		assert.Contains(t, out, "Last few messages")
		assert.Contains(t, out, "message 08")
		assert.Contains(t, out, "message 12")
	})
}

func TestTextWriter_TruncatesExemplars(t *testing.T) {
	var buf bytes.Buffer
	w := NewTextWriter(&buf, ReportOptions{Samples: 5, Truncate: 10})

	long := "[Portal Gun] " + strings.Repeat("x", 200)
	require.NoError(t, w.WriteAnalysis(&domain.Analysis{Snapshot: domain.Snapshot{
		Subsystem: []domain.LineRef{{Line: 7, Text: long}},
	}}, nil))

	out := buf.String()
	assert.Contains(t, out, "Line 7: [Portal Gu...")
	assert.NotContains(t, out, long)
}

func TestTextWriter_Recursion(t *testing.T) {
	var buf bytes.Buffer
	w := NewTextWriter(&buf, DefaultReportOptions())

	require.NoError(t, w.WriteAnalysis(&domain.Analysis{Snapshot: domain.Snapshot{
		Recursion: []domain.LineRef{{Line: 3, Text: "TryReuseExistingPortal"}, {Line: 4, Text: "TryReuseExistingPortal"}},
	}}, nil))

	out := buf.String()
	assert.Contains(t, out, "POTENTIAL RECURSION (2 total):")
	assert.Contains(t, out, "Found 2 calls to TryReuseExistingPortal")
	assert.Contains(t, out, "This may indicate infinite recursion")
}

func TestTextWriter_SignatureStatus(t *testing.T) {
	var buf bytes.Buffer
	w := NewTextWriter(&buf, DefaultReportOptions())

	sigs := []SignatureMatch{
		{Category: domain.CategoryError, SubType: "NullReferenceException", Count: 6, IsNew: false},
		{Category: domain.CategoryError, SubType: "Error: timeout", Count: 2, IsNew: true},
	}
	require.NoError(t, w.WriteAnalysis(sampleAnalysis(), sigs))

	out := buf.String()
	assert.Contains(t, out, "KNOWN")
	assert.Contains(t, out, "NEW")
}

func TestTextWriter_WritePreview(t *testing.T) {
	var buf bytes.Buffer
	w := NewTextWriter(&buf, DefaultReportOptions())

	require.NoError(t, w.WritePreview(&source.Preview{
		Path:      "/tmp/file.txt",
		Encoding:  source.EncodingUTF8,
		Lines:     []string{"alpha", "beta"},
		Truncated: true,
		Note:      "fallback used",
	}))

	out := buf.String()
	assert.Contains(t, out, "FILE: /tmp/file.txt")
	assert.Contains(t, out, "NOTE: fallback used")
	assert.Contains(t, out, "LINES: 2 (utf-8), truncated")
	assert.Contains(t, out, "  1: alpha")
	assert.Contains(t, out, "  2: beta")
}

func TestTextWriter_WriteSearch(t *testing.T) {
	var buf bytes.Buffer
	w := NewTextWriter(&buf, DefaultReportOptions())

	res := &search.Result{
		Matches: []search.Match{{
			Path: "Defs/Things.xml",
			Size: 2048,
			Line: 2,
			Context: []search.ContextLine{
				{Line: 1, Text: "<Defs>"},
				{Line: 2, Text: "<label>Portal Gun</label>"},
				{Line: 3, Text: "</Defs>"},
			},
		}},
		FilesScanned: 3,
	}
	require.NoError(t, w.WriteSearch("portal gun", res))

	out := buf.String()
	assert.Contains(t, out, "File: Defs/Things.xml")
	assert.Contains(t, out, "Size: 2,048 bytes")
	assert.Contains(t, out, "Match at line 2:")
	assert.Contains(t, out, ">     2  <label>Portal Gun</label>")
	assert.Contains(t, out, "      1  <Defs>")
	assert.Contains(t, out, `Found 1 match(es) for "portal gun" in 3 file(s)`)
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "OK", StatusText(&domain.Analysis{}))
	assert.Equal(t, "WARNINGS ONLY", StatusText(&domain.Analysis{Snapshot: domain.Snapshot{TotalWarnings: 1}}))
	assert.Equal(t, "FAULTS DETECTED", StatusText(&domain.Analysis{Repetitions: []domain.RepetitionEvent{{Start: 1, Length: 6}}}))
}

func TestCategoryStyle(t *testing.T) {
	ResetStyles()
	defer DisableColor()

	for _, c := range domain.Categories() {
		assert.NotEqual(t, "", CategoryStyle(c).Render("x"), "category %s", c)
	}
}
