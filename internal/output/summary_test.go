package output

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/logscan/internal/domain"
)

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, sampleAnalysis(), 10))

	want := strings.Join([]string{
		SummaryTitle,
		strings.Repeat("=", 50),
		"",
		"File analyzed: /logs/Player.log",
		"Total lines: 12,345",
		"Total errors: 8",
		"Total warnings: 3",
		"Subsystem messages: 1",
		"Repeated runs: 1",
		"",
		"Top Errors:",
		"  NullReferenceException: 6",
		"  Error: timeout: 2",
		"",
		"Top Warnings:",
		"  Other Warning: 3",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteSummary_TopLimit(t *testing.T) {
	a := &domain.Analysis{}
	for i := 0; i < 15; i++ {
		a.Snapshot.Errors = append(a.Snapshot.Errors, domain.Count{SubType: fmt.Sprintf("E%02d", i), Count: 15 - i})
	}

	t.Run("default is ten", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSummary(&buf, a, 0))
		assert.Contains(t, buf.String(), "E09: 6")
		assert.NotContains(t, buf.String(), "E10")
	})

	t.Run("custom limit", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSummary(&buf, a, 3))
		assert.Contains(t, buf.String(), "E02: 13")
		assert.NotContains(t, buf.String(), "E03")
	})
}

func TestSaveSummary(t *testing.T) {
	t.Run("writes file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dump_analysis_report.txt")
		require.NoError(t, SaveSummary(path, sampleAnalysis(), 10))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), SummaryTitle))
	})

	t.Run("overwrites previous report", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.txt")
		require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("stale\n", 500)), 0644))
		require.NoError(t, SaveSummary(path, &domain.Analysis{Source: "x"}, 10))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "stale")
	})

	t.Run("fails for missing directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "report.txt")
		err := SaveSummary(path, sampleAnalysis(), 10)
		assert.Error(t, err)
	})
}
