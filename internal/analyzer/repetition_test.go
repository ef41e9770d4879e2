package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vburojevic/logscan/internal/domain"
)

func feed(d *RepetitionDetector, lines ...string) []domain.RepetitionEvent {
	var events []domain.RepetitionEvent
	for i, l := range lines {
		if ev, ok := d.Observe(i+1, l); ok {
			events = append(events, ev)
		}
	}
	return events
}

func times(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func TestRepetitionDetector_Threshold(t *testing.T) {
	t.Run("six identical lines trigger", func(t *testing.T) {
		events := feed(NewRepetitionDetector(5), append(times("A", 6), "B")...)
		require.Len(t, events, 1)
		assert.Equal(t, domain.RepetitionEvent{Start: 1, Length: 6, Text: "A"}, events[0])
		assert.Equal(t, 6, events[0].End())
	})

	t.Run("five identical lines do not trigger", func(t *testing.T) {
		events := feed(NewRepetitionDetector(5), append(times("A", 5), "B")...)
		assert.Empty(t, events)
	})

	t.Run("custom threshold", func(t *testing.T) {
		events := feed(NewRepetitionDetector(2), "A", "A", "A", "B")
		require.Len(t, events, 1)
		assert.Equal(t, 3, events[0].Length)
	})

	t.Run("non-positive threshold falls back to default", func(t *testing.T) {
		assert.Equal(t, DefaultThreshold, NewRepetitionDetector(0).Threshold())
		assert.Equal(t, DefaultThreshold, NewRepetitionDetector(-3).Threshold())
	})
}

func TestRepetitionDetector_Runs(t *testing.T) {
	t.Run("consecutive runs do not overlap", func(t *testing.T) {
		lines := append(times("A", 7), times("B", 6)...)
		lines = append(lines, "C")

		events := feed(NewRepetitionDetector(5), lines...)
		require.Len(t, events, 2)
		assert.Equal(t, domain.RepetitionEvent{Start: 1, Length: 7, Text: "A"}, events[0])
		assert.Equal(t, domain.RepetitionEvent{Start: 8, Length: 6, Text: "B"}, events[1])
	})

	t.Run("run in the middle of input", func(t *testing.T) {
		lines := []string{"x", "y"}
		lines = append(lines, times("loop", 10)...)
		lines = append(lines, "z")

		events := feed(NewRepetitionDetector(5), lines...)
		require.Len(t, events, 1)
		assert.Equal(t, domain.RepetitionEvent{Start: 3, Length: 10, Text: "loop"}, events[0])
	})

	t.Run("blank lines count like any other", func(t *testing.T) {
		events := feed(NewRepetitionDetector(5), append(times("", 6), "x")...)
		require.Len(t, events, 1)
		assert.Equal(t, domain.RepetitionEvent{Start: 1, Length: 6, Text: ""}, events[0])
	})

	t.Run("interrupted run resets", func(t *testing.T) {
		lines := append(times("A", 4), "B")
		lines = append(lines, times("A", 4)...)
		lines = append(lines, "B")
		assert.Empty(t, feed(NewRepetitionDetector(5), lines...))
	})
}

func TestRepetitionDetector_TrailingRun(t *testing.T) {
	t.Run("run at end of input is not reported", func(t *testing.T) {
		d := NewRepetitionDetector(5)
		assert.Empty(t, feed(d, times("A", 20)...))
	})

	t.Run("flush reports the open run", func(t *testing.T) {
		d := NewRepetitionDetector(5)
		lines := append([]string{"start"}, times("A", 8)...)
		require.Empty(t, feed(d, lines...))

		ev, ok := d.Flush(len(lines))
		require.True(t, ok)
		assert.Equal(t, domain.RepetitionEvent{Start: 2, Length: 8, Text: "A"}, ev)

		_, ok = d.Flush(len(lines))
		assert.False(t, ok, "flush must not report the same run twice")
	})

	t.Run("flush ignores short runs", func(t *testing.T) {
		d := NewRepetitionDetector(5)
		feed(d, times("A", 5)...)
		_, ok := d.Flush(5)
		assert.False(t, ok)
	})
}
