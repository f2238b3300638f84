// Package stats contains match history calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/fightclock/internal/model"
	"github.com/verte-zerg/fightclock/internal/timefmt"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a set of matches.
type Summary struct {
	Matches      int
	Finished     int
	Abandoned    int
	Pauses       int
	RingMs       int64
	AvgElapsedMs int64
	LongestMs    int64
}

// Summarize computes totals over matches.
func Summarize(matches []model.MatchRecord) Summary {
	var s Summary
	for _, m := range matches {
		s.Matches++
		switch m.Outcome {
		case model.OutcomeFinished:
			s.Finished++
		case model.OutcomeAbandoned:
			s.Abandoned++
		}
		s.Pauses += m.Pauses
		s.RingMs += m.ElapsedMs
		if m.ElapsedMs > s.LongestMs {
			s.LongestMs = m.ElapsedMs
		}
	}
	if s.Matches > 0 {
		s.AvgElapsedMs = s.RingMs / int64(s.Matches)
	}
	return s
}

// FormatSpan renders a duration in milliseconds as H:MM:SS once it passes an
// hour and as M:SS below that.
func FormatSpan(ms int64) string {
	total := timefmt.CeilSeconds(ms)
	if total >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", total/3600, (total%3600)/60, total%60)
	}
	return timefmt.Format(ms)
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints the summary block.
func RenderSummary(w io.Writer, s Summary) error {
	if s.Matches == 0 {
		_, err := fmt.Fprintln(w, "No matches found.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Matches: %d (%d finished, %d abandoned)", s.Matches, s.Finished, s.Abandoned),
		fmt.Sprintf("Ring time: %s", FormatSpan(s.RingMs)),
		fmt.Sprintf("Avg match: %s", FormatSpan(s.AvgElapsedMs)),
		fmt.Sprintf("Longest: %s", FormatSpan(s.LongestMs)),
		fmt.Sprintf("Pauses: %d", s.Pauses),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
