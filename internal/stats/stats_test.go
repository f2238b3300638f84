package stats

import (
	"testing"

	"github.com/verte-zerg/fightclock/internal/model"
)

func TestSummarize(t *testing.T) {
	matches := []model.MatchRecord{
		{ElapsedMs: 120000, Pauses: 1, Outcome: model.OutcomeFinished},
		{ElapsedMs: 30000, Outcome: model.OutcomeAbandoned},
		{ElapsedMs: 90000, Pauses: 2, Outcome: model.OutcomeFinished},
	}
	s := Summarize(matches)
	if s.Matches != 3 || s.Finished != 2 || s.Abandoned != 1 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.RingMs != 240000 || s.AvgElapsedMs != 80000 || s.LongestMs != 120000 {
		t.Fatalf("unexpected durations: %+v", s)
	}
	if s.Pauses != 3 {
		t.Fatalf("expected 3 pauses, got %d", s.Pauses)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if s := Summarize(nil); s != (Summary{}) {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}

func TestFormatSpan(t *testing.T) {
	cases := map[int64]string{
		0:       "0:00",
		1:       "0:01",
		59999:   "1:00",
		3599000: "59:59",
		3600000: "1:00:00",
		5400500: "1:30:01",
	}
	for ms, want := range cases {
		if got := FormatSpan(ms); got != want {
			t.Fatalf("FormatSpan(%d): expected %q, got %q", ms, want, got)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
	if got := Sparkline([]float64{2, 2, 2}); got != "+++" {
		t.Fatalf("expected flat sparkline, got %q", got)
	}
	if got := Sparkline([]float64{0, 1}); got != " @" {
		t.Fatalf("expected min/max sparkline, got %q", got)
	}
}
