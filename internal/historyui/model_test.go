package historyui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/fightclock/internal/model"
)

type fakeLister struct {
	matches []model.MatchRecord
	err     error
	calls   []model.HistoryConfig
}

func (f *fakeLister) ListMatches(_ context.Context, cfg model.HistoryConfig) ([]model.MatchRecord, error) {
	f.calls = append(f.calls, cfg)
	return f.matches, f.err
}

func sampleMatches() []model.MatchRecord {
	base := time.Date(2026, 5, 2, 20, 0, 0, 0, time.Local)
	return []model.MatchRecord{
		{ID: "a", EndedAt: base, ConfiguredMs: 120000, ElapsedMs: 120000, Outcome: model.OutcomeFinished},
		{ID: "b", EndedAt: base.Add(time.Hour), ConfiguredMs: 180000, ElapsedMs: 45000, Pauses: 1, Outcome: model.OutcomeAbandoned},
	}
}

func TestViewShowsCardsAndTable(t *testing.T) {
	m := NewModel(&fakeLister{matches: sampleMatches()}, model.HistoryConfig{})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	out := m.View()
	for _, want := range []string{"Matches", "Abandoned", "Ring time", "2:45", "Ended", "2026-05-02 21:00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
}

func TestViewEmptyHistory(t *testing.T) {
	m := NewModel(&fakeLister{}, model.HistoryConfig{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	if !strings.Contains(m.View(), "No matches found.") {
		t.Fatalf("expected empty message")
	}
}

func TestLoadErrorShown(t *testing.T) {
	m := NewModel(&fakeLister{err: errors.New("disk gone")}, model.HistoryConfig{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	out := m.View()
	if !strings.Contains(out, "Failed to load history.") || !strings.Contains(out, "disk gone") {
		t.Fatalf("expected load error in view:\n%s", out)
	}
}

func TestFilterFormAppliesOutcome(t *testing.T) {
	src := &fakeLister{matches: sampleMatches()}
	m := NewModel(src, model.HistoryConfig{})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("finished")})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode {
		t.Fatalf("expected filter mode to close: %s", m.filterError)
	}
	last := src.calls[len(src.calls)-1]
	if last.Outcome != model.OutcomeFinished {
		t.Fatalf("expected outcome filter, got %+v", last)
	}
}

func TestFilterFormRejectsBadDate(t *testing.T) {
	m := NewModel(&fakeLister{}, model.HistoryConfig{})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("yesterday")})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.filterMode || m.filterError == "" {
		t.Fatalf("expected filter error, got mode=%v err=%q", m.filterMode, m.filterError)
	}
}

func TestParseFilters(t *testing.T) {
	cfg, err := ParseFilters("2026-01-15", "10", " Abandoned ")
	if err != nil {
		t.Fatalf("parse filters: %v", err)
	}
	if cfg.Since == nil || cfg.Since.Format("2006-01-02") != "2026-01-15" {
		t.Fatalf("unexpected since: %v", cfg.Since)
	}
	if cfg.Last != 10 || cfg.Outcome != model.OutcomeAbandoned {
		t.Fatalf("unexpected filters: %+v", cfg)
	}
	if _, err := ParseFilters("", "-1", ""); err == nil {
		t.Fatalf("expected error for negative last")
	}
	if _, err := ParseFilters("", "", "draw"); err == nil {
		t.Fatalf("expected error for unknown outcome")
	}
}

func TestQuitKey(t *testing.T) {
	m := NewModel(&fakeLister{}, model.HistoryConfig{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
}
