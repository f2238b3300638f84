package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"

	"github.com/verte-zerg/fightclock/internal/match"
	"github.com/verte-zerg/fightclock/internal/model"
	"github.com/verte-zerg/fightclock/internal/timefmt"
)

type keyMap struct {
	Space key.Binding
	Reset key.Binding
	Edit  key.Binding
	Quit  key.Binding
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Space, k.Reset, k.Edit, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Space: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/pause")),
	Reset: key.NewBinding(key.WithKeys("r", "R"), key.WithHelp("r", "reset")),
	Edit:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "set time")),
	Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	clockStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	overlayStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

type wakeMsg struct {
	seq int
}

// Model implements the Bubble Tea clock UI.
type Model struct {
	ctrl  *match.Controller
	clock clockwork.Clock

	help    help.Model
	input   textinput.Model
	editing bool
	errMsg  string

	width  int
	height int

	wakeSeq int
	wakeAt  time.Time
}

// NewModel constructs a clock TUI model around ctrl. clock must be the
// controller's clock.
func NewModel(ctrl *match.Controller, clock clockwork.Clock) *Model {
	input := textinput.New()
	input.Prompt = "Time (M:SS): "
	input.Placeholder = timefmt.Format(ctrl.Snapshot().ConfiguredMs)
	input.CharLimit = 5
	return &Model{
		ctrl:  ctrl,
		clock: clock,
		help:  help.New(),
		input: input,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.scheduleWake()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case wakeMsg:
		if msg.seq != m.wakeSeq {
			return m, nil
		}
		m.wakeAt = time.Time{}
		m.ctrl.Advance()
		return m, m.scheduleWake()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.editing {
			return m.updateInput(msg)
		}
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Space):
			m.ctrl.Advance()
			m.ctrl.Space()
		case key.Matches(msg, keys.Reset):
			m.ctrl.Reset()
			m.errMsg = ""
		case key.Matches(msg, keys.Edit):
			return m, m.startEditing()
		}
		return m, m.scheduleWake()
	default:
		if m.editing {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	s := m.ctrl.Snapshot()
	clock := m.renderClock(s)
	footer := m.renderFooter(s)
	if m.width == 0 || m.height == 0 {
		return clock + "\n\n" + footer
	}
	footerHeight := lipgloss.Height(footer)
	bodyHeight := m.height - footerHeight
	if bodyHeight < 1 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, clock)
	}
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, clock)
	footerBlock := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
	return body + "\n" + footerBlock
}

func (m *Model) startEditing() tea.Cmd {
	m.editing = true
	m.errMsg = ""
	m.input.SetValue("")
	m.input.Placeholder = timefmt.Format(m.ctrl.Snapshot().ConfiguredMs)
	return m.input.Focus()
}

func (m *Model) stopEditing() {
	m.editing = false
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if err := m.ctrl.Apply(m.input.Value()); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.stopEditing()
		return m, m.scheduleWake()
	case tea.KeyEsc:
		m.errMsg = ""
		m.stopEditing()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// scheduleWake aims a single tick at the controller's next due task. A tick
// already pending for an earlier instant is kept; late extra ticks are
// harmless because Advance is idempotent.
func (m *Model) scheduleWake() tea.Cmd {
	due, ok := m.ctrl.NextDue()
	if !ok {
		return nil
	}
	if !m.wakeAt.IsZero() && !due.Before(m.wakeAt) {
		return nil
	}
	m.wakeSeq++
	m.wakeAt = due
	seq := m.wakeSeq
	delay := m.clock.Until(due)
	if delay < 0 {
		delay = 0
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return wakeMsg{seq: seq}
	})
}

func (m *Model) renderClock(s match.Session) string {
	text := timefmt.Format(s.RemainingMs)
	style := clockStyle
	if s.Warning {
		style = warningStyle
	}
	if s.OverlayVisible {
		text = s.Overlay
		style = overlayStyle
	}

	clockRows, _ := renderGlyphs(timefmt.Format(s.RemainingMs))
	if text == "" {
		return strings.Join(blankLike(clockRows), "\n")
	}
	rows, ok := renderGlyphs(text)
	if !ok {
		return style.Render(text)
	}
	if !s.Visible {
		rows = blankLike(rows)
	}
	return style.Render(strings.Join(rows, "\n"))
}

func (m *Model) renderFooter(s match.Session) string {
	segments := []string{fmt.Sprintf("Match %s", timefmt.Format(s.ConfiguredMs))}
	if s.Phase == model.PhasePaused {
		segments = append(segments, fmt.Sprintf("Left %s", timefmt.Format(s.RemainingMs)))
	}
	lines := []string{
		statusStyle.Render(s.Status),
		footerStyle.Render(strings.Join(segments, "  ")),
	}
	if m.editing {
		lines = append(lines, m.input.View())
	}
	if m.errMsg != "" {
		lines = append(lines, errorStyle.Render(m.errMsg))
	}
	lines = append(lines, m.help.View(keys))
	return strings.Join(lines, "\n")
}
