// Package historyui provides the Bubble Tea match history interface.
package historyui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/fightclock/internal/model"
	"github.com/verte-zerg/fightclock/internal/stats"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea history UI.
type Model struct {
	src stats.MatchLister
	cfg model.HistoryConfig

	report stats.Report
	errMsg string

	matchTable table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a history UI model.
func NewModel(src stats.MatchLister, cfg model.HistoryConfig) *Model {
	m := &Model{
		src: src,
		cfg: cfg,
	}
	m.initInputs()
	m.matchTable = buildMatchTable(80, 10)
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "/":
			return m.startFilter()
		case "g", "home":
			m.matchTable.GotoTop()
			return m, nil
		case "G", "end":
			m.matchTable.GotoBottom()
			return m, nil
		default:
			var cmd tea.Cmd
			m.matchTable, cmd = m.matchTable.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.renderHeader()
	footer := m.renderFooter()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
		newFilterInput("Outcome (finished/abandoned): "),
	}
	m.setInputsFromConfig()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	if m.cfg.Since != nil {
		m.filterInputs[0].SetValue(m.cfg.Since.Format("2006-01-02"))
	} else {
		m.filterInputs[0].SetValue("")
	}
	if m.cfg.Last > 0 {
		m.filterInputs[1].SetValue(strconv.Itoa(m.cfg.Last))
	} else {
		m.filterInputs[1].SetValue("")
	}
	m.filterInputs[2].SetValue(m.cfg.Outcome)
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	cards := m.renderCards()
	tableHeight := m.height - lipgloss.Height(cards) - 4
	m.matchTable.SetWidth(m.width)
	m.matchTable.SetHeight(maxInt(1, tableHeight))
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) renderHeader() string {
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	outcome := m.cfg.Outcome
	if outcome == "" {
		outcome = "any"
	}
	summary := fmt.Sprintf("Match history  since=%s  last=%s  outcome=%s", since, last, outcome)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := headerStyle.Render("Scroll: up/down  Top/bottom: g/G  Filters: /  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	if m.filterMode {
		lines := []string{"Filters (enter to apply, esc to cancel)"}
		for _, input := range m.filterInputs {
			lines = append(lines, input.View())
		}
		if m.filterError != "" {
			lines = append(lines, errorStyle.Render(m.filterError))
		}
		return strings.Join(lines, "\n")
	}
	if m.errMsg != "" {
		return "Failed to load history."
	}
	if len(m.report.Matches) == 0 {
		return "No matches found."
	}
	return m.renderCards() + "\n\n" + tableMutedStyle.Render(m.matchTable.View())
}

func (m *Model) renderCards() string {
	s := m.report.Summary
	cards := []string{
		metricCard("Matches", strconv.Itoa(s.Matches)),
		metricCard("Finished", strconv.Itoa(s.Finished)),
		metricCard("Abandoned", strconv.Itoa(s.Abandoned)),
		metricCard("Ring time", stats.FormatSpan(s.RingMs)),
		metricCard("Avg match", stats.FormatSpan(s.AvgElapsedMs)),
	}
	if m.width > 0 && m.width < 80 {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
		return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.src, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.report = stats.Report{}
		m.matchTable.SetRows(nil)
		return
	}
	m.errMsg = ""
	m.report = report
	m.matchTable.SetRows(matchRows(report.Matches))
	m.matchTable.GotoTop()
	m.updateLayout()
}

func buildMatchTable(width, height int) table.Model {
	columns := []table.Column{
		{Title: "Ended", Width: 16},
		{Title: "Set", Width: 7},
		{Title: "Ring", Width: 7},
		{Title: "Pauses", Width: 6},
		{Title: "Outcome", Width: 9},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(maxInt(1, height)),
		table.WithFocused(true),
	)
	t.SetWidth(width)
	t.SetStyles(matchTableStyles())
	return t
}

func matchRows(matches []model.MatchRecord) []table.Row {
	cells := stats.MatchRows(matches)
	rows := make([]table.Row, len(cells))
	for i, row := range cells {
		rows[i] = table.Row(row)
	}
	return rows
}

func matchTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		cfg, err := ParseFilters(m.filterInputs[0].Value(), m.filterInputs[1].Value(), m.filterInputs[2].Value())
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.cfg = cfg
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

// ParseFilters converts raw filter values into a history config. Empty values
// disable the matching filter.
func ParseFilters(sinceInput, lastInput, outcomeInput string) (model.HistoryConfig, error) {
	var cfg model.HistoryConfig
	sinceInput = strings.TrimSpace(sinceInput)
	if sinceInput != "" {
		parsed, err := time.ParseInLocation("2006-01-02", sinceInput, time.Local)
		if err != nil {
			return model.HistoryConfig{}, fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		cfg.Since = &parsed
	}
	lastInput = strings.TrimSpace(lastInput)
	if lastInput != "" {
		parsed, err := strconv.Atoi(lastInput)
		if err != nil || parsed < 0 {
			return model.HistoryConfig{}, fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		cfg.Last = parsed
	}
	outcome := strings.ToLower(strings.TrimSpace(outcomeInput))
	switch outcome {
	case "", model.OutcomeFinished, model.OutcomeAbandoned:
		cfg.Outcome = outcome
	default:
		return model.HistoryConfig{}, fmt.Errorf("invalid outcome %q (use finished or abandoned)", outcome)
	}
	return cfg, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
