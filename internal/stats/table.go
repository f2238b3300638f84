package stats

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/fightclock/internal/model"
)

const (
	matchTimeLayout = "2006-01-02 15:04"
	trendLabel      = "Trend: "
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C0C0C0")).Bold(true)
	abandonedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// MatchHeaders are the column titles of the match table.
var MatchHeaders = []string{"Ended", "Set", "Ring", "Pauses", "Outcome"}

// MatchRows formats matches as table cells, newest first.
func MatchRows(matches []model.MatchRecord) [][]string {
	rows := make([][]string, 0, len(matches))
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		rows = append(rows, []string{
			m.EndedAt.Local().Format(matchTimeLayout),
			FormatSpan(m.ConfiguredMs),
			FormatSpan(m.ElapsedMs),
			fmt.Sprintf("%d", m.Pauses),
			m.Outcome,
		})
	}
	return rows
}

// WriteReport prints the summary, the match table and an elapsed-time trend.
// width bounds the trend line; useColor styles the header and abandoned rows.
func WriteReport(w io.Writer, report Report, width int, useColor bool) error {
	if err := RenderSummary(w, report.Summary); err != nil {
		return err
	}
	if len(report.Matches) == 0 {
		return nil
	}
	lines := formatTable(MatchHeaders, MatchRows(report.Matches), map[int]bool{1: true, 2: true, 3: true})
	for i, line := range lines {
		if useColor {
			switch {
			case i == 0:
				line = tableHeaderStyle.Render(line)
			case strings.HasSuffix(line, model.OutcomeAbandoned):
				line = abandonedStyle.Render(line)
			}
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	series := ElapsedSeries(report.Matches)
	if limit := width - utf8.RuneCountInString(trendLabel); limit > 0 && len(series) > limit {
		series = series[len(series)-limit:]
	}
	_, err := fmt.Fprintf(w, "\n%s%s\n", trendLabel, Sparkline(series))
	return err
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return b.String()
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

func displayWidth(value string) int {
	return utf8.RuneCountInString(value)
}
