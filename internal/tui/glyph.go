// Package tui provides the Bubble Tea match clock interface.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	glyphRows  = 5
	glyphBlock = "██"
	glyphGap   = "  "
)

// Glyph patterns are three cells wide (one for ':' and '!'); each cell is
// drawn two columns wide so digits read roughly square in a terminal.
var glyphPatterns = map[rune][glyphRows]string{
	'0': {"###", "#.#", "#.#", "#.#", "###"},
	'1': {".#.", "##.", ".#.", ".#.", "###"},
	'2': {"###", "..#", "###", "#..", "###"},
	'3': {"###", "..#", "###", "..#", "###"},
	'4': {"#.#", "#.#", "###", "..#", "..#"},
	'5': {"###", "#..", "###", "..#", "###"},
	'6': {"###", "#..", "###", "#.#", "###"},
	'7': {"###", "..#", "..#", "..#", "..#"},
	'8': {"###", "#.#", "###", "#.#", "###"},
	'9': {"###", "#.#", "###", "..#", "###"},
	':': {".", "#", ".", "#", "."},
	'G': {"###", "#..", "#.#", "#.#", "###"},
	'O': {"###", "#.#", "#.#", "#.#", "###"},
	'!': {"#", "#", "#", ".", "#"},
	' ': {"...", "...", "...", "...", "..."},
}

// renderGlyphs draws text in block glyphs. It reports false when text holds
// a rune without a glyph.
func renderGlyphs(text string) ([]string, bool) {
	rows := make([]strings.Builder, glyphRows)
	first := true
	for _, r := range text {
		pattern, ok := glyphPatterns[r]
		if !ok {
			return nil, false
		}
		for i := 0; i < glyphRows; i++ {
			if !first {
				rows[i].WriteString(glyphGap)
			}
			for _, cell := range pattern[i] {
				if cell == '#' {
					rows[i].WriteString(glyphBlock)
				} else {
					rows[i].WriteString("  ")
				}
			}
		}
		first = false
	}
	out := make([]string, glyphRows)
	for i := range rows {
		out[i] = rows[i].String()
	}
	return out, true
}

// blankLike returns rows of spaces matching the display width of rows, so a
// hidden clock keeps its footprint.
func blankLike(rows []string) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = strings.Repeat(" ", runewidth.StringWidth(row))
	}
	return out
}

func blockWidth(rows []string) int {
	width := 0
	for _, row := range rows {
		if w := runewidth.StringWidth(row); w > width {
			width = w
		}
	}
	return width
}
