package stats

import (
	"io"
	"os"

	"golang.org/x/term"
)

const terminalWidthBackup = 80

// TerminalWidth returns the stdout width or a fallback when it is not a TTY.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// ShouldUseColor reports whether w is a terminal and NO_COLOR is unset.
func ShouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
