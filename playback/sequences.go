package playback

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Status lines printed after cleanup.
const (
	StatusFinished    = "Finished!\n"
	StatusInterrupted = "User interrupt!\n"
)

// Reposition returns the sequence that moves the cursor from the last row of
// a frame spanning rows terminal rows back to the start of its first row.
func Reposition(rows int) string {
	if rows <= 1 {
		return "\r"
	}

	return ansi.CursorUp(rows-1) + "\r"
}

// Cleanup returns the sequence that clears a frame spanning rows terminal
// rows, starting with the cursor on its first row. The cursor ends at the
// start of the first row.
func Cleanup(rows int) string {
	if rows <= 1 {
		return ansi.EraseLineRight
	}

	var sb strings.Builder

	sb.WriteString(ansi.CursorDown(rows - 1))
	sb.WriteString(ansi.EraseLineRight)

	for range rows - 1 {
		sb.WriteString(ansi.CursorUp(1))
		sb.WriteString("\r")
		sb.WriteString(ansi.EraseLineRight)
	}

	return sb.String()
}
