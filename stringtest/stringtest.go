// Package stringtest builds expected text for tests of line-oriented output
// such as glyph frames and frame containers.
package stringtest

import "strings"

// JoinLF joins lines with LF separators and no trailing terminator.
//
//	stringtest.JoinLF("##", "##") // -> "##\n##"
func JoinLF(lines ...string) string {
	return join(lines, "\n", false)
}

// JoinCRLF joins lines with CRLF separators and no trailing terminator.
//
//	stringtest.JoinCRLF("##", "##") // -> "##\r\n##"
func JoinCRLF(lines ...string) string {
	return join(lines, "\r\n", false)
}

// Lines terminates every line with LF, the layout of a wrapped frame or of a
// frame container.
//
//	stringtest.Lines("##", "##") // -> "##\n##\n"
func Lines(lines ...string) string {
	return join(lines, "\n", true)
}

// Block fills a rows x cols rectangle with glyph and concatenates the rows,
// the layout of an unwrapped frame.
//
//	stringtest.Block('#', 2, 3) // -> "######"
func Block(glyph rune, rows, cols int) string {
	return strings.Repeat(string(glyph), rows*cols)
}

func join(lines []string, sep string, terminate bool) string {
	var sb strings.Builder
	for i, s := range lines {
		if i > 0 {
			sb.WriteString(sep)
		}

		sb.WriteString(s)
	}

	if terminate && len(lines) > 0 {
		sb.WriteString(sep)
	}

	return sb.String()
}
