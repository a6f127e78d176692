// Package terminal presents framebuffers on ANSI truecolor terminals using
// upper half blocks, so each character cell shows two vertical pixels.
package terminal

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	ESC   = "\x1b"
	CSI   = ESC + "["
	Reset = CSI + "0m"

	// halfBlock is drawn with the top pixel as foreground and the bottom
	// pixel as background.
	halfBlock = '▀'
)

// MoveTo positions the cursor at row, col (1-based).
func MoveTo(row, col int) string {
	return fmt.Sprintf("%s%d;%dH", CSI, row, col)
}

// ClearScreen clears the entire screen.
func ClearScreen() string {
	return CSI + "2J"
}

// HideCursor hides the terminal cursor.
func HideCursor() string {
	return CSI + "?25l"
}

// ShowCursor shows the terminal cursor.
func ShowCursor() string {
	return CSI + "?25h"
}

// EnableAltScreen switches to the alternate screen buffer.
func EnableAltScreen() string {
	return CSI + "?1049h"
}

// DisableAltScreen switches back from the alternate screen buffer.
func DisableAltScreen() string {
	return CSI + "?1049l"
}

// writeCellSGR writes one half-block cell with a combined SGR so no state
// leaks from the previous cell.
func writeCellSGR(sb *strings.Builder, top, bottom uint32) {
	sb.WriteString("\x1b[0;38;2;")
	writeRGB(sb, top)
	sb.WriteString(";48;2;")
	writeRGB(sb, bottom)
	sb.WriteByte('m')
	sb.WriteRune(halfBlock)
}

func writeRGB(sb *strings.Builder, c uint32) {
	sb.WriteString(strconv.Itoa(int(uint8(c >> 16))))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(uint8(c >> 8))))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(uint8(c))))
}
