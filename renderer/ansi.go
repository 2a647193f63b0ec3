package renderer

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

const (
	ESC   = "\x1b"
	CSI   = ESC + "["
	Reset = CSI + "0m"

	// HalfBlock draws the top pixel in the foreground colour and the bottom
	// pixel in the background colour, so one cell holds two rows.
	HalfBlock = '▀'
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

// writeHalfBlock writes one cell with a full SGR so no state leaks between
// cells.
func writeHalfBlock(sb *strings.Builder, top, bottom color.RGBA) {
	sb.WriteString("\x1b[0;38;2;")
	sb.WriteString(strconv.Itoa(int(top.R)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(top.G)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(top.B)))
	sb.WriteString(";48;2;")
	sb.WriteString(strconv.Itoa(int(bottom.R)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(bottom.G)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(bottom.B)))
	sb.WriteByte('m')
	sb.WriteRune(HalfBlock)
}

// ANSI renders pixels as truecolour half blocks, cols wide and rows tall.
// The pixel grid is w by h and is resampled nearest-neighbour to cols by
// 2*rows. Every line ends with a reset and CRLF.
func ANSI(pixels []color.RGBA, w, h, cols, rows int) string {
	if w <= 0 || h <= 0 || cols <= 0 || rows <= 0 {
		return ""
	}
	at := func(cx, cy int) color.RGBA {
		return pixels[(cy*h/(2*rows))*w+cx*w/cols]
	}

	var sb strings.Builder
	sb.Grow(rows * (cols*40 + 8))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			writeHalfBlock(&sb, at(c, 2*r), at(c, 2*r+1))
		}
		sb.WriteString(Reset)
		sb.WriteString("\r\n")
	}
	return sb.String()
}
