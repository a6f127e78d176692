package terminal

import "strings"

// Source is a packed 0xAARRGGBB pixel surface such as render.Framebuffer.
type Source interface {
	Width() int
	Height() int
	At(x, y int) uint32
}

// Encode samples src down to cols x 2*rows pixels (nearest neighbour) and
// returns the escape sequence that draws it from the top-left corner of the
// terminal. Runs of cells with the same colours reuse the previous SGR.
func Encode(src Source, cols, rows int) string {
	if cols <= 0 || rows <= 0 || src.Width() <= 0 || src.Height() <= 0 {
		return ""
	}

	w, h := src.Width(), src.Height()
	var sb strings.Builder
	sb.Grow(rows * (cols*8 + 16))

	for row := 0; row < rows; row++ {
		sb.WriteString(MoveTo(row+1, 1))
		topY := (2 * row) * h / (2 * rows)
		bottomY := (2*row + 1) * h / (2 * rows)

		var prevTop, prevBottom uint32
		first := true
		for col := 0; col < cols; col++ {
			x := col * w / cols
			top, bottom := src.At(x, topY)&0xFFFFFF, src.At(x, bottomY)&0xFFFFFF
			if !first && top == prevTop && bottom == prevBottom {
				sb.WriteRune(halfBlock)
				continue
			}
			writeCellSGR(&sb, top, bottom)
			prevTop, prevBottom, first = top, bottom, false
		}
		sb.WriteString(Reset)
	}
	return sb.String()
}
