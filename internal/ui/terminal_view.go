package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/zhubert/tabterm/internal/terminal"
)

// RenderScreen draws a width x height view of s. Rows and columns beyond the
// screen's own size are blank. With showCursor set, the cell under the
// cursor is drawn in reverse video.
func RenderScreen(s terminal.Screen, width, height int, showCursor bool) string {
	if s == nil || width <= 0 || height <= 0 {
		return blankLines(width, height)
	}

	rows, cols := s.Size()
	curRow, curCol := -1, -1
	if showCursor {
		curRow, curCol = s.Cursor()
	}

	lines := make([]string, height)
	for r := 0; r < height; r++ {
		if r >= rows {
			lines[r] = strings.Repeat(" ", width)
			continue
		}
		lines[r] = renderRow(s, r, min(cols, width), width, curRow, curCol)
	}
	return strings.Join(lines, "\n")
}

func renderRow(s terminal.Screen, row, cols, width, curRow, curCol int) string {
	var (
		out   strings.Builder
		run   strings.Builder
		style terminal.Cell
		used  int
	)
	flush := func() {
		if run.Len() == 0 {
			return
		}
		out.WriteString(cellStyle(style).Render(run.String()))
		run.Reset()
	}

	for col := 0; col < cols; col++ {
		c := s.Cell(row, col)
		if c.Width == 0 {
			continue
		}
		if used+c.Width > width {
			break
		}
		if row == curRow && col == curCol {
			c.Reverse = !c.Reverse
		}
		if run.Len() > 0 && !c.SameStyle(style) {
			flush()
		}
		if run.Len() == 0 {
			style = c
		}
		run.WriteString(c.Content)
		used += c.Width
	}
	flush()

	if used < width {
		out.WriteString(strings.Repeat(" ", width-used))
	}
	return out.String()
}

// cellStyle converts a cell's attributes to a Lip Gloss style.
func cellStyle(c terminal.Cell) lipgloss.Style {
	st := lipgloss.NewStyle()
	if c.Fg != nil {
		st = st.Foreground(c.Fg)
	}
	if c.Bg != nil {
		st = st.Background(c.Bg)
	}
	return st.
		Bold(c.Bold).
		Italic(c.Italic).
		Underline(c.Underline).
		Reverse(c.Reverse).
		Strikethrough(c.Strike)
}

func blankLines(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	line := strings.Repeat(" ", width)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
