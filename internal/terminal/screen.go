package terminal

import (
	"image/color"
	"strings"
)

// Cell is one character cell of a session's display grid, as the renderer
// sees it. A nil color means the terminal default.
type Cell struct {
	Content string // grapheme drawn in the cell; "" for the tail of a wide char
	Width   int    // display width; 0 marks a wide-char continuation cell

	Fg color.Color
	Bg color.Color

	Bold      bool
	Italic    bool
	Underline bool
	Reverse   bool
	Strike    bool
}

// blankCell is what lies outside the current grid.
var blankCell = Cell{Content: " ", Width: 1}

// SameStyle reports whether c and o would be drawn with identical attributes.
func (c Cell) SameStyle(o Cell) bool {
	return colorEqual(c.Fg, o.Fg) && colorEqual(c.Bg, o.Bg) &&
		c.Bold == o.Bold && c.Italic == o.Italic && c.Underline == o.Underline &&
		c.Reverse == o.Reverse && c.Strike == o.Strike
}

func colorEqual(a, b color.Color) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	r1, g1, b1, a1 := a.RGBA()
	r2, g2, b2, a2 := b.RGBA()
	return r1 == r2 && g1 == g2 && b1 == b2 && a1 == a2
}

// Screen is the boundary to the terminal-emulation engine. A session feeds
// every chunk of output into it; the renderer pulls cells back out. All
// methods are safe for concurrent use.
type Screen interface {
	// Feed interprets a chunk of output from the shell.
	Feed(p []byte)
	// Resize changes the grid dimensions.
	Resize(rows, cols int)
	// Size returns the current grid dimensions.
	Size() (rows, cols int)
	// Cell returns the cell at (row, col). Positions outside the grid
	// return a blank cell.
	Cell(row, col int) Cell
	// Cursor returns the cursor position.
	Cursor() (row, col int)
	// Close releases the engine. Cells stay readable afterwards.
	Close() error
}

// RowText returns the characters of one row with trailing blanks trimmed.
func RowText(s Screen, row int) string {
	_, cols := s.Size()
	var b strings.Builder
	for col := 0; col < cols; col++ {
		c := s.Cell(row, col)
		if c.Width == 0 {
			continue
		}
		b.WriteString(c.Content)
	}
	return strings.TrimRight(b.String(), " ")
}

// Contains reports whether text appears on any row of s.
func Contains(s Screen, text string) bool {
	rows, _ := s.Size()
	for row := 0; row < rows; row++ {
		if strings.Contains(RowText(s, row), text) {
			return true
		}
	}
	return false
}
