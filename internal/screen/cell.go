package screen

import "strings"

// AttrMask is a bitmask of text attributes.
type AttrMask uint8

const (
	AttrBold AttrMask = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrReverse
	AttrStrikethrough

	// AttrNone is the empty attribute set.
	AttrNone AttrMask = 0
)

// Has reports whether all attributes in attr are set.
func (a AttrMask) Has(attr AttrMask) bool {
	return a&attr == attr
}

// Style describes how a cell is drawn.
type Style struct {
	Fg    Color
	Bg    Color
	Attrs AttrMask
}

// IsZero reports whether the style is entirely default.
func (s Style) IsZero() bool {
	return s.Fg.IsDefault() && s.Bg.IsDefault() && s.Attrs == AttrNone
}

// Cell is one character position in the rendered grid.
type Cell struct {
	Rune  rune
	Style Style
}

// Frame is a renderable snapshot of the screen: a rows-by-cols grid of
// styled cells plus the cursor state baked in by the bridge.
type Frame struct {
	Cols int
	Rows int

	// Cells is indexed [row][col].
	Cells [][]Cell

	CursorCol     int
	CursorRow     int
	CursorVisible bool
}

// At returns the cell at (col, row), reporting false when out of bounds.
func (f *Frame) At(col, row int) (Cell, bool) {
	if row < 0 || row >= f.Rows || col < 0 || col >= f.Cols {
		return Cell{}, false
	}
	return f.Cells[row][col], true
}

// Text returns the frame content as plain text, one line per row with
// trailing spaces trimmed.
func (f *Frame) Text() string {
	lines := make([]string, f.Rows)
	var b strings.Builder
	for row := 0; row < f.Rows; row++ {
		b.Reset()
		for col := 0; col < f.Cols; col++ {
			b.WriteRune(f.Cells[row][col].Rune)
		}
		lines[row] = strings.TrimRight(b.String(), " ")
	}
	return strings.Join(lines, "\n")
}
