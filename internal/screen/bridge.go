package screen

import "unicode/utf8"

// Bridge feeds raw process output into a screen model and produces
// renderable frames. One bridge owns one model for one session lifetime;
// restarts get a fresh bridge so no parser state leaks between processes.
//
// Bridge is not safe for concurrent use; the owning session serializes
// feeds against renders.
type Bridge struct {
	model Model
	carry []byte
}

// NewBridge creates a bridge over the given model.
func NewBridge(model Model) *Bridge {
	return &Bridge{model: model}
}

// Model returns the underlying screen model.
func (b *Bridge) Model() Model {
	return b.model
}

// Feed sanitizes data to valid UTF-8 and advances the screen model. A
// multibyte sequence split across chunks is held back until the next feed;
// bytes that can never form valid UTF-8 are decoded one byte per character.
// Feed never fails regardless of input.
func (b *Bridge) Feed(data []byte) {
	if len(data) == 0 {
		return
	}

	if b.carry == nil && utf8.Valid(data) {
		b.model.Feed(data)
		return
	}

	buf := append(b.carry, data...)
	b.carry = nil

	clean := make([]byte, 0, len(buf))
	for i := 0; i < len(buf); {
		c := buf[i]
		if c < utf8.RuneSelf {
			clean = append(clean, c)
			i++
			continue
		}
		if !utf8.FullRune(buf[i:]) {
			// Trailing prefix of a rune whose remaining bytes are still
			// in flight.
			b.carry = append([]byte(nil), buf[i:]...)
			break
		}
		r, size := utf8.DecodeRune(buf[i:])
		if r == utf8.RuneError && size == 1 {
			// Not UTF-8 at all: single-byte-per-character fallback.
			clean = utf8.AppendRune(clean, rune(c))
			i++
			continue
		}
		clean = append(clean, buf[i:i+size]...)
		i += size
	}

	if len(clean) > 0 {
		b.model.Feed(clean)
	}
}

// Resize forwards new dimensions to the model only when they differ from
// its current size, so redundant resizes are free of side effects.
// Non-positive dimensions are ignored.
func (b *Bridge) Resize(cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	curCols, curRows := b.model.Size()
	if cols == curCols && rows == curRows {
		return
	}
	b.model.Resize(cols, rows)
}

// Size returns the model's current dimensions.
func (b *Bridge) Size() (cols, rows int) {
	return b.model.Size()
}

// Render walks the model's grid into a frame. Positions the model has no
// cell for become blank unstyled cells, as do NUL characters. When the
// cursor is visible its cell is style-inverted, and drawn as a solid block
// when the underlying character is blank so it never vanishes on
// whitespace.
func (b *Bridge) Render() *Frame {
	return b.render(true)
}

// Text returns the current screen content as plain text without cursor
// decoration, one line per row with trailing spaces trimmed.
func (b *Bridge) Text() string {
	return b.render(false).Text()
}

func (b *Bridge) render(decorateCursor bool) *Frame {
	cols, rows := b.model.Size()
	curCol, curRow, visible := b.model.Cursor()

	f := &Frame{
		Cols:          cols,
		Rows:          rows,
		Cells:         make([][]Cell, rows),
		CursorCol:     curCol,
		CursorRow:     curRow,
		CursorVisible: visible,
	}

	for row := 0; row < rows; row++ {
		line := make([]Cell, cols)
		for col := 0; col < cols; col++ {
			c, ok := b.model.Cell(col, row)
			if !ok {
				c = Cell{Rune: ' '}
			} else if c.Rune == 0 {
				c.Rune = ' '
			}
			line[col] = c
		}
		f.Cells[row] = line
	}

	if decorateCursor && visible &&
		curRow >= 0 && curRow < rows && curCol >= 0 && curCol < cols {
		cell := &f.Cells[curRow][curCol]
		cell.Style.Attrs ^= AttrReverse
		if cell.Rune == ' ' {
			cell.Rune = '█'
		}
	}

	return f
}
