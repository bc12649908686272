package screen

import (
	"image/color"

	headlessterm "github.com/danielgatis/go-headless-term"
)

// Emulator adapts a headless VT emulator to the Model interface. It owns
// escape-sequence interpretation so this package never parses control
// sequences itself.
type Emulator struct {
	term    *headlessterm.Terminal
	titleFn func(string)
}

// NewEmulator creates an emulator with the given dimensions. Non-positive
// dimensions fall back to the emulator's 80x24 default.
func NewEmulator(cols, rows int) *Emulator {
	e := &Emulator{}
	e.term = headlessterm.New(
		headlessterm.WithSize(rows, cols),
		headlessterm.WithTitle(titleHook{e}),
	)
	return e
}

// titleHook forwards title changes from the emulator to the registered
// callback. The emulator invokes it while holding its internal lock, so the
// hook must not call back into the terminal.
type titleHook struct {
	e *Emulator
}

func (h titleHook) SetTitle(title string) {
	if fn := h.e.titleFn; fn != nil {
		fn(title)
	}
}

// PushTitle and PopTitle track the emulator's title stack. The stack is
// maintained by the emulator itself; only explicit title changes are
// surfaced.
func (h titleHook) PushTitle() {}

func (h titleHook) PopTitle() {}

// OnTitle registers fn to be called on each title change. Must be called
// before the first Feed.
func (e *Emulator) OnTitle(fn func(title string)) {
	e.titleFn = fn
}

// Feed advances the screen state from raw output bytes.
func (e *Emulator) Feed(data []byte) {
	_, _ = e.term.Write(data)
}

// Resize changes the grid dimensions. Non-positive dimensions are ignored.
func (e *Emulator) Resize(cols, rows int) {
	e.term.Resize(rows, cols)
}

// Size returns the current grid dimensions.
func (e *Emulator) Size() (cols, rows int) {
	return e.term.Cols(), e.term.Rows()
}

// Title returns the current window title.
func (e *Emulator) Title() string {
	return e.term.Title()
}

// Cell returns the cell at (col, row) converted to this package's types.
func (e *Emulator) Cell(col, row int) (Cell, bool) {
	hc := e.term.Cell(row, col)
	if hc == nil {
		return Cell{}, false
	}

	f := hc.Flags
	var attrs AttrMask
	if f&headlessterm.CellFlagBold != 0 {
		attrs |= AttrBold
	}
	if f&headlessterm.CellFlagDim != 0 {
		attrs |= AttrDim
	}
	if f&headlessterm.CellFlagItalic != 0 {
		attrs |= AttrItalic
	}
	// The emulator distinguishes five underline shapes; the grid does not.
	if f&(headlessterm.CellFlagUnderline|
		headlessterm.CellFlagDoubleUnderline|
		headlessterm.CellFlagCurlyUnderline|
		headlessterm.CellFlagDottedUnderline|
		headlessterm.CellFlagDashedUnderline) != 0 {
		attrs |= AttrUnderline
	}
	if f&(headlessterm.CellFlagBlinkSlow|headlessterm.CellFlagBlinkFast) != 0 {
		attrs |= AttrBlink
	}
	if f&headlessterm.CellFlagReverse != 0 {
		attrs |= AttrReverse
	}
	if f&headlessterm.CellFlagStrike != 0 {
		attrs |= AttrStrikethrough
	}

	c := Cell{
		Rune: hc.Char,
		Style: Style{
			Fg:    convertColor(hc.Fg),
			Bg:    convertColor(hc.Bg),
			Attrs: attrs,
		},
	}
	if f&headlessterm.CellFlagHidden != 0 {
		c.Rune = ' '
	}
	return c, true
}

// Cursor returns the cursor position and visibility.
func (e *Emulator) Cursor() (col, row int, visible bool) {
	r, c := e.term.CursorPos()
	return c, r, e.term.CursorVisible()
}

// convertColor normalizes the emulator's color representations: named ANSI
// colors, palette indices, and true color. Anything unrecognized degrades
// through the generic color.Color interface rather than to default.
func convertColor(c color.Color) Color {
	switch v := c.(type) {
	case nil:
		return Color{}
	case *headlessterm.NamedColor:
		if v == nil {
			return Color{}
		}
		if v.Name >= 0 && v.Name <= 15 {
			return Named(Name(v.Name))
		}
		// Foreground/background defaults and the dim/bright variants all
		// collapse to the terminal default.
		return Color{}
	case *headlessterm.IndexedColor:
		if v == nil || v.Index < 0 || v.Index > 255 {
			return Color{}
		}
		return Indexed(uint8(v.Index))
	case color.RGBA:
		return RGB(v.R, v.G, v.B)
	default:
		r, g, b, _ := c.RGBA()
		return RGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
	}
}
