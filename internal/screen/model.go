package screen

// Model is the external screen state the bridge drives: an escape-sequence
// interpreter maintaining a grid of styled cells and a cursor. Coordinates
// are 0-based with columns first, matching the rest of this package.
//
// Implementations are not required to be safe for concurrent use; the
// session run loop serializes access.
type Model interface {
	// Feed advances the screen state from a chunk of decoded text.
	Feed(data []byte)

	// Resize changes the grid dimensions. Non-positive dimensions are
	// ignored.
	Resize(cols, rows int)

	// Size returns the current grid dimensions.
	Size() (cols, rows int)

	// Cell returns the cell at (col, row), reporting false when the model
	// has no cell there.
	Cell(col, row int) (Cell, bool)

	// Cursor returns the cursor position and visibility.
	Cursor() (col, row int, visible bool)
}

// TitleNotifier is implemented by models that surface window title changes.
type TitleNotifier interface {
	// OnTitle registers fn to be called on each title change. Must be
	// called before the first Feed.
	OnTitle(fn func(title string))
}
