// Package screen bridges raw terminal output to a renderable character grid.
//
// The package does not interpret escape sequences itself. That work is
// delegated to an external screen model (go-headless-term in production)
// behind the Model interface; this package owns feeding it sanitized bytes
// and reading back a display-ready frame.
//
// # Architecture
//
//   - Model: the consumed screen-model capability
//   - Emulator: Model implementation over go-headless-term
//   - Bridge: feeds a Model sanitized bytes and renders frames from it
//   - Frame/Cell/Style: the renderable grid
//   - Color: normalized terminal colors with a closed kind set
//
// # Usage
//
// Create a bridge over a fresh emulator and feed it process output:
//
//	bridge := screen.NewBridge(screen.NewEmulator(80, 24))
//	bridge.Feed(chunk)
//
//	frame := bridge.Render()
//	for row := 0; row < frame.Rows; row++ {
//	    for col := 0; col < frame.Cols; col++ {
//	        cell := frame.Cells[row][col]
//	        // Draw cell...
//	    }
//	}
//
// # Color Normalization
//
// Screen-model and configuration color values are normalized into a single
// scheme: 16 canonical ANSI names (with an alias table covering the
// bright-color spellings terminal libraries disagree on), 256-palette
// indices, and 24-bit RGB. ParseColor validates strings at configuration
// time so unknown names never reach rendering.
//
// # Thread Safety
//
// Bridge and Emulator are not safe for concurrent use; the owning session
// serializes access.
package screen
