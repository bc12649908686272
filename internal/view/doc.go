// Package view displays a terminal session on the host terminal.
//
// # Architecture
//
// The Viewer owns a tcell screen and runs a single event loop that
// multiplexes two sources: host input events from tcell and session
// events from the session's event channel. Host keys and mouse events
// are translated through the input packages and written to the
// session; session updates trigger a repaint of the styled frame.
//
// Cells that leave a color at its default render with the configured
// default foreground and background, falling back to the host
// terminal's own defaults.
//
// The bottom row of the host screen is a status line showing the
// session title and state, leaving the rest as the session's content
// area. ContentSize reports that area and plugs into the session
// configuration as its size callback, so the child's terminal always
// tracks the host window minus the status row.
//
// # Input
//
// tcell reports mouse button state rather than transitions, so the
// Viewer tracks the previous button mask and derives presses,
// releases, and drags by comparison. Wheel events are momentary and
// always forwarded as presses. Bare movement with no button held is
// dropped rather than forwarded.
//
// The hardware cursor stays hidden; the frame carries the cursor as a
// reversed cell.
//
// # Lifecycle
//
// Run returns after the child has exited and the user presses q or
// Escape. Until the child exits, every key belongs to the child,
// including q and Escape.
//
// # Thread Safety
//
// A Viewer is confined to the goroutine that calls Run. It must be the
// sole consumer of the session's event channel.
package view
