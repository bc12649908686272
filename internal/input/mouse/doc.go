// Package mouse defines mouse events and their translation into the
// escape sequences terminal applications read.
//
// # Architecture
//
// Events carry a button, an action (press, release, move, drag), a cell
// position, and keyboard modifiers. Encode renders an event in two
// protocols at once:
//
//   - SGR (mode 1006): unlimited coordinates, distinct release marker.
//   - Legacy X10: single-byte coordinates for older applications.
//
// Both encodings are emitted for every event, SGR first, so the
// receiving application can pick up whichever protocol it enabled.
//
// # Coordinate Limits
//
// Legacy X10 packs each coordinate into one byte, so cells beyond the
// encodable range saturate at the maximum byte value. SGR has no such
// limit. Applications on large terminals should enable SGR reporting.
//
// # Usage
//
//	ev := mouse.NewEvent(mouse.ButtonLeft, mouse.ActionPress, 5, 10, 0)
//	if b, ok := mouse.Encode(ev); ok {
//		pty.Write(b)
//	}
//
// # Thread Safety
//
// Events are immutable values and Encode keeps no state, so the package
// is safe for concurrent use without locking.
package mouse
