// Package key defines keyboard events and their translation into the
// byte sequences terminal applications read.
//
// # Architecture
//
// The package has three parts:
//
//   - Key: an enumeration of the special keys the translator understands
//     (arrows, paging, editing keys, and the distinct Enter and Return).
//   - Event: a single key press with its character, modifiers, and
//     timestamp.
//   - Encode: the stateless translation from an Event to terminal bytes.
//
// # Translation Order
//
// Encode resolves an event in a fixed order: a named special key wins,
// then a Ctrl-modified character collapses to its control byte, then the
// literal character is emitted as UTF-8. Events matching none of these
// produce no bytes.
//
// # Usage
//
//	ev := key.NewRuneEvent('c', key.ModCtrl)
//	if b, ok := key.Encode(ev); ok {
//		pty.Write(b)
//	}
//
// # Thread Safety
//
// Events are immutable values and Encode keeps no state, so the package
// is safe for concurrent use without locking.
package key
