package mouse

import "fmt"

// Reported button codes follow the xterm scheme: the low two bits carry
// the button, wheel buttons start at 64, and motion adds 32.
const (
	codeLeft       = 0
	codeMiddle     = 1
	codeRight      = 2
	codeNone       = 3
	codeScrollUp   = 64
	codeScrollDown = 65

	motionFlag = 32

	modShift = 4
	modAlt   = 8
	modCtrl  = 16
)

// Encode translates a mouse event into terminal input bytes. Each event
// is reported in both the SGR (1006) and legacy X10 encodings, SGR
// first, so applications running either protocol can decode it. The
// second return is false when the event carries no action.
func Encode(ev Event) ([]byte, bool) {
	if ev.Action == ActionNone {
		return nil, false
	}

	code := buttonCode(ev)

	// SGR: ESC [ < code ; col ; row M, with a final 'm' on release.
	final := byte('M')
	if ev.Action == ActionRelease {
		final = 'm'
	}
	buf := fmt.Appendf(nil, "\x1b[<%d;%d;%d%c", code, ev.Col+1, ev.Row+1, final)

	// Legacy X10: ESC [ M followed by the code and both coordinates
	// offset by 32, each crammed into a single byte.
	buf = append(buf, 0x1b, '[', 'M', byte(32+code), legacyCoord(ev.Col), legacyCoord(ev.Row))

	return buf, true
}

// buttonCode computes the xterm button code for an event, including
// modifier and motion bits.
func buttonCode(ev Event) int {
	var code int
	switch {
	case ev.Action == ActionRelease:
		code = codeNone
	case ev.Button == ButtonLeft:
		code = codeLeft
	case ev.Button == ButtonMiddle:
		code = codeMiddle
	case ev.Button == ButtonRight:
		code = codeRight
	case ev.Button == ButtonScrollUp:
		code = codeScrollUp
	case ev.Button == ButtonScrollDown:
		code = codeScrollDown
	default:
		code = codeNone
	}

	if ev.Modifiers.HasShift() {
		code += modShift
	}
	if ev.Modifiers.HasAlt() || ev.Modifiers.HasMeta() {
		code += modAlt
	}
	if ev.Modifiers.HasCtrl() {
		code += modCtrl
	}

	if ev.Action == ActionMove || ev.Action == ActionDrag {
		code += motionFlag
	}

	return code
}

// legacyCoord converts a zero-based coordinate to the legacy single-byte
// form. The encoding is one-based plus an offset of 32, which caps the
// reportable range; anything past that saturates at 255.
func legacyCoord(v int) byte {
	if v < 0 {
		v = 0
	}
	c := v + 33
	if c > 255 {
		c = 255
	}
	return byte(c)
}
