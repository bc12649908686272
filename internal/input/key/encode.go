package key

import "unicode/utf8"

// namedSequences maps special keys to the canonical byte sequences
// terminal applications expect.
var namedSequences = map[Key]string{
	KeyEnter:     "\n",
	KeyReturn:    "\r",
	KeyTab:       "\t",
	KeyBacktab:   "\x1b[Z",
	KeyEscape:    "\x1b",
	KeyBackspace: "\x7f",
	KeyUp:        "\x1b[A",
	KeyDown:      "\x1b[B",
	KeyRight:     "\x1b[C",
	KeyLeft:      "\x1b[D",
	KeyHome:      "\x1b[H",
	KeyEnd:       "\x1b[F",
	KeyPageUp:    "\x1b[5~",
	KeyPageDown:  "\x1b[6~",
	KeyInsert:    "\x1b[2~",
	KeyDelete:    "\x1b[3~",
}

// Encode translates a key event into the bytes to write to a terminal
// application. Lookup order is named keys, then control-modified
// characters, then the literal character as UTF-8; the second return is
// false when the event has no translation and should be dropped.
func Encode(ev Event) ([]byte, bool) {
	if seq, ok := namedSequences[ev.Key]; ok {
		return []byte(seq), true
	}

	if ev.Modifiers.HasCtrl() && ev.Rune != 0 {
		if b, ok := ctrlByte(ev.Rune); ok {
			return []byte{b}, true
		}
	}

	if ev.Rune != 0 {
		return utf8.AppendRune(nil, ev.Rune), true
	}

	return nil, false
}

// ctrlByte maps a control-modified character to its control byte.
func ctrlByte(r rune) (byte, bool) {
	switch r {
	case ' ', '@':
		return 0x00, true
	case '[':
		return 0x1b, true
	case '\\':
		return 0x1c, true
	case ']':
		return 0x1d, true
	case '^':
		return 0x1e, true
	case '_':
		return 0x1f, true
	case '?':
		return 0x7f, true
	}

	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	if r >= 'A' && r <= 'Z' {
		return byte(r) & 0x1f, true
	}
	return 0, false
}
