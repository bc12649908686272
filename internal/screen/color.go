package screen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrUnknownColor is returned when a color string cannot be parsed.
var ErrUnknownColor = errors.New("unknown color")

// ColorKind identifies how a color value is encoded.
type ColorKind uint8

const (
	// ColorDefault is the terminal's default foreground or background.
	ColorDefault ColorKind = iota
	// ColorNamed is one of the 16 canonical ANSI colors.
	ColorNamed
	// ColorIndexed is a 256-palette index.
	ColorIndexed
	// ColorRGB is a 24-bit true color.
	ColorRGB
)

// Name is a canonical ANSI color name.
type Name uint8

const (
	Black Name = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
	BrightBlack
	BrightRed
	BrightGreen
	BrightYellow
	BrightBlue
	BrightMagenta
	BrightCyan
	BrightWhite
)

// String returns the canonical name string.
func (n Name) String() string {
	switch n {
	case Black:
		return "black"
	case Red:
		return "red"
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	case Blue:
		return "blue"
	case Magenta:
		return "magenta"
	case Cyan:
		return "cyan"
	case White:
		return "white"
	case BrightBlack:
		return "bright_black"
	case BrightRed:
		return "bright_red"
	case BrightGreen:
		return "bright_green"
	case BrightYellow:
		return "bright_yellow"
	case BrightBlue:
		return "bright_blue"
	case BrightMagenta:
		return "bright_magenta"
	case BrightCyan:
		return "bright_cyan"
	case BrightWhite:
		return "bright_white"
	default:
		return "unknown"
	}
}

// Color is a normalized terminal color. The zero value is the default color.
type Color struct {
	Kind  ColorKind
	Name  Name
	Index uint8
	R     uint8
	G     uint8
	B     uint8
}

// Named returns a canonical ANSI color.
func Named(n Name) Color {
	return Color{Kind: ColorNamed, Name: n}
}

// Indexed returns a 256-palette color.
func Indexed(i uint8) Color {
	return Color{Kind: ColorIndexed, Index: i}
}

// RGB returns a 24-bit color.
func RGB(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, R: r, G: g, B: b}
}

// IsDefault reports whether c is the default color.
func (c Color) IsDefault() bool {
	return c.Kind == ColorDefault
}

// String returns a parseable representation of the color.
func (c Color) String() string {
	switch c.Kind {
	case ColorNamed:
		return c.Name.String()
	case ColorIndexed:
		return strconv.Itoa(int(c.Index))
	case ColorRGB:
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	default:
		return "default"
	}
}

// canonicalNames maps canonical name strings to their Name value.
var canonicalNames = map[string]Name{
	"black":          Black,
	"red":            Red,
	"green":          Green,
	"yellow":         Yellow,
	"blue":           Blue,
	"magenta":        Magenta,
	"cyan":           Cyan,
	"white":          White,
	"bright_black":   BrightBlack,
	"bright_red":     BrightRed,
	"bright_green":   BrightGreen,
	"bright_yellow":  BrightYellow,
	"bright_blue":    BrightBlue,
	"bright_magenta": BrightMagenta,
	"bright_cyan":    BrightCyan,
	"bright_white":   BrightWhite,
}

// colorAliases maps the bright-color spellings and legacy names that
// terminal libraries disagree on to their canonical Name.
var colorAliases = map[string]Name{
	"brightblack":   BrightBlack,
	"brightred":     BrightRed,
	"brightgreen":   BrightGreen,
	"brightyellow":  BrightYellow,
	"brightblue":    BrightBlue,
	"brightmagenta": BrightMagenta,
	"brightcyan":    BrightCyan,
	"brightwhite":   BrightWhite,
	"brown":         Yellow,
	"grey":          BrightBlack,
	"gray":          BrightBlack,
	"bfightmagenta": BrightMagenta, // pyte's misspelling, seen in real screen dumps
}

// ParseColor normalizes a color string into a Color. It accepts the canonical
// ANSI names, known aliases, bare 256-palette indices, and 6-hex-digit RGB
// values with or without a leading '#'. Empty and "default" map to the
// default color. Unknown strings are an error so bad values surface at
// configuration time rather than at render time.
func ParseColor(s string) (Color, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "-", "_")
	norm = strings.ReplaceAll(norm, " ", "_")

	if norm == "" || norm == "default" {
		return Color{}, nil
	}

	if n, ok := canonicalNames[norm]; ok {
		return Named(n), nil
	}
	if n, ok := colorAliases[norm]; ok {
		return Named(n), nil
	}

	// Palette indices are at most three digits; six hex digits are true color.
	if len(norm) <= 3 {
		if i, err := strconv.Atoi(norm); err == nil {
			if i < 0 || i > 255 {
				return Color{}, fmt.Errorf("%w: palette index %d out of range", ErrUnknownColor, i)
			}
			return Indexed(uint8(i)), nil
		}
	}

	hex := strings.TrimPrefix(norm, "#")
	if len(hex) == 6 {
		if c, err := colorful.Hex("#" + hex); err == nil {
			r, g, b := c.RGB255()
			return RGB(r, g, b), nil
		}
	}

	return Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
}
