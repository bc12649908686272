package view

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/termcore/internal/input/key"
	"github.com/dshills/termcore/internal/input/mouse"
	"github.com/dshills/termcore/internal/screen"
)

// convertKey translates a tcell key event into a key event for the
// session. The second return is false for keys with no terminal
// meaning. Several tcell constants alias the same control byte (Tab is
// Ctrl+I, Enter is Ctrl+M), so the named keys are matched first and the
// remaining Ctrl letters handled as a range.
func convertKey(ev *tcell.EventKey) (key.Event, bool) {
	mods := convertMod(ev.Modifiers())

	switch ev.Key() {
	case tcell.KeyRune:
		return key.NewRuneEvent(ev.Rune(), mods), true
	case tcell.KeyEnter:
		return key.NewSpecialEvent(key.KeyEnter, mods), true
	case tcell.KeyTab:
		return key.NewSpecialEvent(key.KeyTab, mods), true
	case tcell.KeyBacktab:
		return key.NewSpecialEvent(key.KeyBacktab, mods), true
	case tcell.KeyEscape:
		return key.NewSpecialEvent(key.KeyEscape, mods), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.NewSpecialEvent(key.KeyBackspace, mods), true
	case tcell.KeyDelete:
		return key.NewSpecialEvent(key.KeyDelete, mods), true
	case tcell.KeyInsert:
		return key.NewSpecialEvent(key.KeyInsert, mods), true
	case tcell.KeyHome:
		return key.NewSpecialEvent(key.KeyHome, mods), true
	case tcell.KeyEnd:
		return key.NewSpecialEvent(key.KeyEnd, mods), true
	case tcell.KeyPgUp:
		return key.NewSpecialEvent(key.KeyPageUp, mods), true
	case tcell.KeyPgDn:
		return key.NewSpecialEvent(key.KeyPageDown, mods), true
	case tcell.KeyUp:
		return key.NewSpecialEvent(key.KeyUp, mods), true
	case tcell.KeyDown:
		return key.NewSpecialEvent(key.KeyDown, mods), true
	case tcell.KeyLeft:
		return key.NewSpecialEvent(key.KeyLeft, mods), true
	case tcell.KeyRight:
		return key.NewSpecialEvent(key.KeyRight, mods), true
	case tcell.KeyCtrlSpace:
		return key.NewRuneEvent(' ', mods|key.ModCtrl), true
	case tcell.KeyCtrlBackslash:
		return key.NewRuneEvent('\\', mods|key.ModCtrl), true
	case tcell.KeyCtrlRightSq:
		return key.NewRuneEvent(']', mods|key.ModCtrl), true
	case tcell.KeyCtrlCarat:
		return key.NewRuneEvent('^', mods|key.ModCtrl), true
	case tcell.KeyCtrlUnderscore:
		return key.NewRuneEvent('_', mods|key.ModCtrl), true
	}

	if k := ev.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return key.NewRuneEvent(rune('a'+int(k-tcell.KeyCtrlA)), mods|key.ModCtrl), true
	}

	return key.Event{}, false
}

// convertMod converts a tcell modifier mask.
func convertMod(m tcell.ModMask) key.Modifier {
	var result key.Modifier
	if m&tcell.ModShift != 0 {
		result |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= key.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= key.ModMeta
	}
	return result
}

// wheelMask covers the momentary wheel bits that never appear in the
// held-button state.
const wheelMask = tcell.WheelUp | tcell.WheelDown | tcell.WheelLeft | tcell.WheelRight

// mouseDelta derives the button and action for a mouse event from the
// previous and current tcell button masks, and returns the held-button
// state to carry forward. tcell reports button state, not transitions,
// so presses and releases are recovered by comparing masks.
func mouseDelta(last, cur tcell.ButtonMask) (mouse.Button, mouse.Action, tcell.ButtonMask) {
	held := cur &^ wheelMask
	next := held

	switch {
	case cur&tcell.WheelUp != 0:
		return mouse.ButtonScrollUp, mouse.ActionPress, next
	case cur&tcell.WheelDown != 0:
		return mouse.ButtonScrollDown, mouse.ActionPress, next
	}

	if pressed := held &^ last; pressed != 0 {
		return buttonFromMask(pressed), mouse.ActionPress, next
	}
	if released := last &^ held; released != 0 {
		return buttonFromMask(released), mouse.ActionRelease, next
	}

	if held != 0 {
		return buttonFromMask(held), mouse.ActionDrag, next
	}
	return mouse.ButtonNone, mouse.ActionMove, next
}

// buttonFromMask returns the most significant button in a mask.
func buttonFromMask(b tcell.ButtonMask) mouse.Button {
	switch {
	case b&tcell.Button1 != 0:
		return mouse.ButtonLeft
	case b&tcell.Button2 != 0:
		return mouse.ButtonMiddle
	case b&tcell.Button3 != 0:
		return mouse.ButtonRight
	default:
		return mouse.ButtonNone
	}
}

// convertStyle converts a screen style to a tcell style. Cells that
// leave a color at its default inherit it from base.
func convertStyle(base tcell.Style, st screen.Style) tcell.Style {
	style := base

	if !st.Fg.IsDefault() {
		style = style.Foreground(convertColor(st.Fg))
	}
	if !st.Bg.IsDefault() {
		style = style.Background(convertColor(st.Bg))
	}

	if st.Attrs.Has(screen.AttrBold) {
		style = style.Bold(true)
	}
	if st.Attrs.Has(screen.AttrDim) {
		style = style.Dim(true)
	}
	if st.Attrs.Has(screen.AttrItalic) {
		style = style.Italic(true)
	}
	if st.Attrs.Has(screen.AttrUnderline) {
		style = style.Underline(true)
	}
	if st.Attrs.Has(screen.AttrBlink) {
		style = style.Blink(true)
	}
	if st.Attrs.Has(screen.AttrReverse) {
		style = style.Reverse(true)
	}
	if st.Attrs.Has(screen.AttrStrikethrough) {
		style = style.StrikeThrough(true)
	}

	return style
}

// convertColor converts a screen color to a tcell color. Named and
// indexed colors map onto the terminal palette; RGB colors pass
// through as true color.
func convertColor(c screen.Color) tcell.Color {
	switch c.Kind {
	case screen.ColorNamed:
		return tcell.PaletteColor(int(c.Name))
	case screen.ColorIndexed:
		return tcell.PaletteColor(int(c.Index))
	case screen.ColorRGB:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	default:
		return tcell.ColorDefault
	}
}
