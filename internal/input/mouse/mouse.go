package mouse

import (
	"fmt"
	"time"

	"github.com/dshills/termcore/internal/input/key"
)

// Button represents a mouse button.
type Button uint8

const (
	// ButtonNone indicates no button.
	ButtonNone Button = iota
	// ButtonLeft is the primary (left) mouse button.
	ButtonLeft
	// ButtonMiddle is the middle mouse button (scroll wheel click).
	ButtonMiddle
	// ButtonRight is the secondary (right) mouse button.
	ButtonRight
	// ButtonScrollUp indicates scroll wheel up.
	ButtonScrollUp
	// ButtonScrollDown indicates scroll wheel down.
	ButtonScrollDown
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	case ButtonScrollUp:
		return "scroll-up"
	case ButtonScrollDown:
		return "scroll-down"
	default:
		return "none"
	}
}

// IsScroll returns true if this is a scroll button.
func (b Button) IsScroll() bool {
	return b == ButtonScrollUp || b == ButtonScrollDown
}

// Action represents the type of mouse action.
type Action uint8

const (
	// ActionNone indicates no action.
	ActionNone Action = iota
	// ActionPress indicates a button press.
	ActionPress
	// ActionRelease indicates a button release.
	ActionRelease
	// ActionMove indicates mouse movement (no button held).
	ActionMove
	// ActionDrag indicates mouse movement with a button held.
	ActionDrag
)

// String returns a string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionPress:
		return "press"
	case ActionRelease:
		return "release"
	case ActionMove:
		return "move"
	case ActionDrag:
		return "drag"
	default:
		return "none"
	}
}

// Event represents a mouse input event in terminal cell coordinates.
type Event struct {
	// Button is the mouse button involved.
	Button Button

	// Action is the type of mouse action.
	Action Action

	// Col is the zero-based column of the event.
	Col int

	// Row is the zero-based row of the event.
	Row int

	// Modifiers are any keyboard modifiers held during the event.
	Modifiers key.Modifier

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// NewEvent creates a mouse event at the given cell with the current time.
func NewEvent(button Button, action Action, col, row int, mods key.Modifier) Event {
	return Event{
		Button:    button,
		Action:    action,
		Col:       col,
		Row:       row,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// String returns a compact representation for logging.
func (e Event) String() string {
	return fmt.Sprintf("%s %s at (%d,%d)", e.Button, e.Action, e.Col, e.Row)
}
