package view

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/termcore/internal/input/key"
	"github.com/dshills/termcore/internal/input/mouse"
	"github.com/dshills/termcore/internal/screen"
	"github.com/dshills/termcore/internal/terminal"
)

// Options configures a Viewer.
type Options struct {
	// Foreground is the default foreground color for cells that do not
	// set their own. Zero keeps the host terminal's default.
	Foreground screen.Color

	// Background is the default background color, as Foreground.
	Background screen.Color

	// Logf receives debug log lines. Nil disables logging.
	Logf func(format string, args ...any)
}

// Viewer displays a terminal session on the host terminal via tcell and
// forwards host keyboard and mouse input to the session. It owns the
// host screen from New until Close.
//
// A Viewer is driven by a single goroutine inside Run and is not safe
// for concurrent use.
type Viewer struct {
	screen tcell.Screen
	base   tcell.Style
	logf   func(string, ...any)

	buttons tcell.ButtonMask
	title   string
	exited  bool
	exit    terminal.ExitStatus
}

// New creates a Viewer and takes over the host terminal. The caller
// must call Close to restore it.
func New(opts Options) (*Viewer, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	s.EnableMouse()
	s.EnablePaste()
	s.HideCursor()

	base := tcell.StyleDefault
	if !opts.Foreground.IsDefault() {
		base = base.Foreground(convertColor(opts.Foreground))
	}
	if !opts.Background.IsDefault() {
		base = base.Background(convertColor(opts.Background))
	}

	return &Viewer{
		screen: s,
		base:   base,
		logf:   opts.Logf,
	}, nil
}

// Close releases the host terminal.
func (v *Viewer) Close() {
	v.screen.Fini()
}

// ContentSize returns the area available to the session: the host
// screen minus the status row. Suitable as a session SizeFunc.
func (v *Viewer) ContentSize() (cols, rows int) {
	width, height := v.screen.Size()
	if height > 1 {
		return width, height - 1
	}
	return width, 1
}

// Run displays the session until the child exits and the user presses
// q or Escape, or until the host screen is torn down. Run is the sole
// consumer of the session's event channel.
func (v *Viewer) Run(sess *terminal.Session) error {
	events := make(chan tcell.Event, 8)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	v.draw(sess)

	sessEvents := sess.Events()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if v.handleEvent(sess, ev) {
				return nil
			}
		case sev, ok := <-sessEvents:
			if !ok {
				sessEvents = nil
				continue
			}
			v.handleSessionEvent(sess, sev)
		}
	}
}

// handleEvent processes one host event. It reports true when the user
// asked to quit.
func (v *Viewer) handleEvent(sess *terminal.Session, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
		cols, rows := v.ContentSize()
		v.log("host resize, content %dx%d", cols, rows)
		sess.Resize(cols, rows)
		v.draw(sess)

	case *tcell.EventKey:
		if v.exited {
			if ev.Key() == tcell.KeyEscape || (ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				return true
			}
			return false
		}
		if kev, ok := convertKey(ev); ok {
			if data, ok := key.Encode(kev); ok {
				sess.Write(data)
			}
		}

	case *tcell.EventMouse:
		v.handleMouse(sess, ev)

	case *tcell.EventPaste:
		// Bracketed paste markers, so the child can tell pasted text
		// from typed text.
		if ev.Start() {
			sess.Write([]byte("\x1b[200~"))
		} else {
			sess.Write([]byte("\x1b[201~"))
		}
	}
	return false
}

// handleMouse forwards a mouse event that falls inside the content
// area. Bare movement with no button held is not forwarded.
func (v *Viewer) handleMouse(sess *terminal.Session, ev *tcell.EventMouse) {
	col, row := ev.Position()
	_, rows := v.ContentSize()
	if row >= rows {
		return
	}

	btn, action, next := mouseDelta(v.buttons, ev.Buttons())
	v.buttons = next
	if action == mouse.ActionMove && btn == mouse.ButtonNone {
		return
	}

	mev := mouse.NewEvent(btn, action, col, row, convertMod(ev.Modifiers()))
	if data, ok := mouse.Encode(mev); ok {
		sess.Write(data)
	}
}

func (v *Viewer) handleSessionEvent(sess *terminal.Session, ev terminal.Event) {
	switch ev := ev.(type) {
	case *terminal.EventStarted:
		v.log("session started, pid %d", ev.PID)
		v.draw(sess)
	case *terminal.EventUpdate:
		v.draw(sess)
	case *terminal.EventTitle:
		v.title = ev.Title
		v.draw(sess)
	case *terminal.EventExited:
		v.exited = true
		v.exit = ev.Status
		v.log("session exited: %s", ev.Status)
		v.draw(sess)
	}
}

// draw paints the current frame and the status row, then flushes.
func (v *Viewer) draw(sess *terminal.Session) {
	frame := sess.Render()
	width, height := v.screen.Size()
	content := height - 1

	for row := 0; row < content; row++ {
		for col := 0; col < width; col++ {
			cell, ok := frame.At(col, row)
			r := cell.Rune
			if !ok || r == 0 {
				r = ' '
			}
			v.screen.SetContent(col, row, r, nil, convertStyle(v.base, cell.Style))
		}
	}

	v.drawStatus(sess)
	v.screen.Show()
}

// drawStatus paints the bottom row in reverse video.
func (v *Viewer) drawStatus(sess *terminal.Session) {
	width, height := v.screen.Size()
	if height < 1 {
		return
	}
	row := height - 1
	style := v.base.Reverse(true)

	col := 0
	for _, r := range v.statusText(sess) {
		if col >= width {
			break
		}
		v.screen.SetContent(col, row, r, nil, style)
		col++
	}
	for ; col < width; col++ {
		v.screen.SetContent(col, row, ' ', nil, style)
	}
}

func (v *Viewer) statusText(sess *terminal.Session) string {
	if v.exited {
		return fmt.Sprintf(" %s  press q or Escape to quit", v.exit)
	}
	title := v.title
	if title == "" {
		title = "termcore"
	}
	return fmt.Sprintf(" %s  [%s]", title, sess.State())
}

func (v *Viewer) log(format string, args ...any) {
	if v.logf != nil {
		v.logf(format, args...)
	}
}
