// Package terminal runs child processes on pseudo-terminals and keeps a
// live screen model of their output.
//
// # Architecture
//
// The package is organized around these core types:
//
//   - Session: spawns a child on a PTY, pumps output into a screen
//     model, applies resizes, and reports lifecycle events
//   - ExitStatus: how a child exited, distinguishing normal exits from
//     signal deaths
//   - Event: typed notifications (started, update, title, exited)
//     delivered on a channel
//   - Manager: tracks multiple sessions and forwards their events to an
//     application event bus
//
// # Usage
//
// Create a session and start a shell:
//
//	sess := terminal.NewSession(terminal.Config{
//	    Cols: 120,
//	    Rows: 40,
//	})
//	if err := sess.Start(terminal.CommandSpec{}); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Send input and read the screen
//	sess.Write([]byte("ls -la\n"))
//	frame := sess.Render()
//
//	// Watch for lifecycle events
//	for ev := range sess.Events() {
//	    switch ev := ev.(type) {
//	    case *terminal.EventExited:
//	        fmt.Println(ev.Status)
//	    }
//	}
//
// # Lifecycle
//
// A session moves through idle, starting, running, and stopping states.
// Start on a running session stops the old child first, and every run
// begins with a fresh screen model. When the child exits on its own the
// session returns to idle and delivers exactly one exit notification;
// the final screen remains readable until the next start.
//
// # Sizing
//
// The PTY and the screen model always resize together, and only when
// the size actually changes. With a SizeFunc configured the session
// polls it on a timer, so an embedding UI only has to report its
// current dimensions.
//
// # Thread Safety
//
// All exported types are safe for concurrent use. Event channels have a
// single consumer: the caller for plain sessions, the manager for
// managed ones.
package terminal
