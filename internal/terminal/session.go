package terminal

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/termcore/internal/screen"
)

// State identifies where a session is in its lifecycle.
type State int32

const (
	// StateIdle means no child process is running.
	StateIdle State = iota
	// StateStarting means a child process is being spawned.
	StateStarting
	// StateRunning means a child process is attached and producing output.
	StateRunning
	// StateStopping means the child process is being torn down.
	StateStopping
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "idle"
	}
}

// Minimum usable terminal size. Reported sizes below this are clamped
// so the child always has a workable screen.
const (
	minCols = 10
	minRows = 5
)

// eventBuffer is the capacity of a session's event channel.
const eventBuffer = 16

// CommandSpec describes the child process for one run of a session.
// Zero fields fall back to the session configuration.
type CommandSpec struct {
	// Command is the executable to run.
	Command string

	// Args are the command arguments.
	Args []string

	// Env are additional environment variables in key=value form,
	// layered over the session environment.
	Env []string

	// WorkDir is the working directory.
	WorkDir string
}

// Config configures a session.
type Config struct {
	// Command is the default executable (defaults to $SHELL or /bin/sh).
	Command string

	// Args are the default command arguments.
	Args []string

	// Env are additional environment variables in key=value form.
	Env []string

	// WorkDir is the default working directory.
	WorkDir string

	// Cols is the initial width (default 80). Ignored when SizeFunc is set.
	Cols int

	// Rows is the initial height (default 24). Ignored when SizeFunc is set.
	Rows int

	// SizeFunc reports the desired terminal dimensions. When set, the
	// session polls it every SyncInterval and resizes on change.
	SizeFunc func() (cols, rows int)

	// SyncInterval is how often SizeFunc is polled (default 500ms).
	SyncInterval time.Duration

	// NewModel builds the screen model for each run (defaults to the
	// built-in emulator).
	NewModel func(cols, rows int) screen.Model

	// Logf receives debug log lines. Nil disables logging.
	Logf func(format string, args ...any)
}

// Session drives one pseudo-terminal: it spawns the child process,
// pumps its output into a screen model, applies resizes, and reports
// lifecycle events. A session can be restarted; each run gets a fresh
// screen model.
type Session struct {
	id  string
	cfg Config

	state  atomic.Int32
	closed atomic.Bool

	// startMu serializes Start, Stop, and Close.
	startMu sync.Mutex

	// mu guards the fields below. The run loop holds it while feeding
	// the bridge; renderers hold it while reading.
	mu      sync.RWMutex
	bridge  *screen.Bridge
	proc    *process
	runDone chan struct{}
	status  ExitStatus
	exited  bool

	events chan Event
	resize chan size
}

type size struct {
	cols, rows int
}

// NewSession creates a session with the given configuration. No child
// process is spawned until Start.
func NewSession(cfg Config) *Session {
	if cfg.Cols <= 0 {
		cfg.Cols = 80
	}
	if cfg.Rows <= 0 {
		cfg.Rows = 24
	}
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = 500 * time.Millisecond
	}
	if cfg.NewModel == nil {
		cfg.NewModel = func(cols, rows int) screen.Model {
			return screen.NewEmulator(cols, rows)
		}
	}

	// Before the first run there is nothing to wait for.
	done := make(chan struct{})
	close(done)

	return &Session{
		id:      uuid.New().String(),
		cfg:     cfg,
		runDone: done,
		events:  make(chan Event, eventBuffer),
		resize:  make(chan size, 1),
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Start spawns a child process and begins a new run. A child that is
// still running is stopped first, and the screen model is replaced so
// the new run starts on a blank screen. Fields of spec override the
// session configuration.
func (s *Session) Start(spec CommandSpec) error {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	if s.closed.Load() {
		return ErrSessionClosed
	}

	s.stopLocked()
	s.state.Store(int32(StateStarting))

	resolved := s.resolve(spec)
	cols, rows := s.initialSize()

	model := s.cfg.NewModel(cols, rows)
	bridge := screen.NewBridge(model)

	proc, err := startProcess(resolved, cols, rows, s.cfg.Logf)
	if err != nil {
		s.state.Store(int32(StateIdle))
		return err
	}

	if tn, ok := model.(screen.TitleNotifier); ok {
		tn.OnTitle(func(title string) {
			s.postEvent(newEventTitle(title))
		})
	}

	runDone := make(chan struct{})

	s.mu.Lock()
	s.bridge = bridge
	s.proc = proc
	s.runDone = runDone
	s.mu.Unlock()

	// Drop any resize request left over from a previous run.
	select {
	case <-s.resize:
	default:
	}

	s.state.Store(int32(StateRunning))
	s.logf("session %s: started %s (pid %d)", s.id, resolved.Command, proc.PID())

	go s.run(proc, bridge, runDone)

	return nil
}

// resolve merges a per-run spec with the session configuration. The
// command falls back from spec to config to $SHELL to /bin/sh, and the
// arguments travel with whichever level supplied the command.
func (s *Session) resolve(spec CommandSpec) CommandSpec {
	r := CommandSpec{
		Command: spec.Command,
		Args:    spec.Args,
		WorkDir: spec.WorkDir,
	}

	if r.Command == "" {
		r.Command = s.cfg.Command
		r.Args = s.cfg.Args
	}
	if r.Command == "" {
		r.Command = os.Getenv("SHELL")
		r.Args = nil
	}
	if r.Command == "" {
		r.Command = "/bin/sh"
	}

	if r.WorkDir == "" {
		r.WorkDir = s.cfg.WorkDir
	}

	r.Env = append(append([]string{}, s.cfg.Env...), spec.Env...)

	return r
}

// initialSize returns the dimensions for a new run.
func (s *Session) initialSize() (cols, rows int) {
	if s.cfg.SizeFunc != nil {
		cols, rows = s.cfg.SizeFunc()
	} else {
		cols, rows = s.cfg.Cols, s.cfg.Rows
	}
	return clampSize(cols, rows)
}

func clampSize(cols, rows int) (int, int) {
	if cols < minCols {
		cols = minCols
	}
	if rows < minRows {
		rows = minRows
	}
	return cols, rows
}

// run pumps one child process until it exits.
func (s *Session) run(p *process, bridge *screen.Bridge, runDone chan struct{}) {
	s.sendEvent(newEventStarted(s.id, p.PID()))

	ticker := time.NewTicker(s.cfg.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-p.Output():
			if !ok {
				s.finish(p, runDone)
				return
			}
			s.mu.Lock()
			bridge.Feed(data)
			s.mu.Unlock()
			s.postEvent(newEventUpdate())

		case sz := <-s.resize:
			s.applyResize(p, bridge, sz.cols, sz.rows)

		case <-ticker.C:
			if s.cfg.SizeFunc == nil {
				continue
			}
			cols, rows := s.cfg.SizeFunc()
			s.applyResize(p, bridge, cols, rows)
		}
	}
}

// finish records the exit status and delivers the exit notification.
// The bridge is left in place so the final screen stays readable.
func (s *Session) finish(p *process, runDone chan struct{}) {
	status := p.Wait()

	s.mu.Lock()
	s.status = status
	s.exited = true
	s.mu.Unlock()

	s.state.Store(int32(StateIdle))
	s.logf("session %s: %s", s.id, status)

	s.sendEvent(newEventExited(status))
	close(runDone)
}

// applyResize clamps and applies a new size when it differs from the
// current one. The PTY and the screen model resize together.
func (s *Session) applyResize(p *process, bridge *screen.Bridge, cols, rows int) {
	cols, rows = clampSize(cols, rows)

	curCols, curRows := bridge.Size()
	if cols == curCols && rows == curRows {
		return
	}

	if err := p.Resize(cols, rows); err != nil {
		s.logf("session %s: resize to %dx%d failed: %v", s.id, cols, rows, err)
		return
	}

	s.mu.Lock()
	bridge.Resize(cols, rows)
	s.mu.Unlock()

	s.postEvent(newEventUpdate())
}

// Write sends input bytes to the child process. Writes while no child
// is running are dropped.
func (s *Session) Write(data []byte) {
	s.mu.RLock()
	p := s.proc
	s.mu.RUnlock()

	if p == nil || s.State() != StateRunning {
		return
	}
	p.Write(data)
}

// Resize requests new terminal dimensions. Requests are applied
// asynchronously by the session loop; only the most recent pending
// request is kept. Non-positive dimensions are ignored.
func (s *Session) Resize(cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	sz := size{cols: cols, rows: rows}
	for {
		select {
		case s.resize <- sz:
			return
		default:
		}
		// Full: displace the stale request and try again.
		select {
		case <-s.resize:
		default:
		}
	}
}

// Render returns the current screen as a styled frame with the cursor
// decorated. After the child exits, the final frame remains readable.
func (s *Session) Render() *screen.Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.bridge == nil {
		return &screen.Frame{}
	}
	return s.bridge.Render()
}

// Text returns the current screen contents as plain text.
func (s *Session) Text() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.bridge == nil {
		return ""
	}
	return s.bridge.Text()
}

// Events returns the session's event channel. The channel is closed by
// Close. Consumers must drain it promptly: screen updates and titles
// are dropped under backpressure, start and exit notifications are not.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Done returns a channel that is closed once the current run's child
// has exited. Before the first start it is already closed.
func (s *Session) Done() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runDone
}

// ExitStatus reports how the most recent run ended. The second return
// is false until a run has exited.
func (s *Session) ExitStatus() (ExitStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status, s.exited
}

// PID returns the child process ID, or -1 when no child has been
// started.
func (s *Session) PID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.proc == nil {
		return -1
	}
	return s.proc.PID()
}

// Stop terminates the child process if one is running and waits for the
// run to finish. Stopping an idle session is a no-op. The final screen
// remains readable afterwards.
func (s *Session) Stop() error {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	if s.closed.Load() {
		return ErrSessionClosed
	}
	s.stopLocked()
	return nil
}

// stopLocked tears down the current run. Callers hold startMu.
func (s *Session) stopLocked() {
	s.mu.RLock()
	p := s.proc
	runDone := s.runDone
	s.mu.RUnlock()

	if p == nil {
		return
	}

	select {
	case <-runDone:
		// Run already finished.
		return
	default:
	}

	s.state.Store(int32(StateStopping))
	p.Terminate()
	<-runDone
}

// Close stops the session permanently and closes the event channel.
// Subsequent Start calls return ErrSessionClosed.
func (s *Session) Close() {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	if s.closed.Swap(true) {
		return
	}
	s.stopLocked()
	close(s.events)
}

// kill forcibly terminates the current child, skipping the SIGTERM
// grace period.
func (s *Session) kill() {
	s.mu.RLock()
	p := s.proc
	s.mu.RUnlock()
	if p != nil {
		p.Kill()
	}
}

// sendEvent delivers a lifecycle event. When the buffer is full the
// oldest queued event is displaced so the notification always lands,
// even when the consumer has stopped draining.
func (s *Session) sendEvent(ev Event) {
	for {
		select {
		case s.events <- ev:
			return
		default:
		}
		select {
		case <-s.events:
		default:
		}
	}
}

// postEvent delivers a droppable event without blocking.
func (s *Session) postEvent(ev Event) {
	select {
	case s.events <- ev:
	default:
	}
}

func (s *Session) logf(format string, args ...any) {
	if s.cfg.Logf != nil {
		s.cfg.Logf(format, args...)
	}
}
