package terminal

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dshills/termcore/internal/screen"
)

// fakeModel is a minimal screen model that records what the session
// feeds it.
type fakeModel struct {
	mu      sync.Mutex
	cols    int
	rows    int
	data    bytes.Buffer
	resizes int
}

func newFakeModel(cols, rows int) *fakeModel {
	return &fakeModel{cols: cols, rows: rows}
}

func (m *fakeModel) Feed(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.Write(data)
}

func (m *fakeModel) Resize(cols, rows int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cols, m.rows = cols, rows
	m.resizes++
}

func (m *fakeModel) Size() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cols, m.rows
}

func (m *fakeModel) Cell(col, row int) (screen.Cell, bool) {
	return screen.Cell{}, false
}

func (m *fakeModel) Cursor() (int, int, bool) {
	return 0, 0, false
}

func (m *fakeModel) text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.String()
}

func (m *fakeModel) resizeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resizes
}

// fakeConfig returns a session config whose model is the returned fake.
func fakeConfig() (Config, *fakeModel) {
	fake := &fakeModel{}
	cfg := Config{
		NewModel: func(cols, rows int) screen.Model {
			fake.mu.Lock()
			fake.cols, fake.rows = cols, rows
			fake.mu.Unlock()
			return fake
		},
	}
	return cfg, fake
}

// waitExit consumes events until the exit notification arrives.
func waitExit(t *testing.T, s *Session) ExitStatus {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-s.Events():
			if !ok {
				t.Fatal("event channel closed before exit event")
			}
			if ex, ok := ev.(*EventExited); ok {
				return ex.Status
			}
		case <-deadline:
			t.Fatal("timed out waiting for exit event")
		}
	}
}

// eventually polls cond until it holds or the deadline passes.
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StateStarting, "starting"},
		{StateRunning, "running"},
		{StateStopping, "stopping"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession(Config{})

	if s.ID() == "" {
		t.Error("expected non-empty session ID")
	}
	if s.State() != StateIdle {
		t.Errorf("expected idle state, got %v", s.State())
	}
	if s.cfg.Cols != 80 || s.cfg.Rows != 24 {
		t.Errorf("expected 80x24 defaults, got %dx%d", s.cfg.Cols, s.cfg.Rows)
	}
	if s.cfg.SyncInterval != 500*time.Millisecond {
		t.Errorf("expected 500ms sync interval, got %v", s.cfg.SyncInterval)
	}

	// Done is closed before the first run.
	select {
	case <-s.Done():
	default:
		t.Error("expected done channel closed before first start")
	}
}

func TestSessionIdleOperations(t *testing.T) {
	s := NewSession(Config{})

	s.Write([]byte("nobody listening"))
	s.Resize(100, 30)
	if err := s.Stop(); err != nil {
		t.Errorf("Stop() on idle session = %v, want nil", err)
	}

	if s.Text() != "" {
		t.Errorf("expected empty text, got %q", s.Text())
	}
	if frame := s.Render(); frame.Cols != 0 || frame.Rows != 0 {
		t.Errorf("expected empty frame, got %dx%d", frame.Cols, frame.Rows)
	}
	if s.PID() != -1 {
		t.Errorf("expected PID -1, got %d", s.PID())
	}
	if _, ok := s.ExitStatus(); ok {
		t.Error("expected no exit status before first run")
	}
}

func TestSessionResolve(t *testing.T) {
	s := NewSession(Config{
		Command: "vim",
		Args:    []string{"-u", "NONE"},
		Env:     []string{"A=1"},
		WorkDir: "/tmp",
	})

	// Spec command wins and takes its own args.
	r := s.resolve(CommandSpec{Command: "less", Args: []string{"+F"}, Env: []string{"B=2"}})
	if r.Command != "less" || len(r.Args) != 1 || r.Args[0] != "+F" {
		t.Errorf("spec command not honored: %+v", r)
	}
	if len(r.Env) != 2 || r.Env[0] != "A=1" || r.Env[1] != "B=2" {
		t.Errorf("env not layered: %v", r.Env)
	}
	if r.WorkDir != "/tmp" {
		t.Errorf("expected config workdir, got %q", r.WorkDir)
	}

	// Empty spec falls back to the config command.
	r = s.resolve(CommandSpec{})
	if r.Command != "vim" || len(r.Args) != 2 {
		t.Errorf("config fallback not honored: %+v", r)
	}

	// With no command anywhere the shell is used.
	bare := NewSession(Config{})
	r = bare.resolve(CommandSpec{})
	if r.Command == "" {
		t.Error("expected a shell fallback command")
	}
	if len(r.Args) != 0 {
		t.Errorf("expected no args for shell fallback, got %v", r.Args)
	}
}

func TestClampSize(t *testing.T) {
	if c, r := clampSize(3, 2); c != minCols || r != minRows {
		t.Errorf("clampSize(3, 2) = %d, %d", c, r)
	}
	if c, r := clampSize(100, 50); c != 100 || r != 50 {
		t.Errorf("clampSize(100, 50) = %d, %d", c, r)
	}
}

func TestSessionStartNotFound(t *testing.T) {
	cfg, _ := fakeConfig()
	s := NewSession(cfg)

	err := s.Start(CommandSpec{Command: "definitely-not-a-real-command-xyz"})
	if !errors.Is(err, ErrCommandNotFound) {
		t.Errorf("expected ErrCommandNotFound, got %v", err)
	}
	if s.State() != StateIdle {
		t.Errorf("expected idle state after failed start, got %v", s.State())
	}
}

func TestSessionRunToExit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping session test in short mode")
	}

	cfg, fake := fakeConfig()
	s := NewSession(cfg)
	defer s.Close()

	if err := s.Start(CommandSpec{Command: "echo", Args: []string{"session test"}}); err != nil {
		t.Skipf("skipping: failed to start session (may not have PTY): %v", err)
	}

	status := waitExit(t, s)
	if status.Code != 0 || status.Signaled {
		t.Errorf("expected clean exit, got %v", status)
	}

	<-s.Done()
	if s.State() != StateIdle {
		t.Errorf("expected idle state after exit, got %v", s.State())
	}
	if !strings.Contains(fake.text(), "session test") {
		t.Errorf("expected output in model, got %q", fake.text())
	}

	got, ok := s.ExitStatus()
	if !ok || got != status {
		t.Errorf("ExitStatus() = %v, %v, want %v, true", got, ok, status)
	}
}

func TestSessionEventOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping session test in short mode")
	}

	cfg, _ := fakeConfig()
	s := NewSession(cfg)
	defer s.Close()

	if err := s.Start(CommandSpec{Command: "true"}); err != nil {
		t.Skipf("skipping: failed to start session (may not have PTY): %v", err)
	}

	var started, exited int
	deadline := time.After(5 * time.Second)
	for exited == 0 {
		select {
		case ev := <-s.Events():
			switch ev := ev.(type) {
			case *EventStarted:
				started++
				if ev.ID != s.ID() {
					t.Errorf("started event ID = %q, want %q", ev.ID, s.ID())
				}
				if ev.PID <= 0 {
					t.Errorf("started event PID = %d", ev.PID)
				}
				if ev.When().IsZero() {
					t.Error("started event has zero timestamp")
				}
			case *EventExited:
				exited++
				if started != 1 {
					t.Errorf("exit event before start event")
				}
			}
		case <-deadline:
			t.Fatal("timed out waiting for events")
		}
	}

	// Exactly one exit notification, nothing trailing it.
	time.Sleep(50 * time.Millisecond)
	for {
		select {
		case ev := <-s.Events():
			if _, ok := ev.(*EventExited); ok {
				exited++
			}
		default:
			if exited != 1 {
				t.Errorf("expected exactly one exit event, got %d", exited)
			}
			return
		}
	}
}

func TestSessionWrite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping session test in short mode")
	}

	cfg, fake := fakeConfig()
	s := NewSession(cfg)
	defer s.Close()

	if err := s.Start(CommandSpec{Command: "cat"}); err != nil {
		t.Skipf("skipping: failed to start session (may not have PTY): %v", err)
	}

	s.Write([]byte("hello from the test\n"))

	eventually(t, func() bool {
		return strings.Contains(fake.text(), "hello from the test")
	}, "written input never appeared in the model")

	s.Stop()
	if s.State() != StateIdle {
		t.Errorf("expected idle state after stop, got %v", s.State())
	}
}

func TestSessionStopSignals(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping session test in short mode")
	}

	cfg, _ := fakeConfig()
	s := NewSession(cfg)
	defer s.Close()

	if err := s.Start(CommandSpec{Command: "sleep", Args: []string{"30"}}); err != nil {
		t.Skipf("skipping: failed to start session (may not have PTY): %v", err)
	}
	if s.State() != StateRunning {
		t.Errorf("expected running state, got %v", s.State())
	}

	s.Stop()

	status, ok := s.ExitStatus()
	if !ok {
		t.Fatal("expected exit status after stop")
	}
	if !status.Signaled {
		t.Errorf("expected signaled exit, got %v", status)
	}

	// Stop again is a no-op.
	s.Stop()
}

func TestSessionRestartFreshModel(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping session test in short mode")
	}

	var mu sync.Mutex
	var models []*fakeModel
	cfg := Config{
		NewModel: func(cols, rows int) screen.Model {
			m := newFakeModel(cols, rows)
			mu.Lock()
			models = append(models, m)
			mu.Unlock()
			return m
		},
	}

	s := NewSession(cfg)
	defer s.Close()

	if err := s.Start(CommandSpec{Command: "echo", Args: []string{"first"}}); err != nil {
		t.Skipf("skipping: failed to start session (may not have PTY): %v", err)
	}
	waitExit(t, s)

	if err := s.Start(CommandSpec{Command: "echo", Args: []string{"second"}}); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	waitExit(t, s)

	mu.Lock()
	defer mu.Unlock()
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(models))
	}
	if !strings.Contains(models[0].text(), "first") || strings.Contains(models[0].text(), "second") {
		t.Errorf("first model saw wrong output: %q", models[0].text())
	}
	if !strings.Contains(models[1].text(), "second") || strings.Contains(models[1].text(), "first") {
		t.Errorf("second model saw wrong output: %q", models[1].text())
	}
}

func TestSessionStartWhileRunning(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping session test in short mode")
	}

	cfg, _ := fakeConfig()
	s := NewSession(cfg)
	defer s.Close()

	if err := s.Start(CommandSpec{Command: "sleep", Args: []string{"30"}}); err != nil {
		t.Skipf("skipping: failed to start session (may not have PTY): %v", err)
	}
	firstPID := s.PID()

	// Starting again stops the old child first.
	if err := s.Start(CommandSpec{Command: "sleep", Args: []string{"30"}}); err != nil {
		t.Fatalf("second start failed: %v", err)
	}
	if pid := s.PID(); pid == firstPID {
		t.Errorf("expected a new child, still pid %d", pid)
	}

	// The first run's exit notification was delivered.
	var sawExit bool
	timeout := time.After(5 * time.Second)
	for !sawExit {
		select {
		case ev := <-s.Events():
			if ex, ok := ev.(*EventExited); ok {
				if !ex.Status.Signaled {
					t.Errorf("expected first child signaled, got %v", ex.Status)
				}
				sawExit = true
			}
		case <-timeout:
			t.Fatal("timed out waiting for first child's exit event")
		}
	}

	s.Stop()
}

func TestSessionResize(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping session test in short mode")
	}

	cfg, fake := fakeConfig()
	cfg.Cols = 80
	cfg.Rows = 24
	s := NewSession(cfg)
	defer s.Close()

	if err := s.Start(CommandSpec{Command: "sleep", Args: []string{"30"}}); err != nil {
		t.Skipf("skipping: failed to start session (may not have PTY): %v", err)
	}

	s.Resize(100, 30)
	eventually(t, func() bool {
		c, r := fake.Size()
		return c == 100 && r == 30
	}, "resize never reached the model")

	// Same size again does not resize the model.
	count := fake.resizeCount()
	s.Resize(100, 30)
	time.Sleep(100 * time.Millisecond)
	if got := fake.resizeCount(); got != count {
		t.Errorf("redundant resize reached the model: %d -> %d", count, got)
	}

	// Tiny sizes are clamped.
	s.Resize(3, 2)
	eventually(t, func() bool {
		c, r := fake.Size()
		return c == minCols && r == minRows
	}, "clamped resize never reached the model")

	s.Stop()
}

func TestSessionSizeFuncSync(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping session test in short mode")
	}

	var mu sync.Mutex
	cols, rows := 50, 20
	cfg, fake := fakeConfig()
	cfg.SizeFunc = func() (int, int) {
		mu.Lock()
		defer mu.Unlock()
		return cols, rows
	}
	cfg.SyncInterval = 20 * time.Millisecond

	s := NewSession(cfg)
	defer s.Close()

	if err := s.Start(CommandSpec{Command: "sleep", Args: []string{"30"}}); err != nil {
		t.Skipf("skipping: failed to start session (may not have PTY): %v", err)
	}

	// The initial size comes from SizeFunc.
	if c, r := fake.Size(); c != 50 || r != 20 {
		t.Errorf("initial size = %dx%d, want 50x20", c, r)
	}

	mu.Lock()
	cols, rows = 64, 18
	mu.Unlock()

	eventually(t, func() bool {
		c, r := fake.Size()
		return c == 64 && r == 18
	}, "size change never synced to the model")

	// An unchanged report does not resize again.
	count := fake.resizeCount()
	time.Sleep(100 * time.Millisecond)
	if got := fake.resizeCount(); got != count {
		t.Errorf("unchanged size report resized the model: %d -> %d", count, got)
	}

	s.Stop()
}

func TestSessionRenderAfterExit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping session test in short mode")
	}

	s := NewSession(Config{})
	defer s.Close()

	if err := s.Start(CommandSpec{Command: "echo", Args: []string{"persist"}}); err != nil {
		t.Skipf("skipping: failed to start session (may not have PTY): %v", err)
	}
	waitExit(t, s)

	// The final screen stays readable after the child is gone.
	if !strings.Contains(s.Text(), "persist") {
		t.Errorf("expected final screen to contain output, got %q", s.Text())
	}
	frame := s.Render()
	if frame.Cols != 80 || frame.Rows != 24 {
		t.Errorf("expected 80x24 frame, got %dx%d", frame.Cols, frame.Rows)
	}
}

func TestSessionTitleEvent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping session test in short mode")
	}

	s := NewSession(Config{})
	defer s.Close()

	err := s.Start(CommandSpec{
		Command: "sh",
		Args:    []string{"-c", `printf '\033]2;build status\007'; sleep 0.2`},
	})
	if err != nil {
		t.Skipf("skipping: failed to start session (may not have PTY): %v", err)
	}

	var title string
	deadline := time.After(5 * time.Second)
	for title == "" {
		select {
		case ev, ok := <-s.Events():
			if !ok {
				t.Fatal("event channel closed before title event")
			}
			switch ev := ev.(type) {
			case *EventTitle:
				title = ev.Title
			case *EventExited:
				t.Fatal("child exited without a title event")
			}
		case <-deadline:
			t.Fatal("timed out waiting for title event")
		}
	}

	if title != "build status" {
		t.Errorf("expected title 'build status', got %q", title)
	}
}

func TestSessionClose(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping session test in short mode")
	}

	cfg, _ := fakeConfig()
	s := NewSession(cfg)

	if err := s.Start(CommandSpec{Command: "sleep", Args: []string{"30"}}); err != nil {
		t.Skipf("skipping: failed to start session (may not have PTY): %v", err)
	}

	go func() {
		// Drain events until the channel closes.
		for range s.Events() {
		}
	}()

	s.Close()

	if err := s.Start(CommandSpec{Command: "true"}); err != ErrSessionClosed {
		t.Errorf("expected ErrSessionClosed, got %v", err)
	}
	if err := s.Stop(); err != ErrSessionClosed {
		t.Errorf("Stop() after close = %v, want ErrSessionClosed", err)
	}

	// Close again is a no-op.
	s.Close()
}
