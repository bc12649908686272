package terminal

import (
	"sync"
	"sync/atomic"
	"time"
)

// Publisher receives session lifecycle events for the application
// event bus.
type Publisher interface {
	Publish(eventType string, data map[string]any)
}

// ManagerConfig configures a session manager.
type ManagerConfig struct {
	// Defaults are applied to sessions created without an explicit
	// command or size.
	Defaults Config

	// Publisher receives session events. May be nil.
	Publisher Publisher
}

// Manager tracks multiple sessions and forwards their lifecycle events
// to a publisher. Sessions created through a manager have their event
// channel drained by the manager; callers observe them through the
// publisher, not through Events.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	defaults  Config
	publisher Publisher

	closed atomic.Bool
}

// NewManager creates a new session manager.
func NewManager(cfg ManagerConfig) *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		defaults:  cfg.Defaults,
		publisher: cfg.Publisher,
	}
}

// Create builds a session from the manager defaults overlaid with cfg,
// starts it, and begins forwarding its events.
func (m *Manager) Create(cfg Config) (*Session, error) {
	if m.closed.Load() {
		return nil, ErrManagerClosed
	}

	merged := m.defaults
	if cfg.Command != "" {
		merged.Command = cfg.Command
		merged.Args = cfg.Args
	}
	if cfg.WorkDir != "" {
		merged.WorkDir = cfg.WorkDir
	}
	if len(cfg.Env) > 0 {
		merged.Env = append(append([]string{}, merged.Env...), cfg.Env...)
	}
	if cfg.Cols > 0 {
		merged.Cols = cfg.Cols
	}
	if cfg.Rows > 0 {
		merged.Rows = cfg.Rows
	}
	if cfg.SizeFunc != nil {
		merged.SizeFunc = cfg.SizeFunc
	}
	if cfg.SyncInterval > 0 {
		merged.SyncInterval = cfg.SyncInterval
	}
	if cfg.NewModel != nil {
		merged.NewModel = cfg.NewModel
	}
	if cfg.Logf != nil {
		merged.Logf = cfg.Logf
	}

	s := NewSession(merged)
	if err := s.Start(CommandSpec{}); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	go m.forward(s)

	return s, nil
}

// forward drains a session's event channel into the publisher. It runs
// until the session is closed, then drops the session from tracking.
func (m *Manager) forward(s *Session) {
	for ev := range s.Events() {
		switch ev := ev.(type) {
		case *EventStarted:
			m.publish("session.started", map[string]any{
				"id":  ev.ID,
				"pid": ev.PID,
			})
		case *EventTitle:
			m.publish("session.title", map[string]any{
				"id":    s.ID(),
				"title": ev.Title,
			})
		case *EventExited:
			m.publish("session.exited", map[string]any{
				"id":       s.ID(),
				"status":   ev.Status.String(),
				"code":     ev.Status.Code,
				"signaled": ev.Status.Signaled,
			})
		}
		// Screen updates are too chatty for the bus.
	}

	m.remove(s.ID())
	m.publish("session.closed", map[string]any{"id": s.ID()})
}

// remove drops a session from tracking.
func (m *Manager) remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Get returns a session by ID.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// List returns all tracked sessions.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		result = append(result, s)
	}
	return result
}

// Count returns the number of tracked sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Stop closes a session by ID and drops it from tracking.
func (m *Manager) Stop(id string) error {
	s, ok := m.Get(id)
	if !ok {
		return ErrSessionNotFound
	}
	s.Close()
	m.remove(id)
	return nil
}

// StopAll closes every tracked session.
func (m *Manager) StopAll() {
	for _, s := range m.List() {
		s.Close()
	}
}

// Shutdown closes all sessions and waits for them to finish, force
// killing any child that outlives the timeout.
func (m *Manager) Shutdown(timeout time.Duration) {
	if m.closed.Swap(true) {
		return
	}

	sessions := m.List()
	if len(sessions) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, s := range sessions {
		wg.Add(1)
		go func(s *Session) {
			defer wg.Done()
			s.Close()
		}(s)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		for _, s := range sessions {
			s.kill()
		}
		<-done
	}
}

// publish forwards an event to the publisher if one is configured.
func (m *Manager) publish(eventType string, data map[string]any) {
	if m.publisher == nil {
		return
	}
	if data == nil {
		data = make(map[string]any)
	}
	data["timestamp"] = time.Now().UnixMilli()
	m.publisher.Publish(eventType, data)
}
