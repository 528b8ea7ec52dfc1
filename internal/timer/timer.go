// Package timer owns the countdown drivers for timer notes. Each active
// countdown is a per-note goroutine ticking at a fixed interval; the state
// it mutates lives in the workspace store and is reached only through the
// tick callback, so this package never touches note data directly.
package timer

import (
	"sync"
	"time"
)

// TickFunc advances one timer note by one interval. It returns true when
// the driver should stop (note gone, paused, or expired).
type TickFunc func(noteID string) (stop bool)

// Manager keys countdown drivers and detach links by note id. Exactly one
// driver may exist per note at any time: starting an already-running note
// is a no-op rather than a duplicate.
type Manager struct {
	mu       sync.Mutex
	interval time.Duration
	tick     TickFunc
	runners  map[string]*runner
	links    map[string]*Link
}

type runner struct {
	cancel chan struct{}
	once   sync.Once
}

func (r *runner) stop() {
	r.once.Do(func() { close(r.cancel) })
}

// NewManager creates a manager ticking each driver every interval.
// A non-positive interval defaults to one second.
func NewManager(interval time.Duration, tick TickFunc) *Manager {
	if interval <= 0 {
		interval = time.Second
	}
	return &Manager{
		interval: interval,
		tick:     tick,
		runners:  make(map[string]*runner),
		links:    make(map[string]*Link),
	}
}

// Start launches a countdown driver for the note. Idempotent: an existing
// driver is left alone.
func (m *Manager) Start(noteID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runners[noteID]; ok {
		return
	}
	r := &runner{cancel: make(chan struct{})}
	m.runners[noteID] = r
	go m.run(noteID, r)
}

func (m *Manager) run(noteID string, r *runner) {
	t := time.NewTicker(m.interval)
	defer t.Stop()
	for {
		select {
		case <-r.cancel:
			return
		case <-t.C:
			if m.tick(noteID) {
				m.remove(noteID, r)
				return
			}
		}
	}
}

// remove drops the runner only if it is still the registered one; a newer
// driver started for the same id must not be evicted.
func (m *Manager) remove(noteID string, r *runner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.runners[noteID] == r {
		delete(m.runners, noteID)
	}
}

// Stop deterministically cancels the note's tick source, if any.
func (m *Manager) Stop(noteID string) {
	m.mu.Lock()
	r, ok := m.runners[noteID]
	if ok {
		delete(m.runners, noteID)
	}
	m.mu.Unlock()
	if ok {
		r.stop()
	}
}

// StopAll cancels every driver and closes every detach link; used on
// shutdown and on workspace switches.
func (m *Manager) StopAll() {
	m.mu.Lock()
	runners := m.runners
	links := m.links
	m.runners = make(map[string]*runner)
	m.links = make(map[string]*Link)
	m.mu.Unlock()
	for _, r := range runners {
		r.stop()
	}
	for _, l := range links {
		l.Close()
	}
}

// Running reports whether the note currently has a driver.
func (m *Manager) Running(noteID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.runners[noteID]
	return ok
}

// Detach creates (or replaces) the note's one-to-one link with a detached
// display surface and returns it.
func (m *Manager) Detach(noteID string) *Link {
	l := newLink(noteID)
	m.mu.Lock()
	old := m.links[noteID]
	m.links[noteID] = l
	m.mu.Unlock()
	if old != nil {
		old.Close()
	}
	return l
}

// Reattach tears down the note's detach link. It reports whether a link
// existed, so callers can guarantee the reattach side effects run exactly
// once even when both endpoints race to reattach.
func (m *Manager) Reattach(noteID string) bool {
	m.mu.Lock()
	l, ok := m.links[noteID]
	if ok {
		delete(m.links, noteID)
	}
	m.mu.Unlock()
	if ok {
		l.Close()
	}
	return ok
}

// Link returns the note's detach link, or nil.
func (m *Manager) Link(noteID string) *Link {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.links[noteID]
}

// PushState forwards a state snapshot to the note's detached surface, if
// one is attached.
func (m *Manager) PushState(noteID string, remaining int, running bool) {
	if l := m.Link(noteID); l != nil {
		l.Push(State{NoteID: noteID, Remaining: remaining, Running: running})
	}
}
