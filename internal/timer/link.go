package timer

import (
	"errors"
	"sync"
)

// ActionKind is a user action sent back from a detached timer surface.
type ActionKind string

// The closed action set.
const (
	ActionToggle   ActionKind = "toggle"
	ActionComplete ActionKind = "complete"
	ActionReturn   ActionKind = "return"
)

// ValidAction reports whether k is a member of the closed action set.
func ValidAction(k ActionKind) bool {
	return k == ActionToggle || k == ActionComplete || k == ActionReturn
}

// State is a countdown snapshot pushed to a detached surface.
type State struct {
	NoteID    string `json:"id"`
	Remaining int    `json:"remaining"`
	Running   bool   `json:"running"`
}

// Action is a request sent from a detached surface back to the core.
type Action struct {
	NoteID string     `json:"id"`
	Kind   ActionKind `json:"action"`
}

// ErrLinkClosed is returned when sending on a closed link.
var ErrLinkClosed = errors.New("timer: link closed")

// Link is the one-to-one channel pair between the core and a single
// detached timer surface. The core pushes state snapshots out; the surface
// sends actions back. Countdown state stays owned by the core; the
// detached surface is a thin mirror.
type Link struct {
	noteID  string
	updates chan State
	actions chan Action
	done    chan struct{}
	once    sync.Once
}

func newLink(noteID string) *Link {
	return &Link{
		noteID:  noteID,
		updates: make(chan State, 16),
		actions: make(chan Action, 4),
		done:    make(chan struct{}),
	}
}

// NoteID returns the note this link mirrors.
func (l *Link) NoteID() string { return l.noteID }

// Updates is the stream of state snapshots for the detached surface.
func (l *Link) Updates() <-chan State { return l.updates }

// Actions is the stream of surface requests for the core to apply.
func (l *Link) Actions() <-chan Action { return l.actions }

// Done is closed when the link is torn down.
func (l *Link) Done() <-chan struct{} { return l.done }

// Push sends a state snapshot without blocking; a full or closed link
// drops the snapshot (the next push supersedes it anyway).
func (l *Link) Push(st State) {
	select {
	case <-l.done:
	case l.updates <- st:
	default:
	}
}

// Do sends a surface action to the core.
func (l *Link) Do(kind ActionKind) error {
	select {
	case <-l.done:
		return ErrLinkClosed
	case l.actions <- Action{NoteID: l.noteID, Kind: kind}:
		return nil
	}
}

// Close tears the link down exactly once.
func (l *Link) Close() {
	l.once.Do(func() { close(l.done) })
}
