// Package noteservice implements the note lifecycle on top of the store:
// creation, partial updates, archival, folders, todo checklists, timers,
// reminders, search, and workspace switching. Every mutation is persisted
// before the call returns and announced on the SSE broker afterwards.
package noteservice

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/marwold/stickpad/internal/apperr"
	"github.com/marwold/stickpad/internal/models"
	"github.com/marwold/stickpad/internal/search"
	"github.com/marwold/stickpad/internal/sse"
	"github.com/marwold/stickpad/internal/store"
	"github.com/marwold/stickpad/internal/timer"
)

// Service is the core application service. All HTTP and MCP surfaces go
// through it; nothing else touches the store.
type Service struct {
	store  *store.Store
	broker *sse.Broker
	timers *timer.Manager
	logger *slog.Logger
	now    func() time.Time
}

// Option configures optional Service behavior.
type Option func(*options)

type options struct {
	tickInterval time.Duration
	now          func() time.Time
}

// WithTickInterval overrides the countdown interval. Tests use this to run
// timers faster than wall-clock seconds.
func WithTickInterval(d time.Duration) Option {
	return func(o *options) { o.tickInterval = d }
}

// WithClock overrides the time source used for reminder checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New creates a Service bound to the given store and broker.
func New(st *store.Store, broker *sse.Broker, logger *slog.Logger, opts ...Option) *Service {
	o := options{tickInterval: time.Second, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	s := &Service{
		store:  st,
		broker: broker,
		logger: logger,
		now:    o.now,
	}
	s.timers = timer.NewManager(o.tickInterval, s.tick)
	return s
}

// Close stops every countdown driver and detached link.
func (s *Service) Close() {
	s.timers.StopAll()
}

// CreateNote creates a note of the given type centered on (x, y) and
// appends it to the active collection.
func (s *Service) CreateNote(t models.Type, x, y float64) (*models.Note, error) {
	if !models.ValidType(t) {
		return nil, fmt.Errorf("noteservice: create %q: %w", t, apperr.ErrInvalidType)
	}
	n := models.New(t, x, y)
	err := s.store.Update(func(d *store.Data) error {
		d.Notes = append(d.Notes, n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.broker.PublishNote("created", n.ID)
	s.logger.Info("note created", slog.String("id", n.ID), slog.String("type", string(n.Type)))
	return clone(n), nil
}

// GetNote returns the note with the given id from either collection.
func (s *Service) GetNote(id string) (*models.Note, error) {
	var n *models.Note
	s.store.View(func(d *store.Data) {
		n = clone(d.FindAny(id))
	})
	if n == nil {
		return nil, fmt.Errorf("noteservice: note %s: %w", id, apperr.ErrNotFound)
	}
	return n, nil
}

// ListNotes returns the active collection in stored order.
func (s *Service) ListNotes() []*models.Note {
	var out []*models.Note
	s.store.View(func(d *store.Data) {
		out = cloneAll(d.Notes)
	})
	return out
}

// ListArchived returns the archived collection in stored order.
func (s *Service) ListArchived() []*models.Note {
	var out []*models.Note
	s.store.View(func(d *store.Data) {
		out = cloneAll(d.ArchivedNotes)
	})
	return out
}

// UpdateNote applies a partial update to an active note. The note's id and
// type never change.
func (s *Service) UpdateNote(id string, patch NotePatch) (*models.Note, error) {
	var out *models.Note
	err := s.store.Update(func(d *store.Data) error {
		n := d.FindNote(id)
		if n == nil {
			return fmt.Errorf("noteservice: update %s: %w", id, apperr.ErrNotFound)
		}
		patch.apply(n)
		out = clone(n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.broker.PublishNote("updated", id)
	return out, nil
}

// DeleteNote removes a note permanently from whichever collection holds it.
// An active note is first detached from every folder that references it.
func (s *Service) DeleteNote(id string) error {
	err := s.store.Update(func(d *store.Data) error {
		if i := indexOf(d.Notes, id); i >= 0 {
			n := d.Notes[i]
			if n.Type == models.TypeTimer {
				s.timers.Stop(id)
			}
			detachFromFolders(d, id)
			d.Notes = append(d.Notes[:i], d.Notes[i+1:]...)
			return nil
		}
		if i := indexOf(d.ArchivedNotes, id); i >= 0 {
			d.ArchivedNotes = append(d.ArchivedNotes[:i], d.ArchivedNotes[i+1:]...)
			return nil
		}
		return fmt.Errorf("noteservice: delete %s: %w", id, apperr.ErrNotFound)
	})
	if err != nil {
		return err
	}
	s.broker.PublishNote("deleted", id)
	s.logger.Info("note deleted", slog.String("id", id))
	return nil
}

// Archive moves an active note to the archived collection. A running timer
// is stopped and a detached timer surface is closed.
func (s *Service) Archive(id string) error {
	err := s.store.Update(func(d *store.Data) error {
		i := indexOf(d.Notes, id)
		if i < 0 {
			return fmt.Errorf("noteservice: archive %s: %w", id, apperr.ErrNotFound)
		}
		n := d.Notes[i]
		if n.Type == models.TypeTimer {
			s.timers.Stop(id)
			s.timers.Reattach(id)
			n.TimerRunning = false
			n.Detached = false
		}
		detachFromFolders(d, id)
		now := s.now()
		n.ArchivedAt = &now
		d.Notes = append(d.Notes[:i], d.Notes[i+1:]...)
		d.ArchivedNotes = append(d.ArchivedNotes, n)
		return nil
	})
	if err != nil {
		return err
	}
	s.broker.PublishNote("archived", id)
	s.logger.Info("note archived", slog.String("id", id))
	return nil
}

// Restore moves an archived note back to the active collection with its
// timer state reset.
func (s *Service) Restore(id string) error {
	err := s.store.Update(func(d *store.Data) error {
		i := indexOf(d.ArchivedNotes, id)
		if i < 0 {
			return fmt.Errorf("noteservice: restore %s: %w", id, apperr.ErrNotFound)
		}
		n := d.ArchivedNotes[i]
		n.ArchivedAt = nil
		if n.Type == models.TypeTimer {
			n.TimerRunning = false
			n.Detached = false
			n.TimerRemaining = n.TimerDuration
		}
		d.ArchivedNotes = append(d.ArchivedNotes[:i], d.ArchivedNotes[i+1:]...)
		d.Notes = append(d.Notes, n)
		return nil
	})
	if err != nil {
		return err
	}
	s.broker.PublishNote("restored", id)
	s.logger.Info("note restored", slog.String("id", id))
	return nil
}

// Search runs a linear query over the current workspace.
func (s *Service) Search(q string, opts search.Options) []search.Result {
	var out []search.Result
	s.store.View(func(d *store.Data) {
		out = search.Query(q, d.Notes, d.ArchivedNotes, opts)
	})
	for i := range out {
		out[i].Note = clone(out[i].Note)
	}
	return out
}

// CurrentWorkspace returns the name of the current workspace.
func (s *Service) CurrentWorkspace() string {
	return s.store.Current()
}

// SwitchWorkspace changes the current workspace: countdown drivers of the
// outgoing workspace stop, and timers persisted as running in the incoming
// workspace resume.
func (s *Service) SwitchWorkspace(name string) error {
	valid := false
	for _, ws := range store.Workspaces {
		if ws == name {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("noteservice: switch to %q: %w", name, apperr.ErrNotFound)
	}
	// Switching to the current workspace leaves running timers and detach
	// links untouched.
	if name == s.store.Current() {
		return nil
	}
	s.timers.StopAll()
	switched, err := s.store.Switch(name)
	if err != nil {
		return err
	}
	s.ResumeTimers()
	if switched {
		s.broker.PublishWorkspace(name)
		s.logger.Info("workspace switched", slog.String("workspace", name))
	}
	return nil
}

// AppConfig returns the current user settings.
func (s *Service) AppConfig() store.AppConfig {
	return s.store.LoadAppConfig(s.logger)
}

// SaveAppConfig persists new user settings and announces the change so UI
// surfaces re-register hotkeys.
func (s *Service) SaveAppConfig(cfg store.AppConfig) error {
	if err := s.store.SaveAppConfig(cfg); err != nil {
		return err
	}
	s.broker.PublishConfigUpdated()
	return nil
}

// ResumeTimers starts countdown drivers for every note persisted in the
// running state. Called at startup and after workspace switches.
func (s *Service) ResumeTimers() {
	for _, id := range s.store.RunningTimerIDs() {
		s.timers.Start(id)
	}
}

func indexOf(notes []*models.Note, id string) int {
	for i, n := range notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func clone(n *models.Note) *models.Note {
	if n == nil {
		return nil
	}
	c := *n
	if n.Tags != nil {
		c.Tags = append([]string{}, n.Tags...)
	}
	if n.TodoItems != nil {
		c.TodoItems = append([]models.TodoItem{}, n.TodoItems...)
	}
	c.CalculatorHistory = append([]string(nil), n.CalculatorHistory...)
	if n.FolderItems != nil {
		c.FolderItems = append([]string{}, n.FolderItems...)
	}
	if n.TableData != nil {
		c.TableData = make([][]string, len(n.TableData))
		for i, row := range n.TableData {
			c.TableData[i] = append([]string(nil), row...)
		}
	}
	if n.ArchivedAt != nil {
		t := *n.ArchivedAt
		c.ArchivedAt = &t
	}
	return &c
}

func cloneAll(notes []*models.Note) []*models.Note {
	out := make([]*models.Note, len(notes))
	for i, n := range notes {
		out[i] = clone(n)
	}
	return out
}
