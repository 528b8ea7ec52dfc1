// Package store owns the per-workspace note collections and their
// persistence. Two named workspaces exist, each with an active and an
// archived collection, each persisted to its own pretty-JSON file under the
// data directory.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/marwold/stickpad/internal/models"
	"github.com/marwold/stickpad/internal/storage"
)

// Workspace names. The set is fixed.
const (
	WorkspaceHome = "home"
	WorkspaceWork = "work"
)

// Workspaces lists every workspace name.
var Workspaces = []string{WorkspaceHome, WorkspaceWork}

// On-disk file names, relative to the data directory.
const (
	prefsFile  = "workspace-preference.json"
	legacyFile = "notes.json"
)

func workspaceFile(name string) string {
	return name + "-notes.json"
}

// Data is one workspace's pair of collections. This is also the exact
// shape of the persisted workspace file.
type Data struct {
	Notes         []*models.Note `json:"notes"`
	ArchivedNotes []*models.Note `json:"archivedNotes"`
}

func emptyData() *Data {
	return &Data{Notes: []*models.Note{}, ArchivedNotes: []*models.Note{}}
}

// FindNote returns the active note with the given id, or nil.
func (d *Data) FindNote(id string) *models.Note {
	for _, n := range d.Notes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// FindArchived returns the archived note with the given id, or nil.
func (d *Data) FindArchived(id string) *models.Note {
	for _, n := range d.ArchivedNotes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// FindAny returns the note with the given id from either collection, or nil.
func (d *Data) FindAny(id string) *models.Note {
	if n := d.FindNote(id); n != nil {
		return n
	}
	return d.FindArchived(id)
}

type prefs struct {
	CurrentWorkspace string `json:"currentWorkspace"`
}

// Store mediates all access to workspace data. A single mutex serializes
// mutations; every mutation is flushed to disk before Update returns, so no
// two operations can race a half-written state onto disk.
type Store struct {
	mu         sync.Mutex
	fs         storage.Provider
	logger     *slog.Logger
	current    string
	workspaces map[string]*Data
}

// Open loads every workspace from the data directory, runs the one-time
// legacy migration, normalizes all loaded notes, and restores the last-used
// workspace preference. Missing or unparseable files yield empty
// collections and are never fatal.
func Open(fs storage.Provider, logger *slog.Logger) (*Store, error) {
	s := &Store{
		fs:         fs,
		logger:     logger,
		current:    WorkspaceHome,
		workspaces: make(map[string]*Data, len(Workspaces)),
	}

	for _, name := range Workspaces {
		s.workspaces[name] = s.loadWorkspace(name)
	}
	s.migrateLegacy()

	for _, d := range s.workspaces {
		for _, n := range d.Notes {
			n.Normalize()
		}
		for _, n := range d.ArchivedNotes {
			n.Normalize()
		}
	}

	if ws := s.loadPrefs(); ws != "" {
		s.current = ws
	}
	return s, nil
}

func (s *Store) loadWorkspace(name string) *Data {
	file := workspaceFile(name)
	if !s.fs.Exists(file) {
		return emptyData()
	}
	raw, err := s.fs.Read(file)
	if err != nil {
		s.logger.Warn("store: read workspace failed",
			slog.String("workspace", name), slog.String("error", err.Error()))
		return emptyData()
	}
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		s.logger.Warn("store: parse workspace failed, treating as empty",
			slog.String("workspace", name), slog.String("error", err.Error()))
		return emptyData()
	}
	if d.Notes == nil {
		d.Notes = []*models.Note{}
	}
	if d.ArchivedNotes == nil {
		d.ArchivedNotes = []*models.Note{}
	}
	return &d
}

// migrateLegacy upgrades a pre-workspace single-file layout: if notes.json
// exists and the home workspace is still empty, its contents move into home
// and the legacy file is removed. Idempotent.
func (s *Store) migrateLegacy() {
	if !s.fs.Exists(legacyFile) {
		return
	}
	home := s.workspaces[WorkspaceHome]
	if len(home.Notes) > 0 || len(home.ArchivedNotes) > 0 {
		return
	}
	raw, err := s.fs.Read(legacyFile)
	if err != nil {
		s.logger.Warn("store: read legacy file failed", slog.String("error", err.Error()))
		return
	}
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		s.logger.Warn("store: parse legacy file failed, skipping migration",
			slog.String("error", err.Error()))
		return
	}
	if d.Notes == nil && d.ArchivedNotes == nil {
		return
	}
	if d.Notes == nil {
		d.Notes = []*models.Note{}
	}
	if d.ArchivedNotes == nil {
		d.ArchivedNotes = []*models.Note{}
	}
	s.workspaces[WorkspaceHome] = &d
	if err := s.saveLocked(); err != nil {
		s.logger.Warn("store: persist migrated data failed", slog.String("error", err.Error()))
		return
	}
	if err := s.fs.Remove(legacyFile); err != nil {
		s.logger.Warn("store: remove legacy file failed", slog.String("error", err.Error()))
	}
	s.logger.Info("store: migrated legacy notes file",
		slog.Int("notes", len(d.Notes)), slog.Int("archived", len(d.ArchivedNotes)))
}

func (s *Store) loadPrefs() string {
	if !s.fs.Exists(prefsFile) {
		return ""
	}
	raw, err := s.fs.Read(prefsFile)
	if err != nil {
		s.logger.Warn("store: read workspace preference failed", slog.String("error", err.Error()))
		return ""
	}
	var p prefs
	if err := json.Unmarshal(raw, &p); err != nil {
		s.logger.Warn("store: parse workspace preference failed", slog.String("error", err.Error()))
		return ""
	}
	for _, name := range Workspaces {
		if p.CurrentWorkspace == name {
			return name
		}
	}
	return ""
}

func (s *Store) savePrefs() error {
	raw, err := json.Marshal(prefs{CurrentWorkspace: s.current})
	if err != nil {
		return err
	}
	return s.fs.Write(prefsFile, raw)
}

// saveLocked serializes every workspace to its file. Caller holds the lock.
func (s *Store) saveLocked() error {
	for _, name := range Workspaces {
		raw, err := json.MarshalIndent(s.workspaces[name], "", "  ")
		if err != nil {
			return fmt.Errorf("store: marshal workspace %s: %w", name, err)
		}
		if err := s.fs.Write(workspaceFile(name), raw); err != nil {
			return fmt.Errorf("store: save workspace %s: %w", name, err)
		}
	}
	return nil
}

// Current returns the name of the current workspace.
func (s *Store) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Update runs fn against the current workspace's data under the store lock
// and, when fn succeeds, flushes all workspaces to disk before returning.
// Persistence failures are logged, not propagated: note mutation logic is
// expected to always succeed once its preconditions hold.
func (s *Store) Update(fn func(d *Data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.workspaces[s.current]); err != nil {
		return err
	}
	if err := s.saveLocked(); err != nil {
		s.logger.Error("store: save failed", slog.String("error", err.Error()))
	}
	return nil
}

// View runs fn against the current workspace's data under the store lock
// without persisting.
func (s *Store) View(fn func(d *Data)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.workspaces[s.current])
}

// Switch makes target the current workspace. Switching to the current
// workspace is a no-op; the returned bool reports whether a switch happened.
func (s *Store) Switch(target string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workspaces[target]; !ok {
		return false, fmt.Errorf("store: unknown workspace %q", target)
	}
	if target == s.current {
		return false, nil
	}
	s.current = target
	if err := s.saveLocked(); err != nil {
		s.logger.Error("store: save failed", slog.String("error", err.Error()))
	}
	if err := s.savePrefs(); err != nil {
		s.logger.Warn("store: save workspace preference failed", slog.String("error", err.Error()))
	}
	return true, nil
}

// RunningTimerIDs returns the ids of active timer notes persisted in the
// running state, so their countdown drivers can be resumed after a load or
// a workspace switch.
func (s *Store) RunningTimerIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for _, n := range s.workspaces[s.current].Notes {
		if n.Type == models.TypeTimer && n.TimerRunning {
			ids = append(ids, n.ID)
		}
	}
	return ids
}
