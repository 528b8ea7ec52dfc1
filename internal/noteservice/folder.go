package noteservice

import (
	"fmt"

	"github.com/marwold/stickpad/internal/apperr"
	"github.com/marwold/stickpad/internal/models"
	"github.com/marwold/stickpad/internal/store"
)

// AddToFolder places a note inside a folder. The note leaves its previous
// folder first, membership is kept symmetric (folderItems and parentFolder
// always agree), and adding a note already in the folder is a no-op.
// Placements that would make a folder contain itself, directly or through
// any chain of nested folders, are rejected.
func (s *Service) AddToFolder(folderID, noteID string) error {
	err := s.store.Update(func(d *store.Data) error {
		folder := d.FindNote(folderID)
		if folder == nil {
			return fmt.Errorf("noteservice: folder %s: %w", folderID, apperr.ErrNotFound)
		}
		if folder.Type != models.TypeFolder {
			return fmt.Errorf("noteservice: add to %s: %w", folderID, apperr.ErrNotFolder)
		}
		n := d.FindNote(noteID)
		if n == nil {
			return fmt.Errorf("noteservice: note %s: %w", noteID, apperr.ErrNotFound)
		}
		if noteID == folderID {
			return fmt.Errorf("noteservice: add %s to itself: %w", folderID, apperr.ErrCycle)
		}
		if n.Type == models.TypeFolder && inHierarchy(d, noteID, folderID) {
			return fmt.Errorf("noteservice: add %s to %s: %w", noteID, folderID, apperr.ErrCycle)
		}
		if n.ParentFolder != "" && n.ParentFolder != folderID {
			if old := d.FindNote(n.ParentFolder); old != nil {
				old.FolderItems = removeID(old.FolderItems, noteID)
			}
		}
		if !containsID(folder.FolderItems, noteID) {
			folder.FolderItems = append(folder.FolderItems, noteID)
		}
		n.ParentFolder = folderID
		return nil
	})
	if err != nil {
		return err
	}
	s.broker.PublishNote("updated", folderID)
	s.broker.PublishNote("updated", noteID)
	return nil
}

// RemoveFromFolder takes a note out of a folder. Removing a note that is
// not a member is a no-op.
func (s *Service) RemoveFromFolder(folderID, noteID string) error {
	err := s.store.Update(func(d *store.Data) error {
		folder := d.FindNote(folderID)
		if folder == nil {
			return fmt.Errorf("noteservice: folder %s: %w", folderID, apperr.ErrNotFound)
		}
		if folder.Type != models.TypeFolder {
			return fmt.Errorf("noteservice: remove from %s: %w", folderID, apperr.ErrNotFolder)
		}
		folder.FolderItems = removeID(folder.FolderItems, noteID)
		if n := d.FindNote(noteID); n != nil && n.ParentFolder == folderID {
			n.ParentFolder = ""
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.broker.PublishNote("updated", folderID)
	s.broker.PublishNote("updated", noteID)
	return nil
}

// FolderContents resolves a folder's members. Ids that no longer resolve to
// an active note are pruned from the folder as a side effect.
func (s *Service) FolderContents(folderID string) ([]*models.Note, error) {
	var out []*models.Note
	err := s.store.Update(func(d *store.Data) error {
		folder := d.FindNote(folderID)
		if folder == nil {
			return fmt.Errorf("noteservice: folder %s: %w", folderID, apperr.ErrNotFound)
		}
		if folder.Type != models.TypeFolder {
			return fmt.Errorf("noteservice: contents of %s: %w", folderID, apperr.ErrNotFolder)
		}
		kept := folder.FolderItems[:0]
		for _, id := range folder.FolderItems {
			n := d.FindNote(id)
			if n == nil {
				continue
			}
			kept = append(kept, id)
			out = append(out, clone(n))
		}
		folder.FolderItems = kept
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// inHierarchy reports whether target is reachable from folderID through
// nested folder membership. Loaded data may already hold a folder cycle, so
// already-visited folders are terminal.
func inHierarchy(d *store.Data, folderID, targetID string) bool {
	return reachable(d, folderID, targetID, map[string]bool{})
}

func reachable(d *store.Data, folderID, targetID string, visited map[string]bool) bool {
	if visited[folderID] {
		return false
	}
	visited[folderID] = true

	folder := d.FindNote(folderID)
	if folder == nil || folder.Type != models.TypeFolder {
		return false
	}
	for _, id := range folder.FolderItems {
		if id == targetID {
			return true
		}
		if reachable(d, id, targetID, visited) {
			return true
		}
	}
	return false
}

// detachFromFolders removes every folder reference to the given note. The
// parent pointer names one folder, but all folders are scanned so a stale
// reference can never survive a delete.
func detachFromFolders(d *store.Data, id string) {
	for _, n := range d.Notes {
		if n.Type == models.TypeFolder {
			n.FolderItems = removeID(n.FolderItems, id)
		}
	}
	if n := d.FindAny(id); n != nil {
		n.ParentFolder = ""
	}
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
