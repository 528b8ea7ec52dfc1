package noteservice_test

import (
	"errors"
	"testing"

	"github.com/marwold/stickpad/internal/apperr"
	"github.com/marwold/stickpad/internal/models"
	"github.com/marwold/stickpad/internal/store"
)

func TestAddToFolder(t *testing.T) {
	svc, _, _ := newService(t)
	folder, _ := svc.CreateNote(models.TypeFolder, 0, 0)
	note, _ := svc.CreateNote(models.TypeText, 0, 0)

	if err := svc.AddToFolder(folder.ID, note.ID); err != nil {
		t.Fatalf("AddToFolder: %v", err)
	}
	f, _ := svc.GetNote(folder.ID)
	n, _ := svc.GetNote(note.ID)
	if len(f.FolderItems) != 1 || f.FolderItems[0] != note.ID {
		t.Errorf("folderItems = %v", f.FolderItems)
	}
	if n.ParentFolder != folder.ID {
		t.Errorf("parentFolder = %q", n.ParentFolder)
	}
}

func TestAddToFolderIdempotent(t *testing.T) {
	svc, _, _ := newService(t)
	folder, _ := svc.CreateNote(models.TypeFolder, 0, 0)
	note, _ := svc.CreateNote(models.TypeText, 0, 0)

	_ = svc.AddToFolder(folder.ID, note.ID)
	if err := svc.AddToFolder(folder.ID, note.ID); err != nil {
		t.Fatalf("repeat AddToFolder: %v", err)
	}
	f, _ := svc.GetNote(folder.ID)
	if len(f.FolderItems) != 1 {
		t.Errorf("folderItems = %v, want no duplicate", f.FolderItems)
	}
}

func TestAddToFolderMovesBetweenFolders(t *testing.T) {
	svc, _, _ := newService(t)
	a, _ := svc.CreateNote(models.TypeFolder, 0, 0)
	b, _ := svc.CreateNote(models.TypeFolder, 0, 0)
	note, _ := svc.CreateNote(models.TypeText, 0, 0)

	_ = svc.AddToFolder(a.ID, note.ID)
	if err := svc.AddToFolder(b.ID, note.ID); err != nil {
		t.Fatalf("move: %v", err)
	}
	oldFolder, _ := svc.GetNote(a.ID)
	if len(oldFolder.FolderItems) != 0 {
		t.Errorf("old folder still holds %v", oldFolder.FolderItems)
	}
	n, _ := svc.GetNote(note.ID)
	if n.ParentFolder != b.ID {
		t.Errorf("parentFolder = %q", n.ParentFolder)
	}
}

func TestAddToFolderErrors(t *testing.T) {
	svc, _, _ := newService(t)
	folder, _ := svc.CreateNote(models.TypeFolder, 0, 0)
	text, _ := svc.CreateNote(models.TypeText, 0, 0)

	if err := svc.AddToFolder("missing", text.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing folder err = %v", err)
	}
	if err := svc.AddToFolder(text.ID, folder.ID); !errors.Is(err, apperr.ErrNotFolder) {
		t.Errorf("non-folder target err = %v", err)
	}
	if err := svc.AddToFolder(folder.ID, "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing note err = %v", err)
	}
	if err := svc.AddToFolder(folder.ID, folder.ID); !errors.Is(err, apperr.ErrCycle) {
		t.Errorf("self add err = %v", err)
	}
}

func TestAddToFolderRejectsCycle(t *testing.T) {
	svc, _, _ := newService(t)
	a, _ := svc.CreateNote(models.TypeFolder, 0, 0)
	b, _ := svc.CreateNote(models.TypeFolder, 0, 0)
	c, _ := svc.CreateNote(models.TypeFolder, 0, 0)

	// a contains b, b contains c.
	if err := svc.AddToFolder(a.ID, b.ID); err != nil {
		t.Fatalf("AddToFolder: %v", err)
	}
	if err := svc.AddToFolder(b.ID, c.ID); err != nil {
		t.Fatalf("AddToFolder: %v", err)
	}
	// Direct cycle: b back into... a into b.
	if err := svc.AddToFolder(b.ID, a.ID); !errors.Is(err, apperr.ErrCycle) {
		t.Errorf("direct cycle err = %v", err)
	}
	// Transitive cycle: a into c.
	if err := svc.AddToFolder(c.ID, a.ID); !errors.Is(err, apperr.ErrCycle) {
		t.Errorf("transitive cycle err = %v", err)
	}
}

func TestAddToFolderTerminatesOnCorruptCycle(t *testing.T) {
	svc, st, _ := newService(t)
	a, _ := svc.CreateNote(models.TypeFolder, 0, 0)
	b, _ := svc.CreateNote(models.TypeFolder, 0, 0)
	fresh, _ := svc.CreateNote(models.TypeFolder, 0, 0)

	// Inject a mutual containment cycle as a corrupt workspace file would;
	// the reachability walk must still terminate.
	_ = st.Update(func(d *store.Data) error {
		fa := d.FindNote(a.ID)
		fb := d.FindNote(b.ID)
		fa.FolderItems = append(fa.FolderItems, b.ID)
		fb.FolderItems = append(fb.FolderItems, a.ID)
		fa.ParentFolder = b.ID
		fb.ParentFolder = a.ID
		return nil
	})

	if err := svc.AddToFolder(fresh.ID, a.ID); err != nil {
		t.Fatalf("AddToFolder: %v", err)
	}
	f, _ := svc.GetNote(fresh.ID)
	if len(f.FolderItems) != 1 || f.FolderItems[0] != a.ID {
		t.Errorf("folderItems = %v", f.FolderItems)
	}

	// Placements that would extend the cycle are still rejected.
	if err := svc.AddToFolder(a.ID, fresh.ID); !errors.Is(err, apperr.ErrCycle) {
		t.Errorf("cycle err = %v", err)
	}
}

func TestRemoveFromFolder(t *testing.T) {
	svc, _, _ := newService(t)
	folder, _ := svc.CreateNote(models.TypeFolder, 0, 0)
	note, _ := svc.CreateNote(models.TypeText, 0, 0)
	_ = svc.AddToFolder(folder.ID, note.ID)

	if err := svc.RemoveFromFolder(folder.ID, note.ID); err != nil {
		t.Fatalf("RemoveFromFolder: %v", err)
	}
	f, _ := svc.GetNote(folder.ID)
	n, _ := svc.GetNote(note.ID)
	if len(f.FolderItems) != 0 || n.ParentFolder != "" {
		t.Errorf("items = %v, parent = %q", f.FolderItems, n.ParentFolder)
	}
	// Removing a non-member is a no-op.
	if err := svc.RemoveFromFolder(folder.ID, note.ID); err != nil {
		t.Errorf("repeat remove: %v", err)
	}
}

func TestDeleteDetachesFromFolders(t *testing.T) {
	svc, _, _ := newService(t)
	folder, _ := svc.CreateNote(models.TypeFolder, 0, 0)
	note, _ := svc.CreateNote(models.TypeText, 0, 0)
	_ = svc.AddToFolder(folder.ID, note.ID)

	if err := svc.DeleteNote(note.ID); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	f, _ := svc.GetNote(folder.ID)
	if len(f.FolderItems) != 0 {
		t.Errorf("folder still references deleted note: %v", f.FolderItems)
	}
}

func TestArchiveDetachesFromFolders(t *testing.T) {
	svc, _, _ := newService(t)
	folder, _ := svc.CreateNote(models.TypeFolder, 0, 0)
	note, _ := svc.CreateNote(models.TypeText, 0, 0)
	_ = svc.AddToFolder(folder.ID, note.ID)

	if err := svc.Archive(note.ID); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	f, _ := svc.GetNote(folder.ID)
	if len(f.FolderItems) != 0 {
		t.Errorf("folder still references archived note: %v", f.FolderItems)
	}
}

func TestFolderContentsPrunesDangling(t *testing.T) {
	svc, st, _ := newService(t)
	folder, _ := svc.CreateNote(models.TypeFolder, 0, 0)
	note, _ := svc.CreateNote(models.TypeText, 0, 0)
	_ = svc.AddToFolder(folder.ID, note.ID)

	// Inject a dangling member id as a stale file would.
	_ = st.Update(func(d *store.Data) error {
		f := d.FindNote(folder.ID)
		f.FolderItems = append(f.FolderItems, "ghost")
		return nil
	})

	notes, err := svc.FolderContents(folder.ID)
	if err != nil {
		t.Fatalf("FolderContents: %v", err)
	}
	if len(notes) != 1 || notes[0].ID != note.ID {
		t.Errorf("contents = %+v", notes)
	}
	f, _ := svc.GetNote(folder.ID)
	if len(f.FolderItems) != 1 {
		t.Errorf("dangling id not pruned: %v", f.FolderItems)
	}
}
