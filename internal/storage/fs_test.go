package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func tempDataDir(t *testing.T) (string, *FS) {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return dir, fs
}

func TestWriteAndRead(t *testing.T) {
	_, s := tempDataDir(t)
	content := []byte(`{"notes":[]}`)
	if err := s.Write("home-notes.json", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("home-notes.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteOverwrites(t *testing.T) {
	_, s := tempDataDir(t)
	_ = s.Write("config.json", []byte("one"))
	if err := s.Write("config.json", []byte("two")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("config.json")
	if string(got) != "two" {
		t.Errorf("content = %q", got)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir, s := tempDataDir(t)
	if err := s.Write("work-notes.json", []byte("{}")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".stickpad-tmp-") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestRemove(t *testing.T) {
	_, s := tempDataDir(t)
	_ = s.Write("notes.json", []byte("legacy"))
	if err := s.Remove("notes.json"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if s.Exists("notes.json") {
		t.Error("file should be gone")
	}
}

func TestExists(t *testing.T) {
	_, s := tempDataDir(t)
	if s.Exists("missing.json") {
		t.Error("missing file reported as existing")
	}
	_ = s.Write("present.json", []byte("x"))
	if !s.Exists("present.json") {
		t.Error("written file not reported")
	}
}

func TestTraversalBlocked(t *testing.T) {
	dir, s := tempDataDir(t)
	outside := filepath.Join(filepath.Dir(dir), "escape.json")

	if err := s.Write("../escape.json", []byte("nope")); err == nil {
		t.Error("expected traversal write to fail")
	}
	if _, err := os.Stat(outside); err == nil {
		t.Error("file escaped the data directory")
	}
	if _, err := s.Read("../../etc/passwd"); err == nil {
		t.Error("expected traversal read to fail")
	}
	if err := s.Write("/abs.json", []byte("x")); err == nil {
		t.Error("expected absolute path to fail")
	}
}

func TestNewFSRequiresDirectory(t *testing.T) {
	if _, err := NewFS(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing root")
	}
}
