package profile

import (
	"path/filepath"
	"testing"
)

func TestStore_PutAndReopen(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "profiles.json")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	p := &Profile{
		Name:     "survival",
		Version:  "1.21.4",
		GameDir:  filepath.Join(tmpDir, "game"),
		Width:    1280,
		Height:   720,
		JVMArgs:  []string{"-Xmx4G"},
	}
	if err := s.Put(p); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	loaded, ok := s2.Get("survival")
	if !ok {
		t.Fatal("profile not found after reopen")
	}
	if loaded.Version != "1.21.4" {
		t.Errorf("Version mismatch: got %q, want %q", loaded.Version, "1.21.4")
	}
	if loaded.Width != 1280 || loaded.Height != 720 {
		t.Errorf("resolution mismatch: got %dx%d", loaded.Width, loaded.Height)
	}
}

func TestStore_Delete(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "profiles.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := s.Put(&Profile{Name: "to-delete", Version: "1.20.1"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Delete("to-delete"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := s.Get("to-delete"); ok {
		t.Fatal("profile still present after delete")
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if len(s2.List()) != 0 {
		t.Fatalf("expected empty store after delete, got %d profiles", len(s2.List()))
	}
}

func TestStore_Open_MissingFile(t *testing.T) {
	tmpDir := t.TempDir()
	s, err := Open(filepath.Join(tmpDir, "nope.json"))
	if err != nil {
		t.Fatalf("Open of missing file should not error: %v", err)
	}
	if len(s.List()) != 0 {
		t.Fatalf("expected empty store, got %d profiles", len(s.List()))
	}
}
