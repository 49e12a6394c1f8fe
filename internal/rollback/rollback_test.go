package rollback

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRestoreProtected(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.strings")
	if err := os.WriteFile(file, []byte("A"), 0644); err != nil {
		t.Fatal(err)
	}

	r := New()
	defer r.Close()
	if err := r.Protect(file); err != nil {
		t.Fatalf("Protect() error = %v", err)
	}
	if err := os.WriteFile(file, []byte("AA"), 0644); err != nil {
		t.Fatal(err)
	}
	// A second protect must not overwrite the first snapshot.
	if err := r.Protect(file); err != nil {
		t.Fatalf("Protect() error = %v", err)
	}
	if err := r.Restore(); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	data, _ := os.ReadFile(file)
	if string(data) != "A" {
		t.Errorf("restored content = %q, want %q", data, "A")
	}
}

func TestRestoreCreated(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "new.strings")

	r := New()
	defer r.Close()
	if err := r.Protect(file); err != nil {
		t.Fatalf("Protect() error = %v", err)
	}
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := r.Restore(); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if _, err := os.Stat(file); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("created file still exists: %v", err)
	}
}

func TestCloseRemovesSnapshots(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.strings")
	if err := os.WriteFile(file, []byte("A"), 0644); err != nil {
		t.Fatal(err)
	}
	r := New()
	if err := r.Protect(file); err != nil {
		t.Fatalf("Protect() error = %v", err)
	}
	snapshots := r.dir
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(snapshots); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("snapshot dir still exists: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
