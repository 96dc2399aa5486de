package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileSync_Overwrites(t *testing.T) {
	name := filepath.Join(t.TempDir(), "out.js")

	if err := WriteFileSync(name, []byte("a much longer first version")); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileSync(name, []byte("short")); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "short" {
		t.Errorf("content = %q, want %q", got, "short")
	}
}

func TestWriteFileSync_MissingDir(t *testing.T) {
	name := filepath.Join(t.TempDir(), "missing", "out.js")
	if err := WriteFileSync(name, nil); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}
