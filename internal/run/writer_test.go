package run

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kailas-cloud/vecrun/internal/domain"
)

func TestWriteFile_AscendingQidOrder(t *testing.T) {
	results := NewResults()
	// Insert out of order; the file must come out in natural qid order.
	results.Put(domain.IntID(30), "30 Q0 d 1 0.500000 t\n")
	results.Put(domain.IntID(2), "2 Q0 d 1 0.500000 t\n")
	results.Put(domain.IntID(100), "100 Q0 d 1 0.500000 t\n")

	path := filepath.Join(t.TempDir(), "run.txt")
	if err := WriteFile(path, results); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := "2 Q0 d 1 0.500000 t\n30 Q0 d 1 0.500000 t\n100 Q0 d 1 0.500000 t\n"
	if string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}
}

func TestWriteFile_TruncatesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.txt")
	if err := os.WriteFile(path, []byte("stale content that is longer"), 0o644); err != nil {
		t.Fatal(err)
	}

	results := NewResults()
	results.Put(domain.StringID("q"), "q\td\t1\n")
	if err := WriteFile(path, results); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "q\td\t1\n" {
		t.Errorf("file = %q, want fresh content only", data)
	}
}

func TestWriteFile_BadPath(t *testing.T) {
	results := NewResults()
	if err := WriteFile(filepath.Join(t.TempDir(), "missing", "run.txt"), results); err == nil {
		t.Fatal("expected error for unwritable path")
	}
}
