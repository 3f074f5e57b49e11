package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		p := filepath.Join(dir, n)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("{}"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFSWalkerContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "1.json", "2.json", "3.json", "4.json", "5.json", "notes.md", ".hidden/6.json")

	var seen []string
	w := NewFSWalker(nil, true, quietLogger())
	stats, err := w.IngestDirectory(context.Background(), dir, func(_ context.Context, path string) error {
		seen = append(seen, filepath.Base(path))
		if filepath.Base(path) == "3.json" {
			return errors.New("malformed")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("IngestDirectory() error = %v", err)
	}
	if want := []string{"1.json", "2.json", "3.json", "4.json", "5.json"}; !reflect.DeepEqual(seen, want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	if stats.Matched != 5 || stats.Succeeded != 4 || stats.Failed != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestFSWalkerDocumentExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.json", "b.PDF", "c.txt", "d.png")

	var seen []string
	w := NewFSWalker(DefaultExts(true), false, quietLogger())
	if _, err := w.IngestDirectory(context.Background(), dir, func(_ context.Context, path string) error {
		seen = append(seen, filepath.Base(path))
		return nil
	}); err != nil {
		t.Fatalf("IngestDirectory() error = %v", err)
	}
	if want := []string{"a.json", "b.PDF", "c.txt"}; !reflect.DeepEqual(seen, want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
}

func TestFSWalkerRequiresRoot(t *testing.T) {
	if _, err := NewFSWalker(nil, false, nil).IngestDirectory(context.Background(), " ", nil); err == nil {
		t.Fatal("IngestDirectory() with empty root should fail")
	}
}

func TestFSWalkerStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "1.json", "2.json")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFSWalker(nil, false, quietLogger()).IngestDirectory(ctx, dir, func(context.Context, string) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("IngestDirectory() error = %v, want context.Canceled", err)
	}
}
