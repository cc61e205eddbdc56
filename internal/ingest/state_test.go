package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStateStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	store, err := NewFileStateStore(path)
	if err != nil {
		t.Fatalf("NewFileStateStore returned error: %v", err)
	}

	if _, found, err := store.Load(ctx); err != nil || found {
		t.Fatalf("Load before save = (found=%v, err=%v), want (false, nil)", found, err)
	}

	if err := store.Save(ctx, 12345); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	block, found, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !found || block != 12345 {
		t.Fatalf("Load = (%d, %v), want (12345, true)", block, found)
	}

	if err := store.Save(ctx, 12400); err != nil {
		t.Fatalf("second Save returned error: %v", err)
	}
	block, _, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("Load after overwrite returned error: %v", err)
	}
	if block != 12400 {
		t.Fatalf("Load after overwrite = %d, want 12400", block)
	}
}

func TestFileStateStoreRejectsDirectory(t *testing.T) {
	if _, err := NewFileStateStore(t.TempDir()); err == nil {
		t.Fatalf("NewFileStateStore(dir) succeeded, want error")
	}
	if _, err := NewFileStateStore(""); err == nil {
		t.Fatalf("NewFileStateStore(\"\") succeeded, want error")
	}
}

func TestFileStateStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	store, err := NewFileStateStore(path)
	if err != nil {
		t.Fatalf("NewFileStateStore returned error: %v", err)
	}
	if _, _, err := store.Load(context.Background()); err == nil {
		t.Fatalf("Load of corrupt file succeeded, want error")
	}
}
