package persist

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"pkt.systems/pslog"
)

func TestFileStoreLoadMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "alice")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	_, ok, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatalf("expected missing snapshot")
	}
}

func TestFileStoreSaveLoadClear(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "alice")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()
	if err := store.Save(ctx, `{"version":1}`); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := store.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got != `{"version":1}` {
		t.Fatalf("unexpected data: %q", got)
	}
	info, err := os.Stat(filepath.Join(dir, "alice.json"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600, got %v", perm)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, err := store.Load(ctx); err != nil || ok {
		t.Fatalf("expected cleared store, ok=%v err=%v", ok, err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear twice: %v", err)
	}
}

func TestFileStoreSanitizesKey(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "../evil key")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if filepath.Dir(store.Path()) != dir {
		t.Fatalf("store path escaped dir: %s", store.Path())
	}
	if filepath.Base(store.Path()) != ".._evil_key.json" {
		t.Fatalf("unexpected file name: %s", filepath.Base(store.Path()))
	}
}

func TestFileStoreRequiresDir(t *testing.T) {
	if _, err := NewFileStore("  ", "alice"); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	if _, ok, _ := store.Load(ctx); ok {
		t.Fatalf("expected empty store")
	}
	if err := store.Save(ctx, "x"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if data, ok, _ := store.Load(ctx); !ok || data != "x" {
		t.Fatalf("unexpected load: %q %v", data, ok)
	}
	if store.Saves() != 1 {
		t.Fatalf("expected one save, got %d", store.Saves())
	}
	_ = store.Clear(ctx)
	if _, ok, _ := store.Load(ctx); ok {
		t.Fatalf("expected cleared store")
	}
}

func TestFileStoreSaveFailureLeavesReportingToCaller(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	var logs bytes.Buffer
	logger := pslog.NewWithOptions(&logs, pslog.Options{
		Mode:     pslog.ModeStructured,
		NoColor:  true,
		MinLevel: pslog.InfoLevel,
	})
	store, err := NewFileStoreWithLogger(dir, "alice", logger)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("remove dir: %v", err)
	}
	if err := os.WriteFile(dir, []byte("not a directory"), 0o600); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	if err := store.Save(context.Background(), `{"version":1}`); err == nil {
		t.Fatalf("expected save error")
	}
	if logs.Len() != 0 {
		t.Fatalf("expected no info-or-above store logs, got %s", logs.String())
	}
}
