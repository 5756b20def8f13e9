package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"counter-contract/go-backend/internal/securestore"
	"counter-contract/go-backend/internal/testutil/fsperm"
)

func TestSnapshotStoreBootstrapCreatesFileWhenMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	path := filepath.Join(dir, "state.enc")
	store := NewSnapshotStore()
	store.Configure(path, "test-secret", "counter-local")

	if err := store.Bootstrap(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if _, ok, err := store.Load([]byte("state")); err != nil || ok {
		t.Fatalf("expected empty state, ok=%v err=%v", ok, err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected snapshot file to be created, err=%v", err)
	}
	fsperm.AssertPrivateDirPerm(t, dir)
	fsperm.AssertPrivateFilePerm(t, path)
}

func TestSnapshotStorePersistAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.enc")
	store := NewSnapshotStore()
	store.Configure(path, "test-secret", "counter-local")
	if err := store.Bootstrap(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	err := store.Apply([]Op{
		{Key: []byte("state"), Value: []byte(`{"count":17}`)},
		{Key: []byte("\x00\x07membersmem-0001"), Value: []byte(`{"name":"Katherine Tey"}`)},
	})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if err := store.Apply([]Op{{Key: []byte("\x00\x07membersmem-0001"), Delete: true}}); err != nil {
		t.Fatalf("apply delete failed: %v", err)
	}

	reloaded := NewSnapshotStore()
	reloaded.Configure(path, "test-secret", "counter-local")
	if err := reloaded.Bootstrap(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	v, ok, err := reloaded.Load([]byte("state"))
	if err != nil || !ok || string(v) != `{"count":17}` {
		t.Fatalf("unexpected state after reload: %q ok=%v err=%v", v, ok, err)
	}
	if _, ok, _ := reloaded.Load([]byte("\x00\x07membersmem-0001")); ok {
		t.Fatal("expected deleted member to stay deleted after reload")
	}
}

func TestSnapshotStoreRejectsForeignChainSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.enc")
	store := NewSnapshotStore()
	store.Configure(path, "test-secret", "chain-a")
	if err := store.Bootstrap(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	other := NewSnapshotStore()
	other.Configure(path, "test-secret", "chain-b")
	if err := other.Bootstrap(); !errors.Is(err, securestore.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}

func TestSnapshotStoreRollsBackMemoryWhenPersistFails(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatalf("write blocker failed: %v", err)
	}
	store := NewSnapshotStore()
	// The parent of the snapshot path is a regular file, so every write fails.
	store.Configure(filepath.Join(blocker, "state.enc"), "test-secret", "counter-local")

	if err := store.Apply([]Op{{Key: []byte("state"), Value: []byte("v")}}); err == nil {
		t.Fatal("expected persist failure")
	}
	if _, ok, _ := store.Load([]byte("state")); ok {
		t.Fatal("expected memory to be rolled back")
	}
}

func TestSnapshotStoreUnconfiguredIsMemoryOnly(t *testing.T) {
	store := NewSnapshotStore()
	if err := store.Bootstrap(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if err := store.Apply([]Op{{Key: []byte("k"), Value: []byte("v")}}); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if v, ok, _ := store.Load([]byte("k")); !ok || string(v) != "v" {
		t.Fatalf("expected in-memory value, got %q ok=%v", v, ok)
	}
}
