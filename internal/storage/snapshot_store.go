package storage

import (
	"encoding/json"
	"errors"
	"io/fs"
	"sync"

	"counter-contract/go-backend/internal/securestore"
)

const snapshotVersion = 1

var ErrInvalidSnapshot = errors.New("state snapshot payload is invalid")

// SnapshotStore is a MemoryStore that rewrites a sealed snapshot file after
// every applied batch. Without a configured path and secret it behaves like a
// plain MemoryStore.
type SnapshotStore struct {
	mu     sync.Mutex
	mem    *MemoryStore
	path   string
	secret string
	label  string
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{mem: NewMemoryStore()}
}

// Configure sets where snapshots live. label binds the file to one chain.
func (s *SnapshotStore) Configure(path, secret, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path, s.secret = securestore.NormalizeStorageConfig(path, secret)
	s.label = label
}

// Bootstrap loads the snapshot, creating an empty one when the file is missing.
func (s *SnapshotStore) Bootstrap() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !securestore.IsStorageConfigured(s.path, s.secret) {
		return nil
	}
	plaintext, err := securestore.ReadSealedFile(s.path, s.secret, s.label)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.mem.Replace(nil)
			return s.persistLocked()
		}
		return err
	}

	var snapshot persistedSnapshot
	if err := json.Unmarshal(plaintext, &snapshot); err != nil {
		return ErrInvalidSnapshot
	}
	if snapshot.Version != snapshotVersion {
		return ErrInvalidSnapshot
	}
	for _, e := range snapshot.Entries {
		if len(e.Key) == 0 {
			return ErrInvalidSnapshot
		}
	}
	s.mem.Replace(snapshot.Entries)
	return nil
}

func (s *SnapshotStore) Load(key []byte) ([]byte, bool, error) {
	return s.mem.Load(key)
}

// Apply updates memory and rewrites the snapshot. When the write fails the
// in-memory state is rolled back so memory and disk never diverge.
func (s *SnapshotStore) Apply(ops []Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous := s.mem.Entries()
	if err := s.mem.Apply(ops); err != nil {
		return err
	}
	if err := s.persistLocked(); err != nil {
		s.mem.Replace(previous)
		return err
	}
	return nil
}

func (s *SnapshotStore) Close() error {
	return nil
}

func (s *SnapshotStore) persistLocked() error {
	if !securestore.IsStorageConfigured(s.path, s.secret) {
		return nil
	}
	return securestore.WriteSealedJSON(s.path, s.secret, s.label, persistedSnapshot{
		Version: snapshotVersion,
		Entries: s.mem.Entries(),
	})
}

type persistedSnapshot struct {
	Version int     `json:"version"`
	Entries []Entry `json:"entries"`
}
