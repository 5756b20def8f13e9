package storage

import (
	"bytes"
	"sort"
	"sync"
)

// MemoryStore keeps the whole state in a map. Values are copied on the way in
// and out so callers never share buffers with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (s *MemoryStore) Load(key []byte) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[string(key)]
	if !ok {
		return nil, false, nil
	}
	return cloneBytes(v), true, nil
}

func (s *MemoryStore) Apply(ops []Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, op := range ops {
		if op.Delete {
			delete(s.entries, string(op.Key))
			continue
		}
		value := cloneBytes(op.Value)
		if value == nil {
			value = []byte{}
		}
		s.entries[string(op.Key)] = value
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// Entries returns a copy of the state ordered by key.
func (s *MemoryStore) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.entries))
	for k, v := range s.entries {
		out = append(out, Entry{Key: []byte(k), Value: cloneBytes(v)})
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].Key, out[j].Key) < 0
	})
	return out
}

// Replace swaps the whole state for entries.
func (s *MemoryStore) Replace(entries []Entry) {
	next := make(map[string][]byte, len(entries))
	for _, e := range entries {
		value := cloneBytes(e.Value)
		if value == nil {
			value = []byte{}
		}
		next[string(e.Key)] = value
	}
	s.mu.Lock()
	s.entries = next
	s.mu.Unlock()
}
