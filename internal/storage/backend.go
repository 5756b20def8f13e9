package storage

import (
	"bytes"
	"errors"
	"sort"
)

var ErrStoreClosed = errors.New("store is closed")

// Op is one write of a committed call. Delete ignores Value.
type Op struct {
	Key    []byte
	Value  []byte
	Delete bool
}

// Entry is a stored key/value pair as it appears in snapshots.
type Entry struct {
	Key   []byte `json:"key"`
	Value []byte `json:"value"`
}

// Backend is the durable key-value state of the host. Apply must be atomic:
// either every op of the batch becomes visible or none does.
type Backend interface {
	Load(key []byte) ([]byte, bool, error)
	Apply(ops []Op) error
	Close() error
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func sortOps(ops []Op) {
	sort.Slice(ops, func(i, j int) bool {
		return bytes.Compare(ops[i].Key, ops[j].Key) < 0
	})
}
