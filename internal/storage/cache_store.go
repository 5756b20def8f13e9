package storage

import "errors"

type cachedWrite struct {
	value   []byte
	deleted bool
}

// CacheStore buffers the writes of one call on top of a Backend. The contract
// sees its own writes immediately; the backend sees them only on Commit.
// Discard drops everything, which is how a failed call leaves no trace.
//
// CacheStore implements the contract's storage handle, whose Get cannot
// report errors. A backend read failure is remembered instead: Get returns
// nil, Err reports the failure and Commit refuses to apply.
type CacheStore struct {
	backend Backend
	writes  map[string]cachedWrite
	err     error
}

func NewCacheStore(backend Backend) *CacheStore {
	return &CacheStore{
		backend: backend,
		writes:  make(map[string]cachedWrite),
	}
}

func (c *CacheStore) Get(key []byte) []byte {
	if w, ok := c.writes[string(key)]; ok {
		if w.deleted {
			return nil
		}
		return cloneBytes(w.value)
	}
	v, ok, err := c.backend.Load(key)
	if err != nil {
		if c.err == nil {
			c.err = err
		}
		return nil
	}
	if !ok {
		return nil
	}
	if v == nil {
		return []byte{}
	}
	return v
}

func (c *CacheStore) Set(key, value []byte) {
	stored := cloneBytes(value)
	if stored == nil {
		stored = []byte{}
	}
	c.writes[string(key)] = cachedWrite{value: stored}
}

func (c *CacheStore) Delete(key []byte) {
	c.writes[string(key)] = cachedWrite{deleted: true}
}

// Err reports the first backend read failure seen through Get.
func (c *CacheStore) Err() error {
	return c.err
}

// Ops returns the buffered writes ordered by key.
func (c *CacheStore) Ops() []Op {
	ops := make([]Op, 0, len(c.writes))
	for k, w := range c.writes {
		ops = append(ops, Op{Key: []byte(k), Value: cloneBytes(w.value), Delete: w.deleted})
	}
	sortOps(ops)
	return ops
}

func (c *CacheStore) Commit() error {
	if c.err != nil {
		return errors.Join(errors.New("refusing to commit after a failed read"), c.err)
	}
	if len(c.writes) == 0 {
		return nil
	}
	if err := c.backend.Apply(c.Ops()); err != nil {
		return err
	}
	c.writes = make(map[string]cachedWrite)
	return nil
}

func (c *CacheStore) Discard() {
	c.writes = make(map[string]cachedWrite)
	c.err = nil
}
