package strata

import (
	"bytes"
	"sort"
	"sync"
)

// MemoryDB is a volatile database backed by a map.
type MemoryDB struct {
	data  map[string][]byte
	mutex sync.RWMutex
}

// NewMemoryDB creates and returns a new memory database.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		data: map[string][]byte{},
	}
}

// View implements the DB interface. Applying a batch from within fn will
// deadlock.
func (d *MemoryDB) View(fn func(Reader) error) error {
	// acquire read lock
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	return fn(memoryReader{db: d})
}

// Apply implements the DB interface.
func (d *MemoryDB) Apply(batch *Batch) error {
	// acquire write lock
	d.mutex.Lock()
	defer d.mutex.Unlock()

	// apply mutations
	for _, m := range batch.mutations {
		if m.Delete {
			delete(d.data, string(m.Key))
		} else {
			d.data[string(m.Key)] = append([]byte{}, m.Value...)
		}
	}

	return nil
}

// Close implements the DB interface.
func (d *MemoryDB) Close() error {
	return nil
}

type memoryReader struct {
	db *MemoryDB
}

func (r memoryReader) Get(key []byte) ([]byte, bool, error) {
	value, ok := r.db.data[string(key)]
	if !ok {
		return nil, false, nil
	}

	return append([]byte{}, value...), true, nil
}

func (r memoryReader) Contains(key []byte) (bool, error) {
	_, ok := r.db.data[string(key)]
	return ok, nil
}

func (r memoryReader) Keys(prefix, start []byte, fn func([]byte) bool) error {
	// collect keys
	lower := lowerBound(prefix, start)
	var keys []string
	for key := range r.db.data {
		if bytes.HasPrefix([]byte(key), prefix) && key >= string(lower) {
			keys = append(keys, key)
		}
	}

	// sort keys
	sort.Strings(keys)

	// yield keys
	for _, key := range keys {
		if !fn([]byte(key)) {
			break
		}
	}

	return nil
}
