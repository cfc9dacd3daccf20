package strata

import (
	"bytes"
	"os"

	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"
)

// Reader provides consistent read access to a database.
type Reader interface {
	// Get returns the value of the key.
	Get(key []byte) ([]byte, bool, error)

	// Contains returns whether the key exists.
	Contains(key []byte) (bool, error)

	// Keys calls fn for every key with the prefix that is equal to or after
	// start in ascending order until fn returns false. A nil start begins at
	// the prefix. The keys may be retained.
	Keys(prefix, start []byte, fn func(key []byte) bool) error
}

// DB is a generic key-value database.
type DB interface {
	// View calls fn with a reader that observes a consistent state that
	// includes either all or none of the mutations of every applied batch.
	// The reader must not be used after fn returns.
	View(fn func(Reader) error) error

	// Apply atomically applies all mutations of the batch.
	Apply(batch *Batch) error

	// Close closes the database.
	Close() error
}

// Mutation is a single change of a batch.
type Mutation struct {
	Key    []byte
	Value  []byte
	Delete bool
}

// Batch collects mutations that are applied as one unit.
type Batch struct {
	mutations []Mutation
}

// Insert sets the key to the value.
func (b *Batch) Insert(key, value []byte) {
	if value == nil {
		value = []byte{}
	}

	b.mutations = append(b.mutations, Mutation{
		Key:   key,
		Value: value,
	})
}

// Remove deletes the key.
func (b *Batch) Remove(key []byte) {
	b.mutations = append(b.mutations, Mutation{
		Key:    key,
		Delete: true,
	})
}

// Len returns the number of mutations.
func (b *Batch) Len() int {
	return len(b.mutations)
}

// Mutations returns the mutations in insertion order.
func (b *Batch) Mutations() []Mutation {
	return b.mutations
}

// DBConfig is used to configure a pebble database.
type DBConfig struct {
	// Whether applied batches are synced to disk.
	Sync bool
}

// PebbleDB is a persistent database backed by pebble.
type PebbleDB struct {
	db   *pebble.DB
	opts *pebble.WriteOptions
}

// OpenDB will open or create the specified db.
func OpenDB(directory string, config DBConfig) (*PebbleDB, error) {
	// check directory
	if directory == "" {
		panic("strata: missing directory")
	}

	// ensure directory
	err := os.MkdirAll(directory, 0777)
	if err != nil {
		return nil, err
	}

	// open db
	db, err := pebble.Open(directory, nil)
	if err != nil {
		return nil, err
	}

	// select write options
	opts := pebble.NoSync
	if config.Sync {
		opts = pebble.Sync
	}

	return &PebbleDB{
		db:   db,
		opts: opts,
	}, nil
}

// View implements the DB interface.
func (d *PebbleDB) View(fn func(Reader) error) error {
	// acquire snapshot
	snap := d.db.NewSnapshot()
	defer snap.Close()

	return fn(&pebbleReader{snap: snap})
}

// Apply implements the DB interface.
func (d *PebbleDB) Apply(batch *Batch) error {
	// prepare batch
	b := d.db.NewBatch()
	defer b.Close()

	// add mutations
	for _, m := range batch.mutations {
		var err error
		if m.Delete {
			err = b.Delete(m.Key, nil)
		} else {
			err = b.Set(m.Key, m.Value, nil)
		}
		if err != nil {
			return err
		}
	}

	return b.Commit(d.opts)
}

// Close implements the DB interface.
func (d *PebbleDB) Close() error {
	return d.db.Close()
}

type pebbleReader struct {
	snap *pebble.Snapshot
}

func (r *pebbleReader) Get(key []byte) ([]byte, bool, error) {
	// get value
	value, closer, err := r.snap.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}

	// copy value
	out := append([]byte{}, value...)

	return out, true, closer.Close()
}

func (r *pebbleReader) Contains(key []byte) (bool, error) {
	_, ok, err := r.Get(key)
	return ok, err
}

func (r *pebbleReader) Keys(prefix, start []byte, fn func([]byte) bool) error {
	// prepare iterator
	iter, err := r.snap.NewIter(&pebble.IterOptions{
		LowerBound: lowerBound(prefix, start),
		UpperBound: upperBound(prefix),
	})
	if err != nil {
		return err
	}

	// iterate keys
	for iter.First(); iter.Valid(); iter.Next() {
		if !fn(append([]byte(nil), iter.Key()...)) {
			break
		}
	}

	return iter.Close()
}

func lowerBound(prefix, start []byte) []byte {
	if start != nil && bytes.Compare(start, prefix) > 0 {
		return start
	}

	return prefix
}

func upperBound(prefix []byte) []byte {
	// increment last byte that is not 0xff
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}

	return nil
}
