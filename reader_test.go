package strata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader(t *testing.T) {
	store := openStore(t, NewMemoryDB())

	for i := 1; i <= 100; i++ {
		err := store.Insert(numbered(t, i))
		require.NoError(t, err)
	}

	counter := 0
	entries := make(chan Entry, 1)
	errs := make(chan error, 1)

	config := ReaderConfig{
		Start:   0,
		Entries: entries,
		Errors:  errs,
		Batch:   10,
	}

	reader := NewReader(store, config)

	for {
		counter++

		entry := <-entries
		assert.Equal(t, uint64(counter), entry.Sequence)
		assert.NotNil(t, entry.Transaction)

		if counter == 50 {
			config.Start = entry.Sequence + 1
			break
		}
	}

	reader.Close()
	assert.Empty(t, errs)

	entries = make(chan Entry, 10)
	config.Entries = entries

	reader = NewReader(store, config)

	for {
		counter++

		entry := <-entries
		assert.Equal(t, uint64(counter), entry.Sequence)

		if counter == 100 {
			break
		}
	}

	// live entry

	tx := numbered(t, 101)
	err := store.Insert(tx)
	require.NoError(t, err)

	select {
	case entry := <-entries:
		assert.Equal(t, uint64(101), entry.Sequence)
		assert.Equal(t, tx.ID(), entry.Transaction.ID())
	case <-time.After(5 * time.Second):
		t.Fatal("missing live entry")
	}

	reader.Close()
	assert.Empty(t, errs)
}

func TestReaderStoreClose(t *testing.T) {
	store, err := CreateStore(NewMemoryDB(), StoreConfig{})
	require.NoError(t, err)

	reader := NewReader(store, ReaderConfig{
		Entries: make(chan Entry, 1),
	})

	store.Close()

	select {
	case <-reader.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("reader did not stop")
	}
}

func TestReaderBurst(t *testing.T) {
	store := openStore(t, NewMemoryDB())

	sub := store.subscribe()
	for i := 1; i <= 20; i++ {
		err := store.Insert(numbered(t, i))
		require.NoError(t, err)
	}
	assert.Equal(t, 20, drain(sub))
	assert.Equal(t, 0, drain(sub))

	entries := make(chan Entry, 100)
	reader := NewReader(store, ReaderConfig{
		Start:   1,
		Entries: entries,
	})
	defer reader.Close()

	// burst while the reader is caught up
	for i := 21; i <= 40; i++ {
		err := store.Insert(numbered(t, i))
		require.NoError(t, err)
	}

	for i := 1; i <= 40; i++ {
		select {
		case entry := <-entries:
			assert.Equal(t, uint64(i), entry.Sequence)
		case <-time.After(5 * time.Second):
			t.Fatalf("missing entry %d", i)
		}
	}

	// wakes up after a drained backlog
	err := store.Insert(numbered(t, 41))
	require.NoError(t, err)

	select {
	case entry := <-entries:
		assert.Equal(t, uint64(41), entry.Sequence)
	case <-time.After(5 * time.Second):
		t.Fatal("missing live entry")
	}
}
