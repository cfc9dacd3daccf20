package strata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDB(t *testing.T) {
	eachBackend(t, func(t *testing.T, db DB) {
		// insert

		batch := &Batch{}
		batch.Insert([]byte("a:2"), []byte("two"))
		batch.Insert([]byte("a:1"), []byte("one"))
		batch.Insert([]byte("a:3"), nil)
		batch.Insert([]byte("b:1"), []byte("other"))
		assert.Equal(t, 4, batch.Len())

		err := db.Apply(batch)
		assert.NoError(t, err)

		// get

		err = db.View(func(r Reader) error {
			value, ok, err := r.Get([]byte("a:1"))
			assert.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, []byte("one"), value)

			value, ok, err = r.Get([]byte("a:3"))
			assert.NoError(t, err)
			assert.True(t, ok)
			assert.Empty(t, value)

			value, ok, err = r.Get([]byte("a:4"))
			assert.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, value)

			ok, err = r.Contains([]byte("b:1"))
			assert.NoError(t, err)
			assert.True(t, ok)

			ok, err = r.Contains([]byte("b:2"))
			assert.NoError(t, err)
			assert.False(t, ok)

			return nil
		})
		assert.NoError(t, err)

		// keys

		err = db.View(func(r Reader) error {
			var keys []string
			err := r.Keys([]byte("a:"), nil, func(key []byte) bool {
				keys = append(keys, string(key))
				return true
			})
			assert.NoError(t, err)
			assert.Equal(t, []string{"a:1", "a:2", "a:3"}, keys)

			keys = nil
			err = r.Keys([]byte("a:"), []byte("a:2"), func(key []byte) bool {
				keys = append(keys, string(key))
				return true
			})
			assert.NoError(t, err)
			assert.Equal(t, []string{"a:2", "a:3"}, keys)

			keys = nil
			err = r.Keys([]byte("a:"), nil, func(key []byte) bool {
				keys = append(keys, string(key))
				return false
			})
			assert.NoError(t, err)
			assert.Equal(t, []string{"a:1"}, keys)

			return nil
		})
		assert.NoError(t, err)

		// remove

		batch = &Batch{}
		batch.Remove([]byte("a:2"))
		batch.Insert([]byte("a:1"), []byte("uno"))

		err = db.Apply(batch)
		assert.NoError(t, err)

		err = db.View(func(r Reader) error {
			ok, err := r.Contains([]byte("a:2"))
			assert.NoError(t, err)
			assert.False(t, ok)

			value, _, err := r.Get([]byte("a:1"))
			assert.NoError(t, err)
			assert.Equal(t, []byte("uno"), value)

			return nil
		})
		assert.NoError(t, err)
	})
}

func TestUpperBound(t *testing.T) {
	assert.Equal(t, []byte("b"), upperBound([]byte("a")))
	assert.Equal(t, []byte("b"), upperBound([]byte{'a', 0xff}))
	assert.Nil(t, upperBound([]byte{0xff}))
}

func TestOpenDB(t *testing.T) {
	db, err := OpenDB(t.TempDir(), DBConfig{Sync: true})
	assert.NoError(t, err)

	err = db.Close()
	assert.NoError(t, err)
}
