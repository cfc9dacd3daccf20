package strata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable(t *testing.T) {
	db := NewMemoryDB()
	table := NewTable("test", "table")
	other := NewTable("test", "other")

	// set

	batch := &Batch{}
	table.Set(batch, []byte("foo"), []byte("1"))
	table.Set(batch, []byte("bar"), []byte("2"))
	other.Set(batch, []byte("baz"), []byte("3"))

	err := db.Apply(batch)
	assert.NoError(t, err)

	err = db.View(func(r Reader) error {
		value, ok, err := table.Get(r, []byte("foo"))
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("1"), value)

		ok, err = table.Contains(r, []byte("baz"))
		assert.NoError(t, err)
		assert.False(t, ok)

		n, err := table.Count(r)
		assert.NoError(t, err)
		assert.Equal(t, 2, n)

		var keys []string
		err = table.Each(r, nil, func(key []byte) bool {
			keys = append(keys, string(key))
			return true
		})
		assert.NoError(t, err)
		assert.Equal(t, []string{"bar", "foo"}, keys)

		keys = nil
		err = table.Each(r, []byte("c"), func(key []byte) bool {
			keys = append(keys, string(key))
			return true
		})
		assert.NoError(t, err)
		assert.Equal(t, []string{"foo"}, keys)

		return nil
	})
	assert.NoError(t, err)

	// delete

	batch = &Batch{}
	table.Delete(batch, []byte("foo"))

	err = db.Apply(batch)
	assert.NoError(t, err)

	err = db.View(func(r Reader) error {
		n, err := table.Count(r)
		assert.NoError(t, err)
		assert.Equal(t, 1, n)

		n, err = other.Count(r)
		assert.NoError(t, err)
		assert.Equal(t, 1, n)

		return nil
	})
	assert.NoError(t, err)

	assert.Equal(t, []byte("test:table:foo"), table.Key([]byte("foo")))
}
