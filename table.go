package strata

// Table manages a prefixed key space of a database.
type Table struct {
	prefix []byte
}

// NewTable creates a table with keys of the form "prefix:name:key".
func NewTable(prefix, name string) Table {
	return Table{
		prefix: []byte(prefix + ":" + name + ":"),
	}
}

// Get will read the value of the key.
func (t Table) Get(r Reader, key []byte) ([]byte, bool, error) {
	return r.Get(t.makeKey(key))
}

// Contains returns whether the key exists.
func (t Table) Contains(r Reader, key []byte) (bool, error) {
	return r.Contains(t.makeKey(key))
}

// Set will add a write of the key to the batch.
func (t Table) Set(b *Batch, key, value []byte) {
	b.Insert(t.makeKey(key), value)
}

// Delete will add a removal of the key to the batch.
func (t Table) Delete(b *Batch, key []byte) {
	b.Remove(t.makeKey(key))
}

// Each calls fn with every key of the table that is equal to or after start,
// without the table prefix, until fn returns false.
func (t Table) Each(r Reader, start []byte, fn func(key []byte) bool) error {
	var from []byte
	if start != nil {
		from = t.makeKey(start)
	}

	return r.Keys(t.prefix, from, func(key []byte) bool {
		return fn(key[len(t.prefix):])
	})
}

// Count will return the number of stored keys.
func (t Table) Count(r Reader) (int, error) {
	// prepare counter
	var count int

	// iterate over all keys
	err := r.Keys(t.prefix, nil, func([]byte) bool {
		count++
		return true
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Key returns the full database key.
func (t Table) Key(key []byte) []byte {
	return t.makeKey(key)
}

func (t Table) makeKey(key []byte) []byte {
	b := make([]byte, 0, len(t.prefix)+len(key))
	return append(append(b, t.prefix...), key...)
}
