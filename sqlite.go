package strata

import (
	"bytes"
	"context"
	"database/sql"

	"github.com/bobg/sqlutil"
	"github.com/pkg/errors"

	// sqlite driver
	_ "github.com/mattn/go-sqlite3"
)

var sqliteMigrations = []string{
	`CREATE TABLE entries (key BLOB NOT NULL PRIMARY KEY, value BLOB NOT NULL) WITHOUT ROWID`,
}

var errStop = errors.New("stop")

// SQLiteDB is a persistent database backed by a sqlite file.
type SQLiteDB struct {
	db *sql.DB
}

// OpenSQLite will open or create the sqlite database at the specified path.
func OpenSQLite(path string) (*SQLiteDB, error) {
	// check path
	if path == "" {
		panic("strata: missing path")
	}

	// open db
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}

	// use a single connection
	db.SetMaxOpenConns(1)

	// prepare migrations
	ctx := context.Background()
	_, err = db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS migrations (hash BLOB NOT NULL PRIMARY KEY)`)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating migrations table")
	}

	// run migrations
	err = sqlutil.Migrate(ctx, db, sqliteMigrations)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "migrating schema")
	}

	return &SQLiteDB{db: db}, nil
}

// View implements the DB interface.
func (d *SQLiteDB) View(fn func(Reader) error) error {
	// begin transaction
	ctx := context.Background()
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning view")
	}
	defer tx.Rollback()

	return fn(&sqliteReader{ctx: ctx, tx: tx})
}

// Apply implements the DB interface.
func (d *SQLiteDB) Apply(batch *Batch) error {
	// begin transaction
	ctx := context.Background()
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning update")
	}
	defer tx.Rollback()

	// apply mutations
	for _, m := range batch.mutations {
		if m.Delete {
			_, err = tx.ExecContext(ctx, `DELETE FROM entries WHERE key = $1`, m.Key)
		} else {
			_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO entries (key, value) VALUES ($1, $2)`, m.Key, m.Value)
		}
		if err != nil {
			return errors.Wrap(err, "applying mutation")
		}
	}

	return errors.Wrap(tx.Commit(), "committing update")
}

// Close implements the DB interface.
func (d *SQLiteDB) Close() error {
	return d.db.Close()
}

type sqliteReader struct {
	ctx context.Context
	tx  *sql.Tx
}

func (r *sqliteReader) Get(key []byte) ([]byte, bool, error) {
	// query value
	var value []byte
	err := r.tx.QueryRowContext(r.ctx, `SELECT value FROM entries WHERE key = $1`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	} else if err != nil {
		return nil, false, errors.Wrap(err, "querying entry")
	}

	// normalize empty values
	if value == nil {
		value = []byte{}
	}

	return value, true, nil
}

func (r *sqliteReader) Contains(key []byte) (bool, error) {
	// count rows
	var n int
	err := r.tx.QueryRowContext(r.ctx, `SELECT COUNT(*) FROM entries WHERE key = $1`, key).Scan(&n)
	if err != nil {
		return false, errors.Wrap(err, "counting entry")
	}

	return n > 0, nil
}

func (r *sqliteReader) Keys(prefix, start []byte, fn func([]byte) bool) error {
	// collect keys, the rows must be closed before fn may query again
	var keys [][]byte
	err := sqlutil.ForQueryRows(r.ctx, r.tx, `SELECT key FROM entries WHERE key >= $1 ORDER BY key`, lowerBound(prefix, start), func(key []byte) error {
		if !bytes.HasPrefix(key, prefix) {
			return errStop
		}
		keys = append(keys, key)
		return nil
	})
	if err != nil && err != errStop {
		return errors.Wrap(err, "listing keys")
	}

	// yield keys
	for _, key := range keys {
		if !fn(key) {
			break
		}
	}

	return nil
}
