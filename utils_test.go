package strata

import (
	"io"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/256dpi/strata/plaintext"
)

func init() {
	logrus.SetOutput(io.Discard)
}

var backends = []struct {
	name string
	open func(t *testing.T) DB
}{
	{
		name: "memory",
		open: func(t *testing.T) DB {
			return NewMemoryDB()
		},
	},
	{
		name: "pebble",
		open: func(t *testing.T) DB {
			db, err := OpenDB(filepath.Join(t.TempDir(), "pebble"), DBConfig{})
			require.NoError(t, err)
			t.Cleanup(func() { _ = db.Close() })
			return db
		},
	},
	{
		name: "sqlite",
		open: func(t *testing.T) DB {
			db, err := OpenSQLite(filepath.Join(t.TempDir(), "strata.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = db.Close() })
			return db
		},
	},
}

func eachBackend(t *testing.T, fn func(t *testing.T, db DB)) {
	for _, backend := range backends {
		backend := backend
		t.Run(backend.name, func(t *testing.T) {
			fn(t, backend.open(t))
		})
	}
}

func openStore(t *testing.T, db DB) *Store {
	store, err := CreateStore(db, StoreConfig{})
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func field(s string) Field {
	return hashBytes("test", []byte(s))
}

func fields(list ...string) []Field {
	var out []Field
	for _, s := range list {
		out = append(out, field(s))
	}
	return out
}

func transition(t testing.TB, name string, sns, cms []string, origins ...Origin) *Transition {
	tr, err := NewTransition(Transition{
		Program:       plaintext.MustProgramID("token.aleo"),
		Function:      "transfer",
		SerialNumbers: fields(sns...),
		Commitments:   fields(cms...),
		Nonces:        fields("nonce-" + name),
		TPK:           field("tpk-" + name),
		Origins:       origins,
		Fee:           1,
	})
	require.NoError(t, err)
	return tr
}

func execute(t testing.TB, transitions ...*Transition) *Execute {
	tx, err := NewExecute(transitions, nil)
	require.NoError(t, err)
	return tx
}

func numbered(t testing.TB, i int) *Execute {
	n := strconv.Itoa(i)
	return execute(t, transition(t, "n"+n, []string{"s" + n}, []string{"c" + n}))
}

func deploy(t testing.TB, program string, functions ...string) *Deploy {
	return paidDeploy(t, program, nil, functions...)
}

func paidDeploy(t testing.TB, program string, fee *Transition, functions ...string) *Deploy {
	d := Deployment{
		Edition: 1,
		Program: Program{ID: plaintext.MustProgramID(program)},
	}
	for _, fn := range functions {
		d.Program.Functions = append(d.Program.Functions, plaintext.MustIdentifier(fn))
		d.VerifyingKeys = append(d.VerifyingKeys, VerifyingKey{
			Function: plaintext.MustIdentifier(fn),
			Key:      []byte("vk-" + fn),
		})
	}

	tx, err := NewDeploy(d, fee)
	require.NoError(t, err)
	return tx
}
