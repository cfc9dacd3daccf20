package strata

import (
	"github.com/bobg/multichan"
	"github.com/sirupsen/logrus"
	"gopkg.in/tomb.v2"
)

// ReaderConfig is used to configure a reader.
type ReaderConfig struct {
	// The start sequence of the reader.
	Start uint64

	// The channel on which entries are sent.
	Entries chan<- Entry

	// The channel on which errors are sent.
	Errors chan<- error

	// The amount of entries to fetch from the store at once, defaults to 100.
	Batch int

	// The logger, defaults to the standard logger.
	Logger logrus.FieldLogger
}

// Reader streams entries of the commit log of a store.
type Reader struct {
	store  *Store
	config ReaderConfig
	tomb   tomb.Tomb
}

// NewReader will create and return a new reader.
func NewReader(store *Store, config ReaderConfig) *Reader {
	// check store and entries
	if store == nil {
		panic("strata: missing store")
	} else if config.Entries == nil {
		panic("strata: missing entries channel")
	}

	// set defaults
	if config.Batch <= 0 {
		config.Batch = 100
	}
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}

	// prepare reader
	r := &Reader{
		store:  store,
		config: config,
	}

	// subscribe before the worker starts so no commit is missed
	sub := store.subscribe()

	// run worker
	r.tomb.Go(func() error {
		return r.worker(sub)
	})

	return r
}

// Close will close the reader.
func (r *Reader) Close() {
	r.tomb.Kill(nil)
	_ = r.tomb.Wait()
}

// Done returns a channel that is closed when the reader stopped.
func (r *Reader) Done() <-chan struct{} {
	return r.tomb.Dead()
}

func (r *Reader) worker(sub *multichan.R) error {
	// get context that is cancelled when the reader is closed
	ctx := r.tomb.Context(nil)

	// set initial position
	position := r.config.Start

	for {
		// drop queued wakeups, the read below covers them
		drain(sub)

		// read entries
		entries, err := r.store.Read(position, r.config.Batch)
		if err != nil {
			r.config.Logger.WithError(err).WithField("position", position).Error("failed to read entries")

			select {
			case r.config.Errors <- err:
			default:
			}

			return err
		}

		// wait for a commit if there are no new entries
		if len(entries) == 0 {
			_, ok := sub.Read(ctx)
			if !ok {
				return nil
			}

			continue
		}

		// put entries on channel
		for _, entry := range entries {
			select {
			case r.config.Entries <- entry:
				position = entry.Sequence + 1
			case <-r.tomb.Dying():
				return tomb.ErrDying
			}
		}
	}
}

func drain(sub *multichan.R) int {
	var n int
	for {
		_, ok := sub.NBRead()
		if !ok {
			return n
		}
		n++
	}
}
