package strata

import (
	"encoding/hex"
	"sync"

	"github.com/bobg/multichan"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/256dpi/strata/plaintext"
)

// Entry is a committed transaction and its sequence in the commit log.
type Entry struct {
	Sequence    uint64
	Transaction Transaction
}

// StoreConfig is used to configure a store.
type StoreConfig struct {
	// The prefix of all keys, defaults to "strata".
	Prefix string

	// The logger, defaults to the standard logger.
	Logger logrus.FieldLogger
}

// Store indexes transactions and their transitions. Inserts are validated
// completely before any index is touched and are then applied as one atomic
// batch. Reads observe consistent snapshots and never take the commit lock.
type Store struct {
	db     DB
	logger logrus.FieldLogger

	transactions  Table
	programs      Table
	transitions   Table
	serialNumbers Table
	commitments   Table
	nonces        Table
	tpks          Table
	sequences     Table
	positions     Table
	meta          Table

	feed   *multichan.W
	commit sync.Mutex

	head   uint64
	length int
	mutex  sync.RWMutex
}

var headKey = []byte("head")

// CreateStore will create a store that keeps its indices in the provided db.
func CreateStore(db DB, config StoreConfig) (*Store, error) {
	// check db
	if db == nil {
		panic("strata: missing db")
	}

	// set defaults
	if config.Prefix == "" {
		config.Prefix = "strata"
	}
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}

	// create store
	s := &Store{
		db:            db,
		logger:        config.Logger,
		transactions:  NewTable(config.Prefix, "id"),
		programs:      NewTable(config.Prefix, "rid"),
		transitions:   NewTable(config.Prefix, "tr"),
		serialNumbers: NewTable(config.Prefix, "sn"),
		commitments:   NewTable(config.Prefix, "cm"),
		nonces:        NewTable(config.Prefix, "nc"),
		tpks:          NewTable(config.Prefix, "tpk"),
		sequences:     NewTable(config.Prefix, "seq"),
		positions:     NewTable(config.Prefix, "pos"),
		meta:          NewTable(config.Prefix, "meta"),
		feed:          multichan.New(uint64(0)),
	}

	// init store
	err := s.init()
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) init() error {
	return s.db.View(func(r Reader) error {
		// read head
		buf, ok, err := s.meta.Get(r, headKey)
		if err != nil {
			return err
		} else if ok {
			s.head, err = DecodeSequence(buf)
			if err != nil {
				return err
			}
		}

		// count entries
		s.length, err = s.positions.Count(r)

		return err
	})
}

// Insert validates and commits a single transaction.
func (s *Store) Insert(tx Transaction) error {
	return s.InsertBatch(tx)
}

// InsertBatch validates and commits the transactions as one unit. Either all
// or none of the transactions are committed. Origins may reference
// commitments produced by earlier transactions of the batch.
func (s *Store) InsertBatch(txs ...Transaction) error {
	// check transactions
	for _, tx := range txs {
		err := checkTransaction(tx)
		if err != nil {
			return err
		}
	}

	// skip empty batches
	if len(txs) == 0 {
		return nil
	}

	// acquire commit lock
	s.commit.Lock()
	defer s.commit.Unlock()

	// get head
	head := s.Head()

	// stage mutations
	batch := &Batch{}
	err := s.db.View(func(r Reader) error {
		st := &stage{
			reader:  r,
			batch:   batch,
			pending: map[string]bool{},
		}

		for i, tx := range txs {
			err := s.stage(st, tx, head+uint64(i)+1)
			if err != nil {
				return errors.WithMessagef(err, "transaction %s", tx.ID())
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	// update head
	head += uint64(len(txs))
	s.meta.Set(batch, headKey, EncodeSequence(head))

	// apply batch
	err = s.db.Apply(batch)
	if err != nil {
		return err
	}

	// update state
	s.mutex.Lock()
	s.head = head
	s.length += len(txs)
	s.mutex.Unlock()

	// log
	for i, tx := range txs {
		s.logger.WithFields(logrus.Fields{
			"transaction": tx.ID().String(),
			"kind":        tx.Kind().String(),
			"sequence":    head - uint64(len(txs)-1-i),
			"transitions": len(tx.All()),
		}).Debug("committed transaction")
	}

	// notify readers
	s.feed.Write(head)

	return nil
}

type stage struct {
	reader  Reader
	batch   *Batch
	pending map[string]bool
}

func (st *stage) exists(t Table, key []byte) (bool, error) {
	// check pending
	if st.pending[string(t.Key(key))] {
		return true, nil
	}

	return t.Contains(st.reader, key)
}

func (st *stage) claim(t Table, what string, key, value []byte) error {
	// check existence
	ok, err := st.exists(t, key)
	if err != nil {
		return err
	} else if ok {
		return errors.Wrapf(ErrDuplicateKey, "%s %x", what, key)
	}

	// stage write
	t.Set(st.batch, key, value)
	st.pending[string(t.Key(key))] = true

	return nil
}

func (s *Store) stage(st *stage, tx Transaction, seq uint64) error {
	// encode record
	id := tx.ID()
	record, err := marshal(newTransactionRecord(tx))
	if err != nil {
		return err
	}

	// claim transaction id
	err = st.claim(s.transactions, "transaction", id[:], record)
	if err != nil {
		return err
	}

	// claim program
	if deploy, ok := tx.(*Deploy); ok {
		err = st.claim(s.programs, "program", []byte(deploy.Program().String()), id[:])
		if err != nil {
			return err
		}
	}

	// stage transitions
	for _, t := range tx.All() {
		err = s.stageTransition(st, t)
		if err != nil {
			return errors.WithMessagef(err, "transition %s", t.ID)
		}
	}

	// stage commit log
	s.sequences.Set(st.batch, EncodeSequence(seq), id[:])
	s.positions.Set(st.batch, id[:], EncodeSequence(seq))

	return nil
}

func (s *Store) stageTransition(st *stage, t *Transition) error {
	// resolve origins
	for _, origin := range t.Origins {
		switch origin.Kind {
		case OriginCommitment:
			ok, err := st.exists(s.commitments, origin.Value[:])
			if err != nil {
				return err
			} else if !ok {
				return errors.Wrapf(ErrMissingReference, "origin commitment %s", origin.Value)
			}
		case OriginStateRoot:
			return errors.Wrapf(ErrUnsupportedOrigin, "origin %s %s", origin.Kind, origin.Value)
		default:
			return errors.Wrapf(ErrInvalidTransaction, "origin %s", origin.Kind)
		}
	}

	// encode record
	record, err := marshal(newTransitionRecord(t))
	if err != nil {
		return err
	}

	// claim transition
	err = st.claim(s.transitions, "transition", t.ID[:], record)
	if err != nil {
		return err
	}

	// claim unique keys
	for _, sn := range t.SerialNumbers {
		err = st.claim(s.serialNumbers, "serial number", sn[:], t.ID[:])
		if err != nil {
			return err
		}
	}
	for _, cm := range t.Commitments {
		err = st.claim(s.commitments, "commitment", cm[:], t.ID[:])
		if err != nil {
			return err
		}
	}
	for _, nc := range t.Nonces {
		err = st.claim(s.nonces, "nonce", nc[:], t.ID[:])
		if err != nil {
			return err
		}
	}

	return st.claim(s.tpks, "transition public key", t.TPK[:], t.ID[:])
}

// Remove deletes the transaction from every index.
func (s *Store) Remove(id TransactionID) error {
	// acquire commit lock
	s.commit.Lock()
	defer s.commit.Unlock()

	// stage removals
	batch := &Batch{}
	err := s.db.View(func(r Reader) error {
		// get record
		buf, ok, err := s.transactions.Get(r, id[:])
		if err != nil {
			return err
		} else if !ok {
			return errors.Wrapf(ErrNotFound, "transaction %s", id)
		}

		// decode record
		var record transactionRecord
		err = unmarshal(buf, &record)
		if err != nil {
			return err
		}

		// remove transaction
		s.transactions.Delete(batch, id[:])

		// remove program
		kind := TransactionKind(record.Kind)
		if kind == KindDeploy {
			if record.Deployment == nil {
				return errors.Wrap(ErrCorrupted, "missing deployment")
			}
			s.programs.Delete(batch, []byte(record.Deployment.Program))
		} else if kind != KindExecute {
			return errors.Wrapf(ErrCorrupted, "unknown transaction kind %d", record.Kind)
		}

		// collect transitions
		ids := append([][]byte(nil), record.Transitions...)
		if record.HasFee {
			ids = append(ids, record.Fee)
		}

		// remove transitions
		for _, tid := range ids {
			err = s.removeTransition(r, batch, tid)
			if err != nil {
				return err
			}
		}

		// remove commit log entry
		seq, ok, err := s.positions.Get(r, id[:])
		if err != nil {
			return err
		} else if ok {
			s.positions.Delete(batch, id[:])
			s.sequences.Delete(batch, seq)
		}

		return nil
	})
	if err != nil {
		return err
	}

	// apply batch
	err = s.db.Apply(batch)
	if err != nil {
		return err
	}

	// update length
	s.mutex.Lock()
	s.length--
	s.mutex.Unlock()

	// log
	s.logger.WithField("transaction", id.String()).Debug("removed transaction")

	return nil
}

func (s *Store) removeTransition(r Reader, batch *Batch, tid []byte) error {
	// get record
	buf, ok, err := s.transitions.Get(r, tid)
	if err != nil {
		return err
	} else if !ok {
		s.logger.WithField("transition", hex.EncodeToString(tid)).Error("missing transition")
		return errors.Wrapf(ErrMissingReference, "transition %x", tid)
	}

	// decode record
	var record transitionRecord
	err = unmarshal(buf, &record)
	if err != nil {
		return err
	}

	// remove transition and unique keys
	s.transitions.Delete(batch, tid)
	for _, sn := range record.SerialNumbers {
		s.serialNumbers.Delete(batch, sn)
	}
	for _, cm := range record.Commitments {
		s.commitments.Delete(batch, cm)
	}
	for _, nc := range record.Nonces {
		s.nonces.Delete(batch, nc)
	}
	s.tpks.Delete(batch, record.TPK)

	return nil
}

// GetTransaction returns the transaction with all of its transitions. It
// returns ErrMissingReference if a referenced transition is not stored, which
// indicates a corrupted store.
func (s *Store) GetTransaction(id TransactionID) (Transaction, error) {
	var tx Transaction
	err := s.db.View(func(r Reader) error {
		var err error
		tx, err = s.load(r, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Store) load(r Reader, id TransactionID) (Transaction, error) {
	// get record
	buf, ok, err := s.transactions.Get(r, id[:])
	if err != nil {
		return nil, err
	} else if !ok {
		return nil, errors.Wrapf(ErrNotFound, "transaction %s", id)
	}

	// decode record
	var record transactionRecord
	err = unmarshal(buf, &record)
	if err != nil {
		return nil, err
	}

	// join transitions
	tx, err := record.decode(func(tid TransitionID) (*Transition, error) {
		t, err := s.loadTransition(r, tid)
		if errors.Is(err, ErrNotFound) {
			s.logger.WithFields(logrus.Fields{
				"transaction": id.String(),
				"transition":  tid.String(),
			}).Error("missing transition")
			return nil, errors.Wrapf(ErrMissingReference, "transition %s of transaction %s", tid, id)
		}

		return t, err
	})
	if err != nil {
		return nil, err
	}

	return tx, nil
}

// GetTransition returns the transition.
func (s *Store) GetTransition(id TransitionID) (*Transition, error) {
	var t *Transition
	err := s.db.View(func(r Reader) error {
		var err error
		t, err = s.loadTransition(r, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Store) loadTransition(r Reader, id TransitionID) (*Transition, error) {
	// get record
	buf, ok, err := s.transitions.Get(r, id[:])
	if err != nil {
		return nil, err
	} else if !ok {
		return nil, errors.Wrapf(ErrNotFound, "transition %s", id)
	}

	// decode record
	var record transitionRecord
	err = unmarshal(buf, &record)
	if err != nil {
		return nil, err
	}

	return record.decode()
}

// ContainsTransactionID returns whether the transaction is stored.
func (s *Store) ContainsTransactionID(id TransactionID) (bool, error) {
	return s.contains(s.transactions, id[:])
}

// ContainsSerialNumber returns whether the serial number is stored.
func (s *Store) ContainsSerialNumber(sn Field) (bool, error) {
	return s.contains(s.serialNumbers, sn[:])
}

// ContainsCommitment returns whether the commitment is stored.
func (s *Store) ContainsCommitment(cm Field) (bool, error) {
	return s.contains(s.commitments, cm[:])
}

// ContainsNonce returns whether the nonce is stored.
func (s *Store) ContainsNonce(nonce Field) (bool, error) {
	return s.contains(s.nonces, nonce[:])
}

// ContainsTransitionPublicKey returns whether the transition public key is
// stored.
func (s *Store) ContainsTransitionPublicKey(tpk Field) (bool, error) {
	return s.contains(s.tpks, tpk[:])
}

// ContainsProgram returns whether the program has been deployed.
func (s *Store) ContainsProgram(program plaintext.ProgramID) (bool, error) {
	return s.contains(s.programs, []byte(program.String()))
}

func (s *Store) contains(t Table, key []byte) (bool, error) {
	var ok bool
	err := s.db.View(func(r Reader) error {
		var err error
		ok, err = t.Contains(r, key)
		return err
	})

	return ok, err
}

// FindTransactionID returns the ID of the transaction that deployed the
// program.
func (s *Store) FindTransactionID(program plaintext.ProgramID) (TransactionID, bool, error) {
	var id TransactionID
	var found bool
	err := s.db.View(func(r Reader) error {
		// get entry
		buf, ok, err := s.programs.Get(r, []byte(program.String()))
		if err != nil || !ok {
			return err
		}

		// decode ID
		f, err := toField(buf)
		if err != nil {
			return err
		}

		id = TransactionID(f)
		found = true

		return nil
	})
	if err != nil {
		return TransactionID{}, false, err
	}

	return id, found, nil
}

// TransactionIDs returns the IDs of all stored transactions in key order.
func (s *Store) TransactionIDs() ([]TransactionID, error) {
	var ids []TransactionID
	err := s.db.View(func(r Reader) error {
		var decodeErr error
		err := s.transactions.Each(r, nil, func(key []byte) bool {
			var f Field
			f, decodeErr = toField(key)
			if decodeErr != nil {
				return false
			}
			ids = append(ids, TransactionID(f))
			return true
		})
		if err != nil {
			return err
		}

		return decodeErr
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// Read will read committed entries from and including the specified sequence
// up to the requested amount of entries.
func (s *Store) Read(sequence uint64, amount int) ([]Entry, error) {
	// check amount
	if amount <= 0 {
		return []Entry{}, nil
	}

	var list []Entry
	err := s.db.View(func(r Reader) error {
		// collect sequences
		var keys [][]byte
		err := s.sequences.Each(r, EncodeSequence(sequence), func(key []byte) bool {
			keys = append(keys, key)
			return len(keys) < amount
		})
		if err != nil {
			return err
		}

		// load transactions
		list = make([]Entry, 0, len(keys))
		for _, key := range keys {
			// parse key
			seq, err := DecodeSequence(key)
			if err != nil {
				return err
			}

			// get transaction id
			buf, ok, err := s.sequences.Get(r, key)
			if err != nil {
				return err
			} else if !ok {
				return errors.Wrapf(ErrMissingReference, "sequence %d", seq)
			}
			f, err := toField(buf)
			if err != nil {
				return err
			}

			// load transaction
			tx, err := s.load(r, TransactionID(f))
			if err != nil {
				return err
			}

			// add entry
			list = append(list, Entry{
				Sequence:    seq,
				Transaction: tx,
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return list, nil
}

// Head will return the last committed sequence.
func (s *Store) Head() uint64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.head
}

// Length will return the number of stored transactions.
func (s *Store) Length() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.length
}

// Close will close the commit feed and stop all readers. The db is not
// closed.
func (s *Store) Close() {
	s.feed.Close()
}

func (s *Store) subscribe() *multichan.R {
	return s.feed.Reader()
}

func checkTransaction(tx Transaction) error {
	switch tx := tx.(type) {
	case *Deploy:
		// check nil
		if tx == nil {
			return errors.Wrap(ErrInvalidTransaction, "missing transaction")
		}

		// check deployment
		err := checkDeployment(tx.deployment)
		if err != nil {
			return err
		}

		// check fee
		err = checkTransitions(tx.All())
		if err != nil {
			return errors.WithMessagef(err, "deploy %s", tx.id)
		}

		// check ID
		id, err := tx.ComputeID()
		if err != nil {
			return err
		} else if id != tx.id {
			return errors.Wrapf(ErrInvalidTransaction, "deploy %s does not match content %s", tx.id, id)
		}
	case *Execute:
		// check nil
		if tx == nil {
			return errors.Wrap(ErrInvalidTransaction, "missing transaction")
		}

		// check transitions
		if len(tx.transitions) == 0 {
			return errors.Wrapf(ErrInvalidTransaction, "execute %s has no transitions", tx.id)
		}
		err := checkTransitions(tx.All())
		if err != nil {
			return errors.WithMessagef(err, "execute %s", tx.id)
		}

		// check ID
		id, err := tx.ComputeID()
		if err != nil {
			return err
		} else if id != tx.id {
			return errors.Wrapf(ErrInvalidTransaction, "execute %s does not match content %s", tx.id, id)
		}
	default:
		return errors.Wrap(ErrInvalidTransaction, "missing transaction")
	}

	return nil
}

func checkTransitions(list []*Transition) error {
	for _, t := range list {
		// check nil
		if t == nil {
			return errors.Wrap(ErrInvalidTransaction, "missing transition")
		}

		// check ID
		id, err := t.ComputeID()
		if err != nil {
			return err
		} else if id != t.ID {
			return errors.Wrapf(ErrInvalidTransaction, "transition %s does not match content %s", t.ID, id)
		}
	}

	return nil
}

func checkDeployment(d Deployment) error {
	// check functions
	functions := make(map[plaintext.Identifier]bool, len(d.Program.Functions))
	for _, fn := range d.Program.Functions {
		err := fn.Validate()
		if err != nil {
			return errors.Wrap(ErrInvalidDeployment, err.Error())
		} else if functions[fn] {
			return errors.Wrapf(ErrInvalidDeployment, "function %s declared twice", fn)
		}
		functions[fn] = true
	}

	// check keys
	keys := make(map[plaintext.Identifier]bool, len(d.VerifyingKeys))
	for _, key := range d.VerifyingKeys {
		if !functions[key.Function] {
			return errors.Wrapf(ErrInvalidDeployment, "verifying key for unknown function %s", key.Function)
		} else if keys[key.Function] {
			return errors.Wrapf(ErrInvalidDeployment, "verifying key for %s supplied twice", key.Function)
		}
		keys[key.Function] = true
	}

	// check missing keys
	if len(keys) != len(functions) {
		return errors.Wrapf(ErrInvalidDeployment, "%d of %d functions lack a verifying key", len(functions)-len(keys), len(functions))
	}

	return nil
}
