package strata

import (
	"github.com/blockberries/cramberry/pkg/cramberry"
	"github.com/pkg/errors"

	"github.com/256dpi/strata/plaintext"
)

type originRecord struct {
	Kind  uint32 `cramberry:"1"`
	Value []byte `cramberry:"2"`
}

type transitionRecord struct {
	ID            []byte         `cramberry:"1"`
	Program       string         `cramberry:"2"`
	Function      string         `cramberry:"3"`
	SerialNumbers [][]byte       `cramberry:"4"`
	Commitments   [][]byte       `cramberry:"5"`
	Nonces        [][]byte       `cramberry:"6"`
	TPK           []byte         `cramberry:"7"`
	Origins       []originRecord `cramberry:"8"`
	Fee           uint64         `cramberry:"9"`
}

type keyRecord struct {
	Function string `cramberry:"1"`
	Key      []byte `cramberry:"2"`
}

type deploymentRecord struct {
	Edition   uint32      `cramberry:"1"`
	Program   string      `cramberry:"2"`
	Functions []string    `cramberry:"3"`
	Keys      []keyRecord `cramberry:"4"`
}

type transactionRecord struct {
	Kind        uint32            `cramberry:"1"`
	ID          []byte            `cramberry:"2"`
	Deployment  *deploymentRecord `cramberry:"3"`
	Transitions [][]byte          `cramberry:"4"`
	HasFee      bool              `cramberry:"5"`
	Fee         []byte            `cramberry:"6"`
}

type transactionPacket struct {
	Transaction transactionRecord  `cramberry:"1"`
	Transitions []transitionRecord `cramberry:"2"`
}

func encodeFields(list []Field) [][]byte {
	if len(list) == 0 {
		return nil
	}

	out := make([][]byte, 0, len(list))
	for _, f := range list {
		out = append(out, append([]byte(nil), f[:]...))
	}

	return out
}

func decodeFields(list [][]byte) ([]Field, error) {
	if len(list) == 0 {
		return nil, nil
	}

	out := make([]Field, 0, len(list))
	for _, buf := range list {
		f, err := toField(buf)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}

	return out, nil
}

func newTransitionRecord(t *Transition) transitionRecord {
	// convert origins
	var origins []originRecord
	for _, origin := range t.Origins {
		origins = append(origins, originRecord{
			Kind:  uint32(origin.Kind),
			Value: append([]byte(nil), origin.Value[:]...),
		})
	}

	return transitionRecord{
		ID:            append([]byte(nil), t.ID[:]...),
		Program:       t.Program.String(),
		Function:      t.Function.String(),
		SerialNumbers: encodeFields(t.SerialNumbers),
		Commitments:   encodeFields(t.Commitments),
		Nonces:        encodeFields(t.Nonces),
		TPK:           append([]byte(nil), t.TPK[:]...),
		Origins:       origins,
		Fee:           t.Fee,
	}
}

func (r transitionRecord) decode() (*Transition, error) {
	// decode ID
	id, err := toField(r.ID)
	if err != nil {
		return nil, err
	}

	// parse program and function
	program, err := plaintext.ParseProgramID(r.Program)
	if err != nil {
		return nil, errors.Wrap(ErrCorrupted, err.Error())
	}
	function, err := plaintext.ParseIdentifier(r.Function)
	if err != nil {
		return nil, errors.Wrap(ErrCorrupted, err.Error())
	}

	// decode fields
	serialNumbers, err := decodeFields(r.SerialNumbers)
	if err != nil {
		return nil, err
	}
	commitments, err := decodeFields(r.Commitments)
	if err != nil {
		return nil, err
	}
	nonces, err := decodeFields(r.Nonces)
	if err != nil {
		return nil, err
	}
	tpk, err := toField(r.TPK)
	if err != nil {
		return nil, err
	}

	// decode origins
	var origins []Origin
	for _, o := range r.Origins {
		value, err := toField(o.Value)
		if err != nil {
			return nil, err
		}
		origins = append(origins, Origin{
			Kind:  OriginKind(o.Kind),
			Value: value,
		})
	}

	return &Transition{
		ID:            TransitionID(id),
		Program:       program,
		Function:      function,
		SerialNumbers: serialNumbers,
		Commitments:   commitments,
		Nonces:        nonces,
		TPK:           tpk,
		Origins:       origins,
		Fee:           r.Fee,
	}, nil
}

func newTransactionRecord(tx Transaction) transactionRecord {
	// prepare record
	id := tx.ID()
	record := transactionRecord{
		Kind: uint32(tx.Kind()),
		ID:   append([]byte(nil), id[:]...),
	}

	switch tx := tx.(type) {
	case *Deploy:
		// convert deployment
		d := &deploymentRecord{
			Edition: uint32(tx.deployment.Edition),
			Program: tx.deployment.Program.ID.String(),
		}
		for _, fn := range tx.deployment.Program.Functions {
			d.Functions = append(d.Functions, fn.String())
		}
		for _, key := range tx.deployment.VerifyingKeys {
			d.Keys = append(d.Keys, keyRecord{
				Function: key.Function.String(),
				Key:      key.Key,
			})
		}
		record.Deployment = d
		if tx.fee != nil {
			record.HasFee = true
			record.Fee = append([]byte(nil), tx.fee.ID[:]...)
		}
	case *Execute:
		// convert transitions
		for _, t := range tx.transitions {
			record.Transitions = append(record.Transitions, append([]byte(nil), t.ID[:]...))
		}
		if tx.fee != nil {
			record.HasFee = true
			record.Fee = append([]byte(nil), tx.fee.ID[:]...)
		}
	}

	return record
}

// decode rebuilds the transaction. The lookup resolves referenced transitions.
func (r transactionRecord) decode(lookup func(TransitionID) (*Transition, error)) (Transaction, error) {
	// decode ID
	id, err := toField(r.ID)
	if err != nil {
		return nil, err
	}

	switch TransactionKind(r.Kind) {
	case KindDeploy:
		// check deployment
		if r.Deployment == nil {
			return nil, errors.Wrap(ErrCorrupted, "missing deployment")
		}

		// parse program
		program, err := plaintext.ParseProgramID(r.Deployment.Program)
		if err != nil {
			return nil, errors.Wrap(ErrCorrupted, err.Error())
		}

		// prepare deployment
		d := Deployment{
			Edition: uint16(r.Deployment.Edition),
			Program: Program{ID: program},
		}
		for _, fn := range r.Deployment.Functions {
			d.Program.Functions = append(d.Program.Functions, plaintext.Identifier(fn))
		}
		for _, key := range r.Deployment.Keys {
			vk := VerifyingKey{Function: plaintext.Identifier(key.Function)}
			if len(key.Key) > 0 {
				vk.Key = key.Key
			}
			d.VerifyingKeys = append(d.VerifyingKeys, vk)
		}

		// resolve fee
		deploy := &Deploy{id: TransactionID(id), deployment: d}
		if r.HasFee {
			deploy.fee, err = r.lookupFee(lookup)
			if err != nil {
				return nil, err
			}
		}

		return deploy, nil
	case KindExecute:
		// resolve transitions
		execute := &Execute{id: TransactionID(id)}
		for _, buf := range r.Transitions {
			tid, err := toField(buf)
			if err != nil {
				return nil, err
			}
			t, err := lookup(TransitionID(tid))
			if err != nil {
				return nil, err
			}
			execute.transitions = append(execute.transitions, t)
		}

		// resolve fee
		if r.HasFee {
			execute.fee, err = r.lookupFee(lookup)
			if err != nil {
				return nil, err
			}
		}

		return execute, nil
	default:
		return nil, errors.Wrapf(ErrCorrupted, "unknown transaction kind %d", r.Kind)
	}
}

func (r transactionRecord) lookupFee(lookup func(TransitionID) (*Transition, error)) (*Transition, error) {
	tid, err := toField(r.Fee)
	if err != nil {
		return nil, err
	}

	return lookup(TransitionID(tid))
}

func marshal(v interface{}) ([]byte, error) {
	buf, err := cramberry.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "marshal record")
	}

	return buf, nil
}

func unmarshal(buf []byte, v interface{}) error {
	err := cramberry.Unmarshal(buf, v)
	if err != nil {
		return errors.Wrap(ErrCorrupted, err.Error())
	}

	return nil
}

// MarshalTransaction encodes the transaction including all of its transitions.
func MarshalTransaction(tx Transaction) ([]byte, error) {
	// check transaction
	if tx == nil {
		return nil, errors.Wrap(ErrInvalidTransaction, "missing transaction")
	}

	// prepare packet
	packet := transactionPacket{
		Transaction: newTransactionRecord(tx),
	}
	for _, t := range tx.All() {
		packet.Transitions = append(packet.Transitions, newTransitionRecord(t))
	}

	return marshal(&packet)
}

// UnmarshalTransaction decodes a transaction encoded with MarshalTransaction.
// The IDs are not verified.
func UnmarshalTransaction(buf []byte) (Transaction, error) {
	// decode packet
	var packet transactionPacket
	err := unmarshal(buf, &packet)
	if err != nil {
		return nil, err
	}

	// decode transitions
	transitions := map[TransitionID]*Transition{}
	for _, record := range packet.Transitions {
		t, err := record.decode()
		if err != nil {
			return nil, err
		}
		transitions[t.ID] = t
	}

	return packet.Transaction.decode(func(id TransitionID) (*Transition, error) {
		t, ok := transitions[id]
		if !ok {
			return nil, errors.Wrapf(ErrMissingReference, "transition %s", id)
		}

		return t, nil
	})
}
