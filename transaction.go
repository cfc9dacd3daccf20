package strata

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/256dpi/strata/plaintext"
)

// OriginKind is the kind of an origin.
type OriginKind uint8

// The available origin kinds.
const (
	OriginCommitment OriginKind = iota
	OriginStateRoot
)

// String implements the fmt.Stringer interface.
func (k OriginKind) String() string {
	switch k {
	case OriginCommitment:
		return "commitment"
	case OriginStateRoot:
		return "state_root"
	default:
		return "origin(" + strconv.Itoa(int(k)) + ")"
	}
}

// Origin references the ledger state a transition input was created in.
type Origin struct {
	Kind  OriginKind
	Value Field
}

// Transition is the atomic effect record of a single function call.
type Transition struct {
	ID            TransitionID
	Program       plaintext.ProgramID
	Function      plaintext.Identifier
	SerialNumbers []Field
	Commitments   []Field
	Nonces        []Field
	TPK           Field
	Origins       []Origin
	Fee           uint64
}

// NewTransition returns a copy of the transition with its ID computed from
// the content.
func NewTransition(t Transition) (*Transition, error) {
	// copy
	n := t
	n.SerialNumbers = copyFields(t.SerialNumbers)
	n.Commitments = copyFields(t.Commitments)
	n.Nonces = copyFields(t.Nonces)
	if len(t.Origins) > 0 {
		n.Origins = append([]Origin(nil), t.Origins...)
	} else {
		n.Origins = nil
	}

	// compute ID
	id, err := n.ComputeID()
	if err != nil {
		return nil, err
	}
	n.ID = id

	return &n, nil
}

// ComputeID computes the content-derived ID of the transition.
func (t *Transition) ComputeID() (TransitionID, error) {
	// check identifiers
	err := t.Program.Validate()
	if err != nil {
		return TransitionID{}, errors.Wrapf(ErrInvalidTransaction, "transition program: %s", err)
	}
	err = t.Function.Validate()
	if err != nil {
		return TransitionID{}, errors.Wrapf(ErrInvalidTransaction, "transition function: %s", err)
	}

	// prepare origins
	origins := make([]plaintext.Plaintext, 0, len(t.Origins))
	for _, origin := range t.Origins {
		origins = append(origins, plaintext.MustStruct(
			plaintext.Member{Name: "kind", Value: plaintext.NewLiteral(plaintext.U8(origin.Kind))},
			plaintext.Member{Name: "value", Value: fieldLiteral(origin.Value)},
		))
	}

	// prepare content
	content := plaintext.MustStruct(
		plaintext.Member{Name: "program", Value: stringLiteral(t.Program.String())},
		plaintext.Member{Name: "function", Value: stringLiteral(t.Function.String())},
		plaintext.Member{Name: "serial_numbers", Value: fieldArray(t.SerialNumbers)},
		plaintext.Member{Name: "commitments", Value: fieldArray(t.Commitments)},
		plaintext.Member{Name: "nonces", Value: fieldArray(t.Nonces)},
		plaintext.Member{Name: "tpk", Value: fieldLiteral(t.TPK)},
		plaintext.Member{Name: "origins", Value: plaintext.MustArray(origins...)},
		plaintext.Member{Name: "fee", Value: plaintext.NewLiteral(plaintext.U64(t.Fee))},
	)

	// compute digest
	f, err := digest(transitionDomain, content)
	if err != nil {
		return TransitionID{}, errors.Wrapf(ErrInvalidTransaction, "transition content: %s", err)
	}

	return TransitionID(f), nil
}

// TransactionKind is the kind of a transaction.
type TransactionKind uint8

// The available transaction kinds.
const (
	KindDeploy TransactionKind = iota
	KindExecute
)

// String implements the fmt.Stringer interface.
func (k TransactionKind) String() string {
	switch k {
	case KindDeploy:
		return "deploy"
	case KindExecute:
		return "execute"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Transaction is either a *Deploy or an *Execute.
type Transaction interface {
	// ID returns the content-derived ID.
	ID() TransactionID

	// Kind returns the kind of the transaction.
	Kind() TransactionKind

	// All returns every transition of the transaction including the fee.
	All() []*Transition

	transaction()
}

// VerifyingKey is the opaque verifying key of a program function.
type VerifyingKey struct {
	Function plaintext.Identifier
	Key      []byte
}

// Program describes a deployed program.
type Program struct {
	ID        plaintext.ProgramID
	Functions []plaintext.Identifier
}

// Deployment is a program together with the verifying keys of its functions.
type Deployment struct {
	Edition       uint16
	Program       Program
	VerifyingKeys []VerifyingKey
}

// Deploy is a transaction that deploys a program and an optional fee
// transition paying for it.
type Deploy struct {
	id         TransactionID
	deployment Deployment
	fee        *Transition
}

// NewDeploy creates a deploy transaction and computes its ID. The fee
// transition may be nil and must carry its ID.
func NewDeploy(deployment Deployment, fee *Transition) (*Deploy, error) {
	// copy deployment
	d := deployment
	if len(deployment.Program.Functions) > 0 {
		d.Program.Functions = append([]plaintext.Identifier(nil), deployment.Program.Functions...)
	} else {
		d.Program.Functions = nil
	}
	d.VerifyingKeys = nil
	for _, key := range deployment.VerifyingKeys {
		if len(key.Key) > 0 {
			key.Key = append([]byte(nil), key.Key...)
		} else {
			key.Key = nil
		}
		d.VerifyingKeys = append(d.VerifyingKeys, key)
	}

	// create deploy
	deploy := &Deploy{deployment: d, fee: fee}

	// compute ID
	id, err := deploy.ComputeID()
	if err != nil {
		return nil, err
	}
	deploy.id = id

	return deploy, nil
}

// ID implements the Transaction interface.
func (d *Deploy) ID() TransactionID {
	return d.id
}

// Kind implements the Transaction interface.
func (d *Deploy) Kind() TransactionKind {
	return KindDeploy
}

// Program returns the ID of the deployed program.
func (d *Deploy) Program() plaintext.ProgramID {
	return d.deployment.Program.ID
}

// Deployment returns the deployment.
func (d *Deploy) Deployment() Deployment {
	return d.deployment
}

// Fee returns the fee transition, if any.
func (d *Deploy) Fee() *Transition {
	return d.fee
}

// All implements the Transaction interface.
func (d *Deploy) All() []*Transition {
	if d.fee == nil {
		return nil
	}

	return []*Transition{d.fee}
}

// ComputeID computes the content-derived ID of the deploy.
func (d *Deploy) ComputeID() (TransactionID, error) {
	// check program
	err := d.deployment.Program.ID.Validate()
	if err != nil {
		return TransactionID{}, errors.Wrapf(ErrInvalidTransaction, "deployment program: %s", err)
	}

	// prepare functions
	functions := make([]plaintext.Plaintext, 0, len(d.deployment.Program.Functions))
	for _, fn := range d.deployment.Program.Functions {
		functions = append(functions, stringLiteral(fn.String()))
	}

	// prepare keys
	keys := make([]plaintext.Plaintext, 0, len(d.deployment.VerifyingKeys))
	for _, key := range d.deployment.VerifyingKeys {
		hash := hashBytes(keyDomain, key.Key)
		keys = append(keys, plaintext.MustStruct(
			plaintext.Member{Name: "function", Value: stringLiteral(key.Function.String())},
			plaintext.Member{Name: "key", Value: fieldLiteral(hash)},
		))
	}

	// prepare fee
	var fee []Field
	if d.fee != nil {
		fee = append(fee, Field(d.fee.ID))
	}

	// prepare content
	content := plaintext.MustStruct(
		plaintext.Member{Name: "edition", Value: plaintext.NewLiteral(plaintext.U16(d.deployment.Edition))},
		plaintext.Member{Name: "program", Value: stringLiteral(d.deployment.Program.ID.String())},
		plaintext.Member{Name: "functions", Value: plaintext.MustArray(functions...)},
		plaintext.Member{Name: "verifying_keys", Value: plaintext.MustArray(keys...)},
		plaintext.Member{Name: "fee", Value: fieldArray(fee)},
	)

	// compute digest
	f, err := digest(deployDomain, content)
	if err != nil {
		return TransactionID{}, errors.Wrapf(ErrInvalidTransaction, "deployment content: %s", err)
	}

	return TransactionID(f), nil
}

func (d *Deploy) transaction() {}

// Execute is a transaction that bundles the transitions of an execution and
// an optional fee transition.
type Execute struct {
	id          TransactionID
	transitions []*Transition
	fee         *Transition
}

// NewExecute creates an execute transaction and computes its ID. The
// transitions must carry their IDs.
func NewExecute(transitions []*Transition, fee *Transition) (*Execute, error) {
	// check transitions
	for i, t := range transitions {
		if t == nil {
			return nil, errors.Wrapf(ErrInvalidTransaction, "transition %d is missing", i)
		}
	}

	// create execute
	execute := &Execute{
		transitions: append([]*Transition(nil), transitions...),
		fee:         fee,
	}

	// compute ID
	id, err := execute.ComputeID()
	if err != nil {
		return nil, err
	}
	execute.id = id

	return execute, nil
}

// ID implements the Transaction interface.
func (e *Execute) ID() TransactionID {
	return e.id
}

// Kind implements the Transaction interface.
func (e *Execute) Kind() TransactionKind {
	return KindExecute
}

// Transitions returns the execution transitions.
func (e *Execute) Transitions() []*Transition {
	return append([]*Transition(nil), e.transitions...)
}

// Fee returns the fee transition, if any.
func (e *Execute) Fee() *Transition {
	return e.fee
}

// All implements the Transaction interface. It returns the execution
// transitions followed by the fee transition.
func (e *Execute) All() []*Transition {
	all := make([]*Transition, 0, len(e.transitions)+1)
	all = append(all, e.transitions...)
	if e.fee != nil {
		all = append(all, e.fee)
	}

	return all
}

// ComputeID computes the content-derived ID of the execute from its
// transition IDs.
func (e *Execute) ComputeID() (TransactionID, error) {
	// prepare transitions
	ids := make([]Field, 0, len(e.transitions))
	for _, t := range e.transitions {
		ids = append(ids, Field(t.ID))
	}

	// prepare fee
	var fee []Field
	if e.fee != nil {
		fee = append(fee, Field(e.fee.ID))
	}

	// prepare content
	content := plaintext.MustStruct(
		plaintext.Member{Name: "transitions", Value: fieldArray(ids)},
		plaintext.Member{Name: "fee", Value: fieldArray(fee)},
	)

	// compute digest
	f, err := digest(executeDomain, content)
	if err != nil {
		return TransactionID{}, errors.Wrapf(ErrInvalidTransaction, "execution content: %s", err)
	}

	return TransactionID(f), nil
}

func (e *Execute) transaction() {}

func copyFields(list []Field) []Field {
	if len(list) == 0 {
		return nil
	}

	return append([]Field(nil), list...)
}
