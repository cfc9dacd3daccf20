package strata

import (
	"encoding/hex"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2s"

	"github.com/256dpi/strata/plaintext"
)

// Field is a 32 byte field element used for serial numbers, commitments,
// nonces, keys and origins.
type Field [32]byte

// ParseField parses a hex encoded field.
func ParseField(s string) (Field, error) {
	// decode
	buf, err := hex.DecodeString(s)
	if err != nil {
		return Field{}, errors.Wrap(ErrInvalidTransaction, err.Error())
	} else if len(buf) != len(Field{}) {
		return Field{}, errors.Wrapf(ErrInvalidTransaction, "field has %d bytes", len(buf))
	}

	// copy
	var f Field
	copy(f[:], buf)

	return f, nil
}

// String returns the hex encoding of the field.
func (f Field) String() string {
	return hex.EncodeToString(f[:])
}

// TransitionID identifies a transition.
type TransitionID Field

// String returns the hex encoding of the ID.
func (id TransitionID) String() string {
	return Field(id).String()
}

// TransactionID identifies a transaction.
type TransactionID Field

// ParseTransactionID parses a hex encoded transaction ID.
func ParseTransactionID(s string) (TransactionID, error) {
	f, err := ParseField(s)
	return TransactionID(f), err
}

// String returns the hex encoding of the ID.
func (id TransactionID) String() string {
	return Field(id).String()
}

func toField(buf []byte) (Field, error) {
	// check length
	var f Field
	if len(buf) != len(f) {
		return f, errors.Wrapf(ErrCorrupted, "field has %d bytes", len(buf))
	}

	copy(f[:], buf)

	return f, nil
}

// Domain tags of content-derived IDs.
const (
	transitionDomain = "strata.transition"
	deployDomain     = "strata.deploy"
	executeDomain    = "strata.execute"
	keyDomain        = "strata.key"
)

func digest(domain string, value plaintext.Value) (Field, error) {
	// encode value
	bits, err := plaintext.ToBitsLE(value)
	if err != nil {
		return Field{}, err
	}

	// hash domain and packed bits
	buf := make([]byte, 0, len(domain)+len(bits)/8+1)
	buf = append(buf, domain...)
	buf = append(buf, bits.Bytes()...)

	return blake2s.Sum256(buf), nil
}

func hashBytes(domain string, data []byte) Field {
	buf := make([]byte, 0, len(domain)+len(data))
	buf = append(buf, domain...)
	buf = append(buf, data...)

	return blake2s.Sum256(buf)
}

func fieldLiteral(f Field) plaintext.Plaintext {
	return plaintext.NewLiteral(plaintext.Field(f))
}

func stringLiteral(s string) plaintext.Plaintext {
	return plaintext.NewLiteral(plaintext.String(s))
}

func fieldArray(list []Field) plaintext.Plaintext {
	elements := make([]plaintext.Plaintext, 0, len(list))
	for _, f := range list {
		elements = append(elements, fieldLiteral(f))
	}

	return plaintext.MustArray(elements...)
}
