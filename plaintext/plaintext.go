// Package plaintext implements program values and their canonical bit
// encoding.
package plaintext

/*
Encoding Layout

Every plaintext node is encoded with a two bit variant tag followed by its
content. Fixed width prefixes and literal bits are written least significant
bit first for little-endian encodings and most significant bit first for
big-endian encodings.

	Literal: 00 | kind (8) | size (16) | bits
	Struct:  01 | count (8) | { id size (8) | id | value size (16) | value }
	Array:   10 | count (32) | { element size (16) | element }
	Future:  11 | name size (8) | name | network size (8) | network |
	         function size (8) | function | count (8) | { input size (16) | input }

A node computes its encoding at most once per endianness and returns a copy of
the memoized bits on every later call.
*/

import (
	"sync"
)

// Endianness selects the bit order of an encoding.
type Endianness uint8

const (
	// LittleEndian writes the least significant bit first.
	LittleEndian Endianness = iota

	// BigEndian writes the most significant bit first.
	BigEndian
)

// String implements the fmt.Stringer interface.
func (e Endianness) String() string {
	if e == BigEndian {
		return "be"
	}

	return "le"
}

// Value is a program value. It is either a Plaintext or a record that is
// provided by an external collaborator.
type Value interface {
	// WriteBitsLE appends the little-endian encoding to dst.
	WriteBitsLE(dst Bits) (Bits, error)

	// WriteBitsBE appends the big-endian encoding to dst.
	WriteBitsBE(dst Bits) (Bits, error)
}

// Plaintext is an unencrypted structured value. The set of implementations is
// closed: *Literal, *Struct, *Array and *Future.
type Plaintext interface {
	Value

	// Type returns the structural type of the value.
	Type() Type

	// String returns a human readable representation.
	String() string

	plaintext()
}

// Encode returns the canonical encoding of the value in the requested
// endianness.
func Encode(v Value, e Endianness) (Bits, error) {
	// check value
	if v == nil {
		return nil, ErrNilValue
	}

	// encode
	if e == BigEndian {
		return v.WriteBitsBE(nil)
	}

	return v.WriteBitsLE(nil)
}

// ToBitsLE returns the little-endian encoding of the value.
func ToBitsLE(v Value) (Bits, error) {
	return Encode(v, LittleEndian)
}

// ToBitsBE returns the big-endian encoding of the value.
func ToBitsBE(v Value) (Bits, error) {
	return Encode(v, BigEndian)
}

// IsPlaintext returns whether the value is a plaintext value.
func IsPlaintext(v Value) bool {
	_, ok := v.(Plaintext)
	return ok
}

type memo struct {
	once [2]sync.Once
	bits [2]Bits
	errs [2]error
}

func (m *memo) write(dst Bits, e Endianness, fn func(Endianness) (Bits, error)) (Bits, error) {
	// compute once
	m.once[e].Do(func() {
		m.bits[e], m.errs[e] = fn(e)
	})

	// check error
	if m.errs[e] != nil {
		return dst, m.errs[e]
	}

	return append(dst, m.bits[e]...), nil
}

func writeValue(dst Bits, v Value, e Endianness) (Bits, error) {
	if e == BigEndian {
		return v.WriteBitsBE(dst)
	}

	return v.WriteBitsLE(dst)
}
