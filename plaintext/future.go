package plaintext

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
)

// MaxInputs is the maximum number of inputs of an encodable future.
const MaxInputs = math.MaxUint8

// Future is a plaintext describing a deferred call of a function in another
// program. Inputs may be any value, including records.
type Future struct {
	program  ProgramID
	function Identifier
	inputs   []Value
	memo     memo
}

// NewFuture creates and returns a new future.
func NewFuture(program ProgramID, function Identifier, inputs ...Value) (*Future, error) {
	// check program
	err := program.Validate()
	if err != nil {
		return nil, err
	}

	// check function
	err = function.Validate()
	if err != nil {
		return nil, err
	}

	// check inputs
	for i, input := range inputs {
		if input == nil {
			return nil, errors.Wrapf(ErrNilValue, "input %d", i)
		}
	}

	return &Future{
		program:  program,
		function: function,
		inputs:   append([]Value(nil), inputs...),
	}, nil
}

// MustFuture is like NewFuture but panics on error.
func MustFuture(program ProgramID, function Identifier, inputs ...Value) *Future {
	f, err := NewFuture(program, function, inputs...)
	if err != nil {
		panic(err)
	}

	return f
}

// Program returns the target program.
func (f *Future) Program() ProgramID {
	return f.program
}

// Function returns the target function.
func (f *Future) Function() Identifier {
	return f.function
}

// Inputs returns a copy of the inputs.
func (f *Future) Inputs() []Value {
	return append([]Value(nil), f.inputs...)
}

// Type implements the Plaintext interface.
func (f *Future) Type() Type {
	return FutureType{
		Program:  f.program,
		Function: f.function,
	}
}

// String implements the Plaintext interface.
func (f *Future) String() string {
	parts := make([]string, 0, len(f.inputs))
	for _, input := range f.inputs {
		parts = append(parts, fmt.Sprint(input))
	}

	return f.program.String() + "/" + string(f.function) + "(" + strings.Join(parts, ", ") + ")"
}

// WriteBitsLE implements the Value interface.
func (f *Future) WriteBitsLE(dst Bits) (Bits, error) {
	return f.memo.write(dst, LittleEndian, f.encode)
}

// WriteBitsBE implements the Value interface.
func (f *Future) WriteBitsBE(dst Bits) (Bits, error) {
	return f.memo.write(dst, BigEndian, f.encode)
}

func (f *Future) encode(e Endianness) (Bits, error) {
	// check count
	if len(f.inputs) > MaxInputs {
		return nil, errors.Wrapf(ErrProtocolLimit, "future has %d inputs", len(f.inputs))
	}

	// write variant
	out := Bits{true, true}

	// write program and function
	var err error
	for _, id := range []Identifier{f.program.Name, f.program.Network, f.function} {
		out, err = id.write(out, e)
		if err != nil {
			return nil, err
		}
	}

	// write count
	out = appendUint(out, uint64(len(f.inputs)), 8, e)

	// write inputs
	for i, input := range f.inputs {
		// encode input
		bits, err := writeValue(nil, input, e)
		if err != nil {
			return nil, err
		}

		// check size
		if len(bits) > math.MaxUint16 {
			return nil, errors.Wrapf(ErrProtocolLimit, "input %d has %d bits", i, len(bits))
		}

		// write size and input
		out = appendUint(out, uint64(len(bits)), 16, e)
		out = append(out, bits...)
	}

	return out, nil
}

func (f *Future) plaintext() {}
