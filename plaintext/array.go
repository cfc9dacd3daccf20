package plaintext

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// MaxElements is the maximum number of elements of an encodable array.
const MaxElements = math.MaxUint32

// Array is a plaintext holding an ordered sequence of elements.
type Array struct {
	elements []Plaintext
	memo     memo
}

// NewArray creates and returns a new array.
func NewArray(elements ...Plaintext) (*Array, error) {
	// check elements
	for i, element := range elements {
		if element == nil {
			return nil, errors.Wrapf(ErrNilValue, "element %d", i)
		}
	}

	return &Array{
		elements: append([]Plaintext(nil), elements...),
	}, nil
}

// MustArray is like NewArray but panics on error.
func MustArray(elements ...Plaintext) *Array {
	a, err := NewArray(elements...)
	if err != nil {
		panic(err)
	}

	return a
}

// Len returns the number of elements.
func (a *Array) Len() int {
	return len(a.elements)
}

// Elements returns a copy of the elements.
func (a *Array) Elements() []Plaintext {
	return append([]Plaintext(nil), a.elements...)
}

// Index returns the element at the specified index.
func (a *Array) Index(i int) (Plaintext, bool) {
	if i < 0 || i >= len(a.elements) {
		return nil, false
	}

	return a.elements[i], true
}

// Type implements the Plaintext interface. The element type is taken from the
// first element and is nil for empty arrays.
func (a *Array) Type() Type {
	var element Type
	if len(a.elements) > 0 {
		element = a.elements[0].Type()
	}

	return ArrayType{
		Element: element,
		Length:  uint32(len(a.elements)),
	}
}

// String implements the Plaintext interface.
func (a *Array) String() string {
	parts := make([]string, 0, len(a.elements))
	for _, element := range a.elements {
		parts = append(parts, element.String())
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// WriteBitsLE implements the Value interface.
func (a *Array) WriteBitsLE(dst Bits) (Bits, error) {
	return a.memo.write(dst, LittleEndian, a.encode)
}

// WriteBitsBE implements the Value interface.
func (a *Array) WriteBitsBE(dst Bits) (Bits, error) {
	return a.memo.write(dst, BigEndian, a.encode)
}

func (a *Array) encode(e Endianness) (Bits, error) {
	// check count
	if uint64(len(a.elements)) > MaxElements {
		return nil, errors.Wrapf(ErrProtocolLimit, "array has %d elements", len(a.elements))
	}

	// write variant and count
	out := Bits{true, false}
	out = appendUint(out, uint64(len(a.elements)), 32, e)

	// write elements
	for i, element := range a.elements {
		// encode element
		bits, err := writeValue(nil, element, e)
		if err != nil {
			return nil, err
		}

		// check size
		if len(bits) > math.MaxUint16 {
			return nil, errors.Wrapf(ErrProtocolLimit, "element %d has %d bits", i, len(bits))
		}

		// write size and element
		out = appendUint(out, uint64(len(bits)), 16, e)
		out = append(out, bits...)
	}

	return out, nil
}

func (a *Array) plaintext() {}
