package plaintext

import (
	"encoding/hex"
	"math"
	"strconv"

	"github.com/pkg/errors"
)

// LiteralKind is the variant tag of a literal.
type LiteralKind uint8

// The available literal kinds.
const (
	KindAddress LiteralKind = iota
	KindBoolean
	KindField
	KindGroup
	KindI8
	KindI16
	KindI32
	KindI64
	KindI128
	KindU8
	KindU16
	KindU32
	KindU64
	KindU128
	KindScalar
	KindSignature
	KindString
)

var kindNames = [...]string{
	"address", "boolean", "field", "group", "i8", "i16", "i32", "i64", "i128",
	"u8", "u16", "u32", "u64", "u128", "scalar", "signature", "string",
}

// String implements the fmt.Stringer interface.
func (k LiteralKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Scalar is a primitive value with a fixed bit representation. Scalars other
// than the ones provided by this package are supplied by the primitive
// encoding collaborator.
type Scalar interface {
	// Kind returns the literal kind.
	Kind() LiteralKind

	// BitsLE returns the little-endian bits of the scalar.
	BitsLE() Bits

	// String returns the literal syntax of the scalar.
	String() string
}

// Boolean is a boolean scalar.
type Boolean bool

func (b Boolean) Kind() LiteralKind { return KindBoolean }
func (b Boolean) BitsLE() Bits      { return Bits{bool(b)} }
func (b Boolean) String() string    { return strconv.FormatBool(bool(b)) }

// U8 is an unsigned 8 bit integer scalar.
type U8 uint8

func (u U8) Kind() LiteralKind { return KindU8 }
func (u U8) BitsLE() Bits      { return appendUint(nil, uint64(u), 8, LittleEndian) }
func (u U8) String() string    { return strconv.FormatUint(uint64(u), 10) + "u8" }

// U16 is an unsigned 16 bit integer scalar.
type U16 uint16

func (u U16) Kind() LiteralKind { return KindU16 }
func (u U16) BitsLE() Bits      { return appendUint(nil, uint64(u), 16, LittleEndian) }
func (u U16) String() string    { return strconv.FormatUint(uint64(u), 10) + "u16" }

// U32 is an unsigned 32 bit integer scalar.
type U32 uint32

func (u U32) Kind() LiteralKind { return KindU32 }
func (u U32) BitsLE() Bits      { return appendUint(nil, uint64(u), 32, LittleEndian) }
func (u U32) String() string    { return strconv.FormatUint(uint64(u), 10) + "u32" }

// U64 is an unsigned 64 bit integer scalar.
type U64 uint64

func (u U64) Kind() LiteralKind { return KindU64 }
func (u U64) BitsLE() Bits      { return appendUint(nil, uint64(u), 64, LittleEndian) }
func (u U64) String() string    { return strconv.FormatUint(uint64(u), 10) + "u64" }

// I8 is a signed 8 bit integer scalar.
type I8 int8

func (i I8) Kind() LiteralKind { return KindI8 }
func (i I8) BitsLE() Bits      { return appendUint(nil, uint64(uint8(i)), 8, LittleEndian) }
func (i I8) String() string    { return strconv.FormatInt(int64(i), 10) + "i8" }

// I16 is a signed 16 bit integer scalar.
type I16 int16

func (i I16) Kind() LiteralKind { return KindI16 }
func (i I16) BitsLE() Bits      { return appendUint(nil, uint64(uint16(i)), 16, LittleEndian) }
func (i I16) String() string    { return strconv.FormatInt(int64(i), 10) + "i16" }

// I32 is a signed 32 bit integer scalar.
type I32 int32

func (i I32) Kind() LiteralKind { return KindI32 }
func (i I32) BitsLE() Bits      { return appendUint(nil, uint64(uint32(i)), 32, LittleEndian) }
func (i I32) String() string    { return strconv.FormatInt(int64(i), 10) + "i32" }

// I64 is a signed 64 bit integer scalar.
type I64 int64

func (i I64) Kind() LiteralKind { return KindI64 }
func (i I64) BitsLE() Bits      { return appendUint(nil, uint64(i), 64, LittleEndian) }
func (i I64) String() string    { return strconv.FormatInt(int64(i), 10) + "i64" }

// Field is a 32 byte little-endian field element scalar.
type Field [32]byte

func (f Field) Kind() LiteralKind { return KindField }
func (f Field) BitsLE() Bits      { return BytesToBits(f[:]) }
func (f Field) String() string    { return hex.EncodeToString(f[:]) + "field" }

// Address is a 32 byte account address scalar.
type Address [32]byte

func (a Address) Kind() LiteralKind { return KindAddress }
func (a Address) BitsLE() Bits      { return BytesToBits(a[:]) }
func (a Address) String() string    { return "aleo1" + hex.EncodeToString(a[:]) }

// String is a byte string scalar.
type String string

func (s String) Kind() LiteralKind { return KindString }
func (s String) BitsLE() Bits      { return BytesToBits([]byte(s)) }
func (s String) String() string    { return strconv.Quote(string(s)) }

// Literal is a plaintext holding a single scalar.
type Literal struct {
	scalar Scalar
	memo   memo
}

// NewLiteral creates and returns a new literal.
func NewLiteral(scalar Scalar) *Literal {
	// check scalar
	if scalar == nil {
		panic("plaintext: missing scalar")
	}

	return &Literal{
		scalar: scalar,
	}
}

// Scalar returns the scalar of the literal.
func (l *Literal) Scalar() Scalar {
	return l.scalar
}

// Kind returns the kind of the literal.
func (l *Literal) Kind() LiteralKind {
	return l.scalar.Kind()
}

// Type implements the Plaintext interface.
func (l *Literal) Type() Type {
	return LiteralType{Kind: l.scalar.Kind()}
}

// String implements the Plaintext interface.
func (l *Literal) String() string {
	return l.scalar.String()
}

// WriteBitsLE implements the Value interface.
func (l *Literal) WriteBitsLE(dst Bits) (Bits, error) {
	return l.memo.write(dst, LittleEndian, l.encode)
}

// WriteBitsBE implements the Value interface.
func (l *Literal) WriteBitsBE(dst Bits) (Bits, error) {
	return l.memo.write(dst, BigEndian, l.encode)
}

func (l *Literal) encode(e Endianness) (Bits, error) {
	// get bits
	bits := l.scalar.BitsLE()
	if len(bits) > math.MaxUint16 {
		return nil, errors.Wrapf(ErrProtocolLimit, "%s literal has %d bits", l.scalar.Kind(), len(bits))
	}

	// write variant, kind and size
	out := make(Bits, 0, 2+8+16+len(bits))
	out = append(out, false, false)
	out = appendUint(out, uint64(l.scalar.Kind()), 8, e)
	out = appendUint(out, uint64(len(bits)), 16, e)

	// write bits
	out = appendOrdered(out, bits, e)

	return out, nil
}

func (l *Literal) plaintext() {}
