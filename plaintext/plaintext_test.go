package plaintext

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func point(x, y int64) *Struct {
	return MustStruct(
		Member{Name: "x", Value: NewLiteral(I64(x))},
		Member{Name: "y", Value: NewLiteral(I64(y))},
	)
}

func TestLiteralEncoding(t *testing.T) {
	lit := NewLiteral(U8(5))

	le, err := ToBitsLE(lit)
	assert.NoError(t, err)
	assert.Equal(t, "00"+"10010000"+"0001000000000000"+"10100000", le.String())

	be, err := ToBitsBE(lit)
	assert.NoError(t, err)
	assert.Equal(t, "00"+"00001001"+"0000000000001000"+"00000101", be.String())
}

func TestDeterminism(t *testing.T) {
	values := []Plaintext{
		NewLiteral(Boolean(true)),
		NewLiteral(Boolean(false)),
		NewLiteral(U8(1)),
		NewLiteral(I8(1)),
		NewLiteral(U64(1)),
		NewLiteral(String("foo")),
		NewLiteral(Field{1}),
		NewLiteral(Address{1}),
		point(1, 2),
		point(2, 1),
		MustArray(NewLiteral(U8(1)), NewLiteral(U8(2))),
		MustArray(NewLiteral(U8(2)), NewLiteral(U8(1))),
		MustArray(),
		MustFuture(MustProgramID("token.aleo"), "transfer", NewLiteral(U64(7))),
		MustFuture(MustProgramID("token.aleo"), "mint", NewLiteral(U64(7))),
	}

	seen := map[string]int{}
	for i, value := range values {
		// encode twice
		a, err := ToBitsLE(value)
		require.NoError(t, err)
		b, err := ToBitsLE(value)
		require.NoError(t, err)
		assert.True(t, a.Equal(b), value.String())

		// encode fresh copy
		c, err := ToBitsLE(clone(value))
		require.NoError(t, err)
		assert.True(t, a.Equal(c), value.String())

		// check distinct
		j, ok := seen[a.String()]
		assert.False(t, ok, "%s collides with %s", value, values[j])
		seen[a.String()] = i
	}
}

func TestLengthParity(t *testing.T) {
	values := []Plaintext{
		NewLiteral(I32(-42)),
		point(3, 4),
		MustArray(point(1, 1), point(2, 2)),
		MustFuture(MustProgramID("credits.aleo"), "fee", point(1, 2), NewLiteral(String("memo"))),
	}

	for _, value := range values {
		le, err := ToBitsLE(value)
		assert.NoError(t, err)
		be, err := ToBitsBE(value)
		assert.NoError(t, err)
		assert.Len(t, be, len(le), value.String())
		assert.False(t, le.Equal(be), value.String())
	}
}

func TestOrderSensitivity(t *testing.T) {
	a := MustStruct(
		Member{Name: "a", Value: NewLiteral(U8(1))},
		Member{Name: "b", Value: NewLiteral(U8(1))},
	)
	b := MustStruct(
		Member{Name: "b", Value: NewLiteral(U8(1))},
		Member{Name: "a", Value: NewLiteral(U8(1))},
	)

	ab, err := ToBitsLE(a)
	assert.NoError(t, err)
	bb, err := ToBitsLE(b)
	assert.NoError(t, err)
	assert.False(t, ab.Equal(bb))
	assert.False(t, Equal(a, b))
	assert.False(t, EqualTypes(a.Type(), b.Type()))
}

func TestStructBoundary(t *testing.T) {
	build := func(n int) *Struct {
		members := make([]Member, 0, n)
		for i := 0; i < n; i++ {
			members = append(members, Member{
				Name:  MustIdentifier(fmt.Sprintf("m%d", i)),
				Value: NewLiteral(Boolean(true)),
			})
		}
		return MustStruct(members...)
	}

	// 255 members

	bits, err := ToBitsLE(build(255))
	assert.NoError(t, err)
	assert.NotEmpty(t, bits)

	// 256 members

	bits, err = ToBitsLE(build(256))
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrProtocolLimit)
	assert.Nil(t, bits)

	// nested overflow

	_, err = ToBitsLE(MustStruct(Member{Name: "inner", Value: build(256)}))
	assert.ErrorIs(t, err, ErrProtocolLimit)
}

func TestValueLengthLimit(t *testing.T) {
	// a string of 8191 bytes fits the literal size prefix
	_, err := ToBitsLE(NewLiteral(String(strings.Repeat("a", 8191))))
	assert.NoError(t, err)

	// one more byte does not
	_, err = ToBitsLE(NewLiteral(String(strings.Repeat("a", 8192))))
	assert.ErrorIs(t, err, ErrProtocolLimit)

	// the member value prefix is exceeded by a large nested literal
	big := NewLiteral(String(strings.Repeat("a", 8190)))
	_, err = ToBitsLE(MustStruct(Member{Name: "big", Value: big}))
	assert.ErrorIs(t, err, ErrProtocolLimit)

	_, err = ToBitsLE(MustArray(big))
	assert.ErrorIs(t, err, ErrProtocolLimit)

	_, err = ToBitsLE(MustFuture(MustProgramID("a.aleo"), "b", big))
	assert.ErrorIs(t, err, ErrProtocolLimit)
}

func TestMemoization(t *testing.T) {
	value := point(1, 2)

	a, err := value.WriteBitsLE(nil)
	assert.NoError(t, err)

	// mutating the result must not affect the cache
	a[0] = !a[0]

	b, err := value.WriteBitsLE(nil)
	assert.NoError(t, err)
	assert.NotEqual(t, a[0], b[0])

	// appends to the destination
	prefix := Bits{true, true, true}
	c, err := value.WriteBitsLE(prefix)
	assert.NoError(t, err)
	assert.Len(t, c, 3+len(b))
	assert.True(t, c[3:].Equal(b))
}

func TestConcurrentEncoding(t *testing.T) {
	value := MustArray(point(1, 2), point(3, 4), point(5, 6))

	expected, err := ToBitsLE(clone(value))
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]Bits, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bits, err := ToBitsLE(value)
			if err == nil {
				results[i] = bits
			}
		}(i)
	}
	wg.Wait()

	for _, bits := range results {
		assert.True(t, expected.Equal(bits))
	}
}

func TestEncodeNil(t *testing.T) {
	_, err := Encode(nil, LittleEndian)
	assert.ErrorIs(t, err, ErrNilValue)
}

func TestBytes(t *testing.T) {
	bits := BytesToBits([]byte{0x01, 0x80})
	assert.Equal(t, "1000000000000001", bits.String())
	assert.Equal(t, []byte{0x01, 0x80}, bits.Bytes())
	assert.Equal(t, []byte{0x05}, Bits{true, false, true}.Bytes())
}

func clone(p Plaintext) Plaintext {
	switch p := p.(type) {
	case *Literal:
		return NewLiteral(p.Scalar())
	case *Struct:
		members := p.Members()
		for i := range members {
			members[i].Value = clone(members[i].Value)
		}
		return MustStruct(members...)
	case *Array:
		elements := p.Elements()
		for i := range elements {
			elements[i] = clone(elements[i])
		}
		return MustArray(elements...)
	case *Future:
		return MustFuture(p.Program(), p.Function(), p.Inputs()...)
	}

	panic("unknown plaintext")
}
