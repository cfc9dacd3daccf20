package plaintext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentifier(t *testing.T) {
	id, err := ParseIdentifier("foo_1")
	assert.NoError(t, err)
	assert.Equal(t, Identifier("foo_1"), id)
	assert.Equal(t, uint8(40), id.SizeInBits())

	for _, s := range []string{"", "1foo", "_foo", "foo-bar", "abcdefghijklmnopqrstuvwxyz012345"} {
		_, err = ParseIdentifier(s)
		assert.ErrorIs(t, err, ErrInvalidIdentifier, s)
	}

	pid, err := ParseProgramID("token.aleo")
	assert.NoError(t, err)
	assert.Equal(t, ProgramID{Name: "token", Network: "aleo"}, pid)
	assert.Equal(t, "token.aleo", pid.String())

	_, err = ParseProgramID("token")
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestNewStruct(t *testing.T) {
	_, err := NewStruct(
		Member{Name: "a", Value: NewLiteral(U8(1))},
		Member{Name: "a", Value: NewLiteral(U8(2))},
	)
	assert.ErrorIs(t, err, ErrDuplicateMember)

	_, err = NewStruct(Member{Name: "a"})
	assert.ErrorIs(t, err, ErrNilValue)

	_, err = NewStruct(Member{Name: "1a", Value: NewLiteral(U8(1))})
	assert.ErrorIs(t, err, ErrInvalidIdentifier)

	s := point(1, 2)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "{ x: 1i64, y: 2i64 }", s.String())

	y, ok := s.Get("y")
	assert.True(t, ok)
	assert.True(t, Equal(NewLiteral(I64(2)), y))

	_, ok = s.Get("z")
	assert.False(t, ok)
}

func TestMatch(t *testing.T) {
	pt := point(1, 2)

	assert.NoError(t, Match(pt, pt.Type()))
	assert.NoError(t, Match(point(5, 6), pt.Type()))
	assert.NoError(t, Match(NewLiteral(U8(1)), LiteralType{Kind: KindU8}))

	err := Match(NewLiteral(U16(1)), LiteralType{Kind: KindU8})
	assert.ErrorIs(t, err, ErrTypeMismatch)

	err = Match(pt, StructType{Members: []MemberType{
		{Name: "x", Type: LiteralType{Kind: KindI64}},
		{Name: "y", Type: LiteralType{Kind: KindU64}},
	}})
	assert.ErrorIs(t, err, ErrTypeMismatch)

	arr := MustArray(NewLiteral(U8(1)), NewLiteral(U8(2)))
	assert.NoError(t, Match(arr, ArrayType{Element: LiteralType{Kind: KindU8}, Length: 2}))
	assert.ErrorIs(t, Match(arr, ArrayType{Element: LiteralType{Kind: KindU8}, Length: 3}), ErrTypeMismatch)

	fut := MustFuture(MustProgramID("token.aleo"), "transfer")
	assert.NoError(t, Match(fut, FutureType{Program: MustProgramID("token.aleo"), Function: "transfer"}))
	assert.ErrorIs(t, Match(fut, FutureType{Program: MustProgramID("token.aleo"), Function: "mint"}), ErrTypeMismatch)

	assert.ErrorIs(t, Match(pt, nil), ErrTypeMismatch)
}

func TestEqualTypes(t *testing.T) {
	assert.True(t, EqualTypes(point(1, 2).Type(), point(3, 4).Type()))
	assert.False(t, EqualTypes(point(1, 2).Type(), LiteralType{Kind: KindI64}))
	assert.True(t, EqualTypes(MustArray().Type(), ArrayType{}))
	assert.Equal(t, "[u8; 2]", MustArray(NewLiteral(U8(1)), NewLiteral(U8(2))).Type().String())
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(point(1, 2), point(1, 2)))
	assert.False(t, Equal(point(1, 2), point(2, 1)))
	assert.False(t, Equal(NewLiteral(U8(1)), NewLiteral(I8(1))))
	assert.True(t, Equal(
		MustFuture(MustProgramID("a.aleo"), "f", point(1, 2)),
		MustFuture(MustProgramID("a.aleo"), "f", point(1, 2)),
	))
	assert.False(t, Equal(
		MustFuture(MustProgramID("a.aleo"), "f", point(1, 2)),
		MustFuture(MustProgramID("a.aleo"), "f"),
	))
}
