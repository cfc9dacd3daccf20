package plaintext

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// MaxMembers is the maximum number of members of an encodable struct.
const MaxMembers = math.MaxUint8

// Member is a named struct member.
type Member struct {
	Name  Identifier
	Value Plaintext
}

// Struct is a plaintext with named members in declaration order.
type Struct struct {
	members []Member
	memo    memo
}

// NewStruct creates and returns a new struct. The member order is kept as
// provided and is part of the encoding.
func NewStruct(members ...Member) (*Struct, error) {
	// check members
	seen := make(map[Identifier]bool, len(members))
	for _, member := range members {
		// check name
		err := member.Name.Validate()
		if err != nil {
			return nil, err
		}

		// check value
		if member.Value == nil {
			return nil, errors.Wrapf(ErrNilValue, "member %q", member.Name)
		}

		// check duplicates
		if seen[member.Name] {
			return nil, errors.Wrapf(ErrDuplicateMember, "member %q", member.Name)
		}
		seen[member.Name] = true
	}

	return &Struct{
		members: append([]Member(nil), members...),
	}, nil
}

// MustStruct is like NewStruct but panics on error.
func MustStruct(members ...Member) *Struct {
	s, err := NewStruct(members...)
	if err != nil {
		panic(err)
	}

	return s
}

// Len returns the number of members.
func (s *Struct) Len() int {
	return len(s.members)
}

// Members returns a copy of the members in declaration order.
func (s *Struct) Members() []Member {
	return append([]Member(nil), s.members...)
}

// Get returns the value of the named member.
func (s *Struct) Get(name Identifier) (Plaintext, bool) {
	for _, member := range s.members {
		if member.Name == name {
			return member.Value, true
		}
	}

	return nil, false
}

// Type implements the Plaintext interface.
func (s *Struct) Type() Type {
	members := make([]MemberType, 0, len(s.members))
	for _, member := range s.members {
		members = append(members, MemberType{
			Name: member.Name,
			Type: member.Value.Type(),
		})
	}

	return StructType{Members: members}
}

// String implements the Plaintext interface.
func (s *Struct) String() string {
	parts := make([]string, 0, len(s.members))
	for _, member := range s.members {
		parts = append(parts, string(member.Name)+": "+member.Value.String())
	}

	return "{ " + strings.Join(parts, ", ") + " }"
}

// WriteBitsLE implements the Value interface.
func (s *Struct) WriteBitsLE(dst Bits) (Bits, error) {
	return s.memo.write(dst, LittleEndian, s.encode)
}

// WriteBitsBE implements the Value interface.
func (s *Struct) WriteBitsBE(dst Bits) (Bits, error) {
	return s.memo.write(dst, BigEndian, s.encode)
}

func (s *Struct) encode(e Endianness) (Bits, error) {
	// check count
	if len(s.members) > MaxMembers {
		return nil, errors.Wrapf(ErrProtocolLimit, "struct has %d members", len(s.members))
	}

	// write variant and count
	out := Bits{false, true}
	out = appendUint(out, uint64(len(s.members)), 8, e)

	// write members
	for _, member := range s.members {
		// write identifier
		var err error
		out, err = member.Name.write(out, e)
		if err != nil {
			return nil, err
		}

		// encode value
		value, err := writeValue(nil, member.Value, e)
		if err != nil {
			return nil, err
		}

		// check size
		if len(value) > math.MaxUint16 {
			return nil, errors.Wrapf(ErrProtocolLimit, "member %q has %d bits", member.Name, len(value))
		}

		// write size and value
		out = appendUint(out, uint64(len(value)), 16, e)
		out = append(out, value...)
	}

	return out, nil
}

func (s *Struct) plaintext() {}
