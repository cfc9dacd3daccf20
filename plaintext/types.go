package plaintext

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Type is the structural type of a plaintext. The set of implementations is
// closed: LiteralType, StructType, ArrayType and FutureType.
type Type interface {
	String() string
	typ()
}

// LiteralType is the type of a literal.
type LiteralType struct {
	Kind LiteralKind
}

func (t LiteralType) String() string { return t.Kind.String() }
func (t LiteralType) typ()           {}

// MemberType is the type of a named struct member.
type MemberType struct {
	Name Identifier
	Type Type
}

// StructType is the type of a struct. Member order is significant.
type StructType struct {
	Members []MemberType
}

func (t StructType) String() string {
	parts := make([]string, 0, len(t.Members))
	for _, m := range t.Members {
		parts = append(parts, string(m.Name)+": "+typeString(m.Type))
	}

	return "{ " + strings.Join(parts, ", ") + " }"
}

func (t StructType) typ() {}

// ArrayType is the type of an array. Element is nil for empty arrays.
type ArrayType struct {
	Element Type
	Length  uint32
}

func (t ArrayType) String() string {
	return "[" + typeString(t.Element) + "; " + strconv.FormatUint(uint64(t.Length), 10) + "]"
}

func (t ArrayType) typ() {}

// FutureType is the type of a future.
type FutureType struct {
	Program  ProgramID
	Function Identifier
}

func (t FutureType) String() string { return "future " + t.Program.String() + "/" + string(t.Function) }
func (t FutureType) typ()           {}

func typeString(t Type) string {
	if t == nil {
		return "_"
	}

	return t.String()
}

// EqualTypes returns whether both types are structurally identical.
func EqualTypes(a, b Type) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case LiteralType:
		o, ok := b.(LiteralType)
		return ok && a.Kind == o.Kind
	case StructType:
		o, ok := b.(StructType)
		if !ok || len(a.Members) != len(o.Members) {
			return false
		}
		for i := range a.Members {
			if a.Members[i].Name != o.Members[i].Name || !EqualTypes(a.Members[i].Type, o.Members[i].Type) {
				return false
			}
		}
		return true
	case ArrayType:
		o, ok := b.(ArrayType)
		return ok && a.Length == o.Length && EqualTypes(a.Element, o.Element)
	case FutureType:
		o, ok := b.(FutureType)
		return ok && a.Program == o.Program && a.Function == o.Function
	default:
		return false
	}
}

// Match returns an error wrapping ErrTypeMismatch if the plaintext does not
// structurally match the type.
func Match(p Plaintext, t Type) error {
	// check nil
	if p == nil {
		return ErrNilValue
	} else if t == nil {
		return errors.Wrapf(ErrTypeMismatch, "%s against no type", p)
	}

	switch p := p.(type) {
	case *Literal:
		lt, ok := t.(LiteralType)
		if !ok || lt.Kind != p.Kind() {
			return mismatch(p, t)
		}
	case *Struct:
		st, ok := t.(StructType)
		if !ok || len(st.Members) != len(p.members) {
			return mismatch(p, t)
		}
		for i, member := range p.members {
			if st.Members[i].Name != member.Name {
				return mismatch(p, t)
			}
			err := Match(member.Value, st.Members[i].Type)
			if err != nil {
				return errors.Wrapf(err, "member %q", member.Name)
			}
		}
	case *Array:
		at, ok := t.(ArrayType)
		if !ok || uint64(at.Length) != uint64(len(p.elements)) {
			return mismatch(p, t)
		}
		for i, element := range p.elements {
			err := Match(element, at.Element)
			if err != nil {
				return errors.Wrapf(err, "element %d", i)
			}
		}
	case *Future:
		ft, ok := t.(FutureType)
		if !ok || ft.Program != p.program || ft.Function != p.function {
			return mismatch(p, t)
		}
	default:
		return mismatch(p, t)
	}

	return nil
}

func mismatch(p Plaintext, t Type) error {
	return errors.Wrapf(ErrTypeMismatch, "%s is not a %s", p, t)
}
