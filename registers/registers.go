// Package registers implements the typed register file of a finalize
// execution.
package registers

import (
	"github.com/pkg/errors"

	"github.com/256dpi/strata/plaintext"
)

// Types resolves the declared type of a locator.
type Types interface {
	TypeOf(Locator) (plaintext.Type, bool)
}

// TypeTable is a static Types implementation.
type TypeTable map[Locator]plaintext.Type

// TypeOf implements the Types interface.
func (t TypeTable) TypeOf(l Locator) (plaintext.Type, bool) {
	typ, ok := t[l]
	return typ, ok
}

// Matcher judges whether a plaintext matches a declared type.
type Matcher interface {
	Match(plaintext.Plaintext, plaintext.Type) error
}

// MatcherFunc is a function that implements the Matcher interface.
type MatcherFunc func(plaintext.Plaintext, plaintext.Type) error

// Match implements the Matcher interface.
func (f MatcherFunc) Match(p plaintext.Plaintext, t plaintext.Type) error {
	return f(p, t)
}

// StructuralMatcher matches values by their structural type.
var StructuralMatcher = MatcherFunc(plaintext.Match)

type slot struct {
	value plaintext.Plaintext
	typ   plaintext.Type
}

// Registers is the register file of a single finalize execution. It is owned
// by one execution and must not be shared between goroutines.
type Registers struct {
	types   Types
	matcher Matcher
	slots   map[Locator]slot
	halt    *HaltError
}

// New creates and returns a new register file. If matcher is nil the
// structural matcher is used.
func New(types Types, matcher Matcher) *Registers {
	// check types
	if types == nil {
		panic("registers: missing types")
	}

	// set default matcher
	if matcher == nil {
		matcher = StructuralMatcher
	}

	return &Registers{
		types:   types,
		matcher: matcher,
		slots:   map[Locator]slot{},
	}
}

// Store assigns the value to the register. A value rejected by the matcher
// halts the register file if the register is already assigned.
func (r *Registers) Store(reg Register, value plaintext.Value) error {
	// check halt
	if r.halt != nil {
		return r.halt
	}

	// check value
	p, ok := value.(plaintext.Plaintext)
	if !ok {
		return errors.Wrapf(ErrValueKindRejected, "store to %s", registerString(reg))
	}

	// check register
	locator, ok := reg.(Locator)
	if !ok {
		return errors.Wrapf(ErrNotAssignable, "store to %s", registerString(reg))
	}

	// get declared type
	declared, ok := r.types.TypeOf(locator)
	if !ok {
		return errors.Wrapf(ErrUndeclaredRegister, "store to %s", locator)
	}

	// match value
	err := r.matcher.Match(p, declared)
	typ := p.Type()

	// a mismatch halts once the register is assigned
	if err != nil {
		if _, ok := r.slots[locator]; ok {
			return r.stop(locator, err)
		}

		return errors.Wrap(ErrTypeMismatch, err.Error())
	}

	// assign
	r.slots[locator] = slot{value: p, typ: typ}

	return nil
}

// Load returns the value of the register. Member registers resolve their path
// through nested structs.
func (r *Registers) Load(reg Register) (plaintext.Plaintext, error) {
	// check halt
	if r.halt != nil {
		return nil, r.halt
	} else if reg == nil {
		return nil, errors.Wrap(ErrInvalidMember, "missing register")
	}

	// get slot
	s, ok := r.slots[reg.Locator()]
	if !ok {
		return nil, errors.Wrapf(ErrUnassigned, "load from %s", reg)
	}

	// return locators directly
	member, ok := reg.(Member)
	if !ok {
		return s.value, nil
	}

	// walk path
	value := s.value
	for _, name := range member.Path {
		st, ok := value.(*plaintext.Struct)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidMember, "%s is not a struct at %q", reg, name)
		}
		value, ok = st.Get(name)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidMember, "%s has no member %q", reg, name)
		}
	}

	return value, nil
}

// Assigned returns the type of an assigned locator.
func (r *Registers) Assigned(l Locator) (plaintext.Type, bool) {
	s, ok := r.slots[l]
	return s.typ, ok
}

// Halted returns the halt error if the register file has halted.
func (r *Registers) Halted() error {
	if r.halt == nil {
		return nil
	}

	return r.halt
}

func (r *Registers) stop(l Locator, cause error) error {
	r.halt = &HaltError{
		Register: l,
		Cause:    errors.Wrap(ErrTypeMismatch, cause.Error()),
	}

	return r.halt
}

func registerString(reg Register) string {
	if reg == nil {
		return "<nil>"
	}

	return reg.String()
}
