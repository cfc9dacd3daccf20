package registers

import (
	"strconv"
	"strings"

	"github.com/256dpi/strata/plaintext"
)

// Register addresses a slot of a register file. The set of implementations is
// closed: Locator and Member.
type Register interface {
	// Locator returns the locator of the register.
	Locator() Locator

	String() string
	register()
}

// Locator is the numeric address of a register.
type Locator uint64

// Locator implements the Register interface.
func (l Locator) Locator() Locator {
	return l
}

// String implements the Register interface.
func (l Locator) String() string {
	return "r" + strconv.FormatUint(uint64(l), 10)
}

func (l Locator) register() {}

// Member addresses a nested struct member of a register.
type Member struct {
	Register Locator
	Path     []plaintext.Identifier
}

// Locator implements the Register interface.
func (m Member) Locator() Locator {
	return m.Register
}

// String implements the Register interface.
func (m Member) String() string {
	var sb strings.Builder
	sb.WriteString(m.Register.String())
	for _, id := range m.Path {
		sb.WriteByte('.')
		sb.WriteString(string(id))
	}

	return sb.String()
}

func (m Member) register() {}
