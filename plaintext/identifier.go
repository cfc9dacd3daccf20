package plaintext

import (
	"strings"

	"github.com/pkg/errors"
)

// MaxIdentifierLength is the maximum number of characters of an identifier.
const MaxIdentifierLength = 31

// Identifier is a validated symbolic name.
type Identifier string

// ParseIdentifier validates and returns an identifier. Identifiers start with
// a letter followed by letters, digits or underscores.
func ParseIdentifier(s string) (Identifier, error) {
	// check length
	if len(s) == 0 || len(s) > MaxIdentifierLength {
		return "", errors.Wrapf(ErrInvalidIdentifier, "%q has length %d", s, len(s))
	}

	// check characters
	for i := 0; i < len(s); i++ {
		c := s[i]
		letter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		digit := c >= '0' && c <= '9'
		if i == 0 && !letter {
			return "", errors.Wrapf(ErrInvalidIdentifier, "%q must start with a letter", s)
		} else if !letter && !digit && c != '_' {
			return "", errors.Wrapf(ErrInvalidIdentifier, "%q contains %q", s, c)
		}
	}

	return Identifier(s), nil
}

// MustIdentifier is like ParseIdentifier but panics on error.
func MustIdentifier(s string) Identifier {
	id, err := ParseIdentifier(s)
	if err != nil {
		panic(err)
	}

	return id
}

// Validate returns an error if the identifier is malformed.
func (i Identifier) Validate() error {
	_, err := ParseIdentifier(string(i))
	return err
}

// SizeInBits returns the encoded size of the identifier.
func (i Identifier) SizeInBits() uint8 {
	return uint8(len(i) * 8)
}

// String implements the fmt.Stringer interface.
func (i Identifier) String() string {
	return string(i)
}

func (i Identifier) write(dst Bits, e Endianness) (Bits, error) {
	// validate
	err := i.Validate()
	if err != nil {
		return dst, err
	}

	// write size and bits
	dst = appendUint(dst, uint64(i.SizeInBits()), 8, e)
	dst = appendOrdered(dst, BytesToBits([]byte(i)), e)

	return dst, nil
}

// ProgramID identifies a program by name and network.
type ProgramID struct {
	Name    Identifier
	Network Identifier
}

// ParseProgramID parses a program ID of the form "name.network".
func ParseProgramID(s string) (ProgramID, error) {
	// split
	idx := strings.LastIndexByte(s, '.')
	if idx < 0 {
		return ProgramID{}, errors.Wrapf(ErrInvalidIdentifier, "program id %q is missing a network", s)
	}

	// parse name
	name, err := ParseIdentifier(s[:idx])
	if err != nil {
		return ProgramID{}, err
	}

	// parse network
	network, err := ParseIdentifier(s[idx+1:])
	if err != nil {
		return ProgramID{}, err
	}

	return ProgramID{Name: name, Network: network}, nil
}

// MustProgramID is like ParseProgramID but panics on error.
func MustProgramID(s string) ProgramID {
	id, err := ParseProgramID(s)
	if err != nil {
		panic(err)
	}

	return id
}

// Validate returns an error if the program ID is malformed.
func (p ProgramID) Validate() error {
	// check name
	err := p.Name.Validate()
	if err != nil {
		return err
	}

	return p.Network.Validate()
}

// String implements the fmt.Stringer interface.
func (p ProgramID) String() string {
	return string(p.Name) + "." + string(p.Network)
}
