package plaintext

import "github.com/pkg/errors"

// ErrProtocolLimit is returned if a count or length prefix overflows its
// fixed width while encoding. The value is malformed and must be rejected.
var ErrProtocolLimit = errors.New("plaintext: protocol limit exceeded")

// ErrInvalidIdentifier is returned for malformed identifiers.
var ErrInvalidIdentifier = errors.New("plaintext: invalid identifier")

// ErrDuplicateMember is returned if a struct declares a member twice.
var ErrDuplicateMember = errors.New("plaintext: duplicate member")

// ErrTypeMismatch is returned if a value does not match a type.
var ErrTypeMismatch = errors.New("plaintext: type mismatch")

// ErrNilValue is returned if a nil value is used.
var ErrNilValue = errors.New("plaintext: nil value")
