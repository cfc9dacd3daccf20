package strata

import "github.com/pkg/errors"

// ErrDuplicateKey is returned if an insert would index a key twice. The store
// is left unchanged.
var ErrDuplicateKey = errors.New("strata: duplicate key")

// ErrMissingReference is returned if a stored transaction references a
// transition that is not stored, or an origin references an unknown
// commitment.
var ErrMissingReference = errors.New("strata: missing reference")

// ErrUnsupportedOrigin is returned for well-formed origins that cannot be
// resolved yet.
var ErrUnsupportedOrigin = errors.New("strata: unsupported origin")

// ErrNotFound is returned if a transaction or transition is not stored.
var ErrNotFound = errors.New("strata: not found")

// ErrInvalidTransaction is returned for malformed transactions.
var ErrInvalidTransaction = errors.New("strata: invalid transaction")

// ErrInvalidDeployment is returned if the functions of a deployed program do
// not map one to one onto its verifying keys.
var ErrInvalidDeployment = errors.New("strata: invalid deployment")

// ErrCorrupted is returned if a stored record cannot be decoded.
var ErrCorrupted = errors.New("strata: corrupted record")
