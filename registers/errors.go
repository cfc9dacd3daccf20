package registers

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrValueKindRejected is returned if a value other than a plaintext is stored.
var ErrValueKindRejected = errors.New("registers: value kind rejected")

// ErrNotAssignable is returned if a store targets a member register.
var ErrNotAssignable = errors.New("registers: register not assignable")

// ErrUndeclaredRegister is returned if a locator has no declared type.
var ErrUndeclaredRegister = errors.New("registers: undeclared register")

// ErrTypeMismatch is returned if a value does not match the declared type of
// its register.
var ErrTypeMismatch = errors.New("registers: type mismatch")

// ErrUnassigned is returned if an unassigned register is loaded.
var ErrUnassigned = errors.New("registers: unassigned register")

// ErrInvalidMember is returned if a member path does not resolve.
var ErrInvalidMember = errors.New("registers: invalid member")

// HaltError is returned once a register file has halted. It poisons the file,
// every later operation returns the same error.
type HaltError struct {
	Register Register
	Cause    error
}

// Error implements the error interface.
func (e *HaltError) Error() string {
	return fmt.Sprintf("registers: halted at %s: %s", e.Register, e.Cause)
}

// Unwrap returns the cause.
func (e *HaltError) Unwrap() error {
	return e.Cause
}

// IsHalt returns whether the error is or wraps a halt error.
func IsHalt(err error) bool {
	var halt *HaltError
	return errors.As(err, &halt)
}
