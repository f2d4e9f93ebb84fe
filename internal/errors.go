package internal

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidValue = errors.New("vars: invalid value")
	ErrTxnFailed    = errors.New("vars: transaction failed")
	ErrTxnActive    = errors.New("vars: transaction already active")
	ErrTxnClosed    = errors.New("vars: transaction already finished")

	errPanicked = errors.New("vars: transaction panicked")
)

// InvalidValueError is returned when a value is rejected by a validate function.
type InvalidValueError struct {
	Value any
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: %v", ErrInvalidValue, e.Value)
}

func (e *InvalidValueError) Is(target error) bool {
	return target == ErrInvalidValue
}

// CommitError is returned when a transaction member fails to commit.
// The whole transaction has been rolled back by the time it is returned.
type CommitError struct {
	// index of the failing member, in registration order
	Member int
	Err    error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("%s: %v", ErrTxnFailed, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

func (e *CommitError) Is(target error) bool {
	return target == ErrTxnFailed
}
