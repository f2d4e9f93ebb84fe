package vars

import "github.com/AnatoleLucet/vars/internal"

var (
	// ErrInvalidValue is matched by errors from Set when the value fails validation.
	ErrInvalidValue = internal.ErrInvalidValue

	// ErrTxnFailed is matched by errors from a commit that was rolled back.
	ErrTxnFailed = internal.ErrTxnFailed

	// ErrTxnActive is returned by Begin when the goroutine already has a transaction open.
	ErrTxnActive = internal.ErrTxnActive

	// ErrTxnClosed is returned when finishing a transaction twice.
	ErrTxnClosed = internal.ErrTxnClosed
)

type (
	InvalidValueError = internal.InvalidValueError
	CommitError       = internal.CommitError
)
