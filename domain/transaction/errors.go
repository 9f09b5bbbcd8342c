package transaction

import "errors"

var (
	// ErrTransactionNotFound no transaction exists with the given ID.
	// Surfaced as a distinct not-found signal, never as a generic failure.
	ErrTransactionNotFound = errors.New("transaction not found")
)
