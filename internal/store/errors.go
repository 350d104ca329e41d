package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in
	// the store. Entity-specific variants below wrap it.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an insert would violate a
	// uniqueness constraint (e.g. an account number already taken).
	ErrDuplicate = errors.New("entity already exists")

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrAccountNotFound indicates that the requested account does not exist.
	ErrAccountNotFound = fmt.Errorf("%w: account", ErrNotFound)

	// ErrTransactionNotFound indicates that the requested transaction does not exist.
	ErrTransactionNotFound = fmt.Errorf("%w: transaction", ErrNotFound)

	// ErrAccountNumberExists indicates that an account with the given
	// number already exists. CreateAccount retries allocation on this.
	ErrAccountNumberExists = fmt.Errorf("%w: account number", ErrDuplicate)

	// ErrTransactionIDExists indicates a transaction id collision.
	ErrTransactionIDExists = fmt.Errorf("%w: transaction id", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of uniqueness
// violation error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
