// Package transaction implements the transaction processor: balance
// debits ("use"), compensating credits ("cancel"), and the durable
// recording of failed attempts.
package transaction

import (
	"context"

	"github.com/google/uuid"
	"github.com/minsuk-dev/account-api/internal/domain"
)

// Service defines the balance transaction operations.
type Service interface {
	// UseBalance debits amount from the account. Validation order:
	// owner match, account active, sufficient funds; the first failure
	// wins, mutates nothing, and records nothing. On success the
	// balance is decremented and a use/success transaction is recorded
	// with the post-decrement balance as its snapshot.
	UseBalance(ctx context.Context, userID uuid.UUID, accountNumber string, amount int64) (*domain.Transaction, error)

	// SaveFailedUseTransaction durably records a use attempt that
	// failed outside this processor. The balance is untouched and the
	// snapshot holds the current balance. Ownership, status, and funds
	// are deliberately not re-checked: callers invoke this only after
	// those checks already ran and failed elsewhere.
	SaveFailedUseTransaction(ctx context.Context, accountNumber string, amount int64) error

	// CancelBalance credits amount back to the account, exactly
	// reversing the referenced prior transaction. Validation order:
	// the transaction must belong to the account, the amount must
	// match exactly (no partial cancellation), and the transaction
	// must be no older than one year.
	CancelBalance(ctx context.Context, transactionID, accountNumber string, amount int64) (*domain.Transaction, error)

	// SaveFailedCancelTransaction is the cancel-side counterpart of
	// SaveFailedUseTransaction.
	SaveFailedCancelTransaction(ctx context.Context, accountNumber string, amount int64) error

	// GetTransaction retrieves a transaction by its opaque transaction
	// id. An empty id is rejected with domain.ErrInvalidRequest before
	// any store access.
	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)
}
