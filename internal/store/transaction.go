package store

import (
	"context"
	"database/sql"

	"github.com/minsuk-dev/account-api/internal/domain"
)

// TransactionStore defines the interface for transaction persistence.
// Transaction records form an append-only audit trail: there is no
// update or delete operation by design.
type TransactionStore interface {
	// Create inserts a new transaction record.
	// Returns ErrTransactionIDExists on a transaction id collision.
	Create(ctx context.Context, transaction *domain.Transaction) error

	// GetByTransactionID retrieves a transaction by its opaque
	// transaction id (the natural key, not the row id).
	// Returns ErrTransactionNotFound if the transaction does not exist.
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// WithTx returns a new TransactionStore instance that uses the
	// provided transaction. The transaction is created and managed by
	// the caller.
	WithTx(tx *sql.Tx) TransactionStore
}
