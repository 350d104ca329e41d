package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/minsuk-dev/account-api/internal/domain"
)

// AccountStore defines the interface for account persistence.
type AccountStore interface {
	// Create inserts a new account.
	// Returns ErrAccountNumberExists if the account number is already
	// taken; the caller reallocates and retries.
	Create(ctx context.Context, account *domain.Account) error

	// Update persists changes to an existing account (balance, status,
	// unregistered-at). Returns ErrAccountNotFound if the account does
	// not exist.
	Update(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by its unique ID.
	// Returns ErrAccountNotFound if the account does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)

	// GetByNumber retrieves an account by its account number.
	// Returns ErrAccountNotFound if the account does not exist.
	GetByNumber(ctx context.Context, number string) (*domain.Account, error)

	// GetByNumberForUpdate retrieves an account by number and locks the
	// row for the remainder of the surrounding transaction, serializing
	// concurrent balance mutations on the same account. Must only be
	// called on a store bound to a transaction via WithTx.
	// Returns ErrAccountNotFound if the account does not exist.
	GetByNumberForUpdate(ctx context.Context, number string) (*domain.Account, error)

	// FindByUserID retrieves all accounts owned by the user, in
	// creation order. Returns an empty slice if the user has none.
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error)

	// CountByUserID returns how many accounts the user has ever held,
	// counting closed accounts as well as active ones.
	CountByUserID(ctx context.Context, userID uuid.UUID) (int, error)

	// GetMaxAccountNumber returns the numerically largest account
	// number across the whole store, or ErrAccountNotFound if no
	// account exists yet.
	GetMaxAccountNumber(ctx context.Context) (string, error)

	// WithTx returns a new AccountStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) AccountStore
}
