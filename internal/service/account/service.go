// Package account implements the account lifecycle manager: account
// number allocation, the per-user account ceiling, and soft closure.
package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/minsuk-dev/account-api/internal/domain"
)

// Service defines the account lifecycle operations.
type Service interface {
	// CreateAccount opens a new account for the user with the given
	// initial balance (minor units). The account number is allocated
	// from a global monotonic sequence starting at "1000000000".
	// Returns domain.ErrUserNotFound if the user does not exist and
	// domain.ErrMaxAccountsPerUser if the user already holds ten
	// accounts, closed ones included.
	CreateAccount(ctx context.Context, userID uuid.UUID, initialBalance int64) (*domain.Account, error)

	// CloseAccount unregisters the account identified by number.
	// Validation order: owner match, not already closed, zero balance;
	// the first failure wins. Closure is a status transition, never a
	// physical delete.
	CloseAccount(ctx context.Context, userID uuid.UUID, accountNumber string) (*domain.Account, error)

	// GetAccount retrieves an account by its unique ID. A nil ID is
	// rejected with domain.ErrInvalidRequest before any store access.
	GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error)

	// ListAccounts returns the user's accounts in creation order.
	// Returns domain.ErrUserNotFound if the user does not exist.
	ListAccounts(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error)
}
