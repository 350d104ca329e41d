package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/minsuk-dev/account-api/internal/domain"
)

// UserStore defines the read-only interface for user persistence.
// Users are created and managed outside this service, so the ledger
// core only ever resolves them by ID.
type UserStore interface {
	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// WithTx returns a new UserStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) UserStore
}
