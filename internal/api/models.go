package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/minsuk-dev/account-api/internal/domain"
)

// Common request/response structures

// CreateAccountRequest defines the payload for opening a new account.
type CreateAccountRequest struct {
	UserID         uuid.UUID `json:"user_id"         validate:"required"`
	InitialBalance int64     `json:"initial_balance" validate:"min=0"`
}

// CreateAccountResponse defines the successful response for account creation.
type CreateAccountResponse struct {
	UserID        uuid.UUID `json:"user_id"`
	AccountNumber string    `json:"account_number"`
	RegisteredAt  time.Time `json:"registered_at"`
}

// CloseAccountRequest defines the payload for closing an account.
type CloseAccountRequest struct {
	UserID        uuid.UUID `json:"user_id"        validate:"required"`
	AccountNumber string    `json:"account_number" validate:"required,numeric"`
}

// CloseAccountResponse defines the successful response for account closure.
type CloseAccountResponse struct {
	UserID         uuid.UUID `json:"user_id"`
	AccountNumber  string    `json:"account_number"`
	UnregisteredAt time.Time `json:"unregistered_at"`
}

// AccountResponse defines the full account detail payload.
type AccountResponse struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	AccountNumber  string     `json:"account_number"`
	Balance        int64      `json:"balance"`
	Status         string     `json:"status"`
	RegisteredAt   time.Time  `json:"registered_at"`
	UnregisteredAt *time.Time `json:"unregistered_at,omitempty"`
}

// AccountSummary is the per-account element of the list endpoint: just
// the number and current balance.
type AccountSummary struct {
	AccountNumber string `json:"account_number"`
	Balance       int64  `json:"balance"`
}

// UseBalanceRequest defines the payload for debiting an account.
type UseBalanceRequest struct {
	UserID        uuid.UUID `json:"user_id"        validate:"required"`
	AccountNumber string    `json:"account_number" validate:"required,numeric"`
	Amount        int64     `json:"amount"         validate:"required,min=1"`
}

// CancelBalanceRequest defines the payload for cancelling a prior debit.
type CancelBalanceRequest struct {
	TransactionID string `json:"transaction_id" validate:"required"`
	AccountNumber string `json:"account_number" validate:"required,numeric"`
	Amount        int64  `json:"amount"         validate:"required,min=1"`
}

// TransactionResponse defines the successful response for the use and
// cancel endpoints.
type TransactionResponse struct {
	AccountNumber     string    `json:"account_number"`
	TransactionResult string    `json:"transaction_result"`
	TransactionID     string    `json:"transaction_id"`
	Amount            int64     `json:"amount"`
	TransactedAt      time.Time `json:"transacted_at"`
}

// QueryTransactionResponse defines the payload for the transaction
// lookup endpoint. Unlike TransactionResponse it carries the type, so
// callers can distinguish debits from cancellations.
type QueryTransactionResponse struct {
	AccountNumber     string    `json:"account_number"`
	TransactionType   string    `json:"transaction_type"`
	TransactionResult string    `json:"transaction_result"`
	TransactionID     string    `json:"transaction_id"`
	Amount            int64     `json:"amount"`
	TransactedAt      time.Time `json:"transacted_at"`
}

// accountToResponse converts a domain.Account to an AccountResponse
func accountToResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:             account.ID,
		UserID:         account.UserID,
		AccountNumber:  account.AccountNumber,
		Balance:        account.Balance,
		Status:         string(account.Status),
		RegisteredAt:   account.RegisteredAt,
		UnregisteredAt: account.UnregisteredAt,
	}
}
