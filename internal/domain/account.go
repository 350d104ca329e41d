package domain

import (
	"time"

	"github.com/google/uuid"
)

// AccountStatus represents the lifecycle state of an account.
type AccountStatus string

// Possible account status values. An account starts in use and can only
// transition to unregistered; unregistered is terminal.
const (
	AccountStatusInUse        AccountStatus = "in_use"
	AccountStatusUnregistered AccountStatus = "unregistered"
)

// MaxAccountsPerUser is the ceiling on accounts a single user may ever
// hold, counting closed accounts as well as active ones.
const MaxAccountsPerUser = 10

// Account is a monetary holding owned by a single user. Balance is kept
// in integer minor units and must never go negative. Accounts are never
// physically deleted: closing one is a status transition.
type Account struct {
	ID             uuid.UUID     `json:"id"`
	UserID         uuid.UUID     `json:"user_id"`
	AccountNumber  string        `json:"account_number"`
	Balance        int64         `json:"balance"`
	Status         AccountStatus `json:"status"`
	RegisteredAt   time.Time     `json:"registered_at"`
	UnregisteredAt *time.Time    `json:"unregistered_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// NewAccount creates an active account for the given user with the
// allocated account number and initial balance.
// Returns an error if validation fails.
func NewAccount(userID uuid.UUID, accountNumber string, initialBalance int64) (*Account, error) {
	now := time.Now().UTC()
	account := &Account{
		ID:            uuid.New(),
		UserID:        userID,
		AccountNumber: accountNumber,
		Balance:       initialBalance,
		Status:        AccountStatusInUse,
		RegisteredAt:  now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	return account, nil
}

// Validate checks the Account's structural invariants.
func (a *Account) Validate() error {
	if a.ID == uuid.Nil {
		return NewErrorf(CodeInvalidRequest, "account ID cannot be empty")
	}
	if a.UserID == uuid.Nil {
		return NewErrorf(CodeInvalidRequest, "account user ID cannot be empty")
	}
	if a.AccountNumber == "" {
		return NewErrorf(CodeInvalidRequest, "account number cannot be empty")
	}
	if a.Balance < 0 {
		return NewErrorf(CodeInvalidRequest, "account balance cannot be negative")
	}
	if a.Status != AccountStatusInUse && a.Status != AccountStatusUnregistered {
		return NewErrorf(CodeInvalidRequest, "invalid account status %q", a.Status)
	}
	return nil
}

// UseBalance debits amount from the account. The account must be active
// and hold at least amount.
func (a *Account) UseBalance(amount int64) error {
	if amount <= 0 {
		return NewErrorf(CodeInvalidRequest, "amount must be positive, got %d", amount)
	}
	if a.Status == AccountStatusUnregistered {
		return NewError(CodeAccountAlreadyClosed)
	}
	if a.Balance < amount {
		return NewErrorf(CodeInsufficientBalance,
			"balance %d is smaller than requested amount %d", a.Balance, amount)
	}

	a.Balance -= amount
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// CancelBalance credits amount back to the account, compensating a
// prior debit.
func (a *Account) CancelBalance(amount int64) error {
	if amount <= 0 {
		return NewErrorf(CodeInvalidRequest, "amount must be positive, got %d", amount)
	}

	a.Balance += amount
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// Unregister closes the account. The balance must already be zero and
// the account must still be active.
func (a *Account) Unregister() error {
	if a.Status == AccountStatusUnregistered {
		return NewError(CodeAccountAlreadyClosed)
	}
	if a.Balance != 0 {
		return NewErrorf(CodeBalanceNotEmpty,
			"cannot close account %s with balance %d", a.AccountNumber, a.Balance)
	}

	now := time.Now().UTC()
	a.Status = AccountStatusUnregistered
	a.UnregisteredAt = &now
	a.UpdatedAt = now
	return nil
}
