package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TransactionType distinguishes balance debits from compensating
// credits.
type TransactionType string

// Possible transaction types.
const (
	TransactionTypeUse    TransactionType = "use"
	TransactionTypeCancel TransactionType = "cancel"
)

// TransactionResult records whether an attempt succeeded or failed.
type TransactionResult string

// Possible transaction results.
const (
	TransactionResultSuccess TransactionResult = "success"
	TransactionResultFailure TransactionResult = "failure"
)

// Transaction is an immutable record of one attempted balance change.
// BalanceSnapshot holds the account balance immediately after the
// transaction's effect, or the unchanged balance for failed attempts.
// Records are append-only: once written they are never updated.
type Transaction struct {
	ID              uuid.UUID         `json:"id"`
	TransactionID   string            `json:"transaction_id"`
	AccountID       uuid.UUID         `json:"account_id"`
	Type            TransactionType   `json:"transaction_type"`
	Result          TransactionResult `json:"transaction_result"`
	Amount          int64             `json:"amount"`
	BalanceSnapshot int64             `json:"balance_snapshot"`
	TransactedAt    time.Time         `json:"transacted_at"`
}

// NewTransaction creates a transaction record against the given account
// with a freshly generated transaction id and the account's current
// balance as the snapshot.
func NewTransaction(
	account *Account,
	txType TransactionType,
	result TransactionResult,
	amount int64,
) (*Transaction, error) {
	if account == nil {
		return nil, NewErrorf(CodeInvalidRequest, "transaction account cannot be nil")
	}
	if amount <= 0 {
		return nil, NewErrorf(CodeInvalidRequest, "amount must be positive, got %d", amount)
	}
	if txType != TransactionTypeUse && txType != TransactionTypeCancel {
		return nil, NewErrorf(CodeInvalidRequest, "invalid transaction type %q", txType)
	}
	if result != TransactionResultSuccess && result != TransactionResultFailure {
		return nil, NewErrorf(CodeInvalidRequest, "invalid transaction result %q", result)
	}

	return &Transaction{
		ID:              uuid.New(),
		TransactionID:   NewTransactionID(),
		AccountID:       account.ID,
		Type:            txType,
		Result:          result,
		Amount:          amount,
		BalanceSnapshot: account.Balance,
		TransactedAt:    time.Now().UTC(),
	}, nil
}

// NewTransactionID generates an opaque globally unique transaction
// token: a UUID v4 with the dashes stripped.
func NewTransactionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
