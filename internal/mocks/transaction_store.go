package mocks

import (
	"context"
	"database/sql"

	"github.com/minsuk-dev/account-api/internal/domain"
	"github.com/minsuk-dev/account-api/internal/store"
)

// MockTransactionStore implements store.TransactionStore for testing
type MockTransactionStore struct {
	// Function fields for customizable behavior
	CreateFn             func(ctx context.Context, transaction *domain.Transaction) error
	GetByTransactionIDFn func(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// Data for default implementation, keyed by transaction id
	Transactions map[string]*domain.Transaction
}

// NewMockTransactionStore creates a new mock store with initialized defaults
func NewMockTransactionStore() *MockTransactionStore {
	return &MockTransactionStore{
		Transactions: make(map[string]*domain.Transaction),
	}
}

// Create implements the TransactionStore interface
func (m *MockTransactionStore) Create(ctx context.Context, transaction *domain.Transaction) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, transaction)
	}

	if _, exists := m.Transactions[transaction.TransactionID]; exists {
		return store.ErrTransactionIDExists
	}

	m.Transactions[transaction.TransactionID] = transaction
	return nil
}

// GetByTransactionID implements the TransactionStore interface
func (m *MockTransactionStore) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	if m.GetByTransactionIDFn != nil {
		return m.GetByTransactionIDFn(ctx, transactionID)
	}

	transaction, exists := m.Transactions[transactionID]
	if !exists {
		return nil, store.ErrTransactionNotFound
	}

	return transaction, nil
}

// WithTx implements the TransactionStore interface for transaction support
func (m *MockTransactionStore) WithTx(tx *sql.Tx) store.TransactionStore {
	// For mock purposes, just return the same mock
	return m
}
