package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/minsuk-dev/account-api/internal/domain"
)

// MockTransactionService implements transaction.Service for testing
type MockTransactionService struct {
	// Function fields for customizable behavior
	UseBalanceFn                  func(ctx context.Context, userID uuid.UUID, accountNumber string, amount int64) (*domain.Transaction, error)
	SaveFailedUseTransactionFn    func(ctx context.Context, accountNumber string, amount int64) error
	CancelBalanceFn               func(ctx context.Context, transactionID, accountNumber string, amount int64) (*domain.Transaction, error)
	SaveFailedCancelTransactionFn func(ctx context.Context, accountNumber string, amount int64) error
	GetTransactionFn              func(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// Default response values
	Transaction *domain.Transaction
	Err         error

	// Call tracking for verification of failure recording
	SaveFailedUseCalls struct {
		mu             sync.Mutex
		Count          int
		AccountNumbers []string
		Amounts        []int64
	}

	SaveFailedCancelCalls struct {
		mu             sync.Mutex
		Count          int
		AccountNumbers []string
		Amounts        []int64
	}
}

// UseBalance implements the transaction.Service interface
func (m *MockTransactionService) UseBalance(ctx context.Context, userID uuid.UUID, accountNumber string, amount int64) (*domain.Transaction, error) {
	if m.UseBalanceFn != nil {
		return m.UseBalanceFn(ctx, userID, accountNumber, amount)
	}
	return m.Transaction, m.Err
}

// SaveFailedUseTransaction implements the transaction.Service interface
func (m *MockTransactionService) SaveFailedUseTransaction(ctx context.Context, accountNumber string, amount int64) error {
	m.SaveFailedUseCalls.mu.Lock()
	m.SaveFailedUseCalls.Count++
	m.SaveFailedUseCalls.AccountNumbers = append(m.SaveFailedUseCalls.AccountNumbers, accountNumber)
	m.SaveFailedUseCalls.Amounts = append(m.SaveFailedUseCalls.Amounts, amount)
	m.SaveFailedUseCalls.mu.Unlock()

	if m.SaveFailedUseTransactionFn != nil {
		return m.SaveFailedUseTransactionFn(ctx, accountNumber, amount)
	}
	return nil
}

// CancelBalance implements the transaction.Service interface
func (m *MockTransactionService) CancelBalance(ctx context.Context, transactionID, accountNumber string, amount int64) (*domain.Transaction, error) {
	if m.CancelBalanceFn != nil {
		return m.CancelBalanceFn(ctx, transactionID, accountNumber, amount)
	}
	return m.Transaction, m.Err
}

// SaveFailedCancelTransaction implements the transaction.Service interface
func (m *MockTransactionService) SaveFailedCancelTransaction(ctx context.Context, accountNumber string, amount int64) error {
	m.SaveFailedCancelCalls.mu.Lock()
	m.SaveFailedCancelCalls.Count++
	m.SaveFailedCancelCalls.AccountNumbers = append(m.SaveFailedCancelCalls.AccountNumbers, accountNumber)
	m.SaveFailedCancelCalls.Amounts = append(m.SaveFailedCancelCalls.Amounts, amount)
	m.SaveFailedCancelCalls.mu.Unlock()

	if m.SaveFailedCancelTransactionFn != nil {
		return m.SaveFailedCancelTransactionFn(ctx, accountNumber, amount)
	}
	return nil
}

// GetTransaction implements the transaction.Service interface
func (m *MockTransactionService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	if m.GetTransactionFn != nil {
		return m.GetTransactionFn(ctx, transactionID)
	}
	return m.Transaction, m.Err
}
