package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/minsuk-dev/account-api/internal/domain"
)

// MockAccountService implements account.Service for testing
type MockAccountService struct {
	// Function fields for customizable behavior
	CreateAccountFn func(ctx context.Context, userID uuid.UUID, initialBalance int64) (*domain.Account, error)
	CloseAccountFn  func(ctx context.Context, userID uuid.UUID, accountNumber string) (*domain.Account, error)
	GetAccountFn    func(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	ListAccountsFn  func(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error)

	// Default response values
	Account  *domain.Account
	Accounts []*domain.Account
	Err      error
}

// CreateAccount implements the account.Service interface
func (m *MockAccountService) CreateAccount(ctx context.Context, userID uuid.UUID, initialBalance int64) (*domain.Account, error) {
	if m.CreateAccountFn != nil {
		return m.CreateAccountFn(ctx, userID, initialBalance)
	}
	return m.Account, m.Err
}

// CloseAccount implements the account.Service interface
func (m *MockAccountService) CloseAccount(ctx context.Context, userID uuid.UUID, accountNumber string) (*domain.Account, error) {
	if m.CloseAccountFn != nil {
		return m.CloseAccountFn(ctx, userID, accountNumber)
	}
	return m.Account, m.Err
}

// GetAccount implements the account.Service interface
func (m *MockAccountService) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	if m.GetAccountFn != nil {
		return m.GetAccountFn(ctx, id)
	}
	return m.Account, m.Err
}

// ListAccounts implements the account.Service interface
func (m *MockAccountService) ListAccounts(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	if m.ListAccountsFn != nil {
		return m.ListAccountsFn(ctx, userID)
	}
	return m.Accounts, m.Err
}
