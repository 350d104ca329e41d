package mocks

import (
	"context"
	"database/sql"
	"sort"

	"github.com/google/uuid"
	"github.com/minsuk-dev/account-api/internal/domain"
	"github.com/minsuk-dev/account-api/internal/store"
)

// MockAccountStore implements store.AccountStore for testing
type MockAccountStore struct {
	// Function fields for customizable behavior
	CreateFn               func(ctx context.Context, account *domain.Account) error
	UpdateFn               func(ctx context.Context, account *domain.Account) error
	GetByIDFn              func(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByNumberFn          func(ctx context.Context, number string) (*domain.Account, error)
	GetByNumberForUpdateFn func(ctx context.Context, number string) (*domain.Account, error)
	FindByUserIDFn         func(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error)
	CountByUserIDFn        func(ctx context.Context, userID uuid.UUID) (int, error)
	GetMaxAccountNumberFn  func(ctx context.Context) (string, error)

	// Data for default implementation, keyed by account number
	Accounts map[string]*domain.Account
}

// NewMockAccountStore creates a new mock store with initialized defaults
func NewMockAccountStore() *MockAccountStore {
	return &MockAccountStore{
		Accounts: make(map[string]*domain.Account),
	}
}

// Create implements the AccountStore interface
func (m *MockAccountStore) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, account)
	}

	if _, exists := m.Accounts[account.AccountNumber]; exists {
		return store.ErrAccountNumberExists
	}

	m.Accounts[account.AccountNumber] = account
	return nil
}

// Update implements the AccountStore interface
func (m *MockAccountStore) Update(ctx context.Context, account *domain.Account) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, account)
	}

	if _, exists := m.Accounts[account.AccountNumber]; !exists {
		return store.ErrAccountNotFound
	}

	m.Accounts[account.AccountNumber] = account
	return nil
}

// GetByID implements the AccountStore interface
func (m *MockAccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	for _, account := range m.Accounts {
		if account.ID == id {
			return account, nil
		}
	}

	return nil, store.ErrAccountNotFound
}

// GetByNumber implements the AccountStore interface
func (m *MockAccountStore) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	if m.GetByNumberFn != nil {
		return m.GetByNumberFn(ctx, number)
	}

	account, exists := m.Accounts[number]
	if !exists {
		return nil, store.ErrAccountNotFound
	}

	return account, nil
}

// GetByNumberForUpdate implements the AccountStore interface
func (m *MockAccountStore) GetByNumberForUpdate(ctx context.Context, number string) (*domain.Account, error) {
	if m.GetByNumberForUpdateFn != nil {
		return m.GetByNumberForUpdateFn(ctx, number)
	}

	return m.GetByNumber(ctx, number)
}

// FindByUserID implements the AccountStore interface
func (m *MockAccountStore) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	if m.FindByUserIDFn != nil {
		return m.FindByUserIDFn(ctx, userID)
	}

	accounts := make([]*domain.Account, 0)
	for _, account := range m.Accounts {
		if account.UserID == userID {
			accounts = append(accounts, account)
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})

	return accounts, nil
}

// CountByUserID implements the AccountStore interface
func (m *MockAccountStore) CountByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	if m.CountByUserIDFn != nil {
		return m.CountByUserIDFn(ctx, userID)
	}

	count := 0
	for _, account := range m.Accounts {
		if account.UserID == userID {
			count++
		}
	}

	return count, nil
}

// GetMaxAccountNumber implements the AccountStore interface
func (m *MockAccountStore) GetMaxAccountNumber(ctx context.Context) (string, error) {
	if m.GetMaxAccountNumberFn != nil {
		return m.GetMaxAccountNumberFn(ctx)
	}

	max := ""
	for number := range m.Accounts {
		if len(number) > len(max) || (len(number) == len(max) && number > max) {
			max = number
		}
	}
	if max == "" {
		return "", store.ErrAccountNotFound
	}

	return max, nil
}

// WithTx implements the AccountStore interface for transaction support
func (m *MockAccountStore) WithTx(tx *sql.Tx) store.AccountStore {
	// For mock purposes, just return the same mock
	return m
}
