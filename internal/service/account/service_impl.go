package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/minsuk-dev/account-api/internal/domain"
	"github.com/minsuk-dev/account-api/internal/platform/logger"
	"github.com/minsuk-dev/account-api/internal/store"
)

// firstAccountNumber is allocated when the store holds no accounts yet.
const firstAccountNumber = "1000000000"

// allocationAttempts bounds the retries when a concurrently created
// account takes the number this command computed. The store's unique
// constraint on account_number detects the collision.
const allocationAttempts = 3

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

// serviceImpl implements the Service interface.
type serviceImpl struct {
	db           *sql.DB
	userStore    store.UserStore
	accountStore store.AccountStore
	logger       *slog.Logger
}

// NewService creates a new account lifecycle Service.
func NewService(
	db *sql.DB,
	userStore store.UserStore,
	accountStore store.AccountStore,
	logger *slog.Logger,
) Service {
	if db == nil {
		panic("db cannot be nil")
	}
	if userStore == nil {
		panic("userStore cannot be nil")
	}
	if accountStore == nil {
		panic("accountStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &serviceImpl{
		db:           db,
		userStore:    userStore,
		accountStore: accountStore,
		logger:       logger.With(slog.String("component", "account_service")),
	}
}

// CreateAccount implements Service.CreateAccount.
func (s *serviceImpl) CreateAccount(
	ctx context.Context,
	userID uuid.UUID,
	initialBalance int64,
) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == uuid.Nil {
		return nil, domain.NewErrorf(domain.CodeInvalidRequest, "user ID cannot be empty")
	}
	if initialBalance < 0 {
		return nil, domain.NewErrorf(domain.CodeInvalidRequest,
			"initial balance cannot be negative, got %d", initialBalance)
	}

	var created *domain.Account
	var err error
	for attempt := 0; attempt < allocationAttempts; attempt++ {
		created, err = s.createAccountOnce(ctx, userID, initialBalance)
		if errors.Is(err, store.ErrAccountNumberExists) {
			// A concurrent command won the race for this number.
			// Reallocate from the fresh maximum and try again.
			log.Debug("account number collision, retrying allocation",
				slog.String("user_id", userID.String()),
				slog.Int("attempt", attempt+1))
			continue
		}
		break
	}
	if err != nil {
		if errors.Is(err, store.ErrAccountNumberExists) {
			log.Error("account number allocation exhausted retries",
				slog.String("user_id", userID.String()))
			return nil, fmt.Errorf("failed to allocate account number: %w", err)
		}
		return nil, err
	}

	log.Info("account opened",
		slog.String("user_id", userID.String()),
		slog.String("account_number", created.AccountNumber),
		slog.Int64("initial_balance", initialBalance))
	return created, nil
}

// createAccountOnce runs one allocation attempt as a single unit of
// work: user lookup, ceiling check, number allocation, and insert all
// share one transaction.
func (s *serviceImpl) createAccountOnce(
	ctx context.Context,
	userID uuid.UUID,
	initialBalance int64,
) (*domain.Account, error) {
	var created *domain.Account
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.userStore.WithTx(tx)
		accounts := s.accountStore.WithTx(tx)

		user, err := users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return domain.NewErrorf(domain.CodeUserNotFound, "user %s not found", userID)
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		count, err := accounts.CountByUserID(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to count accounts: %w", err)
		}
		if count >= domain.MaxAccountsPerUser {
			return domain.NewErrorf(domain.CodeMaxAccountsPerUser,
				"user %s already holds %d accounts", userID, count)
		}

		number, err := s.nextAccountNumber(ctx, accounts)
		if err != nil {
			return err
		}

		account, err := domain.NewAccount(user.ID, number, initialBalance)
		if err != nil {
			return err
		}

		if err := accounts.Create(ctx, account); err != nil {
			return err
		}

		created = account
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// nextAccountNumber computes the successor of the largest allocated
// account number, or the first number when the store is empty.
func (s *serviceImpl) nextAccountNumber(ctx context.Context, accounts store.AccountStore) (string, error) {
	max, err := accounts.GetMaxAccountNumber(ctx)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return firstAccountNumber, nil
		}
		return "", fmt.Errorf("failed to get max account number: %w", err)
	}

	n, err := strconv.ParseInt(max, 10, 64)
	if err != nil {
		return "", fmt.Errorf("malformed account number %q in store: %w", max, err)
	}

	return strconv.FormatInt(n+1, 10), nil
}

// CloseAccount implements Service.CloseAccount.
func (s *serviceImpl) CloseAccount(
	ctx context.Context,
	userID uuid.UUID,
	accountNumber string,
) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == uuid.Nil {
		return nil, domain.NewErrorf(domain.CodeInvalidRequest, "user ID cannot be empty")
	}
	if accountNumber == "" {
		return nil, domain.NewErrorf(domain.CodeInvalidRequest, "account number cannot be empty")
	}

	var closed *domain.Account
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.userStore.WithTx(tx)
		accounts := s.accountStore.WithTx(tx)

		user, err := users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return domain.NewErrorf(domain.CodeUserNotFound, "user %s not found", userID)
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		account, err := accounts.GetByNumberForUpdate(ctx, accountNumber)
		if err != nil {
			if errors.Is(err, store.ErrAccountNotFound) {
				return domain.NewErrorf(domain.CodeAccountNotFound,
					"account %s not found", accountNumber)
			}
			return fmt.Errorf("failed to get account: %w", err)
		}

		if account.UserID != user.ID {
			return domain.NewErrorf(domain.CodeOwnerMismatch,
				"account %s is not owned by user %s", accountNumber, userID)
		}

		if err := account.Unregister(); err != nil {
			return err
		}

		if err := accounts.Update(ctx, account); err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}

		closed = account
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("account closed",
		slog.String("user_id", userID.String()),
		slog.String("account_number", accountNumber))
	return closed, nil
}

// GetAccount implements Service.GetAccount.
func (s *serviceImpl) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	if id == uuid.Nil {
		return nil, domain.NewErrorf(domain.CodeInvalidRequest, "account ID cannot be empty")
	}

	account, err := s.accountStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return nil, domain.NewErrorf(domain.CodeAccountNotFound, "account %s not found", id)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return account, nil
}

// ListAccounts implements Service.ListAccounts.
func (s *serviceImpl) ListAccounts(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	if userID == uuid.Nil {
		return nil, domain.NewErrorf(domain.CodeInvalidRequest, "user ID cannot be empty")
	}

	if _, err := s.userStore.GetByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domain.NewErrorf(domain.CodeUserNotFound, "user %s not found", userID)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	accounts, err := s.accountStore.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	return accounts, nil
}
