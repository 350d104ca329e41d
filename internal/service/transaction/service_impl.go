package transaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/minsuk-dev/account-api/internal/domain"
	"github.com/minsuk-dev/account-api/internal/platform/logger"
	"github.com/minsuk-dev/account-api/internal/store"
)

// cancelWindow is how long after a transaction a cancellation is still
// accepted.
const cancelWindow = 1 // years

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

// serviceImpl implements the Service interface.
type serviceImpl struct {
	db               *sql.DB
	userStore        store.UserStore
	accountStore     store.AccountStore
	transactionStore store.TransactionStore
	logger           *slog.Logger
	now              func() time.Time
}

// NewService creates a new transaction processor Service.
func NewService(
	db *sql.DB,
	userStore store.UserStore,
	accountStore store.AccountStore,
	transactionStore store.TransactionStore,
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
	if transactionStore == nil {
		panic("transactionStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &serviceImpl{
		db:               db,
		userStore:        userStore,
		accountStore:     accountStore,
		transactionStore: transactionStore,
		logger:           logger.With(slog.String("component", "transaction_service")),
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// UseBalance implements Service.UseBalance.
func (s *serviceImpl) UseBalance(
	ctx context.Context,
	userID uuid.UUID,
	accountNumber string,
	amount int64,
) (*domain.Transaction, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == uuid.Nil {
		return nil, domain.NewErrorf(domain.CodeInvalidRequest, "user ID cannot be empty")
	}
	if accountNumber == "" {
		return nil, domain.NewErrorf(domain.CodeInvalidRequest, "account number cannot be empty")
	}
	if amount <= 0 {
		return nil, domain.NewErrorf(domain.CodeInvalidRequest,
			"amount must be positive, got %d", amount)
	}

	var recorded *domain.Transaction
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.userStore.WithTx(tx)
		accounts := s.accountStore.WithTx(tx)
		transactions := s.transactionStore.WithTx(tx)

		user, err := users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return domain.NewErrorf(domain.CodeUserNotFound, "user %s not found", userID)
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		// The row lock makes the funds check and the decrement atomic
		// against concurrent debits on the same account.
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

		if err := account.UseBalance(amount); err != nil {
			return err
		}

		if err := accounts.Update(ctx, account); err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}

		record, err := domain.NewTransaction(
			account, domain.TransactionTypeUse, domain.TransactionResultSuccess, amount)
		if err != nil {
			return err
		}
		if err := transactions.Create(ctx, record); err != nil {
			return fmt.Errorf("failed to record transaction: %w", err)
		}

		recorded = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("balance used",
		slog.String("account_number", accountNumber),
		slog.String("transaction_id", recorded.TransactionID),
		slog.Int64("amount", amount),
		slog.Int64("balance_snapshot", recorded.BalanceSnapshot))
	return recorded, nil
}

// SaveFailedUseTransaction implements Service.SaveFailedUseTransaction.
func (s *serviceImpl) SaveFailedUseTransaction(
	ctx context.Context,
	accountNumber string,
	amount int64,
) error {
	return s.saveFailedTransaction(ctx, accountNumber, amount, domain.TransactionTypeUse)
}

// SaveFailedCancelTransaction implements Service.SaveFailedCancelTransaction.
func (s *serviceImpl) SaveFailedCancelTransaction(
	ctx context.Context,
	accountNumber string,
	amount int64,
) error {
	return s.saveFailedTransaction(ctx, accountNumber, amount, domain.TransactionTypeCancel)
}

// saveFailedTransaction writes a failure record against the account's
// unchanged balance. It is its own unit of work, separate from the
// command whose failure it records.
func (s *serviceImpl) saveFailedTransaction(
	ctx context.Context,
	accountNumber string,
	amount int64,
	txType domain.TransactionType,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if accountNumber == "" {
		return domain.NewErrorf(domain.CodeInvalidRequest, "account number cannot be empty")
	}
	if amount <= 0 {
		return domain.NewErrorf(domain.CodeInvalidRequest,
			"amount must be positive, got %d", amount)
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		accounts := s.accountStore.WithTx(tx)
		transactions := s.transactionStore.WithTx(tx)

		account, err := accounts.GetByNumber(ctx, accountNumber)
		if err != nil {
			if errors.Is(err, store.ErrAccountNotFound) {
				return domain.NewErrorf(domain.CodeAccountNotFound,
					"account %s not found", accountNumber)
			}
			return fmt.Errorf("failed to get account: %w", err)
		}

		record, err := domain.NewTransaction(
			account, txType, domain.TransactionResultFailure, amount)
		if err != nil {
			return err
		}
		if err := transactions.Create(ctx, record); err != nil {
			return fmt.Errorf("failed to record transaction: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	log.Info("failed transaction recorded",
		slog.String("account_number", accountNumber),
		slog.String("type", string(txType)),
		slog.Int64("amount", amount))
	return nil
}

// CancelBalance implements Service.CancelBalance.
func (s *serviceImpl) CancelBalance(
	ctx context.Context,
	transactionID string,
	accountNumber string,
	amount int64,
) (*domain.Transaction, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if transactionID == "" {
		return nil, domain.NewErrorf(domain.CodeInvalidRequest, "transaction ID cannot be empty")
	}
	if accountNumber == "" {
		return nil, domain.NewErrorf(domain.CodeInvalidRequest, "account number cannot be empty")
	}
	if amount <= 0 {
		return nil, domain.NewErrorf(domain.CodeInvalidRequest,
			"amount must be positive, got %d", amount)
	}

	var recorded *domain.Transaction
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		accounts := s.accountStore.WithTx(tx)
		transactions := s.transactionStore.WithTx(tx)

		original, err := transactions.GetByTransactionID(ctx, transactionID)
		if err != nil {
			if errors.Is(err, store.ErrTransactionNotFound) {
				return domain.NewErrorf(domain.CodeTransactionNotFound,
					"transaction %s not found", transactionID)
			}
			return fmt.Errorf("failed to get transaction: %w", err)
		}

		account, err := accounts.GetByNumberForUpdate(ctx, accountNumber)
		if err != nil {
			if errors.Is(err, store.ErrAccountNotFound) {
				return domain.NewErrorf(domain.CodeAccountNotFound,
					"account %s not found", accountNumber)
			}
			return fmt.Errorf("failed to get account: %w", err)
		}

		if original.AccountID != account.ID {
			return domain.NewErrorf(domain.CodeTransactionAccountMismatch,
				"transaction %s does not belong to account %s", transactionID, accountNumber)
		}

		// Partial cancellation is not permitted.
		if original.Amount != amount {
			return domain.NewErrorf(domain.CodeCancelAmountMismatch,
				"cancel amount %d does not match transaction amount %d", amount, original.Amount)
		}

		if original.TransactedAt.Before(s.now().AddDate(-cancelWindow, 0, 0)) {
			return domain.NewErrorf(domain.CodeTransactionTooOld,
				"transaction %s is older than one year", transactionID)
		}

		if err := account.CancelBalance(amount); err != nil {
			return err
		}

		if err := accounts.Update(ctx, account); err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}

		record, err := domain.NewTransaction(
			account, domain.TransactionTypeCancel, domain.TransactionResultSuccess, amount)
		if err != nil {
			return err
		}
		if err := transactions.Create(ctx, record); err != nil {
			return fmt.Errorf("failed to record transaction: %w", err)
		}

		recorded = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("balance cancelled",
		slog.String("account_number", accountNumber),
		slog.String("cancelled_transaction_id", transactionID),
		slog.String("transaction_id", recorded.TransactionID),
		slog.Int64("amount", amount),
		slog.Int64("balance_snapshot", recorded.BalanceSnapshot))
	return recorded, nil
}

// GetTransaction implements Service.GetTransaction.
func (s *serviceImpl) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	if transactionID == "" {
		return nil, domain.NewErrorf(domain.CodeInvalidRequest, "transaction ID cannot be empty")
	}

	record, err := s.transactionStore.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, store.ErrTransactionNotFound) {
			return nil, domain.NewErrorf(domain.CodeTransactionNotFound,
				"transaction %s not found", transactionID)
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return record, nil
}
