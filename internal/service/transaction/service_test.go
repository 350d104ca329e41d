package transaction

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/minsuk-dev/account-api/internal/domain"
	"github.com/minsuk-dev/account-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHarness bundles the service under test with its mocked
// collaborators.
type testHarness struct {
	service      Service
	impl         *serviceImpl
	db           *sql.DB
	dbMock       sqlmock.Sqlmock
	users        *mocks.MockUserStore
	accounts     *mocks.MockAccountStore
	transactions *mocks.MockTransactionStore
	cleanup      func()
	knownUserID  uuid.UUID
	otherUserID  uuid.UUID
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)

	users := mocks.NewMockUserStore()
	accounts := mocks.NewMockAccountStore()
	transactions := mocks.NewMockTransactionStore()

	userID := uuid.New()
	users.Users[userID] = &domain.User{
		ID:        userID,
		Name:      "hong gil-dong",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	svc := NewService(db, users, accounts, transactions, slog.Default())

	return &testHarness{
		service:      svc,
		impl:         svc.(*serviceImpl),
		db:           db,
		dbMock:       dbMock,
		users:        users,
		accounts:     accounts,
		transactions: transactions,
		cleanup:      func() { _ = db.Close() },
		knownUserID:  userID,
		otherUserID:  uuid.New(),
	}
}

func (h *testHarness) seedAccount(t *testing.T, userID uuid.UUID, number string, balance int64) *domain.Account {
	t.Helper()
	account, err := domain.NewAccount(userID, number, balance)
	require.NoError(t, err)
	h.accounts.Accounts[number] = account
	return account
}

func (h *testHarness) seedUseTransaction(t *testing.T, account *domain.Account, amount int64, transactedAt time.Time) *domain.Transaction {
	t.Helper()
	record, err := domain.NewTransaction(
		account, domain.TransactionTypeUse, domain.TransactionResultSuccess, amount)
	require.NoError(t, err)
	record.TransactedAt = transactedAt
	h.transactions.Transactions[record.TransactionID] = record
	return record
}

func TestUseBalance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("debits and records a success transaction", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()
		account := h.seedAccount(t, h.knownUserID, "1000000000", 10000)

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectCommit()

		record, err := h.service.UseBalance(ctx, h.knownUserID, "1000000000", 1000)
		require.NoError(t, err)
		assert.Equal(t, int64(9000), account.Balance)
		assert.Equal(t, domain.TransactionTypeUse, record.Type)
		assert.Equal(t, domain.TransactionResultSuccess, record.Result)
		assert.Equal(t, int64(1000), record.Amount)
		assert.Equal(t, int64(9000), record.BalanceSnapshot)
		assert.Len(t, record.TransactionID, 32)
		assert.Contains(t, h.transactions.Transactions, record.TransactionID)
		assert.NoError(t, h.dbMock.ExpectationsWereMet())
	})

	t.Run("debiting the entire balance leaves zero", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()
		account := h.seedAccount(t, h.knownUserID, "1000000000", 10)

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectCommit()

		record, err := h.service.UseBalance(ctx, h.knownUserID, "1000000000", 10)
		require.NoError(t, err)
		assert.Equal(t, int64(0), account.Balance)
		assert.Equal(t, int64(0), record.BalanceSnapshot)
	})

	t.Run("insufficient balance mutates nothing and records nothing", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()
		account := h.seedAccount(t, h.knownUserID, "1000000000", 10)

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectRollback()

		_, err := h.service.UseBalance(ctx, h.knownUserID, "1000000000", 10000)
		assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
		assert.Equal(t, int64(10), account.Balance)
		assert.Empty(t, h.transactions.Transactions)
	})

	t.Run("owner mismatch wins over account status", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()

		stranger := h.seedAccount(t, h.otherUserID, "1000000000", 0)
		require.NoError(t, stranger.Unregister())

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectRollback()

		_, err := h.service.UseBalance(ctx, h.knownUserID, "1000000000", 100)
		assert.ErrorIs(t, err, domain.ErrOwnerMismatch)
	})

	t.Run("closed account wins over insufficient funds", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()

		account := h.seedAccount(t, h.knownUserID, "1000000000", 0)
		require.NoError(t, account.Unregister())

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectRollback()

		_, err := h.service.UseBalance(ctx, h.knownUserID, "1000000000", 100)
		assert.ErrorIs(t, err, domain.ErrAccountAlreadyClosed)
	})

	t.Run("unknown user", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()
		h.seedAccount(t, h.knownUserID, "1000000000", 1000)

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectRollback()

		_, err := h.service.UseBalance(ctx, h.otherUserID, "1000000000", 100)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("unknown account", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectRollback()

		_, err := h.service.UseBalance(ctx, h.knownUserID, "9999999999", 100)
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	})

	t.Run("rejects invalid input before touching the store", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()

		_, err := h.service.UseBalance(ctx, uuid.Nil, "1000000000", 100)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)

		_, err = h.service.UseBalance(ctx, h.knownUserID, "", 100)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)

		_, err = h.service.UseBalance(ctx, h.knownUserID, "1000000000", 0)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)

		_, err = h.service.UseBalance(ctx, h.knownUserID, "1000000000", -5)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)

		// No transaction must have been opened for any of these.
		assert.NoError(t, h.dbMock.ExpectationsWereMet())
	})
}

func TestSaveFailedUseTransaction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("records a failure against the unchanged balance", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()
		account := h.seedAccount(t, h.knownUserID, "1000000000", 10)

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectCommit()

		err := h.service.SaveFailedUseTransaction(ctx, "1000000000", 10000)
		require.NoError(t, err)
		assert.Equal(t, int64(10), account.Balance)

		require.Len(t, h.transactions.Transactions, 1)
		for _, record := range h.transactions.Transactions {
			assert.Equal(t, domain.TransactionTypeUse, record.Type)
			assert.Equal(t, domain.TransactionResultFailure, record.Result)
			assert.Equal(t, int64(10000), record.Amount)
			assert.Equal(t, int64(10), record.BalanceSnapshot)
		}
	})

	t.Run("does not re-check ownership or status", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()

		account := h.seedAccount(t, h.otherUserID, "1000000000", 0)
		require.NoError(t, account.Unregister())

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectCommit()

		err := h.service.SaveFailedUseTransaction(ctx, "1000000000", 500)
		require.NoError(t, err)
		require.Len(t, h.transactions.Transactions, 1)
	})

	t.Run("unknown account", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectRollback()

		err := h.service.SaveFailedUseTransaction(ctx, "9999999999", 100)
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	})
}

func TestCancelBalance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("credits the amount back and records a cancel transaction", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()
		account := h.seedAccount(t, h.knownUserID, "1000000000", 800)
		original := h.seedUseTransaction(t, account, 200, time.Now().UTC())

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectCommit()

		record, err := h.service.CancelBalance(ctx, original.TransactionID, "1000000000", 200)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), account.Balance)
		assert.Equal(t, domain.TransactionTypeCancel, record.Type)
		assert.Equal(t, domain.TransactionResultSuccess, record.Result)
		assert.Equal(t, int64(1000), record.BalanceSnapshot)
		assert.NotEqual(t, original.TransactionID, record.TransactionID)
	})

	t.Run("cancelling onto a closed account still credits", func(t *testing.T) {
		// Compensation must go through even after closure was blocked,
		// so the credit does not gate on account status.
		h := newTestHarness(t)
		defer h.cleanup()
		account := h.seedAccount(t, h.knownUserID, "1000000000", 0)
		original := h.seedUseTransaction(t, account, 300, time.Now().UTC())
		require.NoError(t, account.Unregister())

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectCommit()

		_, err := h.service.CancelBalance(ctx, original.TransactionID, "1000000000", 300)
		require.NoError(t, err)
		assert.Equal(t, int64(300), account.Balance)
	})

	t.Run("unknown transaction wins over unknown account", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectRollback()

		_, err := h.service.CancelBalance(ctx, "deadbeef", "9999999999", 100)
		assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
	})

	t.Run("transaction from another account is rejected", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()
		other := h.seedAccount(t, h.knownUserID, "1000000001", 500)
		h.seedAccount(t, h.knownUserID, "1000000000", 500)
		original := h.seedUseTransaction(t, other, 100, time.Now().UTC())

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectRollback()

		_, err := h.service.CancelBalance(ctx, original.TransactionID, "1000000000", 100)
		assert.ErrorIs(t, err, domain.ErrTransactionAccountMismatch)
	})

	t.Run("partial cancellation is rejected", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()
		account := h.seedAccount(t, h.knownUserID, "1000000000", 800)
		original := h.seedUseTransaction(t, account, 200, time.Now().UTC())

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectRollback()

		_, err := h.service.CancelBalance(ctx, original.TransactionID, "1000000000", 199)
		assert.ErrorIs(t, err, domain.ErrCancelAmountMismatch)
		assert.Equal(t, int64(800), account.Balance)
	})

	t.Run("amount mismatch wins over expiry", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()
		account := h.seedAccount(t, h.knownUserID, "1000000000", 800)
		old := time.Now().UTC().AddDate(-2, 0, 0)
		original := h.seedUseTransaction(t, account, 200, old)

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectRollback()

		_, err := h.service.CancelBalance(ctx, original.TransactionID, "1000000000", 100)
		assert.ErrorIs(t, err, domain.ErrCancelAmountMismatch)
	})

	t.Run("expiry boundary", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()
		account := h.seedAccount(t, h.knownUserID, "1000000000", 0)

		now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
		h.impl.now = func() time.Time { return now }

		justInside := h.seedUseTransaction(t, account, 100, now.AddDate(-1, 0, 0).Add(24*time.Hour))
		justOutside := h.seedUseTransaction(t, account, 100, now.AddDate(-1, 0, 0).Add(-24*time.Hour))

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectCommit()

		_, err := h.service.CancelBalance(ctx, justInside.TransactionID, "1000000000", 100)
		require.NoError(t, err)

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectRollback()

		_, err = h.service.CancelBalance(ctx, justOutside.TransactionID, "1000000000", 100)
		assert.ErrorIs(t, err, domain.ErrTransactionTooOld)
	})

	t.Run("rejects invalid input before touching the store", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()

		_, err := h.service.CancelBalance(ctx, "", "1000000000", 100)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)

		_, err = h.service.CancelBalance(ctx, "deadbeef", "", 100)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)

		_, err = h.service.CancelBalance(ctx, "deadbeef", "1000000000", 0)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)

		assert.NoError(t, h.dbMock.ExpectationsWereMet())
	})
}

func TestSaveFailedCancelTransaction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	h := newTestHarness(t)
	defer h.cleanup()
	account := h.seedAccount(t, h.knownUserID, "1000000000", 700)

	h.dbMock.ExpectBegin()
	h.dbMock.ExpectCommit()

	err := h.service.SaveFailedCancelTransaction(ctx, "1000000000", 200)
	require.NoError(t, err)
	assert.Equal(t, int64(700), account.Balance)

	require.Len(t, h.transactions.Transactions, 1)
	for _, record := range h.transactions.Transactions {
		assert.Equal(t, domain.TransactionTypeCancel, record.Type)
		assert.Equal(t, domain.TransactionResultFailure, record.Result)
		assert.Equal(t, int64(700), record.BalanceSnapshot)
	}
}

func TestGetTransaction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns the transaction whatever its result", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()
		account := h.seedAccount(t, h.knownUserID, "1000000000", 100)

		failed, err := domain.NewTransaction(
			account, domain.TransactionTypeUse, domain.TransactionResultFailure, 500)
		require.NoError(t, err)
		h.transactions.Transactions[failed.TransactionID] = failed

		record, err := h.service.GetTransaction(ctx, failed.TransactionID)
		require.NoError(t, err)
		assert.Equal(t, domain.TransactionResultFailure, record.Result)
		assert.Equal(t, int64(500), record.Amount)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()

		_, err := h.service.GetTransaction(ctx, "deadbeef")
		assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
	})

	t.Run("empty id is rejected before store access", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()

		h.transactions.GetByTransactionIDFn = func(ctx context.Context, transactionID string) (*domain.Transaction, error) {
			t.Fatal("store must not be called for an empty id")
			return nil, nil
		}

		_, err := h.service.GetTransaction(ctx, "")
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})
}
