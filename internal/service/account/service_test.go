package account

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/minsuk-dev/account-api/internal/domain"
	"github.com/minsuk-dev/account-api/internal/mocks"
	"github.com/minsuk-dev/account-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHarness bundles the service under test with its mocked
// collaborators.
type testHarness struct {
	service     Service
	db          *sql.DB
	dbMock      sqlmock.Sqlmock
	users       *mocks.MockUserStore
	accounts    *mocks.MockAccountStore
	cleanup     func()
	knownUser   *domain.User
	knownUserID uuid.UUID
	otherUserID uuid.UUID
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)

	users := mocks.NewMockUserStore()
	accounts := mocks.NewMockAccountStore()

	userID := uuid.New()
	user := &domain.User{
		ID:        userID,
		Name:      "hong gil-dong",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	users.Users[userID] = user

	svc := NewService(db, users, accounts, slog.Default())

	return &testHarness{
		service:     svc,
		db:          db,
		dbMock:      dbMock,
		users:       users,
		accounts:    accounts,
		cleanup:     func() { _ = db.Close() },
		knownUser:   user,
		knownUserID: userID,
		otherUserID: uuid.New(),
	}
}

func (h *testHarness) seedAccount(t *testing.T, userID uuid.UUID, number string, balance int64) *domain.Account {
	t.Helper()
	account, err := domain.NewAccount(userID, number, balance)
	require.NoError(t, err)
	h.accounts.Accounts[number] = account
	return account
}

func TestCreateAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("first account gets the initial number", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectCommit()

		account, err := h.service.CreateAccount(ctx, h.knownUserID, 1000)
		require.NoError(t, err)
		assert.Equal(t, "1000000000", account.AccountNumber)
		assert.Equal(t, int64(1000), account.Balance)
		assert.Equal(t, domain.AccountStatusInUse, account.Status)
		assert.Equal(t, h.knownUserID, account.UserID)
		assert.NoError(t, h.dbMock.ExpectationsWereMet())
	})

	t.Run("subsequent account gets the successor number", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()
		h.seedAccount(t, h.knownUserID, "1000000012", 0)

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectCommit()

		account, err := h.service.CreateAccount(ctx, h.knownUserID, 0)
		require.NoError(t, err)
		assert.Equal(t, "1000000013", account.AccountNumber)
	})

	t.Run("unknown user is rejected", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectRollback()

		_, err := h.service.CreateAccount(ctx, h.otherUserID, 0)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		assert.NoError(t, h.dbMock.ExpectationsWereMet())
	})

	t.Run("tenth account is allowed, eleventh is not", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()

		count := 9
		h.accounts.CountByUserIDFn = func(ctx context.Context, userID uuid.UUID) (int, error) {
			return count, nil
		}

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectCommit()

		_, err := h.service.CreateAccount(ctx, h.knownUserID, 0)
		require.NoError(t, err)

		count = 10
		h.dbMock.ExpectBegin()
		h.dbMock.ExpectRollback()

		_, err = h.service.CreateAccount(ctx, h.knownUserID, 0)
		assert.ErrorIs(t, err, domain.ErrMaxAccountsPerUser)
	})

	t.Run("closed accounts count against the ceiling", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()

		// The ceiling uses the store count, which includes closed
		// accounts, so ten closed accounts still block an eleventh.
		h.accounts.CountByUserIDFn = func(ctx context.Context, userID uuid.UUID) (int, error) {
			return domain.MaxAccountsPerUser, nil
		}

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectRollback()

		_, err := h.service.CreateAccount(ctx, h.knownUserID, 0)
		assert.ErrorIs(t, err, domain.ErrMaxAccountsPerUser)
	})

	t.Run("retries allocation on a number collision", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()

		calls := 0
		h.accounts.CreateFn = func(ctx context.Context, account *domain.Account) error {
			calls++
			if calls == 1 {
				return store.ErrAccountNumberExists
			}
			return nil
		}

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectRollback()
		h.dbMock.ExpectBegin()
		h.dbMock.ExpectCommit()

		account, err := h.service.CreateAccount(ctx, h.knownUserID, 500)
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Equal(t, int64(500), account.Balance)
		assert.NoError(t, h.dbMock.ExpectationsWereMet())
	})

	t.Run("gives up after exhausting allocation retries", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()

		h.accounts.CreateFn = func(ctx context.Context, account *domain.Account) error {
			return store.ErrAccountNumberExists
		}

		for i := 0; i < 3; i++ {
			h.dbMock.ExpectBegin()
			h.dbMock.ExpectRollback()
		}

		_, err := h.service.CreateAccount(ctx, h.knownUserID, 0)
		assert.ErrorIs(t, err, store.ErrAccountNumberExists)
		assert.NoError(t, h.dbMock.ExpectationsWereMet())
	})

	t.Run("rejects invalid input before touching the store", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()

		_, err := h.service.CreateAccount(ctx, uuid.Nil, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)

		_, err = h.service.CreateAccount(ctx, h.knownUserID, -1)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)

		// No transaction must have been opened for either call.
		assert.NoError(t, h.dbMock.ExpectationsWereMet())
	})
}

func TestCloseAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("closes an empty active account", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()
		h.seedAccount(t, h.knownUserID, "1000000000", 0)

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectCommit()

		account, err := h.service.CloseAccount(ctx, h.knownUserID, "1000000000")
		require.NoError(t, err)
		assert.Equal(t, domain.AccountStatusUnregistered, account.Status)
		require.NotNil(t, account.UnregisteredAt)
	})

	t.Run("owner mismatch wins over already closed", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()

		stranger := h.seedAccount(t, h.otherUserID, "1000000000", 0)
		require.NoError(t, stranger.Unregister())

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectRollback()

		_, err := h.service.CloseAccount(ctx, h.knownUserID, "1000000000")
		assert.ErrorIs(t, err, domain.ErrOwnerMismatch)
	})

	t.Run("already closed wins over non-zero balance", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()

		account := h.seedAccount(t, h.knownUserID, "1000000000", 0)
		require.NoError(t, account.Unregister())
		account.Balance = 100

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectRollback()

		_, err := h.service.CloseAccount(ctx, h.knownUserID, "1000000000")
		assert.ErrorIs(t, err, domain.ErrAccountAlreadyClosed)
	})

	t.Run("non-zero balance blocks closure", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()
		h.seedAccount(t, h.knownUserID, "1000000000", 1)

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectRollback()

		_, err := h.service.CloseAccount(ctx, h.knownUserID, "1000000000")
		assert.ErrorIs(t, err, domain.ErrBalanceNotEmpty)
	})

	t.Run("unknown account", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectRollback()

		_, err := h.service.CloseAccount(ctx, h.knownUserID, "9999999999")
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	})

	t.Run("unknown user", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()
		h.seedAccount(t, h.knownUserID, "1000000000", 0)

		h.dbMock.ExpectBegin()
		h.dbMock.ExpectRollback()

		_, err := h.service.CloseAccount(ctx, h.otherUserID, "1000000000")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestGetAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns the account", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()
		seeded := h.seedAccount(t, h.knownUserID, "1000000000", 42)

		account, err := h.service.GetAccount(ctx, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, seeded.AccountNumber, account.AccountNumber)
		assert.Equal(t, int64(42), account.Balance)
	})

	t.Run("unknown account", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()

		_, err := h.service.GetAccount(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	})

	t.Run("nil id is rejected before store access", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()

		h.accounts.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
			t.Fatal("store must not be called for a nil id")
			return nil, nil
		}

		_, err := h.service.GetAccount(ctx, uuid.Nil)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})
}

func TestListAccounts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("lists the user's accounts", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()
		h.seedAccount(t, h.knownUserID, "1000000000", 10)
		h.seedAccount(t, h.knownUserID, "1000000001", 20)
		h.seedAccount(t, h.otherUserID, "1000000002", 30)

		accounts, err := h.service.ListAccounts(ctx, h.knownUserID)
		require.NoError(t, err)
		require.Len(t, accounts, 2)
	})

	t.Run("empty slice for a user with no accounts", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()

		accounts, err := h.service.ListAccounts(ctx, h.knownUserID)
		require.NoError(t, err)
		assert.NotNil(t, accounts)
		assert.Empty(t, accounts)
	})

	t.Run("unknown user", func(t *testing.T) {
		h := newTestHarness(t)
		defer h.cleanup()

		_, err := h.service.ListAccounts(ctx, h.otherUserID)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestNewServicePanics(t *testing.T) {
	t.Parallel()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.Panics(t, func() {
		NewService(nil, mocks.NewMockUserStore(), mocks.NewMockAccountStore(), slog.Default())
	})
	assert.Panics(t, func() {
		NewService(db, nil, mocks.NewMockAccountStore(), slog.Default())
	})
	assert.Panics(t, func() {
		NewService(db, mocks.NewMockUserStore(), nil, slog.Default())
	})
}

func TestCreateAccountStoreFailurePropagates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	h := newTestHarness(t)
	defer h.cleanup()

	storeErr := errors.New("connection reset")
	h.accounts.CountByUserIDFn = func(ctx context.Context, userID uuid.UUID) (int, error) {
		return 0, storeErr
	}

	h.dbMock.ExpectBegin()
	h.dbMock.ExpectRollback()

	_, err := h.service.CreateAccount(ctx, h.knownUserID, 0)
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, domain.ErrInvalidRequest)
}
