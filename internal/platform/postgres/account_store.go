package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/minsuk-dev/account-api/internal/domain"
	"github.com/minsuk-dev/account-api/internal/platform/logger"
	"github.com/minsuk-dev/account-api/internal/store"
)

// Unique constraint protecting account number allocation.
const accountNumberConstraint = "accounts_account_number_key"

// accountColumns is the column list shared by every account select.
const accountColumns = `id, user_id, account_number, balance, status,
	registered_at, unregistered_at, created_at, updated_at`

// PostgresAccountStore implements the store.AccountStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAccountStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAccountStore creates a new PostgreSQL implementation of
// the AccountStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
func NewPostgresAccountStore(db store.DBTX, logger *slog.Logger) *PostgresAccountStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAccountStore{
		db:     db,
		logger: logger.With(slog.String("component", "account_store")),
	}
}

// Ensure PostgresAccountStore implements store.AccountStore interface
var _ store.AccountStore = (*PostgresAccountStore)(nil)

// Create implements store.AccountStore.Create
// Returns store.ErrAccountNumberExists if the allocated account number
// collided with a concurrent allocation.
func (s *PostgresAccountStore) Create(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := account.Validate(); err != nil {
		log.Warn("account validation failed during create",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return err
	}

	query := `
		INSERT INTO accounts (id, user_id, account_number, balance, status,
			registered_at, unregistered_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		account.ID,
		account.UserID,
		account.AccountNumber,
		account.Balance,
		account.Status,
		account.RegisteredAt,
		account.UnregisteredAt,
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, accountNumberConstraint) {
			log.Debug("account number already taken",
				slog.String("account_number", account.AccountNumber))
			return store.ErrAccountNumberExists
		}
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during account creation",
				slog.String("error", err.Error()),
				slog.String("user_id", account.UserID.String()))
			return fmt.Errorf("%w: user %s", store.ErrUserNotFound, account.UserID)
		}

		log.Error("failed to create account",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()),
			slog.String("account_number", account.AccountNumber))
		return err
	}

	log.Info("account created",
		slog.String("account_id", account.ID.String()),
		slog.String("account_number", account.AccountNumber),
		slog.String("user_id", account.UserID.String()))
	return nil
}

// Update implements store.AccountStore.Update
// Returns store.ErrAccountNotFound if the account does not exist.
func (s *PostgresAccountStore) Update(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := account.Validate(); err != nil {
		log.Warn("account validation failed during update",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return err
	}

	query := `
		UPDATE accounts
		SET balance = $1, status = $2, unregistered_at = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		account.Balance,
		account.Status,
		account.UnregisteredAt,
		account.UpdatedAt,
		account.ID,
	)

	if err != nil {
		log.Error("failed to update account",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return err
	}
	if rowsAffected == 0 {
		log.Debug("account not found for update",
			slog.String("account_id", account.ID.String()))
		return store.ErrAccountNotFound
	}

	return nil
}

// GetByID implements store.AccountStore.GetByID
// Returns store.ErrAccountNotFound if the account does not exist.
func (s *PostgresAccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1`, accountColumns)
	return s.getOne(ctx, query, id)
}

// GetByNumber implements store.AccountStore.GetByNumber
// Returns store.ErrAccountNotFound if the account does not exist.
func (s *PostgresAccountStore) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE account_number = $1`, accountColumns)
	return s.getOne(ctx, query, number)
}

// GetByNumberForUpdate implements store.AccountStore.GetByNumberForUpdate
// The row lock serializes concurrent balance mutations on the same
// account for the duration of the surrounding transaction.
func (s *PostgresAccountStore) GetByNumberForUpdate(ctx context.Context, number string) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE account_number = $1 FOR UPDATE`, accountColumns)
	return s.getOne(ctx, query, number)
}

// getOne runs a single-row account query and maps sql.ErrNoRows to
// store.ErrAccountNotFound.
func (s *PostgresAccountStore) getOne(ctx context.Context, query string, arg any) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var account domain.Account
	var status string
	var unregisteredAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&account.ID,
		&account.UserID,
		&account.AccountNumber,
		&account.Balance,
		&status,
		&account.RegisteredAt,
		&unregisteredAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAccountNotFound
		}
		log.Error("failed to get account",
			slog.String("error", err.Error()))
		return nil, err
	}

	account.Status = domain.AccountStatus(status)
	if unregisteredAt.Valid {
		t := unregisteredAt.Time
		account.UnregisteredAt = &t
	}

	return &account, nil
}

// FindByUserID implements store.AccountStore.FindByUserID
// Accounts are returned in creation order.
func (s *PostgresAccountStore) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`
		SELECT %s FROM accounts
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, accountColumns)

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query accounts by user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	accounts := []*domain.Account{}
	for rows.Next() {
		var account domain.Account
		var status string
		var unregisteredAt sql.NullTime

		err := rows.Scan(
			&account.ID,
			&account.UserID,
			&account.AccountNumber,
			&account.Balance,
			&status,
			&account.RegisteredAt,
			&unregisteredAt,
			&account.CreatedAt,
			&account.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan account row",
				slog.String("error", err.Error()))
			return nil, err
		}

		account.Status = domain.AccountStatus(status)
		if unregisteredAt.Valid {
			t := unregisteredAt.Time
			account.UnregisteredAt = &t
		}
		accounts = append(accounts, &account)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning account rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return accounts, nil
}

// CountByUserID implements store.AccountStore.CountByUserID
// The count includes closed accounts; the per-user ceiling applies to
// every account the user has ever held.
func (s *PostgresAccountStore) CountByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		log.Error("failed to count accounts by user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, err
	}

	return count, nil
}

// GetMaxAccountNumber implements store.AccountStore.GetMaxAccountNumber
// Returns store.ErrAccountNotFound if no account exists yet.
func (s *PostgresAccountStore) GetMaxAccountNumber(ctx context.Context) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Account numbers are decimal strings of varying width, so the
	// maximum is numeric, not lexicographic.
	query := `
		SELECT account_number
		FROM accounts
		ORDER BY account_number::bigint DESC
		LIMIT 1
	`

	var number string
	err := s.db.QueryRowContext(ctx, query).Scan(&number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", store.ErrAccountNotFound
		}
		log.Error("failed to get max account number",
			slog.String("error", err.Error()))
		return "", err
	}

	return number, nil
}

// WithTx implements store.AccountStore.WithTx
func (s *PostgresAccountStore) WithTx(tx *sql.Tx) store.AccountStore {
	return &PostgresAccountStore{
		db:     tx,
		logger: s.logger,
	}
}
