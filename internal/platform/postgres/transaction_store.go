package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/minsuk-dev/account-api/internal/domain"
	"github.com/minsuk-dev/account-api/internal/platform/logger"
	"github.com/minsuk-dev/account-api/internal/store"
)

// Unique constraint protecting transaction id generation.
const transactionIDConstraint = "transactions_transaction_id_key"

// PostgresTransactionStore implements the store.TransactionStore
// interface using a PostgreSQL database as the storage backend.
// Transactions are append-only: this store exposes no update or delete.
type PostgresTransactionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTransactionStore creates a new PostgreSQL implementation
// of the TransactionStore interface. It accepts a database connection
// or transaction that should be initialized and managed by the caller.
func NewPostgresTransactionStore(db store.DBTX, logger *slog.Logger) *PostgresTransactionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTransactionStore{
		db:     db,
		logger: logger.With(slog.String("component", "transaction_store")),
	}
}

// Ensure PostgresTransactionStore implements store.TransactionStore interface
var _ store.TransactionStore = (*PostgresTransactionStore)(nil)

// Create implements store.TransactionStore.Create
// Returns store.ErrTransactionIDExists on a transaction id collision
// and wraps store.ErrAccountNotFound on a dangling account reference.
func (s *PostgresTransactionStore) Create(ctx context.Context, transaction *domain.Transaction) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO transactions (id, transaction_id, account_id,
			transaction_type, transaction_result, amount, balance_snapshot,
			transacted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		transaction.ID,
		transaction.TransactionID,
		transaction.AccountID,
		transaction.Type,
		transaction.Result,
		transaction.Amount,
		transaction.BalanceSnapshot,
		transaction.TransactedAt,
	)

	if err != nil {
		if isUniqueViolation(err, transactionIDConstraint) {
			log.Warn("transaction id collision",
				slog.String("transaction_id", transaction.TransactionID))
			return store.ErrTransactionIDExists
		}
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during transaction creation",
				slog.String("error", err.Error()),
				slog.String("account_id", transaction.AccountID.String()))
			return fmt.Errorf("%w: account %s", store.ErrAccountNotFound, transaction.AccountID)
		}

		log.Error("failed to create transaction",
			slog.String("error", err.Error()),
			slog.String("transaction_id", transaction.TransactionID))
		return err
	}

	log.Info("transaction recorded",
		slog.String("transaction_id", transaction.TransactionID),
		slog.String("account_id", transaction.AccountID.String()),
		slog.String("type", string(transaction.Type)),
		slog.String("result", string(transaction.Result)),
		slog.Int64("amount", transaction.Amount))
	return nil
}

// GetByTransactionID implements store.TransactionStore.GetByTransactionID
// Returns store.ErrTransactionNotFound if the transaction does not exist.
func (s *PostgresTransactionStore) GetByTransactionID(
	ctx context.Context,
	transactionID string,
) (*domain.Transaction, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, transaction_id, account_id, transaction_type,
			transaction_result, amount, balance_snapshot, transacted_at
		FROM transactions
		WHERE transaction_id = $1
	`

	var transaction domain.Transaction
	var txType, result string

	err := s.db.QueryRowContext(ctx, query, transactionID).Scan(
		&transaction.ID,
		&transaction.TransactionID,
		&transaction.AccountID,
		&txType,
		&result,
		&transaction.Amount,
		&transaction.BalanceSnapshot,
		&transaction.TransactedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("transaction not found",
				slog.String("transaction_id", transactionID))
			return nil, store.ErrTransactionNotFound
		}
		log.Error("failed to get transaction",
			slog.String("error", err.Error()),
			slog.String("transaction_id", transactionID))
		return nil, err
	}

	transaction.Type = domain.TransactionType(txType)
	transaction.Result = domain.TransactionResult(result)

	return &transaction, nil
}

// WithTx implements store.TransactionStore.WithTx
func (s *PostgresTransactionStore) WithTx(tx *sql.Tx) store.TransactionStore {
	return &PostgresTransactionStore{
		db:     tx,
		logger: s.logger,
	}
}
