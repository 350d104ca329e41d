package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/minsuk-dev/account-api/internal/config"
	"github.com/minsuk-dev/account-api/internal/platform/postgres"
	"github.com/minsuk-dev/account-api/internal/service/account"
	"github.com/minsuk-dev/account-api/internal/service/transaction"
	"github.com/minsuk-dev/account-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore        store.UserStore
	accountStore     store.AccountStore
	transactionStore store.TransactionStore

	// Service interfaces
	accountService     account.Service
	transactionService transaction.Service
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger,
// and database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize stores
	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.accountStore = postgres.NewPostgresAccountStore(db, logger)
	app.transactionStore = postgres.NewPostgresTransactionStore(db, logger)

	// Initialize services
	app.accountService = account.NewService(db, app.userStore, app.accountStore, logger)
	app.transactionService = transaction.NewService(
		db, app.userStore, app.accountStore, app.transactionStore, logger)

	logger.Info("Application services initialized")
	return app, nil
}

// cleanup releases resources held by the application. Called during
// graceful shutdown after the HTTP server has drained.
func (app *application) cleanup() {
	if err := app.db.Close(); err != nil {
		app.logger.Error("Failed to close database connection", "error", err)
	}
}
