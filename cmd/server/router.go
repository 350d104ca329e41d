package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/minsuk-dev/account-api/internal/api"
	apiMiddleware "github.com/minsuk-dev/account-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware) // Add trace IDs for improved error handling

	// Create API handlers using the application's services
	accountHandler := api.NewAccountHandler(app.accountService, app.logger)
	transactionHandler := api.NewTransactionHandler(
		app.transactionService, app.accountService, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Account lifecycle endpoints
		r.Post("/accounts", accountHandler.CreateAccount)
		r.Delete("/accounts", accountHandler.CloseAccount)
		r.Get("/accounts", accountHandler.ListAccounts)
		r.Get("/accounts/{id}", accountHandler.GetAccount)

		// Balance transaction endpoints
		r.Post("/transactions/use", transactionHandler.UseBalance)
		r.Post("/transactions/cancel", transactionHandler.CancelBalance)
		r.Get("/transactions/{transactionId}", transactionHandler.GetTransaction)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
