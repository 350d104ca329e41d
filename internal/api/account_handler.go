// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/minsuk-dev/account-api/internal/api/shared"
	"github.com/minsuk-dev/account-api/internal/domain"
	"github.com/minsuk-dev/account-api/internal/platform/logger"
	"github.com/minsuk-dev/account-api/internal/service/account"
)

// AccountHandler handles account lifecycle HTTP requests
type AccountHandler struct {
	accountService account.Service
	logger         *slog.Logger
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService account.Service, logger *slog.Logger) *AccountHandler {
	if accountService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("accountService cannot be nil for AccountHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AccountHandler")
	}

	return &AccountHandler{
		accountService: accountService,
		logger:         logger.With(slog.String("component", "account_handler")),
	}
}

// CreateAccount handles POST /api/accounts requests
// It opens a new account for the given user with the given initial balance.
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateAccountRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest,
			string(domain.CodeInvalidRequest), "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		log.Warn("validation error", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest,
			string(domain.CodeInvalidRequest), SanitizeValidationError(err), err)
		return
	}

	created, err := h.accountService.CreateAccount(r.Context(), req.UserID, req.InitialBalance)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	log.Debug("account created",
		slog.String("user_id", created.UserID.String()),
		slog.String("account_number", created.AccountNumber))
	shared.RespondWithJSON(w, r, http.StatusCreated, CreateAccountResponse{
		UserID:        created.UserID,
		AccountNumber: created.AccountNumber,
		RegisteredAt:  created.RegisteredAt,
	})
}

// CloseAccount handles DELETE /api/accounts requests
// It unregisters the account identified by the request's account number.
func (h *AccountHandler) CloseAccount(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CloseAccountRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest,
			string(domain.CodeInvalidRequest), "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		log.Warn("validation error", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest,
			string(domain.CodeInvalidRequest), SanitizeValidationError(err), err)
		return
	}

	closed, err := h.accountService.CloseAccount(r.Context(), req.UserID, req.AccountNumber)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	log.Debug("account closed",
		slog.String("user_id", closed.UserID.String()),
		slog.String("account_number", closed.AccountNumber))
	shared.RespondWithJSON(w, r, http.StatusOK, CloseAccountResponse{
		UserID:         closed.UserID,
		AccountNumber:  closed.AccountNumber,
		UnregisteredAt: *closed.UnregisteredAt,
	})
}

// GetAccount handles GET /api/accounts/{id} requests
// It returns the full detail of a single account.
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	pathID := chi.URLParam(r, "id")
	id, err := uuid.Parse(pathID)
	if err != nil {
		log.Warn("invalid account ID format", slog.String("id", pathID))
		shared.RespondWithError(w, r, http.StatusBadRequest,
			string(domain.CodeInvalidRequest), "Invalid account ID format")
		return
	}

	found, err := h.accountService.GetAccount(r.Context(), id)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, accountToResponse(found))
}

// ListAccounts handles GET /api/accounts?user_id= requests
// It returns the number and current balance of each of the user's accounts.
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	rawUserID := r.URL.Query().Get("user_id")
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		log.Warn("invalid user ID format", slog.String("user_id", rawUserID))
		shared.RespondWithError(w, r, http.StatusBadRequest,
			string(domain.CodeInvalidRequest), "Invalid user ID format")
		return
	}

	accounts, err := h.accountService.ListAccounts(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	summaries := make([]AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		summaries = append(summaries, AccountSummary{
			AccountNumber: a.AccountNumber,
			Balance:       a.Balance,
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summaries)
}
