package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/minsuk-dev/account-api/internal/api/shared"
	"github.com/minsuk-dev/account-api/internal/domain"
	"github.com/minsuk-dev/account-api/internal/platform/logger"
	"github.com/minsuk-dev/account-api/internal/service/account"
	"github.com/minsuk-dev/account-api/internal/service/transaction"
)

// TransactionHandler handles balance transaction HTTP requests
type TransactionHandler struct {
	transactionService transaction.Service
	accountService     account.Service
	logger             *slog.Logger
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(
	transactionService transaction.Service,
	accountService account.Service,
	logger *slog.Logger,
) *TransactionHandler {
	if transactionService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("transactionService cannot be nil for TransactionHandler")
	}
	if accountService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("accountService cannot be nil for TransactionHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TransactionHandler")
	}

	return &TransactionHandler{
		transactionService: transactionService,
		accountService:     accountService,
		logger:             logger.With(slog.String("component", "transaction_handler")),
	}
}

// UseBalance handles POST /api/transactions/use requests
// It debits the account and records the outcome. When the debit is
// rejected by a business rule, a failed use transaction is recorded
// against the account before the error response goes out.
func (h *TransactionHandler) UseBalance(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req UseBalanceRequest
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

	record, err := h.transactionService.UseBalance(r.Context(), req.UserID, req.AccountNumber, req.Amount)
	if err != nil {
		h.recordFailedAttempt(r, err, req.AccountNumber, req.Amount, domain.TransactionTypeUse)
		HandleServiceError(w, r, err)
		return
	}

	log.Debug("balance used",
		slog.String("account_number", req.AccountNumber),
		slog.String("transaction_id", record.TransactionID))
	shared.RespondWithJSON(w, r, http.StatusOK, TransactionResponse{
		AccountNumber:     req.AccountNumber,
		TransactionResult: string(record.Result),
		TransactionID:     record.TransactionID,
		Amount:            record.Amount,
		TransactedAt:      record.TransactedAt,
	})
}

// CancelBalance handles POST /api/transactions/cancel requests
// It credits the amount of a prior debit back to the account. Rejected
// cancellations are recorded as failed cancel transactions.
func (h *TransactionHandler) CancelBalance(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CancelBalanceRequest
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

	record, err := h.transactionService.CancelBalance(r.Context(), req.TransactionID, req.AccountNumber, req.Amount)
	if err != nil {
		h.recordFailedAttempt(r, err, req.AccountNumber, req.Amount, domain.TransactionTypeCancel)
		HandleServiceError(w, r, err)
		return
	}

	log.Debug("balance cancelled",
		slog.String("account_number", req.AccountNumber),
		slog.String("transaction_id", record.TransactionID))
	shared.RespondWithJSON(w, r, http.StatusOK, TransactionResponse{
		AccountNumber:     req.AccountNumber,
		TransactionResult: string(record.Result),
		TransactionID:     record.TransactionID,
		Amount:            record.Amount,
		TransactedAt:      record.TransactedAt,
	})
}

// GetTransaction handles GET /api/transactions/{transactionId} requests
// It returns the transaction whatever its result, so failed attempts
// stay auditable.
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	transactionID := chi.URLParam(r, "transactionId")
	if transactionID == "" {
		log.Warn("transaction ID not found in URL path")
		shared.RespondWithError(w, r, http.StatusBadRequest,
			string(domain.CodeInvalidRequest), "Transaction ID is required")
		return
	}

	record, err := h.transactionService.GetTransaction(r.Context(), transactionID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	found, err := h.accountService.GetAccount(r.Context(), record.AccountID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, QueryTransactionResponse{
		AccountNumber:     found.AccountNumber,
		TransactionType:   string(record.Type),
		TransactionResult: string(record.Result),
		TransactionID:     record.TransactionID,
		Amount:            record.Amount,
		TransactedAt:      record.TransactedAt,
	})
}

// recordFailedAttempt durably records a rejected use or cancel against
// the account. Failures that never resolved an account (unknown account,
// malformed input) have nothing to record against; infrastructure
// errors are not business outcomes and are skipped too.
func (h *TransactionHandler) recordFailedAttempt(
	r *http.Request,
	cause error,
	accountNumber string,
	amount int64,
	txType domain.TransactionType,
) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var domainErr *domain.Error
	if !errors.As(cause, &domainErr) {
		return
	}
	switch domainErr.Code {
	case domain.CodeInvalidRequest, domain.CodeAccountNotFound, domain.CodeInternalError:
		return
	}

	var err error
	switch txType {
	case domain.TransactionTypeUse:
		err = h.transactionService.SaveFailedUseTransaction(r.Context(), accountNumber, amount)
	case domain.TransactionTypeCancel:
		err = h.transactionService.SaveFailedCancelTransaction(r.Context(), accountNumber, amount)
	}
	if err != nil {
		log.Error("failed to record failed transaction",
			slog.String("account_number", accountNumber),
			slog.String("type", string(txType)),
			slog.Int64("amount", amount),
			slog.String("error", err.Error()))
	}
}
