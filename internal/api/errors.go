package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/minsuk-dev/account-api/internal/api/shared"
	"github.com/minsuk-dev/account-api/internal/domain"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the domain error code. This prevents leaking internal
// error types or messages to clients.
func MapErrorToStatusCode(err error) int {
	var domainErr *domain.Error
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError
	}

	switch domainErr.Code {
	// Malformed input
	case domain.CodeInvalidRequest:
		return http.StatusBadRequest

	// Unknown entities
	case domain.CodeUserNotFound,
		domain.CodeAccountNotFound,
		domain.CodeTransactionNotFound:
		return http.StatusNotFound

	// Ownership violations
	case domain.CodeOwnerMismatch,
		domain.CodeTransactionAccountMismatch:
		return http.StatusForbidden

	// Business-rule conflicts
	case domain.CodeMaxAccountsPerUser,
		domain.CodeAccountAlreadyClosed,
		domain.CodeBalanceNotEmpty,
		domain.CodeInsufficientBalance,
		domain.CodeCancelAmountMismatch,
		domain.CodeTransactionTooOld:
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// ErrorCodeString returns the stable wire code for an error, falling
// back to INTERNAL_ERROR for anything that is not a domain error.
func ErrorCodeString(err error) string {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		return string(domainErr.Code)
	}
	return string(domain.CodeInternalError)
}

// GetSafeErrorMessage returns a sanitized, user-facing error message.
// Domain error messages are already client-safe; anything else collapses
// to a generic message so internal details never leak.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return "An unexpected error occurred"
}

// HandleServiceError writes the standard error response for a service
// failure: status, code, and message all derived from the domain error.
func HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	shared.RespondWithErrorAndLog(w, r, status, ErrorCodeString(err), GetSafeErrorMessage(err), err)
}

// SanitizeValidationError removes sensitive details from validation
// errors and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'UseBalanceRequest.Amount' Error:Field
	// validation for 'Amount' failed on the 'min' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "uuid":
		return "invalid identifier format"
	case "min":
		return "value too small"
	case "max":
		return "value too large"
	case "numeric":
		return "must be numeric"
	default:
		return "validation failed"
	}
}
