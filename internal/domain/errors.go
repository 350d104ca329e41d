// Package domain defines the core business entities and errors.
package domain

import "fmt"

// ErrorCode identifies one business rule violation. The set is closed:
// every validation the services perform maps to exactly one code.
type ErrorCode string

// Possible error codes.
const (
	CodeInvalidRequest             ErrorCode = "INVALID_REQUEST"
	CodeUserNotFound               ErrorCode = "USER_NOT_FOUND"
	CodeAccountNotFound            ErrorCode = "ACCOUNT_NOT_FOUND"
	CodeTransactionNotFound        ErrorCode = "TRANSACTION_NOT_FOUND"
	CodeMaxAccountsPerUser         ErrorCode = "MAX_ACCOUNTS_PER_USER"
	CodeOwnerMismatch              ErrorCode = "OWNER_MISMATCH"
	CodeAccountAlreadyClosed       ErrorCode = "ACCOUNT_ALREADY_CLOSED"
	CodeBalanceNotEmpty            ErrorCode = "BALANCE_NOT_EMPTY"
	CodeInsufficientBalance        ErrorCode = "INSUFFICIENT_BALANCE"
	CodeTransactionAccountMismatch ErrorCode = "TRANSACTION_ACCOUNT_MISMATCH"
	CodeCancelAmountMismatch       ErrorCode = "CANCEL_AMOUNT_MISMATCH"
	CodeTransactionTooOld          ErrorCode = "TRANSACTION_TOO_OLD"
	CodeInternalError              ErrorCode = "INTERNAL_ERROR"
)

// defaultMessages holds the human-readable description for each code.
var defaultMessages = map[ErrorCode]string{
	CodeInvalidRequest:             "invalid request",
	CodeUserNotFound:               "user not found",
	CodeAccountNotFound:            "account not found",
	CodeTransactionNotFound:        "transaction not found",
	CodeMaxAccountsPerUser:         "a user may hold at most 10 accounts",
	CodeOwnerMismatch:              "user does not own this account",
	CodeAccountAlreadyClosed:       "account is already closed",
	CodeBalanceNotEmpty:            "cannot close an account with a remaining balance",
	CodeInsufficientBalance:        "account balance is smaller than the requested amount",
	CodeTransactionAccountMismatch: "transaction does not belong to this account",
	CodeCancelAmountMismatch:       "cancel amount does not match the transaction amount",
	CodeTransactionTooOld:          "transactions older than one year cannot be cancelled",
	CodeInternalError:              "internal server error",
}

// Error is the single error type raised by the account and transaction
// services. Callers match on Code via errors.Is against the exported
// Err* variables; type identity is never required.
type Error struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether target carries the same error code. This lets
// errors.Is(err, domain.ErrUserNotFound) work across wrapped errors.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// NewError returns a domain error for the given code with its default
// description.
func NewError(code ErrorCode) *Error {
	msg, ok := defaultMessages[code]
	if !ok {
		msg = string(code)
	}
	return &Error{Code: code, Message: msg}
}

// NewErrorf returns a domain error for the given code with a formatted
// message carrying call-site context (offending id, limit values).
func NewErrorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Canonical instances for errors.Is matching. Services usually raise
// fresh errors with call-site context via NewErrorf; these exist so
// callers can match without constructing one themselves.
var (
	ErrInvalidRequest             = NewError(CodeInvalidRequest)
	ErrUserNotFound               = NewError(CodeUserNotFound)
	ErrAccountNotFound            = NewError(CodeAccountNotFound)
	ErrTransactionNotFound        = NewError(CodeTransactionNotFound)
	ErrMaxAccountsPerUser         = NewError(CodeMaxAccountsPerUser)
	ErrOwnerMismatch              = NewError(CodeOwnerMismatch)
	ErrAccountAlreadyClosed       = NewError(CodeAccountAlreadyClosed)
	ErrBalanceNotEmpty            = NewError(CodeBalanceNotEmpty)
	ErrInsufficientBalance        = NewError(CodeInsufficientBalance)
	ErrTransactionAccountMismatch = NewError(CodeTransactionAccountMismatch)
	ErrCancelAmountMismatch       = NewError(CodeCancelAmountMismatch)
	ErrTransactionTooOld          = NewError(CodeTransactionTooOld)
)
