package errors

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	AccountNotFound      ErrorCode = "account_not_found"
	DuplicateAccount     ErrorCode = "duplicate_account"
	DuplicateTransaction ErrorCode = "duplicate_transaction"
	InsufficientBalance  ErrorCode = "insufficient_balance"
	InvalidAgency        ErrorCode = "invalid_agency"
	TransportDecode      ErrorCode = "transport_decode_error"
	StorageConflict      ErrorCode = "storage_conflict"
	WithdrawalNotAllowed ErrorCode = "withdrawal_not_allowed"
	InvalidAmount        ErrorCode = "invalid_amount"
	InvalidInput         ErrorCode = "invalid_input"
	InternalError        ErrorCode = "internal_error"
)

// Numeric result codes embedded in provider envelopes. Absence of error is
// code 0 with a "Success" message.
const (
	CodeSuccess             = 0
	CodeInsufficientBalance = 1
	CodeAccountNotFound     = 2
	CodeInvalidPayload      = 3
	CodeDuplicateTransact   = 4
	CodeInvalidAgency       = 10004
	CodeTransportDecode     = 10005
	CodeInternal            = 10500
)

// ProviderCode maps an ErrorCode to the numeric code providers expect.
func ProviderCode(code ErrorCode) int {
	switch code {
	case InsufficientBalance:
		return CodeInsufficientBalance
	case AccountNotFound:
		return CodeAccountNotFound
	case InvalidAmount, InvalidInput:
		return CodeInvalidPayload
	case DuplicateTransaction:
		return CodeDuplicateTransact
	case InvalidAgency:
		return CodeInvalidAgency
	case TransportDecode:
		return CodeTransportDecode
	default:
		return CodeInternal
	}
}

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewAppErrorf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// HTTPStatus maps the error code to the status used by the plain JSON
// (non-envelope) endpoints.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case AccountNotFound:
		return http.StatusNotFound
	case DuplicateAccount, DuplicateTransaction, StorageConflict:
		return http.StatusConflict
	case InsufficientBalance, WithdrawalNotAllowed:
		return http.StatusUnprocessableEntity
	case InvalidAgency:
		return http.StatusForbidden
	case TransportDecode, InvalidAmount, InvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Predefined errors for common cases
var (
	ErrAccountNotFound      = NewAppError(AccountNotFound, "account not found")
	ErrDuplicateAccount     = NewAppError(DuplicateAccount, "account already exists")
	ErrDuplicateTransaction = NewAppError(DuplicateTransaction, "transaction already processed")
	ErrInsufficientBalance  = NewAppError(InsufficientBalance, "insufficient balance")
	ErrInvalidAgency        = NewAppError(InvalidAgency, "agency uid mismatch")
	ErrInvalidAmount        = NewAppError(InvalidAmount, "invalid amount")
	ErrWithdrawalNotAllowed = NewAppError(WithdrawalNotAllowed, "withdrawal not allowed")
	ErrStorageConflict      = NewAppError(StorageConflict, "storage contention, retries exhausted")
)
