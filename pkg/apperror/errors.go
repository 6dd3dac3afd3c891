package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target carries the same error code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// Error codes shared with callers that need to branch on them.
const (
	CodeValidation          = "VAL_001"
	CodeCollateralRequired  = "VAL_002"
	CodeDuplicatePending    = "VAL_003"
	CodeStaleSettings       = "VAL_004"
	CodeInsufficientBalance = "VAL_005"
	CodeNotConfigured       = "CFG_001"
	CodeNotFound            = "LED_001"
	CodeMemberNotFound      = "LED_002"
	CodeStorageFailure      = "LED_003"
	CodeInvalidTransition   = "LED_004"
	CodeLockTimeout         = "LED_005"
	CodeLoanInFlight        = "LED_006"
	CodeInvalidToken        = "AUTH_003"
	CodeForbidden           = "AUTH_005"
	CodeRateLimit           = "RATE_001"
	CodeInternal            = "SYS_001"
)

// ---- Validation (VAL) ----

// Validation returns a VAL_001 validation error.
func Validation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest)
}

func ErrCollateralRequired() *AppError {
	return New(CodeCollateralRequired, "loan amount exceeds balance; collateral required", http.StatusBadRequest)
}

func ErrDuplicatePending() *AppError {
	return New(CodeDuplicatePending, "a pending loan application already exists", http.StatusConflict)
}

func ErrStaleSettings(submitted, current int64) *AppError {
	return New(CodeStaleSettings,
		fmt.Sprintf("loan settings changed (submitted version %d, current version %d); reload options", submitted, current),
		http.StatusConflict)
}

func ErrInsufficientBalance() *AppError {
	return New(CodeInsufficientBalance, "insufficient member balance", http.StatusUnprocessableEntity)
}

// ---- Configuration (CFG) ----

func ErrNotConfigured(loanType string, term int) *AppError {
	return New(CodeNotConfigured,
		fmt.Sprintf("no interest rate configured for %s loans over %d months", loanType, term),
		http.StatusUnprocessableEntity)
}

// ---- Ledger (LED) ----

func ErrNotFound(entity string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrMemberNotFound(memberID string) *AppError {
	return New(CodeMemberNotFound, fmt.Sprintf("member %s not found", memberID), http.StatusNotFound)
}

// ErrStorageFailure reports the ordered write step that failed. Earlier steps
// are left applied; the resolution can be resumed.
func ErrStorageFailure(step int, name string, err error) *AppError {
	return Wrap(CodeStorageFailure,
		fmt.Sprintf("storage failure at step %d (%s)", step, name),
		http.StatusInternalServerError, err)
}

func ErrInvalidTransition(from, to string) *AppError {
	return New(CodeInvalidTransition, fmt.Sprintf("cannot move request from %s to %s", from, to), http.StatusConflict)
}

func ErrLockTimeout(err error) *AppError {
	return Wrap(CodeLockTimeout, "Lock acquisition timeout", http.StatusServiceUnavailable, err)
}

// ErrLoanInFlight refuses a repayment while an earlier resolution on the
// same loan has not finished its writes.
func ErrLoanInFlight(loanTxnID, blocking string) *AppError {
	return New(CodeLoanInFlight,
		fmt.Sprintf("loan %s has an unfinished resolution (%s); reconcile it first", loanTxnID, blocking),
		http.StatusConflict)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)
}

func ErrForbidden() *AppError {
	return New(CodeForbidden, "Staff role required", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New(CodeRateLimit, "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap(CodeInternal, "Internal server error", http.StatusInternalServerError, err)
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == code
}
