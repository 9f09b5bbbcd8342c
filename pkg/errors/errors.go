package errors

import (
	"errors"
	"fmt"
	"net/http"

	"duplo-orders/domain/order"
	"duplo-orders/domain/transaction"
)

// ErrorCode application error code
type ErrorCode string

const (
	// Generic codes
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeTooManyRequest ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"

	// Business codes
	CodeOrderNotFound        ErrorCode = "ORDER_NOT_FOUND"
	CodeTransactionNotFound  ErrorCode = "TRANSACTION_NOT_FOUND"
	CodeDuplicateOrderNumber ErrorCode = "DUPLICATE_ORDER_NUMBER"
)

// AppError application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode maps the code to an HTTP status
func (e *AppError) HTTPStatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound, CodeOrderNotFound, CodeTransactionNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeDuplicateOrderNumber:
		return http.StatusConflict
	case CodeTooManyRequest:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// New creates a new error
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an underlying error
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common constructors

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message)
}

func TooManyRequests(message string) *AppError {
	return New(CodeTooManyRequest, message)
}

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

// Is checks whether err carries the given code
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// FromDomainError maps domain errors to application errors.
// Validation and not-found errors stay specific and client-facing;
// anything unrecognized collapses into an opaque internal error.
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		return New(CodeOrderNotFound, "order not found")
	case errors.Is(err, transaction.ErrTransactionNotFound):
		return New(CodeTransactionNotFound, "transaction not found")
	case errors.Is(err, order.ErrDuplicateOrderNumber):
		return New(CodeDuplicateOrderNumber, "order number already exists")
	case errors.Is(err, order.ErrEmptyItems),
		errors.Is(err, order.ErrBlankItemName),
		errors.Is(err, order.ErrInvalidQuantity),
		errors.Is(err, order.ErrNegativeUnitPrice),
		errors.Is(err, order.ErrMissingBusinessID),
		errors.Is(err, order.ErrMissingDepartmentID):
		return Wrap(err, CodeValidation, err.Error())
	default:
		return Wrap(err, CodeInternal, "internal server error")
	}
}
