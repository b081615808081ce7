package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failure for callers that need a machine-usable status.
type ErrorCode string

const (
	CodeValidation             ErrorCode = "VALIDATION"
	CodeInvalidRequest         ErrorCode = "INVALID_REQUEST"
	CodeInvalidDateRange       ErrorCode = "INVALID_DATE_RANGE"
	CodeInvalidPrice           ErrorCode = "INVALID_PRICE"
	CodeNotFound               ErrorCode = "NOT_FOUND"
	CodeUnavailable            ErrorCode = "UNAVAILABLE"
	CodeInsufficientStock      ErrorCode = "INSUFFICIENT_STOCK"
	CodeInsufficientFunds      ErrorCode = "INSUFFICIENT_FUNDS"
	CodeSelfTransaction        ErrorCode = "SELF_TRANSACTION"
	CodeForbidden              ErrorCode = "FORBIDDEN"
	CodeInvalidStateTransition ErrorCode = "INVALID_STATE_TRANSITION"
	CodeStorageFailure         ErrorCode = "STORAGE_FAILURE"
)

// Error is the structured error returned across the service boundary.
// Two Errors match under errors.Is when their codes are equal.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrValidation             = &Error{Code: CodeValidation, Message: "invalid input"}
	ErrInvalidRequest         = &Error{Code: CodeInvalidRequest, Message: "invalid request"}
	ErrInvalidDateRange       = &Error{Code: CodeInvalidDateRange, Message: "invalid rental dates"}
	ErrInvalidPrice           = &Error{Code: CodeInvalidPrice, Message: "invalid price"}
	ErrNotFound               = &Error{Code: CodeNotFound, Message: "not found"}
	ErrUnavailable            = &Error{Code: CodeUnavailable, Message: "not available"}
	ErrInsufficientStock      = &Error{Code: CodeInsufficientStock, Message: "insufficient stock"}
	ErrInsufficientFunds      = &Error{Code: CodeInsufficientFunds, Message: "insufficient balance"}
	ErrSelfTransaction        = &Error{Code: CodeSelfTransaction, Message: "cannot transact against your own listing"}
	ErrForbidden              = &Error{Code: CodeForbidden, Message: "forbidden"}
	ErrInvalidStateTransition = &Error{Code: CodeInvalidStateTransition, Message: "invalid state transition"}
	ErrStorageFailure         = &Error{Code: CodeStorageFailure, Message: "storage failure"}
)

// NewError builds an Error with a formatted message.
func NewError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// StorageError wraps an infrastructure error raised while performing op.
func StorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Code: CodeStorageFailure, Message: op + " failed", Err: err}
}

// CodeOf returns the code carried by err, or CodeStorageFailure for
// errors that did not originate in this package.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeStorageFailure
}
