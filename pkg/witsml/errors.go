package witsml

import (
	"errors"
	"fmt"
)

const (
	CodeValidation  = "E_VALIDATION"
	CodeNotFound    = "E_NOT_FOUND"
	CodeLookup      = "E_LOOKUP"
	CodeTransaction = "E_TRANSACTION"
)

// Error wraps store failures with a stable code and a retryability hint.
// Transaction failures are retryable; the rest need a corrected request.
type Error struct {
	Code      string
	Retryable bool
	Err       error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *Error) Unwrap() error         { return e.Err }
func (e *Error) CodeValue() string     { return e.Code }
func (e *Error) RetryableStatus() bool { return e.Retryable }

func wrapError(code string, retryable bool, err error) *Error {
	if err == nil {
		return &Error{Code: code, Retryable: retryable}
	}
	return &Error{Code: code, Retryable: retryable, Err: err}
}

// Validationf reports a malformed or inconsistent input object.
func Validationf(format string, args ...any) *Error {
	return wrapError(CodeValidation, false, fmt.Errorf(format, args...))
}

// NotFoundf reports an operation against an object that does not exist.
func NotFoundf(format string, args ...any) *Error {
	return wrapError(CodeNotFound, false, fmt.Errorf(format, args...))
}

// Lookupf reports a failed reference resolution, such as an unknown unit
// symbol or a dangling curve reference.
func Lookupf(format string, args ...any) *Error {
	return wrapError(CodeLookup, false, fmt.Errorf(format, args...))
}

// TransactionErr wraps a storage-layer failure. The original driver error
// stays reachable through Unwrap.
func TransactionErr(err error) *Error {
	return wrapError(CodeTransaction, true, err)
}

func hasCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

func IsValidation(err error) bool  { return hasCode(err, CodeValidation) }
func IsNotFound(err error) bool    { return hasCode(err, CodeNotFound) }
func IsLookup(err error) bool      { return hasCode(err, CodeLookup) }
func IsTransaction(err error) bool { return hasCode(err, CodeTransaction) }
