package apperror

import (
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

// ---- Structural failures (STRUCT) ----
//
// These are fatal: the whole run aborts and no snapshot is rendered.

// ErrInvalidRecord marks a record that fails the structural validity
// invariant (amount presence does not match the transaction type).
func ErrInvalidRecord(clientID uint16, transactionID uint32) *AppError {
	return New("STRUCT_001",
		fmt.Sprintf("invalid transaction record (client %d, tx %d)", clientID, transactionID),
		http.StatusBadRequest)
}

// ErrMalformedInput marks an input stream that could not be decoded.
func ErrMalformedInput(err error) *AppError {
	return Wrap("STRUCT_002", "malformed transaction input", http.StatusBadRequest, err)
}

// ---- Internal consistency (LOOKUP) ----
//
// These should never occur in correct use; they are faults, not business
// outcomes, and abort the run.

// ErrInternalLookup marks a missing account or details entry that a prior
// presence check guaranteed to exist.
func ErrInternalLookup(err error) *AppError {
	return Wrap("LOOKUP_001", "internal consistency violation", http.StatusInternalServerError, err)
}

// ---- HTTP surface (VAL / SYS) ----

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

// ErrBodyTooLarge marks a request body over the configured cap.
func ErrBodyTooLarge() *AppError {
	return New("VAL_002", "Request body too large", http.StatusRequestEntityTooLarge)
}

// InternalError wraps an unexpected error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
