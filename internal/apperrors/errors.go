package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates that the operation conflicts with the current state of a resource.
var ErrConflict = errors.New("resource state conflict")

// ErrInternal indicates an unexpected internal failure that the caller cannot correct.
var ErrInternal = errors.New("internal error")

// Chart-of-accounts errors.
var (
	// ErrDuplicateAccount indicates that an account number is already registered.
	ErrDuplicateAccount = fmt.Errorf("account number already registered: %w", ErrConflict)
	// ErrUnknownAccount indicates that a posting references an unregistered account number.
	ErrUnknownAccount = fmt.Errorf("unknown account number: %w", ErrNotFound)
	// ErrAccountKindMismatch indicates that an account is not of the kind an operation requires.
	ErrAccountKindMismatch = fmt.Errorf("account kind mismatch: %w", ErrValidation)
	// ErrAccountNotPostable indicates that an account cannot take the attempted posting,
	// either because it is inactive or because the monetary direction does not fit its kind.
	ErrAccountNotPostable = fmt.Errorf("account not postable: %w", ErrValidation)
	// ErrAccountNotTransit indicates that a transit operation referenced a non-transit account.
	ErrAccountNotTransit = fmt.Errorf("account is not a transit account: %w", ErrValidation)
	// ErrAccountInUse indicates that an account with historical postings was refused deactivation.
	ErrAccountInUse = fmt.Errorf("account is referenced by postings: %w", ErrConflict)
)

// Ledger errors.
var (
	// ErrInvalidPosting indicates a malformed entry: mixed cash/bank movement,
	// negative or all-zero amounts, or a posting date outside the fiscal year.
	ErrInvalidPosting = fmt.Errorf("invalid posting: %w", ErrValidation)
	// ErrYearClosed indicates that the (organization, fiscal year) scope already has a
	// year-end closing and accepts no further postings or reversals.
	ErrYearClosed = fmt.Errorf("fiscal year is closed: %w", ErrConflict)
	// ErrAlreadyReversed indicates that the targeted entry has already been reversed.
	ErrAlreadyReversed = fmt.Errorf("entry already reversed: %w", ErrConflict)
)

// Year-end closing errors.
var (
	// ErrAlreadyClosed indicates that a closing already exists for the (organization, year) scope.
	ErrAlreadyClosed = fmt.Errorf("year-end closing already exists: %w", ErrConflict)
	// ErrAlreadyAudited indicates that a closing has been audited and is immutable.
	ErrAlreadyAudited = fmt.Errorf("year-end closing already audited: %w", ErrConflict)
)

// Transit register errors.
var (
	// ErrInvalidAmount indicates a zero or negative amount where a positive one is required.
	ErrInvalidAmount = fmt.Errorf("amount must be positive: %w", ErrValidation)
	// ErrOverDisbursement indicates a disbursement that would exceed the received amount.
	ErrOverDisbursement = fmt.Errorf("disbursement exceeds received amount: %w", ErrConflict)
	// ErrItemAlreadySettled indicates a disbursement against a fully settled transit item.
	ErrItemAlreadySettled = fmt.Errorf("transit item already settled: %w", ErrConflict)
)

// AppError wraps an infrastructure failure with a status code and context message.
// The core never interprets these; they surface to the caller unchanged.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound via errors.Is.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
