package domain

import (
	"errors"
	"fmt"
)

// ErrorKind identifies which precondition an operation violated.
type ErrorKind string

const (
	ErrUserNotEligible     ErrorKind = "USER_NOT_ELIGIBLE"
	ErrBookNotAvailable    ErrorKind = "BOOK_NOT_AVAILABLE"
	ErrNoCopiesAvailable   ErrorKind = "NO_COPIES_AVAILABLE"
	ErrBorrowLimitReached  ErrorKind = "BORROW_LIMIT_REACHED"
	ErrDuplicateBorrow     ErrorKind = "DUPLICATE_BORROW"
	ErrRecordNotFound      ErrorKind = "RECORD_NOT_FOUND"
	ErrRenewalNotAllowed   ErrorKind = "RENEWAL_NOT_ALLOWED"
	ErrInvalidDueDate      ErrorKind = "INVALID_DUE_DATE"
	ErrFineNotPayable      ErrorKind = "FINE_NOT_PAYABLE"
	ErrWaiveReasonRequired ErrorKind = "WAIVE_REASON_REQUIRED"
	ErrNotAuthorized       ErrorKind = "NOT_AUTHORIZED"
	ErrInvalidInput        ErrorKind = "INVALID_INPUT"
	ErrCategoryInUse       ErrorKind = "CATEGORY_IN_USE"
)

// ValidationError reports a violated precondition. It is always recoverable
// by the caller correcting its input.
type ValidationError struct {
	Kind    ErrorKind
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(kind ErrorKind, format string, args ...any) error {
	return &ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is a ValidationError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ve *ValidationError
	return errors.As(err, &ve) && ve.Kind == kind
}

// IntegrityError indicates data corruption or a bug, not bad caller input.
// The triggering operation must abort with no partial effect.
type IntegrityError struct {
	Message string
}

func (e *IntegrityError) Error() string {
	return "integrity violation: " + e.Message
}

// NewIntegrityError builds an IntegrityError with a formatted message.
func NewIntegrityError(format string, args ...any) error {
	return &IntegrityError{Message: fmt.Sprintf(format, args...)}
}

// IsIntegrityError reports whether err is an IntegrityError.
func IsIntegrityError(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}
