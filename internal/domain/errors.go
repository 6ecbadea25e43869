package domain

import (
	"errors"
	"fmt"

	"github.com/nikolayk812/notesmarket/internal/validate"
)

var (
	ErrInvalidEmail = errors.New("invalid email format")
	ErrWeakPassword = errors.New("password is too short")
	ErrEmptyField   = errors.New("required field is empty")
	ErrInvalidRole  = errors.New("invalid role")

	ErrStorageWrite = errors.New("storage write failed")
	ErrStorageRead  = errors.New("storage read failed")

	ErrEmptyCart       = errors.New("cart is empty, nothing to checkout")
	ErrNothingToPay    = errors.New("cart total is zero, nothing to pay")
	ErrInvalidPayment  = errors.New("invalid payment request")
	ErrUnauthenticated = errors.New("no active session")
	ErrForbidden       = errors.New("role is not allowed")
)

// ValidationError carries per-field messages; Unwrap yields the kind so
// callers can match it with errors.Is.
type ValidationError struct {
	Kind   error
	Fields validate.Errors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Fields.String())
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}
