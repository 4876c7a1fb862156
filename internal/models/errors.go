package models

import (
	"errors"
	"fmt"
)

// ValidationError reports input the core refuses to store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an operation that targets a missing record.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

var (
	// ErrEmailTaken is returned by signup when the email is already registered.
	ErrEmailTaken = errors.New("an account with this email already exists")
	// ErrInvalidCredentials is returned by login on any email/password mismatch.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
