package services

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/profilekeeper/internal/client/credentials"
	"github.com/dmitrijs2005/profilekeeper/internal/validation"
)

var (
	ErrMissingFields = validation.ErrMissingFields
	ErrInvalidEmail  = validation.ErrInvalidEmail
	ErrInvalidPhone  = validation.ErrInvalidPhone

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateUsername  = credentials.ErrDuplicateUsername
	ErrBusy               = errors.New("another operation is in progress")
	ErrInvalidTransition  = errors.New("invalid session state transition")
)

// ValidationError is returned before any store is touched. Reason is one of
// ErrMissingFields, ErrInvalidEmail or ErrInvalidPhone.
type ValidationError struct {
	Reason error
}

func (e *ValidationError) Error() string { return "validation failed: " + e.Reason.Error() }

func (e *ValidationError) Unwrap() error { return e.Reason }

// StorageError wraps a failure of the key/value or credential store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage: %s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }
